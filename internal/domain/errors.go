package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a business error so the delivery layer can map it
// to a transport status without inspecting messages.
type Kind string

const (
	KindConflict           Kind = "CONFLICT"
	KindForbidden          Kind = "FORBIDDEN"
	KindFailedPrecondition Kind = "FAILED_PRECONDITION"
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalid            Kind = "INVALID"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrKind extracts the taxonomy kind from err, or "" if err is not a
// business error.
func ErrKind(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

var (
	ErrShiftAlreadyOpen    = &Error{Kind: KindConflict, Message: "courier already has an open shift"}
	ErrNotCourier          = &Error{Kind: KindForbidden, Message: "user is not an eligible courier"}
	ErrNoTerminal          = &Error{Kind: KindFailedPrecondition, Message: "courier has no assigned terminal"}
	ErrTooFarFromTerminal  = &Error{Kind: KindFailedPrecondition, Message: "courier is too far from any assigned terminal"}
	ErrNoActiveSchedule    = &Error{Kind: KindFailedPrecondition, Message: "no active work schedule for courier"}
	ErrNoOpenShift         = &Error{Kind: KindNotFound, Message: "no open shift to close"}
	ErrInsufficientBalance = &Error{Kind: KindFailedPrecondition, Message: "insufficient terminal balance"}
	ErrCourierNotFound     = &Error{Kind: KindNotFound, Message: "courier not found"}
	ErrPlanNotFound        = &Error{Kind: KindNotFound, Message: "guarantee plan not found"}
	ErrSelfWithdraw        = &Error{Kind: KindForbidden, Message: "manager identity must differ from courier"}

	// ErrContention marks a durable-store conflict on the ledger
	// read-modify-write unit. Safe to retry.
	ErrContention = errors.New("ledger contention, retry")
)
