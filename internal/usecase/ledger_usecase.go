package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/metrics"
)

// postRetries bounds retries of the atomic read-modify-write unit when
// the store aborts it under contention.
const postRetries = 3

type PostInput struct {
	CourierID      string
	TerminalID     string
	OrganizationID string
	Amount         decimal.Decimal
	Type           domain.TransactionType
	Comment        string
	OrderID        string
	IdempotencyKey string
	ManagerID      string
	Pending        bool
}

type LedgerUsecase interface {
	Post(input PostInput) (*domain.LedgerEntry, error)
	Withdraw(managerID, courierID, terminalID string, amount decimal.Decimal, comment string) (*domain.LedgerEntry, error)
	TerminalBalances(filter domain.BalanceFilter) ([]*domain.TerminalBalance, error)
}

// DefaultLedgerUsecase is the single mutation path for terminal
// balances: every balance change goes through Post.
type DefaultLedgerUsecase struct {
	LedgerRepo domain.LedgerRepository
	Terminals  TerminalSource
	Metrics    *metrics.ShiftMetrics
	Now        func() time.Time
}

func NewDefaultLedgerUsecase(ledgerRepo domain.LedgerRepository, terminals TerminalSource, shiftMetrics *metrics.ShiftMetrics) *DefaultLedgerUsecase {
	return &DefaultLedgerUsecase{
		LedgerRepo: ledgerRepo,
		Terminals:  terminals,
		Metrics:    shiftMetrics,
		Now:        time.Now,
	}
}

func (uc *DefaultLedgerUsecase) Post(input PostInput) (*domain.LedgerEntry, error) {
	if input.IdempotencyKey != "" {
		existing, err := uc.LedgerRepo.GetByIdempotencyKey(input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	orgID := input.OrganizationID
	if orgID == "" {
		terminal, err := uc.Terminals.TerminalByID(input.TerminalID)
		if err != nil {
			return nil, err
		}
		orgID = terminal.OrganizationID
	}

	status := domain.EntrySuccess
	if input.Pending {
		status = domain.EntryPending
	}

	entry := &domain.LedgerEntry{
		ID:             uuid.New().String(),
		CourierID:      input.CourierID,
		TerminalID:     input.TerminalID,
		OrganizationID: orgID,
		Amount:         input.Amount,
		Status:         status,
		Type:           input.Type,
		Comment:        input.Comment,
		OrderID:        input.OrderID,
		IdempotencyKey: input.IdempotencyKey,
		ManagerID:      input.ManagerID,
		CreatedAt:      uc.Now(),
	}

	var err error
	for attempt := 0; attempt < postRetries; attempt++ {
		err = uc.LedgerRepo.Post(entry)
		if err == nil {
			if uc.Metrics != nil {
				amountAbs, _ := entry.Amount.Abs().Float64()
				uc.Metrics.RecordLedgerEntry(string(entry.Type), amountAbs)
			}
			return entry, nil
		}
		if !errors.Is(err, domain.ErrContention) {
			break
		}
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordLedgerError(string(entry.Type))
	}
	return nil, err
}

// Withdraw posts a negated amount tagged manager_withdraw. The manager
// identity must differ from the courier and the amount may not exceed
// the current balance.
func (uc *DefaultLedgerUsecase) Withdraw(managerID, courierID, terminalID string, amount decimal.Decimal, comment string) (*domain.LedgerEntry, error) {
	if managerID == "" || managerID == courierID {
		return nil, domain.ErrSelfWithdraw
	}
	if !amount.IsPositive() {
		return nil, domain.NewError(domain.KindInvalid, "withdraw amount must be positive")
	}

	balance, err := uc.LedgerRepo.GetBalance(courierID, terminalID)
	if err != nil {
		return nil, err
	}
	if balance == nil || balance.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientBalance
	}

	return uc.Post(PostInput{
		CourierID:  courierID,
		TerminalID: terminalID,
		Amount:     amount.Neg(),
		Type:       domain.TxManagerWithdraw,
		Comment:    comment,
		ManagerID:  managerID,
	})
}

func (uc *DefaultLedgerUsecase) TerminalBalances(filter domain.BalanceFilter) ([]*domain.TerminalBalance, error) {
	for _, s := range filter.Statuses {
		switch s {
		case domain.CourierOnline, domain.CourierOffline:
		default:
			return nil, domain.NewError(domain.KindInvalid, "unknown courier status %q", s)
		}
	}
	return uc.LedgerRepo.ListBalances(filter)
}
