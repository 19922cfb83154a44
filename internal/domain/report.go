package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FilterField string

const (
	FilterOrganization FilterField = "organization_id"
	FilterTerminal     FilterField = "terminal_id"
	FilterCourier      FilterField = "courier_id"
	FilterDriveType    FilterField = "drive_type"
	FilterStatus       FilterField = "status"
)

type FilterOp string

const (
	OpEq FilterOp = "eq"
	OpIn FilterOp = "in"
)

// Filter is one predicate of the report filter expression. Fields and
// operators are validated against the fixed schema above; free-form
// filter strings are rejected at the boundary.
type Filter struct {
	Field  FilterField
	Op     FilterOp
	Values []string
}

var validFilterFields = map[FilterField]bool{
	FilterOrganization: true,
	FilterTerminal:     true,
	FilterCourier:      true,
	FilterDriveType:    true,
	FilterStatus:       true,
}

func (f Filter) Validate() error {
	if !validFilterFields[f.Field] {
		return NewError(KindInvalid, "unknown filter field %q", f.Field)
	}
	switch f.Op {
	case OpEq:
		if len(f.Values) != 1 {
			return NewError(KindInvalid, "filter %q: eq takes exactly one value", f.Field)
		}
	case OpIn:
		if len(f.Values) == 0 {
			return NewError(KindInvalid, "filter %q: in takes at least one value", f.Field)
		}
	default:
		return NewError(KindInvalid, "unknown filter operator %q", f.Op)
	}
	return nil
}

// Match applies the predicate to a settlement row.
func (f Filter) Match(row *SettlementRow) bool {
	var v string
	switch f.Field {
	case FilterOrganization:
		v = row.OrganizationID
	case FilterTerminal:
		v = row.TerminalID
	case FilterCourier:
		v = row.CourierID
	case FilterDriveType:
		v = string(row.DriveType)
	case FilterStatus:
		v = row.Status
	}
	for _, want := range f.Values {
		if v == want {
			return true
		}
	}
	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SettlementRow is the per-courier reconciliation of earnings against
// guarantee payouts for a reporting period.
type SettlementRow struct {
	CourierID      string
	CourierName    string
	TerminalID     string
	OrganizationID string
	DriveType      DriveType
	Status         string

	DeliveryPrice decimal.Decimal
	BonusTotal    decimal.Decimal
	GarantTotal   decimal.Decimal
	// BalanceToPay is the net amount still owed to the courier:
	// delivery earnings plus bonuses minus garant already disbursed
	// through the ledger.
	BalanceToPay decimal.Decimal

	OrdersCount     int
	BeginDate       *time.Time
	LastOrderDate   *time.Time
	OrderDatesCount int
}

// TerminalGroup is one grouped block of the report with its subtotal.
type TerminalGroup struct {
	TerminalID        string
	OrganizationID    string
	Rows              []*SettlementRow
	TotalBalanceToPay decimal.Decimal
}

// SettlementReport is either grouped by terminal or a flat sorted list;
// the two view modes are mutually exclusive.
type SettlementReport struct {
	From   time.Time
	To     time.Time
	Groups []*TerminalGroup
	Flat   []*SettlementRow
}
