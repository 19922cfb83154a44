package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxOrderBonus      TransactionType = "order_bonus"
	TxDailyGarant     TransactionType = "daily_garant"
	TxTerminalBalance TransactionType = "courier_terminal_balance"
	TxManagerWithdraw TransactionType = "manager_withdraw"
)

type EntryStatus string

const (
	EntryPending EntryStatus = "PENDING"
	EntrySuccess EntryStatus = "SUCCESS"
	EntryFailed  EntryStatus = "FAILED"
)

// LedgerEntry is an append-only balance change. The core invariant:
// BalanceAfter = BalanceBefore + Amount, and the BalanceAfter of the
// latest successful entry for a (courier, terminal) pair equals the
// materialized TerminalBalance.
type LedgerEntry struct {
	ID             string
	CourierID      string
	TerminalID     string
	OrganizationID string
	Amount         decimal.Decimal
	Status         EntryStatus
	Type           TransactionType
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Comment        string
	OrderID        string
	// IdempotencyKey dedupes postings from callers that may double
	// submit, e.g. the finished-order webhook. Empty disables dedup.
	IdempotencyKey string
	// ManagerID is set on manager_withdraw entries only.
	ManagerID string
	CreatedAt time.Time
}

// TerminalBalance is the materialized current balance per courier and
// terminal. Written only as the paired write of a new LedgerEntry.
type TerminalBalance struct {
	ID             string
	CourierID      string
	TerminalID     string
	OrganizationID string
	Balance        decimal.Decimal
	UpdatedAt      time.Time
}

// Courier presence values accepted by BalanceFilter.Statuses.
const (
	CourierOnline  = "online"
	CourierOffline = "offline"
)

type BalanceFilter struct {
	CourierIDs  []string
	TerminalIDs []string
	// Statuses narrows rows to couriers in the given presence states.
	Statuses []string
	// PositiveOnly keeps rows with balance > 0.
	PositiveOnly bool
}

type LedgerRepository interface {
	// Post atomically reads the current terminal balance (0 when absent),
	// fills BalanceBefore/BalanceAfter on the entry, appends it and
	// updates the materialized balance. Concurrent posts for the same
	// (courier, terminal) pair are linearized; returns ErrContention
	// when the store aborts the unit.
	Post(entry *LedgerEntry) error
	GetByIdempotencyKey(key string) (*LedgerEntry, error)
	GetBalance(courierID, terminalID string) (*TerminalBalance, error)
	ListBalances(filter BalanceFilter) ([]*TerminalBalance, error)
	// SumByType aggregates successful entry amounts per courier for one
	// transaction type within [from, to].
	SumByType(courierIDs []string, txType TransactionType, from, to time.Time) (map[string]decimal.Decimal, error)
}
