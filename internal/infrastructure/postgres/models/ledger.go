package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	CourierID      string `gorm:"type:uuid;index:idx_tx_courier_terminal"`
	TerminalID     string `gorm:"type:uuid;index:idx_tx_courier_terminal"`
	OrganizationID string `gorm:"type:uuid"`
	Amount         decimal.Decimal `gorm:"type:numeric(18,2)"`
	Status         string          `gorm:"index"`
	Type           string          `gorm:"index"`
	BalanceBefore  decimal.Decimal `gorm:"type:numeric(18,2)"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(18,2)"`
	Comment        string
	OrderID        string
	IdempotencyKey *string `gorm:"uniqueIndex"`
	ManagerID      string
	CreatedAt      time.Time `gorm:"index"`
}

func (LedgerEntryModel) TableName() string { return "order_transactions" }

type TerminalBalanceModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	CourierID      string `gorm:"type:uuid;uniqueIndex:idx_balance_courier_terminal"`
	TerminalID     string `gorm:"type:uuid;uniqueIndex:idx_balance_courier_terminal"`
	OrganizationID string `gorm:"type:uuid"`
	Balance        decimal.Decimal `gorm:"type:numeric(18,2)"`
	UpdatedAt      time.Time
}

func (TerminalBalanceModel) TableName() string { return "courier_terminal_balance" }

// ManagerWithdrawModel is the audit row paired with every
// manager_withdraw ledger entry, with the amount window fixed at write
// time.
type ManagerWithdrawModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	LedgerEntryID string `gorm:"type:uuid;index"`
	ManagerID     string `gorm:"type:uuid"`
	CourierID     string `gorm:"type:uuid"`
	TerminalID    string `gorm:"type:uuid"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,2)"`
	AmountBefore  decimal.Decimal `gorm:"type:numeric(18,2)"`
	AmountAfter   decimal.Decimal `gorm:"type:numeric(18,2)"`
	Comment       string
	CreatedAt     time.Time
}

func (ManagerWithdrawModel) TableName() string { return "manager_withdraw" }
