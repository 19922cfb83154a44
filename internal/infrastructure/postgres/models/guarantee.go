package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type GuaranteePlanModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	OrganizationID   string `gorm:"type:uuid;index"`
	Name             string
	Amount           decimal.Decimal `gorm:"type:numeric(18,2)"`
	LatePenalty      decimal.Decimal `gorm:"type:numeric(18,2)"`
	PenaltyPerMinute bool
	DriveType        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (GuaranteePlanModel) TableName() string { return "daily_garant" }

type GuaranteeTaskModel struct {
	ID            string    `gorm:"primaryKey;type:uuid"`
	PlanID        string    `gorm:"type:uuid;uniqueIndex:idx_task_plan_courier_day"`
	CourierID     string    `gorm:"type:uuid;uniqueIndex:idx_task_plan_courier_day"`
	Day           time.Time `gorm:"uniqueIndex:idx_task_plan_courier_day"`
	Status        string
	Payable       decimal.Decimal `gorm:"type:numeric(18,2)"`
	Penalty       decimal.Decimal `gorm:"type:numeric(18,2)"`
	LedgerEntryID string
	CreatedAt     time.Time
}

func (GuaranteeTaskModel) TableName() string { return "daily_garant_tasks" }
