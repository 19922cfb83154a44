package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuaranteePlan is a named minimum-earnings guarantee. A courier is
// enrolled in at most one plan at a time.
type GuaranteePlan struct {
	ID             string
	OrganizationID string
	Name           string
	Amount         decimal.Decimal
	// LatePenalty is subtracted once when the worked day was late.
	LatePenalty decimal.Decimal
	// PenaltyPerMinute switches the penalty to LatePenalty scaled by
	// lateness minutes, capped at LatePenalty itself.
	PenaltyPerMinute bool
	// DriveType scopes the plan; empty applies to all drive types.
	DriveType DriveType
}

// Penalty computes the amount withheld for the given lateness.
func (p *GuaranteePlan) Penalty(late bool, latenessMinutes int) decimal.Decimal {
	if !late {
		return decimal.Zero
	}
	if p.PenaltyPerMinute {
		perMinute := p.LatePenalty.Div(decimal.NewFromInt(60))
		scaled := perMinute.Mul(decimal.NewFromInt(int64(latenessMinutes)))
		if scaled.GreaterThan(p.LatePenalty) {
			return p.LatePenalty
		}
		return scaled
	}
	return p.LatePenalty
}

// Payable is the guaranteed top-up after the penalty, clamped at zero.
func (p *GuaranteePlan) Payable(late bool, latenessMinutes int) (payable, penalty decimal.Decimal) {
	penalty = p.Penalty(late, latenessMinutes)
	payable = p.Amount.Sub(penalty)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	return payable, penalty
}

type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskApplied TaskStatus = "APPLIED"
	TaskSkipped TaskStatus = "SKIPPED"
)

// GuaranteeTask links a plan, a courier and a worked nominal day. At
// most one task exists per (plan, courier, day).
type GuaranteeTask struct {
	ID        string
	PlanID    string
	CourierID string
	Day       time.Time
	Status    TaskStatus
	Payable   decimal.Decimal
	Penalty   decimal.Decimal
	// LedgerEntryID references the daily_garant posting made for this task.
	LedgerEntryID string
	CreatedAt     time.Time
}

type PlanRepository interface {
	GetByID(planID string) (*GuaranteePlan, error)
	ListAll() ([]*GuaranteePlan, error)
}

type GuaranteeTaskRepository interface {
	GetByPlanCourierDay(planID, courierID string, day time.Time) (*GuaranteeTask, error)
	// Apply creates the task and posts the paired daily_garant ledger
	// entry in one atomic unit; neither survives without the other.
	Apply(task *GuaranteeTask, entry *LedgerEntry) error
}
