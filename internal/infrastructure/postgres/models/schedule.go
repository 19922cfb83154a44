package models

import "time"

type WorkScheduleModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	OrganizationID string `gorm:"type:uuid;index"`
	Name           string
	// Recurrence is a weekly RRULE carrying the active weekday set.
	Recurrence   string
	StartTime    string // "15:04"
	EndTime      string
	MaxStartTime string
	BonusAmount  int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (WorkScheduleModel) TableName() string { return "work_schedules" }

// CourierScheduleModel is the many-to-many link between couriers and
// schedules.
type CourierScheduleModel struct {
	CourierID  string `gorm:"primaryKey;type:uuid"`
	ScheduleID string `gorm:"primaryKey;type:uuid"`
}

func (CourierScheduleModel) TableName() string { return "users_work_schedules" }
