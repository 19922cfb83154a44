package models

import "time"

type ShiftEntryModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	CourierID  string `gorm:"type:uuid;index:idx_shift_courier_status;index:idx_shift_single_open,unique,where:status = 'OPEN'"`
	ScheduleID string `gorm:"type:uuid"`
	Status     string `gorm:"index:idx_shift_courier_status"`
	Late       bool

	OpenedAt time.Time `gorm:"index"`
	OpenLat  float64
	OpenLon  float64
	OpenIP   string

	ClosedAt        *time.Time
	CloseLat        float64
	CloseLon        float64
	CloseIP         string
	DurationSeconds int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ShiftEntryModel) TableName() string { return "work_schedule_entries" }

// AttendanceModel carries the exactly-once invariant in its unique
// index: at most one row per (courier, nominal day).
type AttendanceModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	CourierID       string    `gorm:"type:uuid;uniqueIndex:idx_timesheet_courier_day"`
	ScheduleID      string    `gorm:"type:uuid"`
	NominalDay      time.Time `gorm:"uniqueIndex:idx_timesheet_courier_day"`
	Late            bool
	LatenessMinutes int
	CreatedAt       time.Time
}

func (AttendanceModel) TableName() string { return "timesheet" }
