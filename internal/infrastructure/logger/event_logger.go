package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ShiftOpenedEvent is an audit row written for every successful shift
// open. Kept separate from the shift table so the audit trail survives
// any later reprocessing.
type ShiftOpenedEvent struct {
	ID              uint `gorm:"primaryKey"`
	RequestID       string
	ShiftID         string
	CourierID       string
	ScheduleID      string
	NominalDay      time.Time
	Late            bool
	LatenessMinutes int
	Lat             float64
	Lon             float64
	IP              string
	Timestamp       time.Time
}

type OpenRejectedEvent struct {
	ID        uint `gorm:"primaryKey"`
	RequestID string
	CourierID string
	Reason    string
	Lat       float64
	Lon       float64
	IP        string
	Timestamp time.Time
}

type ShiftEventLogger interface {
	LogShiftOpened(ctx context.Context, event ShiftOpenedEvent) error
	LogOpenRejected(ctx context.Context, event OpenRejectedEvent) error
}

type PGShiftEventLogger struct {
	db *gorm.DB
}

func NewPGShiftEventLogger(db *gorm.DB) *PGShiftEventLogger {
	return &PGShiftEventLogger{db: db}
}

func (l *PGShiftEventLogger) LogShiftOpened(ctx context.Context, event ShiftOpenedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGShiftEventLogger) LogOpenRejected(ctx context.Context, event OpenRejectedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
