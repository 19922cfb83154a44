package domain

import "time"

type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "OPEN"
	ShiftClosed ShiftStatus = "CLOSED"
)

// ShiftEntry is one physical open-to-close work session. Created by the
// shift usecase at open, mutated only by close, never deleted.
type ShiftEntry struct {
	ID         string
	CourierID  string
	ScheduleID string
	Status     ShiftStatus
	Late       bool

	OpenedAt time.Time
	OpenLat  float64
	OpenLon  float64
	OpenIP   string

	ClosedAt *time.Time
	CloseLat float64
	CloseLon float64
	CloseIP  string
	// DurationSeconds is elapsed open-to-close time, set at close.
	DurationSeconds int64
}

// AttendanceRecord is the exactly-once fact that a courier showed up for
// a nominal shift day. The nominal day is the midnight-anchored date of
// the schedule window, not necessarily the calendar date of the open
// event. First arrival of the day fixes the lateness fields.
type AttendanceRecord struct {
	ID              string
	CourierID       string
	ScheduleID      string
	NominalDay      time.Time
	Late            bool
	LatenessMinutes int
	CreatedAt       time.Time
}

type ShiftRepository interface {
	// GetOpenShift returns the courier's open shift, or nil when none.
	GetOpenShift(courierID string) (*ShiftEntry, error)
	// OpenShift persists the shift entry and get-or-creates the attendance
	// record for (courier, nominal day) in one atomic unit. The returned
	// record is the effective one: when a record for the day already
	// exists its lateness fields are kept and att is discarded.
	OpenShift(shift *ShiftEntry, att *AttendanceRecord) (*AttendanceRecord, error)
	CloseShift(shift *ShiftEntry) error
	// ListStaleOpen returns shifts open since before the deadline.
	ListStaleOpen(openedBefore time.Time) ([]*ShiftEntry, error)
}

type AttendanceRepository interface {
	GetByCourierDay(courierID string, day time.Time) (*AttendanceRecord, error)
	// ListUnsettled returns attendance records for the given nominal day
	// that have no guarantee task yet.
	ListUnsettled(day time.Time) ([]*AttendanceRecord, error)
	// CountWorkedDays returns distinct nominal days per courier in range.
	CountWorkedDays(courierIDs []string, from, to time.Time) (map[string]int, error)
}
