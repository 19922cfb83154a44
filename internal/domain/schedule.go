package domain

import (
	"fmt"
	"time"
)

// DayTime is a time of day with minute precision, independent of date.
type DayTime struct {
	Hour   int
	Minute int
}

// ParseDayTime parses "15:04" formatted values.
func ParseDayTime(s string) (DayTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return DayTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return DayTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (d DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

func (d DayTime) Minutes() int {
	return d.Hour*60 + d.Minute
}

// On anchors the time of day onto the given calendar date.
func (d DayTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), d.Hour, d.Minute, 0, 0, day.Location())
}

// WorkSchedule is a recurring shift definition owned by one organization.
// End may be numerically before Start: such a shift crosses midnight and
// the same-day vs next-day interpretation is resolved at evaluation time.
type WorkSchedule struct {
	ID             string
	OrganizationID string
	Name           string
	// Recurrence is a weekly RRULE (FREQ=WEEKLY;BYDAY=...) holding the
	// active weekday set.
	Recurrence string
	Start      DayTime
	End        DayTime
	// MaxStart is the grace cutoff: opening after it marks the shift late.
	MaxStart DayTime
	// BonusAmount is paid per completed shift on this schedule, in the
	// organization's currency minor units.
	BonusAmount int64
}

// CrossesMidnight reports whether the window wraps to the next day.
func (s *WorkSchedule) CrossesMidnight() bool {
	return s.End.Minutes() <= s.Start.Minutes()
}

// ScheduleWindow is one concrete occurrence of a schedule: the recurring
// definition anchored to a nominal day.
type ScheduleWindow struct {
	Schedule   *WorkSchedule
	NominalDay time.Time // midnight of the anchor date
	Start      time.Time
	End        time.Time
	Cutoff     time.Time // grace cutoff instant for this occurrence
}

// Contains reports whether t falls inside [Start, End).
func (w ScheduleWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

type ScheduleRepository interface {
	ListByCourier(courierID string) ([]*WorkSchedule, error)
	ListAll() ([]*WorkSchedule, error)
}
