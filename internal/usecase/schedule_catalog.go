package usecase

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/courierhub/shift-settlement-service/internal/domain"
)

// ScheduleSource supplies schedule definitions; backed by the snapshot
// cache with a read-through to the store.
type ScheduleSource interface {
	SchedulesByCourier(courierID string) ([]*domain.WorkSchedule, error)
}

// ScheduleCatalog resolves which schedule occurrences could be active
// for a courier at a point in time. Because a window's end may be
// numerically before its start, every schedule yields two candidate
// anchors (today and yesterday) and the catalog keeps the plausible
// ones. No side effects.
type ScheduleCatalog struct {
	Source ScheduleSource
	// DayBoundaryHour decides today-vs-yesterday anchoring near shift
	// handover hours when no window strictly contains the instant.
	DayBoundaryHour int
}

func NewScheduleCatalog(source ScheduleSource, dayBoundaryHour int) *ScheduleCatalog {
	return &ScheduleCatalog{Source: source, DayBoundaryHour: dayBoundaryHour}
}

// SchedulesFor returns candidate windows ordered by preference: windows
// containing asOf first, then by start closest to asOf without being in
// the future.
func (c *ScheduleCatalog) SchedulesFor(courierID string, asOf time.Time) ([]domain.ScheduleWindow, error) {
	schedules, err := c.Source.SchedulesByCourier(courierID)
	if err != nil {
		return nil, err
	}

	today := midnight(asOf)
	yesterday := today.AddDate(0, 0, -1)

	var windows []domain.ScheduleWindow
	for _, s := range schedules {
		for _, anchor := range []time.Time{today, yesterday} {
			occurs, err := scheduleOccursOn(s, anchor)
			if err != nil {
				return nil, err
			}
			if !occurs {
				continue
			}
			w := anchorWindow(s, anchor)
			if anchor.Equal(yesterday) && !w.Contains(asOf) {
				// Yesterday's occurrence is only a candidate while its
				// overnight tail still covers the instant.
				continue
			}
			windows = append(windows, w)
		}
	}

	sort.SliceStable(windows, func(i, j int) bool {
		wi, wj := windows[i], windows[j]
		ci, cj := wi.Contains(asOf), wj.Contains(asOf)
		if ci != cj {
			return ci
		}
		pi, pj := !wi.Start.After(asOf), !wj.Start.After(asOf)
		if pi != pj {
			return pi
		}
		if pi {
			// Both started already: latest start wins.
			return wi.Start.After(wj.Start)
		}
		// Both in the future: earliest start wins.
		return wi.Start.Before(wj.Start)
	})

	return windows, nil
}

// anchorWindow materializes one occurrence of the schedule on the given
// anchor date, pushing end and cutoff to the next day when the raw
// times wrap past midnight.
func anchorWindow(s *domain.WorkSchedule, anchor time.Time) domain.ScheduleWindow {
	start := s.Start.On(anchor)
	end := s.End.On(anchor)
	if s.CrossesMidnight() {
		end = end.AddDate(0, 0, 1)
	}
	cutoff := s.MaxStart.On(anchor)
	if s.CrossesMidnight() || s.MaxStart.Minutes() < s.Start.Minutes() {
		// An overnight window stays joinable past midnight, so its
		// grace cutoff rides on the end side of the window. A cutoff
		// numerically before the start wraps the same way.
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return domain.ScheduleWindow{
		Schedule:   s,
		NominalDay: anchor,
		Start:      start,
		End:        end,
		Cutoff:     cutoff,
	}
}

func scheduleOccursOn(s *domain.WorkSchedule, day time.Time) (bool, error) {
	rule, err := rrule.StrToRRule(s.Recurrence)
	if err != nil {
		return false, domain.NewError(domain.KindInvalid, "schedule %s: bad recurrence rule: %v", s.ID, err)
	}
	rule.DTStart(day.AddDate(-1, 0, 0))
	occ := rule.Between(day, day.AddDate(0, 0, 1).Add(-time.Second), true)
	return len(occ) > 0, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
