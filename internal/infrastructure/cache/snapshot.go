package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/courierhub/shift-settlement-service/internal/domain"
)

// Loader pulls the full reference data set from the durable store.
type Loader interface {
	ListAllSchedules() ([]*domain.WorkSchedule, error)
	ListCourierScheduleLinks() (map[string][]string, error) // courierID -> scheduleIDs
	ListAllTerminals() ([]*domain.Terminal, error)
	ListCourierTerminalLinks() (map[string][]string, error) // courierID -> terminalIDs
	ListAllPlans() ([]*domain.GuaranteePlan, error)
}

type snapshot struct {
	schedulesByID      map[string]*domain.WorkSchedule
	schedulesByCourier map[string][]string
	terminalsByID      map[string]*domain.Terminal
	terminalsByCourier map[string][]string
	plansByID          map[string]*domain.GuaranteePlan
}

// Snapshot is a read-mostly copy of schedules, terminals, courier links
// and guarantee plans. It is refreshed as a whole on a ticker or on an
// explicit Invalidate; readers always see a consistent snapshot and
// tolerate at most one refresh interval of staleness. The cache never
// writes back to the store.
type Snapshot struct {
	loader Loader

	// Fallback repositories serve read-through on a miss, e.g. a
	// courier linked to a schedule created after the last refresh.
	ScheduleRepo domain.ScheduleRepository
	TerminalRepo domain.TerminalRepository
	PlanRepo     domain.PlanRepository

	mu   sync.RWMutex
	data *snapshot
}

func NewSnapshot(loader Loader) *Snapshot {
	return &Snapshot{loader: loader, data: &snapshot{}}
}

// Refresh rebuilds the snapshot from the store and swaps it in.
func (s *Snapshot) Refresh() error {
	schedules, err := s.loader.ListAllSchedules()
	if err != nil {
		return err
	}
	scheduleLinks, err := s.loader.ListCourierScheduleLinks()
	if err != nil {
		return err
	}
	terminals, err := s.loader.ListAllTerminals()
	if err != nil {
		return err
	}
	terminalLinks, err := s.loader.ListCourierTerminalLinks()
	if err != nil {
		return err
	}
	plans, err := s.loader.ListAllPlans()
	if err != nil {
		return err
	}

	next := &snapshot{
		schedulesByID:      make(map[string]*domain.WorkSchedule, len(schedules)),
		schedulesByCourier: scheduleLinks,
		terminalsByID:      make(map[string]*domain.Terminal, len(terminals)),
		terminalsByCourier: terminalLinks,
		plansByID:          make(map[string]*domain.GuaranteePlan, len(plans)),
	}
	for _, sched := range schedules {
		next.schedulesByID[sched.ID] = sched
	}
	for _, t := range terminals {
		next.terminalsByID[t.ID] = t
	}
	for _, p := range plans {
		next.plansByID[p.ID] = p
	}

	s.mu.Lock()
	s.data = next
	s.mu.Unlock()
	return nil
}

// Invalidate is the push-on-write hook for the owning CRUD surface.
func (s *Snapshot) Invalidate() {
	if err := s.Refresh(); err != nil {
		slog.Error("cache refresh on invalidate failed", "error", err)
	}
}

// StartRefresher refreshes the snapshot on the given interval until the
// context is canceled.
func (s *Snapshot) StartRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(); err != nil {
				slog.Error("cache refresh failed", "error", err)
			}
		}
	}
}

func (s *Snapshot) SchedulesByCourier(courierID string) ([]*domain.WorkSchedule, error) {
	s.mu.RLock()
	ids, hit := s.data.schedulesByCourier[courierID]
	schedules := make([]*domain.WorkSchedule, 0, len(ids))
	for _, id := range ids {
		if sched, ok := s.data.schedulesByID[id]; ok {
			schedules = append(schedules, sched)
		}
	}
	s.mu.RUnlock()

	if !hit && s.ScheduleRepo != nil {
		return s.ScheduleRepo.ListByCourier(courierID)
	}
	return schedules, nil
}

func (s *Snapshot) TerminalsByCourier(courierID string) ([]*domain.Terminal, error) {
	s.mu.RLock()
	ids, hit := s.data.terminalsByCourier[courierID]
	terminals := make([]*domain.Terminal, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.data.terminalsByID[id]; ok {
			terminals = append(terminals, t)
		}
	}
	s.mu.RUnlock()

	if !hit && s.TerminalRepo != nil {
		return s.TerminalRepo.ListByCourier(courierID)
	}
	return terminals, nil
}

func (s *Snapshot) TerminalByID(terminalID string) (*domain.Terminal, error) {
	s.mu.RLock()
	t, ok := s.data.terminalsByID[terminalID]
	s.mu.RUnlock()
	if ok {
		return t, nil
	}
	if s.TerminalRepo != nil {
		return s.TerminalRepo.GetByID(terminalID)
	}
	return nil, domain.NewError(domain.KindNotFound, "terminal %s not found", terminalID)
}

func (s *Snapshot) PlanByID(planID string) (*domain.GuaranteePlan, error) {
	s.mu.RLock()
	p, ok := s.data.plansByID[planID]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}
	if s.PlanRepo != nil {
		return s.PlanRepo.GetByID(planID)
	}
	return nil, domain.ErrPlanNotFound
}
