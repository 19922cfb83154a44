package usecase

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	publisher "github.com/courierhub/shift-settlement-service/internal/infrastructure/kafka"
)

// =============================================================================
// IN-MEMORY FAKES
// =============================================================================

type fakeScheduleSource struct {
	schedules map[string][]*domain.WorkSchedule
}

func (f *fakeScheduleSource) SchedulesByCourier(courierID string) ([]*domain.WorkSchedule, error) {
	return f.schedules[courierID], nil
}

type fakeCourierRepo struct {
	mu       sync.Mutex
	couriers map[string]*domain.Courier
}

func newFakeCourierRepo(couriers ...*domain.Courier) *fakeCourierRepo {
	m := make(map[string]*domain.Courier)
	for _, c := range couriers {
		m[c.ID] = c
	}
	return &fakeCourierRepo{couriers: m}
}

func (f *fakeCourierRepo) GetByID(courierID string) (*domain.Courier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.couriers[courierID], nil
}

func (f *fakeCourierRepo) SetPresence(courierID string, lat, lon float64, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.couriers[courierID]; ok {
		c.Online = online
		c.LastLat = lat
		c.LastLon = lon
	}
	return nil
}

type fakeTerminalSource struct {
	byCourier map[string][]*domain.Terminal
	byID      map[string]*domain.Terminal
}

func newFakeTerminalSource(links map[string][]*domain.Terminal) *fakeTerminalSource {
	byID := make(map[string]*domain.Terminal)
	for _, terminals := range links {
		for _, t := range terminals {
			byID[t.ID] = t
		}
	}
	return &fakeTerminalSource{byCourier: links, byID: byID}
}

func (f *fakeTerminalSource) TerminalsByCourier(courierID string) ([]*domain.Terminal, error) {
	return f.byCourier[courierID], nil
}

func (f *fakeTerminalSource) TerminalByID(terminalID string) (*domain.Terminal, error) {
	t, ok := f.byID[terminalID]
	if !ok {
		return nil, domain.NewError(domain.KindNotFound, "terminal %s not found", terminalID)
	}
	return t, nil
}

// fakeShiftRepo mirrors the store's atomic open semantics: one open
// shift per courier, one attendance record per (courier, nominal day).
type fakeShiftRepo struct {
	mu         sync.Mutex
	shifts     map[string]*domain.ShiftEntry
	attendance map[string]*domain.AttendanceRecord // courierID|day
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{
		shifts:     make(map[string]*domain.ShiftEntry),
		attendance: make(map[string]*domain.AttendanceRecord),
	}
}

func attKey(courierID string, day time.Time) string {
	return courierID + "|" + day.Format("2006-01-02")
}

func (f *fakeShiftRepo) attendanceFor(courierID string, day time.Time) (*domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attendance[attKey(courierID, day)], nil
}

func (f *fakeShiftRepo) GetOpenShift(courierID string) (*domain.ShiftEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.CourierID == courierID && s.Status == domain.ShiftOpen {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) OpenShift(shift *domain.ShiftEntry, att *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shifts {
		if s.CourierID == shift.CourierID && s.Status == domain.ShiftOpen {
			return nil, domain.ErrShiftAlreadyOpen
		}
	}
	key := attKey(att.CourierID, att.NominalDay)
	if existing, ok := f.attendance[key]; ok {
		f.shifts[shift.ID] = shift
		return existing, nil
	}
	f.attendance[key] = att
	f.shifts[shift.ID] = shift
	return att, nil
}

func (f *fakeShiftRepo) CloseShift(shift *domain.ShiftEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) ListStaleOpen(openedBefore time.Time) ([]*domain.ShiftEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []*domain.ShiftEntry
	for _, s := range f.shifts {
		if s.Status == domain.ShiftOpen && s.OpenedAt.Before(openedBefore) {
			stale = append(stale, s)
		}
	}
	return stale, nil
}

type fakeAttendanceRepo struct {
	shiftRepo *fakeShiftRepo
	settled   map[string]bool // courierID|day with a task already
}

func (f *fakeAttendanceRepo) GetByCourierDay(courierID string, day time.Time) (*domain.AttendanceRecord, error) {
	f.shiftRepo.mu.Lock()
	defer f.shiftRepo.mu.Unlock()
	return f.shiftRepo.attendance[attKey(courierID, day)], nil
}

func (f *fakeAttendanceRepo) ListUnsettled(day time.Time) ([]*domain.AttendanceRecord, error) {
	f.shiftRepo.mu.Lock()
	defer f.shiftRepo.mu.Unlock()
	var records []*domain.AttendanceRecord
	for key, att := range f.shiftRepo.attendance {
		if att.NominalDay.Equal(day) && !f.settled[key] {
			records = append(records, att)
		}
	}
	return records, nil
}

func (f *fakeAttendanceRepo) CountWorkedDays(courierIDs []string, from, to time.Time) (map[string]int, error) {
	f.shiftRepo.mu.Lock()
	defer f.shiftRepo.mu.Unlock()
	counts := make(map[string]int)
	for _, att := range f.shiftRepo.attendance {
		if !att.NominalDay.Before(from) && !att.NominalDay.After(to) {
			counts[att.CourierID]++
		}
	}
	return counts, nil
}

// fakeLedgerRepo linearizes posts with a single lock, the way the store
// does with row locks, and keeps the materialized balances in step.
type fakeLedgerRepo struct {
	mu       sync.Mutex
	entries  []*domain.LedgerEntry
	balances map[string]*domain.TerminalBalance // courierID|terminalID

	// contentionLeft makes the next N posts fail with ErrContention.
	contentionLeft int
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{balances: make(map[string]*domain.TerminalBalance)}
}

func balKey(courierID, terminalID string) string {
	return courierID + "|" + terminalID
}

func (f *fakeLedgerRepo) Post(entry *domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.contentionLeft > 0 {
		f.contentionLeft--
		return domain.ErrContention
	}

	key := balKey(entry.CourierID, entry.TerminalID)
	bal, ok := f.balances[key]
	if !ok {
		bal = &domain.TerminalBalance{
			ID:         key,
			CourierID:  entry.CourierID,
			TerminalID: entry.TerminalID,
			Balance:    decimal.Zero,
		}
		f.balances[key] = bal
	}

	entry.BalanceBefore = bal.Balance
	entry.BalanceAfter = bal.Balance.Add(entry.Amount)
	if entry.Type == domain.TxManagerWithdraw && entry.BalanceAfter.IsNegative() {
		return domain.ErrInsufficientBalance
	}

	f.entries = append(f.entries, entry)
	if entry.Status == domain.EntrySuccess {
		bal.Balance = entry.BalanceAfter
	}
	return nil
}

func (f *fakeLedgerRepo) GetByIdempotencyKey(key string) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.IdempotencyKey == key {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeLedgerRepo) GetBalance(courierID, terminalID string) (*domain.TerminalBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[balKey(courierID, terminalID)], nil
}

func (f *fakeLedgerRepo) ListBalances(filter domain.BalanceFilter) ([]*domain.TerminalBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.TerminalBalance
	for _, b := range f.balances {
		if filter.PositiveOnly && !b.Balance.IsPositive() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeLedgerRepo) SumByType(courierIDs []string, txType domain.TransactionType, from, to time.Time) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(courierIDs))
	for _, id := range courierIDs {
		wanted[id] = true
	}
	sums := make(map[string]decimal.Decimal)
	for _, e := range f.entries {
		if e.Type != txType || e.Status != domain.EntrySuccess || !wanted[e.CourierID] {
			continue
		}
		if e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		sums[e.CourierID] = sums[e.CourierID].Add(e.Amount)
	}
	return sums, nil
}

type fakePlanSource struct {
	plans map[string]*domain.GuaranteePlan
}

func (f *fakePlanSource) PlanByID(planID string) (*domain.GuaranteePlan, error) {
	p, ok := f.plans[planID]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return p, nil
}

// fakeTaskRepo pairs task creation with the ledger posting, matching
// the store's atomic Apply.
type fakeTaskRepo struct {
	mu     sync.Mutex
	tasks  map[string]*domain.GuaranteeTask // planID|courierID|day
	ledger *fakeLedgerRepo
}

func newFakeTaskRepo(ledger *fakeLedgerRepo) *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.GuaranteeTask), ledger: ledger}
}

func taskKey(planID, courierID string, day time.Time) string {
	return planID + "|" + courierID + "|" + day.Format("2006-01-02")
}

func (f *fakeTaskRepo) GetByPlanCourierDay(planID, courierID string, day time.Time) (*domain.GuaranteeTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[taskKey(planID, courierID, day)], nil
}

func (f *fakeTaskRepo) Apply(task *domain.GuaranteeTask, entry *domain.LedgerEntry) error {
	f.mu.Lock()
	key := taskKey(task.PlanID, task.CourierID, task.Day)
	if _, exists := f.tasks[key]; exists {
		f.mu.Unlock()
		return domain.NewError(domain.KindConflict, "guarantee task already exists")
	}
	f.mu.Unlock()

	if entry != nil {
		if err := f.ledger.Post(entry); err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.tasks[key] = task
	f.mu.Unlock()
	return nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	presence []publisher.PresenceEvent
	garants  []publisher.GarantAppliedEvent
}

func (p *recordingPublisher) PublishPresence(event publisher.PresenceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.presence = append(p.presence, event)
	return nil
}

func (p *recordingPublisher) PublishGarantApplied(event publisher.GarantAppliedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.garants = append(p.garants, event)
	return nil
}

type fakeOrderService struct {
	stats map[string]domain.OrderStats
}

func (f *fakeOrderService) CourierOrderStats(courierIDs []string, from, to time.Time) (map[string]domain.OrderStats, error) {
	return f.stats, nil
}

type fakeReportCouriers struct {
	couriers  []*domain.Courier
	terminals map[string]*domain.Terminal // courierID -> primary terminal
}

func (f *fakeReportCouriers) ListCouriers() ([]*domain.Courier, error) {
	return f.couriers, nil
}

func (f *fakeReportCouriers) CourierTerminal(courierID string) (*domain.Terminal, error) {
	return f.terminals[courierID], nil
}
