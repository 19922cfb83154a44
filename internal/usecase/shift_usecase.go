package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	publisher "github.com/courierhub/shift-settlement-service/internal/infrastructure/kafka"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/logger"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/metrics"
)

// TerminalSource supplies the terminal directory; backed by the
// snapshot cache with a read-through to the store.
type TerminalSource interface {
	TerminalsByCourier(courierID string) ([]*domain.Terminal, error)
	TerminalByID(terminalID string) (*domain.Terminal, error)
}

type PresencePublisher interface {
	PublishPresence(event publisher.PresenceEvent) error
}

type ShiftUsecase interface {
	Open(ctx context.Context, courierID string, lat, lon float64, ip string) (*domain.ShiftEntry, error)
	Close(ctx context.Context, courierID string, lat, lon float64, ip string) (*domain.ShiftEntry, error)
	CloseStale(ctx context.Context, openLongerThan time.Duration) (int, error)
}

type DefaultShiftUsecase struct {
	ShiftRepo   domain.ShiftRepository
	CourierRepo domain.CourierRepository
	Terminals   TerminalSource
	Catalog     *ScheduleCatalog
	Publisher   PresencePublisher
	EventLogger logger.ShiftEventLogger
	Metrics     *metrics.ShiftMetrics
	Now         func() time.Time
}

func NewDefaultShiftUsecase(
	shiftRepo domain.ShiftRepository,
	courierRepo domain.CourierRepository,
	terminals TerminalSource,
	catalog *ScheduleCatalog,
	presencePublisher PresencePublisher,
	eventLogger logger.ShiftEventLogger,
	shiftMetrics *metrics.ShiftMetrics) *DefaultShiftUsecase {

	return &DefaultShiftUsecase{
		ShiftRepo:   shiftRepo,
		CourierRepo: courierRepo,
		Terminals:   terminals,
		Catalog:     catalog,
		Publisher:   presencePublisher,
		EventLogger: eventLogger,
		Metrics:     shiftMetrics,
		Now:         time.Now,
	}
}

// Open runs the admission checks, resolves the schedule window the open
// belongs to, fixes lateness against its grace cutoff and creates the
// shift entry plus the day's attendance record. The attendance
// get-or-create and the shift insert are one atomic unit in the
// repository; a concurrent duplicate open cannot create a second record
// for the same nominal day.
func (uc *DefaultShiftUsecase) Open(ctx context.Context, courierID string, lat, lon float64, ip string) (*domain.ShiftEntry, error) {
	now := uc.Now()

	if open, err := uc.ShiftRepo.GetOpenShift(courierID); err != nil {
		return nil, err
	} else if open != nil {
		return nil, uc.rejectOpen(ctx, courierID, lat, lon, ip, domain.ErrShiftAlreadyOpen)
	}

	courier, err := uc.CourierRepo.GetByID(courierID)
	if err != nil {
		return nil, err
	}
	if courier == nil {
		return nil, domain.ErrCourierNotFound
	}
	if !courier.Eligible() {
		return nil, uc.rejectOpen(ctx, courierID, lat, lon, ip, domain.ErrNotCourier)
	}

	terminals, err := uc.Terminals.TerminalsByCourier(courierID)
	if err != nil {
		return nil, err
	}
	if len(terminals) == 0 {
		return nil, uc.rejectOpen(ctx, courierID, lat, lon, ip, domain.ErrNoTerminal)
	}
	if !withinAnyTerminal(lat, lon, terminals) {
		return nil, uc.rejectOpen(ctx, courierID, lat, lon, ip, domain.ErrTooFarFromTerminal)
	}

	windows, err := uc.Catalog.SchedulesFor(courierID, now)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, uc.rejectOpen(ctx, courierID, lat, lon, ip, domain.ErrNoActiveSchedule)
	}

	window := uc.resolveWindow(windows, now)

	late := now.After(window.Cutoff)
	latenessMinutes := 0
	if late {
		latenessMinutes = int(now.Sub(window.Cutoff).Minutes())
	}

	shift := &domain.ShiftEntry{
		ID:         uuid.New().String(),
		CourierID:  courierID,
		ScheduleID: window.Schedule.ID,
		Status:     domain.ShiftOpen,
		Late:       late,
		OpenedAt:   now,
		OpenLat:    lat,
		OpenLon:    lon,
		OpenIP:     ip,
	}
	att := &domain.AttendanceRecord{
		ID:              uuid.New().String(),
		CourierID:       courierID,
		ScheduleID:      window.Schedule.ID,
		NominalDay:      window.NominalDay,
		Late:            late,
		LatenessMinutes: latenessMinutes,
		CreatedAt:       now,
	}

	effective, err := uc.ShiftRepo.OpenShift(shift, att)
	if err != nil {
		return nil, err
	}

	if err := uc.CourierRepo.SetPresence(courierID, lat, lon, true); err != nil {
		slog.Error("failed to update courier presence", "courier_id", courierID, "error", err)
	}
	if uc.Publisher != nil {
		if err := uc.Publisher.PublishPresence(publisher.PresenceEvent{
			CourierID: courierID,
			ShiftID:   shift.ID,
			Online:    true,
			Lat:       lat,
			Lon:       lon,
			At:        now,
		}); err != nil {
			slog.Error("failed to publish presence event", "courier_id", courierID, "error", err)
		}
	}
	if uc.EventLogger != nil {
		if err := uc.EventLogger.LogShiftOpened(ctx, logger.ShiftOpenedEvent{
			ShiftID:         shift.ID,
			CourierID:       courierID,
			ScheduleID:      window.Schedule.ID,
			NominalDay:      effective.NominalDay,
			Late:            effective.Late,
			LatenessMinutes: effective.LatenessMinutes,
			Lat:             lat,
			Lon:             lon,
			IP:              ip,
			Timestamp:       now,
		}); err != nil {
			slog.Error("failed to write shift audit event", "shift_id", shift.ID, "error", err)
		}
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordShiftOpened(window.Schedule.ID, late, latenessMinutes)
	}

	return shift, nil
}

func (uc *DefaultShiftUsecase) Close(ctx context.Context, courierID string, lat, lon float64, ip string) (*domain.ShiftEntry, error) {
	now := uc.Now()

	shift, err := uc.ShiftRepo.GetOpenShift(courierID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNoOpenShift
	}

	shift.Status = domain.ShiftClosed
	shift.ClosedAt = &now
	shift.CloseLat = lat
	shift.CloseLon = lon
	shift.CloseIP = ip
	shift.DurationSeconds = int64(now.Sub(shift.OpenedAt).Seconds())

	if err := uc.ShiftRepo.CloseShift(shift); err != nil {
		return nil, err
	}

	if err := uc.CourierRepo.SetPresence(courierID, lat, lon, false); err != nil {
		slog.Error("failed to update courier presence", "courier_id", courierID, "error", err)
	}
	if uc.Publisher != nil {
		if err := uc.Publisher.PublishPresence(publisher.PresenceEvent{
			CourierID: courierID,
			ShiftID:   shift.ID,
			Online:    false,
			Lat:       lat,
			Lon:       lon,
			At:        now,
		}); err != nil {
			slog.Error("failed to publish presence event", "courier_id", courierID, "error", err)
		}
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordShiftClosed(shift.ScheduleID, shift.DurationSeconds)
	}

	return shift, nil
}

// CloseStale force-closes shifts left open past the allowed maximum,
// using the shift's own coordinates as the close location. Returns the
// number of shifts closed.
func (uc *DefaultShiftUsecase) CloseStale(ctx context.Context, openLongerThan time.Duration) (int, error) {
	now := uc.Now()
	stale, err := uc.ShiftRepo.ListStaleOpen(now.Add(-openLongerThan))
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, shift := range stale {
		shift.Status = domain.ShiftClosed
		shift.ClosedAt = &now
		shift.CloseLat = shift.OpenLat
		shift.CloseLon = shift.OpenLon
		shift.CloseIP = shift.OpenIP
		shift.DurationSeconds = int64(now.Sub(shift.OpenedAt).Seconds())
		if err := uc.ShiftRepo.CloseShift(shift); err != nil {
			slog.Error("failed to force-close stale shift", "shift_id", shift.ID, "error", err)
			continue
		}
		if err := uc.CourierRepo.SetPresence(shift.CourierID, shift.OpenLat, shift.OpenLon, false); err != nil {
			slog.Error("failed to update courier presence", "courier_id", shift.CourierID, "error", err)
		}
		closed++
	}
	return closed, nil
}

// resolveWindow picks the window whose start-to-cutoff span contains
// now; otherwise the configured day-boundary hour decides whether the
// open belongs to yesterday's overnight occurrence or to today's.
func (uc *DefaultShiftUsecase) resolveWindow(windows []domain.ScheduleWindow, now time.Time) domain.ScheduleWindow {
	for _, w := range windows {
		if !now.Before(w.Start) && !now.After(w.Cutoff) {
			return w
		}
	}

	today := midnight(now)
	if now.Hour() < uc.Catalog.DayBoundaryHour {
		for _, w := range windows {
			if w.NominalDay.Before(today) {
				return w
			}
		}
	}
	for _, w := range windows {
		if w.NominalDay.Equal(today) {
			return w
		}
	}
	return windows[0]
}

func (uc *DefaultShiftUsecase) rejectOpen(ctx context.Context, courierID string, lat, lon float64, ip string, cause *domain.Error) error {
	if uc.Metrics != nil {
		uc.Metrics.RecordOpenRejected(string(cause.Kind))
	}
	if uc.EventLogger != nil {
		if err := uc.EventLogger.LogOpenRejected(ctx, logger.OpenRejectedEvent{
			CourierID: courierID,
			Reason:    cause.Message,
			Lat:       lat,
			Lon:       lon,
			IP:        ip,
			Timestamp: uc.Now(),
		}); err != nil {
			slog.Error("failed to write rejection audit event", "courier_id", courierID, "error", err)
		}
	}
	return cause
}

func withinAnyTerminal(lat, lon float64, terminals []*domain.Terminal) bool {
	for _, t := range terminals {
		if haversineMeters(lat, lon, t.Lat, t.Lon) <= t.MaxDistanceMeters {
			return true
		}
	}
	return false
}
