package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	publisher "github.com/courierhub/shift-settlement-service/internal/infrastructure/kafka"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/metrics"
)

// PlanSource supplies guarantee plans; backed by the snapshot cache.
type PlanSource interface {
	PlanByID(planID string) (*domain.GuaranteePlan, error)
}

type GarantPublisher interface {
	PublishGarantApplied(event publisher.GarantAppliedEvent) error
}

type GuaranteeUsecase interface {
	// SettleDay settles one courier for one nominal day. Idempotent:
	// an existing task for (plan, courier, day) makes it a no-op.
	SettleDay(ctx context.Context, courierID string, day time.Time) (*domain.GuaranteeTask, error)
	// SettlePrior runs the nightly batch over the previous nominal day.
	SettlePrior(ctx context.Context) error
}

type DefaultGuaranteeUsecase struct {
	TaskRepo       domain.GuaranteeTaskRepository
	AttendanceRepo domain.AttendanceRepository
	CourierRepo    domain.CourierRepository
	Plans          PlanSource
	Terminals      TerminalSource
	Publisher      GarantPublisher
	Metrics        *metrics.ShiftMetrics
	// Workers bounds batch parallelism; postings for different couriers
	// are independent.
	Workers int
	Now     func() time.Time
}

func NewDefaultGuaranteeUsecase(
	taskRepo domain.GuaranteeTaskRepository,
	attendanceRepo domain.AttendanceRepository,
	courierRepo domain.CourierRepository,
	plans PlanSource,
	terminals TerminalSource,
	garantPublisher GarantPublisher,
	shiftMetrics *metrics.ShiftMetrics,
	workers int) *DefaultGuaranteeUsecase {

	if workers <= 0 {
		workers = 4
	}
	return &DefaultGuaranteeUsecase{
		TaskRepo:       taskRepo,
		AttendanceRepo: attendanceRepo,
		CourierRepo:    courierRepo,
		Plans:          plans,
		Terminals:      terminals,
		Publisher:      garantPublisher,
		Metrics:        shiftMetrics,
		Workers:        workers,
		Now:            time.Now,
	}
}

func (uc *DefaultGuaranteeUsecase) SettleDay(ctx context.Context, courierID string, day time.Time) (*domain.GuaranteeTask, error) {
	day = midnight(day)

	courier, err := uc.CourierRepo.GetByID(courierID)
	if err != nil {
		return nil, err
	}
	if courier == nil {
		return nil, domain.ErrCourierNotFound
	}
	if courier.PlanID == "" {
		return nil, domain.ErrPlanNotFound
	}

	plan, err := uc.Plans.PlanByID(courier.PlanID)
	if err != nil {
		return nil, err
	}

	att, err := uc.AttendanceRepo.GetByCourierDay(courierID, day)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, domain.NewError(domain.KindNotFound, "no attendance record for courier %s on %s", courierID, day.Format("2006-01-02"))
	}

	if existing, err := uc.TaskRepo.GetByPlanCourierDay(plan.ID, courierID, day); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	// A drive-type-scoped plan skips couriers outside its scope; the
	// skipped task keeps the reruns idempotent.
	if plan.DriveType != "" && plan.DriveType != courier.DriveType {
		task := &domain.GuaranteeTask{
			ID:        uuid.New().String(),
			PlanID:    plan.ID,
			CourierID: courierID,
			Day:       day,
			Status:    domain.TaskSkipped,
			Payable:   decimal.Zero,
			Penalty:   decimal.Zero,
			CreatedAt: uc.Now(),
		}
		if err := uc.TaskRepo.Apply(task, nil); err != nil {
			return nil, err
		}
		return task, nil
	}

	payable, penalty := plan.Payable(att.Late, att.LatenessMinutes)

	terminals, err := uc.Terminals.TerminalsByCourier(courierID)
	if err != nil {
		return nil, err
	}
	if len(terminals) == 0 {
		return nil, domain.ErrNoTerminal
	}
	terminal := terminals[0]

	task := &domain.GuaranteeTask{
		ID:        uuid.New().String(),
		PlanID:    plan.ID,
		CourierID: courierID,
		Day:       day,
		Status:    domain.TaskApplied,
		Payable:   payable,
		Penalty:   penalty,
		CreatedAt: uc.Now(),
	}
	entry := &domain.LedgerEntry{
		ID:             uuid.New().String(),
		CourierID:      courierID,
		TerminalID:     terminal.ID,
		OrganizationID: terminal.OrganizationID,
		Amount:         payable,
		Status:         domain.EntrySuccess,
		Type:           domain.TxDailyGarant,
		Comment:        "daily garant " + day.Format("2006-01-02"),
		CreatedAt:      uc.Now(),
	}
	task.LedgerEntryID = entry.ID

	// Task creation and the ledger posting are one atomic unit: a
	// posting failure rolls the task back so the day can be resettled.
	if err := uc.TaskRepo.Apply(task, entry); err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		payableF, _ := payable.Float64()
		penaltyF, _ := penalty.Float64()
		uc.Metrics.RecordGarantApplied(plan.ID, payableF, penaltyF)
	}
	if uc.Publisher != nil {
		if err := uc.Publisher.PublishGarantApplied(publisher.GarantAppliedEvent{
			TaskID:    task.ID,
			PlanID:    plan.ID,
			CourierID: courierID,
			Day:       day.Format("2006-01-02"),
			Payable:   payable.String(),
			Penalty:   penalty.String(),
		}); err != nil {
			slog.Error("failed to publish garant event", "task_id", task.ID, "error", err)
		}
	}

	return task, nil
}

// SettlePrior settles every attendance record of the previous nominal
// day that has no guarantee task yet. Per-courier failures are logged
// and skipped; a missed courier is picked up by the next run.
func (uc *DefaultGuaranteeUsecase) SettlePrior(ctx context.Context) error {
	day := midnight(uc.Now()).AddDate(0, 0, -1)

	records, err := uc.AttendanceRepo.ListUnsettled(day)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	jobs := make(chan *domain.AttendanceRecord)
	var wg sync.WaitGroup
	for i := 0; i < uc.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for att := range jobs {
				if _, err := uc.SettleDay(ctx, att.CourierID, att.NominalDay); err != nil {
					slog.Error("garant settlement failed",
						"courier_id", att.CourierID,
						"day", att.NominalDay.Format("2006-01-02"),
						"error", err)
					if uc.Metrics != nil {
						reason := string(domain.ErrKind(err))
						if reason == "" {
							reason = "internal"
						}
						uc.Metrics.RecordGarantBatchFailure(reason)
					}
				}
			}
		}()
	}

	for _, att := range records {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- att:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}
