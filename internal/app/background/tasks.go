package background

import (
	"context"
	"log"
	"time"

	"github.com/courierhub/shift-settlement-service/internal/usecase"
)

type BackgroundTasks struct {
	ShiftUsecase     usecase.ShiftUsecase
	GuaranteeUsecase usecase.GuaranteeUsecase

	SettlementInterval time.Duration
	MaxShiftDuration   time.Duration
}

func NewBackgroundTasks(
	shiftUC usecase.ShiftUsecase,
	guaranteeUC usecase.GuaranteeUsecase,
	settlementInterval time.Duration,
	maxShiftDuration time.Duration,
) *BackgroundTasks {
	return &BackgroundTasks{
		ShiftUsecase:       shiftUC,
		GuaranteeUsecase:   guaranteeUC,
		SettlementInterval: settlementInterval,
		MaxShiftDuration:   maxShiftDuration,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startGuaranteeSettlement(ctx)
	go bt.startStaleShiftMonitor(ctx)
}

// startGuaranteeSettlement periodically sweeps the previous nominal
// day for unsettled attendance. SettlePrior is idempotent, so reruns
// within the same day only pick up couriers a prior run missed.
func (bt *BackgroundTasks) startGuaranteeSettlement(ctx context.Context) {
	ticker := time.NewTicker(bt.SettlementInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.GuaranteeUsecase.SettlePrior(ctx); err != nil {
				log.Printf("Guarantee settlement sweep error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startStaleShiftMonitor(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closed, err := bt.ShiftUsecase.CloseStale(ctx, bt.MaxShiftDuration)
			if err != nil {
				log.Printf("Stale shift check error: %v\n", err)
				continue
			}
			if closed > 0 {
				log.Printf("Force-closed %d stale shifts\n", closed)
			}
		}
	}
}
