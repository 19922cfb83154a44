package repository

import (
	"gorm.io/gorm"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

// SnapshotLoader feeds the reference-data cache from the store.
type SnapshotLoader struct {
	DB        *gorm.DB
	Schedules *DefaultScheduleRepository
	Terminals *DefaultTerminalRepository
	Plans     *DefaultPlanRepository
}

func NewSnapshotLoader(db *gorm.DB) *SnapshotLoader {
	return &SnapshotLoader{
		DB:        db,
		Schedules: NewDefaultScheduleRepository(db),
		Terminals: NewDefaultTerminalRepository(db),
		Plans:     NewDefaultPlanRepository(db),
	}
}

func (l *SnapshotLoader) ListAllSchedules() ([]*domain.WorkSchedule, error) {
	return l.Schedules.ListAll()
}

func (l *SnapshotLoader) ListAllTerminals() ([]*domain.Terminal, error) {
	return l.Terminals.ListAll()
}

func (l *SnapshotLoader) ListAllPlans() ([]*domain.GuaranteePlan, error) {
	return l.Plans.ListAll()
}

func (l *SnapshotLoader) ListCourierScheduleLinks() (map[string][]string, error) {
	var links []models.CourierScheduleModel
	if err := l.DB.Find(&links).Error; err != nil {
		return nil, err
	}

	byCourier := make(map[string][]string)
	for _, link := range links {
		byCourier[link.CourierID] = append(byCourier[link.CourierID], link.ScheduleID)
	}
	return byCourier, nil
}

func (l *SnapshotLoader) ListCourierTerminalLinks() (map[string][]string, error) {
	var links []models.CourierTerminalModel
	if err := l.DB.Find(&links).Error; err != nil {
		return nil, err
	}

	byCourier := make(map[string][]string)
	for _, link := range links {
		byCourier[link.CourierID] = append(byCourier[link.CourierID], link.TerminalID)
	}
	return byCourier, nil
}
