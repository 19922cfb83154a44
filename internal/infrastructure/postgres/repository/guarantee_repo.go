package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultGuaranteeTaskRepository struct {
	DB *gorm.DB
}

func NewDefaultGuaranteeTaskRepository(db *gorm.DB) *DefaultGuaranteeTaskRepository {
	return &DefaultGuaranteeTaskRepository{DB: db}
}

func (r *DefaultGuaranteeTaskRepository) GetByPlanCourierDay(planID, courierID string, day time.Time) (*domain.GuaranteeTask, error) {
	var model models.GuaranteeTaskModel
	err := r.DB.First(&model, "plan_id = ? AND courier_id = ? AND day = ?", planID, courierID, day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainTask(&model), nil
}

// Apply creates the task and, when entry is non-nil, the paired
// daily_garant posting in one transaction. The unique index on
// (plan_id, courier_id, day) turns a concurrent duplicate into a
// rollback of the whole unit, so a day is never settled twice.
func (r *DefaultGuaranteeTaskRepository) Apply(task *domain.GuaranteeTask, entry *domain.LedgerEntry) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMTask(task)).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return postLocked(tx, entry)
	})
}

type DefaultPlanRepository struct {
	DB *gorm.DB
}

func NewDefaultPlanRepository(db *gorm.DB) *DefaultPlanRepository {
	return &DefaultPlanRepository{DB: db}
}

func (r *DefaultPlanRepository) GetByID(planID string) (*domain.GuaranteePlan, error) {
	var model models.GuaranteePlanModel
	err := r.DB.First(&model, "id = ?", planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPlan(&model), nil
}

func (r *DefaultPlanRepository) ListAll() ([]*domain.GuaranteePlan, error) {
	var rows []models.GuaranteePlanModel
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	plans := make([]*domain.GuaranteePlan, len(rows))
	for i := range rows {
		plans[i] = mappers.ToDomainPlan(&rows[i])
	}
	return plans, nil
}
