package repository

import (
	"gorm.io/gorm"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultScheduleRepository struct {
	DB *gorm.DB
}

func NewDefaultScheduleRepository(db *gorm.DB) *DefaultScheduleRepository {
	return &DefaultScheduleRepository{DB: db}
}

func (r *DefaultScheduleRepository) ListByCourier(courierID string) ([]*domain.WorkSchedule, error) {
	var rows []models.WorkScheduleModel
	err := r.DB.Model(&models.WorkScheduleModel{}).
		Joins("JOIN users_work_schedules ON users_work_schedules.schedule_id = work_schedules.id").
		Where("users_work_schedules.courier_id = ?", courierID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapSchedules(rows)
}

func (r *DefaultScheduleRepository) ListAll() ([]*domain.WorkSchedule, error) {
	var rows []models.WorkScheduleModel
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapSchedules(rows)
}

func mapSchedules(rows []models.WorkScheduleModel) ([]*domain.WorkSchedule, error) {
	schedules := make([]*domain.WorkSchedule, 0, len(rows))
	for i := range rows {
		s, err := mappers.ToDomainSchedule(&rows[i])
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

// ListCourierLinks returns the full courier-to-schedule join table,
// used by the snapshot cache to index schedules per courier.
func (r *DefaultScheduleRepository) ListCourierLinks() ([]models.CourierScheduleModel, error) {
	var links []models.CourierScheduleModel
	if err := r.DB.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
