package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultAttendanceRepository struct {
	DB *gorm.DB
}

func NewDefaultAttendanceRepository(db *gorm.DB) *DefaultAttendanceRepository {
	return &DefaultAttendanceRepository{DB: db}
}

func (r *DefaultAttendanceRepository) GetByCourierDay(courierID string, day time.Time) (*domain.AttendanceRecord, error) {
	var model models.AttendanceModel
	err := r.DB.First(&model, "courier_id = ? AND nominal_day = ?", courierID, day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainAttendance(&model), nil
}

func (r *DefaultAttendanceRepository) ListUnsettled(day time.Time) ([]*domain.AttendanceRecord, error) {
	var rows []models.AttendanceModel
	err := r.DB.
		Where("nominal_day = ?", day).
		Where("NOT EXISTS (SELECT 1 FROM daily_garant_tasks t WHERE t.courier_id = timesheet.courier_id AND t.day = timesheet.nominal_day)").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]*domain.AttendanceRecord, len(rows))
	for i := range rows {
		records[i] = mappers.ToDomainAttendance(&rows[i])
	}
	return records, nil
}

func (r *DefaultAttendanceRepository) CountWorkedDays(courierIDs []string, from, to time.Time) (map[string]int, error) {
	type countRow struct {
		CourierID string
		Days      int
	}
	var rows []countRow
	err := r.DB.Model(&models.AttendanceModel{}).
		Select("courier_id, COUNT(DISTINCT nominal_day) AS days").
		Where("courier_id IN (?)", courierIDs).
		Where("nominal_day >= ? AND nominal_day <= ?", from, to).
		Group("courier_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.CourierID] = row.Days
	}
	return counts, nil
}
