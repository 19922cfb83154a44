package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultShiftRepository struct {
	DB *gorm.DB
}

func NewDefaultShiftRepository(db *gorm.DB) *DefaultShiftRepository {
	return &DefaultShiftRepository{DB: db}
}

func (r *DefaultShiftRepository) GetOpenShift(courierID string) (*domain.ShiftEntry, error) {
	var model models.ShiftEntryModel
	err := r.DB.First(&model, "courier_id = ? AND status = ?", courierID, string(domain.ShiftOpen)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainShift(&model), nil
}

// OpenShift inserts the shift entry and get-or-creates the attendance
// record in one transaction. The single-open-shift invariant lives in
// the partial unique index on (courier_id) WHERE status = 'OPEN': a
// concurrent duplicate open loses the insert race and surfaces as
// ErrShiftAlreadyOpen. The attendance insert uses ON CONFLICT DO
// NOTHING against the (courier_id, nominal_day) unique index, so the
// first record's lateness fields stay untouched.
func (r *DefaultShiftRepository) OpenShift(shift *domain.ShiftEntry, att *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	var effective *domain.AttendanceRecord

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMShift(shift)).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrShiftAlreadyOpen
			}
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "courier_id"}, {Name: "nominal_day"}},
			DoNothing: true,
		}).Create(mappers.ToGORMAttendance(att)).Error; err != nil {
			return err
		}

		var existing models.AttendanceModel
		if err := tx.First(&existing, "courier_id = ? AND nominal_day = ?", att.CourierID, att.NominalDay).Error; err != nil {
			return err
		}
		effective = mappers.ToDomainAttendance(&existing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return effective, nil
}

func (r *DefaultShiftRepository) CloseShift(shift *domain.ShiftEntry) error {
	return r.DB.Model(&models.ShiftEntryModel{}).
		Where("id = ? AND status = ?", shift.ID, string(domain.ShiftOpen)).
		Updates(map[string]any{
			"status":           string(domain.ShiftClosed),
			"closed_at":        shift.ClosedAt,
			"close_lat":        shift.CloseLat,
			"close_lon":        shift.CloseLon,
			"close_ip":         shift.CloseIP,
			"duration_seconds": shift.DurationSeconds,
		}).Error
}

func (r *DefaultShiftRepository) ListStaleOpen(openedBefore time.Time) ([]*domain.ShiftEntry, error) {
	var rows []models.ShiftEntryModel
	err := r.DB.
		Where("status = ? AND opened_at < ?", string(domain.ShiftOpen), openedBefore).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	shifts := make([]*domain.ShiftEntry, len(rows))
	for i := range rows {
		shifts[i] = mappers.ToDomainShift(&rows[i])
	}
	return shifts, nil
}
