package mappers

import (
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainShift(model *models.ShiftEntryModel) *domain.ShiftEntry {
	return &domain.ShiftEntry{
		ID:              model.ID,
		CourierID:       model.CourierID,
		ScheduleID:      model.ScheduleID,
		Status:          domain.ShiftStatus(model.Status),
		Late:            model.Late,
		OpenedAt:        model.OpenedAt,
		OpenLat:         model.OpenLat,
		OpenLon:         model.OpenLon,
		OpenIP:          model.OpenIP,
		ClosedAt:        model.ClosedAt,
		CloseLat:        model.CloseLat,
		CloseLon:        model.CloseLon,
		CloseIP:         model.CloseIP,
		DurationSeconds: model.DurationSeconds,
	}
}

func ToGORMShift(shift *domain.ShiftEntry) *models.ShiftEntryModel {
	return &models.ShiftEntryModel{
		ID:              shift.ID,
		CourierID:       shift.CourierID,
		ScheduleID:      shift.ScheduleID,
		Status:          string(shift.Status),
		Late:            shift.Late,
		OpenedAt:        shift.OpenedAt,
		OpenLat:         shift.OpenLat,
		OpenLon:         shift.OpenLon,
		OpenIP:          shift.OpenIP,
		ClosedAt:        shift.ClosedAt,
		CloseLat:        shift.CloseLat,
		CloseLon:        shift.CloseLon,
		CloseIP:         shift.CloseIP,
		DurationSeconds: shift.DurationSeconds,
	}
}

func ToDomainAttendance(model *models.AttendanceModel) *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		ID:              model.ID,
		CourierID:       model.CourierID,
		ScheduleID:      model.ScheduleID,
		NominalDay:      model.NominalDay,
		Late:            model.Late,
		LatenessMinutes: model.LatenessMinutes,
		CreatedAt:       model.CreatedAt,
	}
}

func ToGORMAttendance(att *domain.AttendanceRecord) *models.AttendanceModel {
	return &models.AttendanceModel{
		ID:              att.ID,
		CourierID:       att.CourierID,
		ScheduleID:      att.ScheduleID,
		NominalDay:      att.NominalDay,
		Late:            att.Late,
		LatenessMinutes: att.LatenessMinutes,
		CreatedAt:       att.CreatedAt,
	}
}
