package mappers

import (
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainSchedule(model *models.WorkScheduleModel) (*domain.WorkSchedule, error) {
	start, err := domain.ParseDayTime(model.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDayTime(model.EndTime)
	if err != nil {
		return nil, err
	}
	maxStart, err := domain.ParseDayTime(model.MaxStartTime)
	if err != nil {
		return nil, err
	}
	return &domain.WorkSchedule{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		Name:           model.Name,
		Recurrence:     model.Recurrence,
		Start:          start,
		End:            end,
		MaxStart:       maxStart,
		BonusAmount:    model.BonusAmount,
	}, nil
}

func ToGORMSchedule(s *domain.WorkSchedule) *models.WorkScheduleModel {
	return &models.WorkScheduleModel{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		Name:           s.Name,
		Recurrence:     s.Recurrence,
		StartTime:      s.Start.String(),
		EndTime:        s.End.String(),
		MaxStartTime:   s.MaxStart.String(),
		BonusAmount:    s.BonusAmount,
	}
}
