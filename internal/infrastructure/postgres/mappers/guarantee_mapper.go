package mappers

import (
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainPlan(model *models.GuaranteePlanModel) *domain.GuaranteePlan {
	return &domain.GuaranteePlan{
		ID:               model.ID,
		OrganizationID:   model.OrganizationID,
		Name:             model.Name,
		Amount:           model.Amount,
		LatePenalty:      model.LatePenalty,
		PenaltyPerMinute: model.PenaltyPerMinute,
		DriveType:        domain.DriveType(model.DriveType),
	}
}

func ToDomainTask(model *models.GuaranteeTaskModel) *domain.GuaranteeTask {
	return &domain.GuaranteeTask{
		ID:            model.ID,
		PlanID:        model.PlanID,
		CourierID:     model.CourierID,
		Day:           model.Day,
		Status:        domain.TaskStatus(model.Status),
		Payable:       model.Payable,
		Penalty:       model.Penalty,
		LedgerEntryID: model.LedgerEntryID,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMTask(task *domain.GuaranteeTask) *models.GuaranteeTaskModel {
	return &models.GuaranteeTaskModel{
		ID:            task.ID,
		PlanID:        task.PlanID,
		CourierID:     task.CourierID,
		Day:           task.Day,
		Status:        string(task.Status),
		Payable:       task.Payable,
		Penalty:       task.Penalty,
		LedgerEntryID: task.LedgerEntryID,
		CreatedAt:     task.CreatedAt,
	}
}
