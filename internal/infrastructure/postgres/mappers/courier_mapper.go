package mappers

import (
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainCourier(model *models.CourierModel) *domain.Courier {
	return &domain.Courier{
		ID:             model.ID,
		Name:           model.Name,
		Role:           model.Role,
		DriveType:      domain.DriveType(model.DriveType),
		OrganizationID: model.OrganizationID,
		PlanID:         model.PlanID,
		Online:         model.Online,
		LastLat:        model.LastLat,
		LastLon:        model.LastLon,
		LastSeenAt:     model.LastSeenAt,
	}
}

func ToDomainTerminal(model *models.TerminalModel) *domain.Terminal {
	return &domain.Terminal{
		ID:                model.ID,
		OrganizationID:    model.OrganizationID,
		Name:              model.Name,
		Lat:               model.Lat,
		Lon:               model.Lon,
		MaxDistanceMeters: model.MaxDistanceMeters,
	}
}
