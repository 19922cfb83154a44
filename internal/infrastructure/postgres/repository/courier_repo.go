package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultCourierRepository struct {
	DB *gorm.DB
}

func NewDefaultCourierRepository(db *gorm.DB) *DefaultCourierRepository {
	return &DefaultCourierRepository{DB: db}
}

func (r *DefaultCourierRepository) GetByID(courierID string) (*domain.Courier, error) {
	var model models.CourierModel
	err := r.DB.First(&model, "id = ?", courierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainCourier(&model), nil
}

func (r *DefaultCourierRepository) ListAll() ([]*domain.Courier, error) {
	var rows []models.CourierModel
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	couriers := make([]*domain.Courier, len(rows))
	for i := range rows {
		couriers[i] = mappers.ToDomainCourier(&rows[i])
	}
	return couriers, nil
}

// ListCouriers is the report-facing alias of ListAll.
func (r *DefaultCourierRepository) ListCouriers() ([]*domain.Courier, error) {
	return r.ListAll()
}

// CourierTerminal returns the courier's primary terminal, the first
// one assigned. Report groups use it; couriers without an assignment
// group under the empty terminal.
func (r *DefaultCourierRepository) CourierTerminal(courierID string) (*domain.Terminal, error) {
	var model models.TerminalModel
	err := r.DB.Model(&models.TerminalModel{}).
		Joins("JOIN courier_terminals ON courier_terminals.terminal_id = terminals.id").
		Where("courier_terminals.courier_id = ?", courierID).
		Order("courier_terminals.terminal_id ASC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainTerminal(&model), nil
}

func (r *DefaultCourierRepository) SetPresence(courierID string, lat, lon float64, online bool) error {
	return r.DB.Model(&models.CourierModel{}).
		Where("id = ?", courierID).
		Updates(map[string]any{
			"online":       online,
			"last_lat":     lat,
			"last_lon":     lon,
			"last_seen_at": time.Now(),
		}).Error
}

type DefaultTerminalRepository struct {
	DB *gorm.DB
}

func NewDefaultTerminalRepository(db *gorm.DB) *DefaultTerminalRepository {
	return &DefaultTerminalRepository{DB: db}
}

func (r *DefaultTerminalRepository) GetByID(terminalID string) (*domain.Terminal, error) {
	var model models.TerminalModel
	err := r.DB.First(&model, "id = ?", terminalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewError(domain.KindNotFound, "terminal %s not found", terminalID)
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainTerminal(&model), nil
}

func (r *DefaultTerminalRepository) ListByCourier(courierID string) ([]*domain.Terminal, error) {
	var rows []models.TerminalModel
	err := r.DB.Model(&models.TerminalModel{}).
		Joins("JOIN courier_terminals ON courier_terminals.terminal_id = terminals.id").
		Where("courier_terminals.courier_id = ?", courierID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	terminals := make([]*domain.Terminal, len(rows))
	for i := range rows {
		terminals[i] = mappers.ToDomainTerminal(&rows[i])
	}
	return terminals, nil
}

func (r *DefaultTerminalRepository) ListAll() ([]*domain.Terminal, error) {
	var rows []models.TerminalModel
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	terminals := make([]*domain.Terminal, len(rows))
	for i := range rows {
		terminals[i] = mappers.ToDomainTerminal(&rows[i])
	}
	return terminals, nil
}
