package mappers

import (
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainLedgerEntry(model *models.LedgerEntryModel) *domain.LedgerEntry {
	key := ""
	if model.IdempotencyKey != nil {
		key = *model.IdempotencyKey
	}
	return &domain.LedgerEntry{
		ID:             model.ID,
		CourierID:      model.CourierID,
		TerminalID:     model.TerminalID,
		OrganizationID: model.OrganizationID,
		Amount:         model.Amount,
		Status:         domain.EntryStatus(model.Status),
		Type:           domain.TransactionType(model.Type),
		BalanceBefore:  model.BalanceBefore,
		BalanceAfter:   model.BalanceAfter,
		Comment:        model.Comment,
		OrderID:        model.OrderID,
		IdempotencyKey: key,
		ManagerID:      model.ManagerID,
		CreatedAt:      model.CreatedAt,
	}
}

func ToGORMLedgerEntry(entry *domain.LedgerEntry) *models.LedgerEntryModel {
	// Empty keys stay NULL so the unique index only guards real keys.
	var key *string
	if entry.IdempotencyKey != "" {
		k := entry.IdempotencyKey
		key = &k
	}
	return &models.LedgerEntryModel{
		ID:             entry.ID,
		CourierID:      entry.CourierID,
		TerminalID:     entry.TerminalID,
		OrganizationID: entry.OrganizationID,
		Amount:         entry.Amount,
		Status:         string(entry.Status),
		Type:           string(entry.Type),
		BalanceBefore:  entry.BalanceBefore,
		BalanceAfter:   entry.BalanceAfter,
		Comment:        entry.Comment,
		OrderID:        entry.OrderID,
		IdempotencyKey: key,
		ManagerID:      entry.ManagerID,
		CreatedAt:      entry.CreatedAt,
	}
}

func ToDomainBalance(model *models.TerminalBalanceModel) *domain.TerminalBalance {
	return &domain.TerminalBalance{
		ID:             model.ID,
		CourierID:      model.CourierID,
		TerminalID:     model.TerminalID,
		OrganizationID: model.OrganizationID,
		Balance:        model.Balance,
		UpdatedAt:      model.UpdatedAt,
	}
}
