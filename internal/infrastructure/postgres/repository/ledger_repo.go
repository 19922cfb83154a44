package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{DB: db}
}

// Post appends the entry and updates the materialized balance in one
// transaction. The balance row is locked FOR UPDATE so concurrent posts
// for the same (courier, terminal) pair are linearized.
func (r *DefaultLedgerRepository) Post(entry *domain.LedgerEntry) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		return postLocked(tx, entry)
	})
	if err != nil && isContention(err) {
		return domain.ErrContention
	}
	return err
}

// postLocked is the shared posting unit, also used by the guarantee
// task repository inside its own transaction.
func postLocked(tx *gorm.DB, entry *domain.LedgerEntry) error {
	var balance models.TerminalBalanceModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("courier_id = ? AND terminal_id = ?", entry.CourierID, entry.TerminalID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		balance = models.TerminalBalanceModel{
			ID:             uuid.New().String(),
			CourierID:      entry.CourierID,
			TerminalID:     entry.TerminalID,
			OrganizationID: entry.OrganizationID,
			Balance:        decimal.Zero,
			UpdatedAt:      time.Now(),
		}
		if err := tx.Create(&balance).Error; err != nil {
			// Lost the race for the first row; the caller retries and
			// locks the winner's row.
			return fmt.Errorf("creating balance row: %w", err)
		}
	} else if err != nil {
		return err
	}

	entry.BalanceBefore = balance.Balance
	entry.BalanceAfter = balance.Balance.Add(entry.Amount)

	if entry.Type == domain.TxManagerWithdraw && entry.BalanceAfter.IsNegative() {
		return domain.ErrInsufficientBalance
	}

	if err := tx.Create(mappers.ToGORMLedgerEntry(entry)).Error; err != nil {
		return err
	}

	// Pending entries record the balance window but only successful
	// entries move the materialized balance.
	if entry.Status == domain.EntrySuccess {
		if err := tx.Model(&models.TerminalBalanceModel{}).
			Where("id = ?", balance.ID).
			Updates(map[string]any{
				"balance":    entry.BalanceAfter,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
	}

	if entry.Type == domain.TxManagerWithdraw {
		audit := models.ManagerWithdrawModel{
			ID:            uuid.New().String(),
			LedgerEntryID: entry.ID,
			ManagerID:     entry.ManagerID,
			CourierID:     entry.CourierID,
			TerminalID:    entry.TerminalID,
			Amount:        entry.Amount,
			AmountBefore:  entry.BalanceBefore,
			AmountAfter:   entry.BalanceAfter,
			Comment:       entry.Comment,
			CreatedAt:     entry.CreatedAt,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *DefaultLedgerRepository) GetByIdempotencyKey(key string) (*domain.LedgerEntry, error) {
	var model models.LedgerEntryModel
	err := r.DB.First(&model, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainLedgerEntry(&model), nil
}

func (r *DefaultLedgerRepository) GetBalance(courierID, terminalID string) (*domain.TerminalBalance, error) {
	var model models.TerminalBalanceModel
	err := r.DB.First(&model, "courier_id = ? AND terminal_id = ?", courierID, terminalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainBalance(&model), nil
}

func (r *DefaultLedgerRepository) ListBalances(filter domain.BalanceFilter) ([]*domain.TerminalBalance, error) {
	query := r.DB.Model(&models.TerminalBalanceModel{})
	if len(filter.CourierIDs) > 0 {
		query = query.Where("courier_id IN (?)", filter.CourierIDs)
	}
	if len(filter.TerminalIDs) > 0 {
		query = query.Where("terminal_id IN (?)", filter.TerminalIDs)
	}
	if len(filter.Statuses) > 0 {
		online := make([]bool, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			online = append(online, s == domain.CourierOnline)
		}
		query = query.
			Joins("JOIN couriers ON couriers.id = courier_terminal_balance.courier_id").
			Where("couriers.online IN (?)", online)
	}
	if filter.PositiveOnly {
		query = query.Where("balance > 0")
	}

	var rows []models.TerminalBalanceModel
	if err := query.Order("courier_id, terminal_id").Find(&rows).Error; err != nil {
		return nil, err
	}

	balances := make([]*domain.TerminalBalance, len(rows))
	for i := range rows {
		balances[i] = mappers.ToDomainBalance(&rows[i])
	}
	return balances, nil
}

func (r *DefaultLedgerRepository) SumByType(courierIDs []string, txType domain.TransactionType, from, to time.Time) (map[string]decimal.Decimal, error) {
	type sumRow struct {
		CourierID string
		Total     decimal.Decimal
	}
	var rows []sumRow
	err := r.DB.Model(&models.LedgerEntryModel{}).
		Select("courier_id, COALESCE(SUM(amount), 0) AS total").
		Where("courier_id IN (?)", courierIDs).
		Where("type = ? AND status = ?", string(txType), string(domain.EntrySuccess)).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("courier_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.CourierID] = row.Total
	}
	return sums, nil
}
