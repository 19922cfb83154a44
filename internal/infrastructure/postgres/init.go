package postgres

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/courierhub/shift-settlement-service/internal/config"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/logger"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/models"
)

func MustInitDB(cfg *config.ShiftConfig) *gorm.DB {
	dsn := cfg.ShiftDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.CourierModel{},
		&models.TerminalModel{},
		&models.CourierTerminalModel{},
		&models.WorkScheduleModel{},
		&models.CourierScheduleModel{},
		&models.ShiftEntryModel{},
		&models.AttendanceModel{},
		&models.GuaranteePlanModel{},
		&models.GuaranteeTaskModel{},
		&models.LedgerEntryModel{},
		&models.TerminalBalanceModel{},
		&models.ManagerWithdrawModel{},
		&logger.ShiftOpenedEvent{},
		&logger.OpenRejectedEvent{},
	)

	return db
}
