package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/courierhub/shift-settlement-service/internal/app/background"
	"github.com/courierhub/shift-settlement-service/internal/config"
	delivery "github.com/courierhub/shift-settlement-service/internal/delivery/http"
	"github.com/courierhub/shift-settlement-service/internal/delivery/http/handlers"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/cache"
	publisher "github.com/courierhub/shift-settlement-service/internal/infrastructure/kafka"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/logger"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/metrics"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/migrate"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/orderservice"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/postgres/repository"
	"github.com/courierhub/shift-settlement-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.ShiftDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.ShiftDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Kafka publisher for presence and settlement events
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)

	// Init repositories
	shiftRepo := repository.NewDefaultShiftRepository(db)
	attendanceRepo := repository.NewDefaultAttendanceRepository(db)
	ledgerRepo := repository.NewDefaultLedgerRepository(db)
	taskRepo := repository.NewDefaultGuaranteeTaskRepository(db)
	planRepo := repository.NewDefaultPlanRepository(db)
	courierRepo := repository.NewDefaultCourierRepository(db)
	terminalRepo := repository.NewDefaultTerminalRepository(db)
	scheduleRepo := repository.NewDefaultScheduleRepository(db)

	// Reference-data snapshot cache
	snapshot := cache.NewSnapshot(repository.NewSnapshotLoader(db))
	snapshot.ScheduleRepo = scheduleRepo
	snapshot.TerminalRepo = terminalRepo
	snapshot.PlanRepo = planRepo
	if err := snapshot.Refresh(); err != nil {
		log.Printf("initial snapshot refresh failed, serving read-through: %v", err)
	}
	go snapshot.StartRefresher(ctx, time.Duration(cfg.Cache.RefreshSeconds)*time.Second)

	// Init OrderService client
	orderClient, err := orderservice.NewHTTPOrderServiceClient(fmt.Sprintf("%s:%s", cfg.OrderService.Host, cfg.OrderService.Port))
	if err != nil {
		log.Fatalf("failed to init order service client: %v", err)
	}

	shiftMetrics := metrics.NewShiftMetrics()
	eventLogger := logger.NewPGShiftEventLogger(db)

	// Init usecases
	catalog := usecase.NewScheduleCatalog(snapshot, cfg.Attendance.DayBoundaryHour)
	shiftUC := usecase.NewDefaultShiftUsecase(shiftRepo, courierRepo, snapshot, catalog, pub, eventLogger, shiftMetrics)
	ledgerUC := usecase.NewDefaultLedgerUsecase(ledgerRepo, snapshot, shiftMetrics)
	guaranteeUC := usecase.NewDefaultGuaranteeUsecase(taskRepo, attendanceRepo, courierRepo, snapshot, snapshot, pub, shiftMetrics, cfg.Settlement.Workers)
	reportUC := usecase.NewDefaultReportUsecase(ledgerRepo, attendanceRepo, courierRepo, orderClient, shiftMetrics)

	// Background workers
	tasks := background.NewBackgroundTasks(
		shiftUC,
		guaranteeUC,
		time.Duration(cfg.Settlement.IntervalMinutes)*time.Minute,
		time.Duration(cfg.Attendance.MaxShiftHours)*time.Hour,
	)
	tasks.StartAll(ctx)

	// HTTP server
	courierHandler := handlers.NewCourierHandler(shiftUC, ledgerUC, guaranteeUC)
	txHandler := handlers.NewTransactionHandler(ledgerUC, reportUC)
	router := delivery.NewRouter(courierHandler, txHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		log.Printf("shift service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}
