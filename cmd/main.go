package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	configureLotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/configure_lot"
	getActiveSessionHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_active_session"
	getAvailabilityHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_availability"
	listSessionsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_sessions"
	recordEntryHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/record_entry"
	recordExitHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/record_exit"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/migrations"
	sessionRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/session"
	lotService "github.com/m04kA/SMC-ParkingService/internal/service/lot"
	sessionsService "github.com/m04kA/SMC-ParkingService/internal/service/sessions"
	"github.com/m04kA/SMC-ParkingService/internal/shell"
	recordEntryUC "github.com/m04kA/SMC-ParkingService/internal/usecase/record_entry"
	recordExitUC "github.com/m04kA/SMC-ParkingService/internal/usecase/record_exit"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/telemetry"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

const (
	modeServer = "server"
	modeCLI    = "cli"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	mode := flag.String("mode", modeServer, "run mode: server | cli")
	flag.Parse()

	if *mode != modeServer && *mode != modeCLI {
		fmt.Printf("Unknown mode: %s\n", *mode)
		os.Exit(2)
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер. В интерактивном режиме stdout занят командами.
	var log *logger.Logger
	if *mode == modeCLI {
		log, err = logger.NewFileOnly(cfg.Logs.File, cfg.Logs.Level)
	} else {
		log, err = logger.New(cfg.Logs.File, cfg.Logs.Level)
	}
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParkingService (mode=%s)...", *mode)
	log.Info("Configuration loaded from %s", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Трассировка
	tracing, err := telemetry.New(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown tracing: %v", err)
		}
	}()
	if tracing.Enabled() {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool. SQLite допускает только одного писателя.
	if cfg.Database.Driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		log.Info("Successfully connected to database (driver=sqlite, path=%s)", cfg.Database.Path)
	} else {
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}

	stopMetricsCh := make(chan struct{})
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, wrappedDB, cfg.Database.Driver); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database schema is up to date (driver=%s)", cfg.Database.Driver)
	}

	// Репозитории и transaction manager
	lotRepository := lotRepo.NewRepository(wrappedDB, cfg.Database.Driver)
	sessionRepository := sessionRepo.NewRepository(wrappedDB, cfg.Database.Driver)

	var txOpts []txmanager.Option
	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite сериализует запись сама и не принимает уровень изоляции
		txOpts = append(txOpts, txmanager.WithSerializableLevel(sql.LevelDefault))
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB, txOpts...)

	// Инициализируем сервисы
	lotSvc := lotService.NewService(lotRepository, sessionRepository, txMgr, metricsCollector, log)
	sessionsSvc := sessionsService.NewService(sessionRepository, log)

	if cfg.Parking.InitialCapacity > 0 {
		if err := lotSvc.EnsureConfigured(ctx, cfg.Parking.InitialCapacity); err != nil {
			log.Fatal("Failed to configure parking lot: %v", err)
		}
	}

	// Инициализируем use cases
	recordEntryUseCase := recordEntryUC.NewUseCase(
		lotRepository,
		sessionRepository,
		txMgr,
		metricsCollector,
		log,
	)
	recordExitUseCase := recordExitUC.NewUseCase(
		lotRepository,
		sessionRepository,
		txMgr,
		metricsCollector,
		recordExitUC.Settings{
			DefaultRatePerHour: cfg.Parking.DefaultRatePerHour,
			OverflowPolicy:     cfg.Parking.OverflowPolicy,
		},
		log,
	)
	log.Info("Tariff: default_rate_per_hour=%.2f, overflow_policy=%s",
		cfg.Parking.DefaultRatePerHour, cfg.Parking.OverflowPolicy)

	if *mode == modeCLI {
		sh := shell.New(recordEntryUseCase, recordExitUseCase, lotSvc, sessionsSvc, os.Stdin, os.Stdout)
		if err := sh.Run(ctx); err != nil && err != context.Canceled {
			log.Error("Shell stopped with error: %v", err)
		}
		close(stopMetricsCh)
		return
	}

	// Инициализируем handlers
	recordEntry := recordEntryHandler.NewHandler(recordEntryUseCase, log)
	recordExit := recordExitHandler.NewHandler(recordExitUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(lotSvc, log)
	configureLot := configureLotHandler.NewHandler(lotSvc, log)
	getActiveSession := getActiveSessionHandler.NewHandler(sessionsSvc, log)
	listSessions := listSessionsHandler.NewHandler(sessionsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log), middleware.Tracing)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Въезд и выезд ---
	api.HandleFunc("/entries", recordEntry.Handle).Methods(http.MethodPost)
	api.HandleFunc("/exits", recordExit.Handle).Methods(http.MethodPost)

	// --- Стоянка ---
	api.HandleFunc("/lot/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/lot", configureLot.Handle).Methods(http.MethodPut)

	// --- Сессии ---
	api.HandleFunc("/sessions/active/{licensePlate}", getActiveSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions", listSessions.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
