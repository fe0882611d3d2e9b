package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldservice_backend/internal/adapters"
	"fieldservice_backend/internal/cache"
	"fieldservice_backend/internal/customers"
	"fieldservice_backend/internal/events"
	apphttp "fieldservice_backend/internal/http"
	"fieldservice_backend/internal/http/router"
	"fieldservice_backend/internal/jobs"
	"fieldservice_backend/internal/notification"
	"fieldservice_backend/internal/schedule"
	scheduleservice "fieldservice_backend/internal/schedule/service"
	"fieldservice_backend/internal/technicians"
	"fieldservice_backend/internal/workorders"
	"fieldservice_backend/migrations"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/db"
	"fieldservice_backend/platform/logger"
	"fieldservice_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Redis-backed query cache; nil store degrades to always-miss
	store, err := cache.NewStoreFromURL(cfg.GetRedisURL(), log)
	if err != nil {
		log.Error("failed to initialize cache store", "error", err)
		panic("failed to initialize cache store: " + err.Error())
	}
	if store == nil {
		log.Warn("REDIS_URL not configured; query caching disabled")
	} else {
		defer func() { _ = store.Close() }()
	}

	// Every mutating domain event flows through the invalidation graph
	cache.NewInvalidator(store).RegisterHandlers(eventBus)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	// Notification module subscribes to domain events (not HTTP-facing)
	var sender notification.Sender
	if smtp := notification.NewSMTPSender(cfg); smtp != nil {
		sender = smtp
	} else {
		log.Warn("email disabled; assignment notifications will not be sent")
	}
	notifier := notification.NewNotifier(sender, log)
	notifier.RegisterHandlers(eventBus)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	techniciansModule := technicians.NewModule(pool, eventBus, val)
	customersModule := customers.NewModule(pool, val)

	technicianDirectory := adapters.NewTechnicianDirectory(techniciansModule.Service())
	workOrdersModule := workorders.NewModule(pool, technicianDirectory, eventBus, store, cfg.GetBoardCacheTTL(), log, val)
	if reminderScheduler != nil {
		workOrdersModule.Service().SetReminderScheduler(reminderScheduler)
	}

	scheduleModule := schedule.NewModule(
		adapters.NewWorkOrderSource(workOrdersModule.Service()),
		adapters.NewTechnicianSource(techniciansModule.Service()),
		adapters.NewAssigner(workOrdersModule.Service()),
		store,
		scheduleservice.Config{
			CacheTTL:     cfg.GetBoardCacheTTL(),
			WorkDayStart: cfg.GetWorkDayStartHour(),
			WorkDayEnd:   cfg.GetWorkDayEndHour(),
			BacklogLimit: cfg.GetBoardFetchPageSize(),
		},
		log,
		val,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			techniciansModule,
			customersModule,
			workOrdersModule,
			scheduleModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.JobsConfig, log *logger.Logger) (*jobs.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; appointment reminders disabled")
		return nil, nil
	}

	reminderClient, err := jobs.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
