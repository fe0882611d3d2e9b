package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldservice_backend/internal/cache"
	"fieldservice_backend/internal/events"
	"fieldservice_backend/internal/jobs"
	"fieldservice_backend/internal/notification"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/db"
	"fieldservice_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// Reminder emails go out through the same notifier the API uses
	var sender notification.Sender
	if smtp := notification.NewSMTPSender(cfg); smtp != nil {
		sender = smtp
	} else {
		log.Warn("email disabled; reminder notifications will not be sent")
	}
	notifier := notification.NewNotifier(sender, log)
	notifier.RegisterHandlers(eventBus)

	// Reminder handling invalidates nothing itself, but wiring the
	// invalidator keeps cache behavior uniform if worker-side mutations
	// are added later
	store, err := cache.NewStoreFromURL(cfg.GetRedisURL(), log)
	if err != nil {
		log.Error("failed to initialize cache store", "error", err)
		panic("failed to initialize cache store: " + err.Error())
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	cache.NewInvalidator(store).RegisterHandlers(eventBus)

	worker, err := jobs.NewWorker(cfg, pool, eventBus, log)
	if err != nil {
		log.Error("failed to initialize jobs worker", "error", err)
		panic("failed to initialize jobs worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
