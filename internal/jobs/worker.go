package jobs

import (
	"context"
	"fmt"

	"fieldservice_backend/internal/events"
	"fieldservice_backend/internal/schedule/week"
	techrepo "fieldservice_backend/internal/technicians/repository"
	worepo "fieldservice_backend/internal/workorders/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker processes background tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	orders *worepo.Repository
	techs  *techrepo.Repository
	bus    events.Bus
	log    *logger.Logger
}

// NewWorker creates an asynq worker bound to the configured queue.
func NewWorker(cfg config.JobsConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		orders: worepo.New(pool),
		techs:  techrepo.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskWorkOrderReminder, w.handleWorkOrderReminder)

	return w, nil
}

// Run serves tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("jobs worker stopped", "error", err)
	}
}

// handleWorkOrderReminder re-reads the order when the reminder falls due.
// Orders that were deleted, unscheduled, reassigned away, or closed since
// the reminder was enqueued are silently skipped.
func (w *Worker) handleWorkOrderReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWorkOrderReminderPayload(task)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(payload.WorkOrderID)
	if err != nil {
		return err
	}

	wo, err := w.orders.GetByID(ctx, orderID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	if wo.ScheduledDate == nil || wo.AssignedTechnicianID == nil || wo.Status.IsTerminal() {
		return nil
	}

	tech, err := w.techs.GetByID(ctx, *wo.AssignedTechnicianID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if !tech.IsActive || tech.Email == "" {
		return nil
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.WorkOrderReminderDue{
		BaseEvent:       events.NewBaseEvent(),
		WorkOrderID:     wo.ID,
		TechnicianName:  tech.FullName(),
		TechnicianEmail: tech.Email,
		JobType:         wo.JobType,
		ScheduledDate:   week.DateKey(*wo.ScheduledDate),
		TimeWindowStart: wo.TimeWindowStart,
		City:            wo.City,
	})

	return nil
}
