package jobs

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"fieldservice_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// reminderLead is how long before the appointment start the reminder fires.
const reminderLead = 24 * time.Hour

// Client enqueues background tasks. A nil Client is valid and drops every
// task, so callers never need to branch on whether jobs are configured.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates a task client from the jobs configuration.
func NewClient(cfg config.JobsConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the client's Redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleReminder enqueues an appointment reminder ahead of the order's
// start time. Reminders whose lead time has already passed are not enqueued;
// the worker re-reads the order when the task fires, so stale reminders for
// since-moved orders are dropped there.
func (c *Client) ScheduleReminder(ctx context.Context, workOrderID uuid.UUID, startAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	runAt := startAt.Add(-reminderLead)
	if runAt.Before(time.Now()) {
		return nil
	}

	task, err := NewWorkOrderReminderTask(WorkOrderReminderPayload{
		WorkOrderID: workOrderID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
