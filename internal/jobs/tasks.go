// Package jobs schedules and processes background tasks over asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskWorkOrderReminder is the task type for appointment reminders.
const TaskWorkOrderReminder = "workorders.reminder"

// WorkOrderReminderPayload identifies the order a reminder concerns.
type WorkOrderReminderPayload struct {
	WorkOrderID string `json:"workOrderId"`
}

// NewWorkOrderReminderTask builds a reminder task.
func NewWorkOrderReminderTask(payload WorkOrderReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWorkOrderReminder, data), nil
}

// ParseWorkOrderReminderPayload decodes a reminder task payload.
func ParseWorkOrderReminderPayload(task *asynq.Task) (WorkOrderReminderPayload, error) {
	var payload WorkOrderReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WorkOrderReminderPayload{}, err
	}
	return payload, nil
}
