package notification

import (
	"context"
	"fmt"
	"html"

	"fieldservice_backend/internal/events"
	"fieldservice_backend/platform/logger"
)

// Notifier subscribes to domain events and emails the affected technician.
// Delivery failures are logged, never propagated: a dead SMTP server must
// not fail the mutation that raised the event.
type Notifier struct {
	sender Sender
	log    *logger.Logger
}

// NewNotifier creates a notifier. A nil sender disables delivery while
// keeping the wiring in place.
func NewNotifier(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// RegisterHandlers subscribes the notifier to the events it emails about.
func (n *Notifier) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.WorkOrderAssigned{}.EventName(), events.HandlerFunc(n.handleAssigned))
	bus.Subscribe(events.WorkOrderReminderDue{}.EventName(), events.HandlerFunc(n.handleReminderDue))
}

func (n *Notifier) handleAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.WorkOrderAssigned)
	if !ok || n.sender == nil || e.TechnicianEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("New job on %s: %s", e.ScheduledDate, e.JobType)
	body := assignmentBody(e.TechnicianName, e.JobType, e.ScheduledDate, e.TimeWindowStart, e.City)

	if err := n.sender.Send(ctx, e.TechnicianEmail, subject, body); err != nil {
		n.log.Error("failed to send assignment email",
			"workOrderId", e.WorkOrderID, "technicianId", e.TechnicianID, "error", err)
	}
	return nil
}

func (n *Notifier) handleReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.WorkOrderReminderDue)
	if !ok || n.sender == nil || e.TechnicianEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Reminder: %s tomorrow", e.JobType)
	body := reminderBody(e.TechnicianName, e.JobType, e.ScheduledDate, e.TimeWindowStart, e.City)

	if err := n.sender.Send(ctx, e.TechnicianEmail, subject, body); err != nil {
		n.log.Error("failed to send reminder email",
			"workOrderId", e.WorkOrderID, "error", err)
	}
	return nil
}

func assignmentBody(name, jobType, date string, windowStart *string, city string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>You have been assigned a new job.</p>%s",
		html.EscapeString(name),
		jobDetails(jobType, date, windowStart, city),
	)
}

func reminderBody(name, jobType, date string, windowStart *string, city string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>A reminder about your upcoming job.</p>%s",
		html.EscapeString(name),
		jobDetails(jobType, date, windowStart, city),
	)
}

func jobDetails(jobType, date string, windowStart *string, city string) string {
	details := fmt.Sprintf("<ul><li>Job: %s</li><li>Date: %s</li>",
		html.EscapeString(jobType), html.EscapeString(date))
	if windowStart != nil && *windowStart != "" {
		details += fmt.Sprintf("<li>Time window: from %s</li>", html.EscapeString(*windowStart))
	}
	if city != "" {
		details += fmt.Sprintf("<li>City: %s</li>", html.EscapeString(city))
	}
	return details + "</ul>"
}
