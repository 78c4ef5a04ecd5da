package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "workshop.events"
	EventsQueue    = "workshop.notifications"
	EventsBindKey  = "ticket.status.*"

	TicketStatusUpdatedRK = "ticket.status.updated"

	NotificationJobsExchange = "workshop.notification_jobs"
	NotificationJobsQueue    = "workshop.notification_jobs.process"
	NotificationJobsDLQ      = "workshop.notification_jobs.dlq"
	NotificationJobsRK       = "process"
	NotificationJobsDeadRK   = "dead"
)

// TicketStatusUpdatedEvent is published by the HTTP layer whenever a
// ticket changes status.
type TicketStatusUpdatedEvent struct {
	Type      string     `json:"type"`
	TicketID  int64      `json:"ticketId"`
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

func EnsureTicketEventsTopology(ctx context.Context, qc *Client) error {
	if qc == nil {
		return nil
	}

	if err := qc.EnsureExchangeKind(EventsExchange, "topic"); err != nil {
		return err
	}
	if _, err := qc.EnsureQueue(EventsQueue, nil); err != nil {
		return err
	}
	if err := qc.BindQueue(EventsQueue, EventsExchange, EventsBindKey); err != nil {
		return err
	}

	if err := qc.EnsureExchangeKind(NotificationJobsExchange, "direct"); err != nil {
		return err
	}
	if _, err := qc.EnsureQueue(NotificationJobsDLQ, nil); err != nil {
		return err
	}
	if err := qc.BindQueue(NotificationJobsDLQ, NotificationJobsExchange, NotificationJobsDeadRK); err != nil {
		return err
	}
	_, err := qc.EnsureQueue(NotificationJobsQueue, amqp.Table{
		"x-dead-letter-exchange":    NotificationJobsExchange,
		"x-dead-letter-routing-key": NotificationJobsDeadRK,
	})
	if err != nil {
		return err
	}
	return qc.BindQueue(NotificationJobsQueue, NotificationJobsExchange, NotificationJobsRK)
}

// ProcessEventToJobs turns a status event into a queued customer message.
// Only statuses a customer cares about produce a job; everything else is
// acked and dropped.
func ProcessEventToJobs(ctx context.Context, db *pgxpool.Pool, qc *Client, body []byte) error {
	if db == nil || qc == nil {
		return nil
	}

	var evt TicketStatusUpdatedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return err
	}
	if evt.Type != "ticket.status.updated" {
		// unknown envelope, drop
		return nil
	}

	message := messageForStatus(evt.Status)
	if message == "" {
		return nil
	}

	var (
		customerName  string
		customerPhone string
		title         string
	)
	query := `select customer_name, customer_phone, title from tickets where id = $1`
	if err := db.QueryRow(ctx, query, evt.TicketID).Scan(&customerName, &customerPhone, &title); err != nil {
		return err
	}
	if strings.TrimSpace(customerPhone) == "" {
		return nil
	}

	text := fmt.Sprintf(message, customerName, title)

	var jobID int64
	insert := `
		insert into notification_jobs (ticket_id, channel, recipient, body, status, created_at)
		values ($1, 'sms', $2, $3, 'pending', now())
		returning id`
	if err := db.QueryRow(ctx, insert, evt.TicketID, customerPhone, text).Scan(&jobID); err != nil {
		return err
	}

	job := map[string]any{
		"kind":      "sms.ticket_status",
		"jobId":     jobID,
		"ticketId":  evt.TicketID,
		"recipient": customerPhone,
		"body":      text,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"attempt":   1,
	}
	return qc.PublishJSON(ctx, NotificationJobsExchange, NotificationJobsRK, job)
}

func messageForStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "READY":
		return "عزيزي %s، سيارتك جاهزة للاستلام (%s)."
	case "DELIVERED":
		return "عزيزي %s، تم تسليم سيارتك (%s). شكراً لزيارتكم."
	default:
		return ""
	}
}
