package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"submission-service/internal/obs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// SubmissionPublisher publishes domain events to the submission_events queue.
type SubmissionPublisher struct {
	mu                sync.Mutex
	channel           Channel
	declared          bool
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
}

func NewSubmissionPublisher(channel Channel) *SubmissionPublisher {
	return &SubmissionPublisher{channel: channel}
}

func (p *SubmissionPublisher) Publish(ctx context.Context, evt SubmissionEvent) error {
	err := p.publish(ctx, evt)
	obs.EventsPublished.WithLabelValues(string(evt.Type), obs.Result(err)).Inc()
	if err != nil {
		p.messagesFailed.Add(1)
		return err
	}
	p.messagesPublished.Add(1)
	slog.Info("Submission event published", "queue", SubmissionQueue, "type", evt.Type, "submission_id", evt.SubmissionID)
	return nil
}

func (p *SubmissionPublisher) publish(ctx context.Context, evt SubmissionEvent) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal submission event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared {
		_, err := p.channel.QueueDeclare(
			SubmissionQueue, // queue name
			true,            // durable
			false,           // delete when unused
			false,           // exclusive
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue: %w", err)
		}
		p.declared = true
	}

	err = p.channel.PublishWithContext(
		ctx,
		"",              // exchange
		SubmissionQueue, // routing key (queue name)
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         string(evt.Type),
			Body:         body,
			Timestamp:    evt.OccurredAt,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish submission event: %w", err)
	}
	return nil
}

func (p *SubmissionPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished.Load(),
		"messages_failed":    p.messagesFailed.Load(),
		"queue":              SubmissionQueue,
	}
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, evt SubmissionEvent) error {
	slog.Debug("event dropped, no broker configured", "type", evt.Type)
	return nil
}
