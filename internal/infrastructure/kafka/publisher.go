package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// EscrowPublisher routes domain events and user notifications to their topics.
// Events are keyed by entity id so every event of one transaction lands on the
// same partition in order; notifications are keyed by recipient.
type EscrowPublisher struct {
	port               domain.PublisherPort
	eventsTopic        string
	notificationsTopic string
	maxRetries         int
	backoff            time.Duration
}

func NewEscrowPublisher(port domain.PublisherPort, eventsTopic, notificationsTopic string) *EscrowPublisher {
	return &EscrowPublisher{
		port:               port,
		eventsTopic:        eventsTopic,
		notificationsTopic: notificationsTopic,
		maxRetries:         3,
		backoff:            time.Second,
	}
}

// WithRetry overrides the retry policy; backoff grows linearly per attempt.
func (p *EscrowPublisher) WithRetry(maxRetries int, backoff time.Duration) *EscrowPublisher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	p.maxRetries = maxRetries
	p.backoff = backoff
	return p
}

func (p *EscrowPublisher) PublishEvent(ctx context.Context, ev domain.Event) error {
	value, err := json.Marshal(ToEventMessage(ev))
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}
	return p.publish(ctx, p.eventsTopic, domain.Message{Key: []byte(ev.EntityID), Value: value})
}

func (p *EscrowPublisher) Notify(ctx context.Context, n domain.Notification) error {
	value, err := json.Marshal(ToNotificationMessage(n))
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", n.Type, err)
	}
	return p.publish(ctx, p.notificationsTopic, domain.Message{Key: []byte(n.UserID), Value: value})
}

func (p *EscrowPublisher) publish(ctx context.Context, topic string, msg domain.Message) error {
	var err error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		if err = p.port.Publish(ctx, topic, msg); err == nil {
			return nil
		}
		slog.Warn("kafka publish attempt failed",
			"topic", topic,
			"attempt", attempt,
			"error", err,
		)
		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}
	}
	return fmt.Errorf("publish to %s failed after %d attempts: %w", topic, p.maxRetries, err)
}
