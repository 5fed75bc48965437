package logger

import (
	"context"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// EventLogger writes notifications and domain events to the log. It stands in
// for the kafka publisher when no brokers are configured.
type EventLogger struct {
	log *slog.Logger
}

func NewEventLogger(l *slog.Logger) *EventLogger {
	if l == nil {
		l = slog.Default()
	}
	return &EventLogger{log: l}
}

func (l *EventLogger) Notify(ctx context.Context, n domain.Notification) error {
	l.log.InfoContext(ctx, "notification",
		"user_id", n.UserID,
		"type", n.Type,
		"title", n.Title,
	)
	return nil
}

func (l *EventLogger) PublishEvent(ctx context.Context, ev domain.Event) error {
	l.log.InfoContext(ctx, "domain event",
		"type", ev.Type,
		"entity_id", ev.EntityID,
		"listing_id", ev.ListingID,
		"old_status", ev.OldStatus,
		"new_status", ev.NewStatus,
		"amount", ev.Amount,
	)
	return nil
}
