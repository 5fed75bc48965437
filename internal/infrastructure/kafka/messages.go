package kafka

import (
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// EventMessage is the wire form of a domain event on the events topic.
type EventMessage struct {
	Type       string    `json:"type"`
	EntityID   string    `json:"entity_id"`
	ListingID  string    `json:"listing_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationMessage is consumed by the notification service.
type NotificationMessage struct {
	UserID  string            `json:"user_id"`
	Type    string            `json:"type"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Payload map[string]string `json:"payload,omitempty"`
}

func ToEventMessage(ev domain.Event) EventMessage {
	return EventMessage{
		Type:       string(ev.Type),
		EntityID:   ev.EntityID,
		ListingID:  ev.ListingID,
		ActorID:    ev.ActorID,
		OldStatus:  ev.OldStatus,
		NewStatus:  ev.NewStatus,
		Amount:     ev.Amount,
		OccurredAt: ev.OccurredAt,
	}
}

func ToNotificationMessage(n domain.Notification) NotificationMessage {
	return NotificationMessage{
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Body:    n.Body,
		Payload: n.Payload,
	}
}
