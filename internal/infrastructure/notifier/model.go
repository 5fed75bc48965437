package notifier

import "time"

// NotificationPayload is the body POSTed to the notification webhook.
type NotificationPayload struct {
	DeliveryID string            `json:"delivery_id"`
	UserID     string            `json:"user_id"`
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	SentAt     time.Time         `json:"sent_at"`
}
