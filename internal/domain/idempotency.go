package domain

import (
	"context"
	"time"
)

// StoredResponse is a completed mutation replayed for a repeated Idempotency-Key.
type StoredResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore guards mutating requests against client retries.
// Reserve returns acquired=false with a nil response while another request
// holding the same key is still in flight.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (acquired bool, stored *StoredResponse, err error)
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
