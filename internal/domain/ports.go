package domain

import (
	"context"
	"time"
)

// UserProfileProvider answers KYC questions (phone + ID document on file).
type UserProfileProvider interface {
	HasCompletedKYC(ctx context.Context, userID string) (bool, error)
}

// BankAccountProvider returns nil, nil when the user has no default account.
type BankAccountProvider interface {
	GetDefaultBankAccount(ctx context.Context, userID string) (*BankAccount, error)
}

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "PENDING"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceExpired InvoiceStatus = "EXPIRED"
)

type InvoiceRequest struct {
	ExternalID  string
	Amount      int64
	PayerEmail  string
	Description string
	SuccessURL  string
	FailureURL  string
	Duration    time.Duration
}

type Invoice struct {
	ID         string
	InvoiceURL string
	ExpiresAt  time.Time
}

// PaymentGateway is the opaque invoice provider.
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error)
	CheckStatus(ctx context.Context, invoiceID string) (InvoiceStatus, error)
	ExpireInvoice(ctx context.Context, invoiceID string) error
}

// NotificationSink delivers user notifications; failures never roll back state.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}

// EventPublisher pushes domain events to the bus after commit.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev Event) error
}
