package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// InvoiceClient talks to a hosted-invoice payment gateway over REST.
// Requests authenticate with HTTP basic auth: secret key as user, empty password.
type InvoiceClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewInvoiceClient(baseURL, secretKey string, timeout time.Duration) *InvoiceClient {
	return &InvoiceClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type createInvoiceRequest struct {
	ExternalID         string `json:"external_id"`
	Amount             int64  `json:"amount"`
	PayerEmail         string `json:"payer_email,omitempty"`
	Description        string `json:"description"`
	InvoiceDuration    int64  `json:"invoice_duration"`
	Currency           string `json:"currency"`
	SuccessRedirectURL string `json:"success_redirect_url,omitempty"`
	FailureRedirectURL string `json:"failure_redirect_url,omitempty"`
}

type invoiceResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Status     string    `json:"status"`
	InvoiceURL string    `json:"invoice_url"`
	ExpiryDate time.Time `json:"expiry_date"`
}

type gatewayError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (c *InvoiceClient) CreateInvoice(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	body, err := json.Marshal(createInvoiceRequest{
		ExternalID:         req.ExternalID,
		Amount:             req.Amount,
		PayerEmail:         req.PayerEmail,
		Description:        req.Description,
		InvoiceDuration:    int64(req.Duration / time.Second),
		Currency:           "IDR",
		SuccessRedirectURL: req.SuccessURL,
		FailureRedirectURL: req.FailureURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal invoice request: %w", err)
	}

	var out invoiceResponse
	if err := c.do(ctx, http.MethodPost, "/v2/invoices", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.InvoiceURL == "" {
		return nil, fmt.Errorf("gateway returned an incomplete invoice")
	}
	return &domain.Invoice{ID: out.ID, InvoiceURL: out.InvoiceURL, ExpiresAt: out.ExpiryDate.UTC()}, nil
}

func (c *InvoiceClient) CheckStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatus, error) {
	var out invoiceResponse
	if err := c.do(ctx, http.MethodGet, "/v2/invoices/"+url.PathEscape(invoiceID), nil, &out); err != nil {
		return "", err
	}
	return MapStatus(out.Status), nil
}

// ExpireInvoice voids an unpaid invoice so the payer can no longer settle it.
func (c *InvoiceClient) ExpireInvoice(ctx context.Context, invoiceID string) error {
	var out invoiceResponse
	return c.do(ctx, http.MethodPost, "/invoices/"+url.PathEscape(invoiceID)+"/expire!", nil, &out)
}

// MapStatus folds gateway invoice states onto the three the escrow cares about.
func MapStatus(status string) domain.InvoiceStatus {
	switch strings.ToUpper(status) {
	case "PAID", "SETTLED":
		return domain.InvoicePaid
	case "EXPIRED":
		return domain.InvoiceExpired
	default:
		return domain.InvoicePending
	}
}

func (c *InvoiceClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.SetBasicAuth(c.secretKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ge gatewayError
		_ = json.Unmarshal(raw, &ge)
		return fmt.Errorf("gateway returned status %d: %s %s", resp.StatusCode, ge.ErrorCode, ge.Message)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
