package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
)

// SimulatedGateway issues invoices locally. Invoices stay PENDING until
// SetStatus is called or they pass their expiry.
type SimulatedGateway struct {
	mu       sync.Mutex
	baseURL  string
	invoices map[string]*simulatedInvoice
	now      func() time.Time

	// FailNext makes the next CreateInvoice call fail.
	FailNext bool
}

type simulatedInvoice struct {
	externalID string
	status     domain.InvoiceStatus
	expiresAt  time.Time
}

func NewSimulatedGateway(baseURL string) *SimulatedGateway {
	if baseURL == "" {
		baseURL = "http://localhost:8080/simulated-invoices"
	}
	return &SimulatedGateway{
		baseURL:  baseURL,
		invoices: make(map[string]*simulatedInvoice),
		now:      time.Now,
	}
}

func (g *SimulatedGateway) CreateInvoice(_ context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNext {
		g.FailNext = false
		return nil, fmt.Errorf("simulated gateway failure")
	}
	id := "inv_" + uuid.NewString()
	expiresAt := g.now().Add(req.Duration).UTC()
	g.invoices[id] = &simulatedInvoice{externalID: req.ExternalID, status: domain.InvoicePending, expiresAt: expiresAt}
	return &domain.Invoice{ID: id, InvoiceURL: g.baseURL + "/" + id, ExpiresAt: expiresAt}, nil
}

func (g *SimulatedGateway) CheckStatus(_ context.Context, invoiceID string) (domain.InvoiceStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	inv, ok := g.invoices[invoiceID]
	if !ok {
		return "", fmt.Errorf("unknown invoice %s", invoiceID)
	}
	if inv.status == domain.InvoicePending && !g.now().Before(inv.expiresAt) {
		inv.status = domain.InvoiceExpired
	}
	return inv.status, nil
}

// SetStatus settles or expires an invoice, as the real gateway would.
func (g *SimulatedGateway) SetStatus(invoiceID string, status domain.InvoiceStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	inv, ok := g.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("unknown invoice %s", invoiceID)
	}
	inv.status = status
	return nil
}

func (g *SimulatedGateway) ExpireInvoice(_ context.Context, invoiceID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	inv, ok := g.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("unknown invoice %s", invoiceID)
	}
	if inv.status == domain.InvoicePaid {
		return fmt.Errorf("invoice %s is already paid", invoiceID)
	}
	inv.status = domain.InvoiceExpired
	return nil
}

// CountByStatus reports how many issued invoices are in status.
func (g *SimulatedGateway) CountByStatus(status domain.InvoiceStatus) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, inv := range g.invoices {
		if inv.status == status {
			n++
		}
	}
	return n
}

func (g *SimulatedGateway) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.invoices)
}
