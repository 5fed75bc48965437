package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics holds the service's prometheus collectors.
// A nil *EscrowMetrics is valid and records nothing.
type EscrowMetrics struct {
	// Transactions
	TransactionsCreatedTotal *prometheus.CounterVec
	TransactionsStatusTotal  *prometheus.CounterVec
	PlatformFeeAmountTotal   prometheus.Counter
	OverdueVerificationTotal prometheus.Counter

	// Auctions
	BidsTotal *prometheus.CounterVec

	// Disputes
	DisputesOpenedTotal   prometheus.Counter
	DisputesResolvedTotal *prometheus.CounterVec

	// Operations
	OperationDuration    *prometheus.HistogramVec
	OperationErrorsTotal *prometheus.CounterVec

	// Notifications, events, payouts, audit
	SideEffectFailuresTotal *prometheus.CounterVec
}

// NewEscrowMetrics registers collectors on reg (prometheus.DefaultRegisterer in production).
func NewEscrowMetrics(reg prometheus.Registerer) *EscrowMetrics {
	factory := promauto.With(reg)
	return &EscrowMetrics{
		TransactionsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_created_total",
				Help: "Escrow transactions created, by listing type",
			},
			[]string{"listing_type"},
		),
		TransactionsStatusTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_transactions_status_total",
				Help: "Transaction status transitions, by target status",
			},
			[]string{"status"},
		),
		PlatformFeeAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_platform_fee_amount_total",
				Help: "Platform fees frozen into created transactions (IDR)",
			},
		),
		OverdueVerificationTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_overdue_verification_total",
				Help: "Transactions found past their verification deadline while auto-completion is off",
			},
		),
		BidsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_bids_total",
				Help: "Bids placed, by result",
			},
			[]string{"result"},
		),
		DisputesOpenedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_disputes_opened_total",
				Help: "Disputes opened by buyers",
			},
		),
		DisputesResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_resolved_total",
				Help: "Disputes resolved, by resolution",
			},
			[]string{"resolution"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "escrow_operation_duration_seconds",
				Help:    "Duration of state-changing operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_operation_errors_total",
				Help: "Rejected or failed operations, by error kind",
			},
			[]string{"operation", "kind"},
		),
		SideEffectFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_side_effect_failures_total",
				Help: "Post-commit side effects that failed to deliver",
			},
			[]string{"kind"},
		),
	}
}

func (m *EscrowMetrics) ObserveOperation(operation string, started time.Time, errKind string) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if errKind != "" && errKind != "none" {
		m.OperationErrorsTotal.WithLabelValues(operation, errKind).Inc()
	}
}

func (m *EscrowMetrics) TransactionCreated(listingType string, platformFee int64) {
	if m == nil {
		return
	}
	m.TransactionsCreatedTotal.WithLabelValues(listingType).Inc()
	m.PlatformFeeAmountTotal.Add(float64(platformFee))
}

func (m *EscrowMetrics) TransactionStatus(status string) {
	if m == nil {
		return
	}
	m.TransactionsStatusTotal.WithLabelValues(status).Inc()
}

func (m *EscrowMetrics) OverdueVerification() {
	if m == nil {
		return
	}
	m.OverdueVerificationTotal.Inc()
}

func (m *EscrowMetrics) Bid(result string) {
	if m == nil {
		return
	}
	m.BidsTotal.WithLabelValues(result).Inc()
}

func (m *EscrowMetrics) DisputeOpened() {
	if m == nil {
		return
	}
	m.DisputesOpenedTotal.Inc()
}

func (m *EscrowMetrics) DisputeResolved(resolution string) {
	if m == nil {
		return
	}
	m.DisputesResolvedTotal.WithLabelValues(resolution).Inc()
}

func (m *EscrowMetrics) SideEffectFailure(kind string) {
	if m == nil {
		return
	}
	m.SideEffectFailuresTotal.WithLabelValues(kind).Inc()
}
