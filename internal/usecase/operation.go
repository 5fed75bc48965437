package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

////////////////////// Safe escrow operations //////////////////////////

// Operation is one state-changing call. Critical runs inside a single unit of
// work together with the audit entries it returns; notifications and events
// are delivered only after commit.
type Operation struct {
	Name     string
	Critical func(r *domain.Repositories) (domain.Effects, error)
	// Undo collects compensations for external calls Critical made; they run
	// only when the unit rolls back.
	Undo *Compensations
}

// Compensations is a list of steps that reverse side effects a unit of work
// caused outside the store. A nil *Compensations drops every step.
type Compensations struct {
	mu    sync.Mutex
	steps []func(ctx context.Context)
}

func (c *Compensations) Add(step func(ctx context.Context)) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, step)
}

// run executes steps newest first and forgets them.
func (c *Compensations) run(ctx context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	steps := c.steps
	c.steps = nil
	c.mu.Unlock()
	for i := len(steps) - 1; i >= 0; i-- {
		steps[i](ctx)
	}
}

// Runner executes operations against the store and dispatches their effects.
type Runner struct {
	Store    domain.Store
	Notifier domain.NotificationSink
	Events   domain.EventPublisher
	Metrics  *metrics.EscrowMetrics

	// Async delivers side effects on a separate goroutine.
	Async bool
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewRunner(
	store domain.Store,
	notifier domain.NotificationSink,
	events domain.EventPublisher,
	escrowMetrics *metrics.EscrowMetrics,
) *Runner {
	return &Runner{
		Store:    store,
		Notifier: notifier,
		Events:   events,
		Metrics:  escrowMetrics,
		Async:    true,
		Clock:    time.Now,
	}
}

func (r *Runner) Now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}
	return r.Clock().UTC()
}

// Repos returns read-only repositories bound to the root connection.
func (r *Runner) Repos() *domain.Repositories {
	return r.Store.Repositories()
}

// Process runs the critical part atomically, then schedules non-critical effects.
func (r *Runner) Process(ctx context.Context, op Operation) error {
	started := time.Now()

	var fx domain.Effects
	err := r.Store.Atomic(ctx, func(repos *domain.Repositories) error {
		effects, err := op.Critical(repos)
		if err != nil {
			return err
		}
		if len(effects.Audit) > 0 {
			if err := repos.Audit.Append(ctx, effects.Audit...); err != nil {
				return fmt.Errorf("append audit log: %w", err)
			}
		}
		fx = effects
		return nil
	})
	r.Metrics.ObserveOperation(op.Name, started, domain.KindOf(err))
	if err != nil {
		op.Undo.run(context.WithoutCancel(ctx))
		if _, ok := domain.AsError(err); !ok {
			slog.Error("operation failed", "operation", op.Name, "error", err)
		}
		return err
	}

	r.Dispatch(ctx, fx)
	return nil
}

// Dispatch delivers notifications and events. Failures are logged and counted,
// never returned: the state change they describe has already committed.
func (r *Runner) Dispatch(ctx context.Context, fx domain.Effects) {
	for _, ev := range fx.Events {
		if status, ok := transactionStatus(ev); ok {
			r.Metrics.TransactionStatus(status)
		}
	}
	if len(fx.Notifications) == 0 && len(fx.Events) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if r.Async {
		go r.deliver(ctx, fx)
		return
	}
	r.deliver(ctx, fx)
}

func (r *Runner) deliver(ctx context.Context, fx domain.Effects) {
	if r.Notifier != nil {
		for _, n := range fx.Notifications {
			if err := r.Notifier.Notify(ctx, n); err != nil {
				slog.Error("failed to deliver notification",
					"user_id", n.UserID,
					"type", n.Type,
					"error", err,
				)
				r.Metrics.SideEffectFailure("notification")
			}
		}
	}
	if r.Events != nil {
		for _, ev := range fx.Events {
			if err := r.Events.PublishEvent(ctx, ev); err != nil {
				slog.Error("failed to publish event",
					"type", ev.Type,
					"entity_id", ev.EntityID,
					"error", err,
				)
				r.Metrics.SideEffectFailure("event")
			}
		}
	}
}

func transactionStatus(ev domain.Event) (string, bool) {
	switch ev.Type {
	case domain.EventTransactionCreated,
		domain.EventTransactionPaid,
		domain.EventItemTransferred,
		domain.EventTransactionCompleted,
		domain.EventTransactionCancelled,
		domain.EventTransactionDisputed,
		domain.EventTransactionRefunded:
		return ev.NewStatus, true
	}
	return "", false
}
