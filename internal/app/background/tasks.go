package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

type TransactionSweeper interface {
	ExpireOverduePayments(ctx context.Context) (*transactiondto.SweepResult, error)
	AutoCompleteExpired(ctx context.Context) (*transactiondto.SweepResult, error)
	SyncPendingPayments(ctx context.Context) (*transactiondto.SweepResult, error)
}

type AuctionCloser interface {
	CloseEndedAuctions(ctx context.Context) (*transactiondto.SweepResult, error)
}

type sweep struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) (*transactiondto.SweepResult, error)
}

// BackgroundTasks is the scheduler: it drives every time-based transition.
type BackgroundTasks struct {
	sweeps []sweep
	wg     sync.WaitGroup
}

func NewBackgroundTasks(cfg config.Scheduler, transactions TransactionSweeper, auctions AuctionCloser) *BackgroundTasks {
	bt := &BackgroundTasks{}
	bt.add("payment_expiry", cfg.PaymentExpiryInterval, transactions.ExpireOverduePayments)
	bt.add("verification_deadline", cfg.VerificationInterval, transactions.AutoCompleteExpired)
	bt.add("auction_close", cfg.AuctionCloseInterval, auctions.CloseEndedAuctions)
	bt.add("payment_sync", cfg.PaymentSyncInterval, transactions.SyncPendingPayments)
	return bt
}

func (bt *BackgroundTasks) add(name string, interval time.Duration, run func(ctx context.Context) (*transactiondto.SweepResult, error)) {
	if interval <= 0 {
		slog.Info("background sweep disabled", "sweep", name)
		return
	}
	bt.sweeps = append(bt.sweeps, sweep{name: name, interval: interval, run: run})
}

// StartAll launches one ticker goroutine per enabled sweep. They stop when ctx is done.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	for _, s := range bt.sweeps {
		bt.wg.Add(1)
		go func(s sweep) {
			defer bt.wg.Done()
			bt.loop(ctx, s)
		}(s)
	}
}

// Wait blocks until every sweep goroutine has returned.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

// RunOnce executes every enabled sweep a single time, in order.
func (bt *BackgroundTasks) RunOnce(ctx context.Context) {
	for _, s := range bt.sweeps {
		runSweep(ctx, s)
	}
}

func (bt *BackgroundTasks) loop(ctx context.Context, s sweep) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runSweep(ctx, s)
		}
	}
}

func runSweep(ctx context.Context, s sweep) {
	started := time.Now()
	res, err := s.run(ctx)
	if err != nil {
		slog.Error("background sweep failed", "sweep", s.name, "error", err)
		return
	}
	if res.Processed+res.Failed+res.Skipped == 0 {
		return
	}
	slog.Info("background sweep finished",
		"sweep", s.name,
		"processed", res.Processed,
		"failed", res.Failed,
		"skipped", res.Skipped,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}
