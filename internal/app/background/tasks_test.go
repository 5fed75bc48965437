package background

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingSweeper) hit(name string) (*transactiondto.SweepResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
	if name == "sync" {
		return nil, errors.New("gateway down")
	}
	return &transactiondto.SweepResult{Processed: 1}, nil
}

func (c *countingSweeper) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *countingSweeper) ExpireOverduePayments(context.Context) (*transactiondto.SweepResult, error) {
	return c.hit("expire")
}

func (c *countingSweeper) AutoCompleteExpired(context.Context) (*transactiondto.SweepResult, error) {
	return c.hit("verify")
}

func (c *countingSweeper) SyncPendingPayments(context.Context) (*transactiondto.SweepResult, error) {
	return c.hit("sync")
}

func (c *countingSweeper) CloseEndedAuctions(context.Context) (*transactiondto.SweepResult, error) {
	return c.hit("close")
}

func TestRunOnce_SkipsDisabledSweeps(t *testing.T) {
	s := &countingSweeper{}
	bt := NewBackgroundTasks(config.Scheduler{
		PaymentExpiryInterval: time.Second,
		VerificationInterval:  time.Second,
		AuctionCloseInterval:  time.Second,
	}, s, s)

	bt.RunOnce(context.Background())

	for _, name := range []string{"expire", "verify", "close"} {
		if s.count(name) != 1 {
			t.Fatalf("expected %s to run once, got %d", name, s.count(name))
		}
	}
	if s.count("sync") != 0 {
		t.Fatal("payment sync should be disabled with a zero interval")
	}
}

func TestStartAll_StopsOnCancel(t *testing.T) {
	s := &countingSweeper{}
	bt := NewBackgroundTasks(config.Scheduler{
		PaymentExpiryInterval: 5 * time.Millisecond,
		PaymentSyncInterval:   5 * time.Millisecond,
	}, s, s)

	ctx, cancel := context.WithCancel(context.Background())
	bt.StartAll(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for (s.count("expire") < 2 || s.count("sync") < 2) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	bt.Wait()

	if s.count("expire") < 2 {
		t.Fatalf("expected repeated sweeps, got %d", s.count("expire"))
	}
	if s.count("sync") < 2 {
		t.Fatal("a failing sweep must keep its ticker running")
	}
}
