// Package memory is a process-local domain.Store. Units of work run one at a
// time against a copy of the state that replaces the live state on success,
// so a failed unit leaves nothing behind.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type state struct {
	listings     map[string]domain.Listing
	bids         []domain.Bid
	transactions map[string]domain.Transaction
	txOrder      []string
	payments     map[string]domain.Payment
	paymentOrder []string
	payouts      map[string]domain.Payout
	disputes     map[string]domain.Dispute
	evidence     []domain.Evidence
	reviews      []domain.Review
	ratings      map[string]domain.UserRating
	audit        []domain.AuditEntry
}

func newState() *state {
	return &state{
		listings:     make(map[string]domain.Listing),
		transactions: make(map[string]domain.Transaction),
		payments:     make(map[string]domain.Payment),
		payouts:      make(map[string]domain.Payout),
		disputes:     make(map[string]domain.Dispute),
		ratings:      make(map[string]domain.UserRating),
	}
}

func (s *state) clone() *state {
	c := &state{
		listings:     make(map[string]domain.Listing, len(s.listings)),
		bids:         append([]domain.Bid(nil), s.bids...),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		txOrder:      append([]string(nil), s.txOrder...),
		payments:     make(map[string]domain.Payment, len(s.payments)),
		paymentOrder: append([]string(nil), s.paymentOrder...),
		payouts:      make(map[string]domain.Payout, len(s.payouts)),
		disputes:     make(map[string]domain.Dispute, len(s.disputes)),
		evidence:     append([]domain.Evidence(nil), s.evidence...),
		reviews:      append([]domain.Review(nil), s.reviews...),
		ratings:      make(map[string]domain.UserRating, len(s.ratings)),
		audit:        append([]domain.AuditEntry(nil), s.audit...),
	}
	for k, v := range s.listings {
		c.listings[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.payouts {
		c.payouts[k] = v
	}
	for k, v := range s.disputes {
		c.disputes[k] = v
	}
	for k, v := range s.ratings {
		c.ratings[k] = v
	}
	return c
}

// access runs fn against a state; write reports whether fn mutates it.
type access func(write bool, fn func(st *state) error) error

type Store struct {
	unit    sync.Mutex
	mu      sync.RWMutex
	current *state

	failCommit error
}

func NewStore() *Store {
	return &Store{current: newState()}
}

func (s *Store) root(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.current)
}

func (s *Store) Repositories() *domain.Repositories {
	return bind(s.root)
}

// Atomic serializes units of work, which stands in for row locks.
func (s *Store) Atomic(ctx context.Context, fn func(r *domain.Repositories) error) error {
	s.unit.Lock()
	defer s.unit.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.current.clone()
	s.mu.RUnlock()

	repos := bind(func(_ bool, fn func(st *state) error) error {
		return fn(work)
	})
	if err := fn(repos); err != nil {
		return err
	}
	if err := s.failCommit; err != nil {
		s.failCommit = nil
		return err
	}

	s.mu.Lock()
	s.current = work
	s.mu.Unlock()
	return nil
}

// FailNextCommit makes the next unit of work roll back with err after its
// body has succeeded, the way a failed COMMIT would.
func (s *Store) FailNextCommit(err error) {
	s.unit.Lock()
	defer s.unit.Unlock()
	s.failCommit = err
}

func bind(with access) *domain.Repositories {
	return &domain.Repositories{
		Listings:     &listingRepo{with: with},
		Bids:         &bidRepo{with: with},
		Transactions: &transactionRepo{with: with},
		Payments:     &paymentRepo{with: with},
		Payouts:      &payoutRepo{with: with},
		Disputes:     &disputeRepo{with: with},
		Evidence:     &evidenceRepo{with: with},
		Reviews:      &reviewRepo{with: with},
		Ratings:      &ratingRepo{with: with},
		Audit:        &auditRepo{with: with},
	}
}

func errDuplicate(kind, id string) error {
	return fmt.Errorf("%s %s already exists", kind, id)
}
