package client

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// StaticUserDirectory answers profile questions from memory. It backs local
// runs without a user service and the usecase tests.
type StaticUserDirectory struct {
	mu       sync.RWMutex
	verified map[string]bool
	accounts map[string]*domain.BankAccount

	// AllVerified treats every user as KYC-complete.
	AllVerified bool
	// Err, when set, is returned by every call.
	Err error
}

func NewStaticUserDirectory() *StaticUserDirectory {
	return &StaticUserDirectory{
		verified: make(map[string]bool),
		accounts: make(map[string]*domain.BankAccount),
	}
}

func (d *StaticUserDirectory) SetVerified(userID string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.verified[userID] = ok
}

func (d *StaticUserDirectory) SetBankAccount(userID string, account *domain.BankAccount) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[userID] = account
}

func (d *StaticUserDirectory) HasCompletedKYC(_ context.Context, userID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return false, d.Err
	}
	return d.AllVerified || d.verified[userID], nil
}

func (d *StaticUserDirectory) GetDefaultBankAccount(_ context.Context, userID string) (*domain.BankAccount, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.Err != nil {
		return nil, d.Err
	}
	if a := d.accounts[userID]; a != nil {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}
