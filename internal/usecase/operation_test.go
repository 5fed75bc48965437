package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
)

func TestUndoRunsOnlyOnRollback(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	runner := usecase.NewRunner(store, nil, nil, nil)
	runner.Async = false

	var ran []string
	record := func(name string) func(context.Context) {
		return func(context.Context) { ran = append(ran, name) }
	}

	undo := &usecase.Compensations{}
	err := runner.Process(ctx, usecase.Operation{
		Name: "committed",
		Undo: undo,
		Critical: func(*domain.Repositories) (domain.Effects, error) {
			undo.Add(record("first"))
			return domain.Effects{}, nil
		},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(ran) != 0 {
		t.Fatalf("expected no compensation after commit, ran %v", ran)
	}

	failure := errors.New("step failed")
	undo = &usecase.Compensations{}
	err = runner.Process(ctx, usecase.Operation{
		Name: "rolled_back",
		Undo: undo,
		Critical: func(*domain.Repositories) (domain.Effects, error) {
			undo.Add(record("first"))
			undo.Add(record("second"))
			return domain.Effects{}, failure
		},
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected step failure, got %v", err)
	}
	if len(ran) != 2 || ran[0] != "second" || ran[1] != "first" {
		t.Fatalf("expected compensations newest first, ran %v", ran)
	}

	ran = nil
	undo = &usecase.Compensations{}
	store.FailNextCommit(failure)
	err = runner.Process(ctx, usecase.Operation{
		Name: "commit_failed",
		Undo: undo,
		Critical: func(*domain.Repositories) (domain.Effects, error) {
			undo.Add(record("invoice"))
			return domain.Effects{}, nil
		},
	})
	if !errors.Is(err, failure) || len(ran) != 1 {
		t.Fatalf("expected compensation after failed commit, err %v ran %v", err, ran)
	}
}

func TestNilCompensationsIgnoresSteps(t *testing.T) {
	var undo *usecase.Compensations
	undo.Add(func(context.Context) { t.Fatal("nil compensations must not run steps") })

	runner := usecase.NewRunner(memory.NewStore(), nil, nil, nil)
	err := runner.Process(context.Background(), usecase.Operation{
		Name: "no_undo",
		Critical: func(*domain.Repositories) (domain.Effects, error) {
			return domain.Effects{}, errors.New("fails")
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
