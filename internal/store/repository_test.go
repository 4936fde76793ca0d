package store

import (
	"context"
	"testing"
	"time"

	"github.com/myhandle/studio-service/internal/domain"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	accounts := []domain.Account{
		{ID: "a-1", Username: "coolchef", Niche: "Vegan Cooking", CreatedAt: created},
		{ID: "a-2", Username: "wanderer", Niche: "Travel", CreatedAt: created.Add(time.Hour)},
		{ID: "a-3", Username: "lifter", Niche: "Fitness", CreatedAt: created.Add(2 * time.Hour)},
	}

	if err := repo.SaveAccounts(ctx, accounts); err != nil {
		t.Fatalf("SaveAccounts returned error: %v", err)
	}

	loaded := repo.LoadAccounts(ctx)
	if len(loaded) != len(accounts) {
		t.Fatalf("expected %d accounts, got %d", len(accounts), len(loaded))
	}
	for i := range accounts {
		if loaded[i] != accounts[i] {
			t.Fatalf("account %d mismatch: expected %+v, got %+v", i, accounts[i], loaded[i])
		}
	}
}

func TestMemoryRepository_LoadIsIsolatedFromCallerMutation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.SaveAccounts(ctx, []domain.Account{{ID: "a-1", Username: "one", Niche: "Travel"}}); err != nil {
		t.Fatalf("SaveAccounts returned error: %v", err)
	}

	first := repo.LoadAccounts(ctx)
	first[0].Username = "mutated"

	second := repo.LoadAccounts(ctx)
	if second[0].Username != "one" {
		t.Fatalf("expected stored state unaffected by caller mutation, got %q", second[0].Username)
	}
}

func TestMemoryRepository_EmptyState(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if got := repo.LoadAccounts(ctx); len(got) != 0 {
		t.Fatalf("expected empty account list, got %d", len(got))
	}
	if got := repo.LoadSelectedID(ctx); got != "" {
		t.Fatalf("expected absent selection, got %q", got)
	}
}

func TestMemoryRepository_SelectedIDOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.SaveSelectedID(ctx, "a-1"); err != nil {
		t.Fatalf("SaveSelectedID returned error: %v", err)
	}
	if err := repo.SaveSelectedID(ctx, "a-2"); err != nil {
		t.Fatalf("SaveSelectedID returned error: %v", err)
	}
	if got := repo.LoadSelectedID(ctx); got != "a-2" {
		t.Fatalf("expected latest selection, got %q", got)
	}
}
