package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

func TestBalanceStore_SetAndGet(t *testing.T) {
	store := NewBalanceStore()
	ctx := context.Background()

	b := &domain.Balance{Network: "mainnet", AssetSymbol: "FOO", Account: "acct1", Amount: "10"}
	if err := store.Set(ctx, b); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "mainnet", "FOO", "acct1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Amount != "10" {
		t.Errorf("Amount mismatch: got %s, want 10", got.Amount)
	}

	// Overwrite
	b.Amount = "6"
	if err := store.Set(ctx, b); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, _ = store.Get(ctx, "mainnet", "FOO", "acct1")
	if got.Amount != "6" {
		t.Errorf("Amount mismatch after overwrite: got %s, want 6", got.Amount)
	}
}

func TestBalanceStore_GetMissing(t *testing.T) {
	store := NewBalanceStore()

	_, err := store.Get(context.Background(), "mainnet", "FOO", "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestBalanceStore_ListByAsset(t *testing.T) {
	store := NewBalanceStore()
	ctx := context.Background()

	for _, acct := range []string{"b", "a", "c"} {
		if err := store.Set(ctx, &domain.Balance{Network: "mainnet", AssetSymbol: "FOO", Account: acct, Amount: "1"}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if err := store.Set(ctx, &domain.Balance{Network: "mainnet", AssetSymbol: "BAR", Account: "a", Amount: "1"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	result, err := store.ListByAsset(ctx, "mainnet", "FOO")
	if err != nil {
		t.Fatalf("ListByAsset failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 balances, got %d", len(result))
	}
	// Ordered by account ASC
	if result[0].Account != "a" || result[2].Account != "c" {
		t.Errorf("Unexpected order: %s, %s, %s", result[0].Account, result[1].Account, result[2].Account)
	}
}
