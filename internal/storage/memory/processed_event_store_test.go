package memory

import (
	"context"
	"sync"
	"testing"
)

func TestProcessedEventStore_ClaimOnce(t *testing.T) {
	store := NewProcessedEventStore()
	ctx := context.Background()

	first, err := store.Claim(ctx, "mainnet", "tx1", 0)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if !first {
		t.Error("First claim should return true")
	}

	second, err := store.Claim(ctx, "mainnet", "tx1", 0)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if second {
		t.Error("Second claim should return false")
	}

	third, _ := store.Claim(ctx, "mainnet", "tx1", 0)
	if third {
		t.Error("Third claim should return false")
	}
}

func TestProcessedEventStore_DistinctIDs(t *testing.T) {
	store := NewProcessedEventStore()
	ctx := context.Background()

	// Different ev_index under the same tx is a different event id.
	if ok, _ := store.Claim(ctx, "mainnet", "tx1", 0); !ok {
		t.Error("Expected claim for ev_index 0")
	}
	if ok, _ := store.Claim(ctx, "mainnet", "tx1", 1); !ok {
		t.Error("Expected claim for ev_index 1")
	}
	if ok, _ := store.Claim(ctx, "testnet", "tx1", 0); !ok {
		t.Error("Expected claim for other network")
	}
}

func TestProcessedEventStore_ConcurrentClaims(t *testing.T) {
	store := NewProcessedEventStore()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Claim(ctx, "mainnet", "tx-race", 3)
			if err != nil {
				t.Errorf("Claim failed: %v", err)
				return
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for ok := range results {
		if ok {
			winners++
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly 1 winning claim, got %d", winners)
	}
}
