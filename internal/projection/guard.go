package projection

import (
	"context"
	"log"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/observability"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// Guard decides whether an envelope should be projected. It claims the
// event id in the processed-events table; only the first claim wins, so a
// redelivered envelope is skipped before any projector runs.
type Guard struct {
	processed storage.ProcessedEventStore
	logger    *log.Logger
}

// NewGuard creates a guard over a processed-events store.
func NewGuard(processed storage.ProcessedEventStore, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.Default()
	}
	return &Guard{processed: processed, logger: logger}
}

// ShouldProcess reports whether this delivery owns the envelope. A storage
// failure fails open: the event is processed anyway, trading a possible
// duplicate projection for never silently dropping an event.
func (g *Guard) ShouldProcess(ctx context.Context, env *domain.Envelope) bool {
	claimed, err := g.processed.Claim(ctx, env.Network, env.TxID, env.EvIndex)
	if err != nil {
		g.logger.Printf("[WARN] idempotency claim failed for %s/%s#%d, processing anyway: %v",
			env.Network, env.TxID, env.EvIndex, err)
		observability.RecordError(observability.StageClaim, "claim_failed")
		return true
	}
	return claimed
}
