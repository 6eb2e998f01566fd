package projection

import (
	"context"
	"log"
	"time"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/observability"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// Pipeline ties decode, the idempotency guard, and the router into the
// single entry point the consumer feeds raw message bytes through.
type Pipeline struct {
	guard  *Guard
	router *Router
	logger *log.Logger
}

// NewPipeline wires a pipeline over a store bundle.
func NewPipeline(store *storage.Store, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	projectors := NewProjectors(store, logger)
	return &Pipeline{
		guard:  NewGuard(store.ProcessedEvents, logger),
		router: NewRouter(projectors),
		logger: logger,
	}
}

// Handle processes one raw message. The error return is informational, for
// logging and metrics; the caller acknowledges the message either way.
func (p *Pipeline) Handle(ctx context.Context, data []byte) error {
	env, err := domain.DecodeEnvelope(data)
	if err != nil {
		observability.RecordError(observability.StageDecode, "decode")
		return err
	}

	if !p.guard.ShouldProcess(ctx, env) {
		observability.RecordEventSkipped(env.Network)
		return nil
	}

	if !p.router.Known(env.Type) {
		p.logger.Printf("[WARN] unknown event type %q from %s/%s#%d, audit only",
			env.Type, env.Network, env.TxID, env.EvIndex)
		observability.RecordUnknownEvent(env.Network)
	}

	start := time.Now()
	if err := p.router.Dispatch(ctx, env); err != nil {
		// The claim above already succeeded, so this event will be skipped
		// on redelivery. Its projection is lost unless replayed by hand.
		p.logger.Printf("[WARN] %s %s/%s#%d claimed but not projected: %v",
			env.Type, env.Network, env.TxID, env.EvIndex, err)
		observability.RecordError(observability.StageProject, env.Type)
		return err
	}

	observability.RecordEventProcessed(env.Type, env.Network)
	observability.RecordProcessingDuration(env.Type, time.Since(start).Seconds())
	return nil
}
