package projection

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
)

// Handler projects one event type into its tables.
type Handler func(ctx context.Context, env *domain.Envelope) error

// Router dispatches envelopes to the projector registered for their type
// tag and writes the generic audit copy for every envelope, recognized or
// not.
type Router struct {
	projectors *Projectors
	handlers   map[string]Handler
}

// NewRouter registers every projector under its event type tag.
func NewRouter(p *Projectors) *Router {
	return &Router{
		projectors: p,
		handlers: map[string]Handler{
			domain.EventVaultCreated:     p.VaultCreated,
			domain.EventMaxSupplySet:     p.MaxSupplySet,
			domain.EventUnderlyingBurned: p.UnderlyingBurned,
			domain.EventRedeemed:         p.Redeemed,

			domain.EventSharesMinted:        p.SharesMinted,
			domain.EventTransfer:            p.Transfer,
			domain.EventTransferModeChanged: p.TransferModeChanged,

			domain.EventBuyoutProposed:  p.BuyoutProposed,
			domain.EventBuyoutVoted:     p.BuyoutVoted,
			domain.EventBuyoutFinalized: p.BuyoutFinalized,

			domain.EventDistributionScheduled: p.DistributionScheduled,
			domain.EventPayoutClaimed:         p.PayoutClaimed,

			domain.EventListingCreated:   p.ListingCreated,
			domain.EventListingFilled:    p.ListingFilled,
			domain.EventListingCancelled: p.ListingCancelled,
			domain.EventListingExpired:   p.ListingExpired,

			domain.EventPoolCreated:      p.PoolCreated,
			domain.EventLiquidityAdded:   p.LiquidityAdded,
			domain.EventLiquidityRemoved: p.LiquidityRemoved,
			domain.EventSwap:             p.Swap,

			domain.EventFeeAccrued:         p.FeeAccrued,
			domain.EventFeeParamsProposed:  p.FeeParamsProposed,
			domain.EventFeeParamsActivated: p.FeeParamsActivated,
			domain.EventFeeParamsSet:       p.FeeParamsSet,
		},
	}
}

// Known reports whether a type tag has a registered projector.
func (r *Router) Known(eventType string) bool {
	_, ok := r.handlers[eventType]
	return ok
}

// Dispatch runs the projector for the envelope's type, then writes the
// audit copy. Unknown types get the audit copy only, so nothing consumed
// from the stream is ever invisible to queries.
func (r *Router) Dispatch(ctx context.Context, env *domain.Envelope) error {
	if h, ok := r.handlers[env.Type]; ok {
		if err := h(ctx, env); err != nil {
			return fmt.Errorf("project %s: %w", env.Type, err)
		}
	}
	return r.writeAudit(ctx, env)
}

func (r *Router) writeAudit(ctx context.Context, env *domain.Envelope) error {
	vaultID := env.VaultID
	if vaultID == "" {
		vaultID = domain.AuditVaultPlaceholder
	}
	return r.projectors.store.EventAudit.Insert(ctx, &domain.EventAudit{
		Network:     env.Network,
		VaultID:     vaultID,
		BlockHeight: env.BlockHeight,
		TxIndex:     env.TxIndex,
		EvIndex:     env.EvIndex,
		TxID:        env.TxID,
		Type:        env.Type,
		Payload:     env.Payload,
		Timestamp:   env.Timestamp,
	})
}
