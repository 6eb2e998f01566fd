package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/fixedpoint"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type feeAccruedPayload struct {
	Token         string `json:"token"`
	Amount        any    `json:"amount"`
	VaultShare    any    `json:"vaultShare"`
	ProtocolShare any    `json:"protocolShare"`
}

type feeParamsPayload struct {
	FeeBps           int    `json:"feeBps"`
	VaultSplitBps    int    `json:"vaultSplitBps"`
	ProtocolSplitBps int    `json:"protocolSplitBps"`
	EffectiveAt      *int64 `json:"effectiveAt"`
}

// FeeAccrued appends a fee audit row and folds the amounts into the
// running per-token totals.
func (p *Projectors) FeeAccrued(ctx context.Context, env *domain.Envelope) error {
	var pl feeAccruedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.Token == "" {
		return fmt.Errorf("%w: token on %s", errMissingField, env.Type)
	}

	amount := fixedpoint.FromJSON(pl.Amount)
	vaultShare := fixedpoint.FromJSON(pl.VaultShare)
	protocolShare := fixedpoint.FromJSON(pl.ProtocolShare)

	err := p.store.Fees.InsertFeeEvent(ctx, &domain.FeeEvent{
		Network:       env.Network,
		VaultID:       env.VaultID,
		Token:         pl.Token,
		Amount:        amount.String(),
		VaultShare:    vaultShare.String(),
		ProtocolShare: protocolShare.String(),
		TxID:          env.TxID,
		EvIndex:       env.EvIndex,
		BlockHeight:   env.BlockHeight,
		Timestamp:     env.Timestamp,
	})
	if err != nil {
		return err
	}

	totals, err := p.store.Fees.GetTotals(ctx, env.Network, pl.Token)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		totals = &domain.FeeTotals{
			Network:       env.Network,
			Token:         pl.Token,
			Total:         fixedpoint.Zero.String(),
			VaultTotal:    fixedpoint.Zero.String(),
			ProtocolTotal: fixedpoint.Zero.String(),
		}
	}

	totals.Total = fixedpoint.FromString(totals.Total).Add(amount).String()
	totals.VaultTotal = fixedpoint.FromString(totals.VaultTotal).Add(vaultShare).String()
	totals.ProtocolTotal = fixedpoint.FromString(totals.ProtocolTotal).Add(protocolShare).String()
	totals.UpdatedAt = env.Timestamp
	return p.store.Fees.UpsertTotals(ctx, totals)
}

// FeeParamsProposed stores a pending fee schedule alongside the current
// one. Current parameters are untouched until activation.
func (p *Projectors) FeeParamsProposed(ctx context.Context, env *domain.Envelope) error {
	var pl feeParamsPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if env.VaultID == "" {
		return fmt.Errorf("%w: vaultId on %s", errMissingField, env.Type)
	}

	state, err := p.currentFeeState(ctx, env)
	if err != nil {
		return err
	}
	feeBps, vaultSplit, protocolSplit := pl.FeeBps, pl.VaultSplitBps, pl.ProtocolSplitBps
	state.PendingFeeBps = &feeBps
	state.PendingVaultSplitBps = &vaultSplit
	state.PendingProtocolSplitBps = &protocolSplit
	state.PendingEffectiveAt = pl.EffectiveAt
	state.UpdatedAt = env.Timestamp
	return p.store.Fees.UpsertVaultFeeState(ctx, state)
}

// FeeParamsActivated promotes the payload's fee schedule to current and
// clears any pending proposal.
func (p *Projectors) FeeParamsActivated(ctx context.Context, env *domain.Envelope) error {
	return p.setCurrentFeeParams(ctx, env)
}

// FeeParamsSet applies a fee schedule directly, bypassing the
// propose-then-activate handshake. Any pending proposal is cleared.
func (p *Projectors) FeeParamsSet(ctx context.Context, env *domain.Envelope) error {
	return p.setCurrentFeeParams(ctx, env)
}

func (p *Projectors) setCurrentFeeParams(ctx context.Context, env *domain.Envelope) error {
	var pl feeParamsPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if env.VaultID == "" {
		return fmt.Errorf("%w: vaultId on %s", errMissingField, env.Type)
	}

	state, err := p.currentFeeState(ctx, env)
	if err != nil {
		return err
	}
	state.FeeBps = pl.FeeBps
	state.VaultSplitBps = pl.VaultSplitBps
	state.ProtocolSplitBps = pl.ProtocolSplitBps
	state.PendingFeeBps = nil
	state.PendingVaultSplitBps = nil
	state.PendingProtocolSplitBps = nil
	state.PendingEffectiveAt = nil
	state.UpdatedAt = env.Timestamp
	return p.store.Fees.UpsertVaultFeeState(ctx, state)
}

// currentFeeState loads the vault's fee schedule, or a fresh zero-valued
// one when the vault has no schedule row yet.
func (p *Projectors) currentFeeState(ctx context.Context, env *domain.Envelope) (*domain.VaultFeeState, error) {
	state, err := p.store.Fees.GetVaultFeeState(ctx, env.Network, env.VaultID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return &domain.VaultFeeState{
		Network: env.Network,
		VaultID: env.VaultID,
	}, nil
}
