package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/fixedpoint"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type listingCreatedPayload struct {
	ListingID    string `json:"listingId"`
	Seller       string `json:"seller"`
	Amount       any    `json:"amount"`
	Price        any    `json:"price"`
	PaymentToken string `json:"paymentToken"`
}

type listingRefPayload struct {
	ListingID string `json:"listingId"`
}

type poolCreatedPayload struct {
	PoolID   string `json:"poolId"`
	AssetA   string `json:"assetA"`
	AssetB   string `json:"assetB"`
	ReserveA any    `json:"reserveA"`
	ReserveB any    `json:"reserveB"`
	FeeBps   int    `json:"feeBps"`
}

type poolReservesPayload struct {
	PoolID   string `json:"poolId"`
	ReserveA any    `json:"reserveA"`
	ReserveB any    `json:"reserveB"`
}

// ListingCreated opens a listing and writes its seller-keyed mirror.
func (p *Projectors) ListingCreated(ctx context.Context, env *domain.Envelope) error {
	var pl listingCreatedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ListingID == "" {
		return fmt.Errorf("%w: listingId on %s", errMissingField, env.Type)
	}

	listing := &domain.Listing{
		Network:      env.Network,
		VaultID:      env.VaultID,
		ListingID:    pl.ListingID,
		Seller:       pl.Seller,
		Amount:       fixedpoint.FromJSON(pl.Amount).String(),
		Price:        fixedpoint.FromJSON(pl.Price).String(),
		PaymentToken: pl.PaymentToken,
		Status:       domain.ListingStatusOpen,
		CreatedAt:    env.Timestamp,
		UpdatedAt:    env.Timestamp,
	}
	if err := p.store.Listings.Upsert(ctx, listing); err != nil {
		return err
	}
	if listing.Seller == "" {
		return nil
	}
	return p.store.Listings.UpsertBySeller(ctx, listing)
}

// ListingFilled closes a listing as filled.
func (p *Projectors) ListingFilled(ctx context.Context, env *domain.Envelope) error {
	return p.closeListing(ctx, env, domain.ListingStatusFilled)
}

// ListingCancelled closes a listing as cancelled.
func (p *Projectors) ListingCancelled(ctx context.Context, env *domain.Envelope) error {
	return p.closeListing(ctx, env, domain.ListingStatusCancelled)
}

// ListingExpired closes a listing as expired.
func (p *Projectors) ListingExpired(ctx context.Context, env *domain.Envelope) error {
	return p.closeListing(ctx, env, domain.ListingStatusExpired)
}

// closeListing moves a listing to a terminal status and keeps the
// seller-keyed mirror in lockstep, looking up the current seller from the
// primary row.
func (p *Projectors) closeListing(ctx context.Context, env *domain.Envelope, status string) error {
	var pl listingRefPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ListingID == "" {
		return fmt.Errorf("%w: listingId on %s", errMissingField, env.Type)
	}

	listing, err := p.store.Listings.Get(ctx, env.Network, env.VaultID, pl.ListingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Terminal event for a listing never opened here; nothing to close.
			return nil
		}
		return err
	}

	if err := p.store.Listings.SetStatus(ctx, env.Network, env.VaultID, pl.ListingID, status, env.Timestamp); err != nil {
		return err
	}
	if listing.Seller == "" {
		return nil
	}
	return p.store.Listings.SetStatusBySeller(ctx, env.Network, listing.Seller, pl.ListingID, status, env.Timestamp)
}

// PoolCreated registers a pool plus both directions of the asset mirror.
func (p *Projectors) PoolCreated(ctx context.Context, env *domain.Envelope) error {
	var pl poolCreatedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.PoolID == "" {
		return fmt.Errorf("%w: poolId on %s", errMissingField, env.Type)
	}

	pool := &domain.Pool{
		Network:   env.Network,
		VaultID:   env.VaultID,
		PoolID:    pl.PoolID,
		AssetA:    pl.AssetA,
		AssetB:    pl.AssetB,
		ReserveA:  fixedpoint.FromJSON(pl.ReserveA).String(),
		ReserveB:  fixedpoint.FromJSON(pl.ReserveB).String(),
		FeeBps:    pl.FeeBps,
		CreatedAt: env.Timestamp,
		UpdatedAt: env.Timestamp,
	}
	if err := p.store.Pools.Upsert(ctx, pool); err != nil {
		return err
	}
	return p.upsertPoolMirrors(ctx, pool)
}

// LiquidityAdded overwrites pool reserves when the payload carries them.
func (p *Projectors) LiquidityAdded(ctx context.Context, env *domain.Envelope) error {
	return p.updatePoolReserves(ctx, env)
}

// LiquidityRemoved overwrites pool reserves when the payload carries them.
func (p *Projectors) LiquidityRemoved(ctx context.Context, env *domain.Envelope) error {
	return p.updatePoolReserves(ctx, env)
}

// Swap overwrites pool reserves when the payload carries them.
func (p *Projectors) Swap(ctx context.Context, env *domain.Envelope) error {
	return p.updatePoolReserves(ctx, env)
}

// updatePoolReserves applies the explicit post-event reserves from a
// liquidity or swap payload. Reserve deltas are not derivable from these
// payloads, so an event without both reserves is a no-op.
func (p *Projectors) updatePoolReserves(ctx context.Context, env *domain.Envelope) error {
	var pl poolReservesPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.PoolID == "" {
		return fmt.Errorf("%w: poolId on %s", errMissingField, env.Type)
	}
	if pl.ReserveA == nil || pl.ReserveB == nil {
		return nil
	}

	reserveA := fixedpoint.FromJSON(pl.ReserveA).String()
	reserveB := fixedpoint.FromJSON(pl.ReserveB).String()

	if err := p.store.Pools.SetReserves(ctx, env.Network, env.VaultID, pl.PoolID, reserveA, reserveB, env.Timestamp); err != nil {
		return err
	}

	pool, err := p.store.Pools.Get(ctx, env.Network, env.VaultID, pl.PoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	return p.upsertPoolMirrors(ctx, pool)
}

// upsertPoolMirrors writes one asset-keyed mirror row per pool asset, each
// carrying the other asset and the matching reserve pairing.
func (p *Projectors) upsertPoolMirrors(ctx context.Context, pool *domain.Pool) error {
	if pool.AssetA != "" {
		mirror := &domain.PoolByAsset{
			Network:      pool.Network,
			Asset:        pool.AssetA,
			PoolID:       pool.PoolID,
			VaultID:      pool.VaultID,
			OtherAsset:   pool.AssetB,
			Reserve:      pool.ReserveA,
			OtherReserve: pool.ReserveB,
			UpdatedAt:    pool.UpdatedAt,
		}
		if err := p.store.Pools.UpsertByAsset(ctx, mirror); err != nil {
			return err
		}
	}
	if pool.AssetB != "" {
		mirror := &domain.PoolByAsset{
			Network:      pool.Network,
			Asset:        pool.AssetB,
			PoolID:       pool.PoolID,
			VaultID:      pool.VaultID,
			OtherAsset:   pool.AssetA,
			Reserve:      pool.ReserveB,
			OtherReserve: pool.ReserveA,
			UpdatedAt:    pool.UpdatedAt,
		}
		if err := p.store.Pools.UpsertByAsset(ctx, mirror); err != nil {
			return err
		}
	}
	return nil
}
