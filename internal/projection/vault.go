package projection

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/fixedpoint"
)

type vaultCreatedPayload struct {
	Collection  string `json:"collection"`
	TokenID     string `json:"tokenId"`
	ShareSymbol string `json:"shareSymbol"`
	Policy      string `json:"policy"`
	Creator     string `json:"creator"`
	Treasury    string `json:"treasury"`
}

type maxSupplySetPayload struct {
	MaxSupply any `json:"maxSupply"`
}

// VaultCreated opens a new vault and registers its share token with zero
// supply.
func (p *Projectors) VaultCreated(ctx context.Context, env *domain.Envelope) error {
	if env.VaultID == "" {
		return fmt.Errorf("%w: vaultId on %s", errMissingField, env.Type)
	}

	var pl vaultCreatedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}

	vault := &domain.Vault{
		Network:     env.Network,
		VaultID:     env.VaultID,
		Collection:  pl.Collection,
		TokenID:     pl.TokenID,
		ShareSymbol: pl.ShareSymbol,
		Policy:      pl.Policy,
		Creator:     pl.Creator,
		State:       domain.VaultStateOpen,
		UpdatedAt:   env.Timestamp,
	}
	if err := p.store.Vaults.Upsert(ctx, vault); err != nil {
		return err
	}

	if pl.ShareSymbol == "" {
		// Vault row stands alone until a later event names the token.
		p.logger.Printf("[WARN] VaultCreated for %s carries no share symbol", env.VaultID)
		return nil
	}

	token := &domain.ShareToken{
		Network:     env.Network,
		Symbol:      pl.ShareSymbol,
		VaultID:     env.VaultID,
		Decimals:    fixedpoint.Scale,
		TotalSupply: fixedpoint.Zero.String(),
		Mode:        "open",
		Treasury:    pl.Treasury,
		CreatedAt:   env.Timestamp,
	}
	return p.store.ShareTokens.Upsert(ctx, token)
}

// MaxSupplySet records the vault's share supply cap.
func (p *Projectors) MaxSupplySet(ctx context.Context, env *domain.Envelope) error {
	if env.VaultID == "" {
		return fmt.Errorf("%w: vaultId on %s", errMissingField, env.Type)
	}

	var pl maxSupplySetPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}

	max := fixedpoint.FromJSON(pl.MaxSupply)
	return p.store.Vaults.SetMaxSupply(ctx, env.Network, env.VaultID, max.String(), env.Timestamp)
}

// UnderlyingBurned marks the vault invalid: its NFT no longer exists.
func (p *Projectors) UnderlyingBurned(ctx context.Context, env *domain.Envelope) error {
	if env.VaultID == "" {
		return fmt.Errorf("%w: vaultId on %s", errMissingField, env.Type)
	}
	return p.store.Vaults.SetState(ctx, env.Network, env.VaultID, domain.VaultStateInvalid, env.Timestamp)
}

// Redeemed marks the vault redeemed.
func (p *Projectors) Redeemed(ctx context.Context, env *domain.Envelope) error {
	if env.VaultID == "" {
		return fmt.Errorf("%w: vaultId on %s", errMissingField, env.Type)
	}
	return p.store.Vaults.SetState(ctx, env.Network, env.VaultID, domain.VaultStateRedeemed, env.Timestamp)
}
