package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/fixedpoint"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type buyoutProposedPayload struct {
	ProposalID string `json:"proposalId"`
	Proposer   string `json:"proposer"`
	Price      any    `json:"price"`
}

type buyoutVotedPayload struct {
	ProposalID string `json:"proposalId"`
	Voter      string `json:"voter"`
	Support    bool   `json:"support"`
	Votes      any    `json:"votes"`
}

type buyoutFinalizedPayload struct {
	ProposalID string `json:"proposalId"`
	Result     string `json:"result"`
}

type distributionScheduledPayload struct {
	ProgramID   string `json:"programId"`
	Asset       string `json:"asset"`
	TotalAmount any    `json:"totalAmount"`
	Schedule    string `json:"schedule"`
	StartAt     int64  `json:"startAt"`
	EndAt       int64  `json:"endAt"`
}

type payoutClaimedPayload struct {
	ProgramID string `json:"programId"`
	Account   string `json:"account"`
	Amount    any    `json:"amount"`
}

// BuyoutProposed opens a proposal in the voting state with zero tallies.
func (p *Projectors) BuyoutProposed(ctx context.Context, env *domain.Envelope) error {
	var pl buyoutProposedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ProposalID == "" {
		return fmt.Errorf("%w: proposalId on %s", errMissingField, env.Type)
	}

	return p.store.Buyouts.Upsert(ctx, &domain.Buyout{
		Network:      env.Network,
		VaultID:      env.VaultID,
		ProposalID:   pl.ProposalID,
		Proposer:     pl.Proposer,
		Price:        fixedpoint.FromJSON(pl.Price).String(),
		ForVotes:     fixedpoint.Zero.String(),
		AgainstVotes: fixedpoint.Zero.String(),
		State:        domain.BuyoutStateVoting,
		UpdatedAt:    env.Timestamp,
	})
}

// BuyoutVoted adds the vote weight to the proposal's for or against tally.
// A vote arriving before its proposal starts a fresh voting-state row so
// the weight is never dropped.
func (p *Projectors) BuyoutVoted(ctx context.Context, env *domain.Envelope) error {
	var pl buyoutVotedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ProposalID == "" {
		return fmt.Errorf("%w: proposalId on %s", errMissingField, env.Type)
	}

	buyout, err := p.store.Buyouts.Get(ctx, env.Network, env.VaultID, pl.ProposalID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		buyout = &domain.Buyout{
			Network:      env.Network,
			VaultID:      env.VaultID,
			ProposalID:   pl.ProposalID,
			Price:        fixedpoint.Zero.String(),
			ForVotes:     fixedpoint.Zero.String(),
			AgainstVotes: fixedpoint.Zero.String(),
			State:        domain.BuyoutStateVoting,
		}
	}

	votes := fixedpoint.FromJSON(pl.Votes)
	if pl.Support {
		buyout.ForVotes = fixedpoint.FromString(buyout.ForVotes).Add(votes).String()
	} else {
		buyout.AgainstVotes = fixedpoint.FromString(buyout.AgainstVotes).Add(votes).String()
	}
	buyout.UpdatedAt = env.Timestamp
	return p.store.Buyouts.Upsert(ctx, buyout)
}

// BuyoutFinalized moves a proposal to the terminal finalized state and
// records the result. A successful buyout also marks the vault redeemed,
// since the underlying has left the vault.
func (p *Projectors) BuyoutFinalized(ctx context.Context, env *domain.Envelope) error {
	var pl buyoutFinalizedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ProposalID == "" {
		return fmt.Errorf("%w: proposalId on %s", errMissingField, env.Type)
	}

	buyout, err := p.store.Buyouts.Get(ctx, env.Network, env.VaultID, pl.ProposalID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		buyout = &domain.Buyout{
			Network:      env.Network,
			VaultID:      env.VaultID,
			ProposalID:   pl.ProposalID,
			Price:        fixedpoint.Zero.String(),
			ForVotes:     fixedpoint.Zero.String(),
			AgainstVotes: fixedpoint.Zero.String(),
		}
	}

	buyout.State = domain.BuyoutStateFinalized
	buyout.Result = pl.Result
	buyout.UpdatedAt = env.Timestamp
	if err := p.store.Buyouts.Upsert(ctx, buyout); err != nil {
		return err
	}

	if pl.Result != domain.BuyoutResultSuccess || env.VaultID == "" {
		return nil
	}
	return p.store.Vaults.SetState(ctx, env.Network, env.VaultID, domain.VaultStateRedeemed, env.Timestamp)
}

// DistributionScheduled registers a payout program.
func (p *Projectors) DistributionScheduled(ctx context.Context, env *domain.Envelope) error {
	var pl distributionScheduledPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ProgramID == "" {
		return fmt.Errorf("%w: programId on %s", errMissingField, env.Type)
	}

	return p.store.Distributions.Upsert(ctx, &domain.Distribution{
		Network:     env.Network,
		VaultID:     env.VaultID,
		ProgramID:   pl.ProgramID,
		Asset:       pl.Asset,
		TotalAmount: fixedpoint.FromJSON(pl.TotalAmount).String(),
		Schedule:    pl.Schedule,
		StartAt:     pl.StartAt,
		EndAt:       pl.EndAt,
		UpdatedAt:   env.Timestamp,
	})
}

// PayoutClaimed records one account's claim against a program. Claims are
// keyed by account, so a redelivered claim overwrites rather than doubles.
func (p *Projectors) PayoutClaimed(ctx context.Context, env *domain.Envelope) error {
	var pl payoutClaimedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.ProgramID == "" {
		return fmt.Errorf("%w: programId on %s", errMissingField, env.Type)
	}
	if pl.Account == "" {
		return fmt.Errorf("%w: account on %s", errMissingField, env.Type)
	}

	return p.store.Distributions.UpsertClaim(ctx, &domain.Claim{
		Network:   env.Network,
		ProgramID: pl.ProgramID,
		Account:   pl.Account,
		Amount:    fixedpoint.FromJSON(pl.Amount).String(),
		ClaimedAt: env.Timestamp,
	})
}
