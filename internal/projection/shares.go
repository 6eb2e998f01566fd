package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/fixedpoint"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type mintRecipient struct {
	Account string `json:"account"`
	Amount  any    `json:"amount"`
}

type sharesMintedPayload struct {
	Symbol  string          `json:"symbol"`
	Account string          `json:"account"`
	Amount  any             `json:"amount"`
	Mints   []mintRecipient `json:"mints"` // batch form; takes precedence
}

type transferPayload struct {
	Symbol string `json:"symbol"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount any    `json:"amount"`
}

type transferModePayload struct {
	Symbol string `json:"symbol"`
	Mode   string `json:"mode"`
}

// SharesMinted credits each recipient's balance and grows the token's
// total supply by the sum of all minted amounts. The payload is either a
// single (account, amount) pair or a batch under "mints".
func (p *Projectors) SharesMinted(ctx context.Context, env *domain.Envelope) error {
	var pl sharesMintedPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.Symbol == "" {
		return fmt.Errorf("%w: symbol on %s", errMissingField, env.Type)
	}

	recipients := pl.Mints
	if len(recipients) == 0 && pl.Account != "" {
		recipients = []mintRecipient{{Account: pl.Account, Amount: pl.Amount}}
	}
	if len(recipients) == 0 {
		return nil
	}

	sum := fixedpoint.Zero
	for _, rcpt := range recipients {
		if rcpt.Account == "" {
			continue
		}
		delta := fixedpoint.FromJSON(rcpt.Amount)
		if err := p.adjustBalance(ctx, env.Network, pl.Symbol, rcpt.Account, delta, env.Timestamp); err != nil {
			return err
		}
		sum = sum.Add(delta)
	}

	token, err := p.store.ShareTokens.Get(ctx, env.Network, pl.Symbol)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Mint for a token this indexer never saw created; balances are
			// already written, supply has no row to live on.
			p.logger.Printf("[WARN] SharesMinted for unknown token %s/%s", env.Network, pl.Symbol)
			return nil
		}
		return err
	}

	supply := fixedpoint.FromString(token.TotalSupply).Add(sum)
	return p.store.ShareTokens.SetTotalSupply(ctx, env.Network, pl.Symbol, supply.String())
}

// Transfer moves an amount between two accounts of one asset. Total supply
// is untouched. Self-transfers and transfers without a symbol are no-ops.
func (p *Projectors) Transfer(ctx context.Context, env *domain.Envelope) error {
	var pl transferPayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.Symbol == "" || pl.From == "" || pl.To == "" || pl.From == pl.To {
		return nil
	}

	amount := fixedpoint.FromJSON(pl.Amount)
	if err := p.adjustBalance(ctx, env.Network, pl.Symbol, pl.From, amount.Neg(), env.Timestamp); err != nil {
		return err
	}
	return p.adjustBalance(ctx, env.Network, pl.Symbol, pl.To, amount, env.Timestamp)
}

// TransferModeChanged updates the token's transfer mode.
func (p *Projectors) TransferModeChanged(ctx context.Context, env *domain.Envelope) error {
	var pl transferModePayload
	if err := decodePayload(env, &pl); err != nil {
		return err
	}
	if pl.Symbol == "" {
		return fmt.Errorf("%w: symbol on %s", errMissingField, env.Type)
	}
	return p.store.ShareTokens.SetMode(ctx, env.Network, pl.Symbol, pl.Mode)
}

// adjustBalance applies a signed delta to one account balance, creating
// the row from zero when absent. Negative results are stored as-is; this
// layer mirrors the stream, it does not police it.
func (p *Projectors) adjustBalance(ctx context.Context, network, symbol, account string, delta fixedpoint.Amount, ts int64) error {
	current := fixedpoint.Zero

	row, err := p.store.Balances.Get(ctx, network, symbol, account)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if row != nil {
		current = fixedpoint.FromString(row.Amount)
	}

	return p.store.Balances.Set(ctx, &domain.Balance{
		Network:     network,
		AssetSymbol: symbol,
		Account:     account,
		Amount:      current.Add(delta).String(),
		UpdatedAt:   ts,
	})
}
