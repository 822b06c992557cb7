package aggregate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stableTvl/internal/model"
)

// shareScale is the number of decimal places kept when dividing by the LP supply.
const shareScale = 20

// TvlByUsers attributes each pool's TVL to its LP holders in proportion to
// their balance and sums the shares per owner across pools. Owners are listed
// in the order they are first seen, walking pools in configuration order.
func (e *Engine) TvlByUsers(ctx context.Context) (model.UsersTvl, error) {
	pools, err := e.AvailablePools(ctx)
	if err != nil {
		return model.UsersTvl{}, err
	}

	holders := make([][]model.LPHolder, len(pools))
	g, gctx := errgroup.WithContext(ctx)
	for i, pool := range pools {
		g.Go(func() error {
			list, err := e.holders.Get(gctx, pool.Address)
			if err != nil {
				return fmt.Errorf("lp holders of %s: %w", pool.Address, err)
			}
			holders[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.UsersTvl{}, err
	}

	acc := newUserAccumulator()
	var totalTVL float64
	for i, pool := range pools {
		totalTVL += pool.TVLUSD

		supply, err := decimal.NewFromString(pool.TotalSupply)
		if err != nil {
			return model.UsersTvl{}, fmt.Errorf("pool %s total supply %q: %w", pool.Address, pool.TotalSupply, err)
		}
		if supply.IsZero() {
			e.logger.Warn("pool has zero lp supply, skipping holders",
				zap.String("pool", pool.Address),
				zap.Int("holders", len(holders[i])),
			)
			continue
		}

		tvl := decimal.NewFromFloat(pool.TVLUSD)
		for _, holder := range holders[i] {
			balance, err := decimal.NewFromString(holder.Balance)
			if err != nil {
				return model.UsersTvl{}, fmt.Errorf("holder %s balance %q: %w", holder.Address, holder.Balance, err)
			}
			acc.add(holder.Owner, balance.Mul(tvl).DivRound(supply, shareScale))
		}
	}

	return model.UsersTvl{TotalTVL: totalTVL, Users: acc.users()}, nil
}

type userAccumulator struct {
	order  []string
	totals map[string]decimal.Decimal
}

func newUserAccumulator() *userAccumulator {
	return &userAccumulator{totals: make(map[string]decimal.Decimal)}
}

func (a *userAccumulator) add(owner string, share decimal.Decimal) {
	prev, ok := a.totals[owner]
	if !ok {
		a.order = append(a.order, owner)
	}
	a.totals[owner] = prev.Add(share)
}

func (a *userAccumulator) users() []model.UserTvl {
	out := make([]model.UserTvl, 0, len(a.order))
	for _, owner := range a.order {
		out = append(out, model.UserTvl{Address: owner, TVLUSD: a.totals[owner].String()})
	}
	return out
}
