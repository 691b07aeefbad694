// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

// CollectRewards claims trading rewards accrued by the router and
// forwards the full reward-token balance to the distributor that
// redistributes them. Anyone may call it.
func (r *UniversalRouter) CollectRewards(env *contract.Env, claim []byte) error {
	if _, err := env.Call(r.Addr, r.params.LooksRareRewardsDistributor, nil, claim); err != nil {
		return ErrUnableToClaim
	}
	state := env.State()
	token := tokens.NewERC20(r.params.LooksRareToken)
	balance := token.BalanceOf(state, r.Addr)
	if balance.Sign() == 0 {
		return nil
	}
	return token.Transfer(state, r.Addr, r.params.RouterRewardsDistributor, balance)
}
