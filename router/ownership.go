// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

// checkERC721Owner asserts that owner holds the token. A missing token
// counts as a failed assertion, not a fatal error.
func (r *UniversalRouter) checkERC721Owner(env *contract.Env, owner, token common.Address, id *big.Int) error {
	actual, err := tokens.NewERC721(token).OwnerOf(env.State(), id)
	if err != nil || actual != owner {
		return ErrInvalidOwnerERC721
	}
	return nil
}

// checkERC1155Owner asserts that owner holds at least minBalance of
// the token id.
func (r *UniversalRouter) checkERC1155Owner(env *contract.Env, owner, token common.Address, id, minBalance *big.Int) error {
	balance := tokens.NewERC1155(token).BalanceOf(env.State(), owner, id)
	if balance.Cmp(minBalance) < 0 {
		return ErrInvalidOwnerERC1155
	}
	return nil
}
