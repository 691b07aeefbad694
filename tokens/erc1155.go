// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokens

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

// ERC1155 is a handle over a multi-token collection at Addr.
type ERC1155 struct {
	Addr common.Address
}

// NewERC1155 binds a handle to a collection address.
func NewERC1155(addr common.Address) *ERC1155 {
	return &ERC1155{Addr: addr}
}

func (t *ERC1155) balanceSlot(owner common.Address, id *big.Int) common.Hash {
	return makeSlot(balance1155Prefix, owner.Bytes(), id.Bytes())
}

// BalanceOf returns owner's balance of id.
func (t *ERC1155) BalanceOf(state contract.StateDB, owner common.Address, id *big.Int) *big.Int {
	return getWord(state, t.Addr, t.balanceSlot(owner, id))
}

// Mint credits to with amount of id.
func (t *ERC1155) Mint(state contract.StateDB, to common.Address, id, amount *big.Int) {
	slot := t.balanceSlot(to, id)
	setWord(state, t.Addr, slot, new(big.Int).Add(getWord(state, t.Addr, slot), amount))
}

// SafeTransferFrom moves amount of id from from to to.
func (t *ERC1155) SafeTransferFrom(state contract.StateDB, from, to common.Address, id, amount *big.Int) error {
	fromSlot := t.balanceSlot(from, id)
	bal := getWord(state, t.Addr, fromSlot)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	setWord(state, t.Addr, fromSlot, new(big.Int).Sub(bal, amount))
	toSlot := t.balanceSlot(to, id)
	setWord(state, t.Addr, toSlot, new(big.Int).Add(getWord(state, t.Addr, toSlot), amount))
	return nil
}
