// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokens

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

// ERC20 is a handle over a fungible token's books at Addr.
type ERC20 struct {
	Addr common.Address
}

// NewERC20 binds a handle to a token contract address.
func NewERC20(addr common.Address) *ERC20 {
	return &ERC20{Addr: addr}
}

func (t *ERC20) balanceSlot(owner common.Address) common.Hash {
	return makeSlot(balancePrefix, owner.Bytes())
}

func (t *ERC20) allowanceSlot(owner, spender common.Address) common.Hash {
	return makeSlot(allowancePrefix, owner.Bytes(), spender.Bytes())
}

// BalanceOf returns owner's balance.
func (t *ERC20) BalanceOf(state contract.StateDB, owner common.Address) *big.Int {
	return getWord(state, t.Addr, t.balanceSlot(owner))
}

// TotalSupply returns the minted supply.
func (t *ERC20) TotalSupply(state contract.StateDB) *big.Int {
	return getWord(state, t.Addr, makeSlot(supplyPrefix))
}

// Mint credits to with amount and grows the supply.
func (t *ERC20) Mint(state contract.StateDB, to common.Address, amount *big.Int) {
	supplySlot := makeSlot(supplyPrefix)
	setWord(state, t.Addr, supplySlot, new(big.Int).Add(getWord(state, t.Addr, supplySlot), amount))
	slot := t.balanceSlot(to)
	setWord(state, t.Addr, slot, new(big.Int).Add(getWord(state, t.Addr, slot), amount))
}

// Burn debits from and shrinks the supply.
func (t *ERC20) Burn(state contract.StateDB, from common.Address, amount *big.Int) error {
	slot := t.balanceSlot(from)
	bal := getWord(state, t.Addr, slot)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	setWord(state, t.Addr, slot, new(big.Int).Sub(bal, amount))
	supplySlot := makeSlot(supplyPrefix)
	setWord(state, t.Addr, supplySlot, new(big.Int).Sub(getWord(state, t.Addr, supplySlot), amount))
	return nil
}

// Transfer moves amount from from to to.
func (t *ERC20) Transfer(state contract.StateDB, from, to common.Address, amount *big.Int) error {
	fromSlot := t.balanceSlot(from)
	bal := getWord(state, t.Addr, fromSlot)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	setWord(state, t.Addr, fromSlot, new(big.Int).Sub(bal, amount))
	toSlot := t.balanceSlot(to)
	setWord(state, t.Addr, toSlot, new(big.Int).Add(getWord(state, t.Addr, toSlot), amount))
	return nil
}

// Approve sets spender's allowance over owner's balance.
func (t *ERC20) Approve(state contract.StateDB, owner, spender common.Address, amount *big.Int) {
	setWord(state, t.Addr, t.allowanceSlot(owner, spender), amount)
}

// Allowance returns spender's remaining allowance from owner.
func (t *ERC20) Allowance(state contract.StateDB, owner, spender common.Address) *big.Int {
	return getWord(state, t.Addr, t.allowanceSlot(owner, spender))
}

// TransferFrom moves amount from from to to on spender's allowance.
func (t *ERC20) TransferFrom(state contract.StateDB, spender, from, to common.Address, amount *big.Int) error {
	slot := t.allowanceSlot(from, spender)
	allowed := getWord(state, t.Addr, slot)
	if allowed.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	// Max allowance is treated as unlimited and not decremented.
	if allowed.BitLen() <= 256 && allowed.Cmp(maxUint256) < 0 {
		setWord(state, t.Addr, slot, new(big.Int).Sub(allowed, amount))
	}
	return t.Transfer(state, from, to, amount)
}

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
