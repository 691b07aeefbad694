// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokens

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

var ErrValueOverflow = errors.New("native value exceeds 256 bits")

// WETH9 wraps the native asset as an ERC20. Deposits custody native
// balance under the token contract's own account; withdrawals release
// it back.
type WETH9 struct {
	ERC20
}

// NewWETH9 binds a handle to the wrapped-native contract address.
func NewWETH9(addr common.Address) *WETH9 {
	return &WETH9{ERC20{Addr: addr}}
}

// Deposit wraps amount of from's native balance into WETH.
func (w *WETH9) Deposit(state contract.StateDB, from common.Address, amount *big.Int) error {
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return ErrValueOverflow
	}
	if state.GetBalance(from).Lt(value) {
		return contract.ErrInsufficientValue
	}
	state.SubBalance(from, value)
	state.AddBalance(w.Addr, value)
	w.Mint(state, from, amount)
	return nil
}

// Withdraw unwraps amount of to's WETH back into native balance.
func (w *WETH9) Withdraw(state contract.StateDB, to common.Address, amount *big.Int) error {
	if err := w.Burn(state, to, amount); err != nil {
		return err
	}
	value, overflow := uint256.FromBig(amount)
	if overflow {
		return ErrValueOverflow
	}
	state.SubBalance(w.Addr, value)
	state.AddBalance(to, value)
	return nil
}

// Run accepts plain value transfers sent through Env.Call, crediting
// the sender with wrapped balance.
func (w *WETH9) Run(env *contract.Env, caller common.Address, value *uint256.Int, input []byte) ([]byte, error) {
	if value == nil || value.Sign() == 0 {
		return nil, nil
	}
	// Value already moved by Env.Call; mirror it in the wrapped books.
	w.Mint(env.State(), caller, value.ToBig())
	return nil, nil
}

var _ contract.Contract = (*WETH9)(nil)
