// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package v2

import (
	"math/big"

	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

var (
	reserve0Slot = common.BytesToHash(luxcrypto.Keccak256([]byte("v2-reserve0")))
	reserve1Slot = common.BytesToHash(luxcrypto.Keccak256([]byte("v2-reserve1")))
)

// Pair is a constant-product pool over a sorted token pair. The swap
// protocol is transfer-then-call: input tokens are sent to the pair
// first, Swap verifies the invariant against the cached reserves.
type Pair struct {
	Addr   common.Address
	Token0 common.Address
	Token1 common.Address
}

// Reserves returns the cached reserves.
func (p *Pair) Reserves(state contract.StateDB) (*big.Int, *big.Int) {
	r0 := state.GetState(p.Addr, reserve0Slot)
	r1 := state.GetState(p.Addr, reserve1Slot)
	return new(big.Int).SetBytes(r0[:]), new(big.Int).SetBytes(r1[:])
}

func (p *Pair) setReserves(state contract.StateDB, r0, r1 *big.Int) {
	var w0, w1 common.Hash
	r0.FillBytes(w0[:])
	r1.FillBytes(w1[:])
	state.SetState(p.Addr, reserve0Slot, w0)
	state.SetState(p.Addr, reserve1Slot, w1)
}

func (p *Pair) balances(state contract.StateDB) (*big.Int, *big.Int) {
	b0 := tokens.NewERC20(p.Token0).BalanceOf(state, p.Addr)
	b1 := tokens.NewERC20(p.Token1).BalanceOf(state, p.Addr)
	return b0, b1
}

// Sync snapshots current token balances as the reserves. Called after
// seeding liquidity by direct transfer.
func (p *Pair) Sync(state contract.StateDB) {
	b0, b1 := p.balances(state)
	p.setReserves(state, b0, b1)
}

// Swap sends amount0Out/amount1Out to to, then checks that the input
// already transferred in preserves the fee-adjusted constant product.
func (p *Pair) Swap(state contract.StateDB, amount0Out, amount1Out *big.Int, to common.Address) error {
	if amount0Out.Sign() <= 0 && amount1Out.Sign() <= 0 {
		return ErrInsufficientOutput
	}
	reserve0, reserve1 := p.Reserves(state)
	if amount0Out.Cmp(reserve0) >= 0 || amount1Out.Cmp(reserve1) >= 0 {
		return ErrInsufficientLiquidity
	}

	if amount0Out.Sign() > 0 {
		if err := tokens.NewERC20(p.Token0).Transfer(state, p.Addr, to, amount0Out); err != nil {
			return err
		}
	}
	if amount1Out.Sign() > 0 {
		if err := tokens.NewERC20(p.Token1).Transfer(state, p.Addr, to, amount1Out); err != nil {
			return err
		}
	}

	balance0, balance1 := p.balances(state)
	amount0In := amountIn(balance0, reserve0, amount0Out)
	amount1In := amountIn(balance1, reserve1, amount1Out)
	if amount0In.Sign() <= 0 && amount1In.Sign() <= 0 {
		return ErrInsufficientInputAmount
	}

	// balanceAdjusted = balance*1000 - amountIn*3 (0.3% fee on input)
	adjusted0 := new(big.Int).Sub(new(big.Int).Mul(balance0, feeDenominator), new(big.Int).Mul(amount0In, big.NewInt(3)))
	adjusted1 := new(big.Int).Sub(new(big.Int).Mul(balance1, feeDenominator), new(big.Int).Mul(amount1In, big.NewInt(3)))
	lhs := new(big.Int).Mul(adjusted0, adjusted1)
	rhs := new(big.Int).Mul(new(big.Int).Mul(reserve0, reserve1), new(big.Int).Mul(feeDenominator, feeDenominator))
	if lhs.Cmp(rhs) < 0 {
		return ErrKInvariant
	}

	p.setReserves(state, balance0, balance1)
	return nil
}

// amountIn recovers the input amount from balance movement:
// balance - (reserve - amountOut), floored at zero.
func amountIn(balance, reserve, amountOut *big.Int) *big.Int {
	expected := new(big.Int).Sub(reserve, amountOut)
	in := new(big.Int).Sub(balance, expected)
	if in.Sign() < 0 {
		return big.NewInt(0)
	}
	return in
}
