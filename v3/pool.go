// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package v3

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

// SwapCallback pays the pool the input it is owed. amount0 and amount1
// are the pool's deltas: positive means owed to the pool.
type SwapCallback interface {
	V3SwapCallback(env *contract.Env, pool common.Address, amount0, amount1 *big.Int, data []byte) error
}

// Pool prices swaps against its live token balances with a fee taken
// on input. The router treats it as a black box: output is transferred
// optimistically, then the callback must deposit the owed input before
// Swap returns.
type Pool struct {
	Addr   common.Address
	Token0 common.Address
	Token1 common.Address
	Fee    uint32
}

// Swap executes one swap. amountSpecified > 0 is exact input,
// amountSpecified < 0 is exact output. Returned deltas follow the
// pool's sign convention: positive owed to the pool, negative paid to
// the recipient.
func (p *Pool) Swap(
	env *contract.Env,
	recipient common.Address,
	zeroForOne bool,
	amountSpecified *big.Int,
	data []byte,
	cb SwapCallback,
) (*big.Int, *big.Int, error) {
	if amountSpecified == nil || amountSpecified.Sign() == 0 {
		return nil, nil, ErrInvalidAmount
	}

	state := env.State()
	tokenIn, tokenOut := p.Token0, p.Token1
	if !zeroForOne {
		tokenIn, tokenOut = p.Token1, p.Token0
	}
	reserveIn := tokens.NewERC20(tokenIn).BalanceOf(state, p.Addr)
	reserveOut := tokens.NewERC20(tokenOut).BalanceOf(state, p.Addr)
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return nil, nil, ErrZeroLiquidity
	}

	var amountIn, amountOut *big.Int
	var err error
	if amountSpecified.Sign() > 0 {
		amountIn = new(big.Int).Set(amountSpecified)
		amountOut = quoteOut(amountIn, reserveIn, reserveOut, p.Fee)
	} else {
		amountOut = new(big.Int).Neg(amountSpecified)
		amountIn, err = quoteIn(amountOut, reserveIn, reserveOut, p.Fee)
		if err != nil {
			return nil, nil, err
		}
	}
	if amountIn.Cmp(MaxUint160) > 0 {
		return nil, nil, ErrUnsafeCast
	}

	// Optimistic transfer out, then collect payment via the callback.
	if err := tokens.NewERC20(tokenOut).Transfer(state, p.Addr, recipient, amountOut); err != nil {
		return nil, nil, err
	}
	owedBalance := new(big.Int).Add(tokens.NewERC20(tokenIn).BalanceOf(state, p.Addr), amountIn)

	amount0 := new(big.Int).Set(amountIn)
	amount1 := new(big.Int).Neg(amountOut)
	if !zeroForOne {
		amount0, amount1 = amount1, amount0
	}
	if err := cb.V3SwapCallback(env, p.Addr, amount0, amount1, data); err != nil {
		return nil, nil, err
	}
	if tokens.NewERC20(tokenIn).BalanceOf(state, p.Addr).Cmp(owedBalance) < 0 {
		return nil, nil, ErrInsufficientInput
	}
	return amount0, amount1, nil
}

// quoteOut prices an exact-input swap: fee on input, then constant
// product against current balances.
func quoteOut(amountIn, reserveIn, reserveOut *big.Int, fee uint32) *big.Int {
	inLessFee := new(big.Int).Mul(amountIn, big.NewInt(int64(feePrecision-fee)))
	inLessFee.Div(inLessFee, big.NewInt(feePrecision))
	numerator := new(big.Int).Mul(reserveOut, inLessFee)
	denominator := new(big.Int).Add(reserveIn, inLessFee)
	return numerator.Div(numerator, denominator)
}

// quoteIn prices an exact-output swap, grossing the input up by the
// fee.
func quoteIn(amountOut, reserveIn, reserveOut *big.Int, fee uint32) (*big.Int, error) {
	if amountOut.Cmp(reserveOut) >= 0 {
		return nil, ErrZeroLiquidity
	}
	numerator := new(big.Int).Mul(reserveIn, amountOut)
	denominator := new(big.Int).Sub(reserveOut, amountOut)
	inLessFee := new(big.Int).Div(numerator, denominator)
	inLessFee.Add(inLessFee, big.NewInt(1))
	gross := new(big.Int).Mul(inLessFee, big.NewInt(feePrecision))
	gross.Div(gross, big.NewInt(int64(feePrecision-fee)))
	return gross.Add(gross, big.NewInt(1)), nil
}
