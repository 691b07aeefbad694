// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
	"github.com/luxfi/router/v3"
)

// v3SwapExactInput swaps hop by hop along a packed path. Intermediate
// outputs land on the router; only the last hop pays the recipient.
func (r *UniversalRouter) v3SwapExactInput(
	env *contract.Env,
	recipient common.Address,
	amountIn, amountOutMin *big.Int,
	path []byte,
	payer common.Address,
) error {
	state := env.State()
	if amountIn.Cmp(ContractBalance) == 0 {
		tokenIn, _, _, err := v3.DecodeFirstPool(path)
		if err != nil {
			return err
		}
		amountIn = tokens.NewERC20(tokenIn).BalanceOf(state, r.Addr)
		payer = r.Addr
	}

	amount := new(big.Int).Set(amountIn)
	for {
		hasMultiple := v3.HasMultiplePools(path)
		tokenIn, tokenOut, fee, err := v3.DecodeFirstPool(path)
		if err != nil {
			return err
		}
		pool, err := r.v3Factory.PoolAt(state, tokenIn, tokenOut, fee)
		if err != nil {
			return err
		}

		hopRecipient := recipient
		if hasMultiple {
			hopRecipient = r.Addr
		}
		zeroForOne := tokenIn == pool.Token0
		amount0, amount1, err := pool.Swap(env, hopRecipient, zeroForOne, amount, nil, &v3PayCallback{
			router:  r,
			tokenIn: tokenIn,
			payer:   payer,
		})
		if err != nil {
			return err
		}

		received := amount1
		if !zeroForOne {
			received = amount0
		}
		amount = new(big.Int).Neg(received)

		if !hasMultiple {
			break
		}
		payer = r.Addr
		path = v3.SkipToken(path)
	}

	if amount.Cmp(amountOutMin) < 0 {
		return v3.ErrTooLittleReceived
	}
	return nil
}

// v3SwapExactOutput swaps a path encoded output-first. Each pool's
// owed input is produced by an exact-output swap on the next pool, so
// the hops unwind inside the callbacks; the innermost hop records the
// true input amount for the limit check.
func (r *UniversalRouter) v3SwapExactOutput(
	env *contract.Env,
	recipient common.Address,
	amountOut, amountInMax *big.Int,
	path []byte,
	payer common.Address,
) error {
	amountIn := new(big.Int)
	if err := r.v3ExactOutputHop(env, recipient, amountOut, path, payer, amountIn); err != nil {
		return err
	}
	if amountIn.Cmp(amountInMax) > 0 {
		return v3.ErrTooMuchRequested
	}
	return nil
}

func (r *UniversalRouter) v3ExactOutputHop(
	env *contract.Env,
	recipient common.Address,
	amountOut *big.Int,
	path []byte,
	payer common.Address,
	amountIn *big.Int,
) error {
	tokenOut, tokenIn, fee, err := v3.DecodeFirstPool(path)
	if err != nil {
		return err
	}
	pool, err := r.v3Factory.PoolAt(env.State(), tokenIn, tokenOut, fee)
	if err != nil {
		return err
	}
	zeroForOne := tokenIn == pool.Token0
	_, _, err = pool.Swap(env, recipient, zeroForOne, new(big.Int).Neg(amountOut), nil, &v3ExactOutputCallback{
		router:   r,
		path:     path,
		payer:    payer,
		amountIn: amountIn,
	})
	return err
}

// v3PayCallback settles an exact-input hop by paying the owed input
// token to the pool.
type v3PayCallback struct {
	router  *UniversalRouter
	tokenIn common.Address
	payer   common.Address
}

func (c *v3PayCallback) V3SwapCallback(env *contract.Env, pool common.Address, amount0, amount1 *big.Int, _ []byte) error {
	return c.router.payOrPermit2TransferFrom(env, c.tokenIn, c.payer, pool, owedAmount(amount0, amount1))
}

// v3ExactOutputCallback settles an exact-output hop: if the path has
// further pools the owed input is bought from the next one, otherwise
// the payer funds it directly.
type v3ExactOutputCallback struct {
	router   *UniversalRouter
	path     []byte
	payer    common.Address
	amountIn *big.Int
}

func (c *v3ExactOutputCallback) V3SwapCallback(env *contract.Env, pool common.Address, amount0, amount1 *big.Int, _ []byte) error {
	owed := owedAmount(amount0, amount1)
	if v3.HasMultiplePools(c.path) {
		return c.router.v3ExactOutputHop(env, pool, owed, v3.SkipToken(c.path), c.payer, c.amountIn)
	}
	_, tokenIn, _, err := v3.DecodeFirstPool(c.path)
	if err != nil {
		return err
	}
	c.amountIn.Set(owed)
	return c.router.payOrPermit2TransferFrom(env, tokenIn, c.payer, pool, owed)
}

func owedAmount(amount0, amount1 *big.Int) *big.Int {
	if amount0.Sign() > 0 {
		return amount0
	}
	return amount1
}

var (
	_ v3.SwapCallback = (*v3PayCallback)(nil)
	_ v3.SwapCallback = (*v3ExactOutputCallback)(nil)
)
