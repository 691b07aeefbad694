// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
	"github.com/luxfi/router/v2"
)

// v2SwapExactInput pushes amountIn into the first pair and swaps hop
// by hop, each pair paying the next one directly. The minimum-output
// check is a balance delta on the final recipient.
func (r *UniversalRouter) v2SwapExactInput(
	env *contract.Env,
	recipient common.Address,
	amountIn, amountOutMin *big.Int,
	path []common.Address,
	payer common.Address,
) error {
	if len(path) < 2 {
		return v2.ErrInvalidPath
	}
	state := env.State()

	firstPair, err := r.v2Factory.PairAt(state, path[0], path[1])
	if err != nil {
		return err
	}
	if amountIn.Cmp(ContractBalance) == 0 {
		amountIn = tokens.NewERC20(path[0]).BalanceOf(state, r.Addr)
		payer = r.Addr
	}
	if err := r.payOrPermit2TransferFrom(env, path[0], payer, firstPair.Addr, amountIn); err != nil {
		return err
	}

	tokenOut := path[len(path)-1]
	balanceBefore := tokens.NewERC20(tokenOut).BalanceOf(state, recipient)
	if err := r.v2Swap(env, path, recipient); err != nil {
		return err
	}
	amountOut := new(big.Int).Sub(tokens.NewERC20(tokenOut).BalanceOf(state, recipient), balanceBefore)
	if amountOut.Cmp(amountOutMin) < 0 {
		return v2.ErrTooLittleReceived
	}
	return nil
}

// v2SwapExactOutput derives the required input by walking the path
// backwards, rejects it against amountInMax, then swaps forward.
func (r *UniversalRouter) v2SwapExactOutput(
	env *contract.Env,
	recipient common.Address,
	amountOut, amountInMax *big.Int,
	path []common.Address,
	payer common.Address,
) error {
	if len(path) < 2 {
		return v2.ErrInvalidPath
	}
	state := env.State()

	amountIn := new(big.Int).Set(amountOut)
	for i := len(path) - 1; i > 0; i-- {
		pair, err := r.v2Factory.PairAt(state, path[i-1], path[i])
		if err != nil {
			return err
		}
		reserveIn, reserveOut := orientedReserves(state, pair, path[i-1])
		amountIn, err = v2.GetAmountIn(amountIn, reserveIn, reserveOut)
		if err != nil {
			return err
		}
	}
	if amountIn.Cmp(amountInMax) > 0 {
		return v2.ErrTooMuchRequested
	}

	firstPair, err := r.v2Factory.PairAt(state, path[0], path[1])
	if err != nil {
		return err
	}
	if err := r.payOrPermit2TransferFrom(env, path[0], payer, firstPair.Addr, amountIn); err != nil {
		return err
	}
	return r.v2Swap(env, path, recipient)
}

// v2Swap performs the hops of a path whose input is already sitting on
// the first pair. Intermediate hops deliver straight to the next pair.
func (r *UniversalRouter) v2Swap(env *contract.Env, path []common.Address, recipient common.Address) error {
	state := env.State()
	for i := 0; i < len(path)-1; i++ {
		tokenIn, tokenOut := path[i], path[i+1]
		pair, err := r.v2Factory.PairAt(state, tokenIn, tokenOut)
		if err != nil {
			return err
		}
		reserveIn, reserveOut := orientedReserves(state, pair, tokenIn)
		amountIn := new(big.Int).Sub(tokens.NewERC20(tokenIn).BalanceOf(state, pair.Addr), reserveIn)
		amountOut, err := v2.GetAmountOut(amountIn, reserveIn, reserveOut)
		if err != nil {
			return err
		}

		to := recipient
		if i < len(path)-2 {
			next, err := r.v2Factory.PairAt(state, tokenOut, path[i+2])
			if err != nil {
				return err
			}
			to = next.Addr
		}

		amount0Out, amount1Out := new(big.Int), amountOut
		if tokenIn != pair.Token0 {
			amount0Out, amount1Out = amountOut, new(big.Int)
		}
		if err := pair.Swap(state, amount0Out, amount1Out, to); err != nil {
			return err
		}
	}
	return nil
}

// orientedReserves returns the pair's reserves ordered as (in, out)
// relative to tokenIn.
func orientedReserves(state contract.StateDB, pair *v2.Pair, tokenIn common.Address) (*big.Int, *big.Int) {
	r0, r1 := pair.Reserves(state)
	if tokenIn == pair.Token0 {
		return r0, r1
	}
	return r1, r0
}
