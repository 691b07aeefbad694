// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package v2 implements the constant-product pair pool model. Pair
// addresses are derived deterministically from the factory address and
// the sorted token pair, so routes can be planned without touching
// state.
package v2

import (
	"bytes"
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
)

var (
	ErrIdenticalAddresses      = errors.New("v2: identical token addresses")
	ErrPairNotFound            = errors.New("v2: pair does not exist")
	ErrPairExists              = errors.New("v2: pair already exists")
	ErrInsufficientLiquidity   = errors.New("v2: insufficient liquidity")
	ErrInsufficientInputAmount = errors.New("v2: insufficient input amount")
	ErrInsufficientOutput      = errors.New("v2: insufficient output amount")
	ErrKInvariant              = errors.New("v2: constant-product invariant violated")
	ErrInvalidPath             = errors.New("v2: invalid swap path")
	ErrTooLittleReceived       = errors.New("v2: too little received")
	ErrTooMuchRequested        = errors.New("v2: too much requested")
)

var (
	feeNumerator   = big.NewInt(997)
	feeDenominator = big.NewInt(1000)
)

// SortTokens orders a token pair by address.
func SortTokens(tokenA, tokenB common.Address) (common.Address, common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, ErrIdenticalAddresses
	}
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB, nil
	}
	return tokenB, tokenA, nil
}

// GetAmountOut returns the fee-adjusted output for an exact input.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	amountInWithFee := new(big.Int).Mul(amountIn, feeNumerator)
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Add(new(big.Int).Mul(reserveIn, feeDenominator), amountInWithFee)
	return numerator.Div(numerator, denominator), nil
}

// GetAmountIn returns the fee-adjusted input required for an exact
// output.
func GetAmountIn(amountOut, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountOut.Sign() <= 0 {
		return nil, ErrInsufficientOutput
	}
	if reserveIn.Sign() <= 0 || reserveOut.Cmp(amountOut) <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	numerator := new(big.Int).Mul(new(big.Int).Mul(reserveIn, amountOut), feeDenominator)
	denominator := new(big.Int).Mul(new(big.Int).Sub(reserveOut, amountOut), feeNumerator)
	amountIn := new(big.Int).Div(numerator, denominator)
	return amountIn.Add(amountIn, big.NewInt(1)), nil
}
