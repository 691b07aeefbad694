// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package v3 implements the fee-tiered pool model behind the router's
// second AMM adapter. Pool internals are a black box to the router: it
// only derives pool addresses, asks for a swap, and pays what the pool
// demands through the swap callback.
package v3

import (
	"errors"
	"math/big"
)

var (
	ErrIdenticalAddresses = errors.New("v3: identical token addresses")
	ErrPoolNotFound       = errors.New("v3: pool does not exist")
	ErrPoolExists         = errors.New("v3: pool already exists")
	ErrInvalidFee         = errors.New("v3: fee tier not enabled")
	ErrInvalidPath        = errors.New("v3: malformed swap path")
	ErrZeroLiquidity      = errors.New("v3: pool has no liquidity")
	ErrInsufficientInput  = errors.New("v3: callback did not pay the owed input")
	ErrInvalidAmount      = errors.New("v3: amount specified must be nonzero")
	ErrTooLittleReceived  = errors.New("v3: too little received")
	ErrTooMuchRequested   = errors.New("v3: too much requested")
	ErrUnsafeCast         = errors.New("v3: value does not fit 160 bits")
)

// Fee tiers in hundredths of a bip (pips).
const (
	FeeLow    uint32 = 500
	FeeMedium uint32 = 3000
	FeeHigh   uint32 = 10000

	feePrecision = 1_000_000
)

// MaxUint160 bounds amounts forwarded into the pool model.
var MaxUint160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

func validFee(fee uint32) bool {
	switch fee {
	case FeeLow, FeeMedium, FeeHigh:
		return true
	}
	return false
}
