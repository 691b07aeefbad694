// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package v2

import (
	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

// pairExists marker slot value
var pairExistsSlot = common.BytesToHash([]byte("v2-pair-exists"))

// Factory creates pairs and derives their addresses. InitCodeHash is
// the deployment-time constant that makes derived addresses match the
// host chain's actual pair deployments.
type Factory struct {
	Addr         common.Address
	InitCodeHash common.Hash
}

// NewFactory binds a factory handle.
func NewFactory(addr common.Address, initCodeHash common.Hash) *Factory {
	return &Factory{Addr: addr, InitCodeHash: initCodeHash}
}

// PairFor derives the pair address for a token pair without reading
// state (CREATE2-style: keccak(0xff, factory, salt, initCodeHash)).
func (f *Factory) PairFor(tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := luxcrypto.Keccak256(token0.Bytes(), token1.Bytes())
	hash := luxcrypto.Keccak256([]byte{0xff}, f.Addr.Bytes(), salt, f.InitCodeHash.Bytes())
	return common.BytesToAddress(hash[12:]), nil
}

// CreatePair registers a pair for the token pair and returns it.
func (f *Factory) CreatePair(state contract.StateDB, tokenA, tokenB common.Address) (*Pair, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	addr, _ := f.PairFor(token0, token1)
	if state.GetState(f.Addr, pairSlot(addr)) != (common.Hash{}) {
		return nil, ErrPairExists
	}
	state.SetState(f.Addr, pairSlot(addr), pairExistsSlot)
	state.CreateAccount(addr)
	return &Pair{Addr: addr, Token0: token0, Token1: token1}, nil
}

// PairAt returns the registered pair for a token pair.
func (f *Factory) PairAt(state contract.StateDB, tokenA, tokenB common.Address) (*Pair, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	addr, _ := f.PairFor(token0, token1)
	if state.GetState(f.Addr, pairSlot(addr)) == (common.Hash{}) {
		return nil, ErrPairNotFound
	}
	return &Pair{Addr: addr, Token0: token0, Token1: token1}, nil
}

func pairSlot(pair common.Address) common.Hash {
	return common.BytesToHash(luxcrypto.Keccak256([]byte("v2-pair"), pair.Bytes()))
}
