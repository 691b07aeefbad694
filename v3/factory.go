// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package v3

import (
	"bytes"
	"encoding/binary"

	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

var poolExistsSlot = common.BytesToHash([]byte("v3-pool-exists"))

// Factory creates pools and derives their addresses from the sorted
// token pair and fee tier.
type Factory struct {
	Addr         common.Address
	InitCodeHash common.Hash
}

// NewFactory binds a factory handle.
func NewFactory(addr common.Address, initCodeHash common.Hash) *Factory {
	return &Factory{Addr: addr, InitCodeHash: initCodeHash}
}

func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address, error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, ErrIdenticalAddresses
	}
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) < 0 {
		return tokenA, tokenB, nil
	}
	return tokenB, tokenA, nil
}

// PoolFor derives the pool address without reading state.
func (f *Factory) PoolFor(tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	var feeBytes [4]byte
	binary.BigEndian.PutUint32(feeBytes[:], fee)
	salt := luxcrypto.Keccak256(token0.Bytes(), token1.Bytes(), feeBytes[1:])
	hash := luxcrypto.Keccak256([]byte{0xff}, f.Addr.Bytes(), salt, f.InitCodeHash.Bytes())
	return common.BytesToAddress(hash[12:]), nil
}

// CreatePool registers a pool for (tokenA, tokenB, fee).
func (f *Factory) CreatePool(state contract.StateDB, tokenA, tokenB common.Address, fee uint32) (*Pool, error) {
	if !validFee(fee) {
		return nil, ErrInvalidFee
	}
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	addr, _ := f.PoolFor(token0, token1, fee)
	if state.GetState(f.Addr, poolSlot(addr)) != (common.Hash{}) {
		return nil, ErrPoolExists
	}
	state.SetState(f.Addr, poolSlot(addr), poolExistsSlot)
	state.CreateAccount(addr)
	return &Pool{Addr: addr, Token0: token0, Token1: token1, Fee: fee}, nil
}

// PoolAt returns the registered pool for (tokenA, tokenB, fee).
func (f *Factory) PoolAt(state contract.StateDB, tokenA, tokenB common.Address, fee uint32) (*Pool, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	addr, _ := f.PoolFor(token0, token1, fee)
	if state.GetState(f.Addr, poolSlot(addr)) == (common.Hash{}) {
		return nil, ErrPoolNotFound
	}
	return &Pool{Addr: addr, Token0: token0, Token1: token1, Fee: fee}, nil
}

func poolSlot(pool common.Address) common.Hash {
	return common.BytesToHash(luxcrypto.Keccak256([]byte("v3-pool"), pool.Bytes()))
}
