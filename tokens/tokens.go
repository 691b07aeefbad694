// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tokens implements the ledger's token contracts: ERC20 (plus
// the wrapped-native WETH9 variant), ERC721 and ERC1155. Each handle
// is bound to a contract address and keeps its books in that address's
// storage namespace.
package tokens

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/router/contract"
)

// Storage key prefixes for token state
var (
	balancePrefix     = []byte("bal2")
	allowancePrefix   = []byte("alw2")
	supplyPrefix      = []byte("sup2")
	ownerPrefix       = []byte("own7")
	balance1155Prefix = []byte("bal5")
)

var (
	ErrInsufficientBalance   = errors.New("insufficient token balance")
	ErrInsufficientAllowance = errors.New("insufficient token allowance")
	ErrNotOwner              = errors.New("transfer of token not owned")
	ErrNotMinted             = errors.New("token not minted")
)

// makeSlot derives a storage slot from a prefix and identifier bytes.
func makeSlot(prefix []byte, parts ...[]byte) common.Hash {
	h := blake3.New()
	h.Write(prefix)
	for _, p := range parts {
		h.Write(p)
	}
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

func getWord(state contract.StateDB, addr common.Address, slot common.Hash) *big.Int {
	word := state.GetState(addr, slot)
	return new(big.Int).SetBytes(word[:])
}

func setWord(state contract.StateDB, addr common.Address, slot common.Hash, v *big.Int) {
	var word common.Hash
	v.FillBytes(word[:])
	state.SetState(addr, slot, word)
}
