// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokens

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

// ERC721 is a handle over a non-fungible collection at Addr.
type ERC721 struct {
	Addr common.Address
}

// NewERC721 binds a handle to a collection address.
func NewERC721(addr common.Address) *ERC721 {
	return &ERC721{Addr: addr}
}

func (t *ERC721) ownerSlot(id *big.Int) common.Hash {
	return makeSlot(ownerPrefix, id.Bytes())
}

// OwnerOf returns the current owner of id.
func (t *ERC721) OwnerOf(state contract.StateDB, id *big.Int) (common.Address, error) {
	word := state.GetState(t.Addr, t.ownerSlot(id))
	owner := common.BytesToAddress(word[:])
	if owner == (common.Address{}) {
		return common.Address{}, ErrNotMinted
	}
	return owner, nil
}

// Mint assigns id to to. Minting an owned token reassigns it; callers
// are trusted fixtures, not untrusted external code.
func (t *ERC721) Mint(state contract.StateDB, to common.Address, id *big.Int) {
	state.SetState(t.Addr, t.ownerSlot(id), common.BytesToHash(to.Bytes()))
}

// TransferFrom moves id from from to to. from must be the owner.
func (t *ERC721) TransferFrom(state contract.StateDB, from, to common.Address, id *big.Int) error {
	owner, err := t.OwnerOf(state, id)
	if err != nil {
		return err
	}
	if owner != from {
		return ErrNotOwner
	}
	state.SetState(t.Addr, t.ownerSlot(id), common.BytesToHash(to.Bytes()))
	return nil
}
