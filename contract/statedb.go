// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract provides the host-ledger abstraction the router runs
// against: per-account storage and native balances with snapshot/revert
// semantics, and an execution environment that routes calls between
// registered contracts.
package contract

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// StateDB is the mutable ledger state visible to contracts.
// Snapshot/RevertToSnapshot provide the call-isolation semantics the
// router relies on: any failed call boundary unwinds every write made
// inside it.
type StateDB interface {
	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SubBalance(addr common.Address, amount *uint256.Int)

	Exist(addr common.Address) bool
	CreateAccount(addr common.Address)

	Snapshot() int
	RevertToSnapshot(id int)
}
