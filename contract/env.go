// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

var (
	ErrInsufficientValue = errors.New("insufficient balance for value transfer")
)

// Contract is a ledger-resident program reachable through Env.Call.
type Contract interface {
	Run(env *Env, caller common.Address, value *uint256.Int, input []byte) ([]byte, error)
}

// Env is the execution environment for one transaction: the ledger
// state, the contract registry, and the block context. Contracts call
// each other exclusively through Call so that a revert inside the
// callee cannot leak partial writes.
type Env struct {
	state     StateDB
	contracts map[common.Address]Contract
	blockTime uint64
}

// NewEnv wraps state with an empty contract registry.
func NewEnv(state StateDB, blockTime uint64) *Env {
	return &Env{
		state:     state,
		contracts: make(map[common.Address]Contract),
		blockTime: blockTime,
	}
}

// State returns the ledger state.
func (e *Env) State() StateDB { return e.state }

// BlockTime returns the current block timestamp.
func (e *Env) BlockTime() uint64 { return e.blockTime }

// SetBlockTime advances the block timestamp.
func (e *Env) SetBlockTime(t uint64) { e.blockTime = t }

// Register binds a contract to an address. Registering the same
// address twice is a configuration error.
func (e *Env) Register(addr common.Address, c Contract) error {
	if _, ok := e.contracts[addr]; ok {
		return fmt.Errorf("contract already registered at %s", addr.Hex())
	}
	e.contracts[addr] = c
	e.state.CreateAccount(addr)
	return nil
}

// ContractAt returns the contract registered at addr, if any.
func (e *Env) ContractAt(addr common.Address) (Contract, bool) {
	c, ok := e.contracts[addr]
	return c, ok
}

// Addresses returns the registered addresses in deterministic order.
func (e *Env) Addresses() []common.Address {
	addrs := make([]common.Address, 0, len(e.contracts))
	for addr := range e.contracts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	return addrs
}

// Call transfers value from caller to target and runs the target
// contract. All writes made inside the call, including the value
// transfer, are unwound if the callee errors. Calling an address with
// no registered contract is a plain value transfer.
func (e *Env) Call(caller, target common.Address, value *uint256.Int, input []byte) ([]byte, error) {
	snap := e.state.Snapshot()
	if value != nil && value.Sign() > 0 {
		if e.state.GetBalance(caller).Lt(value) {
			return nil, ErrInsufficientValue
		}
		e.state.SubBalance(caller, value)
		e.state.AddBalance(target, value)
	}
	c, ok := e.contracts[target]
	if !ok {
		return nil, nil
	}
	ret, err := c.Run(e, caller, value, input)
	if err != nil {
		e.state.RevertToSnapshot(snap)
		return nil, err
	}
	return ret, nil
}

// Transfer moves native balance without invoking any contract code.
func (e *Env) Transfer(from, to common.Address, amount *uint256.Int) error {
	if e.state.GetBalance(from).Lt(amount) {
		return ErrInsufficientValue
	}
	e.state.SubBalance(from, amount)
	e.state.AddBalance(to, amount)
	return nil
}
