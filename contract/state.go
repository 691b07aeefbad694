// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
)

// Key prefixes for the flat layout written by Commit.
var (
	commitStoragePrefix = []byte("stor")
	commitBalancePrefix = []byte("ball")
)

// journalEntry undoes a single state mutation.
type journalEntry func(s *State)

// State is an in-memory journaled StateDB. Every mutation appends an
// undo entry so RevertToSnapshot can unwind writes in reverse order.
type State struct {
	storage  map[common.Address]map[common.Hash]common.Hash
	balances map[common.Address]*uint256.Int
	accounts map[common.Address]struct{}

	journal []journalEntry
}

// NewState creates an empty ledger state.
func NewState() *State {
	return &State{
		storage:  make(map[common.Address]map[common.Hash]common.Hash),
		balances: make(map[common.Address]*uint256.Int),
		accounts: make(map[common.Address]struct{}),
	}
}

func (s *State) GetState(addr common.Address, key common.Hash) common.Hash {
	if slots, ok := s.storage[addr]; ok {
		return slots[key]
	}
	return common.Hash{}
}

func (s *State) SetState(addr common.Address, key common.Hash, value common.Hash) {
	slots, ok := s.storage[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.storage[addr] = slots
	}
	prev := slots[key]
	s.journal = append(s.journal, func(s *State) {
		s.storage[addr][key] = prev
	})
	slots[key] = value
}

func (s *State) GetBalance(addr common.Address) *uint256.Int {
	if bal, ok := s.balances[addr]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (s *State) AddBalance(addr common.Address, amount *uint256.Int) {
	prev := s.GetBalance(addr)
	s.journal = append(s.journal, func(s *State) {
		s.balances[addr] = prev
	})
	s.balances[addr] = new(uint256.Int).Add(prev, amount)
}

func (s *State) SubBalance(addr common.Address, amount *uint256.Int) {
	prev := s.GetBalance(addr)
	s.journal = append(s.journal, func(s *State) {
		s.balances[addr] = prev
	})
	s.balances[addr] = new(uint256.Int).Sub(prev, amount)
}

func (s *State) Exist(addr common.Address) bool {
	_, ok := s.accounts[addr]
	return ok
}

func (s *State) CreateAccount(addr common.Address) {
	if _, ok := s.accounts[addr]; ok {
		return
	}
	s.journal = append(s.journal, func(s *State) {
		delete(s.accounts, addr)
	})
	s.accounts[addr] = struct{}{}
}

// Snapshot returns an identifier for the current journal position.
func (s *State) Snapshot() int {
	return len(s.journal)
}

// RevertToSnapshot unwinds every mutation recorded after the snapshot.
func (s *State) RevertToSnapshot(id int) {
	if id < 0 || id > len(s.journal) {
		return
	}
	for i := len(s.journal) - 1; i >= id; i-- {
		s.journal[i](s)
	}
	s.journal = s.journal[:id]
}

// Commit flushes the flat state into db and clears the journal.
// Keys are prefix || address (|| slot); values are raw 32-byte words.
func (s *State) Commit(db database.Database) error {
	for addr, slots := range s.storage {
		for key, value := range slots {
			dbKey := append(append(append([]byte{}, commitStoragePrefix...), addr.Bytes()...), key.Bytes()...)
			if err := db.Put(dbKey, value.Bytes()); err != nil {
				return err
			}
		}
	}
	for addr, bal := range s.balances {
		dbKey := append(append([]byte{}, commitBalancePrefix...), addr.Bytes()...)
		b32 := bal.Bytes32()
		if err := db.Put(dbKey, b32[:]); err != nil {
			return err
		}
	}
	s.journal = s.journal[:0]
	return nil
}
