// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package permit2 implements the signature-based allowance gateway the
// router pays through when the payer is the transaction sender. Owners
// sign off-chain permit records; the gateway validates signature,
// deadline and nonce, stores the resulting allowance packed in a
// single storage slot, and enforces it on every transfer.
package permit2

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

var (
	ErrAllowanceExpired      = errors.New("permit2: allowance expired")
	ErrInsufficientAllowance = errors.New("permit2: insufficient allowance")
	ErrSignatureExpired      = errors.New("permit2: signature deadline passed")
	ErrInvalidSigner         = errors.New("permit2: recovered signer does not match owner")
	ErrInvalidSignature      = errors.New("permit2: malformed signature")
	ErrInvalidNonce          = errors.New("permit2: nonce mismatch")
	ErrUnsafeCast            = errors.New("permit2: value does not fit target width")
	ErrFromNotOwner          = errors.New("permit2: transfer leg from address is not the owner")
)

// MaxAllowance is the uint160 ceiling; an allowance set to it is
// treated as unlimited and never decremented.
var MaxAllowance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))

var (
	maxUint48       = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 48), big.NewInt(1))
	allowancePrefix = []byte("p2al")
)

// PermitDetails is one signed allowance record. Field widths follow
// the wire format: amount uint160, expiration and nonce uint48.
type PermitDetails struct {
	Token      common.Address
	Amount     *big.Int
	Expiration *big.Int
	Nonce      *big.Int
}

// PermitSingle authorizes one token allowance for a spender.
type PermitSingle struct {
	Details     PermitDetails
	Spender     common.Address
	SigDeadline *big.Int
}

// PermitBatch authorizes several token allowances for one spender
// under a single signature.
type PermitBatch struct {
	Details     []PermitDetails
	Spender     common.Address
	SigDeadline *big.Int
}

// AllowanceTransferDetails is one leg of a batched transfer.
type AllowanceTransferDetails struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
	Token  common.Address
}

// allowance is the unpacked per-(owner,token,spender) record.
type allowance struct {
	Amount     *big.Int // uint160
	Expiration uint64   // uint48
	Nonce      uint64   // uint48
}

// Permit2 is the gateway contract bound to Addr.
type Permit2 struct {
	Addr common.Address
}

// New binds a gateway handle to an address.
func New(addr common.Address) *Permit2 {
	return &Permit2{Addr: addr}
}

func (p *Permit2) allowanceSlot(owner, token, spender common.Address) common.Hash {
	h := blake3.New()
	h.Write(allowancePrefix)
	h.Write(owner.Bytes())
	h.Write(token.Bytes())
	h.Write(spender.Bytes())
	var key common.Hash
	h.Digest().Read(key[:])
	return key
}

// Packed slot layout: amount (20 bytes) || expiration (6) || nonce (6).
func (p *Permit2) getAllowance(state contract.StateDB, owner, token, spender common.Address) allowance {
	word := state.GetState(p.Addr, p.allowanceSlot(owner, token, spender))
	return allowance{
		Amount:     new(big.Int).SetBytes(word[:20]),
		Expiration: new(big.Int).SetBytes(word[20:26]).Uint64(),
		Nonce:      new(big.Int).SetBytes(word[26:32]).Uint64(),
	}
}

func (p *Permit2) setAllowance(state contract.StateDB, owner, token, spender common.Address, a allowance) {
	var word common.Hash
	a.Amount.FillBytes(word[:20])
	new(big.Int).SetUint64(a.Expiration).FillBytes(word[20:26])
	new(big.Int).SetUint64(a.Nonce).FillBytes(word[26:32])
	state.SetState(p.Addr, p.allowanceSlot(owner, token, spender), word)
}

// Allowance returns the live (amount, expiration, nonce) record.
func (p *Permit2) Allowance(state contract.StateDB, owner, token, spender common.Address) (*big.Int, uint64, uint64) {
	a := p.getAllowance(state, owner, token, spender)
	return a.Amount, a.Expiration, a.Nonce
}

// Approve writes an allowance directly from the owner, bypassing the
// signature path. Used by integrations that already hold an on-chain
// approval from the owner to the gateway.
func (p *Permit2) Approve(state contract.StateDB, owner, token, spender common.Address, amount *big.Int, expiration uint64) error {
	if amount.Cmp(MaxAllowance) > 0 {
		return ErrUnsafeCast
	}
	a := p.getAllowance(state, owner, token, spender)
	a.Amount = new(big.Int).Set(amount)
	a.Expiration = expiration
	p.setAllowance(state, owner, token, spender, a)
	return nil
}

// Permit consumes a signed single-token authorization.
func (p *Permit2) Permit(env *contract.Env, owner common.Address, permit PermitSingle, signature []byte) error {
	if permit.SigDeadline.Sign() >= 0 && new(big.Int).SetUint64(env.BlockTime()).Cmp(permit.SigDeadline) > 0 {
		return ErrSignatureExpired
	}
	digest := p.hashTypedData(hashPermitSingle(permit))
	if err := verify(digest, signature, owner); err != nil {
		return err
	}
	return p.updateAllowance(env.State(), owner, permit.Details, permit.Spender)
}

// PermitBatch consumes a signed multi-token authorization.
func (p *Permit2) PermitBatch(env *contract.Env, owner common.Address, permit PermitBatch, signature []byte) error {
	if permit.SigDeadline.Sign() >= 0 && new(big.Int).SetUint64(env.BlockTime()).Cmp(permit.SigDeadline) > 0 {
		return ErrSignatureExpired
	}
	digest := p.hashTypedData(hashPermitBatch(permit))
	if err := verify(digest, signature, owner); err != nil {
		return err
	}
	for _, details := range permit.Details {
		if err := p.updateAllowance(env.State(), owner, details, permit.Spender); err != nil {
			return err
		}
	}
	return nil
}

func (p *Permit2) updateAllowance(state contract.StateDB, owner common.Address, details PermitDetails, spender common.Address) error {
	if details.Amount.Cmp(MaxAllowance) > 0 || details.Expiration.Cmp(maxUint48) > 0 || details.Nonce.Cmp(maxUint48) > 0 {
		return ErrUnsafeCast
	}
	stored := p.getAllowance(state, owner, details.Token, spender)
	if details.Nonce.Uint64() != stored.Nonce {
		return ErrInvalidNonce
	}
	p.setAllowance(state, owner, details.Token, spender, allowance{
		Amount:     new(big.Int).Set(details.Amount),
		Expiration: details.Expiration.Uint64(),
		Nonce:      stored.Nonce + 1,
	})
	return nil
}

// TransferFrom moves amount of token from from to to on spender's
// allowance, enforcing expiration and the amount ceiling.
func (p *Permit2) TransferFrom(env *contract.Env, spender, from, to common.Address, amount *big.Int, token common.Address) error {
	if amount.Cmp(MaxAllowance) > 0 {
		return ErrUnsafeCast
	}
	a := p.getAllowance(env.State(), from, token, spender)
	if a.Expiration < env.BlockTime() {
		return ErrAllowanceExpired
	}
	if a.Amount.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if a.Amount.Cmp(MaxAllowance) < 0 {
		a.Amount = new(big.Int).Sub(a.Amount, amount)
		p.setAllowance(env.State(), from, token, spender, a)
	}
	return tokens.NewERC20(token).Transfer(env.State(), from, to, amount)
}

// BatchTransferFrom executes each transfer leg in order, stopping at
// the first failure. Every leg must draw from owner; a leg naming any
// other account would let a caller spend allowances it was never
// granted.
func (p *Permit2) BatchTransferFrom(env *contract.Env, owner, spender common.Address, transfers []AllowanceTransferDetails) error {
	for _, tr := range transfers {
		if tr.From != owner {
			return ErrFromNotOwner
		}
		if err := p.TransferFrom(env, spender, tr.From, tr.To, tr.Amount, tr.Token); err != nil {
			return err
		}
	}
	return nil
}
