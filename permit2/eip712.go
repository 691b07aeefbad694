// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package permit2

import (
	"math/big"

	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
)

// EIP-712 type hashes for the permit wire format.
var (
	domainTypeHash = luxcrypto.Keccak256(
		[]byte("EIP712Domain(string name,uint256 chainId,address verifyingContract)"))
	permitDetailsTypeHash = luxcrypto.Keccak256(
		[]byte("PermitDetails(address token,uint160 amount,uint48 expiration,uint48 nonce)"))
	permitSingleTypeHash = luxcrypto.Keccak256(
		[]byte("PermitSingle(PermitDetails details,address spender,uint256 sigDeadline)" +
			"PermitDetails(address token,uint160 amount,uint48 expiration,uint48 nonce)"))
	permitBatchTypeHash = luxcrypto.Keccak256(
		[]byte("PermitBatch(PermitDetails[] details,address spender,uint256 sigDeadline)" +
			"PermitDetails(address token,uint160 amount,uint48 expiration,uint48 nonce)"))
	nameHash = luxcrypto.Keccak256([]byte("Permit2"))
)

// ChainID pins the signing domain. Single-chain deployments leave the
// default.
var ChainID = big.NewInt(1)

func word(v *big.Int) []byte {
	out := make([]byte, 32)
	v.FillBytes(out)
	return out
}

func addrWord(a common.Address) []byte {
	out := make([]byte, 32)
	copy(out[12:], a.Bytes())
	return out
}

// DomainSeparator returns the gateway's EIP-712 domain separator.
func (p *Permit2) DomainSeparator() common.Hash {
	return common.BytesToHash(luxcrypto.Keccak256(
		domainTypeHash,
		nameHash,
		word(ChainID),
		addrWord(p.Addr),
	))
}

func hashPermitDetails(d PermitDetails) []byte {
	return luxcrypto.Keccak256(
		permitDetailsTypeHash,
		addrWord(d.Token),
		word(d.Amount),
		word(d.Expiration),
		word(d.Nonce),
	)
}

func hashPermitSingle(p PermitSingle) []byte {
	return luxcrypto.Keccak256(
		permitSingleTypeHash,
		hashPermitDetails(p.Details),
		addrWord(p.Spender),
		word(p.SigDeadline),
	)
}

func hashPermitBatch(p PermitBatch) []byte {
	packed := make([]byte, 0, 32*len(p.Details))
	for _, d := range p.Details {
		packed = append(packed, hashPermitDetails(d)...)
	}
	return luxcrypto.Keccak256(
		permitBatchTypeHash,
		luxcrypto.Keccak256(packed),
		addrWord(p.Spender),
		word(p.SigDeadline),
	)
}

// PermitDigest returns the digest an owner signs to authorize a
// single-token permit.
func (p *Permit2) PermitDigest(permit PermitSingle) []byte {
	return p.hashTypedData(hashPermitSingle(permit))
}

// PermitBatchDigest is PermitDigest for batch authorizations.
func (p *Permit2) PermitBatchDigest(permit PermitBatch) []byte {
	return p.hashTypedData(hashPermitBatch(permit))
}

// hashTypedData produces the final "\x19\x01" digest over the domain
// separator and struct hash.
func (p *Permit2) hashTypedData(structHash []byte) []byte {
	sep := p.DomainSeparator()
	return luxcrypto.Keccak256([]byte{0x19, 0x01}, sep[:], structHash)
}

// verify recovers the secp256k1 signer of digest and compares it to
// owner. Signatures are 65 bytes, recovery id in the last byte.
func verify(digest, signature []byte, owner common.Address) error {
	if len(signature) != 65 {
		return ErrInvalidSignature
	}
	pub, err := luxcrypto.SigToPub(digest, signature)
	if err != nil {
		return ErrInvalidSignature
	}
	if common.Address(luxcrypto.PubkeyToAddress(*pub)) != owner {
		return ErrInvalidSigner
	}
	return nil
}
