// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package permit2

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

var (
	gatewayAddr = common.HexToAddress("0x2000000000000000000000000000000000000002")
	tokenAddr   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	spenderAddr = common.HexToAddress("0x3000000000000000000000000000000000000003")
	otherAddr   = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

func testKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := luxcrypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	return key, common.Address(luxcrypto.PubkeyToAddress(key.PublicKey))
}

func signSingle(t *testing.T, p *Permit2, key *ecdsa.PrivateKey, permit PermitSingle) []byte {
	t.Helper()
	sig, err := luxcrypto.Sign(p.hashTypedData(hashPermitSingle(permit)), key)
	require.NoError(t, err)
	return sig
}

func signBatch(t *testing.T, p *Permit2, key *ecdsa.PrivateKey, permit PermitBatch) []byte {
	t.Helper()
	sig, err := luxcrypto.Sign(p.hashTypedData(hashPermitBatch(permit)), key)
	require.NoError(t, err)
	return sig
}

func singlePermit(token common.Address, amount int64, expiration, nonce uint64, deadline int64) PermitSingle {
	return PermitSingle{
		Details: PermitDetails{
			Token:      token,
			Amount:     big.NewInt(amount),
			Expiration: new(big.Int).SetUint64(expiration),
			Nonce:      new(big.Int).SetUint64(nonce),
		},
		Spender:     spenderAddr,
		SigDeadline: big.NewInt(deadline),
	}
}

func TestPermitSetsAllowance(t *testing.T) {
	key, owner := testKey(t)
	p := New(gatewayAddr)
	env := contract.NewEnv(contract.NewState(), 1000)

	permit := singlePermit(tokenAddr, 500, 2000, 0, 1500)
	require.NoError(t, p.Permit(env, owner, permit, signSingle(t, p, key, permit)))

	amount, expiration, nonce := p.Allowance(env.State(), owner, tokenAddr, spenderAddr)
	require.Equal(t, big.NewInt(500), amount)
	require.Equal(t, uint64(2000), expiration)
	require.Equal(t, uint64(1), nonce)
}

func TestPermitReplayRejected(t *testing.T) {
	key, owner := testKey(t)
	p := New(gatewayAddr)
	env := contract.NewEnv(contract.NewState(), 1000)

	permit := singlePermit(tokenAddr, 500, 2000, 0, 1500)
	sig := signSingle(t, p, key, permit)
	require.NoError(t, p.Permit(env, owner, permit, sig))
	require.ErrorIs(t, p.Permit(env, owner, permit, sig), ErrInvalidNonce)
}

func TestPermitExpiredSignature(t *testing.T) {
	key, owner := testKey(t)
	p := New(gatewayAddr)
	env := contract.NewEnv(contract.NewState(), 1501)

	permit := singlePermit(tokenAddr, 500, 2000, 0, 1500)
	err := p.Permit(env, owner, permit, signSingle(t, p, key, permit))
	require.ErrorIs(t, err, ErrSignatureExpired)
}

func TestPermitWrongSigner(t *testing.T) {
	_, owner := testKey(t)
	wrongKey, err := luxcrypto.HexToECDSA("8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a")
	require.NoError(t, err)

	p := New(gatewayAddr)
	env := contract.NewEnv(contract.NewState(), 1000)
	permit := singlePermit(tokenAddr, 500, 2000, 0, 1500)
	require.ErrorIs(t, p.Permit(env, owner, permit, signSingle(t, p, wrongKey, permit)), ErrInvalidSigner)
}

func TestPermitMalformedSignature(t *testing.T) {
	_, owner := testKey(t)
	p := New(gatewayAddr)
	env := contract.NewEnv(contract.NewState(), 1000)
	permit := singlePermit(tokenAddr, 500, 2000, 0, 1500)
	require.ErrorIs(t, p.Permit(env, owner, permit, []byte{1, 2, 3}), ErrInvalidSignature)
}

func TestPermitBatchSetsEveryAllowance(t *testing.T) {
	key, owner := testKey(t)
	p := New(gatewayAddr)
	env := contract.NewEnv(contract.NewState(), 1000)

	permit := PermitBatch{
		Details: []PermitDetails{
			{Token: tokenAddr, Amount: big.NewInt(100), Expiration: big.NewInt(2000), Nonce: big.NewInt(0)},
			{Token: otherAddr, Amount: big.NewInt(200), Expiration: big.NewInt(3000), Nonce: big.NewInt(0)},
		},
		Spender:     spenderAddr,
		SigDeadline: big.NewInt(1500),
	}
	require.NoError(t, p.PermitBatch(env, owner, permit, signBatch(t, p, key, permit)))

	amount, _, _ := p.Allowance(env.State(), owner, tokenAddr, spenderAddr)
	require.Equal(t, big.NewInt(100), amount)
	amount, expiration, _ := p.Allowance(env.State(), owner, otherAddr, spenderAddr)
	require.Equal(t, big.NewInt(200), amount)
	require.Equal(t, uint64(3000), expiration)
}

func TestTransferFromDecrementsAllowance(t *testing.T) {
	_, owner := testKey(t)
	state := contract.NewState()
	env := contract.NewEnv(state, 1000)
	p := New(gatewayAddr)
	tokens.NewERC20(tokenAddr).Mint(state, owner, big.NewInt(1000))

	require.NoError(t, p.Approve(state, owner, tokenAddr, spenderAddr, big.NewInt(300), 2000))
	require.NoError(t, p.TransferFrom(env, spenderAddr, owner, otherAddr, big.NewInt(120), tokenAddr))

	amount, _, _ := p.Allowance(state, owner, tokenAddr, spenderAddr)
	require.Equal(t, big.NewInt(180), amount)
	require.Equal(t, big.NewInt(120), tokens.NewERC20(tokenAddr).BalanceOf(state, otherAddr))

	err := p.TransferFrom(env, spenderAddr, owner, otherAddr, big.NewInt(181), tokenAddr)
	require.ErrorIs(t, err, ErrInsufficientAllowance)
}

func TestTransferFromExpiredAllowance(t *testing.T) {
	_, owner := testKey(t)
	state := contract.NewState()
	env := contract.NewEnv(state, 5000)
	p := New(gatewayAddr)

	require.NoError(t, p.Approve(state, owner, tokenAddr, spenderAddr, big.NewInt(300), 2000))
	err := p.TransferFrom(env, spenderAddr, owner, otherAddr, big.NewInt(1), tokenAddr)
	require.ErrorIs(t, err, ErrAllowanceExpired)
}

func TestTransferFromUnlimitedAllowance(t *testing.T) {
	_, owner := testKey(t)
	state := contract.NewState()
	env := contract.NewEnv(state, 1000)
	p := New(gatewayAddr)
	tokens.NewERC20(tokenAddr).Mint(state, owner, big.NewInt(1000))

	require.NoError(t, p.Approve(state, owner, tokenAddr, spenderAddr, new(big.Int).Set(MaxAllowance), 2000))
	require.NoError(t, p.TransferFrom(env, spenderAddr, owner, otherAddr, big.NewInt(400), tokenAddr))

	amount, _, _ := p.Allowance(state, owner, tokenAddr, spenderAddr)
	require.Equal(t, MaxAllowance, amount)
}

func TestTransferFromRejectsOversizedAmount(t *testing.T) {
	_, owner := testKey(t)
	env := contract.NewEnv(contract.NewState(), 1000)
	p := New(gatewayAddr)

	oversized := new(big.Int).Add(MaxAllowance, big.NewInt(1))
	err := p.TransferFrom(env, spenderAddr, owner, otherAddr, oversized, tokenAddr)
	require.ErrorIs(t, err, ErrUnsafeCast)
}

func TestBatchTransferFromStopsAtFirstFailure(t *testing.T) {
	_, owner := testKey(t)
	state := contract.NewState()
	env := contract.NewEnv(state, 1000)
	p := New(gatewayAddr)
	tokens.NewERC20(tokenAddr).Mint(state, owner, big.NewInt(1000))

	require.NoError(t, p.Approve(state, owner, tokenAddr, spenderAddr, big.NewInt(100), 2000))
	transfers := []AllowanceTransferDetails{
		{From: owner, To: otherAddr, Amount: big.NewInt(60), Token: tokenAddr},
		{From: owner, To: otherAddr, Amount: big.NewInt(60), Token: tokenAddr},
	}
	err := p.BatchTransferFrom(env, owner, spenderAddr, transfers)
	require.ErrorIs(t, err, ErrInsufficientAllowance)

	// The first leg landed before the failure surfaced.
	require.Equal(t, big.NewInt(60), tokens.NewERC20(tokenAddr).BalanceOf(state, otherAddr))
}

func TestBatchTransferFromRejectsForeignFrom(t *testing.T) {
	_, victim := testKey(t)
	state := contract.NewState()
	env := contract.NewEnv(state, 1000)
	p := New(gatewayAddr)
	tokens.NewERC20(tokenAddr).Mint(state, victim, big.NewInt(1000))
	require.NoError(t, p.Approve(state, victim, tokenAddr, spenderAddr, big.NewInt(1000), 2000))

	// otherAddr names the victim's funds in a batch it executes itself.
	transfers := []AllowanceTransferDetails{
		{From: victim, To: otherAddr, Amount: big.NewInt(1000), Token: tokenAddr},
	}
	err := p.BatchTransferFrom(env, otherAddr, spenderAddr, transfers)
	require.ErrorIs(t, err, ErrFromNotOwner)
	require.Equal(t, big.NewInt(1000), tokens.NewERC20(tokenAddr).BalanceOf(state, victim))
	require.True(t, tokens.NewERC20(tokenAddr).BalanceOf(state, otherAddr).Sign() == 0)
}

func TestDomainSeparatorBindsGatewayAddress(t *testing.T) {
	a := New(gatewayAddr)
	b := New(otherAddr)
	require.NotEqual(t, a.DomainSeparator(), b.DomainSeparator())
}
