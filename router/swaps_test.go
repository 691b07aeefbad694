// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"
	"testing"

	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/router/permit2"
	"github.com/luxfi/router/tokens"
	"github.com/luxfi/router/v2"
	"github.com/luxfi/router/v3"
)

// approveGateway grants the router a permit2 allowance directly,
// standing in for a prior permit.
func (f *fixture) approveGateway(owner, token common.Address, amount int64) {
	f.t.Helper()
	p2 := permit2.New(permit2Addr)
	require.NoError(f.t, p2.Approve(f.state, owner, token, routerAddr, big.NewInt(amount), 2000))
}

func TestV2SwapExactIn(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	input := mustPack(t, swapV2Args,
		MsgSender, big.NewInt(1000), big.NewInt(900), []common.Address{tokenX, tokenY}, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV2SwapExactIn}, input))

	require.Equal(t, big.NewInt(906), tokens.NewERC20(tokenY).BalanceOf(f.state, alice))
	require.True(t, tokens.NewERC20(tokenX).BalanceOf(f.state, alice).Sign() == 0)
}

func TestV2SwapExactInTooLittleReceived(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	input := mustPack(t, swapV2Args,
		MsgSender, big.NewInt(1000), big.NewInt(907), []common.Address{tokenX, tokenY}, true)
	err := f.execute(alice, nil, []byte{CommandV2SwapExactIn}, input)
	require.ErrorIs(t, err, v2.ErrTooLittleReceived)

	// The swap unwound; alice keeps her input.
	require.Equal(t, big.NewInt(1000), tokens.NewERC20(tokenX).BalanceOf(f.state, alice))
}

func TestV2SwapExactInMultiHop(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	f.seedV2Pair(tokenY, tokenZ, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	input := mustPack(t, swapV2Args,
		MsgSender, big.NewInt(1000), big.NewInt(800), []common.Address{tokenX, tokenY, tokenZ}, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV2SwapExactIn}, input))

	// 1000 -> 906 -> 828 across two 10000/10000 pools.
	require.Equal(t, big.NewInt(828), tokens.NewERC20(tokenZ).BalanceOf(f.state, alice))
}

func TestV2SwapExactOut(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1100))
	f.approveGateway(alice, tokenX, 1100)

	input := mustPack(t, swapV2Args,
		MsgSender, big.NewInt(906), big.NewInt(1100), []common.Address{tokenX, tokenY}, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV2SwapExactOut}, input))

	require.Equal(t, big.NewInt(906), tokens.NewERC20(tokenY).BalanceOf(f.state, alice))
	require.Equal(t, big.NewInt(100), tokens.NewERC20(tokenX).BalanceOf(f.state, alice))
}

func TestV2SwapExactOutTooMuchRequested(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1100))
	f.approveGateway(alice, tokenX, 1100)

	input := mustPack(t, swapV2Args,
		MsgSender, big.NewInt(906), big.NewInt(999), []common.Address{tokenX, tokenY}, true)
	err := f.execute(alice, nil, []byte{CommandV2SwapExactOut}, input)
	require.ErrorIs(t, err, v2.ErrTooMuchRequested)
}

func TestV2SwapPayerIsRouter(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, routerAddr, big.NewInt(1000))

	input := mustPack(t, swapV2Args,
		MsgSender, big.NewInt(1000), big.NewInt(900), []common.Address{tokenX, tokenY}, false)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV2SwapExactIn}, input))
	require.Equal(t, big.NewInt(906), tokens.NewERC20(tokenY).BalanceOf(f.state, alice))
}

func TestV2SwapContractBalanceInput(t *testing.T) {
	f := newFixture(t)
	f.seedV2Pair(tokenX, tokenY, 10_000)
	tokens.NewERC20(tokenX).Mint(f.state, routerAddr, big.NewInt(1000))

	input := mustPack(t, swapV2Args,
		MsgSender, ContractBalance, big.NewInt(900), []common.Address{tokenX, tokenY}, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV2SwapExactIn}, input))
	require.Equal(t, big.NewInt(906), tokens.NewERC20(tokenY).BalanceOf(f.state, alice))
}

func TestV3SwapExactIn(t *testing.T) {
	f := newFixture(t)
	f.seedV3Pool(tokenX, tokenY, 1_000_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	path, err := v3.EncodePath([]common.Address{tokenX, tokenY}, []uint32{v3.FeeMedium})
	require.NoError(t, err)

	input := mustPack(t, swapV3Args, MsgSender, big.NewInt(1000), big.NewInt(990), path, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV3SwapExactIn}, input))
	require.Equal(t, big.NewInt(996), tokens.NewERC20(tokenY).BalanceOf(f.state, alice))
}

func TestV3SwapExactInMultiHop(t *testing.T) {
	f := newFixture(t)
	f.seedV3Pool(tokenX, tokenY, 1_000_000)
	f.seedV3Pool(tokenY, tokenZ, 1_000_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	path, err := v3.EncodePath([]common.Address{tokenX, tokenY, tokenZ}, []uint32{v3.FeeMedium, v3.FeeMedium})
	require.NoError(t, err)

	input := mustPack(t, swapV3Args, MsgSender, big.NewInt(1000), big.NewInt(980), path, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV3SwapExactIn}, input))

	// 1000 -> 996 -> 992 across two pools.
	require.Equal(t, big.NewInt(992), tokens.NewERC20(tokenZ).BalanceOf(f.state, alice))
}

func TestV3SwapExactInTooLittleReceived(t *testing.T) {
	f := newFixture(t)
	f.seedV3Pool(tokenX, tokenY, 1_000_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	path, err := v3.EncodePath([]common.Address{tokenX, tokenY}, []uint32{v3.FeeMedium})
	require.NoError(t, err)

	input := mustPack(t, swapV3Args, MsgSender, big.NewInt(1000), big.NewInt(997), path, true)
	require.ErrorIs(t, f.execute(alice, nil, []byte{CommandV3SwapExactIn}, input), v3.ErrTooLittleReceived)
}

func TestV3SwapExactOut(t *testing.T) {
	f := newFixture(t)
	f.seedV3Pool(tokenX, tokenY, 1_000_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1100))
	f.approveGateway(alice, tokenX, 1100)

	// Exact-output paths are encoded output-first.
	path, err := v3.EncodePath([]common.Address{tokenY, tokenX}, []uint32{v3.FeeMedium})
	require.NoError(t, err)

	input := mustPack(t, swapV3Args, MsgSender, big.NewInt(996), big.NewInt(1001), path, true)
	require.NoError(t, f.execute(alice, nil, []byte{CommandV3SwapExactOut}, input))

	require.Equal(t, big.NewInt(996), tokens.NewERC20(tokenY).BalanceOf(f.state, alice))
	require.Equal(t, big.NewInt(99), tokens.NewERC20(tokenX).BalanceOf(f.state, alice))
}

func TestV3SwapExactOutTooMuchRequested(t *testing.T) {
	f := newFixture(t)
	f.seedV3Pool(tokenX, tokenY, 1_000_000)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1100))
	f.approveGateway(alice, tokenX, 1100)

	path, err := v3.EncodePath([]common.Address{tokenY, tokenX}, []uint32{v3.FeeMedium})
	require.NoError(t, err)

	input := mustPack(t, swapV3Args, MsgSender, big.NewInt(996), big.NewInt(1000), path, true)
	require.ErrorIs(t, f.execute(alice, nil, []byte{CommandV3SwapExactOut}, input), v3.ErrTooMuchRequested)
}

func TestPermitThenTransferFrom(t *testing.T) {
	f := newFixture(t)
	key, err := luxcrypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	require.NoError(t, err)
	owner := common.Address(luxcrypto.PubkeyToAddress(key.PublicKey))
	tokens.NewERC20(tokenX).Mint(f.state, owner, big.NewInt(1000))

	permit := permit2.PermitSingle{
		Details: permit2.PermitDetails{
			Token:      tokenX,
			Amount:     big.NewInt(600),
			Expiration: big.NewInt(2000),
			Nonce:      big.NewInt(0),
		},
		Spender:     routerAddr,
		SigDeadline: big.NewInt(1500),
	}
	signature, err := luxcrypto.Sign(permit2.New(permit2Addr).PermitDigest(permit), key)
	require.NoError(t, err)

	permitInput := mustPack(t, permitArgs, permit, signature)
	pullInput := mustPack(t, transferFromArgs, tokenX, bob, big.NewInt(600))

	err = f.execute(owner, nil,
		[]byte{CommandPermit2Permit, CommandPermit2TransferFrom},
		permitInput, pullInput)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(600), tokens.NewERC20(tokenX).BalanceOf(f.state, bob))
}

func TestPermitWrongSignerRejected(t *testing.T) {
	f := newFixture(t)
	key, err := luxcrypto.HexToECDSA("8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a")
	require.NoError(t, err)

	permit := permit2.PermitSingle{
		Details: permit2.PermitDetails{
			Token:      tokenX,
			Amount:     big.NewInt(600),
			Expiration: big.NewInt(2000),
			Nonce:      big.NewInt(0),
		},
		Spender:     routerAddr,
		SigDeadline: big.NewInt(1500),
	}
	signature, err := luxcrypto.Sign(permit2.New(permit2Addr).PermitDigest(permit), key)
	require.NoError(t, err)

	permitInput := mustPack(t, permitArgs, permit, signature)
	err = f.execute(alice, nil, []byte{CommandPermit2Permit}, permitInput)
	require.ErrorIs(t, err, permit2.ErrInvalidSigner)
}

func TestTransferFromBatch(t *testing.T) {
	f := newFixture(t)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(500))
	tokens.NewERC20(tokenY).Mint(f.state, alice, big.NewInt(300))
	f.approveGateway(alice, tokenX, 500)
	f.approveGateway(alice, tokenY, 300)

	transfers := []permit2.AllowanceTransferDetails{
		{From: alice, To: bob, Amount: big.NewInt(500), Token: tokenX},
		{From: alice, To: bob, Amount: big.NewInt(300), Token: tokenY},
	}
	input := mustPack(t, transferFromBatchArgs, transfers)
	require.NoError(t, f.execute(alice, nil, []byte{CommandPermit2TransferFromBatch}, input))
	require.Equal(t, big.NewInt(500), tokens.NewERC20(tokenX).BalanceOf(f.state, bob))
	require.Equal(t, big.NewInt(300), tokens.NewERC20(tokenY).BalanceOf(f.state, bob))
}

// A batch leg may only draw from the transaction sender; a caller
// naming another account's allowance must not move its funds.
func TestTransferFromBatchForeignFromRejected(t *testing.T) {
	f := newFixture(t)
	tokens.NewERC20(tokenX).Mint(f.state, alice, big.NewInt(1000))
	f.approveGateway(alice, tokenX, 1000)

	transfers := []permit2.AllowanceTransferDetails{
		{From: alice, To: bob, Amount: big.NewInt(1000), Token: tokenX},
	}
	input := mustPack(t, transferFromBatchArgs, transfers)
	err := f.execute(bob, nil, []byte{CommandPermit2TransferFromBatch}, input)
	require.ErrorIs(t, err, permit2.ErrFromNotOwner)

	require.Equal(t, big.NewInt(1000), tokens.NewERC20(tokenX).BalanceOf(f.state, alice))
	require.True(t, tokens.NewERC20(tokenX).BalanceOf(f.state, bob).Sign() == 0)
}
