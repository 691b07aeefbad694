// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/permit2"
)

// Command byte layout: bit 7 is the allow-revert flag, bits 5-6 are
// reserved and must be zero, bits 0-4 select the instruction kind.
const (
	FlagAllowRevert byte = 0x80
	CommandReserved byte = 0x60
	CommandTypeMask byte = 0x1f
)

// Instruction kinds.
const (
	CommandV3SwapExactIn       byte = 0x00
	CommandV3SwapExactOut      byte = 0x01
	CommandPermit2TransferFrom byte = 0x02
	CommandPermit2PermitBatch  byte = 0x03
	CommandSweep               byte = 0x04
	CommandTransfer            byte = 0x05
	CommandPayPortion          byte = 0x06

	CommandV2SwapExactIn            byte = 0x08
	CommandV2SwapExactOut           byte = 0x09
	CommandPermit2Permit            byte = 0x0a
	CommandWrapETH                  byte = 0x0b
	CommandUnwrapWETH               byte = 0x0c
	CommandPermit2TransferFromBatch byte = 0x0d

	CommandSeaport        byte = 0x10
	CommandLooksRare721   byte = 0x11
	CommandNFTX           byte = 0x12
	CommandCryptopunks    byte = 0x13
	CommandLooksRare1155  byte = 0x14
	CommandOwnerCheck721  byte = 0x15
	CommandOwnerCheck1155 byte = 0x16
	CommandSweepERC721    byte = 0x17

	CommandX2Y2721      byte = 0x18
	CommandSudoswap     byte = 0x19
	CommandNFT20        byte = 0x1a
	CommandX2Y21155     byte = 0x1b
	CommandFoundation   byte = 0x1c
	CommandSweepERC1155 byte = 0x1d

	// CommandExecuteSubPlan is the privileged callback path: the only
	// kind allowed to run a nested command stream under the guard.
	CommandExecuteSubPlan byte = 0x1e
)

func mustType(t string, components []abi.ArgumentMarshaling) abi.Type {
	ty, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return ty
}

var (
	typeAddress      = mustType("address", nil)
	typeAddressSlice = mustType("address[]", nil)
	typeUint256      = mustType("uint256", nil)
	typeUint160      = mustType("uint160", nil)
	typeBool         = mustType("bool", nil)
	typeBytes        = mustType("bytes", nil)
	typeBytesSlice   = mustType("bytes[]", nil)

	permitDetailsComponents = []abi.ArgumentMarshaling{
		{Name: "token", Type: "address"},
		{Name: "amount", Type: "uint160"},
		{Name: "expiration", Type: "uint48"},
		{Name: "nonce", Type: "uint48"},
	}
	typePermitSingle = mustType("tuple", []abi.ArgumentMarshaling{
		{Name: "details", Type: "tuple", Components: permitDetailsComponents},
		{Name: "spender", Type: "address"},
		{Name: "sigDeadline", Type: "uint256"},
	})
	typePermitBatch = mustType("tuple", []abi.ArgumentMarshaling{
		{Name: "details", Type: "tuple[]", Components: permitDetailsComponents},
		{Name: "spender", Type: "address"},
		{Name: "sigDeadline", Type: "uint256"},
	})
	typeTransferDetailsSlice = mustType("tuple[]", []abi.ArgumentMarshaling{
		{Name: "from", Type: "address"},
		{Name: "to", Type: "address"},
		{Name: "amount", Type: "uint160"},
		{Name: "token", Type: "address"},
	})
)

func args(types ...abi.Type) abi.Arguments {
	out := make(abi.Arguments, len(types))
	for i, t := range types {
		out[i] = abi.Argument{Type: t}
	}
	return out
}

// Input schemas, one per instruction kind.
var (
	// Exact-in and exact-out variants share a schema; only the
	// meaning of the two amount words differs.
	swapV2Args = args(typeAddress, typeUint256, typeUint256, typeAddressSlice, typeBool)
	swapV3Args = args(typeAddress, typeUint256, typeUint256, typeBytes, typeBool)

	permitArgs              = args(typePermitSingle, typeBytes)
	permitBatchArgs         = args(typePermitBatch, typeBytes)
	transferFromArgs        = args(typeAddress, typeAddress, typeUint160)
	transferFromBatchArgs   = args(typeTransferDetailsSlice)
	tokenRecipientValueArgs = args(typeAddress, typeAddress, typeUint256)
	recipientAmountArgs     = args(typeAddress, typeUint256)

	valueCalldataArgs  = args(typeUint256, typeBytes)
	purchase721Args    = args(typeUint256, typeBytes, typeAddress, typeAddress, typeUint256)
	purchase1155Args   = args(typeUint256, typeBytes, typeAddress, typeAddress, typeUint256, typeUint256)
	cryptopunksArgs    = args(typeUint256, typeAddress, typeUint256)
	ownerCheck721Args  = args(typeAddress, typeAddress, typeUint256)
	ownerCheck1155Args = args(typeAddress, typeAddress, typeUint256, typeUint256)
	sweep721Args       = tokenRecipientValueArgs
	sweep1155Args      = args(typeAddress, typeAddress, typeUint256, typeUint256)
	subPlanArgs        = args(typeBytes, typeBytesSlice)
)

// Typed instruction parameters; the untrusted ABI blobs are decoded
// into these before any handler logic runs.

type swapParamsV2 struct {
	Recipient   common.Address
	Amount      *big.Int
	AmountLimit *big.Int
	Path        []common.Address
	PayerIsUser bool
}

type swapParamsV3 struct {
	Recipient   common.Address
	Amount      *big.Int
	AmountLimit *big.Int
	Path        []byte
	PayerIsUser bool
}

type tokenRecipientValue struct {
	Token     common.Address
	Recipient common.Address
	Value     *big.Int
}

type purchaseParams struct {
	Value     *big.Int
	Calldata  []byte
	Recipient common.Address
	Token     common.Address
	ID        *big.Int
	Amount    *big.Int // ERC1155 quantity; nil for ERC721 purchases
}

func decodeSwapV2(input []byte) (swapParamsV2, error) {
	out, err := swapV2Args.Unpack(input)
	if err != nil {
		return swapParamsV2{}, err
	}
	return swapParamsV2{
		Recipient:   out[0].(common.Address),
		Amount:      out[1].(*big.Int),
		AmountLimit: out[2].(*big.Int),
		Path:        out[3].([]common.Address),
		PayerIsUser: out[4].(bool),
	}, nil
}

func decodeSwapV3(input []byte) (swapParamsV3, error) {
	out, err := swapV3Args.Unpack(input)
	if err != nil {
		return swapParamsV3{}, err
	}
	return swapParamsV3{
		Recipient:   out[0].(common.Address),
		Amount:      out[1].(*big.Int),
		AmountLimit: out[2].(*big.Int),
		Path:        out[3].([]byte),
		PayerIsUser: out[4].(bool),
	}, nil
}

func decodeTokenRecipientValue(input []byte) (tokenRecipientValue, error) {
	out, err := tokenRecipientValueArgs.Unpack(input)
	if err != nil {
		return tokenRecipientValue{}, err
	}
	return tokenRecipientValue{
		Token:     out[0].(common.Address),
		Recipient: out[1].(common.Address),
		Value:     out[2].(*big.Int),
	}, nil
}

func decodePermitSingle(input []byte) (permit2.PermitSingle, []byte, error) {
	out, err := permitArgs.Unpack(input)
	if err != nil {
		return permit2.PermitSingle{}, nil, err
	}
	permit := *abi.ConvertType(out[0], new(permit2.PermitSingle)).(*permit2.PermitSingle)
	return permit, out[1].([]byte), nil
}

func decodePermitBatch(input []byte) (permit2.PermitBatch, []byte, error) {
	out, err := permitBatchArgs.Unpack(input)
	if err != nil {
		return permit2.PermitBatch{}, nil, err
	}
	permit := *abi.ConvertType(out[0], new(permit2.PermitBatch)).(*permit2.PermitBatch)
	return permit, out[1].([]byte), nil
}

func decodeTransferFromBatch(input []byte) ([]permit2.AllowanceTransferDetails, error) {
	out, err := transferFromBatchArgs.Unpack(input)
	if err != nil {
		return nil, err
	}
	transfers := *abi.ConvertType(out[0], new([]permit2.AllowanceTransferDetails)).(*[]permit2.AllowanceTransferDetails)
	return transfers, nil
}

func decodePurchase721(input []byte) (purchaseParams, error) {
	out, err := purchase721Args.Unpack(input)
	if err != nil {
		return purchaseParams{}, err
	}
	return purchaseParams{
		Value:     out[0].(*big.Int),
		Calldata:  out[1].([]byte),
		Recipient: out[2].(common.Address),
		Token:     out[3].(common.Address),
		ID:        out[4].(*big.Int),
	}, nil
}

func decodePurchase1155(input []byte) (purchaseParams, error) {
	out, err := purchase1155Args.Unpack(input)
	if err != nil {
		return purchaseParams{}, err
	}
	return purchaseParams{
		Value:     out[0].(*big.Int),
		Calldata:  out[1].([]byte),
		Recipient: out[2].(common.Address),
		Token:     out[3].(common.Address),
		ID:        out[4].(*big.Int),
		Amount:    out[5].(*big.Int),
	}, nil
}

func decodeValueCalldata(input []byte) (*big.Int, []byte, error) {
	out, err := valueCalldataArgs.Unpack(input)
	if err != nil {
		return nil, nil, err
	}
	return out[0].(*big.Int), out[1].([]byte), nil
}

func decodeSubPlan(input []byte) ([]byte, [][]byte, error) {
	out, err := subPlanArgs.Unpack(input)
	if err != nil {
		return nil, nil, err
	}
	return out[0].([]byte), out[1].([][]byte), nil
}
