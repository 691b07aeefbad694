// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
)

// dispatch decodes one instruction's input blob and runs it. command
// arrives already stripped of its flag bits.
func (r *UniversalRouter) dispatch(env *contract.Env, sender common.Address, command byte, input []byte) error {
	switch command {
	case CommandV3SwapExactIn:
		p, err := decodeSwapV3(input)
		if err != nil {
			return err
		}
		return r.v3SwapExactInput(env, r.mapRecipient(sender, p.Recipient), p.Amount, p.AmountLimit, p.Path, r.mapPayer(sender, p.PayerIsUser))

	case CommandV3SwapExactOut:
		p, err := decodeSwapV3(input)
		if err != nil {
			return err
		}
		return r.v3SwapExactOutput(env, r.mapRecipient(sender, p.Recipient), p.Amount, p.AmountLimit, p.Path, r.mapPayer(sender, p.PayerIsUser))

	case CommandPermit2TransferFrom:
		out, err := transferFromArgs.Unpack(input)
		if err != nil {
			return err
		}
		token := out[0].(common.Address)
		recipient := r.mapRecipient(sender, out[1].(common.Address))
		return r.permit2TransferFrom(env, token, sender, recipient, out[2].(*big.Int))

	case CommandPermit2PermitBatch:
		permit, signature, err := decodePermitBatch(input)
		if err != nil {
			return err
		}
		return r.permit2.PermitBatch(env, sender, permit, signature)

	case CommandSweep:
		p, err := decodeTokenRecipientValue(input)
		if err != nil {
			return err
		}
		return r.sweep(env, p.Token, r.mapRecipient(sender, p.Recipient), p.Value)

	case CommandTransfer:
		p, err := decodeTokenRecipientValue(input)
		if err != nil {
			return err
		}
		return r.pay(env, p.Token, r.mapRecipient(sender, p.Recipient), p.Value)

	case CommandPayPortion:
		p, err := decodeTokenRecipientValue(input)
		if err != nil {
			return err
		}
		return r.payPortion(env, p.Token, r.mapRecipient(sender, p.Recipient), p.Value)

	case CommandV2SwapExactIn:
		p, err := decodeSwapV2(input)
		if err != nil {
			return err
		}
		return r.v2SwapExactInput(env, r.mapRecipient(sender, p.Recipient), p.Amount, p.AmountLimit, p.Path, r.mapPayer(sender, p.PayerIsUser))

	case CommandV2SwapExactOut:
		p, err := decodeSwapV2(input)
		if err != nil {
			return err
		}
		return r.v2SwapExactOutput(env, r.mapRecipient(sender, p.Recipient), p.Amount, p.AmountLimit, p.Path, r.mapPayer(sender, p.PayerIsUser))

	case CommandPermit2Permit:
		permit, signature, err := decodePermitSingle(input)
		if err != nil {
			return err
		}
		return r.permit2.Permit(env, sender, permit, signature)

	case CommandWrapETH:
		out, err := recipientAmountArgs.Unpack(input)
		if err != nil {
			return err
		}
		return r.wrapETH(env, r.mapRecipient(sender, out[0].(common.Address)), out[1].(*big.Int))

	case CommandUnwrapWETH:
		out, err := recipientAmountArgs.Unpack(input)
		if err != nil {
			return err
		}
		return r.unwrapWETH(env, r.mapRecipient(sender, out[0].(common.Address)), out[1].(*big.Int))

	case CommandPermit2TransferFromBatch:
		transfers, err := decodeTransferFromBatch(input)
		if err != nil {
			return err
		}
		return r.permit2.BatchTransferFrom(env, sender, r.Addr, transfers)

	case CommandSeaport:
		value, calldata, err := decodeValueCalldata(input)
		if err != nil {
			return err
		}
		return r.forwardCall(env, r.params.Seaport, value, calldata)

	case CommandLooksRare721:
		p, err := decodePurchase721(input)
		if err != nil {
			return err
		}
		p.Recipient = r.mapRecipient(sender, p.Recipient)
		return r.purchase721(env, r.params.LooksRare, p)

	case CommandNFTX:
		value, calldata, err := decodeValueCalldata(input)
		if err != nil {
			return err
		}
		return r.forwardCall(env, r.params.NFTXZap, value, calldata)

	case CommandCryptopunks:
		out, err := cryptopunksArgs.Unpack(input)
		if err != nil {
			return err
		}
		recipient := r.mapRecipient(sender, out[1].(common.Address))
		return r.buyPunk(env, out[0].(*big.Int), recipient, out[2].(*big.Int))

	case CommandLooksRare1155:
		p, err := decodePurchase1155(input)
		if err != nil {
			return err
		}
		p.Recipient = r.mapRecipient(sender, p.Recipient)
		return r.purchase1155(env, r.params.LooksRare, p)

	case CommandOwnerCheck721:
		out, err := ownerCheck721Args.Unpack(input)
		if err != nil {
			return err
		}
		return r.checkERC721Owner(env, out[0].(common.Address), out[1].(common.Address), out[2].(*big.Int))

	case CommandOwnerCheck1155:
		out, err := ownerCheck1155Args.Unpack(input)
		if err != nil {
			return err
		}
		return r.checkERC1155Owner(env, out[0].(common.Address), out[1].(common.Address), out[2].(*big.Int), out[3].(*big.Int))

	case CommandSweepERC721:
		out, err := sweep721Args.Unpack(input)
		if err != nil {
			return err
		}
		return r.sweepERC721(env, out[0].(common.Address), r.mapRecipient(sender, out[1].(common.Address)), out[2].(*big.Int))

	case CommandX2Y2721:
		p, err := decodePurchase721(input)
		if err != nil {
			return err
		}
		p.Recipient = r.mapRecipient(sender, p.Recipient)
		return r.purchase721(env, r.params.X2Y2, p)

	case CommandSudoswap:
		value, calldata, err := decodeValueCalldata(input)
		if err != nil {
			return err
		}
		return r.forwardCall(env, r.params.Sudoswap, value, calldata)

	case CommandNFT20:
		value, calldata, err := decodeValueCalldata(input)
		if err != nil {
			return err
		}
		return r.forwardCall(env, r.params.NFT20Zap, value, calldata)

	case CommandX2Y21155:
		p, err := decodePurchase1155(input)
		if err != nil {
			return err
		}
		p.Recipient = r.mapRecipient(sender, p.Recipient)
		return r.purchase1155(env, r.params.X2Y2, p)

	case CommandFoundation:
		p, err := decodePurchase721(input)
		if err != nil {
			return err
		}
		p.Recipient = r.mapRecipient(sender, p.Recipient)
		return r.purchase721(env, r.params.Foundation, p)

	case CommandSweepERC1155:
		out, err := sweep1155Args.Unpack(input)
		if err != nil {
			return err
		}
		return r.sweepERC1155(env, out[0].(common.Address), r.mapRecipient(sender, out[1].(common.Address)), out[2].(*big.Int), out[3].(*big.Int))

	case CommandExecuteSubPlan:
		subCommands, subInputs, err := decodeSubPlan(input)
		if err != nil {
			return err
		}
		return r.run(env, sender, subCommands, subInputs)

	default:
		return &InvalidCommandTypeError{Command: command}
	}
}
