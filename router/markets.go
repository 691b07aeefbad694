// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	luxcrypto "github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

func selector(signature string) [4]byte {
	var out [4]byte
	copy(out[:], luxcrypto.Keccak256([]byte(signature))[:4])
	return out
}

var (
	buyPunkSelector      = selector("buyPunk(uint256)")
	transferPunkSelector = selector("transferPunk(address,uint256)")
)

// forwardCall relays prebuilt calldata and value to a configured
// protocol address. Unconfigured protocols fail fast.
func (r *UniversalRouter) forwardCall(env *contract.Env, protocol common.Address, value *big.Int, calldata []byte) error {
	if protocol == (common.Address{}) {
		return ErrUnsupportedProtocol
	}
	amount, err := toU256(value)
	if err != nil {
		return err
	}
	_, err = env.Call(r.Addr, protocol, amount, calldata)
	return err
}

// purchase721 buys through a protocol that delivers the token to the
// router, then forwards it to the final recipient.
func (r *UniversalRouter) purchase721(env *contract.Env, protocol common.Address, p purchaseParams) error {
	if err := r.forwardCall(env, protocol, p.Value, p.Calldata); err != nil {
		return err
	}
	return tokens.NewERC721(p.Token).TransferFrom(env.State(), r.Addr, p.Recipient, p.ID)
}

// purchase1155 is purchase721 for semi-fungible tokens.
func (r *UniversalRouter) purchase1155(env *contract.Env, protocol common.Address, p purchaseParams) error {
	if err := r.forwardCall(env, protocol, p.Value, p.Calldata); err != nil {
		return err
	}
	return tokens.NewERC1155(p.Token).SafeTransferFrom(env.State(), r.Addr, p.Recipient, p.ID, p.Amount)
}

// buyPunk purchases a punk for the router, then transfers it out. The
// punks contract predates both token standards, hence the bespoke
// calldata.
func (r *UniversalRouter) buyPunk(env *contract.Env, punkID *big.Int, recipient common.Address, value *big.Int) error {
	buy := make([]byte, 4+32)
	copy(buy, buyPunkSelector[:])
	punkID.FillBytes(buy[4 : 4+32])
	if err := r.forwardCall(env, r.params.Cryptopunks, value, buy); err != nil {
		return err
	}

	transfer := make([]byte, 4+64)
	copy(transfer, transferPunkSelector[:])
	copy(transfer[4+12:4+32], recipient.Bytes())
	punkID.FillBytes(transfer[4+32 : 4+64])
	return r.forwardCall(env, r.params.Cryptopunks, new(big.Int), transfer)
}
