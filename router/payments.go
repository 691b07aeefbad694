// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/tokens"
)

// Recipient sentinels, resolved by mapRecipient at dispatch time.
var (
	// MsgSender stands for the transaction sender.
	MsgSender = common.HexToAddress("0x0000000000000000000000000000000000000001")
	// AddressThis stands for the router itself.
	AddressThis = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

// NativeToken marks native-currency payments in token fields.
var NativeToken = common.Address{}

// ContractBalance in an amount field means "the router's entire
// balance of that asset at execution time".
var ContractBalance = new(big.Int).Lsh(big.NewInt(1), 255)

const feeBipsBase = 10_000

// mapRecipient resolves recipient sentinels against the current
// transaction.
func (r *UniversalRouter) mapRecipient(sender, recipient common.Address) common.Address {
	switch recipient {
	case MsgSender:
		return sender
	case AddressThis:
		return r.Addr
	default:
		return recipient
	}
}

// mapPayer selects who funds an input: the transaction sender through
// the allowance gateway, or the router's own balance.
func (r *UniversalRouter) mapPayer(sender common.Address, payerIsUser bool) common.Address {
	if payerIsUser {
		return sender
	}
	return r.Addr
}

func toU256(v *big.Int) (*uint256.Int, error) {
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, tokens.ErrValueOverflow
	}
	return out, nil
}

func (r *UniversalRouter) balanceOf(state contract.StateDB, token common.Address) *big.Int {
	if token == NativeToken {
		return state.GetBalance(r.Addr).ToBig()
	}
	return tokens.NewERC20(token).BalanceOf(state, r.Addr)
}

// pay moves value of token from the router to recipient. The
// ContractBalance sentinel resolves to the router's full balance.
func (r *UniversalRouter) pay(env *contract.Env, token, recipient common.Address, value *big.Int) error {
	state := env.State()
	if value.Cmp(ContractBalance) == 0 {
		value = r.balanceOf(state, token)
	}
	if value.Sign() == 0 {
		return nil
	}
	if token == NativeToken {
		amount, err := toU256(value)
		if err != nil {
			return err
		}
		_, err = env.Call(r.Addr, recipient, amount, nil)
		return err
	}
	return tokens.NewERC20(token).Transfer(state, r.Addr, recipient, value)
}

// payPortion pays a basis-point fraction of the router's balance.
// Zero bips is a valid no-op fee.
func (r *UniversalRouter) payPortion(env *contract.Env, token, recipient common.Address, bips *big.Int) error {
	if bips.Cmp(big.NewInt(feeBipsBase)) > 0 {
		return ErrInvalidBips
	}
	balance := r.balanceOf(env.State(), token)
	value := new(big.Int).Mul(balance, bips)
	value.Div(value, big.NewInt(feeBipsBase))
	return r.pay(env, token, recipient, value)
}

// sweep sends the router's whole balance of token to recipient,
// failing if the balance is below amountMin.
func (r *UniversalRouter) sweep(env *contract.Env, token, recipient common.Address, amountMin *big.Int) error {
	balance := r.balanceOf(env.State(), token)
	if balance.Cmp(amountMin) < 0 {
		if token == NativeToken {
			return ErrInsufficientETH
		}
		return ErrInsufficientToken
	}
	if balance.Sign() == 0 {
		return nil
	}
	return r.pay(env, token, recipient, balance)
}

// sweepERC721 sends one token the router holds to recipient.
func (r *UniversalRouter) sweepERC721(env *contract.Env, token, recipient common.Address, id *big.Int) error {
	return tokens.NewERC721(token).TransferFrom(env.State(), r.Addr, recipient, id)
}

// sweepERC1155 sends the router's whole balance of (token, id),
// failing if it is below amountMin.
func (r *UniversalRouter) sweepERC1155(env *contract.Env, token, recipient common.Address, id, amountMin *big.Int) error {
	state := env.State()
	nft := tokens.NewERC1155(token)
	balance := nft.BalanceOf(state, r.Addr, id)
	if balance.Cmp(amountMin) < 0 {
		return ErrInsufficientToken
	}
	if balance.Sign() == 0 {
		return nil
	}
	return nft.SafeTransferFrom(state, r.Addr, recipient, id, balance)
}

// wrapETH wraps amount of the router's native balance, delivering the
// wrapped token to recipient.
func (r *UniversalRouter) wrapETH(env *contract.Env, recipient common.Address, amount *big.Int) error {
	state := env.State()
	if amount.Cmp(ContractBalance) == 0 {
		amount = state.GetBalance(r.Addr).ToBig()
	} else if amount.Cmp(state.GetBalance(r.Addr).ToBig()) > 0 {
		return ErrInsufficientETH
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := r.weth.Deposit(state, r.Addr, amount); err != nil {
		return err
	}
	if recipient != r.Addr {
		return r.weth.Transfer(state, r.Addr, recipient, amount)
	}
	return nil
}

// unwrapWETH unwraps the router's whole wrapped balance into native
// currency for recipient, failing below amountMin.
func (r *UniversalRouter) unwrapWETH(env *contract.Env, recipient common.Address, amountMin *big.Int) error {
	state := env.State()
	balance := r.weth.BalanceOf(state, r.Addr)
	if balance.Cmp(amountMin) < 0 {
		return ErrInsufficientETH
	}
	if balance.Sign() == 0 {
		return nil
	}
	if err := r.weth.Withdraw(state, r.Addr, balance); err != nil {
		return err
	}
	if recipient != r.Addr {
		return r.pay(env, NativeToken, recipient, balance)
	}
	return nil
}

// permit2TransferFrom pulls tokens from `from` through the allowance
// gateway, spending the router's approval.
func (r *UniversalRouter) permit2TransferFrom(env *contract.Env, token, from, to common.Address, amount *big.Int) error {
	return r.permit2.TransferFrom(env, r.Addr, from, to, amount, token)
}

// payOrPermit2TransferFrom funds an input either from the payer's
// holdings through the gateway or from tokens the router already
// custodies.
func (r *UniversalRouter) payOrPermit2TransferFrom(env *contract.Env, token, payer, recipient common.Address, amount *big.Int) error {
	if payer == r.Addr {
		if recipient == r.Addr {
			return nil
		}
		return tokens.NewERC20(token).Transfer(env.State(), r.Addr, recipient, amount)
	}
	return r.permit2TransferFrom(env, token, payer, recipient, amount)
}
