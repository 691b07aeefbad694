// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router implements a universal command router: a caller
// submits a byte string of commands plus one ABI-encoded input blob
// per command, and the router executes them in order against the
// ledger. Swaps, permit operations, NFT purchases and payment
// utilities all share one entrypoint.
package router

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"

	"github.com/luxfi/router/contract"
	"github.com/luxfi/router/permit2"
	"github.com/luxfi/router/tokens"
	"github.com/luxfi/router/v2"
	"github.com/luxfi/router/v3"
)

// RouterParameters fixes the addresses of every external protocol the
// router can reach. A zero address disables that protocol: commands
// targeting it fail with ErrUnsupportedProtocol.
type RouterParameters struct {
	Permit2 common.Address
	WETH9   common.Address

	Seaport     common.Address
	NFTXZap     common.Address
	X2Y2        common.Address
	Foundation  common.Address
	Sudoswap    common.Address
	NFT20Zap    common.Address
	Cryptopunks common.Address
	LooksRare   common.Address

	LooksRareToken              common.Address
	LooksRareRewardsDistributor common.Address
	RouterRewardsDistributor    common.Address

	V2Factory        common.Address
	PairInitCodeHash common.Hash
	V3Factory        common.Address
	PoolInitCodeHash common.Hash
}

// UniversalRouter executes command streams. It holds no user funds
// between transactions; anything left on it is sweepable by anyone.
type UniversalRouter struct {
	Addr   common.Address
	params RouterParameters

	permit2   *permit2.Permit2
	weth      *tokens.WETH9
	v2Factory *v2.Factory
	v3Factory *v3.Factory

	// Reentrancy guard. Set for the duration of Execute; nested
	// entry is only possible through a sub-plan command.
	locked bool

	log log.Logger
}

// New builds a router at addr wired to the protocols in params.
func New(addr common.Address, params RouterParameters) *UniversalRouter {
	return &UniversalRouter{
		Addr:      addr,
		params:    params,
		permit2:   permit2.New(params.Permit2),
		weth:      tokens.NewWETH9(params.WETH9),
		v2Factory: v2.NewFactory(params.V2Factory, params.PairInitCodeHash),
		v3Factory: v3.NewFactory(params.V3Factory, params.PoolInitCodeHash),
		log:       log.NewTestLogger(log.InfoLevel),
	}
}

// Parameters returns the protocol wiring the router was built with.
func (r *UniversalRouter) Parameters() RouterParameters { return r.params }

// SetLogger replaces the router's logger.
func (r *UniversalRouter) SetLogger(l log.Logger) { r.log = l }

// ExecuteWithDeadline runs a command stream, rejecting it outright if
// the block timestamp is past the deadline.
func (r *UniversalRouter) ExecuteWithDeadline(
	env *contract.Env,
	sender common.Address,
	value *uint256.Int,
	commands []byte,
	inputs [][]byte,
	deadline *big.Int,
) error {
	if deadline != nil && new(big.Int).SetUint64(env.BlockTime()).Cmp(deadline) > 0 {
		return ErrTransactionDeadlinePassed
	}
	return r.Execute(env, sender, value, commands, inputs)
}

// Execute runs a command stream with no deadline.
func (r *UniversalRouter) Execute(
	env *contract.Env,
	sender common.Address,
	value *uint256.Int,
	commands []byte,
	inputs [][]byte,
) error {
	if r.locked {
		return ErrNotAllowedReenter
	}
	r.locked = true
	defer func() { r.locked = false }()

	state := env.State()
	snapshot := state.Snapshot()
	if value != nil && value.Sign() > 0 {
		if err := env.Transfer(sender, r.Addr, value); err != nil {
			return err
		}
	}
	if err := r.run(env, sender, commands, inputs); err != nil {
		// A fatal failure unwinds the whole stream, attached value
		// included.
		state.RevertToSnapshot(snapshot)
		return err
	}
	return nil
}

// run is the dispatch loop. It executes under an already-held lock so
// that sub-plan commands can recurse without releasing the guard.
func (r *UniversalRouter) run(env *contract.Env, sender common.Address, commands []byte, inputs [][]byte) error {
	if len(commands) != len(inputs) {
		return ErrLengthMismatch
	}
	state := env.State()
	for i, command := range commands {
		if command&CommandReserved != 0 {
			// Reserved bits are fatal regardless of the revert flag.
			return &InvalidCommandTypeError{Command: command}
		}
		snapshot := state.Snapshot()
		err := r.dispatch(env, sender, command&CommandTypeMask, inputs[i])
		if err == nil {
			continue
		}
		state.RevertToSnapshot(snapshot)
		if command&FlagAllowRevert != 0 {
			r.log.Debug("command reverted", "index", i, "command", command&CommandTypeMask, "err", err)
			continue
		}
		return &ExecutionFailedError{Index: i, Reason: err}
	}
	return nil
}

// Selectors of the two external execute entrypoints.
var (
	executeSelector         = [4]byte{0x24, 0x85, 0x6b, 0xc3} // execute(bytes,bytes[])
	executeDeadlineSelector = [4]byte{0x35, 0x93, 0x56, 0x4c} // execute(bytes,bytes[],uint256)
)

var (
	executeArgs         = args(typeBytes, typeBytesSlice)
	executeDeadlineArgs = args(typeBytes, typeBytesSlice, typeUint256)
)

// Run lets the router be called as a registered contract. Calls made
// while a command stream is executing hit the reentrancy guard, so a
// purchased protocol cannot reenter the dispatch loop.
func (r *UniversalRouter) Run(env *contract.Env, caller common.Address, value *uint256.Int, input []byte) ([]byte, error) {
	// Plain value transfers are accepted; the router must be able to
	// receive native currency from unwraps and marketplace refunds.
	if len(input) == 0 {
		return nil, nil
	}
	if len(input) < 4 {
		return nil, &InvalidCommandTypeError{}
	}
	var selector [4]byte
	copy(selector[:], input[:4])
	switch selector {
	// Attached value was already credited by Env.Call, so the stream
	// runs with no further transfer.
	case executeSelector:
		out, err := executeArgs.Unpack(input[4:])
		if err != nil {
			return nil, err
		}
		return nil, r.Execute(env, caller, nil, out[0].([]byte), out[1].([][]byte))
	case executeDeadlineSelector:
		out, err := executeDeadlineArgs.Unpack(input[4:])
		if err != nil {
			return nil, err
		}
		return nil, r.ExecuteWithDeadline(env, caller, nil, out[0].([]byte), out[1].([][]byte), out[2].(*big.Int))
	default:
		return nil, &InvalidCommandTypeError{Command: input[0]}
	}
}

var _ contract.Contract = (*UniversalRouter)(nil)
