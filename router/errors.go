// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"errors"
	"fmt"
)

// Errors - execution engine
var (
	ErrTransactionDeadlinePassed = errors.New("transaction deadline passed")
	ErrNotAllowedReenter         = errors.New("reentrant call into execute not allowed")
	ErrLengthMismatch            = errors.New("commands and inputs length mismatch")
	ErrUnsupportedProtocol       = errors.New("protocol not configured for this deployment")
)

// Errors - payments
var (
	ErrInvalidBips       = errors.New("fee bips above 10000")
	ErrInsufficientToken = errors.New("insufficient token balance in router")
	ErrInsufficientETH   = errors.New("insufficient native balance in router")
)

// Errors - ownership checks
var (
	ErrInvalidOwnerERC721  = errors.New("erc721 token not owned by expected owner")
	ErrInvalidOwnerERC1155 = errors.New("erc1155 balance below expected minimum")
)

// Errors - rewards
var (
	ErrUnableToClaim = errors.New("rewards claim call failed")
)

// InvalidCommandTypeError reports a command byte with reserved bits
// set or an unassigned instruction kind. It is always fatal; the
// allow-revert flag does not forgive it.
type InvalidCommandTypeError struct {
	Command byte
}

func (e *InvalidCommandTypeError) Error() string {
	return fmt.Sprintf("invalid command type 0x%02x", e.Command)
}

// ExecutionFailedError wraps the failing instruction's index and its
// underlying cause, which is forwarded unmodified.
type ExecutionFailedError struct {
	Index  int
	Reason error
}

func (e *ExecutionFailedError) Error() string {
	return fmt.Sprintf("execution failed at command %d: %v", e.Index, e.Reason)
}

func (e *ExecutionFailedError) Unwrap() error { return e.Reason }
