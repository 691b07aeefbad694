// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package v3

import (
	"encoding/binary"

	"github.com/luxfi/geth/common"
)

// Packed path layout: 20-byte token, 3-byte fee, 20-byte token, and so
// on. A path with N hops is 20 + N*23 bytes long.
const (
	addrSize           = 20
	feeSize            = 3
	nextOffset         = addrSize + feeSize
	popOffset          = nextOffset + addrSize
	multiplePoolsMinLn = popOffset + nextOffset
)

// HasMultiplePools reports whether the path contains two or more hops.
func HasMultiplePools(path []byte) bool {
	return len(path) >= multiplePoolsMinLn
}

// NumPools returns the number of hops encoded in the path.
func NumPools(path []byte) int {
	if len(path) < popOffset {
		return 0
	}
	return (len(path) - addrSize) / nextOffset
}

// DecodeFirstPool unpacks the leading hop.
func DecodeFirstPool(path []byte) (tokenA, tokenB common.Address, fee uint32, err error) {
	if len(path) < popOffset {
		return common.Address{}, common.Address{}, 0, ErrInvalidPath
	}
	tokenA = common.BytesToAddress(path[:addrSize])
	var feeBytes [4]byte
	copy(feeBytes[1:], path[addrSize:nextOffset])
	fee = binary.BigEndian.Uint32(feeBytes[:])
	tokenB = common.BytesToAddress(path[nextOffset:popOffset])
	return tokenA, tokenB, fee, nil
}

// SkipToken drops the leading token+fee, advancing to the next hop.
func SkipToken(path []byte) []byte {
	if len(path) < nextOffset {
		return nil
	}
	return path[nextOffset:]
}

// EncodePath packs tokens and fees into the wire format. len(fees)
// must be len(tokens)-1.
func EncodePath(tokens []common.Address, fees []uint32) ([]byte, error) {
	if len(tokens) < 2 || len(fees) != len(tokens)-1 {
		return nil, ErrInvalidPath
	}
	out := make([]byte, 0, addrSize+len(fees)*nextOffset)
	for i, fee := range fees {
		out = append(out, tokens[i].Bytes()...)
		var feeBytes [4]byte
		binary.BigEndian.PutUint32(feeBytes[:], fee)
		out = append(out, feeBytes[1:]...)
	}
	return append(out, tokens[len(tokens)-1].Bytes()...), nil
}
