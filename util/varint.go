// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// Varint64MaximumBytes - maximum possible number of bytes in Varint64
const Varint64MaximumBytes = 9

// ToVarint64 - convert a 64 bit unsigned integer to Varint64
//
// the first eight bytes carry seven bits each, low bits first, with
// the top bit set when more bytes follow; a ninth byte carries the
// remaining eight bits with no continuation flag
func ToVarint64(value uint64) []byte {
	result := make([]byte, 0, Varint64MaximumBytes)
	for n := 1; n < Varint64MaximumBytes; n += 1 {
		if value < 0x80 {
			return append(result, byte(value))
		}
		result = append(result, byte(value)|0x80)
		value >>= 7
	}
	return append(result, byte(value))
}

// FromVarint64 - convert a Varint64 prefix of buffer to a uint64
//
// also return the number of bytes used as second value
// returns 0, 0 if varint64 buffer is truncated
func FromVarint64(buffer []byte) (uint64, int) {
	result := uint64(0)
	shift := uint(0)
	for count := 0; count < len(buffer); count += 1 {
		b := uint64(buffer[count])
		if Varint64MaximumBytes-1 == count {
			return result | b<<shift, count + 1
		}
		result |= (b & 0x7f) << shift
		if 0 == b&0x80 {
			return result, count + 1
		}
		shift += 7
	}
	return 0, 0
}

// ToVarint64Signed - zig-zag encode so small negative values stay short
func ToVarint64Signed(value int64) []byte {
	return ToVarint64(uint64(value<<1) ^ uint64(value>>63))
}

// FromVarint64Signed - inverse of ToVarint64Signed
func FromVarint64Signed(buffer []byte) (int64, int) {
	u, n := FromVarint64(buffer)
	if 0 == n {
		return 0, 0
	}
	return int64(u>>1) ^ -int64(u&1), n
}

// ClippedVarint64 - return a positive clipped value as an int
// any value outside the range minimum..maximum returns 0, 0
func ClippedVarint64(buffer []byte, minimum int, maximum int) (int, int) {
	if minimum < 0 || maximum < 0 || minimum >= maximum {
		return 0, 0
	}
	value, count := FromVarint64(buffer)
	if 0 == count || value > uint64(maximum) || value < uint64(minimum) {
		return 0, 0
	}
	return int(value), count
}
