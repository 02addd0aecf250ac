// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/bitmark-inc/ioud/util"
)

var varint64Tests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{255, []byte{0xff, 0x01}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

var varint64TruncatedTests = [][]byte{
	{},
	{0x80},
	{0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
}

func TestToVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		if result := util.ToVarint64(item.value); !bytes.Equal(result, item.encoded) {
			t.Errorf("%d: ToVarint64(%x) -> %x  expected: %x", i, item.value, result, item.encoded)
		}
	}
}

func TestFromVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		suffix := []byte{0xff, 0x97, 0x23}
		b := append(append([]byte{}, item.encoded...), suffix...)

		result, count := util.FromVarint64(b)
		if result != item.value {
			t.Errorf("%d: FromVarint64(%x) -> %d  expected: %d", i, b, result, item.value)
		}
		if count != len(item.encoded) {
			t.Errorf("%d: count: %d  expected: %d", i, count, len(item.encoded))
		}
		if !bytes.Equal(suffix, b[count:]) {
			t.Errorf("%d: suffix: %x  expected: %x", i, b[count:], suffix)
		}
	}

	for i, item := range varint64TruncatedTests {
		result, count := util.FromVarint64(item)
		if 0 != result || 0 != count {
			t.Errorf("%d: truncated FromVarint64(%x) -> %d, %d  expected: 0, 0", i, item, result, count)
		}
	}
}

func TestSignedVarint64(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 64, 1000000, -1000000, math.MaxInt64, math.MinInt64}
	for i, v := range values {
		b := util.ToVarint64Signed(v)
		result, count := util.FromVarint64Signed(b)
		if result != v || count != len(b) {
			t.Errorf("%d: signed %d -> %x -> %d (%d bytes)", i, v, b, result, count)
		}
	}

	if b := util.ToVarint64Signed(-1); !bytes.Equal(b, []byte{0x01}) {
		t.Errorf("zig-zag of -1: %x  expected: 01", b)
	}
}

func TestClippedVarint64(t *testing.T) {
	tests := []struct {
		buffer []byte
		value  int
		count  int
	}{
		{[]byte{0x05}, 5, 1},
		{[]byte{0x00}, 0, 0},
		{[]byte{0x80, 0x01}, 128, 2},
		{[]byte{0x80, 0x02}, 0, 0},
		{[]byte{0x80}, 0, 0},
	}
	for i, item := range tests {
		value, count := util.ClippedVarint64(item.buffer, 1, 255)
		if value != item.value || count != item.count {
			t.Errorf("%d: ClippedVarint64(%x) -> %d, %d  expected: %d, %d", i, item.buffer, value, count, item.value, item.count)
		}
	}
}
