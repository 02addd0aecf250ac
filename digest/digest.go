// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/ioud/fault"
)

// Length - number of bytes in the digest
const Length = 32

// Digest - SHA3-256 of a packed transaction, used as its id
//
// the text form is plain lower case hex in byte order so ids printed
// by the daemon can be pasted into the CLI
type Digest [Length]byte

// New - digest a byte slice
func New(record []byte) Digest {
	return sha3.Sum256(record)
}

// String - hex for the fmt package (%s, %v)
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// GoString - for %#v
func (d Digest) GoString() string {
	return "<SHA3-256:" + hex.EncodeToString(d[:]) + ">"
}

// IsZero - true for the unset digest
func (d Digest) IsZero() bool {
	return Digest{} == d
}

// MarshalText - hex text for JSON
func (d Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(Length))
	hex.Encode(buffer, d[:])
	return buffer, nil
}

// UnmarshalText - hex text from JSON
func (d *Digest) UnmarshalText(s []byte) error {
	if hex.EncodedLen(Length) != len(s) {
		return fault.InvalidValue
	}
	_, err := hex.Decode(d[:], s)
	return err
}

// FromBytes - validate and convert a binary slice
func FromBytes(d *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fault.InvalidValue
	}
	copy(d[:], buffer)
	return nil
}

// FromString - parse the hex text form
func FromString(s string) (Digest, error) {
	var d Digest
	err := d.UnmarshalText([]byte(s))
	return d, err
}
