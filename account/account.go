// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/util"
)

// enumeration of supported key algorithms
const (
	Nothing = iota // reserved, never accepted
	ED25519 = iota
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4 // shift 4 bits to get algorithm
)

// Account - the verification key of a party
type Account struct {
	PublicKey ed25519.PublicKey
}

// New - wrap an ed25519 public key
func New(publicKey []byte) (*Account, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.InvalidKeyLength
	}
	k := make([]byte, ed25519.PublicKeySize)
	copy(k, publicKey)
	return &Account{PublicKey: k}, nil
}

// FromBase58 - decode the checksummed text form of an account
func FromBase58(accountBase58Encoded string) (*Account, error) {
	accountDecoded, err := base58.Decode(accountBase58Encoded)
	if nil != err || 0 == len(accountDecoded) {
		return nil, fault.CannotDecodeAccount
	}

	keyVariant, keyVariantLength := util.FromVarint64(accountDecoded)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.NotPublicKey
	}
	if ED25519 != keyVariant>>algorithmShift || 0 != keyVariant&testKeyCode {
		return nil, fault.InvalidKeyType
	}

	checksumStart := len(accountDecoded) - checksumLength
	if checksumStart-keyVariantLength <= 0 {
		return nil, fault.InvalidKeyLength
	}

	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	return New(accountDecoded[keyVariantLength:checksumStart])
}

// FromBytes - decode the packed form: key variant followed by the key
func FromBytes(accountBytes []byte) (*Account, error) {
	keyVariant, keyVariantLength := util.FromVarint64(accountBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.NotPublicKey
	}
	if ED25519 != keyVariant>>algorithmShift || 0 != keyVariant&testKeyCode {
		return nil, fault.InvalidKeyType
	}
	return New(accountBytes[keyVariantLength:])
}

// Bytes - packed form: key variant followed by the key
func (account *Account) Bytes() []byte {
	keyVariant := util.ToVarint64(ED25519<<algorithmShift | publicKeyCode)
	return append(keyVariant, account.PublicKey...)
}

// String - base58 with a sha3 checksum
func (account *Account) String() string {
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// GoString - for %#v
func (account *Account) GoString() string {
	return "<ed25519:" + account.String() + ">"
}

// Equal - same key bytes
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other {
		return account == other
	}
	return bytes.Equal(account.PublicKey, other.PublicKey)
}

// IsZero - an all zero key
func (account *Account) IsZero() bool {
	for _, b := range account.PublicKey {
		if 0 != b {
			return false
		}
	}
	return true
}

// CheckSignature - verify an ed25519 signature over message
func (account *Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.SignatureInvalid
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.SignatureInvalid
	}
	return nil
}

// MarshalText - base58 text for JSON
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - base58 text from JSON
func (account *Account) UnmarshalText(s []byte) error {
	a, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	account.PublicKey = a.PublicKey
	return nil
}
