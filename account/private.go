// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"io"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/ioud/fault"
)

// SeedLength - bytes of entropy behind a private key
const SeedLength = ed25519.SeedSize

// PrivateKey - the signing half of a node identity
type PrivateKey struct {
	privateKey ed25519.PrivateKey
}

// NewPrivateKey - generate a fresh key from the random source
func NewPrivateKey(random io.Reader) (*PrivateKey, error) {
	_, privateKey, err := ed25519.GenerateKey(random)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{privateKey: privateKey}, nil
}

// PrivateKeyFromSeed - deterministic key from a 32 byte seed
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if SeedLength != len(seed) {
		return nil, fault.InvalidKeyLength
	}
	return &PrivateKey{privateKey: ed25519.NewKeyFromSeed(seed)}, nil
}

// PrivateKeyFromHexSeed - key from the hex seed stored in an identity file
func PrivateKeyFromHexSeed(s string) (*PrivateKey, error) {
	seed, err := hex.DecodeString(s)
	if nil != err {
		return nil, fault.CannotDecodePrivateKey
	}
	return PrivateKeyFromSeed(seed)
}

// Seed - the 32 byte seed
func (privateKey *PrivateKey) Seed() []byte {
	return privateKey.privateKey.Seed()
}

// HexSeed - text form of the seed for the identity file
func (privateKey *PrivateKey) HexSeed() string {
	return hex.EncodeToString(privateKey.privateKey.Seed())
}

// Account - the matching public key
func (privateKey *PrivateKey) Account() *Account {
	publicKey := privateKey.privateKey.Public().(ed25519.PublicKey)
	return &Account{PublicKey: publicKey}
}

// Sign - ed25519 signature over message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.privateKey, message)
}
