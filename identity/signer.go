// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"bufio"
	"io/ioutil"
	"os"
	"strings"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/party"
)

const (
	seedPrefix    = "SEED:"
	accountPrefix = "ACCOUNT:"
)

// Signer - this node's party and private key
type Signer struct {
	me         *party.Party
	privateKey *account.PrivateKey
}

// NewSigner - bind a name to a private key
func NewSigner(name string, privateKey *account.PrivateKey) (*Signer, error) {
	if nil == privateKey {
		return nil, fault.MissingParameters
	}
	me, err := party.New(name, privateKey.Account())
	if nil != err {
		return nil, err
	}
	return &Signer{
		me:         me,
		privateKey: privateKey,
	}, nil
}

// Me - this node's party
func (s *Signer) Me() *party.Party {
	return s.me
}

// Account - the verification key
func (s *Signer) Account() *account.Account {
	return s.me.Account
}

// Sign - ed25519 signature over message
func (s *Signer) Sign(message []byte) (account.Signature, error) {
	return s.privateKey.Sign(message), nil
}

// ReadSeedFile - private key from an identity file
//
// the file holds a "SEED:<hex>" line; an "ACCOUNT:" line, if present,
// must match the key derived from the seed
func ReadSeedFile(filename string) (*account.PrivateKey, error) {
	f, err := os.Open(filename)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	var privateKey *account.PrivateKey
	var acc *account.Account

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, seedPrefix):
			privateKey, err = account.PrivateKeyFromHexSeed(strings.TrimPrefix(line, seedPrefix))
			if nil != err {
				return nil, err
			}
		case strings.HasPrefix(line, accountPrefix):
			acc, err = account.FromBase58(strings.TrimPrefix(line, accountPrefix))
			if nil != err {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}

	if nil == privateKey {
		return nil, fault.InvalidPrivateKeyFile
	}
	if nil != acc && !acc.Equal(privateKey.Account()) {
		return nil, fault.InvalidPrivateKeyFile
	}
	return privateKey, nil
}

// WriteSeedFile - create a new identity file; never overwrites
func WriteSeedFile(filename string, privateKey *account.PrivateKey) error {
	if _, err := os.Stat(filename); nil == err {
		return fault.KeyFileAlreadyExists
	}
	data := seedPrefix + privateKey.HexSeed() + "\n" +
		accountPrefix + privateKey.Account().String() + "\n"
	return ioutil.WriteFile(filename, []byte(data), 0600)
}
