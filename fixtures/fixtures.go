// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared set up for package tests
package fixtures

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/party"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// SetupTestLogger - file logger in a scratch directory, critical only
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}

// Identity - a party together with its signing key
type Identity struct {
	Party      *party.Party
	PrivateKey *account.PrivateKey
}

// Account - the verification key
func (i *Identity) Account() *account.Account {
	return i.PrivateKey.Account()
}

// Sign - sign with the private key
func (i *Identity) Sign(message []byte) (account.Signature, error) {
	return i.PrivateKey.Sign(message), nil
}

// NewIdentity - a fresh random key bound to name
func NewIdentity(name string) *Identity {
	privateKey, err := account.NewPrivateKey(rand.Reader)
	if nil != err {
		panic(err)
	}
	p, err := party.New(name, privateKey.Account())
	if nil != err {
		panic(err)
	}
	return &Identity{
		Party:      p,
		PrivateKey: privateKey,
	}
}
