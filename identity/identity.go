// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - who this node is and who it can talk to
//
// a Signer holds the local name and key, a Directory the known
// counterparties; Local joins the two for the negotiation engine
package identity

import (
	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/party"
)

// Local - this node's view of the network
type Local struct {
	signer    *Signer
	directory *Directory
}

// New - combine the local signer with a directory
func New(signer *Signer, directory *Directory) *Local {
	return &Local{
		signer:    signer,
		directory: directory,
	}
}

// Me - this node's party
func (l *Local) Me() *party.Party {
	return l.signer.Me()
}

// Resolve - a party by name; this node's own name resolves to itself
func (l *Local) Resolve(name string) (*party.Party, error) {
	me := l.signer.Me()
	if name == me.Name {
		return me, nil
	}
	return l.directory.Resolve(name)
}

// Sign - sign with this node's key
func (l *Local) Sign(message []byte) (account.Signature, error) {
	return l.signer.Sign(message)
}

// Directory - the counterparties
func (l *Local) Directory() *Directory {
	return l.directory
}
