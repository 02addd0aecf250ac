// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package loopback - an in-process network of negotiation nodes
//
// every message is packed and unpacked on the way through so each node
// works on its own copy, exactly as it would over the peer transport
package loopback

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Responder - the acceptor side of a node
type Responder interface {
	HandleProposal(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error)
	HandleFinalise(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error
	HandleAbandon(ctx context.Context, from string, sessionId uuid.UUID, reason string) error
}

// Network - the set of joined nodes, by party name
type Network struct {
	sync.RWMutex
	log   *logger.L
	nodes map[string]Responder
	down  map[string]bool
}

// Transport - one node's connection to the network
type Transport struct {
	network *Network
	from    string
}

// New - an empty network
func New() *Network {
	return &Network{
		log:   logger.New("loopback"),
		nodes: make(map[string]Responder),
		down:  make(map[string]bool),
	}
}

// Transport - connection for a node, usable before it has joined so an
// engine can be built before its responder exists
func (n *Network) Transport(name string) *Transport {
	return &Transport{
		network: n,
		from:    name,
	}
}

// Join - make a node reachable
func (n *Network) Join(name string, responder Responder) error {
	n.Lock()
	defer n.Unlock()

	if _, ok := n.nodes[name]; ok {
		return fault.PartyAlreadyExists
	}
	n.nodes[name] = responder
	n.log.Infof("join: %s", name)
	return nil
}

// SetDown - make a joined node unreachable, or reachable again
func (n *Network) SetDown(name string, down bool) {
	n.Lock()
	n.down[name] = down
	n.Unlock()
}

func (n *Network) lookup(name string) (Responder, error) {
	n.RLock()
	defer n.RUnlock()

	r, ok := n.nodes[name]
	if !ok || n.down[name] {
		return nil, fault.PeerUnreachable
	}
	return r, nil
}

// Propose - ask the counterparty to sign
func (t *Transport) Propose(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error) {
	r, err := t.network.lookup(counterparty.Name)
	if nil != err {
		return nil, err
	}
	copied, err := carry(stx)
	if nil != err {
		return nil, err
	}
	t.network.log.Debugf("propose: %s -> %s  session: %s", t.from, counterparty.Name, sessionId)
	return r.HandleProposal(ctx, t.from, sessionId, copied)
}

// Finalise - tell the counterparty the transaction is committed
func (t *Transport) Finalise(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error {
	r, err := t.network.lookup(counterparty.Name)
	if nil != err {
		return err
	}
	copied, err := carry(stx)
	if nil != err {
		return err
	}
	t.network.log.Debugf("finalise: %s -> %s  session: %s", t.from, counterparty.Name, sessionId)
	return r.HandleFinalise(ctx, t.from, sessionId, copied)
}

// Abandon - tell the counterparty the session is over
func (t *Transport) Abandon(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, reason string) error {
	r, err := t.network.lookup(counterparty.Name)
	if nil != err {
		return err
	}
	t.network.log.Debugf("abandon: %s -> %s  session: %s  reason: %s", t.from, counterparty.Name, sessionId, reason)
	return r.HandleAbandon(ctx, t.from, sessionId, reason)
}

// through the wire format and back
func carry(stx *transactionrecord.SignedTransaction) (*transactionrecord.SignedTransaction, error) {
	packed, err := stx.Pack()
	if nil != err {
		return nil, err
	}
	return packed.UnpackSigned()
}
