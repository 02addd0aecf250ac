// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// slice of time between checks of the caller's context
const pollInterval = 100 * time.Millisecond

// Node - how to reach one counterparty
type Node struct {
	Address   string // zmq endpoint
	V6        bool
	PublicKey []byte // CURVE server key
}

// Client - the initiator's side of the peer protocol
//
// each request uses its own REQ socket, so requests to different
// counterparties, or to the same one, run concurrently
type Client struct {
	sync.RWMutex
	log        *logger.L
	me         string
	privateKey []byte
	publicKey  []byte
	timeout    time.Duration
	nodes      map[string]Node
}

// NewClient - a transport for the node named me
func NewClient(me string, privateKey []byte, publicKey []byte, timeout time.Duration) (*Client, error) {
	if publicLength != len(publicKey) {
		return nil, fault.InvalidPublicKeyFile
	}
	if privateLength != len(privateKey) {
		return nil, fault.InvalidPrivateKeyFile
	}
	return &Client{
		log:        logger.New("peer-client"),
		me:         me,
		privateKey: privateKey,
		publicKey:  publicKey,
		timeout:    timeout,
		nodes:      make(map[string]Node),
	}, nil
}

// AddNode - record how to reach the party called name
func (c *Client) AddNode(name string, hostPort string, serverPublicKey []byte) error {
	if publicLength != len(serverPublicKey) {
		return fault.InvalidPublicKeyFile
	}
	address, v6, err := canonicalAddress(hostPort)
	if nil != err {
		return err
	}

	c.Lock()
	defer c.Unlock()

	if _, ok := c.nodes[name]; ok {
		return fault.PartyAlreadyExists
	}
	c.nodes[name] = Node{
		Address:   address,
		V6:        v6,
		PublicKey: serverPublicKey,
	}
	c.log.Infof("node: %s  address: %s", name, address)
	return nil
}

// ServerKeys - public keys of every known node
func (c *Client) ServerKeys() [][]byte {
	c.RLock()
	defer c.RUnlock()

	keys := make([][]byte, 0, len(c.nodes))
	for _, n := range c.nodes {
		keys = append(keys, n.PublicKey)
	}
	return keys
}

// Propose - send a proposal and wait for the signature
func (c *Client) Propose(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error) {
	signature, err := c.request(ctx, counterparty, &Request{
		Command:     ProposeCommand,
		SessionId:   sessionId,
		From:        c.me,
		Transaction: stx,
	})
	if nil != err {
		return nil, err
	}
	if nil == signature {
		return nil, fault.NewSignatureError(counterparty.Name, fault.MissingSignature)
	}
	return signature, nil
}

// Finalise - deliver the committed transaction
func (c *Client) Finalise(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error {
	_, err := c.request(ctx, counterparty, &Request{
		Command:     FinaliseCommand,
		SessionId:   sessionId,
		From:        c.me,
		Transaction: stx,
	})
	return err
}

// Abandon - tell the counterparty the session is over
func (c *Client) Abandon(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, reason string) error {
	_, err := c.request(ctx, counterparty, &Request{
		Command:   AbandonCommand,
		SessionId: sessionId,
		From:      c.me,
		Reason:    reason,
	})
	return err
}

// one request/reply exchange
func (c *Client) request(ctx context.Context, counterparty *party.Party, r *Request) (account.Signature, error) {
	c.RLock()
	node, ok := c.nodes[counterparty.Name]
	c.RUnlock()
	if !ok {
		return nil, fault.PeerUnreachable
	}

	frames, err := EncodeRequest(r)
	if nil != err {
		return nil, err
	}

	socket, err := newClientSocket(c.privateKey, c.publicKey, node.PublicKey, node.Address, node.V6)
	if nil != err {
		c.log.Errorf("connect to: %s  error: %s", node.Address, err)
		return nil, fault.PeerUnreachable
	}
	defer socket.Close()

	if _, err := socket.SendMessage(frames); nil != err {
		c.log.Warnf("send to: %s  error: %s", counterparty.Name, err)
		return nil, fault.PeerUnreachable
	}
	c.log.Debugf("sent: %s  to: %s  session: %s", r.Command, counterparty.Name, r.SessionId)

	if err := c.wait(ctx, socket); nil != err {
		return nil, err
	}

	reply, err := socket.RecvMessageBytes(0)
	if nil != err {
		return nil, fault.PeerUnreachable
	}
	signature, err := DecodeReply(reply)
	if nil != err {
		c.log.Debugf("reply: %s  from: %s  error: %s", r.Command, counterparty.Name, err)
	}
	return signature, err
}

// wait until a reply is readable, ctx is done or the client timeout
// passes
func (c *Client) wait(ctx context.Context, socket *zmq.Socket) error {
	poller := zmq.NewPoller()
	poller.Add(socket, zmq.POLLIN)

	var expiry <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		expiry = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expiry:
			return fault.Timeout
		default:
		}

		polled, err := poller.Poll(pollInterval)
		if nil != err {
			return fault.PeerUnreachable
		}
		if len(polled) > 0 {
			return nil
		}
	}
}
