// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package iou

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/rpc/ratelimit"
	"github.com/bitmark-inc/ioud/transactionrecord"
	"github.com/bitmark-inc/ioud/vault"
)

const (
	rateLimitIOU = 100
	rateBurstIOU = 100

	// limit for count
	maximumIOUList = vault.MaximumListCount
)

// Negotiator - starts initiator sessions
type Negotiator interface {
	Propose(ctx context.Context, value int64, counterparty string) (*transactionrecord.SignedTransaction, error)
	Start(value int64, counterparty string) (uuid.UUID, error)
}

// Records - read access to the vault
type Records interface {
	Get(txId digest.Digest) (*vault.Entry, error)
	List(start uint64, count int) ([]*vault.Entry, uint64, error)
}

// IOU - type for RPC calls
type IOU struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Timeout    time.Duration
	negotiator Negotiator
	records    Records
}

// New - create the IOU service; timeout bounds a blocking Propose
func New(log *logger.L, negotiator Negotiator, records Records, timeout time.Duration) *IOU {
	return &IOU{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitIOU, rateBurstIOU),
		Timeout:    timeout,
		negotiator: negotiator,
		records:    records,
	}
}

// ---

// ProposeArguments - an IOU from this node to the counterparty
type ProposeArguments struct {
	Value        int64  `json:"value,string"`
	Counterparty string `json:"counterparty"`
}

// ProposeReply - the committed transaction
type ProposeReply struct {
	TxId        digest.Digest                        `json:"txId"`
	Transaction *transactionrecord.SignedTransaction `json:"transaction"`
}

// Propose - negotiate an IOU and wait until it is committed or fails
func (i *IOU) Propose(arguments *ProposeArguments, reply *ProposeReply) error {
	metrics.RPCRequests.WithLabelValues("IOU.Propose").Inc()

	if err := ratelimit.Limit(i.Limiter); nil != err {
		return err
	}
	if nil == arguments || "" == arguments.Counterparty {
		return fault.MissingParameters
	}

	i.Log.Infof("propose: %d to: %q", arguments.Value, arguments.Counterparty)

	ctx := context.Background()
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	stx, err := i.negotiator.Propose(ctx, arguments.Value, arguments.Counterparty)
	if nil != err {
		i.Log.Infof("propose to: %q  error: %s", arguments.Counterparty, err)
		return err
	}
	txId, err := stx.Id()
	if nil != err {
		return err
	}

	reply.TxId = txId
	reply.Transaction = stx
	return nil
}

// ---

// StartReply - the session negotiating the IOU
type StartReply struct {
	SessionId uuid.UUID `json:"sessionId"`
}

// Start - begin negotiating an IOU; follow it with Session.Get
func (i *IOU) Start(arguments *ProposeArguments, reply *StartReply) error {
	metrics.RPCRequests.WithLabelValues("IOU.Start").Inc()

	if err := ratelimit.Limit(i.Limiter); nil != err {
		return err
	}
	if nil == arguments || "" == arguments.Counterparty {
		return fault.MissingParameters
	}

	id, err := i.negotiator.Start(arguments.Value, arguments.Counterparty)
	if nil != err {
		return err
	}
	i.Log.Infof("start: %d to: %q  session: %s", arguments.Value, arguments.Counterparty, id)

	reply.SessionId = id
	return nil
}

// ---

// GetArguments - transaction to fetch
type GetArguments struct {
	TxId digest.Digest `json:"txId"`
}

// GetReply - the vault entry
type GetReply struct {
	Entry *vault.Entry `json:"iou"`
}

// Get - a committed IOU by transaction id
func (i *IOU) Get(arguments *GetArguments, reply *GetReply) error {
	metrics.RPCRequests.WithLabelValues("IOU.Get").Inc()

	if err := ratelimit.Limit(i.Limiter); nil != err {
		return err
	}
	if nil == arguments || arguments.TxId.IsZero() {
		return fault.MissingParameters
	}

	entry, err := i.records.Get(arguments.TxId)
	if nil != err {
		return err
	}
	reply.Entry = entry
	return nil
}

// ---

// ListArguments - page of the vault to return
type ListArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// ListReply - entries and the start of the next page
type ListReply struct {
	IOUs      []*vault.Entry `json:"ious"`
	NextStart uint64         `json:"nextStart,string"`
}

// List - committed IOUs in the order this node recorded them
func (i *IOU) List(arguments *ListArguments, reply *ListReply) error {
	metrics.RPCRequests.WithLabelValues("IOU.List").Inc()

	if nil == arguments {
		return fault.MissingParameters
	}
	if err := ratelimit.LimitN(i.Limiter, arguments.Count, maximumIOUList); nil != err {
		return err
	}

	entries, nextStart, err := i.records.List(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.IOUs = entries
	reply.NextStart = nextStart
	return nil
}
