// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/counter"
	"github.com/bitmark-inc/ioud/negotiation"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/rpc/iou"
	"github.com/bitmark-inc/ioud/rpc/node"
	"github.com/bitmark-inc/ioud/rpc/session"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Engine - the negotiation calls the services use
type Engine interface {
	Me() *party.Party
	Config() negotiation.Config
	Propose(ctx context.Context, value int64, counterparty string) (*transactionrecord.SignedTransaction, error)
	Start(value int64, counterparty string) (uuid.UUID, error)
	Session(id uuid.UUID) (negotiation.Session, error)
	Sessions() []negotiation.Session
	Cancel(id uuid.UUID) error
}

// Create - a server with every service registered
func Create(log *logger.L, version string, rpcCount *counter.Counter, engine Engine, records iou.Records) *rpc.Server {
	start := time.Now().UTC()

	// a blocking propose may wait for the whole signature timeout
	timeout := engine.Config().SessionTimeout

	server := rpc.NewServer()

	_ = server.Register(iou.New(log, engine, records, timeout))
	_ = server.Register(session.New(log, engine))
	_ = server.Register(node.New(log, start, version, rpcCount, engine))

	return server
}
