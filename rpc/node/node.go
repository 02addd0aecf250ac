// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ioud/counter"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/negotiation"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Status - what the engine reports about itself
type Status interface {
	Me() *party.Party
	Config() negotiation.Config
	Sessions() []negotiation.Session
}

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	status  Status
	counter *counter.Counter
}

// New - create the node service
func New(log *logger.L, start time.Time, version string, counter *counter.Counter, status Status) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		status:  status,
		counter: counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Name     string        `json:"name"`
	Account  string        `json:"account"`
	Policy   string        `json:"signerPolicy"`
	RPCs     uint64        `json:"rpcs"`
	Sessions SessionCounts `json:"sessions"`
	Version  string        `json:"version"`
	Uptime   string        `json:"uptime"`
}

// SessionCounts - sessions held by the node, by state
type SessionCounts struct {
	Active    int `json:"active"`
	Committed int `json:"committed"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	metrics.RPCRequests.WithLabelValues("Node.Info").Inc()

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	me := node.status.Me()
	reply.Name = me.Name
	reply.Account = me.Account.String()
	reply.Policy = node.status.Config().Policy.String()
	reply.RPCs = node.counter.Uint64()
	for _, s := range node.status.Sessions() {
		switch s.State {
		case negotiation.Committed:
			reply.Sessions.Committed += 1
		case negotiation.Rejected:
			reply.Sessions.Rejected += 1
		case negotiation.Failed:
			reply.Sessions.Failed += 1
		default:
			reply.Sessions.Active += 1
		}
	}
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	return nil
}
