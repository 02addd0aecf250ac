// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - prometheus counters for negotiation sessions
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ioud"

// outcome label values
const (
	Committed = "committed"
	Failed    = "failed"
	Rejected  = "rejected"
)

var (
	// SessionsStarted - sessions created, by role
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Negotiation sessions started.",
	}, []string{"role"})

	// SessionsFinished - sessions reaching a terminal state, by role and outcome
	SessionsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_finished_total",
		Help:      "Negotiation sessions that reached a terminal state.",
	}, []string{"role", "outcome"})

	// ActiveSessions - sessions not yet terminal, by role
	ActiveSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Negotiation sessions in progress.",
	}, []string{"role"})

	// CommitConflicts - commits refused because the transaction or state exists
	CommitConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commit_conflicts_total",
		Help:      "Commits refused by the notary as duplicates.",
	})

	// PeerRequests - requests served by the peer listener, by command and result
	PeerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "peer_requests_total",
		Help:      "Peer protocol requests handled.",
	}, []string{"command", "result"})

	// RPCRequests - client RPC calls, by method
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Client RPC calls received.",
	}, []string{"method"})
)
