// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package session

import (
	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/negotiation"
	"github.com/bitmark-inc/ioud/rpc/ratelimit"
)

const (
	rateLimitSession = 200
	rateBurstSession = 100
)

// Sessions - the negotiation engine's session queries
type Sessions interface {
	Session(id uuid.UUID) (negotiation.Session, error)
	Sessions() []negotiation.Session
	Cancel(id uuid.UUID) error
}

// Session - type for RPC calls
type Session struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	sessions Sessions
}

// New - create the session service
func New(log *logger.L, sessions Sessions) *Session {
	return &Session{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitSession, rateBurstSession),
		sessions: sessions,
	}
}

// ---

// Arguments - the session of interest
type Arguments struct {
	Id uuid.UUID `json:"id"`
}

// Reply - snapshot of one session
type Reply struct {
	Session negotiation.Session `json:"session"`
}

// Get - state, reason and transition log of a session
func (s *Session) Get(arguments *Arguments, reply *Reply) error {
	metrics.RPCRequests.WithLabelValues("Session.Get").Inc()

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	if nil == arguments || uuid.Nil == arguments.Id {
		return fault.MissingParameters
	}

	snapshot, err := s.sessions.Session(arguments.Id)
	if nil != err {
		return err
	}
	reply.Session = snapshot
	return nil
}

// ---

// ListArguments - empty arguments for list request
type ListArguments struct{}

// ListReply - all sessions, oldest first
type ListReply struct {
	Sessions []negotiation.Session `json:"sessions"`
}

// List - every session the node still holds
func (s *Session) List(_ *ListArguments, reply *ListReply) error {
	metrics.RPCRequests.WithLabelValues("Session.List").Inc()

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	reply.Sessions = s.sessions.Sessions()
	return nil
}

// ---

// CancelReply - empty reply for cancel request
type CancelReply struct{}

// Cancel - abandon a running initiator session
func (s *Session) Cancel(arguments *Arguments, _ *CancelReply) error {
	metrics.RPCRequests.WithLabelValues("Session.Cancel").Inc()

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	if nil == arguments || uuid.Nil == arguments.Id {
		return fault.MissingParameters
	}

	s.Log.Infof("cancel: %s", arguments.Id)
	return s.sessions.Cancel(arguments.Id)
}
