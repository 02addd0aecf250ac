// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Transition - one entry in a session's log
type Transition struct {
	SessionId uuid.UUID `json:"sessionId"`
	Role      Role      `json:"role"`
	From      State     `json:"from"`
	To        State     `json:"to"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session - a snapshot of one negotiation
type Session struct {
	Id           uuid.UUID                            `json:"id"`
	Role         Role                                 `json:"role"`
	Counterparty string                               `json:"counterparty"`
	State        State                                `json:"state"`
	Reason       string                               `json:"reason,omitempty"`
	TxId         digest.Digest                        `json:"txId"`
	Transaction  *transactionrecord.SignedTransaction `json:"transaction,omitempty"`
	Transitions  []Transition                         `json:"transitions"`
	Created      time.Time                            `json:"created"`
	Err          error                                `json:"-"`
}

// live session data, guarded by its mutex
type session struct {
	sync.Mutex
	id           uuid.UUID
	role         Role
	counterparty string
	state        State
	err          error
	txId         digest.Digest
	stx          *transactionrecord.SignedTransaction
	transitions  []Transition
	created      time.Time
	cancel       context.CancelFunc
	done         chan struct{}
}

func newSession(id uuid.UUID, role Role, counterparty string) *session {
	return &session{
		id:           id,
		role:         role,
		counterparty: counterparty,
		state:        None,
		created:      time.Now().UTC(),
		cancel:       func() {},
		done:         make(chan struct{}),
	}
}

// move to a new state; refused once terminal
//
// err is recorded as the reason when moving to Failed or Rejected
func (s *session) transition(to State, err error) (Transition, bool) {
	s.Lock()
	defer s.Unlock()

	if s.state.IsTerminal() {
		return Transition{}, false
	}

	t := Transition{
		SessionId: s.id,
		Role:      s.role,
		From:      s.state,
		To:        to,
		Timestamp: time.Now().UTC(),
	}
	if nil != err {
		t.Reason = err.Error()
		s.err = err
	}
	s.state = to
	s.transitions = append(s.transitions, t)
	return t, true
}

// release waiters; only after a terminal transition
func (s *session) finish() {
	close(s.done)
}

func (s *session) setTransaction(txId digest.Digest, stx *transactionrecord.SignedTransaction) {
	s.Lock()
	s.txId = txId
	s.stx = stx
	s.Unlock()
}

func (s *session) current() (State, digest.Digest) {
	s.Lock()
	defer s.Unlock()
	return s.state, s.txId
}

func (s *session) snapshot() Session {
	s.Lock()
	defer s.Unlock()

	transitions := make([]Transition, len(s.transitions))
	copy(transitions, s.transitions)

	reason := ""
	if nil != s.err {
		reason = s.err.Error()
	}
	return Session{
		Id:           s.id,
		Role:         s.role,
		Counterparty: s.counterparty,
		State:        s.state,
		Reason:       reason,
		TxId:         s.txId,
		Transaction:  s.stx,
		Transitions:  transitions,
		Created:      s.created,
		Err:          s.err,
	}
}

func (s *session) setCancel(cancel context.CancelFunc) {
	s.Lock()
	s.cancel = cancel
	s.Unlock()
}

// cancel the initiator's context, if any
func (s *session) abort() {
	s.Lock()
	cancel := s.cancel
	s.Unlock()
	cancel()
}
