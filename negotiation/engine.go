// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/contract"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/messagebus"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/party"
)

// TransitionCommand - message bus command for session transitions
const TransitionCommand = "transition"

// Config - engine settings
type Config struct {
	Policy           contract.SignerPolicy
	SessionTimeout   time.Duration // lifetime of a session entry
	SignatureTimeout time.Duration // initiator wait for the counter signature
	CleanupInterval  time.Duration // how often expired sessions are swept
	AbandonTimeout   time.Duration // limit on best effort notifications
}

// DefaultConfig - settings used when none are configured
func DefaultConfig() Config {
	return Config{
		Policy:           contract.CoveringSigners,
		SessionTimeout:   10 * time.Minute,
		SignatureTimeout: 60 * time.Second,
		CleanupInterval:  30 * time.Second,
		AbandonTimeout:   5 * time.Second,
	}
}

// Engine - runs both sides of the protocol for one node
type Engine struct {
	log       *logger.L
	config    Config
	identity  Identity
	transport Transport
	notary    Notary
	vault     Vault
	decider   Decider
	sessions  *registry
	bus       *messagebus.BroadcastQueue

	ctx  context.Context
	stop context.CancelFunc

	// work that may still touch the notary or vault
	lock    sync.Mutex
	stopped bool
	running sync.WaitGroup
}

// New - create an engine; a nil decider accepts every valid proposal
func New(config Config, identity Identity, transport Transport, notary Notary, vault Vault, decider Decider) (*Engine, error) {
	if nil == identity || nil == transport || nil == notary || nil == vault {
		return nil, fault.MissingParameters
	}
	if config.SessionTimeout <= 0 || config.SignatureTimeout <= 0 || config.SignatureTimeout >= config.SessionTimeout {
		return nil, fault.InvalidValue
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = config.SessionTimeout / 2
	}
	if config.AbandonTimeout <= 0 {
		config.AbandonTimeout = config.SignatureTimeout
	}
	if nil == decider {
		decider = AcceptAll{}
	}

	ctx, stop := context.WithCancel(context.Background())
	e := &Engine{
		log:       logger.New("negotiation"),
		config:    config,
		identity:  identity,
		transport: transport,
		notary:    notary,
		vault:     vault,
		decider:   decider,
		bus:       messagebus.Bus.Transitions,
		ctx:       ctx,
		stop:      stop,
	}
	e.sessions = newRegistry(config.SessionTimeout, config.CleanupInterval, e.expired)
	return e, nil
}

// Me - this node's party
func (e *Engine) Me() *party.Party {
	return e.identity.Me()
}

// Config - the settings in use
func (e *Engine) Config() Config {
	return e.config
}

// Session - snapshot of a session
func (e *Engine) Session(id uuid.UUID) (Session, error) {
	s, ok := e.sessions.get(id)
	if !ok {
		return Session{}, fault.SessionNotFound
	}
	return s.snapshot(), nil
}

// Sessions - snapshots of all known sessions, oldest first
func (e *Engine) Sessions() []Session {
	all := e.sessions.all()
	result := make([]Session, 0, len(all))
	for _, s := range all {
		result = append(result, s.snapshot())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Created.Before(result[j].Created)
	})
	return result
}

// Wait - block until a session is terminal or ctx is done
func (e *Engine) Wait(ctx context.Context, id uuid.UUID) (Session, error) {
	s, ok := e.sessions.get(id)
	if !ok {
		return Session{}, fault.SessionNotFound
	}
	select {
	case <-s.done:
		return s.snapshot(), nil
	case <-ctx.Done():
		return s.snapshot(), ctx.Err()
	}
}

// Cancel - abandon a running initiator session
func (e *Engine) Cancel(id uuid.UUID) error {
	s, ok := e.sessions.get(id)
	if !ok {
		return fault.SessionNotFound
	}
	state, _ := s.current()
	if Initiator != s.role || state.IsTerminal() {
		return fault.WrongSessionState
	}
	e.log.Infof("session: %s  cancel requested", id)
	s.abort()
	return nil
}

// Shutdown - cancel every running session and wait for them to end
//
// afterwards new proposals and peer requests fail with
// fault.NotRunning, so storage can be closed safely
func (e *Engine) Shutdown() {
	e.lock.Lock()
	first := !e.stopped
	e.stopped = true
	e.lock.Unlock()

	e.stop()
	e.running.Wait()
	if first {
		e.log.Info("shutdown")
	}
}

// account for one unit of work; refused after Shutdown
func (e *Engine) begin() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.stopped {
		return fault.NotRunning
	}
	e.running.Add(1)
	return nil
}

func (e *Engine) end() {
	e.running.Done()
}

// a context ended by either parent or Shutdown
func (e *Engine) sessionContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-e.ctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// register a new session and log its first transition
func (e *Engine) newSession(id uuid.UUID, role Role, counterparty string, initial State) (*session, error) {
	s := newSession(id, role, counterparty)
	if err := e.sessions.add(s); nil != err {
		e.log.Warnf("session: %s  from: %s  error: %s", id, counterparty, err)
		return nil, err
	}
	metrics.SessionsStarted.WithLabelValues(role.String()).Inc()
	metrics.ActiveSessions.WithLabelValues(role.String()).Inc()
	e.advance(s, initial)
	return s, nil
}

// move a session forward; false if it had already finished
func (e *Engine) advance(s *session, to State) bool {
	return e.move(s, to, nil)
}

// end a session as Failed
func (e *Engine) fail(s *session, err error) {
	e.move(s, Failed, err)
}

// end an acceptor session as Rejected
func (e *Engine) reject(s *session, err error) {
	e.move(s, Rejected, err)
}

func (e *Engine) move(s *session, to State, err error) bool {
	t, ok := s.transition(to, err)
	if !ok {
		return false
	}

	if nil == err {
		e.log.Infof("session: %s  %s: %s -> %s", t.SessionId, t.Role, t.From, t.To)
	} else {
		e.log.Warnf("session: %s  %s: %s -> %s  reason: %s", t.SessionId, t.Role, t.From, t.To, t.Reason)
	}
	e.bus.Send(TransitionCommand, t)

	if to.IsTerminal() {
		role := s.role.String()
		metrics.ActiveSessions.WithLabelValues(role).Dec()
		switch to {
		case Committed:
			metrics.SessionsFinished.WithLabelValues(role, metrics.Committed).Inc()
		case Rejected:
			metrics.SessionsFinished.WithLabelValues(role, metrics.Rejected).Inc()
		default:
			metrics.SessionsFinished.WithLabelValues(role, metrics.Failed).Inc()
		}
		e.sessions.retain(s)
		s.finish()
	}
	return true
}

// registry expiry callback
func (e *Engine) expired(s *session) {
	state, _ := s.current()
	if state.IsTerminal() {
		return
	}
	s.abort()
	e.fail(s, fault.SessionExpired)
}
