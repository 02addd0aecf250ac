// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/contract"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Propose - issue an IOU from this node to counterparty
//
// blocks until the session is Committed or Failed and returns the
// fully signed transaction or the reason for failure
func (e *Engine) Propose(ctx context.Context, value int64, counterparty string) (*transactionrecord.SignedTransaction, error) {
	if err := e.begin(); nil != err {
		return nil, err
	}
	defer e.end()

	s, err := e.newSession(uuid.New(), Initiator, counterparty, Building)
	if nil != err {
		return nil, err
	}
	ctx, cancel := e.sessionContext(ctx)
	defer cancel()
	s.setCancel(cancel)

	return e.initiate(ctx, s, value, counterparty)
}

// Start - as Propose but returns the session id at once; use Wait or
// Session to follow progress
func (e *Engine) Start(value int64, counterparty string) (uuid.UUID, error) {
	if err := e.begin(); nil != err {
		return uuid.Nil, err
	}

	s, err := e.newSession(uuid.New(), Initiator, counterparty, Building)
	if nil != err {
		e.end()
		return uuid.Nil, err
	}
	ctx, cancel := context.WithCancel(e.ctx)
	s.setCancel(cancel)

	go func() {
		defer e.end()
		defer cancel()
		_, _ = e.initiate(ctx, s, value, counterparty)
	}()
	return s.id, nil
}

// Building: draft the IOU with this node as sender
func (e *Engine) initiate(ctx context.Context, s *session, value int64, counterparty string) (*transactionrecord.SignedTransaction, error) {
	cp, err := e.identity.Resolve(counterparty)
	if nil != err {
		e.fail(s, err)
		return nil, err
	}

	state := iou.New(value, e.identity.Me(), cp)
	tx := transactionrecord.NewCreate(state)
	return e.negotiate(ctx, s, cp, tx)
}

// the initiator protocol from Validating onwards
func (e *Engine) negotiate(ctx context.Context, s *session, cp *party.Party, tx *transactionrecord.Transaction) (*transactionrecord.SignedTransaction, error) {
	txId, err := tx.Id()
	if nil != err {
		e.fail(s, err)
		return nil, err
	}
	s.setTransaction(txId, nil)

	// Validating
	if !e.advance(s, Validating) {
		return nil, e.finished(s)
	}
	if err := contract.Verify(tx, e.config.Policy); nil != err {
		e.fail(s, err)
		return nil, err
	}

	// SigningLocally
	if !e.advance(s, SigningLocally) {
		return nil, e.finished(s)
	}
	stx, err := endorsement.SignLocally(tx, localSigner{e.identity})
	if nil != err {
		e.fail(s, err)
		return nil, err
	}
	s.setTransaction(txId, stx)

	// AwaitingCounterSignature
	if !e.advance(s, AwaitingCounterSignature) {
		return nil, e.finished(s)
	}
	wctx, cancel := context.WithTimeout(ctx, e.config.SignatureTimeout)
	stx, err = endorsement.RequestRemoteSignature(wctx, e.transport, cp, s.id, stx)
	cancel()
	if nil != err {
		// the acceptor already ended its session when it rejected
		if !fault.IsErrValidation(err) {
			e.abandon(cp, s, err)
		}
		e.fail(s, err)
		return nil, e.finished(s)
	}
	s.setTransaction(txId, stx)

	// Finalizing
	if !e.advance(s, Finalizing) {
		e.abandon(cp, s, e.finished(s))
		return nil, e.finished(s)
	}
	if err := endorsement.VerifySignatures(stx); nil != err {
		e.abandon(cp, s, err)
		e.fail(s, err)
		return nil, err
	}
	if err := e.notary.Commit(ctx, stx); nil != err {
		if fault.IsErrConflict(err) {
			metrics.CommitConflicts.Inc()
		}
		e.abandon(cp, s, err)
		e.fail(s, err)
		return nil, err
	}

	// from here the transaction is final whatever else happens
	if err := e.vault.Record(stx); nil != err {
		e.log.Errorf("session: %s  txId: %s  vault error: %s", s.id, txId, err)
	}
	fctx, fcancel := context.WithTimeout(context.Background(), e.config.AbandonTimeout)
	if err := e.transport.Finalise(fctx, cp, s.id, stx); nil != err {
		e.log.Warnf("session: %s  finalise to: %s  error: %s", s.id, cp, err)
	}
	fcancel()

	e.move(s, Committed, nil)
	return stx, nil
}

// the error that ended a session, for sessions ended elsewhere
func (e *Engine) finished(s *session) error {
	snapshot := s.snapshot()
	if nil != snapshot.Err {
		return snapshot.Err
	}
	return fault.WrongSessionState
}

// best effort notice to the counterparty
func (e *Engine) abandon(cp *party.Party, s *session, reason error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.config.AbandonTimeout)
	defer cancel()
	if err := e.transport.Abandon(ctx, cp, s.id, reason.Error()); nil != err {
		e.log.Debugf("session: %s  abandon to: %s  error: %s", s.id, cp, err)
	}
}
