// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/contract"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// HandleProposal - acceptor side of a new session
//
// returns this node's signature, or the reason the proposal was
// refused; the proposal is re-validated here whatever the initiator
// claims to have checked
func (e *Engine) HandleProposal(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error) {
	if err := e.begin(); nil != err {
		return nil, err
	}
	defer e.end()

	s, err := e.newSession(sessionId, Acceptor, from, AwaitingProposal)
	if nil != err {
		return nil, err
	}
	ctx, cancel := e.sessionContext(ctx)
	defer cancel()

	// Validating
	e.advance(s, Validating)
	if nil == stx || nil == stx.Tx {
		e.reject(s, fault.MissingParameters)
		return nil, fault.MissingParameters
	}
	txId, err := stx.Id()
	if nil != err {
		e.reject(s, err)
		return nil, err
	}
	s.setTransaction(txId, stx)

	if err := e.validateProposal(from, stx); nil != err {
		e.reject(s, err)
		return nil, err
	}

	// Deciding
	if !e.advance(s, Deciding) {
		return nil, e.finished(s)
	}
	proposer, _ := e.identity.Resolve(from)
	if err := e.decider.Decide(ctx, proposer, stx.Tx); nil != err {
		e.reject(s, err)
		return nil, err
	}

	// SigningLocally: stay here until finalised, abandoned or expired
	if !e.advance(s, SigningLocally) {
		return nil, e.finished(s)
	}
	signer := localSigner{e.identity}
	signature, err := endorsement.Signature(stx.Tx, signer)
	if nil != err {
		e.fail(s, err)
		return nil, err
	}
	s.setTransaction(txId, stx.WithEndorsement(signer.Account(), signature))
	return signature, nil
}

// the acceptor's checks, in order
func (e *Engine) validateProposal(from string, stx *transactionrecord.SignedTransaction) error {
	if err := contract.Verify(stx.Tx, e.config.Policy); nil != err {
		return err
	}

	proposer, err := e.identity.Resolve(from)
	if nil != err {
		return err
	}

	out := stx.Tx.Outputs[0]
	me := e.identity.Me()
	if !out.IsParticipant(me.Key()) {
		return fault.NotAParticipant
	}
	if !out.IsParticipant(proposer.Key()) || proposer.Key().Equal(me.Key()) {
		return fault.ProposerNotParticipant
	}
	if !stx.Tx.RequiresSigner(me.Key()) {
		return fault.NotARequiredSigner
	}

	// the proposer must already have signed, and every signature present must hold
	if _, ok := stx.Endorsement(proposer.Key()); !ok {
		return fault.NewSignatureError(proposer.Name, fault.MissingSignature)
	}
	return endorsement.VerifyPresent(stx)
}

// HandleFinalise - the initiator committed; record and finish
func (e *Engine) HandleFinalise(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error {
	if err := e.begin(); nil != err {
		return err
	}
	defer e.end()

	s, err := e.acceptorSession(from, sessionId)
	if nil != err {
		return err
	}

	state, txId := s.current()
	if SigningLocally != state {
		return fault.WrongSessionState
	}
	if nil == stx || nil == stx.Tx {
		return fault.MissingParameters
	}
	id, err := stx.Id()
	if nil != err {
		return err
	}
	if id != txId {
		return fault.DigestMismatch
	}
	if err := endorsement.VerifySignatures(stx); nil != err {
		e.fail(s, err)
		return err
	}
	if err := e.vault.Record(stx); nil != err {
		e.fail(s, err)
		return err
	}

	s.setTransaction(txId, stx)
	e.move(s, Committed, nil)
	return nil
}

// HandleAbandon - the initiator gave up
func (e *Engine) HandleAbandon(ctx context.Context, from string, sessionId uuid.UUID, reason string) error {
	if err := e.begin(); nil != err {
		return err
	}
	defer e.end()

	s, err := e.acceptorSession(from, sessionId)
	if nil != err {
		return err
	}
	e.fail(s, fmt.Errorf("%w: %s", fault.SessionAbandoned, reason))
	return nil
}

// an acceptor session belonging to from
func (e *Engine) acceptorSession(from string, sessionId uuid.UUID) (*session, error) {
	s, ok := e.sessions.get(sessionId)
	if !ok {
		return nil, fault.SessionNotFound
	}
	if Acceptor != s.role || from != s.counterparty {
		return nil, fault.WrongSessionCounterparty
	}
	return s, nil
}
