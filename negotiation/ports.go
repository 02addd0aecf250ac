// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"context"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Identity - this node's party and key, plus name resolution
type Identity interface {
	Me() *party.Party
	Resolve(name string) (*party.Party, error)
	Sign(message []byte) (account.Signature, error)
}

// Transport - messages from an initiator to its counterparty
//
// Propose blocks until the counterparty signs or rejects; a rejection
// must be returned as the counterparty's fault.ValidationError so the
// reason reaches the caller unchanged
type Transport interface {
	endorsement.Requester
	Finalise(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error
	Abandon(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, reason string) error
}

// Responder - the acceptor side, driven by a transport
type Responder interface {
	HandleProposal(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error)
	HandleFinalise(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error
	HandleAbandon(ctx context.Context, from string, sessionId uuid.UUID, reason string) error
}

// Notary - makes a fully signed transaction final
type Notary interface {
	Commit(ctx context.Context, stx *transactionrecord.SignedTransaction) error
}

// Vault - this node's record of finalised transactions
type Vault interface {
	Record(stx *transactionrecord.SignedTransaction) error
}

// Decider - acceptor hook for checks beyond the contract, e.g. credit limits
//
// a non-nil error rejects the proposal with that error as the reason
type Decider interface {
	Decide(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error
}

// DeciderFunc - adapt a function to a Decider
type DeciderFunc func(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error

// Decide - call f
func (f DeciderFunc) Decide(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error {
	return f(ctx, proposer, tx)
}

// AcceptAll - the default decider
type AcceptAll struct{}

// Decide - always accept
func (AcceptAll) Decide(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error {
	return nil
}

// present the identity as an endorsement signer
type localSigner struct {
	Identity
}

func (s localSigner) Account() *account.Account {
	return s.Me().Key()
}
