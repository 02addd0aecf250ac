// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package endorsement - gather and check the signatures a transaction needs
//
// A signature is always over the transaction id, the SHA3-256 of the
// canonical packed transaction. Signed transactions are values: every
// operation here returns a new one rather than changing its argument.
package endorsement

import (
	"context"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// Signer - the local signing key
type Signer interface {
	Account() *account.Account
	Sign(message []byte) (account.Signature, error)
}

// Requester - asks a counterparty for its signature
type Requester interface {
	Propose(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error)
}

// SignLocally - start a signed transaction with this node's signature
func SignLocally(tx *transactionrecord.Transaction, signer Signer) (*transactionrecord.SignedTransaction, error) {
	return Endorse(transactionrecord.NewSigned(tx), signer)
}

// Endorse - add this node's signature
//
// fails with fault.NotARequiredSigner when the key is not listed in the
// command, so a node never signs a transaction that does not need it
func Endorse(stx *transactionrecord.SignedTransaction, signer Signer) (*transactionrecord.SignedTransaction, error) {
	signature, err := Signature(stx.Tx, signer)
	if nil != err {
		return nil, err
	}
	return stx.WithEndorsement(signer.Account(), signature), nil
}

// Signature - this node's signature over the transaction id
func Signature(tx *transactionrecord.Transaction, signer Signer) (account.Signature, error) {
	if !tx.RequiresSigner(signer.Account()) {
		return nil, fault.NotARequiredSigner
	}
	id, err := tx.Id()
	if nil != err {
		return nil, err
	}
	return signer.Sign(id[:])
}

// RequestRemoteSignature - obtain and check the counterparty's signature
//
// blocks until the counterparty replies or ctx is done; a rejection
// from the counterparty is returned unchanged
func RequestRemoteSignature(ctx context.Context, transport Requester, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (*transactionrecord.SignedTransaction, error) {
	id, err := stx.Id()
	if nil != err {
		return nil, err
	}

	signature, err := transport.Propose(ctx, counterparty, sessionId, stx)
	if nil != err {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			return nil, fault.Timeout
		case context.Canceled:
			return nil, context.Canceled
		}
		return nil, err
	}

	if len(signature) == 0 {
		return nil, fault.NewSignatureError(counterparty.Name, fault.MissingSignature)
	}
	if err := counterparty.Key().CheckSignature(id[:], signature); nil != err {
		return nil, fault.NewSignatureError(counterparty.Name, err)
	}

	return stx.WithEndorsement(counterparty.Key(), signature), nil
}

// VerifySignatures - every command signer has a valid signature
//
// the first missing or invalid signature is reported, tagged with the
// party it belongs to; a command naming no signers is never fully signed
func VerifySignatures(stx *transactionrecord.SignedTransaction) error {
	if nil == stx || nil == stx.Tx || nil == stx.Tx.Command || 0 == len(stx.Tx.Command.Signers) {
		return fault.NotFullySigned
	}
	id, err := stx.Id()
	if nil != err {
		return err
	}
	for _, signer := range stx.Tx.Command.Signers {
		signature, ok := stx.Endorsement(signer)
		if !ok {
			return fault.NewSignatureError(nameOf(stx.Tx, signer), fault.MissingSignature)
		}
		if err := signer.CheckSignature(id[:], signature); nil != err {
			return fault.NewSignatureError(nameOf(stx.Tx, signer), err)
		}
	}
	return nil
}

// VerifyPresent - every signature already attached is valid and from a
// required signer; used by an acceptor before adding its own
func VerifyPresent(stx *transactionrecord.SignedTransaction) error {
	id, err := stx.Id()
	if nil != err {
		return err
	}
	for k, signature := range stx.Endorsements {
		signer, err := account.FromBase58(k)
		if nil != err {
			return fault.NewSignatureError(k, err)
		}
		if !stx.Tx.RequiresSigner(signer) {
			return fault.NewSignatureError(nameOf(stx.Tx, signer), fault.NotARequiredSigner)
		}
		if err := signer.CheckSignature(id[:], signature); nil != err {
			return fault.NewSignatureError(nameOf(stx.Tx, signer), err)
		}
	}
	return nil
}

// IsFullySigned - true when VerifySignatures succeeds
func IsFullySigned(stx *transactionrecord.SignedTransaction) bool {
	return nil == VerifySignatures(stx)
}

// best name for a key: a participant's legal name or the key itself
func nameOf(tx *transactionrecord.Transaction, acc *account.Account) string {
	for _, out := range tx.Outputs {
		for _, p := range out.Participants() {
			if nil != p && p.Key().Equal(acc) {
				return p.Name
			}
		}
	}
	return acc.String()
}
