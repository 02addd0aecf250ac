// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/digest"
)

// SignedTransaction - a transaction plus the endorsements gathered so far
//
// endorsements are keyed by the base58 form of the signing key; values
// are never modified in place, adding a signature returns a new value
type SignedTransaction struct {
	Tx           *Transaction                 `json:"tx"`
	Endorsements map[string]account.Signature `json:"endorsements"`
}

// NewSigned - wrap a transaction with no endorsements
func NewSigned(tx *Transaction) *SignedTransaction {
	return &SignedTransaction{
		Tx:           tx,
		Endorsements: make(map[string]account.Signature),
	}
}

// Id - id of the underlying transaction
func (stx *SignedTransaction) Id() (digest.Digest, error) {
	return stx.Tx.Id()
}

// WithEndorsement - copy with one more signature
func (stx *SignedTransaction) WithEndorsement(signer *account.Account, signature account.Signature) *SignedTransaction {
	result := NewSigned(stx.Tx)
	for k, v := range stx.Endorsements {
		result.Endorsements[k] = v
	}
	result.Endorsements[signer.String()] = signature
	return result
}

// Endorsement - the signature recorded for a key, if any
func (stx *SignedTransaction) Endorsement(signer *account.Account) (account.Signature, bool) {
	signature, ok := stx.Endorsements[signer.String()]
	return signature, ok
}
