// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contract - the rules every IOU transaction must satisfy
//
// Verify is a pure function of the transaction: it never consults the
// network, the vault or the clock, so the initiator, the acceptor and
// the notary always reach the same verdict.
package contract

import (
	"strings"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// SignerPolicy - how the command signers are compared with the participants
type SignerPolicy int

// signer policies
const (
	// CoveringSigners - every participant must sign; extra signers are allowed
	CoveringSigners SignerPolicy = iota
	// ExactSigners - the signer set must equal the participant set
	ExactSigners
)

// PolicyFromString - parse the configuration value
func PolicyFromString(s string) (SignerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "covering":
		return CoveringSigners, nil
	case "exact":
		return ExactSigners, nil
	default:
		return CoveringSigners, fault.InvalidSignerPolicy
	}
}

func (p SignerPolicy) String() string {
	switch p {
	case CoveringSigners:
		return "covering"
	case ExactSigners:
		return "exact"
	default:
		return "invalid"
	}
}

// Verify - check an IOU issuance
//
// the rules are applied in a fixed order and the first failure is
// returned as a fault.ValidationError
func Verify(tx *transactionrecord.Transaction, policy SignerPolicy) error {
	if nil == tx {
		return fault.MissingParameters
	}

	if 0 != len(tx.Inputs) {
		return fault.NoInputsAllowed
	}

	if 1 != len(tx.Outputs) {
		return fault.SingleOutputRequired
	}
	out := tx.Outputs[0]
	if nil == out.Sender || nil == out.Recipient {
		return fault.MissingParameters
	}

	if out.Sender.Equal(out.Recipient) {
		return fault.SenderIsRecipient
	}

	if out.Value <= 0 {
		return fault.NonPositiveValue
	}

	if nil == tx.Command || transactionrecord.CreateCommand != tx.Command.Type {
		return fault.CreateCommandRequired
	}

	participants := out.ParticipantKeys()
	signers := tx.Command.Signers
	if !covers(signers, participants) {
		return fault.ParticipantsMustSign
	}
	if ExactSigners == policy && !covers(participants, signers) {
		return fault.SignersMustMatchExactly
	}

	return nil
}

// true if every key in required appears in available
func covers(available []*account.Account, required []*account.Account) bool {
	present := make(map[string]struct{}, len(available))
	for _, k := range available {
		if nil != k {
			present[string(k.PublicKey)] = struct{}{}
		}
	}
	for _, k := range required {
		if nil == k {
			return false
		}
		if _, ok := present[string(k.PublicKey)]; !ok {
			return false
		}
	}
	return true
}
