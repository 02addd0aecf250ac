// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package iou - the record two parties agree on
//
// A State says that Sender owes Recipient Value units. Value is
// deliberately not checked here so that a bad draft still reaches the
// contract and is rejected with the proper reason.
package iou

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/party"
)

// State - an IOU output; once committed it is never modified
type State struct {
	Value     int64        `json:"value"`
	Sender    *party.Party `json:"sender"`
	Recipient *party.Party `json:"recipient"`
	LinearId  uuid.UUID    `json:"linearId"`
}

// New - draft an IOU with a fresh linear id
func New(value int64, sender *party.Party, recipient *party.Party) State {
	return State{
		Value:     value,
		Sender:    sender,
		Recipient: recipient,
		LinearId:  uuid.New(),
	}
}

// Participants - sender then recipient
func (s State) Participants() []*party.Party {
	return []*party.Party{s.Sender, s.Recipient}
}

// ParticipantKeys - keys of the participants in the same order
func (s State) ParticipantKeys() []*account.Account {
	return []*account.Account{s.Sender.Key(), s.Recipient.Key()}
}

// IsParticipant - true if the key belongs to sender or recipient
func (s State) IsParticipant(acc *account.Account) bool {
	for _, k := range s.ParticipantKeys() {
		if k.Equal(acc) {
			return true
		}
	}
	return false
}

// Equal - structural equality
func (s State) Equal(other State) bool {
	return s.Value == other.Value &&
		s.LinearId == other.LinearId &&
		s.Sender.Equal(other.Sender) &&
		s.Recipient.Equal(other.Recipient)
}

func (s State) String() string {
	return fmt.Sprintf("IOU(%s owes %s %d, %s)", s.Sender, s.Recipient, s.Value, s.LinearId)
}
