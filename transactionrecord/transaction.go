// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/hex"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/util"
)

// TagType - type code for packed records
type TagType uint64

// enumerate the possible record types
// this is encoded a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = TagType(iota)

	// valid record types
	TransactionTag       = TagType(iota) // proposed IOU transaction
	SignedTransactionTag = TagType(iota) // transaction plus endorsements
	IOUStateTag          = TagType(iota) // one output state

	// this item must be last
	InvalidTag = TagType(iota)
)

// CommandType - the intent of a transaction
type CommandType uint64

// enumerate the commands
const (
	NoCommand     = CommandType(iota)
	CreateCommand = CommandType(iota)

	// this item must be last
	InvalidCommand = CommandType(iota)
)

// limits applied while unpacking
const (
	maxInputs          = 64
	maxOutputs         = 64
	maxSigners         = 64
	maxEndorsements    = 64
	maxNameLength      = 1024
	maxAccountLength   = 64
	maxSignatureLength = 1024
	maxPackedLength    = 65536
)

// Packed - packed records are just a byte slice
type Packed []byte

// Command - what the transaction does and whose keys must sign it
type Command struct {
	Type    CommandType        `json:"type"`
	Signers []*account.Account `json:"signers"`
}

// Transaction - an unsigned proposal; its id is the SHA3-256 of its
// packed form and is what every endorsement signs
type Transaction struct {
	Inputs  []digest.Digest `json:"inputs"`
	Outputs []iou.State     `json:"outputs"`
	Command *Command        `json:"command"`
}

// NewCreate - a transaction issuing a single IOU signed by both participants
func NewCreate(state iou.State) *Transaction {
	return &Transaction{
		Inputs:  nil,
		Outputs: []iou.State{state},
		Command: &Command{
			Type:    CreateCommand,
			Signers: state.ParticipantKeys(),
		},
	}
}

// Id - digest of the canonical packed form
func (tx *Transaction) Id() (digest.Digest, error) {
	packed, err := tx.Pack()
	if nil != err {
		return digest.Digest{}, err
	}
	return packed.MakeLink(), nil
}

// RequiresSigner - true if acc is listed in the command signers
func (tx *Transaction) RequiresSigner(acc *account.Account) bool {
	if nil == tx.Command {
		return false
	}
	for _, signer := range tx.Command.Signers {
		if signer.Equal(acc) {
			return true
		}
	}
	return false
}

// Type - returns the record type code
func (record Packed) Type() TagType {
	recordType, n := util.FromVarint64(record)
	if 0 == n {
		return NullTag
	}
	return TagType(recordType)
}

// MakeLink - digest of the packed bytes
func (record Packed) MakeLink() digest.Digest {
	return digest.New(record)
}

// MarshalText - convert a packed to its hex JSON form
func (record Packed) MarshalText() ([]byte, error) {
	b := make([]byte, hex.EncodedLen(len(record)))
	hex.Encode(b, record)
	return b, nil
}

// UnmarshalText - convert a packed from its hex JSON form
func (record *Packed) UnmarshalText(s []byte) error {
	*record = make([]byte, hex.DecodedLen(len(s)))
	_, err := hex.Decode(*record, s)
	return err
}

func (c CommandType) String() string {
	switch c {
	case NoCommand:
		return "None"
	case CreateCommand:
		return "Create"
	default:
		return "Invalid"
	}
}
