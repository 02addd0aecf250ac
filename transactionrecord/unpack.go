// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/util"
)

// cursor over a packed record
//
// every read checks the remaining length so a hostile record
// produces TruncatedRecord rather than a slice panic
type unpacker struct {
	record Packed
	n      int
}

func (u *unpacker) uint64() (uint64, error) {
	value, count := util.FromVarint64(u.record[u.n:])
	if 0 == count {
		return 0, fault.TruncatedRecord
	}
	u.n += count
	return value, nil
}

func (u *unpacker) int64() (int64, error) {
	value, count := util.FromVarint64Signed(u.record[u.n:])
	if 0 == count {
		return 0, fault.TruncatedRecord
	}
	u.n += count
	return value, nil
}

func (u *unpacker) count(maximum int) (int, error) {
	value, err := u.uint64()
	if nil != err {
		return 0, err
	}
	if value > uint64(maximum) {
		return 0, fault.InvalidCount
	}
	return int(value), nil
}

func (u *unpacker) bytes(maximum int) ([]byte, error) {
	length, err := u.count(maximum)
	if nil != err {
		return nil, err
	}
	if length > len(u.record)-u.n {
		return nil, fault.TruncatedRecord
	}
	b := make([]byte, length)
	copy(b, u.record[u.n:u.n+length])
	u.n += length
	return b, nil
}

func (u *unpacker) account() (*account.Account, error) {
	b, err := u.bytes(maxAccountLength)
	if nil != err {
		return nil, err
	}
	return account.FromBytes(b)
}

func (u *unpacker) party() (*party.Party, error) {
	name, err := u.bytes(maxNameLength)
	if nil != err {
		return nil, err
	}
	acc, err := u.account()
	if nil != err {
		return nil, err
	}
	return party.New(string(name), acc)
}

func (u *unpacker) state() (iou.State, error) {
	tag, err := u.uint64()
	if nil != err {
		return iou.State{}, err
	}
	if IOUStateTag != TagType(tag) {
		return iou.State{}, fault.InvalidValue
	}
	value, err := u.int64()
	if nil != err {
		return iou.State{}, err
	}
	sender, err := u.party()
	if nil != err {
		return iou.State{}, err
	}
	recipient, err := u.party()
	if nil != err {
		return iou.State{}, err
	}
	id, err := u.bytes(16)
	if nil != err {
		return iou.State{}, err
	}
	linearId, err := uuid.FromBytes(id)
	if nil != err {
		return iou.State{}, fault.InvalidValue
	}
	return iou.State{
		Value:     value,
		Sender:    sender,
		Recipient: recipient,
		LinearId:  linearId,
	}, nil
}

func (u *unpacker) transaction() (*Transaction, error) {
	tag, err := u.uint64()
	if nil != err {
		return nil, err
	}
	if TransactionTag != TagType(tag) {
		return nil, fault.InvalidValue
	}

	tx := &Transaction{}

	inputCount, err := u.count(maxInputs)
	if nil != err {
		return nil, err
	}
	for i := 0; i < inputCount; i += 1 {
		b, err := u.bytes(digest.Length)
		if nil != err {
			return nil, err
		}
		var d digest.Digest
		if err := digest.FromBytes(&d, b); nil != err {
			return nil, err
		}
		tx.Inputs = append(tx.Inputs, d)
	}

	outputCount, err := u.count(maxOutputs)
	if nil != err {
		return nil, err
	}
	for i := 0; i < outputCount; i += 1 {
		state, err := u.state()
		if nil != err {
			return nil, err
		}
		tx.Outputs = append(tx.Outputs, state)
	}

	commandType, err := u.uint64()
	if nil != err {
		return nil, err
	}
	switch CommandType(commandType) {
	case NoCommand:
		return tx, nil
	case CreateCommand:
	default:
		return nil, fault.InvalidCommandType
	}

	signerCount, err := u.count(maxSigners)
	if nil != err {
		return nil, err
	}
	command := &Command{
		Type:    CreateCommand,
		Signers: make([]*account.Account, 0, signerCount),
	}
	for i := 0; i < signerCount; i += 1 {
		signer, err := u.account()
		if nil != err {
			return nil, err
		}
		command.Signers = append(command.Signers, signer)
	}
	tx.Command = command
	return tx, nil
}

// Unpack - decode a packed transaction; the whole record must be consumed
func (record Packed) Unpack() (*Transaction, error) {
	u := &unpacker{record: record}
	tx, err := u.transaction()
	if nil != err {
		return nil, err
	}
	if u.n != len(record) {
		return nil, fault.TrailingData
	}
	return tx, nil
}

// UnpackSigned - decode a packed signed transaction
func (record Packed) UnpackSigned() (*SignedTransaction, error) {
	if len(record) > maxPackedLength {
		return nil, fault.InvalidCount
	}
	u := &unpacker{record: record}

	tag, err := u.uint64()
	if nil != err {
		return nil, err
	}
	if SignedTransactionTag != TagType(tag) {
		return nil, fault.InvalidValue
	}

	packedTx, err := u.bytes(maxPackedLength)
	if nil != err {
		return nil, err
	}
	tx, err := Packed(packedTx).Unpack()
	if nil != err {
		return nil, err
	}

	endorsementCount, err := u.count(maxEndorsements)
	if nil != err {
		return nil, err
	}
	stx := NewSigned(tx)
	previous := ""
	for i := 0; i < endorsementCount; i += 1 {
		key, err := u.bytes(maxNameLength)
		if nil != err {
			return nil, err
		}
		signature, err := u.bytes(maxSignatureLength)
		if nil != err {
			return nil, err
		}
		k := string(key)
		if i > 0 && k <= previous {
			return nil, fault.InvalidValue
		}
		if _, err := account.FromBase58(k); nil != err {
			return nil, err
		}
		stx.Endorsements[k] = signature
		previous = k
	}

	if u.n != len(record) {
		return nil, fault.TrailingData
	}
	return stx, nil
}
