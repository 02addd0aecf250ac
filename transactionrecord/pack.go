// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"sort"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/util"
)

// Pack - canonical encoding of a transaction
//
// Varint64(tag) then inputs, outputs and command, each list preceded
// by its Varint64 count; the same transaction always produces the
// same bytes
func (tx *Transaction) Pack() (Packed, error) {
	message := util.ToVarint64(uint64(TransactionTag))

	message = appendUint64(message, uint64(len(tx.Inputs)))
	for _, input := range tx.Inputs {
		message = appendBytes(message, input[:])
	}

	message = appendUint64(message, uint64(len(tx.Outputs)))
	for _, output := range tx.Outputs {
		var err error
		message, err = appendState(message, output)
		if nil != err {
			return nil, err
		}
	}

	if nil == tx.Command {
		return appendUint64(message, uint64(NoCommand)), nil
	}
	if NoCommand == tx.Command.Type || tx.Command.Type >= InvalidCommand {
		return nil, fault.InvalidCommandType
	}
	message = appendUint64(message, uint64(tx.Command.Type))
	message = appendUint64(message, uint64(len(tx.Command.Signers)))
	for _, signer := range tx.Command.Signers {
		if nil == signer {
			return nil, fault.InvalidKeyLength
		}
		message = appendAccount(message, signer)
	}
	return message, nil
}

// Pack - transaction followed by endorsements sorted by signer
func (stx *SignedTransaction) Pack() (Packed, error) {
	if nil == stx.Tx {
		return nil, fault.MissingParameters
	}
	packedTx, err := stx.Tx.Pack()
	if nil != err {
		return nil, err
	}

	message := util.ToVarint64(uint64(SignedTransactionTag))
	message = appendBytes(message, packedTx)

	keys := make([]string, 0, len(stx.Endorsements))
	for k := range stx.Endorsements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	message = appendUint64(message, uint64(len(keys)))
	for _, k := range keys {
		signature := stx.Endorsements[k]
		if len(signature) > maxSignatureLength {
			return nil, fault.SignatureTooLong
		}
		message = appendString(message, k)
		message = appendBytes(message, signature)
	}
	return message, nil
}

// append one IOU state
func appendState(buffer Packed, state iou.State) (Packed, error) {
	if nil == state.Sender || nil == state.Recipient {
		return nil, fault.MissingParameters
	}
	buffer = appendUint64(buffer, uint64(IOUStateTag))
	buffer = append(buffer, util.ToVarint64Signed(state.Value)...)
	buffer = appendParty(buffer, state.Sender)
	buffer = appendParty(buffer, state.Recipient)
	return appendBytes(buffer, state.LinearId[:]), nil
}

// append a party as its name then its key
func appendParty(buffer Packed, p *party.Party) Packed {
	buffer = appendString(buffer, p.Name)
	return appendAccount(buffer, p.Account)
}

// append a single string to a buffer
//
// the field is prefixed by Varint64(length)
func appendString(buffer Packed, s string) Packed {
	buffer = append(buffer, util.ToVarint64(uint64(len(s)))...)
	return append(buffer, s...)
}

// append an account to a buffer
//
// the field is prefixed by Varint64(length)
func appendAccount(buffer Packed, acc *account.Account) Packed {
	return appendBytes(buffer, acc.Bytes())
}

// append a bytes to a buffer
//
// the field is prefixed by Varint64(length)
func appendBytes(buffer Packed, data []byte) Packed {
	buffer = append(buffer, util.ToVarint64(uint64(len(data)))...)
	return append(buffer, data...)
}

// append a Varint64 to buffer
func appendUint64(buffer Packed, value uint64) Packed {
	return append(buffer, util.ToVarint64(value)...)
}
