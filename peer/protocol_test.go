// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/fixtures"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

func signedProposal(t *testing.T) *transactionrecord.SignedTransaction {
	a := fixtures.NewIdentity("PartyA")
	b := fixtures.NewIdentity("PartyB")
	stx, err := endorsement.SignLocally(transactionrecord.NewCreate(iou.New(10, a.Party, b.Party)), a)
	require.Nil(t, err, "sign error")
	return stx
}

func TestRequestRoundTrip(t *testing.T) {
	stx := signedProposal(t)
	id, _ := stx.Id()

	requests := []*Request{
		{Command: ProposeCommand, SessionId: uuid.New(), From: "PartyA", Transaction: stx},
		{Command: FinaliseCommand, SessionId: uuid.New(), From: "PartyA", Transaction: stx},
		{Command: AbandonCommand, SessionId: uuid.New(), From: "PartyA", Reason: "context canceled"},
	}

	for i, r := range requests {
		frames, err := EncodeRequest(r)
		require.Nil(t, err, "%d: encode error", i)
		assert.Equal(t, 4, len(frames), "%d: frame count", i)
		assert.Equal(t, r.Command, string(frames[0]), "%d: command frame", i)

		decoded, err := DecodeRequest(frames)
		require.Nil(t, err, "%d: decode error", i)
		assert.Equal(t, r.Command, decoded.Command, "%d: command", i)
		assert.Equal(t, r.SessionId, decoded.SessionId, "%d: session id", i)
		assert.Equal(t, r.From, decoded.From, "%d: from", i)
		assert.Equal(t, r.Reason, decoded.Reason, "%d: reason", i)

		if nil != r.Transaction {
			decodedId, err := decoded.Transaction.Id()
			assert.Nil(t, err, "%d: id error", i)
			assert.Equal(t, id, decodedId, "%d: transaction id", i)
			assert.Equal(t, r.Transaction.Endorsements, decoded.Transaction.Endorsements, "%d: endorsements", i)
		}
	}
}

func TestRequestErrors(t *testing.T) {
	_, err := EncodeRequest(&Request{Command: ProposeCommand, SessionId: uuid.New(), From: "PartyA"})
	assert.Equal(t, fault.MissingParameters, err, "propose without transaction")

	_, err = EncodeRequest(&Request{Command: "X", SessionId: uuid.New(), From: "PartyA"})
	assert.Equal(t, fault.InvalidValue, err, "unknown command")

	sessionId, _ := uuid.New().MarshalBinary()
	items := []struct {
		frames [][]byte
		err    error
	}{
		{[][]byte{[]byte("A"), sessionId, []byte("PartyA")}, fault.MissingParameters},
		{[][]byte{[]byte("A"), []byte("short"), []byte("PartyA"), []byte("r")}, fault.InvalidValue},
		{[][]byte{[]byte("A"), sessionId, []byte(""), []byte("r")}, fault.InvalidPartyName},
		{[][]byte{[]byte("X"), sessionId, []byte("PartyA"), []byte("r")}, fault.InvalidValue},
		{[][]byte{[]byte("P"), sessionId, []byte("PartyA"), []byte{}}, fault.TruncatedRecord},
	}
	for i, item := range items {
		_, err := DecodeRequest(item.frames)
		assert.True(t, errors.Is(err, item.err), "%d: error: %v  expected: %v", i, err, item.err)
	}
}

// errors keep their identity across the wire
func TestReplyErrors(t *testing.T) {
	custom := fault.ValidationError("credit limit exceeded")

	items := []struct {
		err   error
		check func(error) bool
	}{
		{fault.SenderIsRecipient, func(e error) bool { return fault.SenderIsRecipient == e }},
		{fault.NonPositiveValue, func(e error) bool { return fault.NonPositiveValue == e }},
		{custom, func(e error) bool { return custom == e }},
		{fault.CommitConflict, func(e error) bool { return fault.CommitConflict == e }},
		{fault.SessionExists, func(e error) bool { return fault.SessionExists == e }},
		{fault.WrongSessionState, func(e error) bool { return fault.WrongSessionState == e }},
		{fault.NewSignatureError("PartyA", fault.MissingSignature), func(e error) bool {
			var se *fault.SignatureError
			return errors.As(e, &se) && "PartyA" == se.Party && errors.Is(e, fault.MissingSignature)
		}},
		{fmt.Errorf("%w: %s", fault.SessionAbandoned, "gone"), func(e error) bool {
			return fault.IsErrProcess(e) && "session abandoned: gone" == e.Error()
		}},
	}

	for i, item := range items {
		frames := errorReplyFrames(item.err)
		assert.Equal(t, errorReply, string(frames[0]), "%d: reply code", i)
		signature, err := DecodeReply(frames)
		assert.Nil(t, signature, "%d: signature", i)
		assert.True(t, item.check(err), "%d: decoded: %#v  from: %v", i, err, item.err)
	}
}

func TestReplySignature(t *testing.T) {
	signature := account.Signature{1, 2, 3}
	decoded, err := DecodeReply(signatureReplyFrames(signature))
	assert.Nil(t, err, "decode error")
	assert.Equal(t, signature, decoded, "signature")

	decoded, err = DecodeReply(okReplyFrames())
	assert.Nil(t, err, "ok error")
	assert.Nil(t, decoded, "ok carries a signature")

	bad := [][][]byte{
		{},
		{[]byte("S")},
		{[]byte("K"), []byte("extra")},
		{[]byte("E"), []byte("validation")},
		{[]byte("E"), []byte("signature"), []byte("missing signature")},
		{[]byte("E"), []byte("other"), []byte("text")},
		{[]byte("Q")},
	}
	for i, frames := range bad {
		_, err := DecodeReply(frames)
		assert.Equal(t, fault.InvalidPeerResponse, err, "%d: wrong error", i)
	}
}

func TestCanonicalAddress(t *testing.T) {
	items := []struct {
		in      string
		address string
		v6      bool
		err     error
	}{
		{"127.0.0.1:2136", "tcp://127.0.0.1:2136", false, nil},
		{"[::1]:2136", "tcp://[::1]:2136", true, nil},
		{"*:2136", "tcp://*:2136", false, nil},
		{"node-b.example.com:2136", "tcp://node-b.example.com:2136", false, nil},
		{"127.0.0.1", "", false, fault.InvalidIpAddress},
		{"127.0.0.1:0", "", false, fault.InvalidIpAddress},
		{"127.0.0.1:70000", "", false, fault.InvalidIpAddress},
	}
	for i, item := range items {
		address, v6, err := canonicalAddress(item.in)
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, item.address, address, "%d: address", i)
		assert.Equal(t, item.v6, v6, "%d: v6", i)
	}
}
