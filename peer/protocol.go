// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"errors"

	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// request commands
const (
	ProposeCommand  = "P"
	FinaliseCommand = "F"
	AbandonCommand  = "A"
)

// reply codes
const (
	signatureReply = "S"
	okReply        = "K"
	errorReply     = "E"
)

// error kinds carried by an error reply
const (
	validationKind = "validation"
	signatureKind  = "signature"
	conflictKind   = "conflict"
	errorKind      = "error"
)

// Request - one decoded peer request
type Request struct {
	Command     string
	SessionId   uuid.UUID
	From        string
	Transaction *transactionrecord.SignedTransaction
	Reason      string
}

// errors that keep their identity across the wire
var knownErrors = []error{
	fault.CommitConflict,
	fault.DigestMismatch,
	fault.MissingParameters,
	fault.MissingSignature,
	fault.NotAParticipant,
	fault.NotARequiredSigner,
	fault.NotFullySigned,
	fault.PartyNotFound,
	fault.ProposerNotParticipant,
	fault.SessionExists,
	fault.SessionNotFound,
	fault.SignatureInvalid,
	fault.Timeout,
	fault.WrongSessionCounterparty,
	fault.WrongSessionState,
}

// EncodeRequest - frames for a request
//
//   P: [P, sessionId, from, packed signed transaction]
//   F: [F, sessionId, from, packed signed transaction]
//   A: [A, sessionId, from, reason]
func EncodeRequest(r *Request) ([][]byte, error) {
	sessionId, err := r.SessionId.MarshalBinary()
	if nil != err {
		return nil, err
	}
	frames := [][]byte{
		[]byte(r.Command),
		sessionId,
		[]byte(r.From),
	}

	switch r.Command {
	case ProposeCommand, FinaliseCommand:
		if nil == r.Transaction {
			return nil, fault.MissingParameters
		}
		packed, err := r.Transaction.Pack()
		if nil != err {
			return nil, err
		}
		frames = append(frames, packed)
	case AbandonCommand:
		frames = append(frames, []byte(r.Reason))
	default:
		return nil, fault.InvalidValue
	}
	return frames, nil
}

// DecodeRequest - request from received frames
func DecodeRequest(frames [][]byte) (*Request, error) {
	if 4 != len(frames) {
		return nil, fault.MissingParameters
	}

	r := &Request{
		Command: string(frames[0]),
		From:    string(frames[2]),
	}
	if err := r.SessionId.UnmarshalBinary(frames[1]); nil != err {
		return nil, fault.InvalidValue
	}
	if "" == r.From {
		return nil, fault.InvalidPartyName
	}

	switch r.Command {
	case ProposeCommand, FinaliseCommand:
		stx, err := transactionrecord.Packed(frames[3]).UnpackSigned()
		if nil != err {
			return nil, err
		}
		r.Transaction = stx
	case AbandonCommand:
		r.Reason = string(frames[3])
	default:
		return nil, fault.InvalidValue
	}
	return r, nil
}

// signatureReplyFrames - successful reply to a proposal
func signatureReplyFrames(signature account.Signature) [][]byte {
	return [][]byte{[]byte(signatureReply), signature}
}

// okReplyFrames - successful reply to finalise or abandon
func okReplyFrames() [][]byte {
	return [][]byte{[]byte(okReply)}
}

// errorReplyFrames - the kind lets the other side rebuild the error
//
//   [E, kind, text] or, for signature errors, [E, signature, text, party]
func errorReplyFrames(err error) [][]byte {
	var se *fault.SignatureError
	switch {
	case errors.As(err, &se):
		return [][]byte{[]byte(errorReply), []byte(signatureKind), []byte(se.Err.Error()), []byte(se.Party)}
	case fault.IsErrValidation(err):
		return [][]byte{[]byte(errorReply), []byte(validationKind), []byte(err.Error())}
	case fault.IsErrConflict(err):
		return [][]byte{[]byte(errorReply), []byte(conflictKind), []byte(err.Error())}
	default:
		return [][]byte{[]byte(errorReply), []byte(errorKind), []byte(err.Error())}
	}
}

// DecodeReply - the signature from a reply or the error it carries
//
// a signature reply to a finalise or abandon, or an ok reply to a
// proposal, is left to the caller to refuse
func DecodeReply(frames [][]byte) (account.Signature, error) {
	if len(frames) < 1 {
		return nil, fault.InvalidPeerResponse
	}

	switch string(frames[0]) {
	case signatureReply:
		if 2 != len(frames) {
			return nil, fault.InvalidPeerResponse
		}
		return account.Signature(frames[1]), nil

	case okReply:
		if 1 != len(frames) {
			return nil, fault.InvalidPeerResponse
		}
		return nil, nil

	case errorReply:
		if len(frames) < 3 {
			return nil, fault.InvalidPeerResponse
		}
		text := string(frames[2])
		switch string(frames[1]) {
		case validationKind:
			return nil, fault.ValidationError(text)
		case conflictKind:
			return nil, fault.ConflictError(text)
		case signatureKind:
			if 4 != len(frames) {
				return nil, fault.InvalidPeerResponse
			}
			return nil, fault.NewSignatureError(string(frames[3]), errorFromText(text))
		case errorKind:
			return nil, errorFromText(text)
		}
	}
	return nil, fault.InvalidPeerResponse
}

// the local error instance for a text, when there is one
func errorFromText(text string) error {
	for _, e := range knownErrors {
		if e.Error() == text {
			return e
		}
	}
	return fault.ProcessError(text)
}
