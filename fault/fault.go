// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ConflictError GenericError
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError
type ValidationError GenericError

// contract rejection reasons - the text is part of the peer protocol
// and must never change
var (
	NoInputsAllowed         = ValidationError("No inputs should be consumed when issuing an IOU.")
	SingleOutputRequired    = ValidationError("Only one output state should be created.")
	SenderIsRecipient       = ValidationError("The sender and the recipient cannot be the same entity.")
	NonPositiveValue        = ValidationError("The IOU's value must be non-negative.")
	CreateCommandRequired   = ValidationError("A Create command is required.")
	ParticipantsMustSign    = ValidationError("All of the participants must be signers.")
	SignersMustMatchExactly = ValidationError("The signers must be exactly the participants.")
)

// common errors - keep in alphabetic order
var (
	CannotDecodeAccount      = InvalidError("cannot decode account")
	CannotDecodePrivateKey   = InvalidError("cannot decode private key")
	CertificateFileExists    = ExistsError("certificate file already exists")
	ChecksumMismatch         = ProcessError("checksum mismatch")
	CommitConflict           = ConflictError("commit conflict: transaction or state already committed")
	ConfigurationNotTable    = InvalidError("configuration must return a table")
	DatabaseIsNotSet         = ProcessError("database is not set")
	DigestMismatch           = InvalidError("transaction digest does not match the proposal")
	InvalidCommandType       = RecordError("invalid command type")
	InvalidCount             = InvalidError("invalid count")
	InvalidDuration          = InvalidError("invalid duration")
	InvalidIpAddress         = InvalidError("invalid IP address")
	InvalidKeyLength         = InvalidError("invalid key length")
	InvalidKeyType           = InvalidError("invalid key type")
	InvalidLoggerChannel     = InvalidError("invalid logger channel")
	InvalidPartyName         = InvalidError("invalid party name")
	InvalidPeerResponse      = InvalidError("invalid peer response")
	InvalidPrivateKeyFile    = InvalidError("invalid private key file")
	InvalidPublicKeyFile     = InvalidError("invalid public key file")
	InvalidSignerPolicy      = InvalidError("invalid signer policy")
	InvalidValue             = InvalidError("invalid value")
	KeyFileAlreadyExists     = ExistsError("key file already exists")
	MissingParameters        = InvalidError("missing parameters")
	MissingSignature         = InvalidError("missing signature")
	NotAParticipant          = InvalidError("this node is not a participant")
	NotARequiredSigner       = InvalidError("key is not a required signer")
	NotFullySigned           = InvalidError("transaction is not fully signed")
	NotPublicKey             = InvalidError("not a public key")
	NotRunning               = ProcessError("negotiation engine is not running")
	PartyAlreadyExists       = ExistsError("party already exists")
	PartyNotFound            = NotFoundError("party not found")
	PeerUnreachable          = ProcessError("peer unreachable")
	ProposerNotParticipant   = InvalidError("proposer is not a participant")
	RateLimiting             = InvalidError("rate limiting")
	SessionAbandoned         = ProcessError("session abandoned")
	SessionExists            = ExistsError("session already exists")
	SessionExpired           = ProcessError("session expired")
	SessionNotFound          = NotFoundError("session not found")
	SignatureInvalid         = InvalidError("invalid signature")
	SignatureTooLong         = LengthError("signature too long")
	Timeout                  = ProcessError("timeout waiting for peer")
	TransactionNotFound      = NotFoundError("transaction not found")
	TrailingData             = RecordError("unexpected trailing data")
	TruncatedRecord          = RecordError("truncated record")
	WrongSessionCounterparty = InvalidError("session belongs to another counterparty")
	WrongSessionState        = InvalidError("session is not in the expected state")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ConflictError) Error() string   { return string(e) }
func (e ExistsError) Error() string     { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e LengthError) Error() string     { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e ProcessError) Error() string    { return string(e) }
func (e RecordError) Error() string     { return string(e) }
func (e ValidationError) Error() string { return string(e) }

// SignatureError - a missing or invalid endorsement from a specific party
type SignatureError struct {
	Party string
	Err   error
}

func (e *SignatureError) Error() string {
	return e.Err.Error() + ": " + e.Party
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// NewSignatureError - tag a signature failure with the party responsible
func NewSignatureError(party string, err error) error {
	return &SignatureError{
		Party: party,
		Err:   err,
	}
}

// determine the class of an error
func IsErrConflict(e error) bool   { var t ConflictError; return errors.As(e, &t) }
func IsErrExists(e error) bool     { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool    { var t InvalidError; return errors.As(e, &t) }
func IsErrLength(e error) bool     { var t LengthError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool   { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool    { var t ProcessError; return errors.As(e, &t) }
func IsErrRecord(e error) bool     { var t RecordError; return errors.As(e, &t) }
func IsErrValidation(e error) bool { var t ValidationError; return errors.As(e, &t) }
func IsErrSignature(e error) bool  { var t *SignatureError; return errors.As(e, &t) }
