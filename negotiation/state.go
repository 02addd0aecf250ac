// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"github.com/bitmark-inc/ioud/fault"
)

// Role - which side of the protocol a session runs
type Role int

// roles
const (
	Initiator Role = iota
	Acceptor
)

func (r Role) String() string {
	switch r {
	case Initiator:
		return "initiator"
	case Acceptor:
		return "acceptor"
	default:
		return "unknown"
	}
}

// MarshalText - role name for JSON
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText - role from its name
func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "initiator":
		*r = Initiator
	case "acceptor":
		*r = Acceptor
	default:
		return fault.InvalidValue
	}
	return nil
}

// State - a session state
type State int

// states of both roles
const (
	None State = iota
	Building
	Validating
	SigningLocally
	AwaitingCounterSignature
	Finalizing
	AwaitingProposal
	Deciding
	Committed
	Rejected
	Failed
)

var stateNames = map[State]string{
	None:                     "None",
	Building:                 "Building",
	Validating:               "Validating",
	SigningLocally:           "SigningLocally",
	AwaitingCounterSignature: "AwaitingCounterSignature",
	Finalizing:               "Finalizing",
	AwaitingProposal:         "AwaitingProposal",
	Deciding:                 "Deciding",
	Committed:                "Committed",
	Rejected:                 "Rejected",
	Failed:                   "Failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Invalid"
}

// MarshalText - state name for JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - state from its name
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fault.InvalidValue
}

// IsTerminal - no further transitions are possible
func (s State) IsTerminal() bool {
	return Committed == s || Rejected == s || Failed == s
}
