// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ioud/fault"
)

func TestStateText(t *testing.T) {
	for state := None; state <= Failed; state += 1 {
		text, err := state.MarshalText()
		assert.Nil(t, err, "marshal error")

		var s State
		assert.Nil(t, s.UnmarshalText(text), "unmarshal: %s", text)
		assert.Equal(t, state, s, "round trip")
	}

	var s State
	assert.Equal(t, fault.InvalidValue, s.UnmarshalText([]byte("Pending")), "unknown state")
	assert.Equal(t, "Invalid", State(99).String(), "out of range")
}

func TestTerminalStates(t *testing.T) {
	terminal := map[State]bool{
		Committed: true,
		Rejected:  true,
		Failed:    true,
	}
	for state := None; state <= Failed; state += 1 {
		assert.Equal(t, terminal[state], state.IsTerminal(), "state: %s", state)
	}
}

func TestTransitionJSON(t *testing.T) {
	buffer, err := json.Marshal(Transition{Role: Acceptor, From: Deciding, To: Rejected, Reason: "no"})
	assert.Nil(t, err, "marshal error")

	var tr Transition
	assert.Nil(t, json.Unmarshal(buffer, &tr), "unmarshal error")
	assert.Equal(t, Acceptor, tr.Role, "role")
	assert.Equal(t, Deciding, tr.From, "from")
	assert.Equal(t, Rejected, tr.To, "to")
	assert.Equal(t, "no", tr.Reason, "reason")
}
