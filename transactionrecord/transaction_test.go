// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

type testParty struct {
	party      *party.Party
	privateKey *account.PrivateKey
}

func newTestParty(t *testing.T, name string) testParty {
	privateKey, err := account.NewPrivateKey(rand.Reader)
	if nil != err {
		t.Fatalf("generate key error: %s", err)
	}
	p, err := party.New(name, privateKey.Account())
	if nil != err {
		t.Fatalf("party error: %s", err)
	}
	return testParty{party: p, privateKey: privateKey}
}

func TestPackIsCanonical(t *testing.T) {
	a := newTestParty(t, "PartyA")
	b := newTestParty(t, "PartyB")

	tx := transactionrecord.NewCreate(iou.New(99, a.party, b.party))

	p1, err := tx.Pack()
	assert.Nil(t, err, "pack error")
	p2, err := tx.Pack()
	assert.Nil(t, err, "pack error")
	assert.True(t, bytes.Equal(p1, p2), "packing is not stable")
	assert.Equal(t, transactionrecord.TransactionTag, p1.Type(), "wrong tag")

	id, err := tx.Id()
	assert.Nil(t, err, "id error")
	assert.Equal(t, digest.New(p1), id, "id is not the digest of the packed form")

	// a fresh draft with the same value has a new linear id and so a new digest
	other := transactionrecord.NewCreate(iou.New(99, a.party, b.party))
	otherId, err := other.Id()
	assert.Nil(t, err, "id error")
	assert.NotEqual(t, id, otherId, "distinct drafts share an id")
}

func TestUnpackRoundTrip(t *testing.T) {
	a := newTestParty(t, "PartyA")
	b := newTestParty(t, "PartyB")

	tx := transactionrecord.NewCreate(iou.New(-5, a.party, b.party))
	tx.Inputs = []digest.Digest{digest.New([]byte("earlier"))}

	packed, err := tx.Pack()
	assert.Nil(t, err, "pack error")

	tx2, err := packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, tx.Inputs, tx2.Inputs, "inputs")
	assert.Equal(t, 1, len(tx2.Outputs), "output count")
	assert.True(t, tx.Outputs[0].Equal(tx2.Outputs[0]), "output differs")
	assert.Equal(t, transactionrecord.CreateCommand, tx2.Command.Type, "command type")
	assert.Equal(t, 2, len(tx2.Command.Signers), "signer count")
	assert.True(t, tx2.RequiresSigner(a.party.Key()), "sender not a signer")
	assert.True(t, tx2.RequiresSigner(b.party.Key()), "recipient not a signer")

	repacked, err := tx2.Pack()
	assert.Nil(t, err, "repack error")
	assert.Equal(t, packed, repacked, "repacked bytes differ")
}

func TestUnpackNoCommand(t *testing.T) {
	a := newTestParty(t, "PartyA")
	b := newTestParty(t, "PartyB")

	tx := transactionrecord.NewCreate(iou.New(1, a.party, b.party))
	tx.Command = nil

	packed, err := tx.Pack()
	assert.Nil(t, err, "pack error")

	tx2, err := packed.Unpack()
	assert.Nil(t, err, "unpack error")
	assert.Nil(t, tx2.Command, "command appeared")
	assert.False(t, tx2.RequiresSigner(a.party.Key()), "signer without command")
}

func TestUnpackErrors(t *testing.T) {
	a := newTestParty(t, "PartyA")
	b := newTestParty(t, "PartyB")

	packed, err := transactionrecord.NewCreate(iou.New(1, a.party, b.party)).Pack()
	assert.Nil(t, err, "pack error")

	_, err = append(append(transactionrecord.Packed{}, packed...), 0x00).Unpack()
	assert.Equal(t, fault.TrailingData, err, "trailing byte accepted")

	for _, cut := range []int{0, 1, 5, len(packed) / 2, len(packed) - 1} {
		_, err = packed[:cut].Unpack()
		assert.NotNil(t, err, "truncated at %d accepted", cut)
	}

	_, err = transactionrecord.Packed{0x02}.Unpack()
	assert.Equal(t, fault.InvalidValue, err, "wrong tag accepted")
}

func TestPackErrors(t *testing.T) {
	a := newTestParty(t, "PartyA")

	tx := transactionrecord.NewCreate(iou.New(1, a.party, a.party))
	tx.Outputs[0].Recipient = nil
	_, err := tx.Pack()
	assert.Equal(t, fault.MissingParameters, err, "missing recipient packed")

	tx = transactionrecord.NewCreate(iou.New(1, a.party, a.party))
	tx.Command.Type = transactionrecord.InvalidCommand
	_, err = tx.Pack()
	assert.Equal(t, fault.InvalidCommandType, err, "invalid command packed")
}
