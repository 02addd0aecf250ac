// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
)

type accountTest struct {
	zero          bool
	publicKey     []byte
	base58Account string
}

// Valid account
var testAccount = []accountTest{
	{
		zero:          false,
		publicKey:     decodeHex("60b3c6e20cfff7091a86488b1656b96ec0a2f69907e2c035175918f42c37d72e"),
		base58Account: "anF8SWxSRY5vnN3Bbyz9buRYW1hfCAAZxfbv8Fw9SFXaktvLCj",
	},
	{
		zero:          true,
		publicKey:     decodeHex("0000000000000000000000000000000000000000000000000000000000000000"),
		base58Account: "a3ezwdYVEVrHwszQrYzDTCAZwUD3yKtNsCq9YhEu97bPaGAKy1",
	},
}

type invalid struct {
	str string
	err error
}

// Invalid account
var testInvalidAccountFromBase58 = []invalid{
	{"3gLJjLSociTmf4kgL3ztUK;tgADFvg9yjXt1jFbEx9KgpEEAFn", fault.CannotDecodeAccount},   // invalid base58 string
	{"", fault.CannotDecodeAccount},                                                     // empty
	{"anF8SWxSRY5vnN3Bbyz9buRYW1hfCAAZxfbv8Fw9SFXaktvLDj", fault.ChecksumMismatch},      // checksum mismatch
	{"WjbRFkA9dhmMKnKTuufZ1sVD4E4H1NRnsmwjMKNHHRSCvDm5bXPV", fault.InvalidKeyType},      // undefined key algorithm
	{"eopaSeB7uiSVMdAmTrijq3W2MCWA5KHZrZvm5QLFGRVd3oWNe2", fault.InvalidKeyType},        // test network key
	{"YqVxD4vazrrnxnLH2MzCHJedPPz1VKHnKbVfya39nF96ABAYes", fault.NotPublicKey},          // private key
	{"nF8SWxSRY5vnN3Bbyz9buRYW1hfCAAZxfbv8Fw9SFXaktvLCj", fault.NotPublicKey},           // truncated
}

func TestValid(t *testing.T) {
loop:
	for index, test := range testAccount {
		buffer := []byte{byte(account.ED25519<<4 | 0x01)}
		buffer = append(buffer, test.publicKey...)
		acc, err := account.FromBytes(buffer)
		if nil != err {
			t.Errorf("%d: create account from bytes failed: %s", index, err)
			continue loop
		}

		if !bytes.Equal(buffer, acc.Bytes()) {
			t.Errorf("%d: account bytes: %x does not match: %x", index, acc.Bytes(), buffer)
		}
		if acc.IsZero() != test.zero {
			t.Errorf("%d: IsZero: %t  expected: %t", index, acc.IsZero(), test.zero)
		}
		if acc.String() != test.base58Account {
			t.Errorf("%d: to base58: got: %s  expected %s", index, acc, test.base58Account)
		}
	}
}

func TestValidBase58(t *testing.T) {
loop:
	for index, test := range testAccount {
		acc, err := account.FromBase58(test.base58Account)
		if nil != err {
			t.Errorf("%d: from base58 error: %s", index, err)
			continue loop
		}
		if !bytes.Equal(acc.PublicKey, test.publicKey) {
			t.Errorf("%d: from base58 pubkey: %x  expected %x", index, acc.PublicKey, test.publicKey)
		}

		j := `"` + test.base58Account + `"`
		var a account.Account
		err = json.Unmarshal([]byte(j), &a)
		if nil != err {
			t.Errorf("%d: from JSON string error: %s", index, err)
			continue loop
		}
		if !a.Equal(acc) {
			t.Errorf("%d: from JSON: %#v  expected: %#v", index, &a, acc)
		}

		buffer, _ := json.Marshal(a)
		if j != string(buffer) {
			t.Errorf("%d: marshal JSON failed: expected %s  actual: %s", index, j, buffer)
		}
	}
}

func TestInvalidBase58(t *testing.T) {
	for index, test := range testInvalidAccountFromBase58 {
		_, err := account.FromBase58(test.str)
		if test.err != err {
			t.Errorf("%d: invalid base58 string: expected: %q actual: %q", index, test.err, err)
		}
	}
}

func TestInvalidBytes(t *testing.T) {
	if _, err := account.FromBytes([]byte{0x10, 0x00}); fault.NotPublicKey != err {
		t.Errorf("private variant: %v", err)
	}
	if _, err := account.FromBytes([]byte{0x21, 0x00}); fault.InvalidKeyType != err {
		t.Errorf("unknown algorithm: %v", err)
	}
	if _, err := account.FromBytes([]byte{0x11, 0x00, 0x01}); fault.InvalidKeyLength != err {
		t.Errorf("short key: %v", err)
	}
}

func TestEqual(t *testing.T) {
	a, _ := account.FromBase58(testAccount[0].base58Account)
	b, _ := account.New(testAccount[0].publicKey)
	z, _ := account.FromBase58(testAccount[1].base58Account)

	if !a.Equal(b) {
		t.Error("identical keys are not equal")
	}
	if a.Equal(z) {
		t.Error("different keys are equal")
	}
	if a.Equal(nil) {
		t.Error("key equals nil")
	}
}

// Decode the hex string and return []byte.
//
// This is only used in the tests as the source is pre-prepared, so that there won't be any error
func decodeHex(hexStr string) []byte {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		panic(err)
	}
	return b
}
