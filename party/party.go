// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package party

import (
	"strings"
	"unicode/utf8"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
)

// limits on the legal name
const (
	MinimumNameLength = 1
	MaximumNameLength = 128
)

// Party - a named participant holding a verification key
type Party struct {
	Name    string           `json:"name"`
	Account *account.Account `json:"account"`
}

// New - validate the name and bind it to a key
func New(name string, acc *account.Account) (*Party, error) {
	n := utf8.RuneCountInString(name)
	if n < MinimumNameLength || n > MaximumNameLength || strings.TrimSpace(name) != name {
		return nil, fault.InvalidPartyName
	}
	if nil == acc {
		return nil, fault.InvalidKeyLength
	}
	return &Party{
		Name:    name,
		Account: acc,
	}, nil
}

// Key - the verification key
func (p *Party) Key() *account.Account {
	return p.Account
}

// Equal - identity equality: the same name bound to the same key
func (p *Party) Equal(other *Party) bool {
	if nil == p || nil == other {
		return p == other
	}
	return p.Name == other.Name && p.Account.Equal(other.Account)
}

func (p *Party) String() string {
	if nil == p {
		return "<nil>"
	}
	return p.Name
}
