// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"encoding/json"
	"io/ioutil"
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/party"
)

// Directory - the known counterparties, by legal name
type Directory struct {
	sync.RWMutex
	log     *logger.L
	parties map[string]*party.Party
}

// NewDirectory - an empty directory
func NewDirectory() *Directory {
	return &Directory{
		log:     logger.New("identity"),
		parties: make(map[string]*party.Party),
	}
}

// LoadDirectory - a directory filled from a parties file
func LoadDirectory(filename string) (*Directory, error) {
	d := NewDirectory()
	if err := d.Load(filename); nil != err {
		return nil, err
	}
	return d, nil
}

// Add - a single party; names must be unique
func (d *Directory) Add(p *party.Party) error {
	if nil == p || nil == p.Account {
		return fault.MissingParameters
	}

	d.Lock()
	defer d.Unlock()

	if _, ok := d.parties[p.Name]; ok {
		return fault.PartyAlreadyExists
	}
	d.parties[p.Name] = p
	return nil
}

// Resolve - the party registered under name
func (d *Directory) Resolve(name string) (*party.Party, error) {
	d.RLock()
	defer d.RUnlock()

	p, ok := d.parties[name]
	if !ok {
		return nil, fault.PartyNotFound
	}
	return p, nil
}

// Parties - all parties sorted by name
func (d *Directory) Parties() []*party.Party {
	d.RLock()
	defer d.RUnlock()

	result := make([]*party.Party, 0, len(d.parties))
	for _, p := range d.parties {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Load - replace the contents with a parties file
//
// the file is a JSON list of {"name": ..., "account": ...}; on any
// error the current contents are kept
func (d *Directory) Load(filename string) error {
	data, err := ioutil.ReadFile(filename)
	if nil != err {
		return err
	}

	parties, err := Parse(data)
	if nil != err {
		d.log.Errorf("parties file: %q  error: %s", filename, err)
		return err
	}

	d.Lock()
	d.parties = parties
	d.Unlock()

	d.log.Infof("parties file: %q  loaded: %d", filename, len(parties))
	return nil
}

// Parse - decode and check the contents of a parties file
func Parse(data []byte) (map[string]*party.Party, error) {
	var entries []party.Party
	if err := json.Unmarshal(data, &entries); nil != err {
		return nil, err
	}

	parties := make(map[string]*party.Party, len(entries))
	for _, entry := range entries {
		p, err := party.New(entry.Name, entry.Account)
		if nil != err {
			return nil, err
		}
		if _, ok := parties[p.Name]; ok {
			return nil, fault.PartyAlreadyExists
		}
		parties[p.Name] = p
	}
	return parties, nil
}

// Write - store parties as a parties file
func Write(filename string, parties []*party.Party) error {
	data, err := json.MarshalIndent(parties, "", "  ")
	if nil != err {
		return err
	}
	return ioutil.WriteFile(filename, append(data, '\n'), 0644)
}
