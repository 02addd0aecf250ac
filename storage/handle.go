// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/ioud/fault"
)

// PoolHandle - one prefixed table
type PoolHandle struct {
	prefix byte
	limit  []byte
	store  *Store
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()
	db, err := p.store.database()
	if nil != err {
		return err
	}
	return db.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()
	db, err := p.store.database()
	if nil != err {
		return err
	}
	return db.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key
//
// returns nil, nil if the key is not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.store.RLock()
	defer p.store.RUnlock()
	db, err := p.store.database()
	if nil != err {
		return nil, err
	}
	value, err := db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool, error) {
	buffer, err := p.Get(key)
	if nil != err || nil == buffer {
		return 0, false, err
	}
	if len(buffer) < 8 {
		return 0, false, fault.TruncatedRecord
	}
	return binary.BigEndian.Uint64(buffer[:8]), true, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	p.store.RLock()
	defer p.store.RUnlock()
	db, err := p.store.database()
	if nil != err {
		return false, err
	}
	return db.Has(p.prefixKey(key), nil)
}

// Batch - a set of writes applied atomically by Store.Write
type Batch struct {
	batch leveldb.Batch
}

// NewBatch - start an empty batch
func (s *Store) NewBatch() *Batch {
	return &Batch{}
}

// Put - add a write to the batch
func (b *Batch) Put(p *PoolHandle, key []byte, value []byte) {
	b.batch.Put(p.prefixKey(key), value)
}

// Write - apply all writes in the batch or none of them
func (s *Store) Write(b *Batch) error {
	s.RLock()
	defer s.RUnlock()
	db, err := s.database()
	if nil != err {
		return err
	}
	return db.Write(&b.batch, nil)
}
