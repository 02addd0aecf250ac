// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vault - the transactions this node has been party to
package vault

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/storage"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

// maximum number of records returned by one List call
const MaximumListCount = 100

var nextCountKey = []byte("next")

// Vault - records finalised transactions in order of arrival
type Vault struct {
	sync.Mutex
	log   *logger.L
	store *storage.Store
}

// Entry - one recorded transaction
type Entry struct {
	Count       uint64                               `json:"count"`
	TxId        digest.Digest                        `json:"txId"`
	Transaction *transactionrecord.SignedTransaction `json:"transaction"`
}

// New - vault over an open store
func New(store *storage.Store) *Vault {
	return &Vault{
		log:   logger.New("vault"),
		store: store,
	}
}

// Record - store a finalised transaction; recording twice is harmless
func (v *Vault) Record(stx *transactionrecord.SignedTransaction) error {
	txId, err := stx.Id()
	if nil != err {
		return err
	}
	packed, err := stx.Pack()
	if nil != err {
		return err
	}

	v.Lock()
	defer v.Unlock()

	found, err := v.store.Pool.Records.Has(txId[:])
	if nil != err {
		return err
	}
	if found {
		v.log.Debugf("already recorded: %s", txId)
		return nil
	}

	count, _, err := v.store.Pool.RecordCount.GetN(nextCountKey)
	if nil != err {
		return err
	}
	countBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(countBytes, count)
	nextBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(nextBytes, count+1)

	b := v.store.NewBatch()
	b.Put(v.store.Pool.Records, txId[:], append(countBytes, packed...))
	b.Put(v.store.Pool.RecordOrder, countBytes, txId[:])
	b.Put(v.store.Pool.RecordCount, nextCountKey, nextBytes)
	if err := v.store.Write(b); nil != err {
		return err
	}

	v.log.Infof("recorded: %d  txId: %s", count, txId)
	return nil
}

// Get - fetch a recorded transaction by id
func (v *Vault) Get(txId digest.Digest) (*Entry, error) {
	buffer, err := v.store.Pool.Records.Get(txId[:])
	if nil != err {
		return nil, err
	}
	if nil == buffer {
		return nil, fault.TransactionNotFound
	}
	if len(buffer) < 8 {
		return nil, fault.TruncatedRecord
	}
	stx, err := transactionrecord.Packed(buffer[8:]).UnpackSigned()
	if nil != err {
		return nil, err
	}
	return &Entry{
		Count:       binary.BigEndian.Uint64(buffer[:8]),
		TxId:        txId,
		Transaction: stx,
	}, nil
}

// List - up to count entries starting at position start
//
// also returns the start value for the following call
func (v *Vault) List(start uint64, count int) ([]*Entry, uint64, error) {
	if count <= 0 || count > MaximumListCount {
		return nil, start, fault.InvalidCount
	}

	startBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(startBytes, start)

	elements, err := v.store.Pool.RecordOrder.NewFetchCursor().Seek(startBytes).Fetch(count)
	if nil != err {
		return nil, start, err
	}

	entries := make([]*Entry, 0, len(elements))
	next := start
	for _, e := range elements {
		var txId digest.Digest
		if err := digest.FromBytes(&txId, e.Value); nil != err {
			return nil, start, err
		}
		entry, err := v.Get(txId)
		if nil != err {
			return nil, start, err
		}
		entries = append(entries, entry)
		next = entry.Count + 1
	}
	return entries, next, nil
}
