// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/ioud/fault"
)

// Pools - the set of pools in one database
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Committed   *PoolHandle `prefix:"C"`
	LinearIds   *PoolHandle `prefix:"L"`
	Records     *PoolHandle `prefix:"R"`
	RecordOrder *PoolHandle `prefix:"O"`
	RecordCount *PoolHandle `prefix:"N"`
	TestData    *PoolHandle `prefix:"Z"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// Store - an open database and its pools
type Store struct {
	sync.RWMutex
	db   *leveldb.DB
	Pool Pools
}

// Open - open or create the database in a directory
func Open(name string, readOnly bool) (*Store, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}
	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return setup(db, readOnly)
}

// OpenMemory - a database that lives only as long as the process
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(db, false)
}

func setup(db *leveldb.DB, readOnly bool) (*Store, error) {
	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}
	switch {
	case version > currentDBVersion:
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	case 0 == version && !readOnly:
		if err := putVersion(db, currentDBVersion); nil != err {
			return nil, err
		}
	case version < currentDBVersion && readOnly:
		return nil, fmt.Errorf("database is inconsistent: version: %d  current: %d", version, currentDBVersion)
	}

	s := &Store{
		db: db,
	}

	// this will be a struct type
	poolType := reflect.TypeOf(s.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&s.Pool).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return nil, fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			store:  s,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	ok = true // prevent db close
	return s, nil
}

// Close - close the database; later pool access returns fault.DatabaseIsNotSet
func (s *Store) Close() {
	s.Lock()
	defer s.Unlock()
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return db.Put(versionKey, currentVersion, nil)
}

// guard used by every access; caller holds the read lock
func (s *Store) database() (*leveldb.DB, error) {
	if nil == s.db {
		return nil, fault.DatabaseIsNotSet
	}
	return s.db, nil
}
