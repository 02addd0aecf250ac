// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++        = concatenation of byte data
// 3. txId      = transaction digest as 32 byte SHA3-256(packed transaction)
// 4. linearId  = 16 byte UUID of an IOU state
// 5. count     = successive index value as big endian uint64 (8 bytes)
//
// Notary:
//
//   C ++ txId        - committed transactions
//                      data: packed signed transaction
//   L ++ linearId    - states consumed by a commit
//                      data: txId
//
// Vault:
//
//   R ++ txId        - transactions recorded by this party
//                      data: count ++ packed signed transaction
//   O ++ count       - recording order
//                      data: txId
//   N ++ "next"      - next count value
//                      data: count
//
// Testing:
//
//   Z ++ key         - testing data
package storage
