// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - client access to a node over JSON-RPC on TLS
//
// The services are registered by rpc/server and served by
// rpc/listeners:
//
//   IOU.Propose     - negotiate an IOU and wait for the outcome
//   IOU.Start       - begin negotiating and return the session id
//   IOU.Get         - one committed IOU transaction from the vault
//   IOU.List        - committed IOU transactions in commit order
//   Session.Get     - the state and transition log of a session
//   Session.List    - all sessions still held by the node
//   Session.Cancel  - abandon a running initiator session
//   Node.Info       - identity, version and counters of the node
package rpc
