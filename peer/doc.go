// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer - the node to node negotiation transport
//
// Requests and replies are multipart ZeroMQ messages over CURVE
// encrypted sockets. A client opens a REQ socket for each request to a
// counterparty. A listener accepts on ROUTER sockets and handles every
// request in its own goroutine, so a slow acceptor decision never
// holds up other sessions.
//
// Requests:
//
//   [P, sessionId, from, packed signed transaction]  - propose
//   [F, sessionId, from, packed signed transaction]  - finalise
//   [A, sessionId, from, reason]                     - abandon
//
// Replies:
//
//   [S, signature]          - signed
//   [K]                     - done
//   [E, kind, text]         - refused; kind is one of validation,
//                             signature, conflict or error
//
// A validation refusal is rebuilt on the client as the same
// fault.ValidationError the acceptor produced, so the initiator reports
// the acceptor's reason unchanged.
package peer
