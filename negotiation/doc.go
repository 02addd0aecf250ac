// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package negotiation - the two party protocol that turns a proposed
// IOU into a committed, jointly signed transaction
//
// Initiator:
//
//   Building -> Validating -> SigningLocally -> AwaitingCounterSignature
//            -> Finalizing -> Committed
//
// Acceptor:
//
//   AwaitingProposal -> Validating -> Deciding -> SigningLocally -> Committed
//
// Any non-terminal state may move to Failed; the acceptor moves to
// Rejected when validation or the decider refuses the proposal. Each
// session is identified by a UUID chosen by the initiator and carried
// by every message, so one node can run many sessions with many
// counterparties at once.
//
// Only the initiator commits, and only after both signatures are
// present and valid. The acceptor reaches Committed when the initiator
// delivers the finalised transaction.
package negotiation
