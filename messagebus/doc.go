// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - fan out of internal events to any listeners
//
// Senders never block: a message is dropped for a listener whose
// channel is full, and dropped entirely when nobody is listening.
package messagebus
