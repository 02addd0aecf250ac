// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.
//
// Contract rejections are ValidationError values whose text is the
// stable reason reported to callers and to remote peers; a reason
// received over the wire converts back to an equal error value.
package fault
