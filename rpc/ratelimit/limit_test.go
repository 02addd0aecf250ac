// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/rpc/ratelimit"
)

func TestLimit(t *testing.T) {
	limiter := rate.NewLimiter(100, 10)
	assert.Nil(t, ratelimit.Limit(limiter), "wrong limit")

	// burst of zero can never be satisfied
	assert.Equal(t, fault.RateLimiting, ratelimit.Limit(rate.NewLimiter(100, 0)), "wrong zero burst")
}

func TestLimitN(t *testing.T) {
	limiter := rate.NewLimiter(100, 10)

	assert.Nil(t, ratelimit.LimitN(limiter, 5, 10), "wrong limit")
	assert.Equal(t, fault.InvalidCount, ratelimit.LimitN(limiter, 0, 10), "wrong zero count")
	assert.Equal(t, fault.InvalidCount, ratelimit.LimitN(limiter, 11, 10), "wrong excess count")

	// more than the burst cannot be reserved
	assert.Equal(t, fault.RateLimiting, ratelimit.LimitN(rate.NewLimiter(100, 2), 5, 10), "wrong over burst")
}
