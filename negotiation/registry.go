// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/ioud/fault"
)

// sessions keyed by id; entries expire after the session timeout and
// the expiry callback fails any that had not finished
type registry struct {
	c *cache.Cache
}

func newRegistry(timeout time.Duration, cleanup time.Duration, expired func(*session)) *registry {
	c := cache.New(timeout, cleanup)
	c.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*session); ok {
			expired(s)
		}
	})
	return &registry{
		c: c,
	}
}

func (r *registry) add(s *session) error {
	if err := r.c.Add(s.id.String(), s, cache.DefaultExpiration); nil != err {
		return fault.SessionExists
	}
	return nil
}

func (r *registry) get(id uuid.UUID) (*session, bool) {
	value, ok := r.c.Get(id.String())
	if !ok {
		return nil, false
	}
	s, ok := value.(*session)
	return s, ok
}

// keep a finished session visible for another full timeout
func (r *registry) retain(s *session) {
	r.c.Set(s.id.String(), s, cache.DefaultExpiration)
}

func (r *registry) all() []*session {
	items := r.c.Items()
	result := make([]*session, 0, len(items))
	for _, item := range items {
		if s, ok := item.Object.(*session); ok {
			result = append(result, s)
		}
	}
	return result
}
