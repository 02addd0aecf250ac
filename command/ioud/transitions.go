// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/messagebus"
	"github.com/bitmark-inc/ioud/negotiation"
)

// audit trail: every session state change as a JSON line
type transitionLogger struct {
	log   *logger.L
	queue <-chan messagebus.Message
}

func newTransitionLogger() *transitionLogger {
	return &transitionLogger{
		log:   logger.New("audit"),
		queue: messagebus.Bus.Transitions.Chan(0),
	}
}

// Run - background process loop
func (t *transitionLogger) Run(args interface{}, shutdown <-chan struct{}) {
	defer messagebus.Bus.Transitions.Release(t.queue)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-t.queue:
			tr, ok := item.Item.(negotiation.Transition)
			if !ok {
				continue loop
			}
			data, err := json.Marshal(tr)
			if nil != err {
				t.log.Errorf("marshal transition error: %s", err)
				continue loop
			}
			t.log.Infof("%s", data)
		}
	}
}
