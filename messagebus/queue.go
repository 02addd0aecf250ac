// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// default size of a listener channel
const defaultQueueSize = 100

// Message - an event on the bus
type Message struct {
	Command string
	Item    interface{}
}

// BroadcastQueue - deliver each message to every current listener
type BroadcastQueue struct {
	sync.RWMutex
	listeners []chan Message
}

// BusType - the set of queues
type BusType struct {
	Transitions *BroadcastQueue // session state changes
}

// Bus - the process wide bus
var Bus = BusType{
	Transitions: &BroadcastQueue{},
}

// Send - non blocking delivery to all listeners
func (queue *BroadcastQueue) Send(command string, item interface{}) {
	m := Message{
		Command: command,
		Item:    item,
	}

	queue.RLock()
	defer queue.RUnlock()

	for _, c := range queue.listeners {
		select {
		case c <- m:
		default:
		}
	}
}

// Chan - register a new listener; size 0 selects a default size
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size <= 0 {
		size = defaultQueueSize
	}
	c := make(chan Message, size)

	queue.Lock()
	queue.listeners = append(queue.listeners, c)
	queue.Unlock()

	return c
}

// Release - remove a listener and close its channel
func (queue *BroadcastQueue) Release(c <-chan Message) {
	queue.Lock()
	defer queue.Unlock()

	for i, l := range queue.listeners {
		if (<-chan Message)(l) == c {
			close(l)
			queue.listeners = append(queue.listeners[:i], queue.listeners[i+1:]...)
			return
		}
	}
}

// Listeners - current number of listeners
func (queue *BroadcastQueue) Listeners() int {
	queue.RLock()
	defer queue.RUnlock()
	return len(queue.listeners)
}
