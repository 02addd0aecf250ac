// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/rpc/node"
	"github.com/bitmark-inc/ioud/rpc/session"
)

// GetSession - state and transition log of one session
func (client *Client) GetSession(id uuid.UUID) (*session.Reply, error) {
	arguments := session.Arguments{
		Id: id,
	}
	var reply session.Reply
	if err := client.client.Call("Session.Get", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// ListSessions - every session the node holds
func (client *Client) ListSessions() (*session.ListReply, error) {
	var reply session.ListReply
	if err := client.client.Call("Session.List", &session.ListArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// CancelSession - abandon a running initiator session
func (client *Client) CancelSession(id uuid.UUID) error {
	arguments := session.Arguments{
		Id: id,
	}
	client.printJson("Cancel Request", arguments)

	var reply session.CancelReply
	return client.client.Call("Session.Cancel", &arguments, &reply)
}

// GetInfo - request status from ioud
func (client *Client) GetInfo() (*node.InfoReply, error) {
	var reply node.InfoReply
	if err := client.client.Call("Node.Info", &node.InfoArguments{}, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
