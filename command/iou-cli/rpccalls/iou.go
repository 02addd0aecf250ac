// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/google/uuid"

	"github.com/bitmark-inc/ioud/digest"
	"github.com/bitmark-inc/ioud/rpc/iou"
)

// Propose - negotiate an IOU and wait for the outcome
func (client *Client) Propose(value int64, counterparty string) (*iou.ProposeReply, error) {
	arguments := iou.ProposeArguments{
		Value:        value,
		Counterparty: counterparty,
	}
	client.printJson("Propose Request", arguments)

	var reply iou.ProposeReply
	if err := client.client.Call("IOU.Propose", &arguments, &reply); nil != err {
		return nil, err
	}

	client.printJson("Propose Reply", reply)
	return &reply, nil
}

// Start - begin negotiating an IOU without waiting
func (client *Client) Start(value int64, counterparty string) (uuid.UUID, error) {
	arguments := iou.ProposeArguments{
		Value:        value,
		Counterparty: counterparty,
	}
	client.printJson("Start Request", arguments)

	var reply iou.StartReply
	if err := client.client.Call("IOU.Start", &arguments, &reply); nil != err {
		return uuid.Nil, err
	}

	client.printJson("Start Reply", reply)
	return reply.SessionId, nil
}

// GetIOU - a committed IOU from the node's vault
func (client *Client) GetIOU(txId digest.Digest) (*iou.GetReply, error) {
	arguments := iou.GetArguments{
		TxId: txId,
	}
	client.printJson("Get Request", arguments)

	var reply iou.GetReply
	if err := client.client.Call("IOU.Get", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}

// ListIOUs - a page of committed IOUs
func (client *Client) ListIOUs(start uint64, count int) (*iou.ListReply, error) {
	arguments := iou.ListArguments{
		Start: start,
		Count: count,
	}
	client.printJson("List Request", arguments)

	var reply iou.ListReply
	if err := client.client.Call("IOU.List", &arguments, &reply); nil != err {
		return nil, err
	}
	return &reply, nil
}
