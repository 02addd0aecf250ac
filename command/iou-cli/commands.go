// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/ioud/command/iou-cli/rpccalls"
	"github.com/bitmark-inc/ioud/digest"
)

func runPropose(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	value := c.Int64("value")
	counterparty, err := checkName(c.String("counterparty"))
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "value: %d\n", value)
		fmt.Fprintf(m.e, "counterparty: %s\n", counterparty)
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	if c.Bool("background") {
		id, err := client.Start(value, counterparty)
		if nil != err {
			return err
		}
		printJson(m.w, map[string]uuid.UUID{"sessionId": id})
		return nil
	}

	reply, err := client.Propose(value, counterparty)
	if nil != err {
		return err
	}
	printJson(m.w, reply)
	return nil
}

func runGet(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	txId, err := checkTxId(c.String("txid"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetIOU(txId)
	if nil != err {
		return err
	}
	printJson(m.w, reply)
	return nil
}

func runList(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.ListIOUs(c.Uint64("start"), c.Int("count"))
	if nil != err {
		return err
	}
	printJson(m.w, reply)
	return nil
}

func runSession(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	if "" == c.String("id") {
		reply, err := client.ListSessions()
		if nil != err {
			return err
		}
		printJson(m.w, reply)
		return nil
	}

	id, err := checkSessionId(c.String("id"))
	if nil != err {
		return err
	}
	reply, err := client.GetSession(id)
	if nil != err {
		return err
	}
	printJson(m.w, reply)
	return nil
}

func runCancel(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := checkSessionId(c.String("id"))
	if nil != err {
		return err
	}

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	if err := client.CancelSession(id); nil != err {
		return err
	}
	fmt.Fprintf(m.w, "cancel requested: %s\n", id)
	return nil
}

func runInfo(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.GetInfo()
	if nil != err {
		return err
	}
	printJson(m.w, reply)
	return nil
}

// ---

func connect(m *metadata) (*rpccalls.Client, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "connect: %s\n", m.connect)
	}
	return rpccalls.NewClient(m.connect, m.fingerprint, m.verbose, m.e)
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if "" == name {
		return "", fmt.Errorf("counterparty is required")
	}
	return name, nil
}

func checkTxId(txId string) (digest.Digest, error) {
	if "" == txId {
		return digest.Digest{}, fmt.Errorf("transaction id is required")
	}
	return digest.FromString(txId)
}

func checkSessionId(id string) (uuid.UUID, error) {
	if "" == id {
		return uuid.Nil, fmt.Errorf("session id is required")
	}
	return uuid.Parse(id)
}

func printJson(handle io.Writer, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(handle, "JSON error: %s\n", err)
		return
	}
	fmt.Fprintf(handle, "%s\n", b)
}
