// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect     string
	fingerprint string
	verbose     bool
	e           io.Writer
	w           io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "iou-cli"
	app.Usage = "issue and inspect IOUs through an ioud node"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2130",
			Usage:  " ioud client RPC `HOST:PORT`",
			EnvVar: "IOU_CLI_CONNECT",
		},
		cli.StringFlag{
			Name:   "fingerprint, f",
			Value:  "",
			Usage:  " expected SHA3-256 of the ioud certificate `HEX`",
			EnvVar: "IOU_CLI_FINGERPRINT",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "propose",
			Usage:     "issue an IOU owed by this node to a counterparty",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Int64Flag{
					Name:  "value, a",
					Usage: "*amount owed `VALUE`",
				},
				cli.StringFlag{
					Name:  "counterparty, p",
					Value: "",
					Usage: "*party name of the lender `NAME`",
				},
				cli.BoolFlag{
					Name:  "background, b",
					Usage: " return the session id without waiting",
				},
			},
			Action: runPropose,
		},
		{
			Name:      "get",
			Usage:     "show a committed IOU",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "txid, t",
					Value: "",
					Usage: "*transaction id `TXID`",
				},
			},
			Action: runGet,
		},
		{
			Name:      "list",
			Usage:     "list committed IOUs",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first vault entry `NUMBER`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum entries `COUNT`",
				},
			},
			Action: runList,
		},
		{
			Name:      "session",
			Usage:     "show a negotiation session, or all sessions",
			ArgsUsage: " ",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: " session `UUID` (default: list all)",
				},
			},
			Action: runSession,
		},
		{
			Name:      "cancel",
			Usage:     "cancel a running proposal",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "id, i",
					Value: "",
					Usage: "*session `UUID`",
				},
			},
			Action: runCancel,
		},
		{
			Name:   "info",
			Usage:  "display ioud status",
			Action: runInfo,
		},
		{
			Name:  "version",
			Usage: "display iou-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		c.App.Metadata["config"] = &metadata{
			connect:     c.GlobalString("connect"),
			fingerprint: c.GlobalString("fingerprint"),
			verbose:     c.GlobalBool("verbose"),
			e:           c.App.ErrWriter,
			w:           c.App.Writer,
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
