// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"bytes"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"

	"golang.org/x/crypto/sha3"
)

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to an ioud
//
// the daemon certificate is self signed; when fingerprint is not blank
// it must match the SHA3-256 of the server certificate
func NewClient(connect string, fingerprint string, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	if "" != fingerprint {
		if err := checkFingerprint(conn, fingerprint); nil != err {
			conn.Close()
			return nil, err
		}
	}

	r := &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		verbose: verbose,
		handle:  handle,
	}
	return r, nil
}

// Close - shutdown the ioud connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

func checkFingerprint(conn *tls.Conn, fingerprint string) error {
	expected, err := hex.DecodeString(fingerprint)
	if nil != err {
		return fmt.Errorf("invalid fingerprint: %q", fingerprint)
	}
	certificates := conn.ConnectionState().PeerCertificates
	if 0 == len(certificates) {
		return fmt.Errorf("server sent no certificate")
	}
	actual := sha3.Sum256(certificates[0].Raw)
	if !bytes.Equal(expected, actual[:]) {
		return fmt.Errorf("certificate fingerprint: %x  expected: %s", actual, fingerprint)
	}
	return nil
}
