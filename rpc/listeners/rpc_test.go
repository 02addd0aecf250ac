// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"crypto/tls"
	"io/ioutil"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ioud/background"
	"github.com/bitmark-inc/ioud/counter"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/fixtures"
	"github.com/bitmark-inc/ioud/rpc/certificate"
	"github.com/bitmark-inc/ioud/rpc/listeners"
)

type Add struct{}
type AddArg struct {
	A, B int
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func tlsSetup(t *testing.T) (*tls.Config, [32]byte) {
	dir, err := ioutil.TempDir("", "listeners")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	certFile := filepath.Join(dir, "rpc.crt")
	keyFile := filepath.Join(dir, "rpc.key")
	require.Nil(t, certificate.MakeSelfSigned("test", certFile, keyFile, false, nil), "certificate")

	tlsConfig, fin, err := certificate.Load(logger.New(fixtures.LogCategory), "test", certFile, keyFile)
	require.Nil(t, err, "load certificate")
	return tlsConfig, fin
}

func TestRpcListenerServe(t *testing.T) {
	tlsConfig, fin := tlsSetup(t)

	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:0"},
	}
	count := counter.Counter(0)

	s := rpc.NewServer()
	require.Nil(t, s.Register(Add{}), "register")

	l, err := listeners.NewRPC(&con, logger.New(fixtures.LogCategory), &count, s, tlsConfig, fin)
	require.Nil(t, err, "wrong NewRPC")

	processes := background.Start(background.Processes{l}, nil)
	defer processes.Stop()

	var addresses []string
	for i := 0; i < 50 && 0 == len(addresses); i += 1 {
		time.Sleep(10 * time.Millisecond)
		addresses = l.Addresses()
	}
	require.Equal(t, 1, len(addresses), "not listening")

	c, err := tls.Dial("tcp", addresses[0], &tls.Config{InsecureSkipVerify: true})
	require.Nil(t, err, "dial error")

	client := jsonrpc.NewClient(c)
	defer client.Close()

	arg := AddArg{A: 2, B: 5}
	var reply int
	err = client.Call("Add.Add", &arg, &reply)
	assert.Nil(t, err, "wrong client Call")
	assert.Equal(t, arg.A+arg.B, reply, "wrong result")
	assert.Equal(t, uint64(1), count.Uint64(), "connection not counted")
}

func TestRpcListenerConfigurationErrors(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	count := counter.Counter(0)
	s := rpc.NewServer()

	items := []struct {
		con listeners.RPCConfiguration
		err error
	}{
		{listeners.RPCConfiguration{MaximumConnections: 0, Listen: []string{"127.0.0.1:2130"}}, fault.MissingParameters},
		{listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{}}, fault.MissingParameters},
		{listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{"localhost:2130"}}, fault.InvalidIpAddress},
		{listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{"2130"}}, fault.InvalidIpAddress},
	}
	for i, item := range items {
		_, err := listeners.NewRPC(&item.con, log, &count, s, &tls.Config{}, [32]byte{})
		assert.Equal(t, item.err, err, "%d: wrong error", i)
	}

	for _, listen := range []string{"*:2130", "[::1]:2130", "127.0.0.1:2130"} {
		con := listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{listen}}
		_, err := listeners.NewRPC(&con, log, &count, s, &tls.Config{}, [32]byte{})
		assert.Nil(t, err, "%s: error", listen)
	}
}
