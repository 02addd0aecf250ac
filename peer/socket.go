// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"strconv"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ioud/fault"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// to ensure only one auth start
var oneTimeAuthStart sync.Once

// startAuthentication - initialise the ZMQ security subsystem
func startAuthentication() error {
	err := error(nil)
	oneTimeAuthStart.Do(func() {
		zmq.AuthSetVerbose(false)
		err = zmq.AuthStart()
	})
	return err
}

// canonicalAddress - "host:port" as a zmq tcp endpoint plus its IPv6 flag
func canonicalAddress(hostPort string) (string, bool, error) {
	host, port, err := net.SplitHostPort(hostPort)
	if nil != err {
		return "", false, fault.InvalidIpAddress
	}
	n, err := strconv.Atoi(port)
	if nil != err || n < 1 || n > 65535 {
		return "", false, fault.InvalidIpAddress
	}

	if "*" == host {
		return "tcp://*:" + port, false, nil
	}
	ip := net.ParseIP(host)
	if nil == ip {
		// a host name, resolved by zmq on connect
		return "tcp://" + hostPort, false, nil
	}
	if nil != ip.To4() {
		return "tcp://" + ip.String() + ":" + port, false, nil
	}
	return "tcp://[" + ip.String() + "]:" + port, true, nil
}

// newServerSocket - a CURVE server socket; only the listed client keys
// may connect, or any client when the list is empty
func newServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, clientKeys [][]byte, v6 bool) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	if 0 == len(clientKeys) {
		zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)
	} else {
		for _, key := range clientKeys {
			zmq.AuthCurveAdd(zapDomain, zmq.Z85encode(string(key)))
		}
	}

	err = socket.SetCurveServer(1)
	if nil != err {
		goto failure
	}
	err = socket.SetCurveSecretkey(string(privateKey))
	if nil != err {
		goto failure
	}
	err = socket.SetZapDomain(zapDomain)
	if nil != err {
		goto failure
	}
	err = socket.SetIpv6(v6)
	if nil != err {
		goto failure
	}
	err = socket.SetLinger(0)
	if nil != err {
		goto failure
	}

	// heartbeat needs zmq 4.2
	err = socket.SetHeartbeatIvl(heartbeatInterval)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTimeout(heartbeatTimeout)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTtl(heartbeatTTL)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	return socket, nil

failure:
	socket.Close()
	return nil, err
}

// newClientSocket - a CURVE REQ socket connected to one server
func newClientSocket(privateKey []byte, publicKey []byte, serverPublicKey []byte, address string, v6 bool) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(zmq.REQ)
	if nil != err {
		return nil, err
	}

	err = socket.SetCurveServer(0)
	if nil != err {
		goto failure
	}
	err = socket.SetCurvePublickey(string(publicKey))
	if nil != err {
		goto failure
	}
	err = socket.SetCurveSecretkey(string(privateKey))
	if nil != err {
		goto failure
	}
	err = socket.SetCurveServerkey(string(serverPublicKey))
	if nil != err {
		goto failure
	}
	err = socket.SetLinger(0)
	if nil != err {
		goto failure
	}
	err = socket.SetIpv6(v6)
	if nil != err {
		goto failure
	}
	err = socket.Connect(address)
	if nil != err {
		goto failure
	}
	return socket, nil

failure:
	socket.Close()
	return nil, err
}

// newSignalPair - connected push/pull sockets for shutdown signalling
func newSignalPair(signal string) (*zmq.Socket, *zmq.Socket, error) {
	push, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return nil, nil, err
	}
	push.SetLinger(0)
	err = push.Bind(signal)
	if nil != err {
		push.Close()
		return nil, nil, err
	}

	pull, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		push.Close()
		return nil, nil, err
	}
	pull.SetLinger(0)
	err = pull.Connect(signal)
	if nil != err {
		push.Close()
		pull.Close()
		return nil, nil, err
	}
	return push, pull, nil
}
