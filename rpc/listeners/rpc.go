// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/counter"
	"github.com/bitmark-inc/ioud/fault"
)

const (
	logName            = "client_rpc"
	minConnectionCount = 1
)

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

// RPCListener - JSON RPC over TLS, run as a background process
type RPCListener struct {
	log            *logger.L
	count          *counter.Counter
	server         *rpc.Server
	maxConnections uint64
	tlsConfig      *tls.Config
	ipType         []string
	listen         []string

	sync.Mutex
	listeners []net.Listener
}

// NewRPC - validate the configuration and create a listener
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	server *rpc.Server,
	tlsConfig *tls.Config,
	certificateFingerprint [32]byte,
) (*RPCListener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.MissingParameters
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", logName, certificateFingerprint)

	listen := make([]string, len(configuration.Listen))
	copy(listen, configuration.Listen)

	ipType, err := parseListenAddress(listen, log)
	if nil != err {
		return nil, err
	}

	return &RPCListener{
		log:            log,
		count:          count,
		server:         server,
		maxConnections: configuration.MaximumConnections,
		tlsConfig:      tlsConfig,
		ipType:         ipType,
		listen:         listen,
	}, nil
}

// Serve - open every listen address and start accepting
func (r *RPCListener) Serve() error {
	r.Lock()
	defer r.Unlock()

	for i, listen := range r.listen {
		r.log.Infof("starting RPC server: %s", listen)
		l, err := tls.Listen(r.ipType[i], listen, r.tlsConfig)
		if nil != err {
			r.log.Errorf("rpc server listen error: %s", err)
			r.closeAll()
			return err
		}
		r.listeners = append(r.listeners, l)

		go r.accept(l)
	}
	return nil
}

// Run - background process wrapper for Serve
func (r *RPCListener) Run(args interface{}, shutdown <-chan struct{}) {
	if err := r.Serve(); nil != err {
		r.log.Criticalf("rpc server failed to start: %s", err)
		<-shutdown
		return
	}

	<-shutdown

	r.Lock()
	r.closeAll()
	r.Unlock()
	r.log.Info("stopped")
}

// Addresses - actual bound addresses, for listeners started on port 0
func (r *RPCListener) Addresses() []string {
	r.Lock()
	defer r.Unlock()

	addresses := make([]string, len(r.listeners))
	for i, l := range r.listeners {
		addresses[i] = l.Addr().String()
	}
	return addresses
}

func (r *RPCListener) closeAll() {
	for _, l := range r.listeners {
		_ = l.Close()
	}
	r.listeners = nil
}

func (r *RPCListener) accept(listen net.Listener) {
	for {
		conn, err := listen.Accept()
		if nil != err {
			r.log.Infof("rpc accept terminated: %s", err)
			return
		}
		if !r.count.IncrementBelow(r.maxConnections) {
			r.log.Warnf("connection limit reached: %d  rejecting: %s", r.maxConnections, conn.RemoteAddr())
			_ = conn.Close()
			continue
		}
		go func() {
			r.server.ServeCodec(jsonrpc.NewServerCodec(conn))
			_ = conn.Close()
			r.count.Decrement()
		}()
	}
}

// "*:PORT" listens on both IPv4 and IPv6
func parseListenAddress(addrs []string, log *logger.L) ([]string, error) {
	parsed := make([]string, len(addrs))
	for i, listen := range addrs {
		if "" == listen || !strings.Contains(listen, ":") {
			log.Errorf("rpc server listen error: %q", listen)
			return nil, fault.InvalidIpAddress
		}
		host := ""
		if '*' == listen[0] {
			addrs[i] = "[::]" + ":" + strings.Split(listen, ":")[1]
			host = "::"
			parsed[i] = "tcp"
		} else if '[' == listen[0] {
			host = strings.Split(listen[1:], "]:")[0]
			parsed[i] = "tcp6"
		} else {
			host = strings.Split(listen, ":")[0]
			parsed[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			err := fault.InvalidIpAddress
			log.Errorf("rpc server listen error: %s", err)
			return nil, err
		}
	}

	return parsed, nil
}
