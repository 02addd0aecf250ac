// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/background"
	"github.com/bitmark-inc/ioud/configuration"
	"github.com/bitmark-inc/ioud/counter"
	"github.com/bitmark-inc/ioud/identity"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/negotiation"
	"github.com/bitmark-inc/ioud/notary"
	"github.com/bitmark-inc/ioud/peer"
	"github.com/bitmark-inc/ioud/rpc/certificate"
	"github.com/bitmark-inc/ioud/rpc/listeners"
	"github.com/bitmark-inc/ioud/rpc/server"
	"github.com/bitmark-inc/ioud/storage"
	"github.com/bitmark-inc/ioud/vault"
)

// the assembled daemon
type node struct {
	store     *storage.Store
	engine    *negotiation.Engine
	processes background.Processes
}

// open storage, load keys and connect every component
func newNode(log *logger.L, options *configuration.Configuration) (*node, error) {
	n := &node{}

	config, err := options.NegotiationConfig()
	if nil != err {
		return nil, err
	}
	peerTimeout, err := options.PeerTimeout()
	if nil != err {
		return nil, err
	}

	// identity and the parties directory
	log.Info("initialise identity")
	privateKey, err := identity.ReadSeedFile(options.Identity.SeedFile)
	if nil != err {
		log.Criticalf("read seed file: %q  error: %s", options.Identity.SeedFile, err)
		return nil, err
	}
	signer, err := identity.NewSigner(options.Identity.Name, privateKey)
	if nil != err {
		return nil, err
	}
	directory, err := identity.LoadDirectory(options.PartiesFile)
	if nil != err {
		log.Criticalf("read parties file: %q  error: %s", options.PartiesFile, err)
		return nil, err
	}
	local := identity.New(signer, directory)
	log.Infof("account: %s", signer.Account())

	watcher, err := identity.NewWatcher(directory, options.PartiesFile)
	if nil != err {
		return nil, err
	}
	n.processes = append(n.processes, watcher)

	// storage for the notary and vault
	log.Info("initialise storage")
	n.store, err = storage.Open(options.Database.Name, false)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		return nil, err
	}
	notaryService := notary.New(n.store, config.Policy)
	records := vault.New(n.store)

	// peer transport
	log.Info("initialise peering")
	peerPrivateKey, err := peer.ReadPrivateKeyFile(options.Peering.PrivateKey)
	if nil != err {
		n.finalise()
		return nil, err
	}
	peerPublicKey, err := peer.ReadPublicKeyFile(options.Peering.PublicKey)
	if nil != err {
		n.finalise()
		return nil, err
	}
	client, err := peer.NewClient(options.Identity.Name, peerPrivateKey, peerPublicKey, peerTimeout)
	if nil != err {
		n.finalise()
		return nil, err
	}
	for _, c := range options.Peering.Connect {
		serverKey, err := peer.ReadPublicKey(c.PublicKey)
		if nil != err {
			log.Errorf("connect: %q  public key error: %s", c.Name, err)
			n.finalise()
			return nil, err
		}
		if err := client.AddNode(c.Name, c.Address, serverKey); nil != err {
			log.Errorf("connect: %q  address: %q  error: %s", c.Name, c.Address, err)
			n.finalise()
			return nil, err
		}
	}

	// negotiation
	n.engine, err = negotiation.New(config, local, client, notaryService, records, nil)
	if nil != err {
		n.finalise()
		return nil, err
	}
	n.processes = append(n.processes, newTransitionLogger())

	if len(options.Peering.Listen) > 0 {
		listener, err := peer.NewListener(n.engine, peerPrivateKey, client.ServerKeys(), options.Peering.Listen, peerTimeout)
		if nil != err {
			n.finalise()
			return nil, err
		}
		n.processes = append(n.processes, listener)
	} else {
		log.Warn("peering listen is empty: cannot accept proposals")
	}

	// client RPC
	if len(options.ClientRPC.Listen) > 0 {
		rpcLog := logger.New(logName)
		tlsConfig, fingerprint, err := certificate.Load(rpcLog, logName, options.ClientRPC.Certificate, options.ClientRPC.PrivateKey)
		if nil != err {
			n.finalise()
			return nil, err
		}
		var rpcCount counter.Counter
		rpcServer := server.Create(rpcLog, version, &rpcCount, n.engine, records)
		rpcListener, err := listeners.NewRPC(&options.ClientRPC, rpcLog, &rpcCount, rpcServer, tlsConfig, fingerprint)
		if nil != err {
			n.finalise()
			return nil, err
		}
		n.processes = append(n.processes, rpcListener)
	}

	if "" != options.Metrics.Listen {
		n.processes = append(n.processes, metrics.NewServer(options.Metrics.Listen))
	}

	return n, nil
}

func (n *node) finalise() {
	if nil != n.engine {
		n.engine.Shutdown()
	}
	if nil != n.store {
		n.store.Close()
		n.store = nil
	}
}
