// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/configuration"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/identity"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/peer"
	"github.com/bitmark-inc/ioud/rpc/certificate"
)

const (
	logName = "client_rpc"

	seedFilename           = "ioud.seed"
	peerPublicKeyFilename  = "peer.public"
	peerPrivateKeyFilename = "peer.private"

	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-identity", "identity":
		if len(arguments) < 1 || "" == arguments[0] {
			exitwithstatus.Message("missing party name argument")
		}
		name := arguments[0]
		seedFile := getFilenameWithDirectory(arguments[1:], seedFilename)

		privateKey, err := account.NewPrivateKey(rand.Reader)
		if nil != err {
			exitwithstatus.Message("generate seed: %q error: %s", seedFile, err)
		}
		p, err := party.New(name, privateKey.Account())
		if nil != err {
			exitwithstatus.Message("party: %q error: %s", name, err)
		}
		if err := identity.WriteSeedFile(seedFile, privateKey); nil != err {
			exitwithstatus.Message("generate seed: %q error: %s", seedFile, err)
		}
		fmt.Printf("generated seed: %q\n", seedFile)
		fmt.Printf("parties file entry:\n")
		printJSON(p)

	case "gen-peer-identity", "peer":
		publicKeyFilename := getFilenameWithDirectory(arguments, peerPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, peerPrivateKeyFilename)
		err := peer.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := certificate.MakeSelfSigned("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg", "show-party", "party", "show-peer", "connect":
		return false // defer processing until configuration is read

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] [--set=KEY=VALUE...] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)        - display this message\n\n")
		fmt.Printf("  version                    (v)        - display version sting\n\n")

		fmt.Printf("  gen-identity NAME [DIR]    (identity) - create the party seed in: %q\n", "DIR/"+seedFilename)
		fmt.Printf("                                          and print its parties file entry\n")
		fmt.Printf("\n")

		fmt.Printf("  gen-peer-identity [DIR]    (peer)     - create private key in: %q\n", "DIR/"+peerPrivateKeyFilename)
		fmt.Printf("                                          and the public key in: %q\n", "DIR/"+peerPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)      - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                          and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]           - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                          and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)      - just run the program, same as no arguments\n")
		fmt.Printf("                                          for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)      - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  show-party                 (party)    - print this node's parties file entry\n")
		fmt.Printf("\n")

		fmt.Printf("  show-peer [ADDRESS]        (connect)  - print the peering connect entry other nodes need\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "config-test", "cfg":
		printJSON(options)

	case "show-party", "party":
		privateKey, err := identity.ReadSeedFile(options.Identity.SeedFile)
		if nil != err {
			exitwithstatus.Message("error: seed file: %q  error: %s", options.Identity.SeedFile, err)
		}
		p, err := party.New(options.Identity.Name, privateKey.Account())
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		printJSON(p)

	case "show-peer", "connect":
		publicKey, err := peer.ReadPublicKeyFile(options.Peering.PublicKey)
		if nil != err {
			exitwithstatus.Message("error: public key: %q  error: %s", options.Peering.PublicKey, err)
		}
		address := ""
		if len(arguments) > 0 {
			address = arguments[0]
		} else if len(options.Peering.Listen) > 0 {
			address = options.Peering.Listen[0]
		}
		printJSON(configuration.Connection{
			Name:      options.Identity.Name,
			Address:   address,
			PublicKey: "PUBLIC:" + hex.EncodeToString(publicKey),
		})

	default: // unknown commands fall through to the daemon
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// --set=KEY=VALUE options become the Lua "variables" table
func parseVariables(settings []string) (map[string]string, error) {
	variables := make(map[string]string)
	for _, s := range settings {
		kv := strings.SplitN(s, "=", 2)
		if 2 != len(kv) || "" == strings.TrimSpace(kv[0]) {
			return nil, fmt.Errorf("invalid variable setting: %q  %s", s, fault.InvalidValue)
		}
		variables[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return variables, nil
}

func printJSON(item interface{}) {
	b, err := json.Marshal(item)
	if err != nil {
		exitwithstatus.Message("error: %s", err)
	}
	var out bytes.Buffer
	json.Indent(&out, b, "", "  ")
	out.WriteTo(os.Stdout)
	os.Stdout.WriteString("\n")
}

func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
