// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/ioud/contract"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/negotiation"
	"github.com/bitmark-inc/ioud/rpc/listeners"
	"github.com/bitmark-inc/ioud/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultSeedFile           = "ioud.seed"
	defaultPartiesFile        = "parties.json"
	defaultPeerPublicKeyFile  = "peer.public"
	defaultPeerPrivateKeyFile = "peer.private"
	defaultKeyFile            = "rpc.key"
	defaultCertificateFile    = "rpc.crt"

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "ioud.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "ioud.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients  = 10
	defaultPeerTimeout = "30s"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - leveldb location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// IdentityType - the party this node acts for
type IdentityType struct {
	Name     string `gluamapper:"name" json:"name"`
	SeedFile string `gluamapper:"seed_file" json:"seed_file"`
}

// Connection - a counterparty node
//
// public_key is the tagged CURVE key, "PUBLIC:<hex>"
type Connection struct {
	Name      string `gluamapper:"name" json:"name"`
	Address   string `gluamapper:"address" json:"address"`
	PublicKey string `gluamapper:"public_key" json:"public_key"`
}

// PeerType - node to node transport
type PeerType struct {
	Listen     []string     `gluamapper:"listen" json:"listen"`
	PrivateKey string       `gluamapper:"private_key" json:"private_key"`
	PublicKey  string       `gluamapper:"public_key" json:"public_key"`
	Timeout    string       `gluamapper:"timeout" json:"timeout"`
	Connect    []Connection `gluamapper:"connect" json:"connect"`
}

// MetricsType - prometheus endpoint, blank to disable
type MetricsType struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// NegotiationType - session settings; durations use time.ParseDuration
// syntax and blank keeps the default
type NegotiationType struct {
	SignerPolicy     string `gluamapper:"signer_policy" json:"signer_policy"`
	SessionTimeout   string `gluamapper:"session_timeout" json:"session_timeout"`
	SignatureTimeout string `gluamapper:"signature_timeout" json:"signature_timeout"`
	CleanupInterval  string `gluamapper:"cleanup_interval" json:"cleanup_interval"`
	AbandonTimeout   string `gluamapper:"abandon_timeout" json:"abandon_timeout"`
}

// Configuration - the whole daemon configuration
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	PartiesFile   string       `gluamapper:"parties_file" json:"parties_file"`
	Database      DatabaseType `gluamapper:"database" json:"database"`
	Identity      IdentityType `gluamapper:"identity" json:"identity"`

	Peering     PeerType                   `gluamapper:"peering" json:"peering"`
	ClientRPC   listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Metrics     MetricsType                `gluamapper:"metrics" json:"metrics"`
	Negotiation NegotiationType            `gluamapper:"negotiation" json:"negotiation"`
	Logging     logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// GetConfiguration - will read decode and verify the configuration
func GetConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		PartiesFile:   defaultPartiesFile,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Identity: IdentityType{
			SeedFile: defaultSeedFile,
		},

		Peering: PeerType{
			PublicKey:  defaultPeerPublicKeyFile,
			PrivateKey: defaultPeerPrivateKeyFile,
			Timeout:    defaultPeerTimeout,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	if "" == options.Identity.Name {
		return nil, fmt.Errorf("Identity: name is required")
	}

	// check values that are parsed later
	if _, err := options.NegotiationConfig(); nil != err {
		return nil, err
	}
	if _, err := options.PeerTimeout(); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.PartiesFile,
		&options.Database.Directory,
		&options.Identity.SeedFile,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.Peering.PublicKey,
		&options.Peering.PrivateKey,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// NegotiationConfig - engine settings with defaults for blank values
func (c *Configuration) NegotiationConfig() (negotiation.Config, error) {
	config := negotiation.DefaultConfig()

	policy, err := contract.PolicyFromString(c.Negotiation.SignerPolicy)
	if nil != err {
		return config, err
	}
	config.Policy = policy

	durations := []struct {
		text  string
		value *time.Duration
	}{
		{c.Negotiation.SessionTimeout, &config.SessionTimeout},
		{c.Negotiation.SignatureTimeout, &config.SignatureTimeout},
		{c.Negotiation.CleanupInterval, &config.CleanupInterval},
		{c.Negotiation.AbandonTimeout, &config.AbandonTimeout},
	}
	for _, d := range durations {
		if "" == d.text {
			continue
		}
		if err := parseDuration(d.text, d.value); nil != err {
			return config, err
		}
	}
	return config, nil
}

// PeerTimeout - limit on one peer request
func (c *Configuration) PeerTimeout() (time.Duration, error) {
	var timeout time.Duration
	if "" == c.Peering.Timeout {
		return 0, nil
	}
	err := parseDuration(c.Peering.Timeout, &timeout)
	return timeout, err
}

func parseDuration(text string, value *time.Duration) error {
	d, err := time.ParseDuration(text)
	if nil != err || d <= 0 {
		return fault.InvalidDuration
	}
	*value = d
	return nil
}
