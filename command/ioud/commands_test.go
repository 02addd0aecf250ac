// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVariables(t *testing.T) {
	variables, err := parseVariables([]string{"party=PartyB", " port = 2236", "empty="})
	assert.Nil(t, err, "parse error")
	assert.Equal(t, map[string]string{"party": "PartyB", "port": "2236", "empty": ""}, variables, "wrong variables")

	for _, bad := range []string{"novalue", "=value"} {
		_, err := parseVariables([]string{bad})
		assert.NotNil(t, err, "%q accepted", bad)
	}
}

func TestGetFilenameWithDirectory(t *testing.T) {
	assert.Equal(t, "ioud.seed", getFilenameWithDirectory(nil, seedFilename), "default directory")
	assert.Equal(t, filepath.Join("keys", "peer.public"), getFilenameWithDirectory([]string{"keys", "x"}, peerPublicKeyFilename), "given directory")
}
