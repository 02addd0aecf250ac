// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/background"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/fixtures"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/mocks"
	"github.com/bitmark-inc/ioud/peer"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

const listenAddress = "127.0.0.1:27361"

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type keys struct {
	public  []byte
	private []byte
}

func makeKeys(t *testing.T, dir string, name string) keys {
	publicFile := filepath.Join(dir, name+".public")
	privateFile := filepath.Join(dir, name+".private")
	require.Nil(t, peer.MakeKeyPair(publicFile, privateFile), "make keypair")

	public, err := peer.ReadPublicKeyFile(publicFile)
	require.Nil(t, err, "read public")
	private, err := peer.ReadPrivateKeyFile(privateFile)
	require.Nil(t, err, "read private")
	return keys{public: public, private: private}
}

func TestKeyPairFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "peer")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	k := makeKeys(t, dir, "node")
	assert.Equal(t, 32, len(k.public), "public length")
	assert.Equal(t, 32, len(k.private), "private length")

	err = peer.MakeKeyPair(filepath.Join(dir, "node.public"), filepath.Join(dir, "other.private"))
	assert.Equal(t, fault.KeyFileAlreadyExists, err, "overwrote key file")

	_, err = peer.ReadPublicKeyFile(filepath.Join(dir, "node.private"))
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "private read as public")
	_, err = peer.ReadPrivateKeyFile(filepath.Join(dir, "node.public"))
	assert.Equal(t, fault.InvalidPrivateKeyFile, err, "public read as private")

	_, _, err = peer.ParseKey("PUBLIC:0102")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "short key")
	_, _, err = peer.ParseKey("SECRET:0102")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "unknown tag")
}

func TestClientAndListener(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	dir, err := ioutil.TempDir("", "peer")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	serverKeys := makeKeys(t, dir, "server")
	clientKeys := makeKeys(t, dir, "client")

	a := fixtures.NewIdentity("PartyA")
	b := fixtures.NewIdentity("PartyB")
	stx, err := endorsement.SignLocally(transactionrecord.NewCreate(iou.New(10, a.Party, b.Party)), a)
	require.Nil(t, err, "sign error")
	id, _ := stx.Id()
	signature := b.PrivateKey.Sign(id[:])
	sessionId := uuid.New()

	responder := mocks.NewMockResponder(ctl)
	responder.EXPECT().HandleProposal(gomock.Any(), "PartyA", sessionId, gomock.Any()).DoAndReturn(
		func(ctx context.Context, from string, sessionId uuid.UUID, received *transactionrecord.SignedTransaction) (account.Signature, error) {
			receivedId, err := received.Id()
			if nil != err || receivedId != id {
				return nil, fault.DigestMismatch
			}
			return signature, nil
		}).Times(1)
	responder.EXPECT().HandleProposal(gomock.Any(), "PartyA", gomock.Not(sessionId), gomock.Any()).Return(nil, fault.SenderIsRecipient).Times(1)
	responder.EXPECT().HandleFinalise(gomock.Any(), "PartyA", sessionId, gomock.Any()).Return(nil).Times(1)
	responder.EXPECT().HandleAbandon(gomock.Any(), "PartyA", sessionId, "user cancelled").Return(fault.SessionNotFound).Times(1)

	listener, err := peer.NewListener(responder, serverKeys.private, [][]byte{clientKeys.public}, []string{listenAddress}, time.Second)
	require.Nil(t, err, "listener error")
	processes := background.Start(background.Processes{listener}, nil)
	defer processes.Stop()

	client, err := peer.NewClient("PartyA", clientKeys.private, clientKeys.public, 5*time.Second)
	require.Nil(t, err, "client error")
	require.Nil(t, client.AddNode("PartyB", listenAddress, serverKeys.public), "add node")
	assert.Equal(t, fault.PartyAlreadyExists, client.AddNode("PartyB", listenAddress, serverKeys.public), "duplicate node")

	ctx := context.Background()

	received, err := client.Propose(ctx, b.Party, sessionId, stx)
	assert.Nil(t, err, "propose error")
	assert.Equal(t, signature, received, "signature")

	// the acceptor's reason arrives unchanged
	_, err = client.Propose(ctx, b.Party, uuid.New(), stx)
	assert.Equal(t, fault.SenderIsRecipient, err, "rejection")

	assert.Nil(t, client.Finalise(ctx, b.Party, sessionId, stx), "finalise error")
	assert.Equal(t, fault.SessionNotFound, client.Abandon(ctx, b.Party, sessionId, "user cancelled"), "abandon error")

	// no route to an unknown party
	_, err = client.Propose(ctx, a.Party, sessionId, stx)
	assert.Equal(t, fault.PeerUnreachable, err, "unknown node")
}

func TestClientHonoursContext(t *testing.T) {
	dir, err := ioutil.TempDir("", "peer")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	serverKeys := makeKeys(t, dir, "server")
	clientKeys := makeKeys(t, dir, "client")

	a := fixtures.NewIdentity("PartyA")
	b := fixtures.NewIdentity("PartyB")
	stx, err := endorsement.SignLocally(transactionrecord.NewCreate(iou.New(10, a.Party, b.Party)), a)
	require.Nil(t, err, "sign error")

	// nothing listens here
	client, err := peer.NewClient("PartyA", clientKeys.private, clientKeys.public, 0)
	require.Nil(t, err, "client error")
	require.Nil(t, client.AddNode("PartyB", "127.0.0.1:27362", serverKeys.public), "add node")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = client.Propose(ctx, b.Party, uuid.New(), stx)
	assert.Equal(t, context.DeadlineExceeded, err, "wrong error")

	client, err = peer.NewClient("PartyA", clientKeys.private, clientKeys.public, 200*time.Millisecond)
	require.Nil(t, err, "client error")
	require.Nil(t, client.AddNode("PartyB", "127.0.0.1:27362", serverKeys.public), "add node")
	_, err = client.Propose(context.Background(), b.Party, uuid.New(), stx)
	assert.Equal(t, fault.Timeout, err, "wrong error")
}

func TestListenerHandlesRequestsConcurrently(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	dir, err := ioutil.TempDir("", "peer")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	serverKeys := makeKeys(t, dir, "server")
	clientKeys := makeKeys(t, dir, "client")

	a := fixtures.NewIdentity("PartyA")
	b := fixtures.NewIdentity("PartyB")
	stx, err := endorsement.SignLocally(transactionrecord.NewCreate(iou.New(10, a.Party, b.Party)), a)
	require.Nil(t, err, "sign error")
	id, _ := stx.Id()
	signature := b.PrivateKey.Sign(id[:])
	sessionId := uuid.New()

	// the proposal is held until the abandon arrives, so the two
	// requests must be handled at the same time
	entered := make(chan struct{})
	released := make(chan struct{})
	responder := mocks.NewMockResponder(ctl)
	responder.EXPECT().HandleProposal(gomock.Any(), "PartyA", sessionId, gomock.Any()).DoAndReturn(
		func(ctx context.Context, from string, sessionId uuid.UUID, received *transactionrecord.SignedTransaction) (account.Signature, error) {
			close(entered)
			select {
			case <-released:
				return signature, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}).Times(1)
	responder.EXPECT().HandleAbandon(gomock.Any(), "PartyA", sessionId, "decided elsewhere").DoAndReturn(
		func(ctx context.Context, from string, sessionId uuid.UUID, reason string) error {
			close(released)
			return nil
		}).Times(1)

	address := "127.0.0.1:27363"
	listener, err := peer.NewListener(responder, serverKeys.private, [][]byte{clientKeys.public}, []string{address}, 5*time.Second)
	require.Nil(t, err, "listener error")
	processes := background.Start(background.Processes{listener}, nil)
	defer processes.Stop()

	client, err := peer.NewClient("PartyA", clientKeys.private, clientKeys.public, 5*time.Second)
	require.Nil(t, err, "client error")
	require.Nil(t, client.AddNode("PartyB", address, serverKeys.public), "add node")

	type result struct {
		signature account.Signature
		err       error
	}
	proposed := make(chan result, 1)
	go func() {
		s, err := client.Propose(context.Background(), b.Party, sessionId, stx)
		proposed <- result{s, err}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("proposal not received")
	}

	started := time.Now()
	assert.Nil(t, client.Abandon(context.Background(), b.Party, sessionId, "decided elsewhere"), "abandon error")
	assert.True(t, time.Since(started) < 2*time.Second, "abandon waited for the proposal")

	select {
	case r := <-proposed:
		assert.Nil(t, r.err, "propose error")
		assert.Equal(t, signature, r.signature, "signature")
	case <-time.After(5 * time.Second):
		t.Fatal("proposal did not finish")
	}
}
