// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package negotiation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/endorsement"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/iou"
	"github.com/bitmark-inc/ioud/messagebus"
	"github.com/bitmark-inc/ioud/mocks"
	"github.com/bitmark-inc/ioud/party"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

func TestProposeCommitsOnBothSides(t *testing.T) {
	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", testConfig(), nil)
	b := n.start("PartyB", testConfig(), nil)
	defer n.close()

	stx, err := a.engine.Propose(context.Background(), 99, "PartyB")
	require.Nil(t, err, "propose error")

	// the committed output is the draft
	require.Equal(t, 1, len(stx.Tx.Outputs), "output count")
	out := stx.Tx.Outputs[0]
	assert.Equal(t, int64(99), out.Value, "value")
	assert.True(t, a.identity.Party.Equal(out.Sender), "sender")
	assert.True(t, b.identity.Party.Equal(out.Recipient), "recipient")
	assert.True(t, endorsement.IsFullySigned(stx), "not fully signed")

	txId, err := stx.Id()
	require.Nil(t, err, "id error")

	committed, err := a.notary.IsCommitted(txId)
	assert.Nil(t, err, "notary error")
	assert.True(t, committed, "not committed")

	// both vaults hold the same transaction
	for _, node := range []*testNode{a, b} {
		entry, err := node.vault.Get(txId)
		assert.Nil(t, err, "%s: vault error", node.identity.Party.Name)
		if nil != entry {
			assert.True(t, out.Equal(entry.Transaction.Tx.Outputs[0]), "%s: vault output differs", node.identity.Party.Name)
		}
	}

	// the acceptor never commits to its own notary
	committed, err = b.notary.IsCommitted(txId)
	assert.Nil(t, err, "notary error")
	assert.False(t, committed, "acceptor committed")

	initiator := onlySession(t, a.engine)
	assert.Equal(t, Initiator, initiator.Role, "role")
	assert.Equal(t, "PartyB", initiator.Counterparty, "counterparty")
	assert.Equal(t, Committed, initiator.State, "state")
	assert.Equal(t, txId, initiator.TxId, "txId")
	assert.Equal(t, []State{Building, Validating, SigningLocally, AwaitingCounterSignature, Finalizing, Committed}, states(initiator), "initiator path")

	acceptor := onlySession(t, b.engine)
	assert.Equal(t, initiator.Id, acceptor.Id, "session ids differ")
	assert.Equal(t, Acceptor, acceptor.Role, "role")
	assert.Equal(t, "PartyA", acceptor.Counterparty, "counterparty")
	assert.Equal(t, Committed, acceptor.State, "state")
	assert.Equal(t, []State{AwaitingProposal, Validating, Deciding, SigningLocally, Committed}, states(acceptor), "acceptor path")
}

func TestProposeRejectedLocally(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	n := newTestNetwork(t, "PartyA", "PartyB")

	// no calls expected on any of these
	transport := mocks.NewMockTransport(ctl)
	notary := mocks.NewMockNotary(ctl)
	vault := mocks.NewMockVault(ctl)

	e, err := New(testConfig(), n.local("PartyA"), transport, notary, vault, nil)
	require.Nil(t, err, "engine error")
	defer e.Shutdown()

	stx, err := e.Propose(context.Background(), -5, "PartyB")
	assert.Nil(t, stx, "transaction returned")
	assert.Equal(t, fault.NonPositiveValue, err, "wrong error")
	assert.Equal(t, "The IOU's value must be non-negative.", err.Error(), "reason text")

	s := onlySession(t, e)
	assert.Equal(t, Failed, s.State, "state")
	assert.Equal(t, err.Error(), s.Reason, "reason")
	assert.Equal(t, []State{Building, Validating, Failed}, states(s), "path")
}

func TestProposeUnknownCounterparty(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	n := newTestNetwork(t, "PartyA")
	e, err := New(testConfig(), n.local("PartyA"), mocks.NewMockTransport(ctl), mocks.NewMockNotary(ctl), mocks.NewMockVault(ctl), nil)
	require.Nil(t, err, "engine error")
	defer e.Shutdown()

	_, err = e.Propose(context.Background(), 10, "PartyX")
	assert.Equal(t, fault.PartyNotFound, err, "wrong error")

	// proposing to oneself is refused by the contract
	_, err = e.Propose(context.Background(), 10, "PartyA")
	assert.Equal(t, fault.SenderIsRecipient, err, "wrong error")
}

// sends a different proposal from the one the engine built
type rewritingTransport struct {
	Transport
	rewrite func(stx *transactionrecord.SignedTransaction) *transactionrecord.SignedTransaction
}

func (r rewritingTransport) Propose(ctx context.Context, counterparty *party.Party, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error) {
	return r.Transport.Propose(ctx, counterparty, sessionId, r.rewrite(stx))
}

func TestRejectionReasonReachesInitiator(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	n := newTestNetwork(t, "PartyA", "PartyB")
	b := n.start("PartyB", testConfig(), nil)
	defer n.close()

	// a proposal the initiator's own contract would refuse, signed by
	// the initiator so only the acceptor's validation can stop it
	local := n.local("PartyA")
	me := local.Me()
	bad, err := endorsement.SignLocally(transactionrecord.NewCreate(iou.New(10, me, me)), localSigner{local})
	require.Nil(t, err, "sign error")

	transport := rewritingTransport{
		Transport: n.network.Transport("PartyA"),
		rewrite: func(*transactionrecord.SignedTransaction) *transactionrecord.SignedTransaction {
			return bad
		},
	}

	// nothing may be committed or recorded
	notary := mocks.NewMockNotary(ctl)
	vault := mocks.NewMockVault(ctl)

	a, err := New(testConfig(), local, transport, notary, vault, nil)
	require.Nil(t, err, "engine error")
	defer a.Shutdown()

	stx, err := a.Propose(context.Background(), 10, "PartyB")
	assert.Nil(t, stx, "transaction returned")
	assert.Equal(t, fault.SenderIsRecipient, err, "wrong error")
	assert.Equal(t, "The sender and the recipient cannot be the same entity.", err.Error(), "reason text")

	initiator := onlySession(t, a)
	assert.Equal(t, Failed, initiator.State, "initiator state")
	assert.Equal(t, err.Error(), initiator.Reason, "initiator reason")
	assert.Equal(t, []State{Building, Validating, SigningLocally, AwaitingCounterSignature, Failed}, states(initiator), "initiator path")

	acceptor := onlySession(t, b.engine)
	assert.Equal(t, Rejected, acceptor.State, "acceptor state")
	assert.Equal(t, err.Error(), acceptor.Reason, "acceptor reason")
	assert.Equal(t, []State{AwaitingProposal, Validating, Rejected}, states(acceptor), "acceptor path")
}

func TestCommitConflict(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	n := newTestNetwork(t, "PartyA", "PartyB")
	b := n.start("PartyB", testConfig(), nil)
	defer n.close()

	notary := mocks.NewMockNotary(ctl)
	notary.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(fault.CommitConflict).Times(1)
	vault := mocks.NewMockVault(ctl)
	vault.EXPECT().Record(gomock.Any()).Times(0)

	a := n.startWith("PartyA", testConfig(), notary, vault, nil)
	defer a.Shutdown()

	stx, err := a.Propose(context.Background(), 10, "PartyB")
	assert.Nil(t, stx, "transaction returned")
	assert.Equal(t, fault.CommitConflict, err, "wrong error")

	initiator := onlySession(t, a)
	assert.Equal(t, Failed, initiator.State, "initiator state")
	assert.Equal(t, []State{Building, Validating, SigningLocally, AwaitingCounterSignature, Finalizing, Failed}, states(initiator), "initiator path")

	// the counterparty was told
	acceptor := onlySession(t, b.engine)
	assert.Equal(t, Failed, acceptor.State, "acceptor state")
	assert.True(t, errors.Is(acceptor.Err, fault.SessionAbandoned), "acceptor error: %v", acceptor.Err)

	// and holds nothing in its vault
	entries, _, err := b.vault.List(0, 10)
	assert.Nil(t, err, "list error")
	assert.Equal(t, 0, len(entries), "acceptor vault not empty")
}

func TestConcurrentSessions(t *testing.T) {
	n := newTestNetwork(t, "PartyA", "PartyB", "PartyC")
	a := n.start("PartyA", testConfig(), nil)
	b := n.start("PartyB", testConfig(), nil)
	c := n.start("PartyC", testConfig(), nil)
	defer n.close()

	type proposal struct {
		from  *testNode
		to    string
		value int64
	}
	proposals := []proposal{
		{a, "PartyB", 1},
		{a, "PartyC", 2},
		{b, "PartyA", 3},
		{c, "PartyA", 4},
		{b, "PartyC", 5},
		{a, "PartyB", 6},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(proposals))
	results := make([]*transactionrecord.SignedTransaction, len(proposals))
	for i, p := range proposals {
		wg.Add(1)
		go func(i int, p proposal) {
			defer wg.Done()
			results[i], errs[i] = p.from.engine.Propose(context.Background(), p.value, p.to)
		}(i, p)
	}
	wg.Wait()

	seen := make(map[uuid.UUID]bool)
	for i, p := range proposals {
		require.Nil(t, errs[i], "%d: propose error", i)
		out := results[i].Tx.Outputs[0]
		assert.Equal(t, p.value, out.Value, "%d: value", i)
		assert.Equal(t, p.to, out.Recipient.Name, "%d: recipient", i)
		assert.False(t, seen[out.LinearId], "%d: linear id reused", i)
		seen[out.LinearId] = true
	}

	for _, node := range []*testNode{a, b, c} {
		for _, s := range node.engine.Sessions() {
			assert.Equal(t, Committed, s.State, "%s: session: %s", node.identity.Party.Name, s.Id)
		}
	}
	assert.Equal(t, 5, len(a.engine.Sessions()), "PartyA session count")
	assert.Equal(t, 4, len(b.engine.Sessions()), "PartyB session count")
	assert.Equal(t, 3, len(c.engine.Sessions()), "PartyC session count")
}

func TestCancel(t *testing.T) {
	entered := make(chan struct{})
	waitForCancel := DeciderFunc(func(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})

	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", testConfig(), nil)
	b := n.start("PartyB", testConfig(), waitForCancel)
	defer n.close()

	id, err := a.engine.Start(10, "PartyB")
	require.Nil(t, err, "start error")

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("proposal not received")
	}

	s, err := a.engine.Session(id)
	require.Nil(t, err, "session error")
	assert.Equal(t, AwaitingCounterSignature, s.State, "state before cancel")

	require.Nil(t, a.engine.Cancel(id), "cancel error")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err = a.engine.Wait(ctx, id)
	require.Nil(t, err, "wait error")
	assert.Equal(t, Failed, s.State, "state")
	assert.Equal(t, context.Canceled, s.Err, "reason")

	// cancelling a finished session is refused
	assert.Equal(t, fault.WrongSessionState, a.engine.Cancel(id), "second cancel")
	assert.Equal(t, fault.SessionNotFound, a.engine.Cancel(uuid.New()), "unknown session")

	acceptor, err := b.engine.Wait(ctx, id)
	require.Nil(t, err, "acceptor wait error")
	assert.True(t, acceptor.State.IsTerminal(), "acceptor state: %s", acceptor.State)
	assert.NotEqual(t, Committed, acceptor.State, "acceptor committed")
}

func TestShutdownEndsRunningSessions(t *testing.T) {
	entered := make(chan struct{})
	hold := DeciderFunc(func(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})

	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", testConfig(), nil)
	n.start("PartyB", testConfig(), hold)
	defer n.close()

	type result struct {
		stx *transactionrecord.SignedTransaction
		err error
	}
	done := make(chan result, 1)
	go func() {
		stx, err := a.engine.Propose(context.Background(), 10, "PartyB")
		done <- result{stx, err}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("proposal not received")
	}

	started := time.Now()
	a.engine.Shutdown()
	assert.True(t, time.Since(started) < testConfig().SignatureTimeout, "shutdown waited for the signature timeout")

	// the session ended before Shutdown returned
	s := onlySession(t, a.engine)
	assert.Equal(t, Failed, s.State, "state")
	assert.Equal(t, context.Canceled, s.Err, "reason")

	select {
	case r := <-done:
		assert.Nil(t, r.stx, "transaction returned")
		assert.Equal(t, context.Canceled, r.err, "wrong error")
	case <-time.After(5 * time.Second):
		t.Fatal("propose did not return")
	}

	// no new work once stopped
	_, err := a.engine.Propose(context.Background(), 10, "PartyB")
	assert.Equal(t, fault.NotRunning, err, "propose after shutdown")
	_, err = a.engine.Start(10, "PartyB")
	assert.Equal(t, fault.NotRunning, err, "start after shutdown")
	assert.Equal(t, fault.NotRunning, a.engine.HandleAbandon(context.Background(), "PartyB", uuid.New(), "late"), "abandon after shutdown")
	assert.Equal(t, 1, len(a.engine.Sessions()), "session count")

	// a second call does not block
	a.engine.Shutdown()
}

func TestSignatureTimeout(t *testing.T) {
	hold := DeciderFunc(func(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error {
		<-ctx.Done()
		return ctx.Err()
	})

	config := testConfig()
	config.SignatureTimeout = 50 * time.Millisecond

	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", config, nil)
	n.start("PartyB", testConfig(), hold)
	defer n.close()

	_, err := a.engine.Propose(context.Background(), 10, "PartyB")
	assert.Equal(t, fault.Timeout, err, "wrong error")

	s := onlySession(t, a.engine)
	assert.Equal(t, Failed, s.State, "state")
	assert.Equal(t, fault.Timeout.Error(), s.Reason, "reason")
}

func TestUnreachableCounterparty(t *testing.T) {
	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", testConfig(), nil)
	n.start("PartyB", testConfig(), nil)
	defer n.close()

	n.network.SetDown("PartyB", true)

	_, err := a.engine.Propose(context.Background(), 10, "PartyB")
	assert.Equal(t, fault.PeerUnreachable, err, "wrong error")
	assert.Equal(t, Failed, onlySession(t, a.engine).State, "state")
}

func TestDeciderRejects(t *testing.T) {
	limit := fault.ValidationError("credit limit exceeded")
	creditLimit := DeciderFunc(func(ctx context.Context, proposer *party.Party, tx *transactionrecord.Transaction) error {
		if tx.Outputs[0].Value > 100 {
			return limit
		}
		return nil
	})

	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", testConfig(), nil)
	b := n.start("PartyB", testConfig(), creditLimit)
	defer n.close()

	_, err := a.engine.Propose(context.Background(), 101, "PartyB")
	assert.Equal(t, limit, err, "wrong error")

	acceptor := onlySession(t, b.engine)
	assert.Equal(t, Rejected, acceptor.State, "acceptor state")
	assert.Equal(t, []State{AwaitingProposal, Validating, Deciding, Rejected}, states(acceptor), "acceptor path")

	_, err = a.engine.Propose(context.Background(), 100, "PartyB")
	assert.Nil(t, err, "propose error")
}

func TestTransitionsBroadcast(t *testing.T) {
	n := newTestNetwork(t, "PartyA", "PartyB")
	a := n.start("PartyA", testConfig(), nil)
	n.start("PartyB", testConfig(), nil)
	defer n.close()

	queue := messagebus.Bus.Transitions.Chan(50)
	defer messagebus.Bus.Transitions.Release(queue)

	_, err := a.engine.Propose(context.Background(), 10, "PartyB")
	require.Nil(t, err, "propose error")

	id := onlySession(t, a.engine).Id
	expected := []string{
		fmt.Sprintf("%s:None->Building", Initiator),
		fmt.Sprintf("%s:Building->Validating", Initiator),
		fmt.Sprintf("%s:Validating->SigningLocally", Initiator),
		fmt.Sprintf("%s:SigningLocally->AwaitingCounterSignature", Initiator),
		fmt.Sprintf("%s:None->AwaitingProposal", Acceptor),
		fmt.Sprintf("%s:AwaitingProposal->Validating", Acceptor),
		fmt.Sprintf("%s:Validating->Deciding", Acceptor),
		fmt.Sprintf("%s:Deciding->SigningLocally", Acceptor),
		fmt.Sprintf("%s:AwaitingCounterSignature->Finalizing", Initiator),
		fmt.Sprintf("%s:SigningLocally->Committed", Acceptor),
		fmt.Sprintf("%s:Finalizing->Committed", Initiator),
	}

	actual := []string{}
	timeout := time.After(5 * time.Second)
loop:
	for len(actual) < len(expected) {
		select {
		case m := <-queue:
			assert.Equal(t, TransitionCommand, m.Command, "command")
			tr, ok := m.Item.(Transition)
			require.True(t, ok, "item type: %T", m.Item)
			if id != tr.SessionId {
				continue loop
			}
			actual = append(actual, fmt.Sprintf("%s:%s->%s", tr.Role, tr.From, tr.To))
		case <-timeout:
			break loop
		}
	}
	assert.Equal(t, expected, actual, "transitions")
}

func TestNewChecksConfiguration(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	identity := mocks.NewMockIdentity(ctl)
	transport := mocks.NewMockTransport(ctl)
	notary := mocks.NewMockNotary(ctl)
	vault := mocks.NewMockVault(ctl)

	_, err := New(DefaultConfig(), nil, transport, notary, vault, nil)
	assert.Equal(t, fault.MissingParameters, err, "nil identity")

	config := DefaultConfig()
	config.SignatureTimeout = config.SessionTimeout
	_, err = New(config, identity, transport, notary, vault, nil)
	assert.Equal(t, fault.InvalidValue, err, "signature timeout not below session timeout")

	config = DefaultConfig()
	config.CleanupInterval = 0
	config.AbandonTimeout = 0
	e, err := New(config, identity, transport, notary, vault, nil)
	require.Nil(t, err, "engine error")
	defer e.Shutdown()
	assert.Equal(t, config.SessionTimeout/2, e.Config().CleanupInterval, "cleanup default")
	assert.Equal(t, config.SignatureTimeout, e.Config().AbandonTimeout, "abandon default")
}
