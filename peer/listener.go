// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/ioud/account"
	"github.com/bitmark-inc/ioud/fault"
	"github.com/bitmark-inc/ioud/metrics"
	"github.com/bitmark-inc/ioud/transactionrecord"
)

const (
	listenerZapDomain = "peer"

	// how long a worker's reply may wait for the routing loop on close
	replyLinger = time.Second
)

// each listener needs its own inproc endpoints
var listenerCount uint64

// Responder - the acceptor side of the local node
type Responder interface {
	HandleProposal(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) (account.Signature, error)
	HandleFinalise(ctx context.Context, from string, sessionId uuid.UUID, stx *transactionrecord.SignedTransaction) error
	HandleAbandon(ctx context.Context, from string, sessionId uuid.UUID, reason string) error
}

// Listener - serves peer requests to a responder
//
// requests arrive on ROUTER sockets and each is handled in its own
// goroutine; replies come back through an inproc PULL socket so only
// the poll loop ever touches the ROUTER sockets
type Listener struct {
	log          *logger.L
	responder    Responder
	timeout      time.Duration
	push         *zmq.Socket // signal send
	pull         *zmq.Socket // signal receive
	replies      *zmq.Socket // worker replies
	replyAddress string
	sockets      []*zmq.Socket
	workers      sync.WaitGroup
}

// NewListener - bind every listen address
//
// clientKeys restricts connections to known nodes; empty allows any
// CURVE client
func NewListener(responder Responder, privateKey []byte, clientKeys [][]byte, listen []string, timeout time.Duration) (*Listener, error) {
	log := logger.New("peer-listener")
	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}
	if privateLength != len(privateKey) {
		return nil, fault.InvalidPrivateKeyFile
	}
	if 0 == len(listen) {
		return nil, fault.MissingParameters
	}

	if err := startAuthentication(); nil != err {
		return nil, err
	}

	n := atomic.AddUint64(&listenerCount, 1)
	lstn := &Listener{
		log:          log,
		responder:    responder,
		timeout:      timeout,
		replyAddress: fmt.Sprintf("inproc://ioud-peer-listener-reply-%d", n),
	}

	var err error
	signal := fmt.Sprintf("inproc://ioud-peer-listener-signal-%d", n)
	lstn.push, lstn.pull, err = newSignalPair(signal)
	if nil != err {
		return nil, err
	}

	lstn.replies, err = zmq.NewSocket(zmq.PULL)
	if nil != err {
		lstn.close()
		return nil, err
	}
	lstn.replies.SetLinger(0)
	if err := lstn.replies.Bind(lstn.replyAddress); nil != err {
		lstn.close()
		return nil, err
	}

	for i, hostPort := range listen {
		address, v6, err := canonicalAddress(hostPort)
		if nil != err {
			lstn.close()
			return nil, err
		}
		socket, err := newServerSocket(zmq.ROUTER, listenerZapDomain, privateKey, clientKeys, v6)
		if nil != err {
			lstn.close()
			return nil, err
		}
		lstn.sockets = append(lstn.sockets, socket)
		if err := socket.Bind(address); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, address, err)
			lstn.close()
			return nil, err
		}
		log.Infof("bind[%d]: %q  IPv6: %v", i, address, v6)
	}

	return lstn, nil
}

// Run - background process loop
func (lstn *Listener) Run(args interface{}, shutdown <-chan struct{}) {
	log := lstn.log

	log.Info("starting…")

	// ends the handlers still running at shutdown
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)

		index := make(map[*zmq.Socket]int)
		poller := zmq.NewPoller()
		for i, socket := range lstn.sockets {
			index[socket] = i
			poller.Add(socket, zmq.POLLIN)
		}
		poller.Add(lstn.replies, zmq.POLLIN)
		poller.Add(lstn.pull, zmq.POLLIN)
	loop:
		for {
			sockets, err := poller.Poll(-1)
			if nil != err {
				log.Errorf("poll error: %s", err)
				continue loop
			}
			for _, polled := range sockets {
				switch s := polled.Socket; s {
				case lstn.pull:
					lstn.pull.RecvMessageBytes(0)
					break loop
				case lstn.replies:
					lstn.route()
				default:
					lstn.receive(ctx, index[s], s)
				}
			}
		}
		log.Info("shutting down")
		lstn.workers.Wait()
		lstn.close()
		log.Info("stopped")
	}()

	log.Info("waiting…")
	<-shutdown
	log.Info("initiate shutdown")
	cancel()
	lstn.push.SendMessage("stop")
	<-done
}

// read one request and hand it to a worker
//
// a ROUTER delivers: routing id, empty delimiter, request frames
func (lstn *Listener) receive(ctx context.Context, index int, socket *zmq.Socket) {
	data, err := socket.RecvMessageBytes(0)
	if nil != err {
		lstn.log.Errorf("receive error: %s", err)
		return
	}
	if len(data) < 3 || 0 != len(data[1]) {
		lstn.log.Warnf("malformed envelope: %d frames", len(data))
		return
	}
	envelope := data[:2]
	request := data[2:]

	lstn.workers.Add(1)
	go func() {
		defer lstn.workers.Done()

		reply, command := lstn.handle(ctx, request)

		result := "ok"
		if errorReply == string(reply[0]) {
			result = string(reply[1])
		}
		metrics.PeerRequests.WithLabelValues(command, result).Inc()

		lstn.reply(index, envelope, reply)
	}()
}

// pass a worker's reply to the routing loop
//
// zmq sockets are not shared between goroutines, so each reply uses
// its own short lived PUSH socket
func (lstn *Listener) reply(index int, envelope [][]byte, reply [][]byte) {
	socket, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		lstn.log.Errorf("reply socket error: %s", err)
		return
	}
	defer socket.Close()

	socket.SetLinger(replyLinger)
	if err := socket.Connect(lstn.replyAddress); nil != err {
		lstn.log.Errorf("reply connect error: %s", err)
		return
	}

	frames := make([][]byte, 0, 1+len(envelope)+len(reply))
	frames = append(frames, []byte(strconv.Itoa(index)))
	frames = append(frames, envelope...)
	frames = append(frames, reply...)
	if _, err := socket.SendMessage(frames); nil != err {
		lstn.log.Errorf("reply send error: %s", err)
	}
}

// send a worker's reply out of the ROUTER it arrived on
func (lstn *Listener) route() {
	data, err := lstn.replies.RecvMessageBytes(0)
	if nil != err {
		lstn.log.Errorf("reply receive error: %s", err)
		return
	}
	if len(data) < 4 {
		lstn.log.Errorf("short reply: %d frames", len(data))
		return
	}
	index, err := strconv.Atoi(string(data[0]))
	if nil != err || index < 0 || index >= len(lstn.sockets) {
		lstn.log.Errorf("reply for unknown socket: %q", data[0])
		return
	}
	if _, err := lstn.sockets[index].SendMessage(data[1:]); nil != err {
		lstn.log.Errorf("send error: %s", err)
	}
}

// the reply frames for a request, and its command for metrics
func (lstn *Listener) handle(parent context.Context, data [][]byte) ([][]byte, string) {
	r, err := DecodeRequest(data)
	if nil != err {
		lstn.log.Warnf("bad request: %s", err)
		return errorReplyFrames(err), "invalid"
	}
	lstn.log.Debugf("received: %s  from: %s  session: %s", r.Command, r.From, r.SessionId)

	ctx := parent
	if lstn.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, lstn.timeout)
		defer cancel()
	}

	switch r.Command {
	case ProposeCommand:
		signature, err := lstn.responder.HandleProposal(ctx, r.From, r.SessionId, r.Transaction)
		if nil != err {
			return errorReplyFrames(err), r.Command
		}
		return signatureReplyFrames(signature), r.Command

	case FinaliseCommand:
		err = lstn.responder.HandleFinalise(ctx, r.From, r.SessionId, r.Transaction)

	case AbandonCommand:
		err = lstn.responder.HandleAbandon(ctx, r.From, r.SessionId, r.Reason)
	}

	if nil != err {
		return errorReplyFrames(err), r.Command
	}
	return okReplyFrames(), r.Command
}

func (lstn *Listener) close() {
	if nil != lstn.pull {
		lstn.pull.Close()
	}
	if nil != lstn.push {
		lstn.push.Close()
	}
	if nil != lstn.replies {
		lstn.replies.Close()
	}
	for _, socket := range lstn.sockets {
		socket.Close()
	}
}
