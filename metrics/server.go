// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Server - background process exposing /metrics
type Server struct {
	log    *logger.L
	server *http.Server
}

// NewServer - metrics endpoint on listen, e.g. "127.0.0.1:9090"
func NewServer(listen string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		log: logger.New("metrics"),
		server: &http.Server{
			Addr:    listen,
			Handler: mux,
		},
	}
}

// Run - serve until shutdown
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	s.log.Infof("listening on: %s", s.server.Addr)

	go func() {
		err := s.server.ListenAndServe()
		if nil != err && http.ErrServerClosed != err {
			s.log.Errorf("serve error: %s", err)
		}
	}()

	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); nil != err {
		s.log.Errorf("shutdown error: %s", err)
	}
	s.log.Info("stopped")
}
