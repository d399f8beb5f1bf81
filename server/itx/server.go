// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package itx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/chainservice"
	"github.com/iotexproject/iotex-flowyield/config"
	"github.com/iotexproject/iotex-flowyield/pkg/lifecycle"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/probe"
	"github.com/iotexproject/iotex-flowyield/pkg/routine"
	"github.com/iotexproject/iotex-flowyield/pkg/util/httputil"
)

// Server is the flowyield server instance containing all components.
type Server struct {
	cfg          config.Config
	chainService *chainservice.ChainService
	lifecycle    lifecycle.Lifecycle
}

// NewServer creates a new server
func NewServer(cfg config.Config) (*Server, error) {
	return newServer(cfg)
}

// NewInMemTestServer creates a test server in memory
func NewInMemTestServer(cfg config.Config, opts ...chainservice.Option) (*Server, error) {
	return newServer(cfg, append([]chainservice.Option{chainservice.WithTesting()}, opts...)...)
}

func newServer(cfg config.Config, opts ...chainservice.Option) (*Server, error) {
	cs, err := chainservice.New(cfg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "fail to create chain service")
	}
	svr := Server{
		cfg:          cfg,
		chainService: cs,
	}
	svr.lifecycle.Add(cs)
	return &svr, nil
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	if err := s.lifecycle.OnStartSequentially(ctx); err != nil {
		return errors.Wrap(err, "error when starting chain service")
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.lifecycle.OnStopSequentially(ctx); err != nil {
		return errors.Wrap(err, "error when stopping chain service")
	}
	return nil
}

// ChainService returns the chain service of the server
func (s *Server) ChainService() *chainservice.ChainService {
	return s.chainService
}

// StartServer starts a node server and blocks until ctx is done
func StartServer(ctx context.Context, svr *Server, probeSvr *probe.Server, cfg config.Config) {
	if err := svr.Start(ctx); err != nil {
		log.L().Fatal("Failed to start server.", zap.Error(err))
		return
	}
	probeSvr.Ready()

	if cfg.System.HeartbeatInterval > 0 {
		task := routine.NewRecurringTask(NewHeartbeatHandler(svr).Log, cfg.System.HeartbeatInterval)
		if err := task.Start(ctx); err != nil {
			log.L().Panic("Failed to start heartbeat routine.", zap.Error(err))
		}
		defer func() {
			if err := task.Stop(ctx); err != nil {
				log.L().Panic("Failed to stop heartbeat routine.", zap.Error(err))
			}
		}()
	}

	var adminserv http.Server
	if cfg.System.HTTPAdminPort > 0 {
		mux := http.NewServeMux()
		log.RegisterLevelConfigMux(mux)
		mux.Handle("/debug/pprof/", http.HandlerFunc(pprof.Index))
		mux.Handle("/debug/pprof/cmdline", http.HandlerFunc(pprof.Cmdline))
		mux.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
		mux.Handle("/debug/pprof/symbol", http.HandlerFunc(pprof.Symbol))
		mux.Handle("/debug/pprof/trace", http.HandlerFunc(pprof.Trace))

		adminserv = httputil.NewServer(fmt.Sprintf(":%d", cfg.System.HTTPAdminPort), mux)
		go func() {
			runtime.SetMutexProfileFraction(1)
			runtime.SetBlockProfileRate(1)
			ln, err := httputil.LimitListener(adminserv.Addr)
			if err != nil {
				log.L().Error("Error when listen to profiling port.", zap.Error(err))
				return
			}
			if err := adminserv.Serve(ln); err != nil && err != http.ErrServerClosed {
				log.L().Error("Error when serving performance profiling data.", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	probeSvr.NotReady()
	// ctx is done, shut down with a fresh one
	stopCtx := context.Background()
	if err := adminserv.Shutdown(stopCtx); err != nil {
		log.L().Error("Error when shutting down the admin server.", zap.Error(err))
	}
	if err := svr.Stop(stopCtx); err != nil {
		log.L().Panic("Failed to stop server.", zap.Error(err))
	}
}
