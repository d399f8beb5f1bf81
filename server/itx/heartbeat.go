// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package itx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/pkg/log"
)

var _heartbeatMtc = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "iotex_flowyield_heartbeat_status",
		Help: "Node heartbeat status.",
	},
	[]string{"status_type"},
)

func init() {
	prometheus.MustRegister(_heartbeatMtc)
}

// HeartbeatHandler is the handler to periodically log the status of the server
type HeartbeatHandler struct {
	s *Server
}

// NewHeartbeatHandler instantiates a HeartbeatHandler instance
func NewHeartbeatHandler(s *Server) *HeartbeatHandler {
	return &HeartbeatHandler{s: s}
}

// Log executes the logging logic
func (h *HeartbeatHandler) Log() {
	cs := h.s.ChainService()
	if !cs.IsReady() {
		log.L().Debug("Chain service is not ready.")
		return
	}
	epoch := cs.Clock().Epoch()
	commits, rollbacks := cs.Commits()
	log.L().Info("Node status.",
		zap.Uint64("epoch", epoch),
		zap.Uint64("commits", commits),
		zap.Uint64("rollbacks", rollbacks),
	)
	_heartbeatMtc.WithLabelValues("epoch").Set(float64(epoch))
	_heartbeatMtc.WithLabelValues("commits").Set(float64(commits))
	_heartbeatMtc.WithLabelValues("rollbacks").Set(float64(rollbacks))
}
