// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package oracle

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/genesis"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/state"
)

const (
	// ProtocolID is the protocol ID, also the namespace of its states
	ProtocolID = "OracleIngest"

	// MinFlow is the lowest accepted flow reading
	MinFlow = 1
	// MaxFlow is the highest accepted flow reading
	MaxFlow = 1000000
	// SourceHashLength is the length of a project source hash
	SourceHashLength = 32
	// MinUpdateInterval is the number of epochs between two submissions of a project
	MinUpdateInterval = 6
	// MaxStaleness is the number of epochs a reading stays fresh
	MaxStaleness = 100
)

var (
	_adminKey            = []byte("admin")
	_oracleKeyPrefix     = []byte("oracle")
	_sourceKeyPrefix     = []byte("source")
	_flowDataKeyPrefix   = []byte("flow")
	_latestFlowKeyPrefix = []byte("latest")

	_oracleMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_flowyield_oracle",
			Help: "Oracle ingest operations",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(_oracleMtc)
}

// Protocol defines the protocol of the oracle ingest. It keeps the set of trusted reporters, the registered data
// source of every project, and the flow readings they submit.
type Protocol struct {
	addr            address.Address
	keyPrefix       []byte
	cfg             genesis.Oracle
	yieldCalculator address.Address
}

// NewProtocol instantiates an oracle ingest protocol instance. yieldCalculator is the consumer of the accepted
// readings and may be nil.
func NewProtocol(cfg genesis.Oracle, yieldCalculator address.Address) *Protocol {
	h := hash.Hash160b([]byte(ProtocolID))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		log.L().Panic("Error when constructing the address of oracle ingest protocol", zap.Error(err))
	}
	return &Protocol{
		addr:            addr,
		keyPrefix:       h[:],
		cfg:             cfg,
		yieldCalculator: yieldCalculator,
	}
}

// FindProtocol finds the registered protocol from registry
func FindProtocol(registry *protocol.Registry) *Protocol {
	if registry == nil {
		return nil
	}
	p, ok := registry.Find(ProtocolID)
	if !ok {
		return nil
	}
	op, ok := p.(*Protocol)
	if !ok {
		log.S().Panic("fail to cast oracle ingest protocol")
	}
	return op
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Address returns the address of the protocol
func (p *Protocol) Address() address.Address {
	return p.addr
}

// CreateGenesisStates initializes the admin, the linked yield calculator and the initial oracles
func (p *Protocol) CreateGenesisStates(
	ctx context.Context,
	sm protocol.StateManager,
) error {
	cc := protocol.MustGetCallCtx(ctx)
	if err := p.putState(sm, _adminKey, &admin{
		admin:           p.cfg.OracleAdminAddr(),
		yieldCalculator: p.yieldCalculator,
	}); err != nil {
		return err
	}
	for _, addr := range p.cfg.ReporterAddrs() {
		if err := p.putState(sm, oracleKey(addr), &reporter{registeredAt: cc.Epoch}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Protocol) state(sm protocol.StateReader, key []byte, value interface{}) error {
	keyHash := hash.Hash160b(append(p.keyPrefix, key...))
	return sm.State(value, protocol.NamespaceOption(ProtocolID), protocol.KeyOption(keyHash[:]))
}

func (p *Protocol) putState(sm protocol.StateManager, key []byte, value interface{}) error {
	keyHash := hash.Hash160b(append(p.keyPrefix, key...))
	return sm.PutState(value, protocol.NamespaceOption(ProtocolID), protocol.KeyOption(keyHash[:]))
}

func (p *Protocol) deleteState(sm protocol.StateManager, key []byte) error {
	keyHash := hash.Hash160b(append(p.keyPrefix, key...))
	return sm.DelState(protocol.NamespaceOption(ProtocolID), protocol.KeyOption(keyHash[:]))
}

func observe(ctx context.Context, op string, err error) {
	if err == nil {
		_oracleMtc.WithLabelValues(op, "success").Inc()
		return
	}
	_oracleMtc.WithLabelValues(op, "failure").Inc()
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if cc, ok := protocol.GetCallCtx(ctx); ok {
		fields = append(fields, zap.Uint64("epoch", cc.Epoch))
		if cc.Caller != nil {
			fields = append(fields, zap.String("caller", cc.Caller.String()))
		}
	}
	log.Logger(ProtocolID).Debug("Rejected oracle ingest call.", fields...)
}

// isNotExist tells whether the state is missing
func isNotExist(err error) bool {
	return errors.Cause(err) == state.ErrStateNotExist
}
