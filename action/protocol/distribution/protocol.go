// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

import (
	"context"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/genesis"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/safemath"
	"github.com/iotexproject/iotex-flowyield/state"
)

const (
	// ProtocolID is the protocol ID, also the namespace of its states
	ProtocolID = "DistributionLedger"

	// MinDeposit is the smallest deposit into a project pool
	MinDeposit = 1000
	// DistributionInterval is the number of epochs between two distributions of a pool
	DistributionInterval = 10
)

var (
	_adminKey              = []byte("admin")
	_fundKey               = []byte("fund")
	_poolKeyPrefix         = []byte("pool")
	_claimKeyPrefix        = []byte("claim")
	_distributionKeyPrefix = []byte("distribution")

	_distributionMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_flowyield_distribution",
			Help: "Distribution ledger operations",
		},
		[]string{"op", "result"},
	)
	_balanceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "iotex_flowyield_distribution_balance",
			Help: "Aggregate balance held by the distribution ledger",
		},
	)
)

func init() {
	prometheus.MustRegister(_distributionMtc)
	prometheus.MustRegister(_balanceGauge)
}

// Protocol defines the protocol of the distribution ledger. It holds the funds deposited by the treasury, takes
// yield postings from the yield calculator and pays investors out of the aggregate balance.
type Protocol struct {
	addr            address.Address
	keyPrefix       []byte
	cfg             genesis.Distribution
	yieldCalculator address.Address
}

// NewProtocol instantiates a distribution ledger protocol instance. yieldCalculator is the only writer of yield
// postings.
func NewProtocol(cfg genesis.Distribution, yieldCalculator address.Address) *Protocol {
	h := hash.Hash160b([]byte(ProtocolID))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		log.L().Panic("Error when constructing the address of distribution ledger protocol", zap.Error(err))
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
	dp, ok := p.(*Protocol)
	if !ok {
		log.S().Panic("fail to cast distribution ledger protocol")
	}
	return dp
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Address returns the address of the protocol
func (p *Protocol) Address() address.Address {
	return p.addr
}

// CreateGenesisStates initializes the treasury, the yield calculator and an empty fund
func (p *Protocol) CreateGenesisStates(
	_ context.Context,
	sm protocol.StateManager,
) error {
	if err := p.putState(sm, _adminKey, &admin{
		treasury:           p.cfg.TreasuryAddr(),
		yieldCalculator:    p.yieldCalculator,
		distributionActive: p.cfg.DistributionActive,
	}); err != nil {
		return err
	}
	return p.putState(sm, _fundKey, &fund{
		balance:          uint256.NewInt(0),
		totalDistributed: uint256.NewInt(0),
	})
}

func (p *Protocol) state(sm protocol.StateReader, key []byte, value interface{}) error {
	keyHash := hash.Hash160b(append(p.keyPrefix, key...))
	return sm.State(value, protocol.NamespaceOption(ProtocolID), protocol.KeyOption(keyHash[:]))
}

func (p *Protocol) putState(sm protocol.StateManager, key []byte, value interface{}) error {
	keyHash := hash.Hash160b(append(p.keyPrefix, key...))
	return sm.PutState(value, protocol.NamespaceOption(ProtocolID), protocol.KeyOption(keyHash[:]))
}

func observe(ctx context.Context, op string, err error) {
	if err == nil {
		_distributionMtc.WithLabelValues(op, "success").Inc()
		return
	}
	_distributionMtc.WithLabelValues(op, "failure").Inc()
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if cc, ok := protocol.GetCallCtx(ctx); ok {
		fields = append(fields, zap.Uint64("epoch", cc.Epoch))
		if cc.Caller != nil {
			fields = append(fields, zap.String("caller", cc.Caller.String()))
		}
	}
	log.Logger(ProtocolID).Debug("Rejected distribution ledger call.", fields...)
}

func reportBalance(balance *uint256.Int) {
	f, _ := new(big.Float).SetInt(balance.ToBig()).Float64()
	_balanceGauge.Set(f)
}

func isNotExist(err error) bool {
	return errors.Cause(err) == state.ErrStateNotExist
}

// stateError maps a safemath failure to the protocol error
func stateError(err error) error {
	switch errors.Cause(err) {
	case safemath.ErrOverflow, safemath.ErrUnderflow:
		return errors.Wrap(ErrInvalidState, err.Error())
	default:
		return err
	}
}
