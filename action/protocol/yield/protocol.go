// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

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
	"github.com/iotexproject/iotex-flowyield/pkg/safemath"
	"github.com/iotexproject/iotex-flowyield/state"
)

const (
	// ProtocolID is the protocol ID, also the namespace of its states
	ProtocolID = "YieldCalculator"

	// MinBaselineFlow is the lowest baseline flow of a project
	MinBaselineFlow = 10
	// MaxBaselineFlow is the highest baseline flow of a project
	MaxBaselineFlow = 500000
	// MinBaseYieldRate is the lowest base yield rate in bps
	MinBaseYieldRate = 100
	// MaxBaseYieldRate is the highest base yield rate in bps
	MaxBaseYieldRate = 5000
	// MinPeriodDays is the shortest claim period
	MinPeriodDays = 1
	// MaxPeriodDays is the longest claim period
	MaxPeriodDays = 365
	// MinFlow is the lowest accepted flow reading
	MinFlow = 1
	// MaxFlow is the highest accepted flow reading
	MaxFlow = 1000000

	// EpochsPerDay is the number of epochs in a day
	EpochsPerDay = 144
	// DaysPerYear is the number of days an annual rate spreads over
	DaysPerYear = 365
	// RateDenominator converts a bps rate into a fraction
	RateDenominator = 10000
	// MaxRatioUp caps the flow ratio in percent when the flow meets the baseline
	MaxRatioUp = 300
	// MinRatioDown floors the flow ratio in percent when the flow misses the baseline
	MinRatioDown = 50
	// MaxYieldRate caps the adjusted yield rate in bps
	MaxYieldRate = 5000
)

var (
	_adminKey               = []byte("admin")
	_projectKeyPrefix       = []byte("project")
	_flowReadingKeyPrefix   = []byte("reading")
	_investorYieldKeyPrefix = []byte("investor")

	_yieldMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_flowyield_yield",
			Help: "Yield calculator operations",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(_yieldMtc)
}

// Protocol defines the protocol of the yield calculator. It turns the flow readings of a project into a yield rate
// and tracks what every investor has claimed.
type Protocol struct {
	addr      address.Address
	keyPrefix []byte
	cfg       genesis.Yield
	oracle    address.Address
}

// NewProtocol instantiates a yield calculator protocol instance. oracle is the only writer of flow readings and
// may be nil, in which case it stays unset until SetOracle.
func NewProtocol(cfg genesis.Yield, oracle address.Address) *Protocol {
	h := hash.Hash160b([]byte(ProtocolID))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		log.L().Panic("Error when constructing the address of yield calculator protocol", zap.Error(err))
	}
	return &Protocol{
		addr:      addr,
		keyPrefix: h[:],
		cfg:       cfg,
		oracle:    oracle,
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
	yp, ok := p.(*Protocol)
	if !ok {
		log.S().Panic("fail to cast yield calculator protocol")
	}
	return yp
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Address returns the address of the protocol
func (p *Protocol) Address() address.Address {
	return p.addr
}

// CreateGenesisStates initializes the admin and the oracle
func (p *Protocol) CreateGenesisStates(
	_ context.Context,
	sm protocol.StateManager,
) error {
	return p.putState(sm, _adminKey, &admin{
		admin:  p.cfg.CalculatorAdminAddr(),
		oracle: p.oracle,
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
		_yieldMtc.WithLabelValues(op, "success").Inc()
		return
	}
	_yieldMtc.WithLabelValues(op, "failure").Inc()
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if cc, ok := protocol.GetCallCtx(ctx); ok {
		fields = append(fields, zap.Uint64("epoch", cc.Epoch))
		if cc.Caller != nil {
			fields = append(fields, zap.String("caller", cc.Caller.String()))
		}
	}
	log.Logger(ProtocolID).Debug("Rejected yield calculator call.", fields...)
}

func isNotExist(err error) bool {
	return errors.Cause(err) == state.ErrStateNotExist
}

// arithmeticError maps a safemath failure to the protocol error
func arithmeticError(err error) error {
	switch errors.Cause(err) {
	case safemath.ErrOverflow, safemath.ErrUnderflow, safemath.ErrDivideByZero:
		return errors.Wrap(ErrCalculationOverflow, err.Error())
	default:
		return err
	}
}
