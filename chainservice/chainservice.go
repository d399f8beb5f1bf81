// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"context"
	"sync"

	"github.com/facebookgo/clock"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/action/protocol/distribution"
	"github.com/iotexproject/iotex-flowyield/action/protocol/oracle"
	"github.com/iotexproject/iotex-flowyield/action/protocol/yield"
	"github.com/iotexproject/iotex-flowyield/config"
	"github.com/iotexproject/iotex-flowyield/db"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/lifecycle"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/state"
	"github.com/iotexproject/iotex-flowyield/state/factory"
)

const _serviceNamespace = "ChainService"

var _genesisKey = hash.Hash160b([]byte("genesis"))

// ChainService composes the oracle ingest, the yield calculator and the distribution ledger over one state factory.
// Every call runs in its own working set, which is committed only when the call succeeds.
type ChainService struct {
	lifecycle.Readiness
	mutex        sync.Mutex
	cfg          config.Config
	factory      factory.Factory
	registry     *protocol.Registry
	oracle       *oracle.Protocol
	yield        *yield.Protocol
	distribution *distribution.Protocol
	clock        *EpochClock
	readCache    *ReadCache
	commits      *atomic.Uint64
	rollbacks    *atomic.Uint64
}

type optionParams struct {
	isTesting bool
	clk       clock.Clock
}

// Option sets ChainService construction parameter.
type Option func(ops *optionParams) error

// WithTesting is an option to create a ChainService over an in-memory store.
func WithTesting() Option {
	return func(ops *optionParams) error {
		ops.isTesting = true
		return nil
	}
}

// WithClock is an option to set the wall clock the epochs are derived from.
func WithClock(clk clock.Clock) Option {
	return func(ops *optionParams) error {
		if clk == nil {
			return errors.New("invalid nil clock")
		}
		ops.clk = clk
		return nil
	}
}

// New creates a ChainService from config
func New(cfg config.Config, opts ...Option) (*ChainService, error) {
	ops := optionParams{clk: clock.New()}
	for _, opt := range opts {
		if err := opt(&ops); err != nil {
			return nil, err
		}
	}
	var (
		kv  db.KVStore
		err error
	)
	if ops.isTesting {
		kv = db.NewMemKVStore()
	} else {
		kv, err = db.CreateKVStore(cfg.DB)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create kv store")
		}
	}
	sf, err := factory.NewStateDB(kv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create state factory")
	}

	// the protocols authenticate each other by their addresses
	oracleProtocol := oracle.NewProtocol(cfg.Genesis.Oracle, protocol.ProtocolAddress(yield.ProtocolID))
	yieldProtocol := yield.NewProtocol(cfg.Genesis.Yield, oracleProtocol.Address())
	distributionProtocol := distribution.NewProtocol(cfg.Genesis.Distribution, yieldProtocol.Address())
	registry := protocol.NewRegistry()
	for _, p := range []protocol.Protocol{oracleProtocol, yieldProtocol, distributionProtocol} {
		if err := registry.Register(p.Name(), p); err != nil {
			return nil, err
		}
	}
	clk, err := NewEpochClock(ops.clk, cfg.Genesis.Blockchain)
	if err != nil {
		return nil, err
	}
	cs := &ChainService{
		cfg:          cfg,
		factory:      sf,
		registry:     registry,
		oracle:       oracleProtocol,
		yield:        yieldProtocol,
		distribution: distributionProtocol,
		clock:        clk,
		commits:      atomic.NewUint64(0),
		rollbacks:    atomic.NewUint64(0),
	}
	if cfg.System.ReadCacheExpiry > 0 {
		if cs.readCache, err = NewReadCache(cfg.System.ReadCacheExpiry); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// Start starts the state factory and bootstraps the genesis states on first run
func (cs *ChainService) Start(ctx context.Context) error {
	if err := cs.factory.Start(ctx); err != nil {
		return errors.Wrap(err, "error when starting state factory")
	}
	if err := cs.bootstrap(ctx); err != nil {
		return errors.Wrap(err, "error when bootstrapping genesis states")
	}
	return cs.TurnOn()
}

// Stop stops the state factory
func (cs *ChainService) Stop(ctx context.Context) error {
	if err := cs.TurnOff(); err != nil {
		return err
	}
	if cs.readCache != nil {
		cs.readCache.Clear()
	}
	return cs.factory.Stop(ctx)
}

// Execute runs fn against a fresh working set. The changes are committed if fn succeeds, and discarded otherwise.
// Executions are serialized.
func (cs *ChainService) Execute(ctx context.Context, fn func(context.Context, protocol.StateManager) error) error {
	if !cs.IsReady() {
		return lifecycle.ErrWrongState
	}
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	ws := cs.factory.NewWorkingSet()
	if err := fn(ctx, ws); err != nil {
		ws.Discard()
		cs.rollbacks.Inc()
		return err
	}
	size := ws.Size()
	if err := ws.Commit(); err != nil {
		cs.rollbacks.Inc()
		log.L().Error("Failed to commit working set.", zap.Int("size", size), zap.Error(err))
		return err
	}
	cs.commits.Inc()
	if cs.readCache != nil && size > 0 {
		cs.readCache.Clear()
	}
	return nil
}

// Read runs fn against the committed states. Nothing fn writes is kept.
func (cs *ChainService) Read(ctx context.Context, fn func(context.Context, protocol.StateReader) error) error {
	if !cs.IsReady() {
		return lifecycle.ErrWrongState
	}
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	ws := cs.factory.NewWorkingSet()
	defer ws.Discard()
	return fn(ctx, ws)
}

// CallContext attaches the caller and the epoch of the wall clock to ctx
func (cs *ChainService) CallContext(ctx context.Context, caller address.Address) context.Context {
	return protocol.WithCallCtx(ctx, protocol.CallCtx{
		Caller: caller,
		Epoch:  cs.clock.Epoch(),
	})
}

// Commits returns the number of committed and rolled back executions
func (cs *ChainService) Commits() (uint64, uint64) {
	return cs.commits.Load(), cs.rollbacks.Load()
}

// Registry returns the protocol registry
func (cs *ChainService) Registry() *protocol.Registry { return cs.registry }

// StateFactory returns the state factory
func (cs *ChainService) StateFactory() factory.Factory { return cs.factory }

// Oracle returns the oracle ingest protocol
func (cs *ChainService) Oracle() *oracle.Protocol { return cs.oracle }

// Yield returns the yield calculator protocol
func (cs *ChainService) Yield() *yield.Protocol { return cs.yield }

// Distribution returns the distribution ledger protocol
func (cs *ChainService) Distribution() *distribution.Protocol { return cs.distribution }

// Clock returns the epoch clock
func (cs *ChainService) Clock() *EpochClock { return cs.clock }

// genesisMarker records when the genesis states were created
type genesisMarker struct {
	epoch     uint64
	timestamp int64
}

func (m *genesisMarker) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Bool(1, true).
		Uint64(2, m.epoch).
		Uint64(3, uint64(m.timestamp)).
		Result(), nil
}

func (m *genesisMarker) Deserialize(data []byte) error {
	*m = genesisMarker{}
	return enc.Decode(data, func(f enc.Field) (err error) {
		var v uint64
		switch f.Num {
		case 2:
			m.epoch, err = f.Uint64()
		case 3:
			v, err = f.Uint64()
			m.timestamp = int64(v)
		}
		return err
	})
}

func (cs *ChainService) bootstrap(ctx context.Context) error {
	marker := genesisMarker{}
	err := cs.factory.State(&marker, protocol.NamespaceOption(_serviceNamespace), protocol.KeyOption(_genesisKey[:]))
	switch {
	case err == nil:
		log.L().Info("Genesis states exist.", zap.Uint64("epoch", marker.epoch))
		return nil
	case errors.Cause(err) != state.ErrStateNotExist:
		return err
	}
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	ws := cs.factory.NewWorkingSet()
	gctx := protocol.WithCallCtx(ctx, protocol.CallCtx{Epoch: cs.clock.Epoch()})
	for _, p := range cs.registry.All() {
		creator, ok := p.(protocol.GenesisStateCreator)
		if !ok {
			continue
		}
		if err := creator.CreateGenesisStates(gctx, ws); err != nil {
			ws.Discard()
			return errors.Wrapf(err, "failed to create genesis states of %s", p.Name())
		}
	}
	marker = genesisMarker{
		epoch:     protocol.MustGetCallCtx(gctx).Epoch,
		timestamp: cs.cfg.Genesis.Timestamp,
	}
	if err := ws.PutState(&marker, protocol.NamespaceOption(_serviceNamespace), protocol.KeyOption(_genesisKey[:])); err != nil {
		ws.Discard()
		return err
	}
	if err := ws.Commit(); err != nil {
		return err
	}
	log.L().Info("Created genesis states.", zap.Uint64("epoch", marker.epoch))
	return nil
}
