// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/db"
	"github.com/iotexproject/iotex-flowyield/db/batch"
	"github.com/iotexproject/iotex-flowyield/pkg/lifecycle"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/state"
)

var (
	stateDBMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_flowyield_state_db",
			Help: "Flow yield State DB",
		},
		[]string{"type"},
	)
	dbBatchSizelMtc = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iotex_flowyield_db_batch_size",
			Help: "DB batch size",
		},
		[]string{},
	)
)

func init() {
	prometheus.MustRegister(stateDBMtc)
	prometheus.MustRegister(dbBatchSizelMtc)
}

// ErrWorkingSetClosed is returned when a committed or discarded working set is used
var ErrWorkingSetClosed = errors.New("working set is closed")

type (
	// Factory defines an interface for managing states
	Factory interface {
		lifecycle.StartStopper
		protocol.StateReader
		// NewWorkingSet creates a working set staging writes atop the committed states
		NewWorkingSet() WorkingSet
	}

	// stateDB implements Factory interface over a KVStore
	stateDB struct {
		mutex sync.RWMutex
		dao   db.KVStore // the underlying DB for states
	}
)

// NewStateDB creates a new state db
func NewStateDB(dao db.KVStore) (Factory, error) {
	if dao == nil {
		return nil, errors.New("invalid empty kv store")
	}
	return &stateDB{dao: dao}, nil
}

func (sdb *stateDB) Start(ctx context.Context) error {
	return sdb.dao.Start(ctx)
}

func (sdb *stateDB) Stop(ctx context.Context) error {
	return sdb.dao.Stop(ctx)
}

// State returns a committed state
func (sdb *stateDB) State(s interface{}, opts ...protocol.StateOption) error {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	sdb.mutex.RLock()
	defer sdb.mutex.RUnlock()
	return sdb.state(cfg.Namespace, cfg.Key, s)
}

func (sdb *stateDB) NewWorkingSet() WorkingSet {
	return &workingSet{
		sdb: sdb,
		cb:  batch.NewCachedBatch(),
	}
}

func (sdb *stateDB) state(ns string, key []byte, s interface{}) error {
	stateDBMtc.WithLabelValues("get").Inc()
	data, err := sdb.dao.Get(ns, key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return errors.Wrapf(state.ErrStateNotExist, "failed to get state of ns = %s and key = %x", ns, key)
		}
		return err
	}
	return state.Deserialize(s, data)
}

func (sdb *stateDB) commit(cb batch.KVStoreBatch) error {
	sdb.mutex.Lock()
	defer sdb.mutex.Unlock()
	dbBatchSizelMtc.WithLabelValues().Set(float64(cb.Size()))
	if err := sdb.dao.WriteBatch(cb); err != nil {
		log.L().Error("Failed to commit working set.", zap.Int("size", cb.Size()), zap.Error(err))
		return errors.Wrap(err, "failed to commit all changes to underlying DB in a batch")
	}
	return nil
}
