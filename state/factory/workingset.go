// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/db/batch"
	"github.com/iotexproject/iotex-flowyield/state"
)

type (
	// WorkingSet defines an interface for working set of states changes
	WorkingSet interface {
		protocol.StateManager
		// Size returns the number of staged writes
		Size() int
		// Commit persists all staged changes into the DB in one batch
		Commit() error
		// Discard drops all staged changes
		Discard()
	}

	// workingSet implements WorkingSet interface, tracking pending changes in a cached batch
	workingSet struct {
		sdb    *stateDB
		cb     batch.CachedBatch
		closed bool
	}
)

// State pulls a state, staged writes shadow the committed ones
func (ws *workingSet) State(s interface{}, opts ...protocol.StateOption) error {
	if ws.closed {
		return ErrWorkingSetClosed
	}
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	data, err := ws.cb.Get(cfg.Namespace, cfg.Key)
	switch errors.Cause(err) {
	case nil:
		stateDBMtc.WithLabelValues("get").Inc()
		return state.Deserialize(s, data)
	case batch.ErrAlreadyDeleted:
		return errors.Wrapf(state.ErrStateNotExist, "k = %x is deleted", cfg.Key)
	case batch.ErrNotExist:
		ws.sdb.mutex.RLock()
		defer ws.sdb.mutex.RUnlock()
		return ws.sdb.state(cfg.Namespace, cfg.Key, s)
	default:
		return errors.Wrapf(err, "failed to get state of k = %x", cfg.Key)
	}
}

// PutState puts a state into the working set
func (ws *workingSet) PutState(s interface{}, opts ...protocol.StateOption) error {
	if ws.closed {
		return ErrWorkingSetClosed
	}
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	ss, err := state.Serialize(s)
	if err != nil {
		return errors.Wrapf(err, "failed to convert state %v to bytes", s)
	}
	stateDBMtc.WithLabelValues("put").Inc()
	ws.cb.Put(cfg.Namespace, cfg.Key, ss)
	return nil
}

// DelState deletes a state from the working set
func (ws *workingSet) DelState(opts ...protocol.StateOption) error {
	if ws.closed {
		return ErrWorkingSetClosed
	}
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return err
	}
	stateDBMtc.WithLabelValues("delete").Inc()
	ws.cb.Delete(cfg.Namespace, cfg.Key)
	return nil
}

func (ws *workingSet) Snapshot() int { return ws.cb.Snapshot() }

func (ws *workingSet) Revert(snapshot int) error { return ws.cb.Revert(snapshot) }

func (ws *workingSet) Size() int { return ws.cb.Size() }

// Commit persists all changes into the DB, the working set cannot be used afterwards
func (ws *workingSet) Commit() error {
	if ws.closed {
		return ErrWorkingSetClosed
	}
	if ws.cb.Size() > 0 {
		if err := ws.sdb.commit(ws.cb); err != nil {
			return err
		}
	}
	ws.closed = true
	ws.cb.Clear()
	return nil
}

// Discard drops the staged changes
func (ws *workingSet) Discard() {
	ws.closed = true
	ws.cb.Clear()
}
