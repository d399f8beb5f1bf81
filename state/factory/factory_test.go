// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/db"
	"github.com/iotexproject/iotex-flowyield/state"
)

const testNS = "test_ns"

type testRecord struct {
	value byte
}

func (r *testRecord) Serialize() ([]byte, error) { return []byte{r.value}, nil }

func (r *testRecord) Deserialize(data []byte) error {
	if len(data) != 1 {
		return errors.New("invalid record")
	}
	r.value = data[0]
	return nil
}

func opts(key string) []protocol.StateOption {
	return []protocol.StateOption{protocol.NamespaceOption(testNS), protocol.KeyOption([]byte(key))}
}

func testFactory(t *testing.T, dao db.KVStore) {
	require := require.New(t)
	ctx := context.Background()

	sf, err := NewStateDB(dao)
	require.NoError(err)
	require.NoError(sf.Start(ctx))
	defer func() {
		require.NoError(sf.Stop(ctx))
	}()

	var r testRecord
	require.Equal(state.ErrStateNotExist, errors.Cause(sf.State(&r, opts("a")...)))

	// staged writes are visible in the working set only
	ws := sf.NewWorkingSet()
	require.NoError(ws.PutState(&testRecord{1}, opts("a")...))
	require.NoError(ws.PutState(&testRecord{2}, opts("b")...))
	require.NoError(ws.State(&r, opts("a")...))
	require.Equal(byte(1), r.value)
	require.Equal(state.ErrStateNotExist, errors.Cause(sf.State(&r, opts("a")...)))
	require.Equal(2, ws.Size())
	require.NoError(ws.Commit())
	require.Equal(ErrWorkingSetClosed, ws.Commit())

	require.NoError(sf.State(&r, opts("b")...))
	require.Equal(byte(2), r.value)

	// discarded working set leaves the committed states untouched
	ws = sf.NewWorkingSet()
	require.NoError(ws.PutState(&testRecord{9}, opts("a")...))
	require.NoError(ws.DelState(opts("b")...))
	require.Equal(state.ErrStateNotExist, errors.Cause(ws.State(&r, opts("b")...)))
	ws.Discard()
	require.Equal(ErrWorkingSetClosed, ws.PutState(&testRecord{9}, opts("a")...))
	require.NoError(sf.State(&r, opts("a")...))
	require.Equal(byte(1), r.value)
	require.NoError(sf.State(&r, opts("b")...))
	require.Equal(byte(2), r.value)

	// delete goes through on commit
	ws = sf.NewWorkingSet()
	require.NoError(ws.DelState(opts("b")...))
	require.NoError(ws.Commit())
	require.Equal(state.ErrStateNotExist, errors.Cause(sf.State(&r, opts("b")...)))
}

func TestFactory(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		testFactory(t, db.NewMemKVStore())
	})
	t.Run("bolt", func(t *testing.T) {
		cfg := db.DefaultConfig
		cfg.DbPath = filepath.Join(t.TempDir(), "state.db")
		testFactory(t, db.NewBoltDB(cfg))
	})
	t.Run("pebble", func(t *testing.T) {
		cfg := db.DefaultConfig
		cfg.DbPath = filepath.Join(t.TempDir(), "state")
		testFactory(t, db.NewPebbleDB(cfg))
	})
}

func TestWorkingSetSnapshot(t *testing.T) {
	require := require.New(t)

	sf, err := NewStateDB(db.NewMemKVStore())
	require.NoError(err)
	ws := sf.NewWorkingSet()
	require.NoError(ws.PutState(&testRecord{1}, opts("a")...))
	s := ws.Snapshot()
	require.NoError(ws.PutState(&testRecord{2}, opts("a")...))
	require.NoError(ws.PutState(&testRecord{3}, opts("c")...))
	require.NoError(ws.Revert(s))

	var r testRecord
	require.NoError(ws.State(&r, opts("a")...))
	require.Equal(byte(1), r.value)
	require.Equal(state.ErrStateNotExist, errors.Cause(ws.State(&r, opts("c")...)))
	require.Equal(1, ws.Size())
	require.Error(ws.Revert(5))
}

func TestInvalidStateOption(t *testing.T) {
	require := require.New(t)

	_, err := NewStateDB(nil)
	require.Error(err)
	sf, err := NewStateDB(db.NewMemKVStore())
	require.NoError(err)
	var r testRecord
	require.Error(sf.State(&r, protocol.KeyOption([]byte("a"))))
	ws := sf.NewWorkingSet()
	require.Error(ws.PutState(&r, protocol.NamespaceOption(testNS)))
	require.Error(ws.PutState(struct{}{}, opts("a")...))
}
