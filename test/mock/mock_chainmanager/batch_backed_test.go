// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package mock_chainmanager

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
	"github.com/iotexproject/iotex-flowyield/state"
)

type counter uint64

func (c *counter) Serialize() ([]byte, error) {
	return byteutil.Uint64ToBytesBigEndian(uint64(*c)), nil
}

func (c *counter) Deserialize(data []byte) error {
	if len(data) != 8 {
		return errors.Errorf("invalid counter length %d", len(data))
	}
	*c = counter(byteutil.BytesToUint64BigEndian(data))
	return nil
}

func TestBatchBackedStateManager(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	sm := NewBatchBackedStateManager(ctrl)
	opts := []protocol.StateOption{protocol.NamespaceOption("Counter"), protocol.KeyOption([]byte("k"))}

	var c counter
	require.Equal(state.ErrStateNotExist, errors.Cause(sm.State(&c, opts...)))

	c = 7
	require.NoError(sm.PutState(&c, opts...))
	var got counter
	require.NoError(sm.State(&got, opts...))
	require.Equal(counter(7), got)

	// a state in another namespace is independent
	other := []protocol.StateOption{protocol.NamespaceOption("Other"), protocol.KeyOption([]byte("k"))}
	require.Equal(state.ErrStateNotExist, errors.Cause(sm.State(&got, other...)))

	snapshot := sm.Snapshot()
	c = 9
	require.NoError(sm.PutState(&c, opts...))
	require.NoError(sm.State(&got, opts...))
	require.Equal(counter(9), got)
	require.NoError(sm.Revert(snapshot))
	require.NoError(sm.State(&got, opts...))
	require.Equal(counter(7), got)

	require.NoError(sm.DelState(opts...))
	require.Equal(state.ErrStateNotExist, errors.Cause(sm.State(&got, opts...)))
}
