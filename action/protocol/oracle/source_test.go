// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/test/identityset"
)

func TestRegisterProjectSource(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		requireCode(t, p.RegisterProjectSource(callAt(ctx, identityset.Stranger, 1), sm, 1, _sourceHash), 100, protocol.ErrUnauthorized)
		requireCode(t, p.RegisterProjectSource(ctx, sm, 1, _sourceHash[:31]), 106, protocol.ErrValidation)
		requireCode(t, p.RegisterProjectSource(ctx, sm, 1, append(_sourceHash, 0)), 106, protocol.ErrValidation)
		_, err := p.ProjectSource(ctx, sm, 1)
		require.True(t, isNotExist(err))

		require.NoError(t, p.RegisterProjectSource(ctx, sm, 1, _sourceHash))
		src, err := p.ProjectSource(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, _sourceHash, src.SourceHash[:])
		require.Zero(t, src.LastUpdate)
		require.Zero(t, src.UpdateCount)

		// a second registration does not replace the source
		other := make([]byte, SourceHashLength)
		requireCode(t, p.RegisterProjectSource(ctx, sm, 1, other), 101, protocol.ErrNotFound)
		src, err = p.ProjectSource(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, _sourceHash, src.SourceHash[:])

		require.NoError(t, p.RegisterProjectSource(ctx, sm, 2, other))
	})
}

func TestEmergencyPauseSource(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		requireCode(t, p.EmergencyPauseSource(ctx, sm, 1), 101, protocol.ErrNotFound)
		require.NoError(t, p.RegisterProjectSource(ctx, sm, 1, _sourceHash))

		reporter := callAt(ctx, identityset.Reporter, 1000)
		require.NoError(t, p.SubmitFlow(reporter, sm, 1, 500, _sourceHash, 1000))
		requireCode(t, p.SubmitFlow(callAt(ctx, identityset.Reporter, 1001), sm, 1, 500, _sourceHash, 1001), 105, protocol.ErrTiming)

		requireCode(t, p.EmergencyPauseSource(reporter, sm, 1), 100, protocol.ErrUnauthorized)
		require.NoError(t, p.EmergencyPauseSource(ctx, sm, 1))
		src, err := p.ProjectSource(ctx, sm, 1)
		require.NoError(t, err)
		require.Zero(t, src.LastUpdate)
		require.Equal(t, uint64(1), src.UpdateCount)

		// the next reading is accepted right away
		require.NoError(t, p.SubmitFlow(callAt(ctx, identityset.Reporter, 1001), sm, 1, 600, _sourceHash, 1001))
		src, err = p.ProjectSource(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), src.LastUpdate)
		require.Equal(t, uint64(2), src.UpdateCount)
	})
}
