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

func TestSubmitFlow(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		require.NoError(t, p.RegisterProjectSource(ctx, sm, 1, _sourceHash))
		reporter := callAt(ctx, identityset.Reporter, 1000)

		tests := []struct {
			name      string
			ctx       context.Context
			project   uint64
			flow      uint64
			hash      []byte
			timestamp uint64
			code      uint32
			kind      error
		}{
			{"unknown project", reporter, 2, 500, _sourceHash, 1000, 101, protocol.ErrNotFound},
			{"not an oracle", callAt(ctx, identityset.SecondReporter, 1000), 1, 500, _sourceHash, 1000, 100, protocol.ErrUnauthorized},
			{"zero flow", reporter, 1, 0, _sourceHash, 1000, 102, protocol.ErrValidation},
			{"flow too high", reporter, 1, MaxFlow + 1, _sourceHash, 1000, 102, protocol.ErrValidation},
			{"wrong source", reporter, 1, 500, make([]byte, SourceHashLength), 1000, 106, protocol.ErrValidation},
			{"short source", reporter, 1, 500, _sourceHash[:31], 1000, 106, protocol.ErrValidation},
			{"zero timestamp", reporter, 1, 500, _sourceHash, 0, 104, protocol.ErrTiming},
			{"future timestamp", reporter, 1, 500, _sourceHash, 1001, 104, protocol.ErrTiming},
			{"stale", reporter, 1, 500, _sourceHash, 899, 108, protocol.ErrTiming},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				requireCode(t, p.SubmitFlow(tt.ctx, sm, tt.project, tt.flow, tt.hash, tt.timestamp), tt.code, tt.kind)
			})
		}
		// nothing was recorded by the rejected readings
		src, err := p.ProjectSource(ctx, sm, 1)
		require.NoError(t, err)
		require.Zero(t, src.UpdateCount)
		_, err = p.LatestFlow(ctx, sm, 1)
		require.True(t, isNotExist(err))

		// bounds are inclusive
		require.NoError(t, p.SubmitFlow(reporter, sm, 1, MaxFlow, _sourceHash, 900))
		d, err := p.FlowData(ctx, sm, 1, 999)
		require.NoError(t, err)
		require.Equal(t, uint64(MaxFlow), d.Flow)
		require.Equal(t, uint64(900), d.Timestamp)
		require.Equal(t, _sourceHash, d.SourceHash[:])
		require.Equal(t, identityset.Address(identityset.Reporter).String(), d.Oracle.String())
		latest, err := p.LatestFlow(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(MaxFlow), latest)
		src, err = p.ProjectSource(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(999), src.LastUpdate)
		require.Equal(t, uint64(1), src.UpdateCount)
	})
}

func TestSubmitFlowFrequency(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		require.NoError(t, p.RegisterProjectSource(ctx, sm, 1, _sourceHash))
		submit := func(epoch, flow uint64) error {
			return p.SubmitFlow(callAt(ctx, identityset.Reporter, epoch), sm, 1, flow, _sourceHash, epoch)
		}

		require.NoError(t, submit(1000, MinFlow))
		requireCode(t, submit(1000, 2), 105, protocol.ErrTiming)
		requireCode(t, submit(1005, 2), 105, protocol.ErrTiming)
		require.NoError(t, submit(1006, 2))

		latest, err := p.LatestFlow(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(2), latest)
		for epoch, flow := range map[uint64]uint64{999: MinFlow, 1005: 2} {
			d, err := p.FlowData(ctx, sm, 1, epoch)
			require.NoError(t, err)
			require.Equal(t, flow, d.Flow)
		}
		_, err = p.FlowData(ctx, sm, 1, 1004)
		require.True(t, isNotExist(err))

		// a stale reading inside the frequency window is a timing failure either way
		err = p.SubmitFlow(callAt(ctx, identityset.Reporter, 1007), sm, 1, 3, _sourceHash, 1)
		requireCode(t, err, 105, protocol.ErrTiming)
	})
}

func TestSubmitFlowAfterOracleRemoved(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		require.NoError(t, p.RegisterProjectSource(ctx, sm, 1, _sourceHash))
		require.NoError(t, p.RemoveOracle(ctx, sm, identityset.Address(identityset.Reporter)))
		err := p.SubmitFlow(callAt(ctx, identityset.Reporter, 1000), sm, 1, 10, _sourceHash, 1000)
		requireCode(t, err, 100, protocol.ErrUnauthorized)
	})
}
