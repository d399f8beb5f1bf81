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

func TestSetAdmin(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		newAdmin := identityset.Address(identityset.Stranger)
		requireCode(t, p.SetAdmin(callAt(ctx, identityset.Stranger, 1), sm, newAdmin), 100, protocol.ErrUnauthorized)

		require.NoError(t, p.SetAdmin(ctx, sm, newAdmin))
		admin, err := p.Admin(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, newAdmin.String(), admin.String())
		// the former admin lost the permission
		requireCode(t, p.SetAdmin(ctx, sm, newAdmin), 100, protocol.ErrUnauthorized)
		// the linked yield calculator is kept
		calc, err := p.YieldCalculator(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, _calcAddr.String(), calc.String())
	})
}

func TestSetYieldCalculator(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		other := identityset.Address(identityset.Stranger)
		requireCode(t, p.SetYieldCalculator(callAt(ctx, identityset.Reporter, 1), sm, other), 100, protocol.ErrUnauthorized)

		require.NoError(t, p.SetYieldCalculator(ctx, sm, other))
		calc, err := p.YieldCalculator(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, other.String(), calc.String())
	})
}

func TestRegisterAndRemoveOracle(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		reporter := identityset.Address(identityset.SecondReporter)

		requireCode(t, p.RegisterOracle(callAt(ctx, identityset.Reporter, 1), sm, reporter), 100, protocol.ErrUnauthorized)
		require.NoError(t, p.RegisterOracle(ctx, sm, reporter))
		isOracle, err := p.IsOracle(ctx, sm, reporter)
		require.NoError(t, err)
		require.True(t, isOracle)

		// duplicate registration
		requireCode(t, p.RegisterOracle(ctx, sm, reporter), 103, protocol.ErrNotFound)

		requireCode(t, p.RemoveOracle(callAt(ctx, identityset.Reporter, 1), sm, reporter), 100, protocol.ErrUnauthorized)
		require.NoError(t, p.RemoveOracle(ctx, sm, reporter))
		isOracle, err = p.IsOracle(ctx, sm, reporter)
		require.NoError(t, err)
		require.False(t, isOracle)

		// removing an unknown oracle is reported as unauthorized
		requireCode(t, p.RemoveOracle(ctx, sm, reporter), 100, protocol.ErrUnauthorized)

		// it can be registered again
		require.NoError(t, p.RegisterOracle(ctx, sm, reporter))
		isOracle, err = p.IsOracle(ctx, sm, nil)
		require.NoError(t, err)
		require.False(t, isOracle)
	})
}
