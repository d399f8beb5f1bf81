// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/genesis"
	"github.com/iotexproject/iotex-flowyield/pkg/safemath"
	"github.com/iotexproject/iotex-flowyield/test/identityset"
	"github.com/iotexproject/iotex-flowyield/test/mock/mock_chainmanager"
)

var _calcAddr = protocol.ProtocolAddress("YieldCalculator")

func testProtocol(t *testing.T, test func(*testing.T, context.Context, protocol.StateManager, *Protocol)) {
	ctrl := gomock.NewController(t)
	sm := mock_chainmanager.NewBatchBackedStateManager(ctrl)
	p := NewProtocol(genesis.Default.Distribution, _calcAddr)
	ctx := callAs(context.Background(), identityset.Address(identityset.Treasury), 1000)
	require.NoError(t, p.CreateGenesisStates(ctx, sm))
	test(t, ctx, sm, p)
}

func callAs(ctx context.Context, caller address.Address, epoch uint64) context.Context {
	return protocol.WithCallCtx(ctx, protocol.CallCtx{
		Caller: caller,
		Epoch:  epoch,
	})
}

func requireCode(t *testing.T, err error, code uint32, kind error) {
	require.Error(t, err)
	c, ok := protocol.ErrorCode(err)
	require.True(t, ok, err.Error())
	require.Equal(t, code, c, err.Error())
	require.True(t, errors.Is(err, kind), err.Error())
}

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func requireBalance(t *testing.T, ctx context.Context, sm protocol.StateReader, p *Protocol, expected uint64) {
	balance, err := p.Balance(ctx, sm)
	require.NoError(t, err)
	require.Equal(t, expected, balance.Uint64())
}

func TestProtocol(t *testing.T) {
	require := require.New(t)

	p := NewProtocol(genesis.Default.Distribution, nil)
	require.Equal(ProtocolID, p.Name())
	require.Equal(protocol.ProtocolAddress(ProtocolID).String(), p.Address().String())

	reg := protocol.NewRegistry()
	require.Nil(FindProtocol(reg))
	require.NoError(reg.Register(ProtocolID, p))
	require.Equal(p, FindProtocol(reg))
}

func TestGenesisStates(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		treasury, err := p.Treasury(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, identityset.Address(identityset.Treasury).String(), treasury.String())
		calc, err := p.YieldCalculator(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, _calcAddr.String(), calc.String())
		active, err := p.DistributionActive(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, genesis.Default.DistributionActive, active)
		requireBalance(t, ctx, sm, p, 0)
		total, err := p.TotalDistributed(ctx, sm)
		require.NoError(t, err)
		require.True(t, total.IsZero())
		last, err := p.LastDistributionBlock(ctx, sm)
		require.NoError(t, err)
		require.Zero(t, last)
	})
}

func TestStateError(t *testing.T) {
	require := require.New(t)

	requireCode(t, stateError(errors.Wrap(safemath.ErrOverflow, "add")), 108, protocol.ErrArithmetic)
	err := errors.New("io failure")
	require.Equal(err, stateError(err))
}
