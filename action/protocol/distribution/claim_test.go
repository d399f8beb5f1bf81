// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/test/identityset"
)

func TestRecordYieldForInvestor(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		investor := identityset.Address(identityset.Investor)
		calc := callAs(ctx, _calcAddr, 1000)

		for _, caller := range []int{identityset.Treasury, identityset.Stranger, identityset.Investor} {
			err := p.RecordYieldForInvestor(callAs(ctx, identityset.Address(caller), 1000), sm, 1, investor, amount(100))
			requireCode(t, err, 100, protocol.ErrUnauthorized)
		}
		requireCode(t, p.RecordYieldForInvestor(calc, sm, 1, investor, amount(0)), 106, protocol.ErrValidation)
		pending, err := p.EstimatePendingYield(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.True(t, pending.IsZero())

		// postings accumulate, a pool is not required
		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 1, investor, amount(100)))
		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 1, investor, amount(50)))
		pending, err = p.EstimatePendingYield(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(150), pending.Uint64())

		// the pool counts every investor once
		require.NoError(t, p.DepositYieldPool(ctx, sm, 2, amount(1000)))
		second := identityset.Address(identityset.SecondInvestor)
		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 2, investor, amount(10)))
		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 2, investor, amount(10)))
		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 2, second, amount(10)))
		pool, err := p.ProjectPool(ctx, sm, 2)
		require.NoError(t, err)
		require.Equal(t, uint64(2), pool.InvestorCount)

		// a replaced calculator loses the permission
		require.NoError(t, p.SetYieldCalculator(ctx, sm, identityset.Address(identityset.Stranger)))
		requireCode(t, p.RecordYieldForInvestor(calc, sm, 1, investor, amount(1)), 100, protocol.ErrUnauthorized)
		pending, err = p.EstimatePendingYield(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(150), pending.Uint64())
	})
}

func TestClaimPendingYield(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		investor := identityset.Address(identityset.Investor)
		calc := callAs(ctx, _calcAddr, 1000)
		claimer := callAs(ctx, investor, 1050)

		_, err := p.ClaimPendingYield(claimer, sm, 1, investor)
		requireCode(t, err, 103, protocol.ErrInsufficientBalance)

		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 1, investor, amount(1500)))
		_, err = p.ClaimPendingYield(claimer, sm, 1, investor)
		requireCode(t, err, 103, protocol.ErrInsufficientBalance)

		require.NoError(t, p.DepositYieldPool(ctx, sm, 1, amount(2000)))
		claimed, err := p.ClaimPendingYield(claimer, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(1500), claimed.Uint64())
		requireBalance(t, ctx, sm, p, 500)
		total, err := p.TotalDistributed(ctx, sm)
		require.NoError(t, err)
		require.Equal(t, uint64(1500), total.Uint64())
		claim, err := p.InvestorClaim(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.True(t, claim.PendingYield.IsZero())
		require.Equal(t, uint64(1500), claim.ClaimedTotal.Uint64())
		require.Equal(t, uint64(1050), claim.LastClaimBlock)
		pool, err := p.ProjectPool(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(1500), pool.ClaimedTotal.Uint64())

		// no double payment
		_, err = p.ClaimPendingYield(claimer, sm, 1, investor)
		requireCode(t, err, 103, protocol.ErrInsufficientBalance)
		requireBalance(t, ctx, sm, p, 500)

		require.NoError(t, p.RecordYieldForInvestor(calc, sm, 1, investor, amount(500)))
		claimed, err = p.ClaimPendingYield(claimer, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(500), claimed.Uint64())
		requireBalance(t, ctx, sm, p, 0)
		claim, err = p.InvestorClaim(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(2000), claim.ClaimedTotal.Uint64())
	})
}

func TestEstimatePendingYield(t *testing.T) {
	testProtocol(t, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		pending, err := p.EstimatePendingYield(ctx, sm, 42, identityset.Address(identityset.Investor))
		require.NoError(t, err)
		require.True(t, pending.IsZero())
		pending, err = p.EstimatePendingYield(ctx, sm, 42, nil)
		require.NoError(t, err)
		require.True(t, pending.IsZero())
	})
}
