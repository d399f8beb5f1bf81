// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/test/identityset"
)

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestRecordInvestment(t *testing.T) {
	testProtocol(t, nil, func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		investor := identityset.Address(identityset.Investor)
		requireCode(t, p.RecordInvestment(ctx, sm, 1, amount(1000), investor), 101, protocol.ErrNotFound)
		require.NoError(t, p.RegisterProject(ctx, sm, 1, 100, 500, 30))
		requireCode(t, p.RecordInvestment(ctx, sm, 1, amount(0), investor), 102, protocol.ErrValidation)
		requireCode(t, p.RecordInvestment(ctx, sm, 1, nil, investor), 102, protocol.ErrValidation)

		require.NoError(t, p.RecordInvestment(callAt(ctx, identityset.Investor, 120), sm, 1, amount(1000), investor))
		require.NoError(t, p.RecordInvestment(callAt(ctx, identityset.Investor, 130), sm, 1, amount(500), investor))
		require.NoError(t, p.RecordInvestment(callAt(ctx, identityset.SecondInvestor, 140), sm, 1, amount(250), identityset.Address(identityset.SecondInvestor)))

		pj, err := p.Project(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(1750), pj.TotalInvested.Uint64())

		// the record is created once, by the first investment
		y, err := p.InvestorYield(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.True(t, y.Claimed.IsZero())
		require.Equal(t, uint64(120), y.LastClaimBlock)

		// overflow of the total leaves the project unchanged
		maxAmount := new(uint256.Int).Not(uint256.NewInt(0))
		requireCode(t, p.RecordInvestment(ctx, sm, 1, maxAmount, investor), 105, protocol.ErrArithmetic)
		pj, err = p.Project(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(1750), pj.TotalInvested.Uint64())
	})
}

func TestEstimateYield(t *testing.T) {
	testProtocol(t, identityset.Address(identityset.Reporter), func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		_, err := p.EstimateYield(ctx, sm, 1, amount(10000), 30)
		requireCode(t, err, 101, protocol.ErrNotFound)
		require.NoError(t, p.RegisterProject(ctx, sm, 1, 100, 500, 30))
		_, err = p.EstimateYield(ctx, sm, 1, amount(10000), 30)
		requireCode(t, err, 107, protocol.ErrInsufficientData)

		require.NoError(t, p.SubmitFlowReading(callAt(ctx, identityset.Reporter, 100), sm, 1, 120))
		// annual 10000*5000/10000 = 5000, daily 5000/365 = 13
		total, err := p.EstimateYield(ctx, sm, 1, amount(10000), 30)
		require.NoError(t, err)
		require.Equal(t, uint64(390), total.Uint64())

		total, err = p.EstimateYield(ctx, sm, 1, amount(100), 365)
		require.NoError(t, err)
		require.True(t, total.IsZero())

		maxAmount := new(uint256.Int).Not(uint256.NewInt(0))
		_, err = p.EstimateYield(ctx, sm, 1, maxAmount, 1)
		requireCode(t, err, 105, protocol.ErrArithmetic)

		// estimating changes nothing
		pj, err := p.Project(ctx, sm, 1)
		require.NoError(t, err)
		require.Zero(t, pj.LastCalcBlock)
	})
}

func TestClaimYield(t *testing.T) {
	testProtocol(t, identityset.Address(identityset.Reporter), func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		investor := identityset.Address(identityset.Investor)
		submit := func(epoch uint64) {
			require.NoError(t, p.SubmitFlowReading(callAt(ctx, identityset.Reporter, epoch), sm, 1, 120))
		}
		claim := func(epoch, investment uint64) (*uint256.Int, error) {
			return p.ClaimYield(callAt(ctx, identityset.Investor, epoch), sm, 1, investor, amount(investment))
		}

		_, err := claim(244, 10000)
		requireCode(t, err, 101, protocol.ErrNotFound)
		// one day period at epoch 100
		require.NoError(t, p.RegisterProject(ctx, sm, 1, 100, 500, 1))
		require.NoError(t, p.RecordInvestment(ctx, sm, 1, amount(10000), investor))

		submit(243)
		_, err = claim(243, 10000)
		requireCode(t, err, 108, protocol.ErrTiming)

		// exactly at the boundary, but without a reading
		_, err = claim(244, 10000)
		requireCode(t, err, 107, protocol.ErrInsufficientData)

		submit(244)
		due, err := claim(244, 10000)
		require.NoError(t, err)
		require.Equal(t, uint64(5000), due.Uint64())
		y, err := p.InvestorYield(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(5000), y.Claimed.Uint64())
		require.Equal(t, uint64(244), y.LastClaimBlock)
		pj, err := p.Project(ctx, sm, 1)
		require.NoError(t, err)
		require.Equal(t, uint64(5000), pj.AccumulatedYield.Uint64())
		require.Equal(t, uint64(244), pj.LastCalcBlock)

		// the period restarts at the claim
		submit(387)
		_, err = claim(387, 10000)
		requireCode(t, err, 108, protocol.ErrTiming)

		submit(388)
		due, err = claim(388, 10000)
		require.NoError(t, err)
		require.True(t, due.IsZero())

		// a smaller share than already claimed fails without changes
		submit(532)
		_, err = claim(532, 5000)
		requireCode(t, err, 105, protocol.ErrArithmetic)
		y, err = p.InvestorYield(ctx, sm, 1, investor)
		require.NoError(t, err)
		require.Equal(t, uint64(5000), y.Claimed.Uint64())
		require.Equal(t, uint64(388), y.LastClaimBlock)

		// a claim from before the last one is not ready
		_, err = claim(200, 10000)
		requireCode(t, err, 108, protocol.ErrTiming)
	})
}

func TestClaimYieldWithoutInvestment(t *testing.T) {
	testProtocol(t, identityset.Address(identityset.Reporter), func(t *testing.T, ctx context.Context, sm protocol.StateManager, p *Protocol) {
		investor := identityset.Address(identityset.SecondInvestor)
		require.NoError(t, p.RegisterProject(ctx, sm, 1, 100, 500, 2))
		require.NoError(t, p.SubmitFlowReading(callAt(ctx, identityset.Reporter, 387), sm, 1, 50))
		require.NoError(t, p.SubmitFlowReading(callAt(ctx, identityset.Reporter, 388), sm, 1, 50))

		// no record yet, the period counts from the project start
		_, err := p.ClaimYield(callAt(ctx, identityset.SecondInvestor, 387), sm, 1, investor, amount(100))
		requireCode(t, err, 108, protocol.ErrTiming)
		due, err := p.ClaimYield(callAt(ctx, identityset.SecondInvestor, 388), sm, 1, investor, amount(100))
		require.NoError(t, err)
		require.True(t, due.IsZero())
		_, err = p.InvestorYield(ctx, sm, 1, investor)
		require.True(t, isNotExist(err))

		// once there is an investment the share is paid
		require.NoError(t, p.RecordInvestment(ctx, sm, 1, amount(400), identityset.Address(identityset.Investor)))
		due, err = p.ClaimYield(callAt(ctx, identityset.SecondInvestor, 388), sm, 1, investor, amount(100))
		require.NoError(t, err)
		require.Equal(t, uint64(1250), due.Uint64())
	})
}
