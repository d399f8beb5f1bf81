// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/safemath"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
)

// InvestorYield tracks the yield an investor has claimed from a project
type InvestorYield struct {
	Claimed        *uint256.Int
	LastClaimBlock uint64
}

// Serialize serializes investor yield into bytes
func (y *InvestorYield) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint256(1, y.Claimed).
		Uint64(2, y.LastClaimBlock).
		Result(), nil
}

// Deserialize deserializes bytes into investor yield
func (y *InvestorYield) Deserialize(data []byte) error {
	*y = InvestorYield{Claimed: uint256.NewInt(0)}
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			y.Claimed, err = f.Uint256()
		case 2:
			y.LastClaimBlock, err = f.Uint64()
		}
		return err
	})
}

// RecordInvestment adds an investment to a project. The investor's yield record starts at the current epoch
func (p *Protocol) RecordInvestment(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	amount *uint256.Int,
	investor address.Address,
) (err error) {
	defer func() { observe(ctx, "recordInvestment", err) }()
	pj, err := p.activeProject(sm, projectID)
	if err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "investment amount is zero")
	}
	if investor == nil {
		return errors.Wrap(ErrInvalidAmount, "investor is nil")
	}
	if pj.TotalInvested, err = safemath.Add(pj.TotalInvested, amount); err != nil {
		return arithmeticError(err)
	}
	_, err = p.InvestorYield(ctx, sm, projectID, investor)
	switch {
	case isNotExist(err):
		if err = p.putState(sm, investorYieldKey(projectID, investor), &InvestorYield{
			Claimed:        uint256.NewInt(0),
			LastClaimBlock: protocol.MustGetCallCtx(ctx).Epoch,
		}); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	if err = p.putState(sm, projectKey(projectID), pj); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Recorded investment.",
		zap.Uint64("project", projectID),
		zap.String("investor", investor.String()),
		zap.String("amount", amount.Dec()),
		zap.String("totalInvested", pj.TotalInvested.Dec()),
	)
	return nil
}

// EstimateYield returns the yield an investment earns over a number of days at the current rate
func (p *Protocol) EstimateYield(
	ctx context.Context,
	sm protocol.StateReader,
	projectID uint64,
	investment *uint256.Int,
	days uint64,
) (*uint256.Int, error) {
	pj, err := p.project(sm, projectID)
	if err != nil {
		return nil, err
	}
	rate, err := p.currentRate(ctx, sm, projectID, pj)
	if err != nil {
		return nil, err
	}
	if investment == nil {
		investment = uint256.NewInt(0)
	}
	annual, err := safemath.MulDiv(investment, uint256.NewInt(rate), uint256.NewInt(RateDenominator))
	if err != nil {
		return nil, arithmeticError(err)
	}
	daily := new(uint256.Int).Div(annual, uint256.NewInt(DaysPerYear))
	total, err := safemath.Mul(daily, uint256.NewInt(days))
	if err != nil {
		return nil, arithmeticError(err)
	}
	return total, nil
}

// ClaimYield settles the yield of an investor once a full period has passed since the last claim, or since the
// project started if the investor never claimed. It returns the amount due, which is the investor's share at the
// current rate minus what was claimed before.
func (p *Protocol) ClaimYield(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	investor address.Address,
	investmentAmount *uint256.Int,
) (due *uint256.Int, err error) {
	defer func() { observe(ctx, "claimYield", err) }()
	pj, err := p.project(sm, projectID)
	if err != nil {
		return nil, err
	}
	if investor == nil {
		return nil, errors.Wrap(ErrInvalidAmount, "investor is nil")
	}
	y, err := p.InvestorYield(ctx, sm, projectID, investor)
	switch {
	case isNotExist(err):
		y = &InvestorYield{
			Claimed:        uint256.NewInt(0),
			LastClaimBlock: pj.StartBlock,
		}
	case err != nil:
		return nil, err
	}
	epoch := protocol.MustGetCallCtx(ctx).Epoch
	period := pj.PeriodDays * EpochsPerDay
	if epoch < y.LastClaimBlock || epoch-y.LastClaimBlock < period {
		return nil, errors.Wrapf(ErrYieldNotReady, "last claim at %d, period %d, now %d", y.LastClaimBlock, period, epoch)
	}
	rate, err := p.currentRate(ctx, sm, projectID, pj)
	if err != nil {
		return nil, err
	}
	if pj.TotalInvested.IsZero() {
		return uint256.NewInt(0), nil
	}
	if investmentAmount == nil {
		investmentAmount = uint256.NewInt(0)
	}
	share, err := safemath.MulDiv(investmentAmount, uint256.NewInt(rate), pj.TotalInvested)
	if err != nil {
		return nil, arithmeticError(err)
	}
	if due, err = safemath.Sub(share, y.Claimed); err != nil {
		return nil, arithmeticError(err)
	}
	if pj.AccumulatedYield, err = safemath.Add(pj.AccumulatedYield, due); err != nil {
		return nil, arithmeticError(err)
	}
	pj.LastCalcBlock = epoch
	if err = p.putState(sm, investorYieldKey(projectID, investor), &InvestorYield{
		Claimed:        share,
		LastClaimBlock: epoch,
	}); err != nil {
		return nil, err
	}
	if err = p.putState(sm, projectKey(projectID), pj); err != nil {
		return nil, err
	}
	log.Logger(ProtocolID).Debug("Claimed yield.",
		zap.Uint64("project", projectID),
		zap.String("investor", investor.String()),
		zap.Uint64("rate", rate),
		zap.String("due", due.Dec()),
	)
	return due, nil
}

// InvestorYield returns the yield record of an investor in a project
func (p *Protocol) InvestorYield(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
	investor address.Address,
) (*InvestorYield, error) {
	y := InvestorYield{}
	if err := p.state(sm, investorYieldKey(projectID, investor), &y); err != nil {
		return nil, err
	}
	return &y, nil
}

func investorYieldKey(projectID uint64, investor address.Address) []byte {
	return byteutil.JoinKey(
		_investorYieldKeyPrefix,
		byteutil.Uint64ToBytesBigEndian(projectID),
		investor.Bytes(),
	)
}
