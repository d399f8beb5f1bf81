// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

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

// InvestorClaim is the yield posted to an investor and what the investor has taken out
type InvestorClaim struct {
	PendingYield   *uint256.Int
	LastClaimBlock uint64
	ClaimedTotal   *uint256.Int
}

func newInvestorClaim() *InvestorClaim {
	return &InvestorClaim{
		PendingYield: uint256.NewInt(0),
		ClaimedTotal: uint256.NewInt(0),
	}
}

// Serialize serializes investor claim into bytes
func (c *InvestorClaim) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint256(1, c.PendingYield).
		Uint64(2, c.LastClaimBlock).
		Uint256(3, c.ClaimedTotal).
		Result(), nil
}

// Deserialize deserializes bytes into investor claim
func (c *InvestorClaim) Deserialize(data []byte) error {
	*c = *newInvestorClaim()
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			c.PendingYield, err = f.Uint256()
		case 2:
			c.LastClaimBlock, err = f.Uint64()
		case 3:
			c.ClaimedTotal, err = f.Uint256()
		}
		return err
	})
}

// RecordYieldForInvestor adds to the pending yield of an investor. Only the yield calculator could post yield
func (p *Protocol) RecordYieldForInvestor(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	investor address.Address,
	amount *uint256.Int,
) (err error) {
	defer func() { observe(ctx, "recordYieldForInvestor", err) }()
	if err = p.assertYieldCalculatorPermission(ctx, sm); err != nil {
		return err
	}
	if amount == nil || amount.IsZero() {
		return errors.Wrap(ErrInvalidAmount, "yield amount is zero")
	}
	if investor == nil {
		return errors.Wrap(ErrInvalidAmount, "investor is nil")
	}
	claim, err := p.InvestorClaim(ctx, sm, projectID, investor)
	newClaim := isNotExist(err)
	switch {
	case newClaim:
		claim = newInvestorClaim()
	case err != nil:
		return err
	}
	if claim.PendingYield, err = safemath.Add(claim.PendingYield, amount); err != nil {
		return stateError(err)
	}
	if newClaim {
		pool, err := p.ProjectPool(ctx, sm, projectID)
		switch {
		case err == nil:
			pool.InvestorCount++
			if err = p.putState(sm, poolKey(projectID), pool); err != nil {
				return err
			}
		case !isNotExist(err):
			return err
		}
	}
	if err = p.putState(sm, claimKey(projectID, investor), claim); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Recorded yield for investor.",
		zap.Uint64("project", projectID),
		zap.String("investor", investor.String()),
		zap.String("amount", amount.Dec()),
		zap.String("pending", claim.PendingYield.Dec()),
	)
	return nil
}

// ClaimPendingYield pays the pending yield of an investor out of the aggregate balance
func (p *Protocol) ClaimPendingYield(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	investor address.Address,
) (amount *uint256.Int, err error) {
	defer func() { observe(ctx, "claimPendingYield", err) }()
	if investor == nil {
		return nil, errors.Wrap(ErrInsufficientBalance, "investor is nil")
	}
	claim, err := p.InvestorClaim(ctx, sm, projectID, investor)
	switch {
	case isNotExist(err):
		return nil, errors.Wrapf(ErrInsufficientBalance, "no yield posted to %s", investor.String())
	case err != nil:
		return nil, err
	}
	if claim.PendingYield.IsZero() {
		return nil, errors.Wrapf(ErrInsufficientBalance, "no pending yield for %s", investor.String())
	}
	f := fund{}
	if err = p.state(sm, _fundKey, &f); err != nil {
		return nil, err
	}
	if f.balance.Lt(claim.PendingYield) {
		return nil, errors.Wrapf(ErrInsufficientBalance, "pending %s exceeds balance %s", claim.PendingYield.Dec(), f.balance.Dec())
	}
	amount = claim.PendingYield
	f.balance = new(uint256.Int).Sub(f.balance, amount)
	if f.totalDistributed, err = safemath.Add(f.totalDistributed, amount); err != nil {
		return nil, stateError(err)
	}
	if claim.ClaimedTotal, err = safemath.Add(claim.ClaimedTotal, amount); err != nil {
		return nil, stateError(err)
	}
	claim.PendingYield = uint256.NewInt(0)
	claim.LastClaimBlock = protocol.MustGetCallCtx(ctx).Epoch

	pool, err := p.ProjectPool(ctx, sm, projectID)
	switch {
	case err == nil:
		if pool.ClaimedTotal, err = safemath.Add(pool.ClaimedTotal, amount); err != nil {
			return nil, stateError(err)
		}
		if err = p.putState(sm, poolKey(projectID), pool); err != nil {
			return nil, err
		}
	case !isNotExist(err):
		return nil, err
	}
	if err = p.putState(sm, claimKey(projectID, investor), claim); err != nil {
		return nil, err
	}
	if err = p.putState(sm, _fundKey, &f); err != nil {
		return nil, err
	}
	reportBalance(f.balance)
	log.Logger(ProtocolID).Debug("Claimed pending yield.",
		zap.Uint64("project", projectID),
		zap.String("investor", investor.String()),
		zap.String("amount", amount.Dec()),
	)
	return amount, nil
}

// EstimatePendingYield returns the pending yield of an investor, 0 if nothing was posted
func (p *Protocol) EstimatePendingYield(
	ctx context.Context,
	sm protocol.StateReader,
	projectID uint64,
	investor address.Address,
) (*uint256.Int, error) {
	if investor == nil {
		return uint256.NewInt(0), nil
	}
	claim, err := p.InvestorClaim(ctx, sm, projectID, investor)
	switch {
	case isNotExist(err):
		return uint256.NewInt(0), nil
	case err != nil:
		return nil, err
	}
	return claim.PendingYield, nil
}

// InvestorClaim returns the claim record of an investor in a project
func (p *Protocol) InvestorClaim(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
	investor address.Address,
) (*InvestorClaim, error) {
	c := InvestorClaim{}
	if err := p.state(sm, claimKey(projectID, investor), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func claimKey(projectID uint64, investor address.Address) []byte {
	return byteutil.JoinKey(
		_claimKeyPrefix,
		byteutil.Uint64ToBytesBigEndian(projectID),
		investor.Bytes(),
	)
}
