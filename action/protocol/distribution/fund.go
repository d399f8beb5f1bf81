// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/safemath"
)

// fund stores the aggregate balance of the ledger and what it has paid out
type fund struct {
	balance               *uint256.Int
	totalDistributed      *uint256.Int
	lastDistributionBlock uint64
}

// Serialize serializes fund state into bytes
func (f *fund) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint256(1, f.balance).
		Uint256(2, f.totalDistributed).
		Uint64(3, f.lastDistributionBlock).
		Result(), nil
}

// Deserialize deserializes bytes into fund state
func (f *fund) Deserialize(data []byte) error {
	*f = fund{
		balance:          uint256.NewInt(0),
		totalDistributed: uint256.NewInt(0),
	}
	return enc.Decode(data, func(field enc.Field) (err error) {
		switch field.Num {
		case 1:
			f.balance, err = field.Uint256()
		case 2:
			f.totalDistributed, err = field.Uint256()
		case 3:
			f.lastDistributionBlock, err = field.Uint64()
		}
		return err
	})
}

// Balance returns the aggregate balance held by the ledger
func (p *Protocol) Balance(
	_ context.Context,
	sm protocol.StateReader,
) (*uint256.Int, error) {
	f := fund{}
	if err := p.state(sm, _fundKey, &f); err != nil {
		return nil, err
	}
	return f.balance, nil
}

// TotalDistributed returns the total amount paid out to investors
func (p *Protocol) TotalDistributed(
	_ context.Context,
	sm protocol.StateReader,
) (*uint256.Int, error) {
	f := fund{}
	if err := p.state(sm, _fundKey, &f); err != nil {
		return nil, err
	}
	return f.totalDistributed, nil
}

// LastDistributionBlock returns the epoch of the last distribution of any pool
func (p *Protocol) LastDistributionBlock(
	_ context.Context,
	sm protocol.StateReader,
) (uint64, error) {
	f := fund{}
	if err := p.state(sm, _fundKey, &f); err != nil {
		return 0, err
	}
	return f.lastDistributionBlock, nil
}

// DepositYieldPool deposits into the pool of a project, creating the pool on first deposit
func (p *Protocol) DepositYieldPool(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	amount *uint256.Int,
) (err error) {
	defer func() { observe(ctx, "depositYieldPool", err) }()
	if _, err = p.assertTreasuryPermission(ctx, sm); err != nil {
		return err
	}
	if amount == nil || amount.Lt(uint256.NewInt(MinDeposit)) {
		return errors.Wrapf(ErrInvalidAmount, "deposit below %d", MinDeposit)
	}
	pool, err := p.ProjectPool(ctx, sm, projectID)
	switch {
	case isNotExist(err):
		pool = newProjectPool()
	case err != nil:
		return err
	}
	if pool.Locked {
		return errors.Wrapf(ErrDistributionLocked, "pool %d is locked", projectID)
	}
	f := fund{}
	if err = p.state(sm, _fundKey, &f); err != nil {
		return err
	}
	if pool.TotalYieldPool, err = safemath.Add(pool.TotalYieldPool, amount); err != nil {
		return stateError(err)
	}
	if f.balance, err = safemath.Add(f.balance, amount); err != nil {
		return stateError(err)
	}
	if err = p.putState(sm, poolKey(projectID), pool); err != nil {
		return err
	}
	if err = p.putState(sm, _fundKey, &f); err != nil {
		return err
	}
	reportBalance(f.balance)
	log.Logger(ProtocolID).Debug("Deposited into yield pool.",
		zap.Uint64("project", projectID),
		zap.String("amount", amount.Dec()),
		zap.String("balance", f.balance.Dec()),
	)
	return nil
}

// EmergencyWithdraw takes funds out of the aggregate balance. Only the treasury could withdraw
func (p *Protocol) EmergencyWithdraw(
	ctx context.Context,
	sm protocol.StateManager,
	amount *uint256.Int,
) (err error) {
	defer func() { observe(ctx, "emergencyWithdraw", err) }()
	if _, err = p.assertTreasuryPermission(ctx, sm); err != nil {
		return err
	}
	if amount == nil {
		return errors.Wrap(ErrInvalidAmount, "amount is nil")
	}
	f := fund{}
	if err = p.state(sm, _fundKey, &f); err != nil {
		return err
	}
	if f.balance.Lt(amount) {
		return errors.Wrapf(ErrInsufficientBalance, "withdraw %s from balance %s", amount.Dec(), f.balance.Dec())
	}
	f.balance = new(uint256.Int).Sub(f.balance, amount)
	if err = p.putState(sm, _fundKey, &f); err != nil {
		return err
	}
	reportBalance(f.balance)
	log.Logger(ProtocolID).Warn("Withdrew from ledger in emergency.",
		zap.String("amount", amount.Dec()),
		zap.String("balance", f.balance.Dec()),
	)
	return nil
}
