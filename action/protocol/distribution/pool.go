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
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
)

type (
	// ProjectPool is the yield pool of a project
	ProjectPool struct {
		TotalYieldPool   *uint256.Int
		ClaimedTotal     *uint256.Int
		LastDistribution uint64
		Locked           bool
		InvestorCount    uint64
	}

	// DistributionRecord is written by every distribution of a pool
	DistributionRecord struct {
		TotalYield     *uint256.Int
		InvestorsCount uint64
		Timestamp      uint64
	}
)

func newProjectPool() *ProjectPool {
	return &ProjectPool{
		TotalYieldPool: uint256.NewInt(0),
		ClaimedTotal:   uint256.NewInt(0),
	}
}

// Serialize serializes project pool into bytes
func (pl *ProjectPool) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint256(1, pl.TotalYieldPool).
		Uint256(2, pl.ClaimedTotal).
		Uint64(3, pl.LastDistribution).
		Bool(4, pl.Locked).
		Uint64(5, pl.InvestorCount).
		Result(), nil
}

// Deserialize deserializes bytes into project pool
func (pl *ProjectPool) Deserialize(data []byte) error {
	*pl = *newProjectPool()
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			pl.TotalYieldPool, err = f.Uint256()
		case 2:
			pl.ClaimedTotal, err = f.Uint256()
		case 3:
			pl.LastDistribution, err = f.Uint64()
		case 4:
			pl.Locked, err = f.Bool()
		case 5:
			pl.InvestorCount, err = f.Uint64()
		}
		return err
	})
}

// Serialize serializes distribution record into bytes
func (r *DistributionRecord) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint256(1, r.TotalYield).
		Uint64(2, r.InvestorsCount).
		Uint64(3, r.Timestamp).
		Result(), nil
}

// Deserialize deserializes bytes into distribution record
func (r *DistributionRecord) Deserialize(data []byte) error {
	*r = DistributionRecord{TotalYield: uint256.NewInt(0)}
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			r.TotalYield, err = f.Uint256()
		case 2:
			r.InvestorsCount, err = f.Uint64()
		case 3:
			r.Timestamp, err = f.Uint64()
		}
		return err
	})
}

// SetPoolLock locks or unlocks the pool of a project. Only the treasury could make this change
func (p *Protocol) SetPoolLock(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	locked bool,
) (err error) {
	defer func() { observe(ctx, "setPoolLock", err) }()
	if _, err = p.assertTreasuryPermission(ctx, sm); err != nil {
		return err
	}
	pool, err := p.projectPool(sm, projectID)
	if err != nil {
		return err
	}
	pool.Locked = locked
	if err = p.putState(sm, poolKey(projectID), pool); err != nil {
		return err
	}
	log.Logger(ProtocolID).Info("Set pool lock.", zap.Uint64("project", projectID), zap.Bool("locked", locked))
	return nil
}

// TriggerDistribution marks a distribution of the pool of a project. No funds move, investors are paid through
// their pending yield.
func (p *Protocol) TriggerDistribution(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
) (err error) {
	defer func() { observe(ctx, "triggerDistribution", err) }()
	pool, err := p.projectPool(sm, projectID)
	if err != nil {
		return err
	}
	active, err := p.DistributionActive(ctx, sm)
	if err != nil {
		return err
	}
	if !active {
		return errors.Wrap(ErrDistributionLocked, "distribution is not active")
	}
	if pool.Locked {
		return errors.Wrapf(ErrDistributionLocked, "pool %d is locked", projectID)
	}
	epoch := protocol.MustGetCallCtx(ctx).Epoch
	if epoch < pool.LastDistribution || epoch-pool.LastDistribution < DistributionInterval {
		return errors.Wrapf(ErrAlreadyClaimed, "last distribution at %d, now %d", pool.LastDistribution, epoch)
	}
	f := fund{}
	if err = p.state(sm, _fundKey, &f); err != nil {
		return err
	}
	pool.LastDistribution = epoch
	f.lastDistributionBlock = epoch
	if err = p.putState(sm, poolKey(projectID), pool); err != nil {
		return err
	}
	if err = p.putState(sm, _fundKey, &f); err != nil {
		return err
	}
	if err = p.putState(sm, distributionKey(projectID, epoch), &DistributionRecord{
		TotalYield:     pool.TotalYieldPool,
		InvestorsCount: pool.InvestorCount,
		Timestamp:      epoch,
	}); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Triggered distribution.", zap.Uint64("project", projectID), zap.Uint64("epoch", epoch))
	return nil
}

// ProjectPool returns the pool of a project
func (p *Protocol) ProjectPool(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
) (*ProjectPool, error) {
	pool := ProjectPool{}
	if err := p.state(sm, poolKey(projectID), &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

// DistributionRecord returns the record of the distribution of a pool at an epoch
func (p *Protocol) DistributionRecord(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
	epoch uint64,
) (*DistributionRecord, error) {
	r := DistributionRecord{}
	if err := p.state(sm, distributionKey(projectID, epoch), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// projectPool returns the pool of a project, ErrProjectNotFound if there is none
func (p *Protocol) projectPool(sm protocol.StateReader, projectID uint64) (*ProjectPool, error) {
	pool := ProjectPool{}
	if err := p.state(sm, poolKey(projectID), &pool); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrProjectNotFound, "pool %d", projectID)
		}
		return nil, err
	}
	return &pool, nil
}

func poolKey(projectID uint64) []byte {
	return byteutil.JoinKey(_poolKeyPrefix, byteutil.Uint64ToBytesBigEndian(projectID))
}

func distributionKey(projectID, epoch uint64) []byte {
	return byteutil.JoinKey(
		_distributionKeyPrefix,
		byteutil.Uint64ToBytesBigEndian(projectID),
		byteutil.Uint64ToBytesBigEndian(epoch),
	)
}
