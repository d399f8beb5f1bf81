// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/util/addrutil"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
	"github.com/iotexproject/iotex-flowyield/state"
)

// SubmitFlow ingests a flow reading from an oracle. When the oracle ingest feeds this service's yield calculator,
// the calculator accepts readings from the oracle ingest and the project is active there, the reading is relayed to
// the calculator in the same commit.
func (cs *ChainService) SubmitFlow(
	ctx context.Context,
	projectID uint64,
	flow uint64,
	sourceHash []byte,
	timestamp uint64,
) error {
	return cs.Execute(ctx, func(ctx context.Context, sm protocol.StateManager) error {
		if err := cs.oracle.SubmitFlow(ctx, sm, projectID, flow, sourceHash, timestamp); err != nil {
			return err
		}
		calc, err := cs.oracle.YieldCalculator(ctx, sm)
		if err != nil {
			return err
		}
		if !addrutil.Equal(calc, cs.yield.Address()) {
			return nil
		}
		relayer, err := cs.yield.Oracle(ctx, sm)
		if err != nil {
			return err
		}
		if !addrutil.Equal(relayer, cs.oracle.Address()) {
			log.L().Debug("Reading not relayed, calculator takes readings from another oracle.",
				zap.Uint64("project", projectID),
				zap.String("oracle", addrutil.String(relayer)))
			return nil
		}
		pj, err := cs.yield.Project(ctx, sm, projectID)
		switch {
		case errors.Cause(err) == state.ErrStateNotExist:
			log.L().Debug("Reading not relayed, unknown project.", zap.Uint64("project", projectID))
			return nil
		case err != nil:
			return err
		case !pj.Active:
			log.L().Debug("Reading not relayed, inactive project.", zap.Uint64("project", projectID))
			return nil
		}
		return cs.yield.SubmitFlowReading(protocol.WithCaller(ctx, cs.oracle.Address()), sm, projectID, flow)
	})
}

// SettleYield claims the yield of an investor from the calculator and posts the amount due to the ledger, where
// the investor can claim it. Nothing is posted when nothing is due.
func (cs *ChainService) SettleYield(
	ctx context.Context,
	projectID uint64,
	investor address.Address,
	investment *uint256.Int,
) (*uint256.Int, error) {
	var due *uint256.Int
	if err := cs.Execute(ctx, func(ctx context.Context, sm protocol.StateManager) error {
		var err error
		if due, err = cs.yield.ClaimYield(ctx, sm, projectID, investor, investment); err != nil {
			return err
		}
		if due.IsZero() {
			return nil
		}
		return cs.distribution.RecordYieldForInvestor(
			protocol.WithCaller(ctx, cs.yield.Address()),
			sm,
			projectID,
			investor,
			due,
		)
	}); err != nil {
		return nil, err
	}
	return due, nil
}

// YieldRate returns the current yield rate of a project. Results are cached until the next commit.
func (cs *ChainService) YieldRate(ctx context.Context, projectID uint64) (uint64, error) {
	key := ReadKey{
		Name:  "yieldRate",
		Epoch: protocol.MustGetCallCtx(ctx).Epoch,
		Args:  [][]byte{byteutil.Uint64ToBytesBigEndian(projectID)},
	}
	var rate uint64
	if err := cs.Read(ctx, func(ctx context.Context, sr protocol.StateReader) error {
		if data, ok := cs.cachedRead(&key); ok {
			rate = byteutil.BytesToUint64BigEndian(data)
			return nil
		}
		var err error
		if rate, err = cs.yield.CalculateCurrentYieldRate(ctx, sr, projectID); err != nil {
			return err
		}
		cs.cacheRead(&key, byteutil.Uint64ToBytesBigEndian(rate))
		return nil
	}); err != nil {
		return 0, err
	}
	return rate, nil
}

// PendingYield returns the yield an investor can claim from the ledger
func (cs *ChainService) PendingYield(ctx context.Context, projectID uint64, investor address.Address) (*uint256.Int, error) {
	key := ReadKey{
		Name: "pendingYield",
		Args: [][]byte{byteutil.Uint64ToBytesBigEndian(projectID), addrutil.Bytes(investor)},
	}
	var pending *uint256.Int
	if err := cs.Read(ctx, func(ctx context.Context, sr protocol.StateReader) error {
		if data, ok := cs.cachedRead(&key); ok {
			pending = new(uint256.Int).SetBytes(data)
			return nil
		}
		var err error
		if pending, err = cs.distribution.EstimatePendingYield(ctx, sr, projectID, investor); err != nil {
			return err
		}
		cs.cacheRead(&key, pending.Bytes())
		return nil
	}); err != nil {
		return nil, err
	}
	return pending, nil
}

func (cs *ChainService) cachedRead(key *ReadKey) ([]byte, bool) {
	if cs.readCache == nil {
		return nil, false
	}
	return cs.readCache.Get(key.Hash())
}

func (cs *ChainService) cacheRead(key *ReadKey, value []byte) {
	if cs.readCache != nil {
		cs.readCache.Put(key.Hash(), value)
	}
}
