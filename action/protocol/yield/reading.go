// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
)

// FlowReading is the flow of a project in an epoch, as submitted by the oracle
type FlowReading struct {
	Flow      uint64
	Timestamp uint64
}

// Serialize serializes flow reading into bytes
func (r *FlowReading) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint64(1, r.Flow).
		Uint64(2, r.Timestamp).
		Result(), nil
}

// Deserialize deserializes bytes into flow reading
func (r *FlowReading) Deserialize(data []byte) error {
	*r = FlowReading{}
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			r.Flow, err = f.Uint64()
		case 2:
			r.Timestamp, err = f.Uint64()
		}
		return err
	})
}

// SubmitFlowReading stores the flow of a project for the previous epoch. Only the oracle could submit readings
func (p *Protocol) SubmitFlowReading(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	flow uint64,
) (err error) {
	defer func() { observe(ctx, "submitFlowReading", err) }()
	pj, err := p.project(sm, projectID)
	if err != nil {
		return err
	}
	if err = p.assertOraclePermission(ctx, sm); err != nil {
		return err
	}
	if !pj.Active {
		return errors.Wrapf(ErrProjectInactive, "project %d", projectID)
	}
	if flow < MinFlow || flow > MaxFlow {
		return errors.Wrapf(ErrInvalidFlow, "flow %d out of [%d, %d]", flow, MinFlow, MaxFlow)
	}
	epoch := protocol.MustGetCallCtx(ctx).Epoch
	if epoch == 0 {
		return errors.Wrap(ErrInvalidFlow, "no previous epoch to attribute the reading to")
	}
	if err = p.putState(sm, flowReadingKey(projectID, epoch-1), &FlowReading{
		Flow:      flow,
		Timestamp: epoch,
	}); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Stored flow reading.",
		zap.Uint64("project", projectID),
		zap.Uint64("flow", flow),
		zap.Uint64("epoch", epoch-1),
	)
	return nil
}

// CalculateCurrentYieldRate returns the yield rate of a project in bps, from the reading of the previous epoch.
//
// The flow ratio is in percent and is not scaled back before it multiplies the base rate, so any valid project
// yields MaxYieldRate. Estimates and claims are built on this rate as is.
func (p *Protocol) CalculateCurrentYieldRate(
	ctx context.Context,
	sm protocol.StateReader,
	projectID uint64,
) (uint64, error) {
	pj, err := p.project(sm, projectID)
	if err != nil {
		return 0, err
	}
	return p.currentRate(ctx, sm, projectID, pj)
}

func (p *Protocol) currentRate(ctx context.Context, sm protocol.StateReader, projectID uint64, pj *Project) (uint64, error) {
	epoch := protocol.MustGetCallCtx(ctx).Epoch
	if epoch == 0 {
		return 0, errors.Wrapf(ErrInsufficientData, "project %d at epoch 0", projectID)
	}
	r, err := p.FlowReading(ctx, sm, projectID, epoch-1)
	if err != nil {
		if isNotExist(err) {
			return 0, errors.Wrapf(ErrInsufficientData, "project %d at epoch %d", projectID, epoch-1)
		}
		return 0, err
	}
	if pj.BaselineFlow == 0 {
		return 0, errors.Wrapf(ErrInvalidBaseline, "project %d has no baseline", projectID)
	}
	return yieldRate(r.Flow, pj.BaselineFlow, pj.BaseYieldRate), nil
}

// yieldRate adjusts the base rate by the flow ratio. Flow and baseline are bounded, so nothing overflows uint64.
func yieldRate(flow, baseline, baseRate uint64) uint64 {
	ratio := flow * 100 / baseline
	if flow >= baseline {
		ratio = min(ratio, MaxRatioUp)
	} else {
		ratio = max(ratio, MinRatioDown)
	}
	return min(baseRate*ratio, MaxYieldRate)
}

// FlowReading returns the reading of a project for an epoch
func (p *Protocol) FlowReading(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
	epoch uint64,
) (*FlowReading, error) {
	r := FlowReading{}
	if err := p.state(sm, flowReadingKey(projectID, epoch), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func flowReadingKey(projectID, epoch uint64) []byte {
	return byteutil.JoinKey(
		_flowReadingKeyPrefix,
		byteutil.Uint64ToBytesBigEndian(projectID),
		byteutil.Uint64ToBytesBigEndian(epoch),
	)
}
