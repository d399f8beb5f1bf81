// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package oracle

import (
	"bytes"
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
)

// FlowData is a reading accepted from an oracle, keyed by the epoch it describes
type FlowData struct {
	Flow       uint64
	SourceHash hash.Hash256
	Timestamp  uint64
	Oracle     address.Address
}

// Serialize serializes flow data into bytes
func (d *FlowData) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint64(1, d.Flow).
		Bytes(2, d.SourceHash[:]).
		Uint64(3, d.Timestamp).
		Address(4, d.Oracle).
		Result(), nil
}

// Deserialize deserializes bytes into flow data
func (d *FlowData) Deserialize(data []byte) error {
	*d = FlowData{}
	return enc.Decode(data, func(f enc.Field) error {
		var err error
		switch f.Num {
		case 1:
			d.Flow, err = f.Uint64()
		case 2:
			var b []byte
			if b, err = f.Bytes(); err == nil {
				d.SourceHash = hash.BytesToHash256(b)
			}
		case 3:
			d.Timestamp, err = f.Uint64()
		case 4:
			d.Oracle, err = f.Address()
		}
		return err
	})
}

// latestFlow stores the last accepted flow of a project
type latestFlow struct {
	flow uint64
}

// Serialize serializes latest flow into bytes
func (l *latestFlow) Serialize() ([]byte, error) {
	return new(enc.Encoder).Uint64(1, l.flow).Result(), nil
}

// Deserialize deserializes bytes into latest flow
func (l *latestFlow) Deserialize(data []byte) error {
	*l = latestFlow{}
	return enc.Decode(data, func(f enc.Field) (err error) {
		if f.Num == 1 {
			l.flow, err = f.Uint64()
		}
		return err
	})
}

// SubmitFlow accepts a flow reading of a project from a registered oracle. The reading is attributed to the epoch
// before the current one.
func (p *Protocol) SubmitFlow(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	flow uint64,
	sourceHash []byte,
	timestamp uint64,
) (err error) {
	defer func() { observe(ctx, "submitFlow", err) }()
	cc := protocol.MustGetCallCtx(ctx)
	src, err := p.projectSource(sm, projectID)
	if err != nil {
		return err
	}
	isOracle, err := p.IsOracle(ctx, sm, cc.Caller)
	if err != nil {
		return err
	}
	if !isOracle {
		return errors.Wrap(ErrNotAuthorized, "caller is not a registered oracle")
	}
	if flow < MinFlow || flow > MaxFlow {
		return errors.Wrapf(ErrInvalidFlow, "flow %d out of [%d, %d]", flow, MinFlow, MaxFlow)
	}
	if !bytes.Equal(src.SourceHash[:], sourceHash) {
		return errors.Wrapf(ErrInvalidSource, "source hash %x does not match the registered one", sourceHash)
	}
	if timestamp == 0 || timestamp > cc.Epoch {
		return errors.Wrapf(ErrInvalidTimestamp, "timestamp %d at epoch %d", timestamp, cc.Epoch)
	}
	// epoch >= timestamp > 0 here, so the previous epoch exists
	prevEpoch := cc.Epoch - 1
	if prevEpoch < src.LastUpdate || prevEpoch-src.LastUpdate < MinUpdateInterval {
		return errors.Wrapf(ErrTooFrequent, "last update at %d, now %d", src.LastUpdate, prevEpoch)
	}
	if cc.Epoch-timestamp > MaxStaleness {
		return errors.Wrapf(ErrDataStale, "timestamp %d at epoch %d", timestamp, cc.Epoch)
	}

	if err = p.putState(sm, flowDataKey(projectID, prevEpoch), &FlowData{
		Flow:       flow,
		SourceHash: src.SourceHash,
		Timestamp:  timestamp,
		Oracle:     cc.Caller,
	}); err != nil {
		return err
	}
	if err = p.putState(sm, latestFlowKey(projectID), &latestFlow{flow: flow}); err != nil {
		return err
	}
	src.LastUpdate = prevEpoch
	src.UpdateCount++
	if err = p.putState(sm, sourceKey(projectID), src); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Accepted flow reading.",
		zap.Uint64("project", projectID),
		zap.Uint64("flow", flow),
		zap.Uint64("epoch", prevEpoch),
		zap.String("oracle", cc.Caller.String()),
	)
	return nil
}

// FlowData returns the reading of a project for an epoch
func (p *Protocol) FlowData(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
	epoch uint64,
) (*FlowData, error) {
	d := FlowData{}
	if err := p.state(sm, flowDataKey(projectID, epoch), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LatestFlow returns the last accepted flow of a project
func (p *Protocol) LatestFlow(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
) (uint64, error) {
	l := latestFlow{}
	if err := p.state(sm, latestFlowKey(projectID), &l); err != nil {
		return 0, err
	}
	return l.flow, nil
}

func flowDataKey(projectID, epoch uint64) []byte {
	return byteutil.JoinKey(
		_flowDataKeyPrefix,
		byteutil.Uint64ToBytesBigEndian(projectID),
		byteutil.Uint64ToBytesBigEndian(epoch),
	)
}

func latestFlowKey(projectID uint64) []byte {
	return byteutil.JoinKey(_latestFlowKeyPrefix, byteutil.Uint64ToBytesBigEndian(projectID))
}
