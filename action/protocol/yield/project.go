// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

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

// Project is an investment project whose yield follows its flow
type Project struct {
	BaselineFlow     uint64
	BaseYieldRate    uint64
	TotalInvested    *uint256.Int
	LastCalcBlock    uint64
	AccumulatedYield *uint256.Int
	Active           bool
	PeriodDays       uint64
	StartBlock       uint64
}

// Serialize serializes project into bytes
func (pj *Project) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Uint64(1, pj.BaselineFlow).
		Uint64(2, pj.BaseYieldRate).
		Uint256(3, pj.TotalInvested).
		Uint64(4, pj.LastCalcBlock).
		Uint256(5, pj.AccumulatedYield).
		Bool(6, pj.Active).
		Uint64(7, pj.PeriodDays).
		Uint64(8, pj.StartBlock).
		Result(), nil
}

// Deserialize deserializes bytes into project
func (pj *Project) Deserialize(data []byte) error {
	*pj = Project{
		TotalInvested:    uint256.NewInt(0),
		AccumulatedYield: uint256.NewInt(0),
	}
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			pj.BaselineFlow, err = f.Uint64()
		case 2:
			pj.BaseYieldRate, err = f.Uint64()
		case 3:
			pj.TotalInvested, err = f.Uint256()
		case 4:
			pj.LastCalcBlock, err = f.Uint64()
		case 5:
			pj.AccumulatedYield, err = f.Uint256()
		case 6:
			pj.Active, err = f.Bool()
		case 7:
			pj.PeriodDays, err = f.Uint64()
		case 8:
			pj.StartBlock, err = f.Uint64()
		}
		return err
	})
}

// RegisterProject registers a project, starting at the current epoch
func (p *Protocol) RegisterProject(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	baselineFlow uint64,
	baseYieldRate uint64,
	periodDays uint64,
) (err error) {
	defer func() { observe(ctx, "registerProject", err) }()
	if _, err = p.assertAdminPermission(ctx, sm); err != nil {
		return err
	}
	_, err = p.Project(ctx, sm, projectID)
	switch {
	case err == nil:
		return errors.Wrapf(ErrProjectExists, "project %d", projectID)
	case !isNotExist(err):
		return err
	}
	if baselineFlow < MinBaselineFlow || baselineFlow > MaxBaselineFlow {
		return errors.Wrapf(ErrInvalidBaseline, "baseline %d out of [%d, %d]", baselineFlow, MinBaselineFlow, MaxBaselineFlow)
	}
	if baseYieldRate < MinBaseYieldRate || baseYieldRate > MaxBaseYieldRate {
		return errors.Wrapf(ErrInvalidRate, "rate %d out of [%d, %d]", baseYieldRate, MinBaseYieldRate, MaxBaseYieldRate)
	}
	if periodDays < MinPeriodDays || periodDays > MaxPeriodDays {
		return errors.Wrapf(ErrInvalidPeriod, "period %d out of [%d, %d]", periodDays, MinPeriodDays, MaxPeriodDays)
	}
	epoch := protocol.MustGetCallCtx(ctx).Epoch
	if err = p.putState(sm, projectKey(projectID), &Project{
		BaselineFlow:     baselineFlow,
		BaseYieldRate:    baseYieldRate,
		TotalInvested:    uint256.NewInt(0),
		AccumulatedYield: uint256.NewInt(0),
		Active:           true,
		PeriodDays:       periodDays,
		StartBlock:       epoch,
	}); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Registered project.",
		zap.Uint64("project", projectID),
		zap.Uint64("baseline", baselineFlow),
		zap.Uint64("rate", baseYieldRate),
		zap.Uint64("periodDays", periodDays),
	)
	return nil
}

// DeactivateProject stops a project from taking readings and investments. Accrued claims are kept
func (p *Protocol) DeactivateProject(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
) (err error) {
	defer func() { observe(ctx, "deactivateProject", err) }()
	pj, err := p.project(sm, projectID)
	if err != nil {
		return err
	}
	if _, err = p.assertAdminPermission(ctx, sm); err != nil {
		return err
	}
	pj.Active = false
	if err = p.putState(sm, projectKey(projectID), pj); err != nil {
		return err
	}
	log.Logger(ProtocolID).Info("Deactivated project.", zap.Uint64("project", projectID))
	return nil
}

// Project returns a registered project
func (p *Protocol) Project(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
) (*Project, error) {
	pj := Project{}
	if err := p.state(sm, projectKey(projectID), &pj); err != nil {
		return nil, err
	}
	return &pj, nil
}

// project returns a project, ErrProjectNotFound if it is not registered
func (p *Protocol) project(sm protocol.StateReader, projectID uint64) (*Project, error) {
	pj := Project{}
	if err := p.state(sm, projectKey(projectID), &pj); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrProjectNotFound, "project %d", projectID)
		}
		return nil, err
	}
	return &pj, nil
}

// activeProject returns a project that still takes readings and investments
func (p *Protocol) activeProject(sm protocol.StateReader, projectID uint64) (*Project, error) {
	pj, err := p.project(sm, projectID)
	if err != nil {
		return nil, err
	}
	if !pj.Active {
		return nil, errors.Wrapf(ErrProjectInactive, "project %d", projectID)
	}
	return pj, nil
}

func projectKey(projectID uint64) []byte {
	return byteutil.JoinKey(_projectKeyPrefix, byteutil.Uint64ToBytesBigEndian(projectID))
}
