// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package oracle

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
)

// ProjectSource is the registered data source of a project
type ProjectSource struct {
	// SourceHash identifies the data source, fixed at registration
	SourceHash hash.Hash256
	// LastUpdate is the epoch the last accepted reading describes, 0 if none or reset
	LastUpdate uint64
	// UpdateCount is the number of accepted readings
	UpdateCount uint64
}

// Serialize serializes project source into bytes
func (s *ProjectSource) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Bytes(1, s.SourceHash[:]).
		Uint64(2, s.LastUpdate).
		Uint64(3, s.UpdateCount).
		Result(), nil
}

// Deserialize deserializes bytes into project source
func (s *ProjectSource) Deserialize(data []byte) error {
	*s = ProjectSource{}
	return enc.Decode(data, func(f enc.Field) error {
		var err error
		switch f.Num {
		case 1:
			var b []byte
			if b, err = f.Bytes(); err == nil {
				if len(b) != SourceHashLength {
					return errors.Errorf("invalid source hash length %d", len(b))
				}
				s.SourceHash = hash.BytesToHash256(b)
			}
		case 2:
			s.LastUpdate, err = f.Uint64()
		case 3:
			s.UpdateCount, err = f.Uint64()
		}
		return err
	})
}

// RegisterProjectSource registers the data source of a project, once per project
func (p *Protocol) RegisterProjectSource(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
	sourceHash []byte,
) (err error) {
	defer func() { observe(ctx, "registerProjectSource", err) }()
	if _, err = p.assertAdminPermission(ctx, sm); err != nil {
		return err
	}
	if len(sourceHash) != SourceHashLength {
		return errors.Wrapf(ErrInvalidSource, "source hash has %d bytes", len(sourceHash))
	}
	_, err = p.ProjectSource(ctx, sm, projectID)
	switch {
	case err == nil:
		return errors.Wrapf(ErrSourceExists, "project %d", projectID)
	case !isNotExist(err):
		return err
	}
	if err = p.putState(sm, sourceKey(projectID), &ProjectSource{
		SourceHash: hash.BytesToHash256(sourceHash),
	}); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Registered project source.", zap.Uint64("project", projectID))
	return nil
}

// EmergencyPauseSource resets the last update of a project source to 0. The next submission passes the frequency
// check right away, the source stays registered.
func (p *Protocol) EmergencyPauseSource(
	ctx context.Context,
	sm protocol.StateManager,
	projectID uint64,
) (err error) {
	defer func() { observe(ctx, "emergencyPauseSource", err) }()
	src, err := p.projectSource(sm, projectID)
	if err != nil {
		return err
	}
	if _, err = p.assertAdminPermission(ctx, sm); err != nil {
		return err
	}
	src.LastUpdate = 0
	if err = p.putState(sm, sourceKey(projectID), src); err != nil {
		return err
	}
	log.Logger(ProtocolID).Info("Reset project source in emergency.", zap.Uint64("project", projectID))
	return nil
}

// ProjectSource returns the registered source of a project
func (p *Protocol) ProjectSource(
	_ context.Context,
	sm protocol.StateReader,
	projectID uint64,
) (*ProjectSource, error) {
	src := ProjectSource{}
	if err := p.state(sm, sourceKey(projectID), &src); err != nil {
		return nil, err
	}
	return &src, nil
}

// projectSource returns the source of a project, ErrProjectNotFound if it is not registered
func (p *Protocol) projectSource(sm protocol.StateReader, projectID uint64) (*ProjectSource, error) {
	src := ProjectSource{}
	if err := p.state(sm, sourceKey(projectID), &src); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrProjectNotFound, "project %d", projectID)
		}
		return nil, err
	}
	return &src, nil
}

func sourceKey(projectID uint64) []byte {
	return byteutil.JoinKey(_sourceKeyPrefix, byteutil.Uint64ToBytesBigEndian(projectID))
}
