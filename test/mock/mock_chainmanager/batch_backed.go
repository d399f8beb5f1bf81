// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package mock_chainmanager

import (
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/db/batch"
	"github.com/iotexproject/iotex-flowyield/state"
)

// NewBatchBackedStateManager returns a MockStateManager whose states live in a cached batch
func NewBatchBackedStateManager(ctrl *gomock.Controller) *MockStateManager {
	sm := NewMockStateManager(ctrl)
	cb := batch.NewCachedBatch()
	sm.EXPECT().State(gomock.Any(), gomock.Any()).DoAndReturn(
		func(s interface{}, opts ...protocol.StateOption) error {
			cfg, err := protocol.CreateStateConfig(opts...)
			if err != nil {
				return err
			}
			val, err := cb.Get(cfg.Namespace, cfg.Key)
			if err != nil {
				return errors.Wrapf(state.ErrStateNotExist, "k = %x doesn't exist", cfg.Key)
			}
			return state.Deserialize(s, val)
		},
	).AnyTimes()
	sm.EXPECT().PutState(gomock.Any(), gomock.Any()).DoAndReturn(
		func(s interface{}, opts ...protocol.StateOption) error {
			cfg, err := protocol.CreateStateConfig(opts...)
			if err != nil {
				return err
			}
			ss, err := state.Serialize(s)
			if err != nil {
				return err
			}
			cb.Put(cfg.Namespace, cfg.Key, ss)
			return nil
		},
	).AnyTimes()
	sm.EXPECT().DelState(gomock.Any()).DoAndReturn(
		func(opts ...protocol.StateOption) error {
			cfg, err := protocol.CreateStateConfig(opts...)
			if err != nil {
				return err
			}
			cb.Delete(cfg.Namespace, cfg.Key)
			return nil
		},
	).AnyTimes()
	sm.EXPECT().Snapshot().DoAndReturn(cb.Snapshot).AnyTimes()
	sm.EXPECT().Revert(gomock.Any()).DoAndReturn(cb.Revert).AnyTimes()
	return sm
}
