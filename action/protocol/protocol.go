// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/pkg/log"
)

type (
	// Protocol defines the protocol interfaces atop the flow yield service
	Protocol interface {
		// Name returns the name of protocol, which is also the namespace of its states
		Name() string
		// Address returns the identity the protocol uses when calling other protocols
		Address() address.Address
	}

	// GenesisStateCreator creates some genesis states
	GenesisStateCreator interface {
		CreateGenesisStates(context.Context, StateManager) error
	}
)

// ProtocolAddress derives the address of a protocol from its ID
func ProtocolAddress(id string) address.Address {
	h := hash.Hash160b([]byte(id))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		log.L().Panic("Error when constructing the address of protocol", zap.String("id", id), zap.Error(err))
	}
	return addr
}
