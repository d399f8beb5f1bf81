// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

import (
	"context"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/util/addrutil"
)

// admin stores the admin and the oracle of the yield calculator
type admin struct {
	admin  address.Address
	oracle address.Address
}

// Serialize serializes admin state into bytes
func (a *admin) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Address(1, a.admin).
		Address(2, a.oracle).
		Result(), nil
}

// Deserialize deserializes bytes into admin state
func (a *admin) Deserialize(data []byte) error {
	*a = admin{}
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			a.admin, err = f.Address()
		case 2:
			a.oracle, err = f.Address()
		}
		return err
	})
}

// Admin returns the address of current admin
func (p *Protocol) Admin(
	_ context.Context,
	sm protocol.StateReader,
) (address.Address, error) {
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	return a.admin, nil
}

// Oracle returns the address allowed to submit flow readings, nil if unset
func (p *Protocol) Oracle(
	_ context.Context,
	sm protocol.StateReader,
) (address.Address, error) {
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	return a.oracle, nil
}

// SetAdmin sets a new admin address. Only the current admin could make this change
func (p *Protocol) SetAdmin(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "setAdmin", err) }()
	a, err := p.assertAdminPermission(ctx, sm)
	if err != nil {
		return err
	}
	a.admin = addr
	return p.putState(sm, _adminKey, a)
}

// SetOracle sets the oracle address. Only the current admin could make this change
func (p *Protocol) SetOracle(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "setOracle", err) }()
	a, err := p.assertAdminPermission(ctx, sm)
	if err != nil {
		return err
	}
	a.oracle = addr
	if err = p.putState(sm, _adminKey, a); err != nil {
		return err
	}
	log.Logger(ProtocolID).Info("Set oracle.", zap.String("oracle", addrutil.String(addr)))
	return nil
}

func (p *Protocol) assertAdminPermission(ctx context.Context, sm protocol.StateReader) (*admin, error) {
	cc := protocol.MustGetCallCtx(ctx)
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	if !addrutil.Equal(a.admin, cc.Caller) {
		return nil, errors.Wrapf(ErrNotAuthorized, "%s is not the admin of yield calculator", addrutil.String(cc.Caller))
	}
	return &a, nil
}

func (p *Protocol) assertOraclePermission(ctx context.Context, sm protocol.StateReader) error {
	cc := protocol.MustGetCallCtx(ctx)
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return err
	}
	if a.oracle == nil {
		return ErrOracleNotSet
	}
	if !addrutil.Equal(a.oracle, cc.Caller) {
		return errors.Wrapf(ErrNotAuthorized, "%s is not the oracle", addrutil.String(cc.Caller))
	}
	return nil
}
