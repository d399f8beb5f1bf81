// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package oracle

import (
	"context"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/action/protocol"
	"github.com/iotexproject/iotex-flowyield/pkg/enc"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/util/addrutil"
	"github.com/iotexproject/iotex-flowyield/pkg/util/byteutil"
)

// admin stores the configuration of the oracle ingest protocol
type admin struct {
	admin           address.Address
	yieldCalculator address.Address
}

// Serialize serializes admin state into bytes
func (a *admin) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Address(1, a.admin).
		Address(2, a.yieldCalculator).
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
			a.yieldCalculator, err = f.Address()
		}
		return err
	})
}

// reporter marks an address as a registered oracle
type reporter struct {
	registeredAt uint64
}

// Serialize serializes reporter state into bytes
func (r *reporter) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Bool(1, true).
		Uint64(2, r.registeredAt).
		Result(), nil
}

// Deserialize deserializes bytes into reporter state
func (r *reporter) Deserialize(data []byte) error {
	*r = reporter{}
	return enc.Decode(data, func(f enc.Field) (err error) {
		if f.Num == 2 {
			r.registeredAt, err = f.Uint64()
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

// YieldCalculator returns the address of the yield calculator fed by this protocol, nil if unset
func (p *Protocol) YieldCalculator(
	_ context.Context,
	sm protocol.StateReader,
) (address.Address, error) {
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	return a.yieldCalculator, nil
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

// SetYieldCalculator sets the yield calculator address. Only the current admin could make this change
func (p *Protocol) SetYieldCalculator(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "setYieldCalculator", err) }()
	a, err := p.assertAdminPermission(ctx, sm)
	if err != nil {
		return err
	}
	a.yieldCalculator = addr
	return p.putState(sm, _adminKey, a)
}

// RegisterOracle adds an address into the set of trusted oracles
func (p *Protocol) RegisterOracle(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "registerOracle", err) }()
	if _, err = p.assertAdminPermission(ctx, sm); err != nil {
		return err
	}
	exist, err := p.IsOracle(ctx, sm, addr)
	if err != nil {
		return err
	}
	if exist {
		return errors.Wrapf(ErrOracleExists, "oracle %s", addr.String())
	}
	if err = p.putState(sm, oracleKey(addr), &reporter{registeredAt: protocol.MustGetCallCtx(ctx).Epoch}); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Registered oracle.", zap.String("oracle", addr.String()))
	return nil
}

// RemoveOracle removes an address from the set of trusted oracles
func (p *Protocol) RemoveOracle(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "removeOracle", err) }()
	if _, err = p.assertAdminPermission(ctx, sm); err != nil {
		return err
	}
	exist, err := p.IsOracle(ctx, sm, addr)
	if err != nil {
		return err
	}
	if !exist {
		return errors.Wrapf(ErrNotAuthorized, "%s is not an oracle", addr.String())
	}
	if err = p.deleteState(sm, oracleKey(addr)); err != nil {
		return err
	}
	log.Logger(ProtocolID).Debug("Removed oracle.", zap.String("oracle", addr.String()))
	return nil
}

// IsOracle returns whether the address is a registered oracle
func (p *Protocol) IsOracle(
	_ context.Context,
	sm protocol.StateReader,
	addr address.Address,
) (bool, error) {
	if addr == nil {
		return false, nil
	}
	r := reporter{}
	switch err := p.state(sm, oracleKey(addr), &r); {
	case err == nil:
		return true, nil
	case isNotExist(err):
		return false, nil
	default:
		return false, err
	}
}

func (p *Protocol) assertAdminPermission(ctx context.Context, sm protocol.StateReader) (*admin, error) {
	cc := protocol.MustGetCallCtx(ctx)
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	if !addrutil.Equal(a.admin, cc.Caller) {
		return nil, errors.Wrapf(ErrNotAuthorized, "%s is not the admin of oracle ingest", addrutil.String(cc.Caller))
	}
	return &a, nil
}

func oracleKey(addr address.Address) []byte {
	return byteutil.JoinKey(_oracleKeyPrefix, addr.Bytes())
}
