// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

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

// admin stores the configuration of the distribution ledger
type admin struct {
	treasury           address.Address
	yieldCalculator    address.Address
	distributionActive bool
}

// Serialize serializes admin state into bytes
func (a *admin) Serialize() ([]byte, error) {
	return new(enc.Encoder).
		Address(1, a.treasury).
		Address(2, a.yieldCalculator).
		Bool(3, a.distributionActive).
		Result(), nil
}

// Deserialize deserializes bytes into admin state
func (a *admin) Deserialize(data []byte) error {
	*a = admin{}
	return enc.Decode(data, func(f enc.Field) (err error) {
		switch f.Num {
		case 1:
			a.treasury, err = f.Address()
		case 2:
			a.yieldCalculator, err = f.Address()
		case 3:
			a.distributionActive, err = f.Bool()
		}
		return err
	})
}

// Treasury returns the address of the treasury, the admin of the ledger
func (p *Protocol) Treasury(
	_ context.Context,
	sm protocol.StateReader,
) (address.Address, error) {
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	return a.treasury, nil
}

// YieldCalculator returns the address allowed to post yield
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

// DistributionActive returns the global distribution switch
func (p *Protocol) DistributionActive(
	_ context.Context,
	sm protocol.StateReader,
) (bool, error) {
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return false, err
	}
	return a.distributionActive, nil
}

// SetYieldCalculator sets the address allowed to post yield. Only the treasury could make this change
func (p *Protocol) SetYieldCalculator(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "setYieldCalculator", err) }()
	a, err := p.assertTreasuryPermission(ctx, sm)
	if err != nil {
		return err
	}
	a.yieldCalculator = addr
	if err = p.putState(sm, _adminKey, a); err != nil {
		return err
	}
	log.Logger(ProtocolID).Info("Set yield calculator.", zap.String("yieldCalculator", addrutil.String(addr)))
	return nil
}

// SetTreasury sets a new treasury. Only the current treasury could make this change
func (p *Protocol) SetTreasury(
	ctx context.Context,
	sm protocol.StateManager,
	addr address.Address,
) (err error) {
	defer func() { observe(ctx, "setTreasury", err) }()
	a, err := p.assertTreasuryPermission(ctx, sm)
	if err != nil {
		return err
	}
	a.treasury = addr
	return p.putState(sm, _adminKey, a)
}

// ToggleDistribution turns the global distribution switch on or off. Only the treasury could make this change
func (p *Protocol) ToggleDistribution(
	ctx context.Context,
	sm protocol.StateManager,
	active bool,
) (err error) {
	defer func() { observe(ctx, "toggleDistribution", err) }()
	a, err := p.assertTreasuryPermission(ctx, sm)
	if err != nil {
		return err
	}
	a.distributionActive = active
	if err = p.putState(sm, _adminKey, a); err != nil {
		return err
	}
	log.Logger(ProtocolID).Info("Toggled distribution.", zap.Bool("active", active))
	return nil
}

func (p *Protocol) assertTreasuryPermission(ctx context.Context, sm protocol.StateReader) (*admin, error) {
	cc := protocol.MustGetCallCtx(ctx)
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return nil, err
	}
	if !addrutil.Equal(a.treasury, cc.Caller) {
		return nil, errors.Wrapf(ErrNotAuthorized, "%s is not the treasury", addrutil.String(cc.Caller))
	}
	return &a, nil
}

func (p *Protocol) assertYieldCalculatorPermission(ctx context.Context, sm protocol.StateReader) error {
	cc := protocol.MustGetCallCtx(ctx)
	a := admin{}
	if err := p.state(sm, _adminKey, &a); err != nil {
		return err
	}
	if !addrutil.Equal(a.yieldCalculator, cc.Caller) {
		return errors.Wrapf(ErrNotAuthorized, "%s is not the yield calculator", addrutil.String(cc.Caller))
	}
	return nil
}
