// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package genesis

import (
	"time"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/config"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/test/identityset"
)

// Default contains the default genesis config
var Default = defaultConfig()

func init() {
	initTestDefaultConfig()
}

func defaultConfig() Genesis {
	return Genesis{
		Blockchain: Blockchain{
			Timestamp:     1546329600,
			EpochInterval: 10 * time.Minute,
		},
		Oracle: Oracle{
			ReporterAddrStrs: []string{},
		},
		Distribution: Distribution{
			DistributionActive: true,
		},
	}
}

func initTestDefaultConfig() {
	Default = defaultConfig()
	Default.OracleAdminAddrStr = identityset.Address(identityset.OracleAdmin).String()
	Default.CalculatorAdminAddrStr = identityset.Address(identityset.CalculatorAdmin).String()
	Default.TreasuryAddrStr = identityset.Address(identityset.Treasury).String()
	Default.ReporterAddrStrs = []string{identityset.Address(identityset.Reporter).String()}
}

type (
	// Genesis is the root level of genesis config. It seeds the configuration records of every protocol and must
	// not change once the states are bootstrapped.
	Genesis struct {
		Blockchain   `yaml:"blockchain"`
		Oracle       `yaml:"oracle"`
		Yield        `yaml:"yield"`
		Distribution `yaml:"distribution"`
	}
	// Blockchain contains the timing parameters
	Blockchain struct {
		// Timestamp is the unix time of epoch 0
		Timestamp int64 `yaml:"timestamp"`
		// EpochInterval is the wall clock duration of one epoch
		EpochInterval time.Duration `yaml:"epochInterval"`
	}
	// Oracle contains the configs for the oracle ingest protocol
	Oracle struct {
		// OracleAdminAddrStr is the address of the oracle ingest admin
		OracleAdminAddrStr string `yaml:"admin"`
		// ReporterAddrStrs are the addresses of the initially registered oracles
		ReporterAddrStrs []string `yaml:"reporters"`
	}
	// Yield contains the configs for the yield calculator protocol
	Yield struct {
		// CalculatorAdminAddrStr is the address of the yield calculator admin
		CalculatorAdminAddrStr string `yaml:"admin"`
	}
	// Distribution contains the configs for the distribution ledger protocol
	Distribution struct {
		// TreasuryAddrStr is the address of the treasury, the admin of the ledger
		TreasuryAddrStr string `yaml:"treasury"`
		// DistributionActive is the initial state of the global distribution switch
		DistributionActive bool `yaml:"active"`
	}
)

// New constructs a genesis config. It loads the default values, and could be overwritten by values defined in the yaml
// config files
func New(genesisPath string) (Genesis, error) {
	opts := make([]config.YAMLOption, 0)
	opts = append(opts, config.Static(Default))
	if genesisPath != "" {
		opts = append(opts, config.File(genesisPath))
	}
	yaml, err := config.NewYAML(opts...)
	if err != nil {
		return Genesis{}, errors.Wrap(err, "error when constructing a genesis in yaml")
	}

	var genesis Genesis
	if err := yaml.Get(config.Root).Populate(&genesis); err != nil {
		return Genesis{}, errors.Wrap(err, "failed to unmarshal yaml genesis to struct")
	}
	return genesis, nil
}

// Validate checks the addresses and timing parameters of the genesis
func (g *Genesis) Validate() error {
	if g.EpochInterval <= 0 {
		return errors.Errorf("invalid epoch interval %s", g.EpochInterval)
	}
	for name, s := range map[string]string{
		"oracle admin":     g.OracleAdminAddrStr,
		"calculator admin": g.CalculatorAdminAddrStr,
		"treasury":         g.TreasuryAddrStr,
	} {
		if _, err := address.FromString(s); err != nil {
			return errors.Wrapf(err, "invalid %s address %s", name, s)
		}
	}
	for _, s := range g.ReporterAddrStrs {
		if _, err := address.FromString(s); err != nil {
			return errors.Wrapf(err, "invalid reporter address %s", s)
		}
	}
	for _, role := range g.DevelopmentRoles() {
		log.L().Warn("Genesis role uses a well-known development key.", zap.String("role", role))
	}
	return nil
}

// DevelopmentRoles returns the roles still held by the deterministic development identities of Default. A
// production genesis file overrides all of them.
func (g *Genesis) DevelopmentRoles() []string {
	roles := make([]string, 0)
	for _, r := range []struct {
		name string
		addr string
		idx  int
	}{
		{"oracle admin", g.OracleAdminAddrStr, identityset.OracleAdmin},
		{"calculator admin", g.CalculatorAdminAddrStr, identityset.CalculatorAdmin},
		{"treasury", g.TreasuryAddrStr, identityset.Treasury},
	} {
		if r.addr == identityset.Address(r.idx).String() {
			roles = append(roles, r.name)
		}
	}
	dev := identityset.Address(identityset.Reporter).String()
	for _, s := range g.ReporterAddrStrs {
		if s == dev {
			roles = append(roles, "reporter")
			break
		}
	}
	return roles
}

// OracleAdminAddr returns the address of the oracle ingest admin
func (o *Oracle) OracleAdminAddr() address.Address {
	return mustAddress(o.OracleAdminAddrStr)
}

// ReporterAddrs returns the addresses of the initial oracles
func (o *Oracle) ReporterAddrs() []address.Address {
	addrs := make([]address.Address, 0, len(o.ReporterAddrStrs))
	for _, s := range o.ReporterAddrStrs {
		addrs = append(addrs, mustAddress(s))
	}
	return addrs
}

// CalculatorAdminAddr returns the address of the yield calculator admin
func (y *Yield) CalculatorAdminAddr() address.Address {
	return mustAddress(y.CalculatorAdminAddrStr)
}

// TreasuryAddr returns the address of the treasury
func (d *Distribution) TreasuryAddr() address.Address {
	return mustAddress(d.TreasuryAddrStr)
}

func mustAddress(s string) address.Address {
	addr, err := address.FromString(s)
	if err != nil {
		log.L().Panic("Error when decoding the address", zap.String("address", s), zap.Error(err))
	}
	return addr
}
