// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package genesis

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-flowyield/test/identityset"
)

func TestDefaultConfig(t *testing.T) {
	require := require.New(t)
	// construct a config without overriding
	cfg, err := New("")
	require.NoError(err)
	require.NoError(cfg.Validate())
	require.Equal(Default.EpochInterval, cfg.EpochInterval)
	require.Equal(10*time.Minute, cfg.EpochInterval)
	require.Equal(identityset.Address(identityset.OracleAdmin).String(), cfg.OracleAdminAddr().String())
	require.Equal(identityset.Address(identityset.CalculatorAdmin).String(), cfg.CalculatorAdminAddr().String())
	require.Equal(identityset.Address(identityset.Treasury).String(), cfg.TreasuryAddr().String())
	require.Len(cfg.ReporterAddrs(), 1)
	require.True(cfg.DistributionActive)
}

func TestNewFromFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "genesis.yaml")
	reporter := identityset.Address(identityset.SecondReporter).String()
	require.NoError(os.WriteFile(path, []byte(`
blockchain:
  epochInterval: 1m
oracle:
  reporters: ["`+reporter+`"]
distribution:
  active: false
`), 0644))
	cfg, err := New(path)
	require.NoError(err)
	require.NoError(cfg.Validate())
	require.Equal(time.Minute, cfg.EpochInterval)
	require.Equal([]string{reporter}, cfg.ReporterAddrStrs)
	require.False(cfg.DistributionActive)
	require.Equal(Default.TreasuryAddrStr, cfg.TreasuryAddrStr)
}

func TestValidate(t *testing.T) {
	require := require.New(t)

	g := Default
	g.EpochInterval = 0
	require.Error(g.Validate())

	g = Default
	g.TreasuryAddrStr = "treasury"
	require.Error(g.Validate())
	require.Panics(func() { g.TreasuryAddr() })

	g = Default
	g.ReporterAddrStrs = []string{"io1"}
	require.Error(g.Validate())
}

func TestDevelopmentRoles(t *testing.T) {
	require := require.New(t)

	g := Default
	require.Equal([]string{"oracle admin", "calculator admin", "treasury", "reporter"}, g.DevelopmentRoles())

	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(os.WriteFile(path, []byte(`
oracle:
  admin: `+identityset.Address(identityset.Stranger).String()+`
  reporters: ["`+identityset.Address(identityset.SecondReporter).String()+`"]
yield:
  admin: `+identityset.Address(identityset.Investor).String()+`
distribution:
  treasury: `+identityset.Address(identityset.SecondInvestor).String()+`
`), 0644))
	cfg, err := New(path)
	require.NoError(err)
	require.NoError(cfg.Validate())
	require.Empty(cfg.DevelopmentRoles())

	g = Default
	g.TreasuryAddrStr = identityset.Address(identityset.Stranger).String()
	require.Equal([]string{"oracle admin", "calculator admin", "reporter"}, g.DevelopmentRoles())
}
