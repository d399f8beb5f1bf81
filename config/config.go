// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-flowyield/db"
	"github.com/iotexproject/iotex-flowyield/genesis"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
)

var (
	// Default is the default config
	Default = Config{
		DB: db.DefaultConfig,
		System: System{
			HTTPStatsPort:     8080,
			HTTPAdminPort:     0,
			HeartbeatInterval: 10 * time.Second,
			ReadCacheExpiry:   time.Minute,
		},
		Genesis: genesis.Default,
		SubLogs: make(map[string]log.GlobalConfig),
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateDB,
		ValidateGenesis,
		ValidateSystem,
	}
)

type (
	// System is the config struct for the daemon
	System struct {
		// HTTPStatsPort is the port of the prometheus endpoint, 0 to disable it
		HTTPStatsPort int `yaml:"httpStatsPort"`
		// HTTPAdminPort is the port of the log level and profiling endpoints, 0 to disable it
		HTTPAdminPort int `yaml:"httpAdminPort"`
		// HeartbeatInterval is the interval of the status report, 0 to disable it
		HeartbeatInterval time.Duration `yaml:"heartbeatInterval"`
		// ReadCacheExpiry is how long a read result stays cached, 0 to disable the cache
		ReadCacheExpiry time.Duration `yaml:"readCacheExpiry"`
	}

	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		DB      db.Config                   `yaml:"db"`
		Genesis genesis.Genesis             `yaml:"genesis"`
		System  System                      `yaml:"system"`
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config paths are not empty, it will
// read from the files and override the default configs. By default, it will apply all validation functions. To
// bypass validation, use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}
	if cfg.SubLogs == nil {
		cfg.SubLogs = make(map[string]log.GlobalConfig)
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// ValidateDB validates the db configs
func ValidateDB(cfg Config) error {
	switch cfg.DB.Backend {
	case db.BackendMemory:
		return nil
	case "", db.BackendBolt, db.BackendPebble:
	default:
		return errors.Wrapf(ErrInvalidCfg, "unsupported db backend %s", cfg.DB.Backend)
	}
	if cfg.DB.DbPath == "" {
		return errors.Wrap(ErrInvalidCfg, "db path is empty")
	}
	if cfg.DB.NumRetries == 0 {
		return errors.Wrap(ErrInvalidCfg, "db retries should be positive")
	}
	return nil
}

// ValidateGenesis validates the genesis configs
func ValidateGenesis(cfg Config) error {
	if err := cfg.Genesis.Validate(); err != nil {
		return errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return nil
}

// ValidateSystem validates the system configs
func ValidateSystem(cfg Config) error {
	if cfg.System.HTTPStatsPort < 0 || cfg.System.HTTPStatsPort > 65535 {
		return errors.Wrapf(ErrInvalidCfg, "invalid http stats port %d", cfg.System.HTTPStatsPort)
	}
	if cfg.System.HTTPAdminPort < 0 || cfg.System.HTTPAdminPort > 65535 {
		return errors.Wrapf(ErrInvalidCfg, "invalid http admin port %d", cfg.System.HTTPAdminPort)
	}
	if cfg.System.HeartbeatInterval < 0 {
		return errors.Wrapf(ErrInvalidCfg, "invalid heartbeat interval %s", cfg.System.HeartbeatInterval)
	}
	if cfg.System.ReadCacheExpiry < 0 {
		return errors.Wrapf(ErrInvalidCfg, "invalid read cache expiry %s", cfg.System.ReadCacheExpiry)
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
