// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"log"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap            *zap.Config `json:"zap" yaml:"zap"`
	RedirectStdLog bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
}

var (
	_globalCfg  GlobalConfig
	_subLoggers map[string]*zap.Logger
	_levelMux   = http.NewServeMux()
	_levelMu    sync.Mutex
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		log.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	_globalCfg.Zap = &zapCfg
	_subLoggers = make(map[string]*zap.Logger)
	zap.ReplaceGlobals(l)
}

// L wraps zap.L().
func L() *zap.Logger { return zap.L() }

// S wraps zap.S().
func S() *zap.SugaredLogger { return zap.S() }

// Logger returns logger of the given name
func Logger(name string) *zap.Logger {
	logger, ok := _subLoggers[name]
	if !ok {
		return L().Named(name)
	}
	return logger
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if _, exists := subCfgs[""]; exists {
		return errInvalidSubLoggerName
	}
	subCfgs[""] = globalCfg
	defer delete(subCfgs, "")
	for name, cfg := range subCfgs {
		if _, exists := _subLoggers[name]; exists && name != "" {
			return errDuplicateSubLogger
		}
		if cfg.Zap == nil {
			zapCfg := zap.NewProductionConfig()
			cfg.Zap = &zapCfg
		} else {
			cfg.Zap.EncoderConfig = zap.NewProductionEncoderConfig()
		}
		logger, err := cfg.Zap.Build(opts...)
		if err != nil {
			return err
		}
		if name == "" {
			_globalCfg = cfg
			if cfg.RedirectStdLog {
				zap.RedirectStdLog(logger)
			}
			zap.ReplaceGlobals(logger)
			continue
		}
		_subLoggers[name] = logger.Named(name)
		_levelMu.Lock()
		_levelMux.Handle("/"+name, cfg.Zap.Level)
		_levelMu.Unlock()
	}
	return nil
}

// RegisterLevelConfigMux registers the level config http mux of the loggers.
// GET /logging reads the global level, PUT /logging/<name> with {"level":"debug"} changes a sub logger.
func RegisterLevelConfigMux(root *http.ServeMux) {
	root.HandleFunc("/logging", func(w http.ResponseWriter, r *http.Request) {
		if _globalCfg.Zap == nil {
			http.Error(w, "logger is not initialized", http.StatusServiceUnavailable)
			return
		}
		_globalCfg.Zap.Level.ServeHTTP(w, r)
	})
	_levelMu.Lock()
	root.Handle("/logging/", http.StripPrefix("/logging", _levelMux))
	_levelMu.Unlock()
}
