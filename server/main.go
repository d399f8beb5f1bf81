// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Usage:
//
//	go build -o ./bin/server ./server
//	./bin/server -config-path=[string] -genesis-path=[string]
package main

import (
	"context"
	"flag"
	"fmt"
	glog "log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/config"
	"github.com/iotexproject/iotex-flowyield/genesis"
	"github.com/iotexproject/iotex-flowyield/pkg/log"
	"github.com/iotexproject/iotex-flowyield/pkg/probe"
	"github.com/iotexproject/iotex-flowyield/pkg/util/fileutil"
	"github.com/iotexproject/iotex-flowyield/server/itx"
)

var (
	// _genesisPath is the path to the genesis file
	_genesisPath string
	// _overwriteConfigPath is the path to the config file which overwrites the default values
	_overwriteConfigPath string
	// _secretPath is the path to the config file which overwrites the secret values
	_secretPath string
)

func init() {
	flag.StringVar(&_genesisPath, "genesis-path", "", "Genesis path")
	flag.StringVar(&_overwriteConfigPath, "config-path", "", "Config path")
	flag.StringVar(&_secretPath, "secret-path", "", "Secret path")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr,
			"usage: server -config-path=[string] -genesis-path=[string] -secret-path=[string]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
}

func main() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	livenessCtx, livenessCancel := context.WithCancel(context.Background())

	if _genesisPath != "" && !fileutil.FileExists(_genesisPath) {
		glog.Fatalf("Genesis file %s does not exist.", _genesisPath)
	}
	genesisCfg, err := genesis.New(_genesisPath)
	if err != nil {
		glog.Fatalln("Failed to new genesis config.", zap.Error(err))
	}
	cfg, err := config.New(fileutil.ExistingFiles(_overwriteConfigPath, _secretPath), config.DoNotValidate)
	if err != nil {
		glog.Fatalln("Failed to new config.", zap.Error(err))
	}
	cfg.Genesis = genesisCfg
	for _, validate := range config.Validates {
		if err := validate(cfg); err != nil {
			glog.Fatalln("Failed to validate config.", zap.Error(err))
		}
	}
	initLogger(cfg)

	log.S().Infof("Config in use: %+v", cfg.System)
	log.S().Infof("Genesis timestamp: %d", cfg.Genesis.Timestamp)

	probeSvr := probe.New(cfg.System.HTTPStatsPort)
	if err := probeSvr.Start(ctx); err != nil {
		log.L().Fatal("Failed to start probe server.", zap.Error(err))
	}
	go func() {
		<-stop
		// start stopping
		cancel()
		<-stopped

		// liveness end
		if err := probeSvr.Stop(livenessCtx); err != nil {
			log.L().Error("Error when stopping probe server.", zap.Error(err))
		}
		livenessCancel()
	}()

	// create and start the node
	svr, err := itx.NewServer(cfg)
	if err != nil {
		log.L().Fatal("Failed to create server.", zap.Error(err))
	}
	itx.StartServer(ctx, svr, probeSvr, cfg)
	close(stopped)
	<-livenessCtx.Done()
}

func initLogger(cfg config.Config) {
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		glog.Println("Cannot config global logger, use default one: ", err)
	}
}
