// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-flowyield/genesis"
)

// EpochClock derives epochs from a wall clock, for hosts that do not supply them
type EpochClock struct {
	clk      clock.Clock
	genesis  time.Time
	interval time.Duration
}

// NewEpochClock creates an epoch clock starting at the genesis timestamp
func NewEpochClock(clk clock.Clock, cfg genesis.Blockchain) (*EpochClock, error) {
	if clk == nil {
		return nil, errors.New("invalid nil clock")
	}
	if cfg.EpochInterval <= 0 {
		return nil, errors.Errorf("invalid epoch interval %s", cfg.EpochInterval)
	}
	return &EpochClock{
		clk:      clk,
		genesis:  time.Unix(cfg.Timestamp, 0),
		interval: cfg.EpochInterval,
	}, nil
}

// Epoch returns the current epoch, 0 before the genesis
func (c *EpochClock) Epoch() uint64 {
	return c.EpochAt(c.clk.Now())
}

// EpochAt returns the epoch a time falls in
func (c *EpochClock) EpochAt(t time.Time) uint64 {
	if t.Before(c.genesis) {
		return 0
	}
	return uint64(t.Sub(c.genesis) / c.interval)
}

// EpochStart returns the time an epoch starts
func (c *EpochClock) EpochStart(epoch uint64) time.Time {
	return c.genesis.Add(time.Duration(epoch) * c.interval)
}
