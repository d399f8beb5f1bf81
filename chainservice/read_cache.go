// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"encoding/json"
	"time"

	"github.com/iotexproject/go-pkgs/cache/ttl"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-flowyield/pkg/log"
)

type (
	// ReadKey represents a read key
	ReadKey struct {
		Name  string   `json:"name,omitempty"`
		Epoch uint64   `json:"epoch,omitempty"`
		Args  [][]byte `json:"args,omitempty"`
	}

	// ReadCache stores read results until the states change or they expire
	ReadCache struct {
		total, hit *atomic.Uint64
		c          *ttl.Cache
	}
)

// Hash returns the hash of key's json string
func (k *ReadKey) Hash() hash.Hash160 {
	b, _ := json.Marshal(k)
	return hash.Hash160b(b)
}

// NewReadCache returns a new read cache
func NewReadCache(expiry time.Duration) (*ReadCache, error) {
	c, err := ttl.NewCache(ttl.AutoExpireOption(expiry))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create read cache")
	}
	return &ReadCache{
		total: atomic.NewUint64(0),
		hit:   atomic.NewUint64(0),
		c:     c,
	}, nil
}

// Get reads according to key
func (rc *ReadCache) Get(key hash.Hash160) ([]byte, bool) {
	rc.total.Inc()
	d, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	if hit := rc.hit.Inc(); hit%100 == 0 {
		log.Logger("chainservice").Info("Read cache hit", zap.Uint64("total", rc.total.Load()), zap.Uint64("hit", hit))
	}
	return d.([]byte), true
}

// Put writes according to key
func (rc *ReadCache) Put(key hash.Hash160, value []byte) {
	rc.c.Set(key, value)
}

// Clear clears the cache
func (rc *ReadCache) Clear() {
	rc.c.Reset()
}
