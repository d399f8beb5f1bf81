// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist indicates certain item does not exist in the batch
	ErrNotExist = errors.New("not exist in batch")
	// ErrAlreadyDeleted indicates the key has been deleted in the batch
	ErrAlreadyDeleted = errors.New("already deleted in batch")
	// ErrAlreadyExist indicates certain item already exists in the batch
	ErrAlreadyExist = errors.New("already exist in batch")
	// ErrOutOfBound indicates an out of bound index or snapshot
	ErrOutOfBound = errors.New("out of bound")
)

type (
	// KVStoreBatch defines a batch buffer interface that stages Put/Delete entries in sequential order
	// To use it, first start a new batch
	// b := NewBatch()
	// and keep batching Put/Delete operation into it
	// b.Put(bucket, k, v)
	// b.Delete(bucket, k)
	// once it's done, call KVStore interface's WriteBatch() to persist to underlying DB
	// KVStore.WriteBatch(b)
	KVStoreBatch interface {
		// Lock locks the batch
		Lock()
		// Unlock unlocks the batch
		Unlock()
		// ClearAndUnlock clears the write queue and unlocks the batch
		ClearAndUnlock()
		// Put insert or update a record identified by (namespace, key)
		Put(string, []byte, []byte)
		// Delete deletes a record by (namespace, key)
		Delete(string, []byte)
		// Size returns the size of batch
		Size() int
		// Entry returns the entry at the index
		Entry(int) (*WriteInfo, error)
		// Clear clears entries staged in batch
		Clear()
		// CloneBatch clones the batch
		CloneBatch() KVStoreBatch
	}

	// CachedBatch derives from Batch interface
	// A local cache is added to provide fast retrieval of pending Put/Delete entries
	CachedBatch interface {
		KVStoreBatch
		// Get gets a record by (namespace, key)
		Get(string, []byte) ([]byte, error)
		// Snapshot takes a snapshot of current cached batch
		Snapshot() int
		// Revert sets the cached batch to the state at the given snapshot
		Revert(int) error
	}

	// baseKVStoreBatch is the base implementation of KVStoreBatch
	baseKVStoreBatch struct {
		mutex      sync.RWMutex
		writeQueue []*WriteInfo
	}

	// cachedBatch implements the CachedBatch interface
	cachedBatch struct {
		lock      sync.RWMutex
		batch     *baseKVStoreBatch
		cache     KVStoreCache
		tag       int                 // latest snapshot + 1
		snapshots map[int]*cachedBatch // saved snapshots
	}
)

// NewBatch returns a batch
func NewBatch() KVStoreBatch {
	return &baseKVStoreBatch{}
}

// Lock locks the batch
func (b *baseKVStoreBatch) Lock() {
	b.mutex.Lock()
}

// Unlock unlocks the batch
func (b *baseKVStoreBatch) Unlock() {
	b.mutex.Unlock()
}

// ClearAndUnlock clears the write queue and unlocks the batch
func (b *baseKVStoreBatch) ClearAndUnlock() {
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// Put inserts a <key, value> record
func (b *baseKVStoreBatch) Put(namespace string, key, value []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = append(b.writeQueue, NewWriteInfo(Put, namespace, key, value))
}

// Delete deletes a record
func (b *baseKVStoreBatch) Delete(namespace string, key []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = append(b.writeQueue, NewWriteInfo(Delete, namespace, key, nil))
}

// Size returns the size of batch
func (b *baseKVStoreBatch) Size() int {
	return len(b.writeQueue)
}

// Entry returns the entry at the index
func (b *baseKVStoreBatch) Entry(index int) (*WriteInfo, error) {
	if index < 0 || index >= len(b.writeQueue) {
		return nil, errors.Wrapf(ErrOutOfBound, "index %d out of range", index)
	}
	return b.writeQueue[index], nil
}

// Clear clear write queue
func (b *baseKVStoreBatch) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// CloneBatch clones the batch
func (b *baseKVStoreBatch) CloneBatch() KVStoreBatch {
	return b.clone()
}

func (b *baseKVStoreBatch) clone() *baseKVStoreBatch {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	c := baseKVStoreBatch{
		writeQueue: make([]*WriteInfo, len(b.writeQueue)),
	}
	// entries are never mutated after being queued, sharing them is safe
	copy(c.writeQueue, b.writeQueue)
	return &c
}

//======================================
// CachedBatch implementation
//======================================

// NewCachedBatch returns a new cached batch buffer
func NewCachedBatch() CachedBatch {
	return &cachedBatch{
		batch:     &baseKVStoreBatch{},
		cache:     NewKVCache(),
		snapshots: make(map[int]*cachedBatch),
	}
}

// Lock locks the batch
func (cb *cachedBatch) Lock() {
	cb.lock.Lock()
}

// Unlock unlocks the batch
func (cb *cachedBatch) Unlock() {
	cb.lock.Unlock()
}

// ClearAndUnlock clears the write queue and unlocks the batch
func (cb *cachedBatch) ClearAndUnlock() {
	defer cb.lock.Unlock()
	cb.clear()
}

// Put inserts a <key, value> record
func (cb *cachedBatch) Put(namespace string, key, value []byte) {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.cache.Write(cacheKey(namespace, key), value)
	cb.batch.Put(namespace, key, value)
}

// Delete deletes a record
func (cb *cachedBatch) Delete(namespace string, key []byte) {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.cache.Evict(cacheKey(namespace, key))
	cb.batch.Delete(namespace, key)
}

// Size returns the size of batch, callers committing the batch hold Lock
func (cb *cachedBatch) Size() int {
	return cb.batch.Size()
}

// Entry returns the entry at the index
func (cb *cachedBatch) Entry(index int) (*WriteInfo, error) {
	return cb.batch.Entry(index)
}

// Clear clear the cached batch buffer
func (cb *cachedBatch) Clear() {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.clear()
}

// CloneBatch clones the write queue of the batch
func (cb *cachedBatch) CloneBatch() KVStoreBatch {
	cb.lock.RLock()
	defer cb.lock.RUnlock()
	return cb.batch.CloneBatch()
}

// Get retrieves a record
func (cb *cachedBatch) Get(namespace string, key []byte) ([]byte, error) {
	cb.lock.RLock()
	defer cb.lock.RUnlock()
	return cb.cache.Read(cacheKey(namespace, key))
}

// Snapshot takes a snapshot of current cached batch
func (cb *cachedBatch) Snapshot() int {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	defer func() { cb.tag++ }()
	// save a clone of current batch/cache
	cb.snapshots[cb.tag] = &cachedBatch{
		batch: cb.batch.clone(),
		cache: cb.cache.Clone(),
	}
	return cb.tag
}

// Revert sets the cached batch to the state at the given snapshot
func (cb *cachedBatch) Revert(snapshot int) error {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	// throw error if the snapshot number does not exist
	saved, ok := cb.snapshots[snapshot]
	if !ok {
		return errors.Wrapf(ErrOutOfBound, "invalid snapshot number = %d", snapshot)
	}
	cb.batch = saved.batch.clone()
	cb.cache = saved.cache.Clone()
	// snapshots taken after the reverted one are no longer reachable
	for tag := range cb.snapshots {
		if tag > snapshot {
			delete(cb.snapshots, tag)
		}
	}
	cb.tag = snapshot + 1
	return nil
}

func (cb *cachedBatch) clear() {
	cb.cache.Clear()
	cb.batch.Clear()
	// clear all saved snapshots
	cb.tag = 0
	cb.snapshots = make(map[int]*cachedBatch)
}

func cacheKey(namespace string, key []byte) *kvCacheKey {
	return &kvCacheKey{namespace, string(key)}
}
