// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import "fmt"

const (
	// Put indicate the type of write operation to be Put
	Put WriteType = iota
	// Delete indicate the type of write operation to be Delete
	Delete
)

type (
	// WriteType is the type of write
	WriteType uint8

	// WriteInfo is a Put or Delete staged in a batch
	WriteInfo struct {
		writeType WriteType
		namespace string
		key       []byte
		value     []byte
	}
)

func (t WriteType) String() string {
	switch t {
	case Put:
		return "put"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("write type %d", uint8(t))
	}
}

// NewWriteInfo creates a WriteInfo
func NewWriteInfo(writeType WriteType, namespace string, key, value []byte) *WriteInfo {
	return &WriteInfo{
		writeType: writeType,
		namespace: namespace,
		key:       key,
		value:     value,
	}
}

// Namespace returns the namespace of a write
func (wi *WriteInfo) Namespace() string {
	return wi.namespace
}

// WriteType returns the type of a write
func (wi *WriteInfo) WriteType() WriteType {
	return wi.writeType
}

// Key returns a copy of the key
func (wi *WriteInfo) Key() []byte {
	return append([]byte(nil), wi.key...)
}

// Value returns a copy of the value, never nil so that empty records can be stored
func (wi *WriteInfo) Value() []byte {
	value := make([]byte, len(wi.value))
	copy(value, wi.value)
	return value
}

// String describes the write in error messages, e.g. "put Oracle/0a1b"
func (wi *WriteInfo) String() string {
	return fmt.Sprintf("%s %s/%x", wi.writeType, wi.namespace, wi.key)
}
