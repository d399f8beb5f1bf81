// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package addrutil

import (
	"github.com/iotexproject/iotex-address/address"
)

// Equal tells whether two addresses are the same account. A nil address equals nothing, not even another nil.
func Equal(a, b address.Address) bool {
	if a == nil || b == nil {
		return false
	}
	return a.String() == b.String()
}

// String returns the string form of the address, "<nil>" for an unset one
func String(addr address.Address) string {
	if addr == nil {
		return "<nil>"
	}
	return addr.String()
}

// Bytes returns the raw bytes of the address, nil for an unset one
func Bytes(addr address.Address) []byte {
	if addr == nil {
		return nil
	}
	return addr.Bytes()
}
