// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/iotexproject/iotex-address/address"

	"github.com/iotexproject/iotex-flowyield/pkg/log"
)

type callCtxKey struct{}

// CallCtx provides an operation with the identity of its caller and the current epoch.
type CallCtx struct {
	// Caller is the account invoking the operation
	Caller address.Address
	// Epoch is the host supplied logical time, monotonically nondecreasing
	Epoch uint64
}

// WithCallCtx add CallCtx into context.
func WithCallCtx(ctx context.Context, cc CallCtx) context.Context {
	return context.WithValue(ctx, callCtxKey{}, cc)
}

// GetCallCtx gets call context
func GetCallCtx(ctx context.Context) (CallCtx, bool) {
	cc, ok := ctx.Value(callCtxKey{}).(CallCtx)
	return cc, ok
}

// MustGetCallCtx must get call context.
// If call context does not exist, this function panics.
func MustGetCallCtx(ctx context.Context) CallCtx {
	cc, ok := ctx.Value(callCtxKey{}).(CallCtx)
	if !ok {
		log.S().Panic("Miss call context")
	}
	return cc
}

// WithCaller returns a copy of ctx whose caller is replaced, keeping the epoch
func WithCaller(ctx context.Context, caller address.Address) context.Context {
	cc := MustGetCallCtx(ctx)
	cc.Caller = caller
	return WithCallCtx(ctx, cc)
}
