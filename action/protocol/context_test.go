// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-flowyield/test/identityset"
)

func TestWithCallCtx(t *testing.T) {
	require := require.New(t)

	ctx := context.Background()
	_, ok := GetCallCtx(ctx)
	require.False(ok)
	require.Panics(func() { MustGetCallCtx(ctx) })

	ctx = WithCallCtx(ctx, CallCtx{Caller: identityset.Address(1), Epoch: 12})
	cc, ok := GetCallCtx(ctx)
	require.True(ok)
	require.Equal(identityset.Address(1).String(), cc.Caller.String())
	require.Equal(uint64(12), cc.Epoch)

	ctx2 := WithCaller(ctx, identityset.Address(2))
	cc2 := MustGetCallCtx(ctx2)
	require.Equal(identityset.Address(2).String(), cc2.Caller.String())
	require.Equal(uint64(12), cc2.Epoch)
	// parent context is untouched
	require.Equal(identityset.Address(1).String(), MustGetCallCtx(ctx).Caller.String())
}

func TestCreateStateConfig(t *testing.T) {
	require := require.New(t)

	key := []byte("key")
	cfg, err := CreateStateConfig(NamespaceOption("ns"), KeyOption(key))
	require.NoError(err)
	require.Equal("ns", cfg.Namespace)
	key[0] = 'x'
	require.Equal([]byte("key"), cfg.Key)

	_, err = CreateStateConfig(KeyOption(key))
	require.Error(err)
	_, err = CreateStateConfig(NamespaceOption("ns"))
	require.Error(err)
}
