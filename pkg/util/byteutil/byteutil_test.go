// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package byteutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestUint64(t *testing.T) {
	input := uint64(1844674407370955161)
	t.Run("converts a uint64 to 8 bytes in big-endian", func(t *testing.T) {
		expectedValue := []uint8([]byte{0x19, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99})
		result := Uint64ToBytesBigEndian(input)
		require.Equal(t, expectedValue, result)
	})

	t.Run("converts 8 bytes to uint64 in big-endian", func(t *testing.T) {
		byteInput := []byte{0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x19}
		expectedValue := uint64(11068046444225730841)
		result := BytesToUint64BigEndian(byteInput)
		require.Equal(t, expectedValue, result)
	})
}

func TestJoinKey(t *testing.T) {
	require := require.New(t)
	tag := []byte("fd")
	k1 := JoinKey(tag, Uint64ToBytesBigEndian(1), Uint64ToBytesBigEndian(23))
	k2 := JoinKey(tag, Uint64ToBytesBigEndian(12), Uint64ToBytesBigEndian(3))
	require.Len(k1, 18)
	require.NotEqual(k1, k2)

	// the tag slice is never aliased
	require.Equal([]byte("fd"), tag)
	require.Equal([]byte("fd"), JoinKey(tag))
}

func TestMust(t *testing.T) {
	t.Run("return identical output when given nil error", func(t *testing.T) {
		b := []byte{0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x19}
		result := Must(b, nil)
		require.Equal(t, b, result)
	})
	t.Run("panics when an error was given", func(t *testing.T) {
		expectedErr := errors.New("an error was given")
		require.Panics(t, func() {
			Must([]byte{0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x19}, expectedErr)
		}, expectedErr)
	})
}
