// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package enc

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestEncodeDecode(t *testing.T) {
	require := require.New(t)

	addr, err := address.FromBytes(make([]byte, 20))
	require.NoError(err)
	amount := uint256.NewInt(1000000)
	data := new(Encoder).
		Uint64(1, 42).
		Bool(2, true).
		Bytes(3, []byte{1, 2, 3}).
		Uint256(4, amount).
		Address(5, addr).
		Uint64(6, 0).
		Result()

	seen := map[protowire.Number]bool{}
	require.NoError(Decode(data, func(f Field) error {
		seen[f.Num] = true
		switch f.Num {
		case 1:
			v, err := f.Uint64()
			require.NoError(err)
			require.Equal(uint64(42), v)
		case 2:
			v, err := f.Bool()
			require.NoError(err)
			require.True(v)
		case 3:
			v, err := f.Bytes()
			require.NoError(err)
			require.Equal([]byte{1, 2, 3}, v)
		case 4:
			v, err := f.Uint256()
			require.NoError(err)
			require.True(amount.Eq(v))
		case 5:
			v, err := f.Address()
			require.NoError(err)
			require.Equal(addr.String(), v.String())
		}
		return nil
	}))
	// zero values are omitted
	require.Len(seen, 5)
	require.False(seen[6])
}

func TestDecodeErrors(t *testing.T) {
	require := require.New(t)

	// truncated varint
	require.Error(Decode([]byte{0x08, 0xff}, func(Field) error { return nil }))

	// wrong wire type
	data := new(Encoder).Uint64(1, 7).Result()
	err := Decode(data, func(f Field) error {
		_, err := f.Bytes()
		return err
	})
	require.Equal(ErrUnexpectedWireType, errors.Cause(err))

	// empty message
	require.Equal([]byte{}, new(Encoder).Result())
	require.NoError(Decode(nil, func(Field) error { return errors.New("unreachable") }))
}

func TestDecodeSkipsUnknownWireTypes(t *testing.T) {
	require := require.New(t)

	data := protowire.AppendTag(nil, 9, protowire.Fixed64Type)
	data = protowire.AppendFixed64(data, 99)
	data = append(data, new(Encoder).Uint64(1, 5).Result()...)
	var got []protowire.Number
	require.NoError(Decode(data, func(f Field) error {
		got = append(got, f.Num)
		return nil
	}))
	require.Equal([]protowire.Number{1}, got)
}
