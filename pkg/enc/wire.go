// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package enc encodes state records into protobuf wire format. Records list their fields by number, so records
// stay readable by any protobuf decoder and new optional fields can be appended without a migration.
package enc

import (
	"github.com/holiman/uint256"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrUnexpectedWireType indicates a field was found with a wire type other than the one its reader expects
var ErrUnexpectedWireType = errors.New("unexpected wire type")

type (
	// Encoder appends fields to a protobuf message. Zero values are omitted, as proto3 does.
	Encoder struct {
		buf []byte
	}

	// Field is a decoded field of a protobuf message
	Field struct {
		Num    protowire.Number
		Type   protowire.Type
		varint uint64
		bytes  []byte
	}
)

// Uint64 appends a varint field
func (e *Encoder) Uint64(num protowire.Number, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// Bool appends a bool field
func (e *Encoder) Bool(num protowire.Number, v bool) *Encoder {
	return e.Uint64(num, protowire.EncodeBool(v))
}

// Bytes appends a length-delimited field
func (e *Encoder) Bytes(num protowire.Number, v []byte) *Encoder {
	if len(v) == 0 {
		return e
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
	return e
}

// Uint256 appends an amount as its minimal big-endian bytes
func (e *Encoder) Uint256(num protowire.Number, v *uint256.Int) *Encoder {
	if v == nil {
		return e
	}
	return e.Bytes(num, v.Bytes())
}

// Address appends an address as its raw bytes
func (e *Encoder) Address(num protowire.Number, addr address.Address) *Encoder {
	if addr == nil {
		return e
	}
	return e.Bytes(num, addr.Bytes())
}

// Result returns the encoded message
func (e *Encoder) Result() []byte {
	if e.buf == nil {
		return []byte{}
	}
	return e.buf
}

// Decode walks the fields of a protobuf message in order. Fields of wire types other than varint and bytes are
// skipped.
func Decode(data []byte, fn func(Field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "failed to parse field tag")
		}
		data = data[n:]
		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(data)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return errors.Wrapf(protowire.ParseError(n), "failed to skip field %d", num)
			}
			data = data[n:]
			continue
		}
		if n < 0 {
			return errors.Wrapf(protowire.ParseError(n), "failed to parse field %d", num)
		}
		data = data[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// Uint64 returns the varint value of the field
func (f Field) Uint64() (uint64, error) {
	if f.Type != protowire.VarintType {
		return 0, errors.Wrapf(ErrUnexpectedWireType, "field %d is not a varint", f.Num)
	}
	return f.varint, nil
}

// Bool returns the bool value of the field
func (f Field) Bool() (bool, error) {
	v, err := f.Uint64()
	if err != nil {
		return false, err
	}
	return protowire.DecodeBool(v), nil
}

// Bytes returns a copy of the length-delimited value of the field
func (f Field) Bytes() ([]byte, error) {
	if f.Type != protowire.BytesType {
		return nil, errors.Wrapf(ErrUnexpectedWireType, "field %d is not length-delimited", f.Num)
	}
	b := make([]byte, len(f.bytes))
	copy(b, f.bytes)
	return b, nil
}

// Uint256 returns the amount stored in the field
func (f Field) Uint256() (*uint256.Int, error) {
	b, err := f.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, errors.Errorf("field %d holds %d bytes, too long for an amount", f.Num, len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}

// Address returns the address stored in the field
func (f Field) Address() (address.Address, error) {
	b, err := f.Bytes()
	if err != nil {
		return nil, err
	}
	return address.FromBytes(b)
}
