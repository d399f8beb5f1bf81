// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package safemath provides checked uint256 arithmetic. Every result is a freshly allocated value and operands are
// never modified.
package safemath

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// ErrOverflow indicates the result does not fit into 256 bits
	ErrOverflow = errors.New("uint256 overflow")
	// ErrUnderflow indicates a subtraction would go below zero
	ErrUnderflow = errors.New("uint256 underflow")
	// ErrDivideByZero indicates a division by zero
	ErrDivideByZero = errors.New("division by zero")
)

// Add returns x+y
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, errors.Wrapf(ErrOverflow, "%s + %s", x.Dec(), y.Dec())
	}
	return z, nil
}

// Sub returns x-y
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, errors.Wrapf(ErrUnderflow, "%s - %s", x.Dec(), y.Dec())
	}
	return z, nil
}

// Mul returns x*y
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, errors.Wrapf(ErrOverflow, "%s * %s", x.Dec(), y.Dec())
	}
	return z, nil
}

// Div returns x/y rounded towards zero
func Div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, errors.Wrapf(ErrDivideByZero, "%s / 0", x.Dec())
	}
	return new(uint256.Int).Div(x, y), nil
}

// MulDiv returns x*y/d, failing if the intermediate product overflows
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	p, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return Div(p, d)
}
