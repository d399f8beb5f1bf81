// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"fmt"

	"github.com/pkg/errors"
)

// error kinds shared by every protocol
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failure")
	ErrTiming              = errors.New("timing failure")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrArithmetic          = errors.New("arithmetic failure")
)

// Error is a protocol error carrying a numeric code and an error kind
type Error struct {
	code uint32
	kind error
	msg  string
}

// NewError creates a protocol error of the given code and kind
func NewError(code uint32, kind error, msg string) *Error {
	return &Error{
		code: code,
		kind: kind,
		msg:  msg,
	}
}

// Code returns the numeric code
func (e *Error) Code() uint32 {
	return e.code
}

// Kind returns the error kind
func (e *Error) Kind() error {
	return e.kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d): %s", e.msg, e.code, e.kind.Error())
}

// Unwrap exposes the kind so that errors.Is(err, ErrTiming) holds
func (e *Error) Unwrap() error {
	return e.kind
}

// ErrorCode returns the code of the protocol error in the chain of err, and false if there is none
func ErrorCode(err error) (uint32, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.code, true
	}
	return 0, false
}
