// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package distribution

import (
	"github.com/iotexproject/iotex-flowyield/action/protocol"
)

// errors of the distribution ledger protocol
var (
	ErrNotAuthorized       = protocol.NewError(100, protocol.ErrUnauthorized, "caller is not authorized")
	ErrProjectNotFound     = protocol.NewError(101, protocol.ErrNotFound, "project pool not found")
	ErrInsufficientBalance = protocol.NewError(103, protocol.ErrInsufficientBalance, "insufficient balance")
	ErrAlreadyClaimed      = protocol.NewError(105, protocol.ErrTiming, "distribution triggered too soon")
	ErrInvalidAmount       = protocol.NewError(106, protocol.ErrValidation, "invalid amount")
	ErrDistributionLocked  = protocol.NewError(107, protocol.ErrTiming, "distribution is locked")
	ErrInvalidState        = protocol.NewError(108, protocol.ErrArithmetic, "invalid ledger state")
)
