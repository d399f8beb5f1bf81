// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package yield

import (
	"github.com/iotexproject/iotex-flowyield/action/protocol"
)

// errors of the yield calculator protocol
var (
	ErrNotAuthorized       = protocol.NewError(100, protocol.ErrUnauthorized, "caller is not authorized")
	ErrProjectNotFound     = protocol.NewError(101, protocol.ErrNotFound, "project not found")
	ErrProjectExists       = protocol.NewError(101, protocol.ErrNotFound, "project already exists")
	ErrProjectInactive     = protocol.NewError(101, protocol.ErrNotFound, "project is not active")
	ErrInvalidFlow         = protocol.NewError(102, protocol.ErrValidation, "invalid flow")
	ErrInvalidAmount       = protocol.NewError(102, protocol.ErrValidation, "invalid investment amount")
	ErrInvalidBaseline     = protocol.NewError(103, protocol.ErrValidation, "invalid baseline flow")
	ErrInvalidRate         = protocol.NewError(104, protocol.ErrValidation, "invalid base yield rate")
	ErrCalculationOverflow = protocol.NewError(105, protocol.ErrArithmetic, "calculation overflow")
	ErrOracleNotSet        = protocol.NewError(106, protocol.ErrUnauthorized, "oracle is not set")
	ErrInsufficientData    = protocol.NewError(107, protocol.ErrInsufficientData, "no flow reading for the previous epoch")
	ErrYieldNotReady       = protocol.NewError(108, protocol.ErrTiming, "yield is not ready")
	ErrInvalidPeriod       = protocol.NewError(109, protocol.ErrValidation, "invalid period")
)
