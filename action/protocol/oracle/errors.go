// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package oracle

import (
	"github.com/iotexproject/iotex-flowyield/action/protocol"
)

// errors of the oracle ingest protocol
var (
	ErrNotAuthorized    = protocol.NewError(100, protocol.ErrUnauthorized, "caller is not authorized")
	ErrProjectNotFound  = protocol.NewError(101, protocol.ErrNotFound, "project source not found")
	ErrSourceExists     = protocol.NewError(101, protocol.ErrNotFound, "project source already exists")
	ErrInvalidFlow      = protocol.NewError(102, protocol.ErrValidation, "invalid flow")
	ErrOracleExists     = protocol.NewError(103, protocol.ErrNotFound, "oracle already exists")
	ErrInvalidTimestamp = protocol.NewError(104, protocol.ErrTiming, "invalid timestamp")
	ErrTooFrequent      = protocol.NewError(105, protocol.ErrTiming, "submission too frequent")
	ErrInvalidSource    = protocol.NewError(106, protocol.ErrValidation, "invalid source hash")
	ErrDataStale        = protocol.NewError(108, protocol.ErrTiming, "data is stale")
)
