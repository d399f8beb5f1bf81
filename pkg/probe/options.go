// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package probe

import "net/http"

type readinessOption struct {
	h http.Handler
}

func (o *readinessOption) SetOption(s *Server) { s.readinessHandler = o.h }

// WithReadinessHandler replaces the handler answering readiness checks once the server is ready
func WithReadinessHandler(h http.Handler) Option {
	return &readinessOption{h}
}
