// Copyright 2025 The Aqua Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package aqua

import (
	"context"
	"net/http"
)

// ObservabilityRecorder provides lifecycle hooks around request dispatch.
// Implementations typically record metrics, create trace spans, or emit
// access logs; the router functions identically with or without one.
//
// Lifecycle:
//  1. The router calls OnRequestStart(ctx, req) → (enrichedCtx, state)
//     before parsing and resolution. The enriched context is attached to
//     the request (e.g. trace propagation); state is an opaque token.
//  2. The handler chain runs and the response is assembled.
//  3. The router calls OnRequestEnd with the final status, body size, and
//     the matched route pattern — the template, regex source, static
//     prefix, or "_fallback" — never the raw path, so label cardinality
//     stays bounded.
//
// Returning a nil state from OnRequestStart excludes the request:
// OnRequestEnd is skipped, but the enriched context still applies.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	// OnRequestStart is called before routing begins. It returns an
	// enriched context and an opaque state token passed to OnRequestEnd,
	// or nil to exclude the request from recording.
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)

	// OnRequestEnd is called after the response has been written.
	// Only called when OnRequestStart returned a non-nil state.
	OnRequestEnd(ctx context.Context, state any, status int, size int64, routePattern string)
}

// CombineRecorders fans the lifecycle out to several recorders in order.
// A recorder that returns a nil state is skipped at OnRequestEnd without
// affecting the others.
func CombineRecorders(recorders ...ObservabilityRecorder) ObservabilityRecorder {
	return &multiRecorder{recorders: recorders}
}

type multiRecorder struct {
	recorders []ObservabilityRecorder
}

func (m *multiRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	states := make([]any, len(m.recorders))
	for i, recorder := range m.recorders {
		ctx, states[i] = recorder.OnRequestStart(ctx, req)
	}

	return ctx, states
}

func (m *multiRecorder) OnRequestEnd(ctx context.Context, state any, status int, size int64, routePattern string) {
	states, ok := state.([]any)
	if !ok {
		return
	}
	for i, recorder := range m.recorders {
		if states[i] == nil {
			continue
		}
		recorder.OnRequestEnd(ctx, states[i], status, size, routePattern)
	}
}
