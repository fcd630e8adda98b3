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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies this instrumentation library in exported spans.
const tracerName = "github.com/gr7d/aqua"

// TracingRecorder creates one OpenTelemetry server span per dispatched
// request. Exporter and provider setup stay with the caller; pass the
// application's TracerProvider, or nil to use the globally registered one.
//
// The span starts named "METHOD path" and is renamed to "METHOD route"
// once the matched route pattern is known, keeping span names bounded.
type TracingRecorder struct {
	tracer trace.Tracer
}

// NewTracingRecorder creates a recorder on the given provider.
// A nil provider falls back to otel.GetTracerProvider().
func NewTracingRecorder(provider trace.TracerProvider) *TracingRecorder {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	return &TracingRecorder{tracer: provider.Tracer(tracerName)}
}

type tracingState struct {
	span   trace.Span
	method string
}

// OnRequestStart implements ObservabilityRecorder.
func (t *TracingRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	ctx, span := t.tracer.Start(ctx, req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)

	return ctx, &tracingState{span: span, method: req.Method}
}

// OnRequestEnd implements ObservabilityRecorder.
func (t *TracingRecorder) OnRequestEnd(_ context.Context, state any, status int, size int64, routePattern string) {
	s, ok := state.(*tracingState)
	if !ok {
		return
	}

	s.span.SetName(s.method + " " + routePattern)
	s.span.SetAttributes(
		attribute.String("http.route", routePattern),
		attribute.Int("http.response.status_code", status),
		attribute.Int64("http.response.body.size", size),
	)
	if status >= http.StatusInternalServerError {
		s.span.SetStatus(codes.Error, http.StatusText(status))
	}
	s.span.End()
}
