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
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// countingRecorder records lifecycle calls for assertions.
type countingRecorder struct {
	exclude bool
	starts  int
	ends    int

	lastStatus  int
	lastPattern string
}

func (c *countingRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	c.starts++
	if c.exclude {
		return ctx, nil
	}

	return ctx, struct{}{}
}

func (c *countingRecorder) OnRequestEnd(_ context.Context, _ any, status int, _ int64, routePattern string) {
	c.ends++
	c.lastStatus = status
	c.lastPattern = routePattern
}

// TestObservabilityLifecycle verifies the start/end pairing and the route
// pattern label: templates for matches, the fallback sentinel otherwise.
func TestObservabilityLifecycle(t *testing.T) {
	t.Parallel()

	recorder := &countingRecorder{}
	r := MustNew(WithObservability(recorder))
	require.NoError(t, r.GET("/users/:id", okHandler))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7", nil))
	assert.Equal(t, 1, recorder.starts)
	assert.Equal(t, 1, recorder.ends)
	assert.Equal(t, http.StatusOK, recorder.lastStatus)
	assert.Equal(t, "/users/:id", recorder.lastPattern, "label is the template, not the path")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, recorder.lastStatus)
	assert.Equal(t, fallbackPattern, recorder.lastPattern)
}

// TestObservabilityExclusion verifies that a nil state skips OnRequestEnd.
func TestObservabilityExclusion(t *testing.T) {
	t.Parallel()

	recorder := &countingRecorder{exclude: true}
	r := MustNew(WithObservability(recorder))
	require.NoError(t, r.GET("/health", okHandler))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1, recorder.starts)
	assert.Zero(t, recorder.ends)
}

// TestCombineRecorders verifies fan-out and per-recorder exclusion.
func TestCombineRecorders(t *testing.T) {
	t.Parallel()

	included := &countingRecorder{}
	excluded := &countingRecorder{exclude: true}
	r := MustNew(WithObservability(CombineRecorders(included, excluded)))
	require.NoError(t, r.GET("/", okHandler))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1, included.starts)
	assert.Equal(t, 1, included.ends)
	assert.Equal(t, 1, excluded.starts)
	assert.Zero(t, excluded.ends)
}

// TestMetricsRecorder verifies counter increments with the route label and
// the scrape handler output.
func TestMetricsRecorder(t *testing.T) {
	t.Parallel()

	metrics := NewMetricsRecorder()
	r := MustNew(WithObservability(metrics))
	require.NoError(t, r.GET("/hello", okHandler))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))

	counter := metrics.requests.WithLabelValues("GET", "/hello", "200")
	assert.InDelta(t, 2.0, testutil.ToFloat64(counter), 0.001)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "aqua_requests_total")
	assert.Contains(t, string(body), "aqua_request_duration_seconds")
}

// TestTracingRecorder verifies the span lifecycle against a no-op
// provider: state is produced and OnRequestEnd completes without panic.
func TestTracingRecorder(t *testing.T) {
	t.Parallel()

	tracing := NewTracingRecorder(noop.NewTracerProvider())
	r := MustNew(WithObservability(tracing))
	require.NoError(t, r.GET("/traced", okHandler))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/traced", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

// TestAccessLog verifies the method/path/status fields of the access log
// line.
func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := MustNew(WithAccessLog(logger))
	require.NoError(t, r.GET("/hello", okHandler))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))

	line := buf.String()
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/hello")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "duration=")
}
