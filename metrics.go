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
	"strconv"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRecorder records request counts and durations to Prometheus.
// It registers its instruments on a private registry to avoid conflicts
// with the global one; expose Handler() wherever the application serves
// its scrape endpoint.
//
// Instruments:
//
//	aqua_requests_total{method, route, status}        counter
//	aqua_request_duration_seconds{method, route}      histogram
//
// Route labels carry the matched route pattern, never the raw path.
type MetricsRecorder struct {
	registry *promclient.Registry
	requests *promclient.CounterVec
	duration *promclient.HistogramVec
}

// NewMetricsRecorder creates a recorder with a fresh private registry.
func NewMetricsRecorder() *MetricsRecorder {
	registry := promclient.NewRegistry()

	requests := promclient.NewCounterVec(promclient.CounterOpts{
		Name: "aqua_requests_total",
		Help: "Total number of dispatched HTTP requests.",
	}, []string{"method", "route", "status"})

	duration := promclient.NewHistogramVec(promclient.HistogramOpts{
		Name:    "aqua_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: promclient.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(requests, duration)

	return &MetricsRecorder{
		registry: registry,
		requests: requests,
		duration: duration,
	}
}

// Handler returns an http.Handler serving the recorder's registry in the
// Prometheus exposition format.
func (m *MetricsRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type metricsState struct {
	start  time.Time
	method string
}

// OnRequestStart implements ObservabilityRecorder.
func (m *MetricsRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	return ctx, &metricsState{start: time.Now(), method: req.Method}
}

// OnRequestEnd implements ObservabilityRecorder.
func (m *MetricsRecorder) OnRequestEnd(_ context.Context, state any, status int, _ int64, routePattern string) {
	s, ok := state.(*metricsState)
	if !ok {
		return
	}

	m.requests.WithLabelValues(s.method, routePattern, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(s.method, routePattern).Observe(time.Since(s.start).Seconds())
}
