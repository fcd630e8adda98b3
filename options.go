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
	"log/slog"
	"net/http"
	"time"
)

// WithIgnoreTrailingSlash normalizes all registered templates and all
// incoming paths to exactly one trailing slash, so "/users" and "/users/"
// resolve to the same route. Regex patterns and static prefixes are stored
// as given; the normalized incoming path feeds every matching stage. Static
// resources are resolved with the appended slash stripped again, so file
// names stay intact.
//
// Example:
//
//	r := aqua.MustNew(aqua.WithIgnoreTrailingSlash())
//	r.GET("/users", listUsers) // also matches "/users/"
func WithIgnoreTrailingSlash() Option {
	return func(r *Router) {
		r.ignoreTrailingSlash = true
	}
}

// WithAccessLog logs one line per response — method, path, status,
// duration — to the given structured logger. Passing nil uses
// slog.Default(). Logging has no effect on matching.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r := aqua.MustNew(aqua.WithAccessLog(logger))
func WithAccessLog(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger == nil {
			logger = slog.Default()
		}
		r.accessLog = logger
	}
}

// WithServerTimeouts configures the HTTP server timeouts used by Serve.
// All four values must be positive; New reports ErrServerTimeoutInvalid
// otherwise. Defaults when unset: 5s read-header, 15s read, 30s write,
// 60s idle.
//
// Example:
//
//	r := aqua.MustNew(aqua.WithServerTimeouts(
//	    10*time.Second,  // ReadHeaderTimeout
//	    30*time.Second,  // ReadTimeout
//	    60*time.Second,  // WriteTimeout
//	    120*time.Second, // IdleTimeout
//	))
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// WithH2C enables HTTP/2 cleartext support in Serve.
//
// ⚠️ SECURITY WARNING: only use in development or behind a trusted load
// balancer; do not enable on public-facing servers without TLS.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithFileSystem overrides the source static routes read from. The default
// is the OS filesystem, with folder paths honored as given (absolute or
// relative).
//
// Example:
//
//	r := aqua.MustNew(aqua.WithFileSystem(http.FS(embeddedAssets)))
func WithFileSystem(fs http.FileSystem) Option {
	return func(r *Router) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithObservability sets the observability recorder invoked around every
// dispatched request. Combine several with CombineRecorders.
//
// Example:
//
//	metrics := aqua.NewMetricsRecorder()
//	r := aqua.MustNew(aqua.WithObservability(metrics))
//	http.Handle("/metrics", metrics.Handler())
func WithObservability(recorder ObservabilityRecorder) Option {
	return func(r *Router) {
		r.observability = recorder
	}
}

// WithFallback registers the fallback handler at construction time.
// Equivalent to calling Fallback during the build phase.
func WithFallback(handler Handler) Option {
	return func(r *Router) {
		r.fallback = handler
	}
}

// WithMiddleware appends middleware at construction time.
// Equivalent to calling Use during the build phase.
func WithMiddleware(middleware ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, middleware...)
	}
}
