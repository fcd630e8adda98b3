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
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// fallbackPattern is the route label reported to observability recorders
// when no route matched. It is a label, not a path, to keep metric and
// span cardinality bounded.
const fallbackPattern = "_fallback"

// serverTimeouts holds HTTP server timeout configuration used by Serve.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

// defaultServerTimeouts returns the default timeout configuration.
func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// ServeHTTP implements http.Handler. For each request it normalizes the
// inbound message into a Request value, resolves a handler through the
// precedence chain, applies the middleware chain to the handler's response,
// and assembles the final response.
//
// Precedence, first match wins:
//
//  1. Exact lookup of method + path (non-parameterized routes)
//  2. Parameterized routes in registration order; an empty extracted
//     value is treated as no match and resolution continues
//  3. Regex routes in registration order, full-path matches only
//  4. Static routes (GET requests only), first prefix match
//  5. The registered fallback handler, else a fixed 404
//
// The first call flips the router into the serve phase; registration calls
// made afterwards return ErrAlreadyServing.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.served.Store(true)

	start := time.Now()
	ctx := req.Context()
	var obsState any

	if r.observability != nil {
		var enrichedCtx context.Context
		enrichedCtx, obsState = r.observability.OnRequestStart(ctx, req)
		if enrichedCtx != ctx {
			ctx = enrichedCtx
			req = req.WithContext(ctx)
		}
	}

	path := req.URL.Path
	if r.ignoreTrailingSlash {
		path = normalizeTrailingSlash(path)
	}

	request := newRequest(req, path)
	status, size, routePattern := r.dispatch(w, request)

	if r.observability != nil && obsState != nil {
		r.observability.OnRequestEnd(ctx, obsState, status, size, routePattern)
	}
	if r.accessLog != nil {
		r.accessLog.LogAttrs(ctx, slog.LevelInfo, "request",
			slog.String("method", request.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// dispatch resolves the request through the precedence chain, invokes the
// winning handler, and writes the assembled response. It returns the final
// status, the body size, and the route pattern label for observability.
func (r *Router) dispatch(w http.ResponseWriter, request *Request) (int, int64, string) {
	method, path := request.Method, request.Path

	// 1. Exact lookup.
	if route, ok := r.routes[method+path]; ok && !route.HasParams {
		return r.invoke(w, request, route.Handler, http.StatusOK, route.Template)
	}

	// 2. Parameterized routes.
	for _, route := range r.paramRoutes {
		if route.Method != method {
			continue
		}
		params := route.matchParams(path)
		if params == nil {
			continue
		}
		request.Params = params

		return r.invoke(w, request, route.Handler, http.StatusOK, route.Template)
	}

	// 3. Regex routes.
	if route, matches := matchRegex(path, r.regexRoutes); route != nil {
		request.Matches = matches

		return r.invoke(w, request, route.Handler, http.StatusOK, route.Pattern.String())
	}

	// 4. Static routes, GET only.
	if method == http.MethodGet {
		if route, resource := matchStatic(path, r.staticRoutes); route != nil {
			status, size := r.serveStatic(w, route, resource)

			return status, size, route.Prefix
		}
	}

	// 5. Fallback.
	if r.fallback != nil {
		return r.invoke(w, request, r.fallback, http.StatusNotFound, fallbackPattern)
	}
	status, size := writeResponse(w, &Response{Content: []byte(noRouteBody)}, http.StatusNotFound)

	return status, size, fallbackPattern
}

// invoke runs a handler and the middleware chain, normalizes the result,
// and writes it. defaultStatus is 200 on the success path and 404 on the
// fallback path; an explicit response status always wins.
func (r *Router) invoke(w http.ResponseWriter, request *Request, handler Handler, defaultStatus int, routePattern string) (int, int64, string) {
	resp := handler(request)
	if resp == nil {
		resp = &Response{}
	}
	resp = applyMiddleware(r.middleware, request, resp)
	resp = normalizeResponse(resp)
	status, size := writeResponse(w, resp, defaultStatus)

	return status, size, routePattern
}

// Serve starts an HTTP server on addr with the router as handler, applying
// the configured server timeouts and, when enabled, HTTP/2 cleartext
// support. It is a convenience for standalone use; embedded deployments
// pass the Router to their own http.Server as an http.Handler.
func (r *Router) Serve(addr string) error {
	return r.server(addr).ListenAndServe()
}

// server builds the http.Server used by Serve: the configured timeouts
// (defaults when unset) and, when enabled, the h2c handler wrapper.
func (r *Router) server(addr string) *http.Server {
	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	var handler http.Handler = r
	if r.enableH2C {
		handler = h2c.NewHandler(r, &http2.Server{})
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}
}
