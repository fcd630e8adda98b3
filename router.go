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
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync/atomic"
)

// Option defines functional options for router configuration.
type Option func(*Router)

// Router is an embeddable HTTP request router. It resolves incoming requests
// against four route kinds with a fixed precedence — exact, parameterized,
// regex, static (GET only) — and falls back to a registered fallback handler
// or a fixed 404.
//
// The router has a two-phase lifecycle: a single-threaded build phase during
// which all registration calls happen, then a serve phase that begins with
// the first dispatched request. From that point the route tables, middleware
// chain, and fallback handler are read-only, so no locking is needed on the
// request path; registration calls after serving starts return
// ErrAlreadyServing.
//
// Router implements http.Handler, so the transport layer is any net/http
// server:
//
//	r := aqua.MustNew()
//	r.GET("/users/:id", func(req *aqua.Request) *aqua.Response {
//	    return aqua.Text("user " + req.Params["id"])
//	})
//	http.ListenAndServe(":8080", r)
type Router struct {
	routes       map[string]*Route // method+template → route, O(1) exact lookup
	paramRoutes  []*Route          // parameterized routes in registration order
	regexRoutes  []RegexRoute      // ordered, first full-path match wins
	staticRoutes []StaticRoute     // ordered, first prefix match wins
	middleware   []Middleware      // applied left-to-right after every handler
	fallback     Handler           // invoked when no route matches

	// Configuration
	ignoreTrailingSlash bool
	fs                  http.FileSystem
	accessLog           *slog.Logger
	observability       ObservabilityRecorder
	enableH2C           bool
	serverTimeouts      *serverTimeouts

	served atomic.Bool // set on the first dispatched request
}

// New creates a router with optional configuration. Configuration is
// validated immediately; an invalid option (for example a non-positive
// server timeout) is reported here rather than at serve time.
//
// For a version that panics instead of returning an error, use MustNew.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		routes: make(map[string]*Route),
		fs:     osFileSystem{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}

	return r, nil
}

// MustNew creates a router and panics if the configuration is invalid.
// Convenience wrapper around New for applications that should fail
// immediately at startup.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("aqua.MustNew: %v", err))
	}

	return r
}

// validate checks the router configuration for common errors.
func (r *Router) validate() error {
	if t := r.serverTimeouts; t != nil {
		if t.readHeader <= 0 || t.read <= 0 || t.write <= 0 || t.idle <= 0 {
			return ErrServerTimeoutInvalid
		}
	}

	return nil
}

// Route registers a handler under the (method, template) pair. The method
// is upper-cased before storing; the template must start with '/'.
//
// Templates may contain parameter tokens, segments beginning with ':'
// followed by a letter, which match any non-empty run of characters up to
// the next '/'. With WithIgnoreTrailingSlash the template is normalized to
// exactly one trailing slash before storing.
//
// Registering the same (method, template) pair twice replaces the earlier
// route. A parameter name appearing twice in one template is not guarded
// and leaves the extracted value unspecified.
func (r *Router) Route(method, template string, handler Handler) error {
	if r.served.Load() {
		return ErrAlreadyServing
	}
	if handler == nil {
		return ErrNilHandler
	}
	if !strings.HasPrefix(template, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplate, template)
	}

	method = strings.ToUpper(method)
	if r.ignoreTrailingSlash {
		template = normalizeTrailingSlash(template)
	}

	route := &Route{Method: method, Template: template, Handler: handler}
	if templateHasParams(template) {
		route.HasParams = true
		route.pattern, route.paramNames = compileTemplate(template)
	}

	key := method + template
	if existing, ok := r.routes[key]; ok && existing.HasParams {
		if i := slices.Index(r.paramRoutes, existing); i >= 0 {
			r.paramRoutes = slices.Delete(r.paramRoutes, i, i+1)
		}
	}
	r.routes[key] = route
	if route.HasParams {
		r.paramRoutes = append(r.paramRoutes, route)
	}

	return nil
}

// GET registers a handler for GET requests on the given template.
func (r *Router) GET(template string, handler Handler) error {
	return r.Route(http.MethodGet, template, handler)
}

// POST registers a handler for POST requests on the given template.
func (r *Router) POST(template string, handler Handler) error {
	return r.Route(http.MethodPost, template, handler)
}

// PUT registers a handler for PUT requests on the given template.
func (r *Router) PUT(template string, handler Handler) error {
	return r.Route(http.MethodPut, template, handler)
}

// PATCH registers a handler for PATCH requests on the given template.
func (r *Router) PATCH(template string, handler Handler) error {
	return r.Route(http.MethodPatch, template, handler)
}

// DELETE registers a handler for DELETE requests on the given template.
func (r *Router) DELETE(template string, handler Handler) error {
	return r.Route(http.MethodDelete, template, handler)
}

// HEAD registers a handler for HEAD requests on the given template.
func (r *Router) HEAD(template string, handler Handler) error {
	return r.Route(http.MethodHead, template, handler)
}

// OPTIONS registers a handler for OPTIONS requests on the given template.
func (r *Router) OPTIONS(template string, handler Handler) error {
	return r.Route(http.MethodOptions, template, handler)
}

// TRACE registers a handler for TRACE requests on the given template.
func (r *Router) TRACE(template string, handler Handler) error {
	return r.Route(http.MethodTrace, template, handler)
}

// CONNECT registers a handler for CONNECT requests on the given template.
func (r *Router) CONNECT(template string, handler Handler) error {
	return r.Route(http.MethodConnect, template, handler)
}

// RouteRegex appends a method-agnostic regex route. Regex routes are
// consulted after exact and parameterized routes, in registration order;
// the first pattern whose match spans the full path wins, and its capture
// groups are exposed as Request.Matches. No normalization is applied to
// the pattern, including under WithIgnoreTrailingSlash.
func (r *Router) RouteRegex(pattern *regexp.Regexp, handler Handler) error {
	if r.served.Load() {
		return ErrAlreadyServing
	}
	if pattern == nil {
		return ErrNilPattern
	}
	if handler == nil {
		return ErrNilHandler
	}

	r.regexRoutes = append(r.regexRoutes, RegexRoute{Pattern: pattern, Handler: handler})

	return nil
}

// Static appends a static route mapping a public URL prefix to a filesystem
// folder. The prefix must start with '/'; both folder and prefix are
// normalized to end with exactly one separator. Static routes are consulted
// for GET requests only, after every other route kind, in registration
// order; the first literal prefix match wins. A failed file read yields a
// 404 with a fixed body, never an error.
func (r *Router) Static(folder, prefix string) error {
	if r.served.Load() {
		return ErrAlreadyServing
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplate, prefix)
	}

	r.staticRoutes = append(r.staticRoutes, StaticRoute{
		Folder: normalizeTrailingSlash(folder),
		Prefix: normalizeTrailingSlash(prefix),
	})

	return nil
}

// Fallback registers the handler invoked when no route matches. The
// fallback path defaults the status to 404; without a fallback handler the
// router responds 404 with a fixed body.
func (r *Router) Fallback(handler Handler) error {
	if r.served.Load() {
		return ErrAlreadyServing
	}
	r.fallback = handler

	return nil
}

// Use appends middleware to the global chain, applied left-to-right to
// every response, including fallback responses.
func (r *Router) Use(middleware ...Middleware) error {
	if r.served.Load() {
		return ErrAlreadyServing
	}
	r.middleware = append(r.middleware, middleware...)

	return nil
}
