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

// Package aqua provides an embeddable HTTP request router for Go.
//
// Handlers return response values instead of writing to the wire: a handler
// receives a normalized Request (query, cookie, body, and parameter maps
// already parsed) and returns a *Response carrying status, headers, cookies,
// a redirect target, or content. The router resolves each request through a
// fixed precedence chain, runs the middleware pipeline over the response,
// and assembles the final message.
//
// # Route Kinds and Precedence
//
// Four route kinds, first match wins:
//
//  1. Exact routes — literal method + path lookup
//  2. Parameterized routes — templates with ":name" tokens, matched in
//     registration order; an empty segment never matches
//  3. Regex routes — user-supplied patterns, matched against the full path
//     in registration order, capture groups exposed as Request.Matches
//  4. Static routes — GET-only path-prefix → folder mappings
//
// When nothing matches, a registered fallback handler runs, else a fixed
// 404 response is written.
//
// # Constructor Pattern
//
//   - New() validates configuration immediately and returns an error, so
//     misconfiguration is caught at startup rather than at runtime.
//   - MustNew() panics instead, for applications that should fail fast.
//   - All configuration options use the "With" prefix (e.g. WithH2C,
//     WithAccessLog, WithIgnoreTrailingSlash).
//
// # Quick Start
//
//	package main
//
//	import (
//	    "net/http"
//
//	    "github.com/gr7d/aqua"
//	)
//
//	func main() {
//	    r := aqua.MustNew()
//
//	    r.GET("/", func(req *aqua.Request) *aqua.Response {
//	        return aqua.Text("Hello World")
//	    })
//
//	    r.GET("/users/:id", func(req *aqua.Request) *aqua.Response {
//	        return aqua.JSON(map[string]string{"user_id": req.Params["id"]})
//	    })
//
//	    http.ListenAndServe(":8080", r)
//	}
//
// # Lifecycle
//
// Registration calls belong to the build phase. The first dispatched
// request freezes the tables; registering afterwards returns
// ErrAlreadyServing. This makes the request path lock-free.
package aqua
