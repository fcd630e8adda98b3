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
	"regexp"
	"strings"
)

// Handler produces the response for a matched request.
// Handlers receive the normalized request and must treat it as read-only.
// Returning nil means "no content provided" and yields the fixed
// no-content response after the middleware chain has run.
type Handler func(req *Request) *Response

// Route is an exact or parameterized route, registered under its
// (method, template) pair. Routes are created at registration time and
// immutable afterwards.
type Route struct {
	// Method is the upper-cased HTTP method the route was registered for.
	Method string

	// Template is the normalized path template, e.g. "/users/:id".
	Template string

	// HasParams reports whether the template contains parameter tokens.
	HasParams bool

	// Handler is invoked when the route matches.
	Handler Handler

	pattern    *regexp.Regexp // compiled template, one capture group per token
	paramNames []string       // parameter names in declaration order
}

// RegexRoute matches the full request path against a user-supplied pattern.
// Regex routes are method-agnostic and consulted in registration order.
type RegexRoute struct {
	Pattern *regexp.Regexp
	Handler Handler
}

// StaticRoute maps a public URL prefix to a filesystem folder.
// Both fields are normalized to end with exactly one separator, so the
// resource remainder concatenates cleanly onto the folder.
type StaticRoute struct {
	Folder string
	Prefix string
}

// compileTemplate compiles a path template into a single anchored pattern
// with one capture group per parameter token, in declaration order.
// Literal segments are quoted; each ":name" segment becomes "([^/]*)".
// Empty captures are rejected later by the matcher, not by the pattern,
// so "/user/" never satisfies "/user/:id".
//
// A segment mixing several tokens without a literal separator (":a:b") is
// unsupported: it compiles to a single parameter literally named "a:b".
func compileTemplate(template string) (*regexp.Regexp, []string) {
	segments := strings.Split(template, "/")
	parts := make([]string, len(segments))
	var names []string

	for i, segment := range segments {
		if isParamSegment(segment) {
			names = append(names, segment[1:])
			parts[i] = "([^/]*)"
			continue
		}
		parts[i] = regexp.QuoteMeta(segment)
	}

	return regexp.MustCompile("^" + strings.Join(parts, "/") + "$"), names
}

// isParamSegment reports whether a path segment is a parameter token:
// a ':' followed by a letter.
func isParamSegment(segment string) bool {
	if len(segment) < 2 || segment[0] != ':' {
		return false
	}
	c := segment[1]

	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// templateHasParams reports whether any segment of the template is a
// parameter token.
func templateHasParams(template string) bool {
	for _, segment := range strings.Split(template, "/") {
		if isParamSegment(segment) {
			return true
		}
	}

	return false
}

// normalizeTrailingSlash reduces any run of trailing slashes to exactly one.
// Used for static folders/prefixes always, and for templates and incoming
// paths when WithIgnoreTrailingSlash is configured.
func normalizeTrailingSlash(p string) string {
	return strings.TrimRight(p, "/") + "/"
}
