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

import "strings"

// matchParams tests the requested path against the route's compiled pattern
// and extracts parameter values in declaration order.
//
// Returns nil when the pattern does not match, or when any extracted value
// is empty: an empty segment is a failed match, not a valid empty parameter,
// so resolution falls through to the next candidate.
func (rt *Route) matchParams(path string) map[string]string {
	match := rt.pattern.FindStringSubmatch(path)
	if match == nil {
		return nil
	}

	params := make(map[string]string, len(rt.paramNames))
	for i, name := range rt.paramNames {
		value := match[i+1]
		if value == "" {
			return nil
		}
		params[name] = value
	}

	return params
}

// matchRegex scans the ordered regex-route list and returns the first route
// whose match spans the full requested path, together with its capture
// groups (group 0 excluded). Returns (nil, nil) when nothing matches.
func matchRegex(path string, routes []RegexRoute) (*RegexRoute, []string) {
	for i := range routes {
		match := routes[i].Pattern.FindStringSubmatch(path)
		if match == nil || match[0] != path {
			continue
		}

		return &routes[i], match[1:]
	}

	return nil, nil
}

// matchStatic scans the ordered static-route list and returns the first
// entry whose public prefix is a literal prefix of the requested path,
// together with the resource remainder after stripping the prefix.
// Returns (nil, "") when nothing matches.
func matchStatic(path string, routes []StaticRoute) (*StaticRoute, string) {
	for i := range routes {
		if strings.HasPrefix(path, routes[i].Prefix) {
			return &routes[i], strings.TrimPrefix(path, routes[i].Prefix)
		}
	}

	return nil, ""
}
