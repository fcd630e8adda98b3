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

import "errors"

var (
	// ErrInvalidTemplate indicates that a route template or static prefix
	// does not start with a leading slash.
	ErrInvalidTemplate = errors.New("route template must start with '/'")

	// ErrNilHandler indicates that a nil handler was passed to a registration call.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNilPattern indicates that a nil regular expression was passed to RouteRegex.
	ErrNilPattern = errors.New("regex route pattern must not be nil")

	// ErrAlreadyServing indicates a registration call after the router started
	// serving requests. Routes, middleware, and the fallback handler are
	// immutable once the first request has been dispatched.
	ErrAlreadyServing = errors.New("cannot register after serving has started")

	// ErrServerTimeoutInvalid indicates that a server timeout value must be positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")
)
