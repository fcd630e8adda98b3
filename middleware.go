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

// Middleware transforms a response. The chain is applied left-to-right in
// registration order; each step receives the request and the current
// response and returns the next one. There is no shared state between
// steps beyond the response value itself.
type Middleware func(req *Request, resp *Response) *Response

// applyMiddleware folds the chain over the response. A nil return
// short-circuits the fold and propagates: the dispatcher turns it into
// the fixed no-content response rather than crashing.
func applyMiddleware(chain []Middleware, req *Request, resp *Response) *Response {
	for _, middleware := range chain {
		resp = middleware(req, resp)
		if resp == nil {
			return nil
		}
	}

	return resp
}
