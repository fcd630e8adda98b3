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
	"encoding/json"
	"net/http"
)

// Fixed response bodies. These are part of the observable contract and
// must not change.
const (
	noContentBody    = "No content provided."
	noRouteBody      = "No registered route found."
	fileNotFoundBody = "File not found."
)

// Response is the closed, structured handler output. All fields are
// optional; exactly one of Content or Redirect drives status defaulting:
// a set Redirect defaults the status to 301, otherwise the status defaults
// to 200 on the success path and 404 on the fallback path.
type Response struct {
	// StatusCode overrides the default status when non-zero.
	StatusCode int

	// Headers are set on the response, one value per key.
	Headers map[string]string

	// Cookies are appended as individual Set-Cookie headers.
	// They are appended, never overwritten, so every cookie survives.
	Cookies map[string]string

	// Redirect sets the Location header and defaults the status to 301.
	Redirect string

	// Content is the response body.
	Content []byte
}

// Text returns a plain response carrying the given content.
func Text(content string) *Response {
	return &Response{Content: []byte(content)}
}

// Bytes returns a response carrying the given raw content.
func Bytes(content []byte) *Response {
	return &Response{Content: content}
}

// JSON returns a response carrying the JSON encoding of value with an
// application/json content type. An encoding failure yields a 500 response.
func JSON(value any) *Response {
	encoded, err := json.Marshal(value)
	if err != nil {
		return &Response{
			StatusCode: http.StatusInternalServerError,
			Content:    []byte("Failed to encode response."),
		}
	}

	return &Response{
		Content: encoded,
		Headers: map[string]string{"Content-Type": "application/json"},
	}
}

// Redirect returns a response redirecting to the given URL.
// The status defaults to 301 unless overridden with WithStatus.
func Redirect(url string) *Response {
	return &Response{Redirect: url}
}

// WithStatus sets the status code and returns the response for chaining.
func (r *Response) WithStatus(code int) *Response {
	r.StatusCode = code

	return r
}

// WithHeader sets a response header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[key] = value

	return r
}

// WithCookie adds a cookie and returns the response for chaining.
func (r *Response) WithCookie(name, value string) *Response {
	if r.Cookies == nil {
		r.Cookies = map[string]string{}
	}
	r.Cookies[name] = value

	return r
}

// normalizeResponse applies the no-content fallback after the middleware
// chain has run. A nil response (handler or middleware short-circuit) or a
// response with neither content nor redirect gets the fixed no-content
// body; an already-set status, headers, and cookies pass through.
func normalizeResponse(resp *Response) *Response {
	if resp == nil {
		resp = &Response{}
	}
	if len(resp.Content) == 0 && resp.Redirect == "" {
		resp.Content = []byte(noContentBody)
	}

	return resp
}

// writeResponse assembles the response onto the wire: headers first, then
// one Set-Cookie header per cookie, then the Location header for redirects,
// then the status (defaulting to defaultStatus, or 301 for redirects), and
// finally the body. Returns the written status and body size.
func writeResponse(w http.ResponseWriter, resp *Response, defaultStatus int) (int, int64) {
	header := w.Header()
	for key, value := range resp.Headers {
		header.Set(key, value)
	}
	for name, value := range resp.Cookies {
		header.Add("Set-Cookie", name+"="+value)
	}

	status := resp.StatusCode
	if resp.Redirect != "" {
		header.Set("Location", resp.Redirect)
		if status == 0 {
			status = http.StatusMovedPermanently
		}
	}
	if status == 0 {
		status = defaultStatus
	}

	w.WriteHeader(status)
	n, _ := w.Write(resp.Content)

	return status, int64(n)
}
