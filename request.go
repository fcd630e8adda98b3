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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Request is the normalized request value handed to handlers and middleware.
// It is built once per request, before route resolution, and must not be
// mutated by handlers.
//
// Query, Cookies, and Body are always non-nil; parsing is best-effort and
// degrades to empty or partial maps, never to an error. Params is populated
// only for parameterized-route matches, Matches only for regex-route matches.
type Request struct {
	// Method is the upper-cased HTTP method.
	Method string

	// Path is the requested path used for matching. With
	// WithIgnoreTrailingSlash it carries exactly one trailing slash.
	Path string

	// URL is the parsed request URL as received from the transport.
	URL *url.URL

	// Header holds the request headers.
	Header http.Header

	// Query maps query keys to values. Last duplicate wins.
	Query map[string]string

	// Cookies maps cookie names to their raw (undecoded) values.
	Cookies map[string]string

	// Body maps body field names to values, from a JSON object or the
	// multipart-form heuristic.
	Body map[string]string

	// Params maps parameter names to the path segments they matched.
	Params map[string]string

	// Matches holds regex capture groups in order, group 0 excluded.
	Matches []string

	raw *http.Request
}

// Context returns the underlying request context. Cancellation and timeout
// policy belong to the transport layer; the router has none of its own.
func (r *Request) Context() context.Context {
	return r.raw.Context()
}

// newRequest normalizes an inbound http.Request: it upper-cases the method
// and parses the query string, cookie header, and body into string maps.
func newRequest(req *http.Request, path string) *Request {
	return &Request{
		Method:  strings.ToUpper(req.Method),
		Path:    path,
		URL:     req.URL,
		Header:  req.Header,
		Query:   parseQuery(req.URL.RawQuery),
		Cookies: parseCookies(req.Header.Get("Cookie")),
		Body:    parseBody(req.ContentLength, req.Body),
		raw:     req,
	}
}

// parseQuery parses a raw query string into a map. Pairs are split on the
// first '='; pairs with an empty key or an empty value are dropped before
// decoding. A literal '+' means space in the value only (form-encoding
// convention), then both key and value are percent-decoded. Pairs with
// malformed escapes are skipped. The last occurrence of a duplicate key wins.
func parseQuery(rawQuery string) map[string]string {
	query := map[string]string{}
	if rawQuery == "" {
		return query
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" || value == "" {
			continue
		}

		decodedKey, err := url.PathUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.PathUnescape(strings.ReplaceAll(value, "+", " "))
		if err != nil {
			continue
		}

		query[decodedKey] = decodedValue
	}

	return query
}

// parseCookies parses a Cookie header value into a map. Entries are split
// on ';', then on the first '='. Leading whitespace is trimmed from the
// name only, values are kept verbatim with no decoding.
func parseCookies(header string) map[string]string {
	cookies := map[string]string{}
	if header == "" {
		return cookies
	}

	for _, entry := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name = strings.TrimLeft(name, " ")
		if name == "" {
			continue
		}
		cookies[name] = value
	}

	return cookies
}

// parseBody reads at most contentLength bytes and parses them into a field
// map. The declared length only bounds the read; allocation grows with the
// bytes actually delivered, so a hostile Content-Length cannot reserve
// memory up front. A JSON object parse is attempted first; on failure the
// multipart-form heuristic runs. The result is empty when the content
// length is absent or zero, and parsing never surfaces an error to the
// handler.
func parseBody(contentLength int64, body io.Reader) map[string]string {
	fields := map[string]string{}
	if contentLength <= 0 || body == nil {
		return fields
	}

	raw, _ := io.ReadAll(io.LimitReader(body, contentLength))
	if len(raw) == 0 {
		return fields
	}

	if parseJSONBody(raw, fields) {
		return fields
	}
	parseMultipartBody(string(raw), fields)

	return fields
}

// parseJSONBody attempts to parse the body as a single JSON object and
// reports whether it succeeded. Values are flattened to strings: numbers
// keep their verbatim text via json.Number, null becomes the empty string,
// and nested arrays/objects are re-encoded as JSON.
func parseJSONBody(raw []byte, fields map[string]string) bool {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var object map[string]any
	if err := decoder.Decode(&object); err != nil {
		return false
	}

	for key, value := range object {
		fields[key] = stringifyJSONValue(value)
	}

	return true
}

func stringifyJSONValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(encoded)
	}
}

// parseMultipartBody is a best-effort scan for simple form posts, not an
// RFC 2046 implementation: it finds every `name="<key>"` occurrence and
// captures the text run until the next "---" boundary marker as the value,
// trimmed of surrounding whitespace. Declared boundary tokens, nested
// boundaries, and binary parts are not handled, deliberately; consumers
// rely on exactly this lenient behavior for malformed payloads.
func parseMultipartBody(body string, fields map[string]string) {
	const marker = `name="`

	remaining := body
	for {
		start := strings.Index(remaining, marker)
		if start < 0 {
			return
		}
		remaining = remaining[start+len(marker):]

		end := strings.Index(remaining, `"`)
		if end < 0 {
			// Name cannot be determined, skip the rest.
			return
		}
		name := remaining[:end]
		remaining = remaining[end+1:]

		value := remaining
		if boundary := strings.Index(remaining, "---"); boundary >= 0 {
			value = remaining[:boundary]
		}
		if name != "" {
			fields[name] = strings.TrimSpace(value)
		}
	}
}
