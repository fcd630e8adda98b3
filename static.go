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
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
)

// osFileSystem is the default static-file source. Unlike http.Dir it
// honors absolute folder paths, since the folder is part of the resolved
// resource name.
type osFileSystem struct{}

func (osFileSystem) Open(name string) (http.File, error) {
	return os.Open(name)
}

// serveStatic resolves the resource against the route's folder and writes
// it out with a content type derived from the extension. Any failure —
// traversal attempt, open error, directory hit, read error — degrades to a
// 404 with a fixed body, never an error.
func (r *Router) serveStatic(w http.ResponseWriter, route *StaticRoute, resource string) (int, int64) {
	// Reject parent-directory traversal; the folder boundary is the contract.
	if strings.Contains(resource, "..") {
		return writeResponse(w, &Response{Content: []byte(fileNotFoundBody)}, http.StatusNotFound)
	}

	// WithIgnoreTrailingSlash appends a slash to every incoming path;
	// strip it again so file names resolve.
	if r.ignoreTrailingSlash {
		resource = strings.TrimSuffix(resource, "/")
	}

	content, err := readFile(r.fs, route.Folder+resource)
	if err != nil {
		return writeResponse(w, &Response{Content: []byte(fileNotFoundBody)}, http.StatusNotFound)
	}

	resp := &Response{Content: content}
	if contentType := contentTypeByExtension(resource); contentType != "" {
		resp.Headers = map[string]string{"Content-Type": contentType}
	}

	return writeResponse(w, resp, http.StatusOK)
}

func readFile(fs http.FileSystem, name string) ([]byte, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, os.ErrNotExist
	}

	return io.ReadAll(file)
}

// contentTypeByExtension maps a resource extension to a MIME type.
// Falls back to a small table for types the mime package may not know,
// and to application/octet-stream for everything else. Resources without
// an extension get no Content-Type and are left to sniffing.
func contentTypeByExtension(resource string) string {
	ext := path.Ext(resource)
	if ext == "" {
		return ""
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}

	switch ext {
	case ".json":
		return "application/json"
	case ".html", ".htm":
		return "text/html"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
