// Copyright 2026 The DuckRPC Authors
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

package duckhttp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/duckrpc/duckrpc/codec"
	"github.com/duckrpc/duckrpc/rpcerr"
)

// writeEnvelope serializes env in format, writes cfg's extra headers and
// the X-Powered-By banner, sets Content-Type per the negotiated codec, and
// writes status, per spec.md §4.6 step 10.
func writeEnvelope(w http.ResponseWriter, cfg *config, env rpcerr.Envelope, status int, format codec.Format) {
	c := codec.Get(format)
	data, err := c.Encode(env)
	if err != nil {
		// Encoding the envelope itself should never fail for the shapes we
		// produce; fall back to a minimal JSON error rather than panic
		// inside a ResponseWriter write.
		cfg.logger.Error("duckhttp: failed to encode response envelope", "error", err)
		format = codec.FormatJSON
		data, _ = codec.Get(format).Encode(rpcerr.Err(rpcerr.CodeSerializationError, ""))
		status = rpcerr.CodeSerializationError.HTTPStatus()
	}

	header := w.Header()
	for k, vals := range cfg.headers {
		for _, v := range vals {
			header.Add(k, v)
		}
	}
	header.Set(poweredByHeader, poweredByValue)
	header.Set("Content-Type", format.ContentType())

	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// isBodyTooLarge reports whether err came from an http.MaxBytesReader
// rejecting an oversized body.
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "http: request body too large")
}
