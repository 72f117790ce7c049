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
	"io"
	"log/slog"
	"net/http"

	"github.com/duckrpc/duckrpc/internal/rpclog"
)

// defaultPrefix is the endpoint prefix used when no WithPrefix option is
// given, per spec.md §6.
const defaultPrefix = "/rpc"

// poweredByHeader and poweredByValue form the default identifying banner
// header, named in
// SPEC_FULL.md §6 ("the default banner header is X-Powered-By: duckrpc").
const poweredByHeader = "X-Powered-By"
const poweredByValue = "duckrpc"

// config holds the Adapter's construction-time settings. All fields are
// set via functional Options (the teacher's router.Option pattern) and are
// read-only once New returns.
type config struct {
	prefix     string
	headers    http.Header
	bodyLimit  int64
	logger     *slog.Logger
	bodyReader func(*http.Request) (io.Reader, error)
}

// Option configures an Adapter at construction time.
type Option func(*config)

// WithPrefix overrides the default "/rpc" endpoint prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithHeaders merges extra headers into every response.
func WithHeaders(headers http.Header) Option {
	return func(c *config) {
		if c.headers == nil {
			c.headers = make(http.Header)
		}
		for k, vals := range headers {
			for _, v := range vals {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithBodyLimit caps request body size in bytes. Exceeding it yields
// RPC_PAYLOAD_TOO_LARGE. Zero (the default) means no limit.
func WithBodyLimit(limit int64) Option {
	return func(c *config) { c.bodyLimit = limit }
}

// WithLogger sets the *slog.Logger the adapter reports adapter-level
// failures through (recovered panics, createContext failures, and response
// envelope encode failures). The default is the package-wide discard logger
// (see internal/rpclog).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBodyReader lets a host framework that already consumed the request
// body (because its own middleware sits in front of DuckRPC) supply a
// replacement reader instead of req.Body, avoiding double-consumption.
func WithBodyReader(reader func(*http.Request) (io.Reader, error)) Option {
	return func(c *config) { c.bodyReader = reader }
}

func newConfig(opts ...Option) *config {
	c := &config{prefix: defaultPrefix}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = rpclog.OrNoop(c.logger)
	return c
}
