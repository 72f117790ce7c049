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

// Package duckhttp is the HTTP request/response adapter from spec.md §4.6:
// it resolves the procedure path, parses the request envelope, negotiates
// the wire format, invokes the resolved procedure, and serializes the
// response — mapping every failure along the way through rpcerr.ToError.
//
// The concrete TCP listener is deliberately out of scope (spec.md §1):
// Adapter implements http.Handler and is meant to be mounted on whatever
// *http.Server, host framework, or test harness the caller already runs.
package duckhttp

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/duckrpc/duckrpc/codec"
	"github.com/duckrpc/duckrpc/router"
	"github.com/duckrpc/duckrpc/rpcerr"
)

// ContextFactory produces the initial per-request Ctx from the inbound
// request, per spec.md §3 ("Initially produced by a createContext
// callback from the inbound request"). Returning an error maps to
// RPC_CONTEXT_ERROR.
type ContextFactory func(r *http.Request) (context.Context, error)

// Adapter is the http.Handler implementing spec.md §4.6's algorithm.
type Adapter struct {
	createContext ContextFactory
	root          *router.Router
	cfg           *config
}

// New builds an Adapter serving root under cfg's endpoint prefix
// (default "/rpc").
func New(createContext ContextFactory, root *router.Router, opts ...Option) *Adapter {
	return &Adapter{
		createContext: createContext,
		root:          root,
		cfg:           newConfig(opts...),
	}
}

// ServeHTTP implements http.Handler. Any panic within step 1–9 of the
// algorithm (path check through procedure invocation) is caught here and
// mapped via rpcerr.ToError — the adapter's outer boundary, matching
// spec.md §4.6's final sentence.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format := codec.NegotiateResponseFormat(r.Header.Get("Accept"), r.Header.Get("Content-Type"))

	env, status := a.handle(w, r)
	writeEnvelope(w, a.cfg, env, status, format)
}

func (a *Adapter) handle(w http.ResponseWriter, r *http.Request) (env rpcerr.Envelope, status int) {
	defer func() {
		if rec := recover(); rec != nil {
			env, status = rpcerr.ToError(rec)
			a.cfg.logger.Warn("duckhttp: recovered panic", "error", env.Error, "path", r.URL.Path)
		}
	}()

	// Step 1: endpoint prefix.
	if !strings.HasPrefix(r.URL.Path, a.cfg.prefix) {
		return errEnvelope(rpcerr.CodeNotFound, "")
	}

	// Step 2: method.
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		return errEnvelope(rpcerr.CodeBadRequest, "method must be GET or POST")
	}

	// Step 3: build the user context.
	ctx, err := a.createContext(r)
	if err != nil {
		a.cfg.logger.Debug("duckhttp: createContext failed", "error", err)
		return rpcerr.ToError(rpcerr.Wrap(rpcerr.CodeContextError, "", err))
	}

	// Step 4: resolve the dotted procedure path.
	path := splitProcedurePath(r.URL.Path, a.cfg.prefix)

	// Step 5 & 6: parse the request envelope.
	reqEnv, typedErr := a.parseEnvelope(w, r)
	if typedErr != nil {
		return rpcerr.ToError(typedErr)
	}

	// Step 7: look up the procedure.
	def := a.root.GetProcedureAtPath(path)
	if def == nil {
		return errEnvelope(rpcerr.CodeNotFound, "")
	}

	// Step 8: procedure type must match the declared request type.
	if string(def.Type) != reqEnv.Type {
		return errEnvelope(rpcerr.CodeBadRequest, "procedure type mismatch: expected "+string(def.Type))
	}

	// Step 9: invoke.
	result := def.Call(ctx, reqEnv.RawInput)
	return result, result.Code.HTTPStatus()
}

// errEnvelope builds the (Envelope, status) pair handle returns for a
// one-off failure, without routing through ToError's Normalize (there is
// no Go error to preserve as Cause here).
func errEnvelope(code rpcerr.Code, message string) (rpcerr.Envelope, int) {
	return rpcerr.Err(code, message), code.HTTPStatus()
}

// splitProcedurePath strips prefix and an optional leading '/', then
// splits the remainder on '.', per spec.md §4.6 step 4.
func splitProcedurePath(urlPath, prefix string) []string {
	rest := strings.TrimPrefix(urlPath, prefix)
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, ".")
}

func (a *Adapter) parseEnvelope(w http.ResponseWriter, r *http.Request) (requestEnvelope, *rpcerr.Error) {
	if r.Method == http.MethodGet {
		return parseGetEnvelope(r), nil
	}

	data, err := a.readBody(w, r)
	if err != nil {
		if isBodyTooLarge(err) {
			return requestEnvelope{}, rpcerr.New(rpcerr.CodePayloadTooLarge, "")
		}
		return requestEnvelope{}, rpcerr.Wrap(rpcerr.CodeBadRequest, "failed to read request body", err)
	}
	return parsePostEnvelope(r.Header.Get("Content-Type"), data)
}

func (a *Adapter) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var reader io.Reader = r.Body
	if a.cfg.bodyReader != nil {
		custom, err := a.cfg.bodyReader(r)
		if err != nil {
			return nil, err
		}
		reader = custom
	}
	if a.cfg.bodyLimit > 0 {
		if rc, ok := reader.(io.ReadCloser); ok {
			reader = http.MaxBytesReader(w, rc, a.cfg.bodyLimit)
		} else {
			reader = http.MaxBytesReader(w, io.NopCloser(reader), a.cfg.bodyLimit)
		}
	}
	return io.ReadAll(reader)
}
