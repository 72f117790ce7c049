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

// Package middleware implements the onion-model composition engine
// described in spec.md §4.3. A middleware chain is pre-composed once, at
// procedure construction time (see package procedure), into a single
// Dispatch closure; only the resolver that Dispatch is finally invoked with
// varies per request.
//
// Composition order:
//
//	Compose(A, B, C) → dispatch(ctx, resolver)
//	Request:   A before-next → B before-next → C before-next → resolver
//	Response:  resolver → C after-next → B after-next → A after-next
package middleware

import (
	"context"

	"github.com/duckrpc/duckrpc/rpcerr"
)

// Result is what a middleware or the terminal resolver produces: either a
// successful envelope (OK=true) or a short-circuiting error (OK=false).
type Result struct {
	OK    bool
	Data  rpcerr.Envelope
	Error *rpcerr.Error
}

// Next invokes the remainder of the chain with ctx, which may be the same
// context the middleware received or a refined (widened/narrowed) one it
// built for downstream stages. Next must be called at most once per
// middleware activation; a second call panics with a deterministic,
// recoverable programmer error (see ErrNextCalledTwice).
type Next func(ctx context.Context) Result

// Func is a single middleware stage.
type Func func(ctx context.Context, next Next) Result

// Resolver is the request-specific terminal stage closing over the
// already-validated input (see package procedure); it has the same shape
// as Next so it can be the final link in a composed chain.
type Resolver func(ctx context.Context) Result

// ErrNextCalledTwice is the panic value raised when a middleware invokes
// its next callable more than once within a single activation.
var ErrNextCalledTwice = &rpcerr.Error{
	Code:    rpcerr.CodeMiddlewareError,
	Message: "next() called multiple times",
}

// Dispatch is the pre-composed chain produced by Compose: it runs ctx
// through every middleware in declaration order and finally the resolver.
type Dispatch func(ctx context.Context, resolver Resolver) Result

// Compose builds a Dispatch from an ordered list of middlewares. It is
// called exactly once per procedure, at procedure-build time, so the
// per-request cost of invoking Dispatch never includes re-allocating the
// chain's structure — only the resolver closure varies call to call.
func Compose(mws ...Func) Dispatch {
	// Snapshot defensively: a caller mutating its slice after Compose
	// returns must not affect an already-built chain.
	chain := make([]Func, len(mws))
	copy(chain, mws)

	return func(ctx context.Context, resolver Resolver) Result {
		return runFrom(chain, 0, ctx, resolver)
	}
}

// runFrom invokes chain[i:] then resolver, building each stage's Next
// closure so that calling it twice is detectable.
func runFrom(chain []Func, i int, ctx context.Context, resolver Resolver) Result {
	if i >= len(chain) {
		return runResolver(resolver, ctx)
	}

	called := false
	next := func(nextCtx context.Context) Result {
		if called {
			panic(ErrNextCalledTwice)
		}
		called = true
		if nextCtx == nil {
			nextCtx = ctx
		}
		return runFrom(chain, i+1, nextCtx, resolver)
	}

	return runStage(chain[i], ctx, next)
}

// runStage invokes a single middleware, recovering a panic into an error
// Result so that one misbehaving middleware cannot crash the whole
// pipeline — it is mapped via rpcerr.ToError just like the HTTP adapter's
// outer boundary.
func runStage(stage Func, ctx context.Context, next Next) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = resultFromPanic(r)
		}
	}()
	return stage(ctx, next)
}

// runResolver invokes the terminal resolver with the same panic-recovery
// contract as a middleware stage.
func runResolver(resolver Resolver, ctx context.Context) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = resultFromPanic(r)
		}
	}()
	return resolver(ctx)
}

func resultFromPanic(r any) Result {
	typed := rpcerr.Normalize(r)
	return Result{OK: false, Error: typed}
}

// OK builds a successful Result wrapping env.
func OK(env rpcerr.Envelope) Result {
	return Result{OK: true, Data: env}
}

// Err builds a short-circuiting Result from a typed error.
func Err(err *rpcerr.Error) Result {
	return Result{OK: false, Error: err}
}
