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

// Package procedure implements the fluent procedure builder from
// spec.md §4.4. Each builder transition (Use, Input, Output, Validation)
// returns a new builder — construction is stepwise-immutable — and the
// terminal Query/Mutation call freezes an immutable Definition whose Call
// entry point is the only thing the router and HTTP adapter ever touch.
package procedure

import (
	"context"

	"github.com/duckrpc/duckrpc/middleware"
	"github.com/duckrpc/duckrpc/rpcerr"
	"github.com/duckrpc/duckrpc/schema"
)

// Type is the procedure's declared kind. The HTTP adapter rejects a
// request whose declared type doesn't match the resolved procedure's Type.
type Type string

const (
	TypeQuery    Type = "query"
	TypeMutation Type = "mutation"
)

// Validation toggles whether a procedure's input/output schemas run.
type Validation bool

const (
	ValidationOn  Validation = true
	ValidationOff Validation = false
)

// Resolver is the user-supplied terminal handler: it receives the refined
// context and the validated input, and produces a response envelope. A
// resolver may signal failure either by returning an error envelope
// (rpcerr.Err(...)) or by panicking with any value — both are mapped
// identically via rpcerr.ToError.
type Resolver func(ctx context.Context, input any) rpcerr.Envelope

// Definition is the immutable, pre-composed procedure produced by a
// terminal Query/Mutation call. Its middleware chain is built exactly
// once, at construction time (spec.md §3 invariant).
type Definition struct {
	Kind Type // always "procedure"-shaped; Type distinguishes query/mutation
	Type Type

	call func(ctx context.Context, rawInput any) rpcerr.Envelope
}

// Call invokes the procedure: validates rawInput (if configured), runs the
// pre-composed middleware chain around resolver, validates the resolver's
// output (if configured), and returns the final envelope. Call never
// panics — every failure path, including a panicking resolver or
// middleware, is mapped to an error envelope.
func (d *Definition) Call(ctx context.Context, rawInput any) rpcerr.Envelope {
	return d.call(ctx, rawInput)
}

// Builder fluently constructs a Definition. Every transition method returns
// a new Builder; the Builder produced by New() has validation on and no
// middlewares or schemas configured (a zero Builder{} has validation off).
type Builder struct {
	middlewares []middleware.Func
	input       schema.Schema
	output      schema.Schema
	validation  Validation
}

// New starts a procedure builder with validation enabled by default.
func New() *Builder {
	return &Builder{validation: ValidationOn}
}

// Use appends a middleware, returning a new Builder.
func (b *Builder) Use(mw middleware.Func) *Builder {
	next := b.clone()
	next.middlewares = append(next.middlewares, mw)
	return next
}

// Input sets (or replaces) the input schema, returning a new Builder.
func (b *Builder) Input(s schema.Schema) *Builder {
	next := b.clone()
	next.input = s
	return next
}

// Output sets (or replaces) the output schema, returning a new Builder.
func (b *Builder) Output(s schema.Schema) *Builder {
	next := b.clone()
	next.output = s
	return next
}

// Validation toggles input/output validation for the eventual Definition.
// on=true enables both input and output parsing; on=false disables both —
// see spec.md §9's Open Question resolution in DESIGN.md.
func (b *Builder) Validation(on Validation) *Builder {
	next := b.clone()
	next.validation = on
	return next
}

// clone copies b, including a fresh backing array for middlewares so that
// appending to the returned Builder never mutates b's slice (stepwise
// immutability).
func (b *Builder) clone() *Builder {
	c := *b
	c.middlewares = make([]middleware.Func, len(b.middlewares))
	copy(c.middlewares, b.middlewares)
	return &c
}

// Query terminates the builder, producing a query Definition.
func (b *Builder) Query(resolver Resolver) *Definition {
	return b.build(TypeQuery, resolver)
}

// Mutation terminates the builder, producing a mutation Definition.
func (b *Builder) Mutation(resolver Resolver) *Definition {
	return b.build(TypeMutation, resolver)
}

func (b *Builder) build(kind Type, resolver Resolver) *Definition {
	dispatch := middleware.Compose(b.middlewares...)
	input, output, validationOn := b.input, b.output, bool(b.validation)

	def := &Definition{Kind: "procedure", Type: kind}
	def.call = func(ctx context.Context, rawInput any) (env rpcerr.Envelope) {
		defer func() {
			if r := recover(); r != nil {
				env, _ = rpcerr.ToError(r)
			}
		}()

		parsedInput := rawInput
		if validationOn && input != nil {
			parsed, err := schema.ParseInput(ctx, input, rawInput)
			if err != nil {
				env, _ = rpcerr.ToError(err)
				return env
			}
			parsedInput = parsed
		}

		perRequest := func(ctx context.Context) middleware.Result {
			out := resolver(ctx, parsedInput)
			if !out.OK {
				return middleware.Err(errorFromEnvelope(out))
			}
			if validationOn && output != nil {
				parsedOut, err := schema.ParseOutput(ctx, output, out.Data)
				if err != nil {
					return middleware.Err(rpcerr.Normalize(err))
				}
				out.Data = parsedOut
			}
			return middleware.OK(out)
		}

		result := dispatch(ctx, perRequest)
		if result.OK {
			return result.Data
		}
		env, _ = rpcerr.ToError(result.Error)
		return env
	}
	return def
}

// errorFromEnvelope reconstructs a typed *rpcerr.Error from an error
// envelope a resolver returned directly (as opposed to panicking), so both
// paths funnel through the same middleware.Result shape.
func errorFromEnvelope(env rpcerr.Envelope) *rpcerr.Error {
	if env.Error == nil {
		return rpcerr.New(rpcerr.CodeInternalServerError, "")
	}
	return rpcerr.New(rpcerr.Code(env.Error.Code), env.Error.Message, env.Error.Issues...)
}
