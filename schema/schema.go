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

// Package schema defines the adapter interface bridging concrete validator
// libraries (see the go-playground/validator-backed implementation in
// schema/structtag) into the RPC pipeline. Procedures hold an input Schema
// and an output Schema; neither the procedure builder nor the router ever
// talk to a validator library directly.
package schema

import (
	"context"

	"github.com/duckrpc/duckrpc/rpcerr"
)

// Issue is an alias for rpcerr.Issue: the adapter layer and the wire
// envelope share one normalized issue shape, so a validator's complaints
// need no translation on their way into an error envelope.
type Issue = rpcerr.Issue

// Schema is an opaque validator capability. Validate parses raw into a
// concrete value, or reports issues describing why it couldn't.
//
// Validate takes a context because some validator libraries perform I/O
// (e.g. remote schema registries, async refinements); the reference
// structtag adapter ignores it beyond propagating cancellation.
type Schema interface {
	Validate(ctx context.Context, raw any) (parsed any, issues []Issue)
}

// Func adapts a plain function to the Schema interface, mirroring the
// common net/http HandlerFunc pattern used throughout the example pack.
type Func func(ctx context.Context, raw any) (any, []Issue)

// Validate implements Schema.
func (f Func) Validate(ctx context.Context, raw any) (any, []Issue) {
	return f(ctx, raw)
}
