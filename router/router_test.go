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

package router

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckrpc/duckrpc/procedure"
	"github.com/duckrpc/duckrpc/rpcerr"
)

func stubProcedure() *procedure.Definition {
	return procedure.New().Query(func(ctx context.Context, input any) rpcerr.Envelope {
		return rpcerr.Ok(nil, rpcerr.CodeOK)
	})
}

func TestRouter_NestedLookup(t *testing.T) {
	t.Parallel()

	profile := stubProcedure()
	r := New(map[string]Node{
		"user": New(map[string]Node{
			"profile": profile,
		}),
	})

	got := r.GetProcedureAtPath([]string{"user", "profile"})
	assert.Same(t, profile, got)
}

func TestRouter_UnknownPathReturnsNil(t *testing.T) {
	t.Parallel()

	r := New(map[string]Node{"hello": stubProcedure()})
	assert.Nil(t, r.GetProcedureAtPath([]string{"nope"}))
}

// Note: spec.md §4.5 describes a tie-break where a leaf named with the
// entire dotted path wins over a nested router with the same prefix. That
// scenario requires an entry name containing '.', which New rejects (per
// spec.md §3's "non-empty strings, no '.'" naming constraint, enforced
// below in TestRouter_InvalidNamesPanic) — so it can never be constructed
// here. GetProcedureAtPath still implements the rule as stated (exact-key
// lookup against the index, never a re-walk); see its doc comment.

func TestRouter_NonProcedureNonRouterEntriesIgnored(t *testing.T) {
	t.Parallel()

	r := New(map[string]Node{
		"hello":  stubProcedure(),
		"ignore": 42,
	})

	assert.Nil(t, r.GetProcedureAtPath([]string{"ignore"}))
	assert.NotNil(t, r.GetProcedureAtPath([]string{"hello"}))
}

func TestRouter_InvalidNamesPanic(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		New(map[string]Node{"": stubProcedure()})
	})
	assert.Panics(t, func() {
		New(map[string]Node{"a.b": stubProcedure()})
	})
}

func TestRouter_FreezeIsolatesCallerMap(t *testing.T) {
	t.Parallel()

	record := map[string]Node{"hello": stubProcedure()}
	r := New(record)

	record["hello"] = nil
	record["new"] = stubProcedure()

	assert.NotNil(t, r.GetProcedureAtPath([]string{"hello"}))
	assert.Nil(t, r.GetProcedureAtPath([]string{"new"}))
}

func TestRouter_ConcurrentFirstAccessConverges(t *testing.T) {
	t.Parallel()

	profile := stubProcedure()
	r := New(map[string]Node{
		"user": New(map[string]Node{"profile": profile}),
	})

	var wg sync.WaitGroup
	results := make([]*procedure.Definition, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.GetProcedureAtPath([]string{"user", "profile"})
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Same(t, profile, got)
	}
}
