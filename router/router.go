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

// Package router implements the immutable procedure tree and its
// lazily-built dispatch index from spec.md §4.5. A Router groups named
// Procedures and nested Routers under dotted keys; GetProcedureAtPath
// resolves a dotted path against a flat index built once, on first lookup,
// and memoized for the lifetime of the Router — the teacher's
// sync.Once-guarded warmup idiom (rivaas router.Router.Warmup/doWarmup),
// used here instead of a weak-map-keyed-by-identity index because Go has
// no portable weak map.
package router

import (
	"strings"
	"sync"

	"github.com/duckrpc/duckrpc/procedure"
)

// Node is anything a Router entry can hold: a procedure leaf or a nested
// router. Entries that are neither are ignored during index construction,
// per spec.md §4.5.
type Node any

// Router is an immutable tree mapping names to Procedures or nested
// Routers. It is deeply frozen at construction: New copies its input
// record so later mutation of the caller's map cannot affect the Router's
// visible state (spec.md §3's immutability invariant).
type Router struct {
	kind    string
	entries map[string]Node

	indexOnce sync.Once
	procIndex map[string]*procedure.Definition
	routeIndex map[string]*Router
}

// New deeply freezes record into an immutable Router. record's values must
// be *procedure.Definition, *Router, or anything else (ignored by the
// index, but still retrievable via Entries for diagnostics).
//
// Keys must be non-empty and must not contain '.', matching spec.md §3's
// router-record constraint (dotted paths are a router concern, not a
// valid leaf name).
func New(record map[string]Node) *Router {
	frozen := make(map[string]Node, len(record))
	for name, node := range record {
		if name == "" || strings.Contains(name, ".") {
			panic("router: entry name must be non-empty and must not contain '.': " + name)
		}
		frozen[name] = node
	}
	return &Router{kind: "router", entries: frozen}
}

// Kind returns "router", mirroring the teacher's discriminated-tag idiom
// (spec.md §3's `kind: "router"` tag).
func (r *Router) Kind() string { return r.kind }

// Entries returns a copy of the router's direct entries, for diagnostics
// and tests. Mutating the returned map never affects r.
func (r *Router) Entries() map[string]Node {
	out := make(map[string]Node, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// GetProcedureAtPath resolves path (already split on '.') against r's
// lazily-built index by exact string equality of the joined key, never by
// re-walking the tree at lookup time — the index built once by walk is
// always authoritative, per spec.md §4.5. Because entry names may not
// contain '.' (New rejects them), the "entire dotted path as a single leaf
// name" case spec.md §4.5 describes as winning the tie-break can never
// actually arise: every key procIndex holds was produced by joining
// dot-free segments during walk, so there is no way to construct two
// distinct entries that collide under strings.Join. The rule is still
// implemented as stated (exact-key lookup, no re-walk) — it is just
// unreachable in practice given the naming constraint in New.
func (r *Router) GetProcedureAtPath(path []string) *procedure.Definition {
	r.buildIndex()
	return r.procIndex[strings.Join(path, ".")]
}

// GetRouterAtPath resolves path against r's lazily-built router index.
func (r *Router) GetRouterAtPath(path []string) *Router {
	r.buildIndex()
	return r.routeIndex[strings.Join(path, ".")]
}

// buildIndex builds r's dotted-path index exactly once, the first time any
// lookup touches r. sync.Once guarantees that concurrent first-access
// converges on one build, satisfying spec.md §5's "idempotent under
// concurrent first access" requirement without a weak map.
func (r *Router) buildIndex() {
	r.indexOnce.Do(func() {
		procIndex := make(map[string]*procedure.Definition)
		routeIndex := make(map[string]*Router)
		walk(r, nil, procIndex, routeIndex)
		r.procIndex = procIndex
		r.routeIndex = routeIndex
	})
}

// walk performs the depth-first traversal described in spec.md §4.5: each
// procedure leaf contributes its dotted path to procIndex, each nested
// router contributes its dotted path to routeIndex and is recursed into,
// and any other value is ignored.
func walk(r *Router, prefix []string, procIndex map[string]*procedure.Definition, routeIndex map[string]*Router) {
	for name, node := range r.entries {
		path := append(append([]string{}, prefix...), name)
		key := strings.Join(path, ".")

		switch v := node.(type) {
		case *procedure.Definition:
			procIndex[key] = v
		case *Router:
			routeIndex[key] = v
			walk(v, path, procIndex, routeIndex)
		default:
			// ignored: neither a procedure nor a router
		}
	}
}
