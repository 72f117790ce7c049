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

package rpcerr

// Issue is a single validation error: a message plus a structured path
// locating the offending value within the invalid input. Path segments are
// either strings (struct/map field names) or ints (slice indices).
type Issue struct {
	Message string `json:"message"`
	Path    []any  `json:"path"`
}

// IssueProvider is an optional interface a foreign error may implement to
// attach structured validation issues to itself. rpcerr consults it when
// normalizing arbitrary errors so that schema adapters (see package schema)
// don't need to depend on rpcerr to report issues.
type IssueProvider interface {
	Issues() []Issue
}

// ErrorDetails is an optional interface carrying an arbitrary structured
// detail payload, mirroring the teacher's errors.ErrorDetails pattern.
// formatCause consults it (after IssueProvider) and folds Details() into a
// single Issue.
type ErrorDetails interface {
	Details() any
}

// ErrorCode is an optional interface exposing a caller-assigned error code
// string, distinct from rpcerr.Code, for domain errors that want to surface
// their own classification alongside the generic RPC_INTERNAL_SERVER_ERROR
// taxonomy code. formatCause consults it and appends Code() to the
// formatted message.
type ErrorCode interface {
	Code() string
}
