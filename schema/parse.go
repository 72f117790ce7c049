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

package schema

import (
	"context"

	"github.com/duckrpc/duckrpc/rpcerr"
)

// ParseInput runs raw through s and maps failure to RPC_BAD_REQUEST, per
// spec.md §4.2: input is the caller's responsibility, so a bad input is the
// caller's fault. A nil schema is treated as "no validation configured" and
// passes raw through unchanged.
func ParseInput(ctx context.Context, s Schema, raw any) (any, error) {
	if s == nil {
		return raw, nil
	}
	parsed, issues := s.Validate(ctx, raw)
	if len(issues) > 0 {
		return nil, rpcerr.New(rpcerr.CodeBadRequest, "Validation failed", issues...)
	}
	return parsed, nil
}

// ParseOutput runs raw through s and maps failure to
// RPC_INTERNAL_SERVER_ERROR: an output that fails its own schema is a
// server bug, never the caller's fault.
func ParseOutput(ctx context.Context, s Schema, raw any) (any, error) {
	if s == nil {
		return raw, nil
	}
	parsed, issues := s.Validate(ctx, raw)
	if len(issues) > 0 {
		return nil, rpcerr.New(rpcerr.CodeInternalServerError, "", issues...)
	}
	return parsed, nil
}
