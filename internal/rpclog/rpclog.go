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

// Package rpclog provides the ambient structured-logging default for
// duckhttp, following the teacher router package's noop-logger-by-default
// pattern (rivaas router.noopLogger / router.NoopLogger).
package rpclog

import (
	"io"
	"log/slog"
)

var noop = slog.New(slog.NewTextHandler(io.Discard, nil))

// Noop returns the singleton discard logger used when a host application
// doesn't configure one via duckhttp.WithLogger.
func Noop() *slog.Logger {
	return noop
}

// OrNoop returns l if non-nil, otherwise the singleton discard logger.
func OrNoop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return noop
	}
	return l
}
