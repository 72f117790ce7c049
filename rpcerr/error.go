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

import "fmt"

// Error is a typed RPC error carrying a taxonomy code, a human-readable
// message, an optional cause (kept in-process for logging, never
// serialized over the wire), and optional validation issues.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Issues  []Issue
}

// New constructs an *Error with the given code, message, and issues. A
// blank message is replaced with a generic description of the code so
// callers never have to special-case it.
func New(code Code, message string, issues ...Issue) *Error {
	if message == "" {
		message = defaultMessage(code)
	}
	return &Error{Code: code, Message: message, Issues: issues}
}

// Wrap constructs an *Error that preserves cause for in-process
// inspection (logging, testing) while presenting message on the wire.
func Wrap(code Code, message string, cause error) *Error {
	e := New(code, message)
	e.Cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes Cause to errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status mapped to e's Code, so code holding
// only the *Error can obtain the status without going through rpcerr.Code.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

func defaultMessage(code Code) string {
	switch code {
	case CodeBadRequest:
		return "Bad request"
	case CodeValidationError:
		return "Validation failed"
	case CodeNotFound:
		return "Not found"
	case CodeProcedureNotFound:
		return "Procedure not found"
	case CodeUnauthorized:
		return "Unauthorized"
	case CodeForbidden:
		return "Forbidden"
	case CodeInternalServerError:
		return "Internal server error"
	default:
		return string(code)
	}
}
