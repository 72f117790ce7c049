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

import (
	"errors"
	"fmt"
)

// ErrBody is the error half of an Envelope.
type ErrBody struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Issues  []Issue `json:"issues"`
}

// Envelope is the uniform response shape returned over the wire for every
// call, success or failure. The two cases are mutually exclusive: OK=true
// carries Data, OK=false carries Error.
type Envelope struct {
	OK    bool    `json:"ok"`
	Data  any     `json:"data,omitempty"`
	Code  Code    `json:"code,omitempty"`
	Error *ErrBody `json:"error,omitempty"`
}

// Ok builds a success envelope.
func Ok(data any, code Code) Envelope {
	return Envelope{OK: true, Data: data, Code: code}
}

// Err builds an error envelope. issues is always serialized as an array,
// never omitted or null, per spec.md §7 ("Validation issues are always
// arrays (empty if none)").
func Err(code Code, message string, issues ...Issue) Envelope {
	if message == "" {
		message = defaultMessage(code)
	}
	if issues == nil {
		issues = []Issue{}
	}
	return Envelope{
		OK:   false,
		Code: code,
		Error: &ErrBody{
			Code:    string(code),
			Message: message,
			Issues:  issues,
		},
	}
}

// ToError classifies an arbitrary recovered value (anything a panic,
// a returned error, or a middleware short-circuit result might carry) into
// a wire Envelope and its matching HTTP status. This is the single outer
// boundary every layer funnels unexpected failures through:
//
//   - an already-typed *Error is preserved verbatim (code, message, issues);
//   - any other value implementing error is folded into
//     RPC_INTERNAL_SERVER_ERROR with its message preserved as Cause;
//   - anything else (strings, nil, arbitrary values) becomes
//     RPC_INTERNAL_SERVER_ERROR with the message "Unknown error".
func ToError(v any) (Envelope, int) {
	typed := Normalize(v)
	return Err(typed.Code, typed.Message, typed.Issues...), typed.Code.HTTPStatus()
}

// Normalize performs the same classification as ToError but returns the
// typed *Error rather than the wire envelope, so callers that need the
// preserved Cause for logging (see internal/rpclog) don't have to re-derive
// it from the envelope.
func Normalize(v any) *Error {
	switch val := v.(type) {
	case nil:
		return New(CodeInternalServerError, "Unknown error")
	case *Error:
		return val
	case error:
		message, issues := formatCause(val)
		e := New(CodeInternalServerError, message, issues...)
		e.Cause = val
		return e
	default:
		return New(CodeInternalServerError, "Unknown error")
	}
}

// formatCause extracts a message and any attached structured issues from an
// arbitrary Go error, consulting the optional IssueProvider/ErrorDetails/
// ErrorCode interfaces a domain error may implement, in that order, mirroring
// the teacher's errors.Simple.Format narrowing sequence (see SPEC_FULL.md
// §4.2b). The wire envelope only ever carries a message and an issues array,
// so ErrorDetails folds into a single issue and ErrorCode folds into the
// message rather than growing the envelope shape.
func formatCause(err error) (string, []Issue) {
	var withIssues IssueProvider
	if errors.As(err, &withIssues) {
		return err.Error(), withIssues.Issues()
	}

	message := err.Error()

	var withDetails ErrorDetails
	if errors.As(err, &withDetails) {
		if details := withDetails.Details(); details != nil {
			return message, []Issue{{Message: fmt.Sprintf("%v", details), Path: []any{}}}
		}
	}

	var withCode ErrorCode
	if errors.As(err, &withCode) {
		message = fmt.Sprintf("%s (%s)", message, withCode.Code())
	}

	return message, nil
}
