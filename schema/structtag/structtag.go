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

// Package structtag provides the reference schema.Schema implementation:
// it binds a decoded JSON/CBOR value (typically a map[string]any) into a
// Go struct of type T and runs github.com/go-playground/validator/v10
// against its `validate:"..."` tags, normalizing ValidationErrors into
// schema.Issue.
package structtag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/duckrpc/duckrpc/schema"
)

// Adapter is a schema.Schema bound to a concrete struct type T.
type Adapter[T any] struct {
	validate *validator.Validate
}

// New returns an Adapter for T using a process-local validator instance.
// Field paths prefer the `json` tag name over the Go field name so issue
// paths match the wire shape the caller actually sent, falling back to the
// struct field name when no json tag is present.
func New[T any]() *Adapter[T] {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Adapter[T]{validate: v}
}

// Validate implements schema.Schema.
func (a *Adapter[T]) Validate(ctx context.Context, raw any) (any, []schema.Issue) {
	var target T
	if err := decodeInto(raw, &target); err != nil {
		return nil, []schema.Issue{{Message: err.Error(), Path: pathFromDecodeError(err)}}
	}

	if err := a.validate.StructCtx(ctx, target); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, issuesFromValidationErrors(verrs)
		}
		return nil, []schema.Issue{{Message: err.Error(), Path: []any{}}}
	}

	return target, nil
}

// decodeInto fills target from raw. Most callers hand this a
// map[string]any produced by the JSON/CBOR codec, so the simplest portable
// bridge is a JSON round-trip rather than reflection over arbitrary shapes
// (the same strategy the teacher's mini-rpc businessHandler uses to turn a
// decoded payload into a typed args struct via json.Unmarshal).
func decodeInto(raw any, target any) error {
	if raw == nil {
		return nil
	}
	var data []byte
	switch v := raw.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode input: %w", err)
		}
		data = b
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

// pathFromDecodeError recovers a field path from a decode failure so a type
// mismatch (e.g. {"name":123} against a string field) names the offending
// field instead of reporting an empty path. json.Unmarshal's
// *UnmarshalTypeError carries the dotted field name (built from each
// struct's json tag, same as the names pathFromNamespace produces from
// validator's Namespace) it was decoding into when the mismatch occurred;
// any other decode failure (malformed JSON, etc.) has no field to blame.
func pathFromDecodeError(err error) []any {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		parts := strings.Split(typeErr.Field, ".")
		path := make([]any, len(parts))
		for i, p := range parts {
			path[i] = p
		}
		return path
	}
	return []any{}
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// issuesFromValidationErrors converts validator field errors into
// schema.Issue, splitting each dotted Namespace into path segments and
// pulling bracketed indices out as separate int segments (e.g.
// "Input.tags[2]" → path ["tags", 2]; segment names are kept as the
// validator reports them, which New makes the json tag names).
func issuesFromValidationErrors(verrs validator.ValidationErrors) []schema.Issue {
	issues := make([]schema.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, schema.Issue{
			Message: fe.Error(),
			Path:    pathFromNamespace(fe.Namespace()),
		})
	}
	return issues
}

func pathFromNamespace(ns string) []any {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 {
		parts = parts[1:] // drop the root struct type name
	}
	path := make([]any, 0, len(parts))
	for _, part := range parts {
		matches := indexPattern.FindAllStringSubmatch(part, -1)
		name := indexPattern.ReplaceAllString(part, "")
		if name != "" {
			path = append(path, name)
		}
		for _, m := range matches {
			idx, _ := strconv.Atoi(m[1])
			path = append(path, idx)
		}
	}
	return path
}
