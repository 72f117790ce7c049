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

package procedure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duckrpc/duckrpc/middleware"
	"github.com/duckrpc/duckrpc/rpcerr"
	"github.com/duckrpc/duckrpc/schema"
)

type helloInput struct {
	Name string
}

func echoSchema() schema.Schema {
	return schema.Func(func(ctx context.Context, raw any) (any, []schema.Issue) {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, []schema.Issue{{Message: "expected object", Path: []any{}}}
		}
		name, ok := m["name"].(string)
		if !ok {
			return nil, []schema.Issue{{Message: "must be a string", Path: []any{"name"}}}
		}
		return helloInput{Name: name}, nil
	})
}

func TestBuilder_Immutability(t *testing.T) {
	t.Parallel()

	base := New()
	withMW := base.Use(func(ctx context.Context, next middleware.Next) middleware.Result {
		return next(ctx)
	})

	assert.Empty(t, base.middlewares)
	assert.Len(t, withMW.middlewares, 1)
}

func TestProcedure_HappyQuery(t *testing.T) {
	t.Parallel()

	def := New().Input(echoSchema()).Query(func(ctx context.Context, input any) rpcerr.Envelope {
		in := input.(helloInput)
		return rpcerr.Ok(map[string]string{"greeting": "Hello " + in.Name}, rpcerr.CodeOK)
	})

	env := def.Call(context.Background(), map[string]any{"name": "World"})
	require.True(t, env.OK)
	assert.Equal(t, map[string]string{"greeting": "Hello World"}, env.Data)
}

func TestProcedure_InputValidationFailure(t *testing.T) {
	t.Parallel()

	def := New().Input(echoSchema()).Query(func(ctx context.Context, input any) rpcerr.Envelope {
		t.Fatal("resolver must not run when input validation fails")
		return rpcerr.Envelope{}
	})

	env := def.Call(context.Background(), map[string]any{"name": 123})
	require.False(t, env.OK)
	assert.Equal(t, rpcerr.CodeBadRequest, env.Code)
	assert.Equal(t, []any{"name"}, env.Error.Issues[0].Path)
}

func TestProcedure_ValidationOffBypassesBothSchemas(t *testing.T) {
	t.Parallel()

	resolverCalled := false
	def := New().
		Input(echoSchema()).
		Validation(ValidationOff).
		Query(func(ctx context.Context, input any) rpcerr.Envelope {
			resolverCalled = true
			// Input schema was bypassed, so input is the raw map, not helloInput.
			_, isHelloInput := input.(helloInput)
			assert.False(t, isHelloInput)
			return rpcerr.Ok(nil, rpcerr.CodeOK)
		})

	env := def.Call(context.Background(), map[string]any{"name": 123})
	require.True(t, env.OK)
	assert.True(t, resolverCalled)
}

type userKey struct{}

func TestProcedure_MiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	resolverCalled := false
	authMW := func(ctx context.Context, next middleware.Next) middleware.Result {
		if ctx.Value(userKey{}) == nil {
			return middleware.Err(rpcerr.New(rpcerr.CodeUnauthorized, "no user"))
		}
		return next(ctx)
	}

	b := New().Use(authMW)
	def := b.Query(func(ctx context.Context, input any) rpcerr.Envelope {
		resolverCalled = true
		return rpcerr.Ok(nil, rpcerr.CodeOK)
	})

	env := def.Call(context.Background(), nil)
	require.False(t, env.OK)
	assert.Equal(t, rpcerr.CodeUnauthorized, env.Code)
	assert.False(t, resolverCalled)

	ctxWithUser := context.WithValue(context.Background(), userKey{}, "alice")
	env = def.Call(ctxWithUser, nil)
	require.True(t, env.OK)
	assert.True(t, resolverCalled)
}

func TestProcedure_PanickingResolverMapsToInternalError(t *testing.T) {
	t.Parallel()

	def := New().Query(func(ctx context.Context, input any) rpcerr.Envelope {
		panic(errors.New("resolver exploded"))
	})

	env := def.Call(context.Background(), nil)
	require.False(t, env.OK)
	assert.Equal(t, rpcerr.CodeInternalServerError, env.Code)
	assert.Equal(t, "resolver exploded", env.Error.Message)
}

func TestProcedure_OutputValidationFailureIsServerError(t *testing.T) {
	t.Parallel()

	badOutput := schema.Func(func(ctx context.Context, raw any) (any, []schema.Issue) {
		return nil, []schema.Issue{{Message: "output shape invalid", Path: []any{}}}
	})

	def := New().Output(badOutput).Query(func(ctx context.Context, input any) rpcerr.Envelope {
		return rpcerr.Ok(map[string]string{"x": "y"}, rpcerr.CodeOK)
	})

	env := def.Call(context.Background(), nil)
	require.False(t, env.OK)
	assert.Equal(t, rpcerr.CodeInternalServerError, env.Code)
}

func TestProcedure_TypeTag(t *testing.T) {
	t.Parallel()

	q := New().Query(func(ctx context.Context, input any) rpcerr.Envelope { return rpcerr.Ok(nil, rpcerr.CodeOK) })
	m := New().Mutation(func(ctx context.Context, input any) rpcerr.Envelope { return rpcerr.Ok(nil, rpcerr.CodeOK) })

	assert.Equal(t, TypeQuery, q.Type)
	assert.Equal(t, TypeMutation, m.Type)
}
