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

package duckhttp

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostEnvelope_MissingType(t *testing.T) {
	t.Parallel()

	_, err := parsePostEnvelope("application/json", []byte(`{"input":{}}`))
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "type")
}

func TestParsePostEnvelope_InvalidJSONNamesJSON(t *testing.T) {
	t.Parallel()

	_, err := parsePostEnvelope("application/json", []byte(`not json`))
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "JSON")
}

func TestParsePostEnvelope_InvalidCBORNamesCBOR(t *testing.T) {
	t.Parallel()

	_, err := parsePostEnvelope("application/cbor", []byte{0xFF, 0xFF, 0xFF})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "CBOR")
}

func TestParsePostEnvelope_NonObjectBody(t *testing.T) {
	t.Parallel()

	_, err := parsePostEnvelope("application/json", []byte(`[1,2,3]`))
	require.NotNil(t, err)
}

func TestParseGetEnvelope_DefaultsToQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/rpc/hello.greet?name=Ada", nil)
	env := parseGetEnvelope(r)
	assert.Equal(t, "query", env.Type)
	m, ok := env.RawInput.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", m["name"])
}

func TestParseGetEnvelope_ExplicitInputJSON(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", `/rpc/hello.greet?type=mutation&input={"name":"Ada"}`, nil)
	env := parseGetEnvelope(r)
	assert.Equal(t, "mutation", env.Type)
	m, ok := env.RawInput.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", m["name"])
}

func TestParseGetEnvelope_InputFallsBackToRawString(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/rpc/hello.greet?input=not-json", nil)
	env := parseGetEnvelope(r)
	assert.Equal(t, "not-json", env.RawInput)
}

func TestSplitProcedurePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"hello", "greet"}, splitProcedurePath("/rpc/hello.greet", "/rpc"))
	assert.Nil(t, splitProcedurePath("/rpc", "/rpc"))
	assert.Nil(t, splitProcedurePath("/rpc/", "/rpc"))
}

func TestIsBodyTooLarge(t *testing.T) {
	t.Parallel()

	assert.True(t, isBodyTooLarge(&http.MaxBytesError{Limit: 8}))
	assert.False(t, isBodyTooLarge(errors.New("some other read failure")))
}
