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
	"encoding/json"
	"net/http"

	"github.com/duckrpc/duckrpc/codec"
	"github.com/duckrpc/duckrpc/rpcerr"
)

// requestEnvelope is the decoded `{type, input}` shape every call carries,
// per spec.md §6.
type requestEnvelope struct {
	Type     string
	RawInput any
}

// parsePostEnvelope decodes a POST body into a requestEnvelope. On decode
// failure, or when the decoded value isn't a record carrying a valid
// type field, it returns an RPC_BAD_REQUEST *rpcerr.Error. For a decode
// failure or a non-record body the message distinguishes CBOR from JSON,
// per spec.md §4.6 step 5; a missing or invalid type field gets one
// format-neutral message.
func parsePostEnvelope(contentType string, data []byte) (requestEnvelope, *rpcerr.Error) {
	body, format, err := codec.DecodeRequestBody(contentType, data)
	label := "JSON"
	if format == codec.FormatCBOR {
		label = "CBOR"
	}

	if err != nil {
		return requestEnvelope{}, rpcerr.New(rpcerr.CodeBadRequest, "invalid "+label+" body: "+err.Error())
	}

	record, ok := body.(map[string]any)
	if !ok {
		return requestEnvelope{}, rpcerr.New(rpcerr.CodeBadRequest, "invalid "+label+" body: expected an object with type and input fields")
	}

	reqType, _ := record["type"].(string)
	if reqType != "query" && reqType != "mutation" {
		return requestEnvelope{}, rpcerr.New(rpcerr.CodeBadRequest, "invalid or missing \"type\": must be \"query\" or \"mutation\"")
	}

	return requestEnvelope{Type: reqType, RawInput: record["input"]}, nil
}

// parseGetEnvelope builds a requestEnvelope from query parameters, per
// spec.md §4.6 step 5 (GET branch): `type` defaults to "query"; `input` is
// JSON-decoded if present, falling back to the raw string on parse
// failure, otherwise the remaining query parameters are merged into a flat
// object.
func parseGetEnvelope(r *http.Request) requestEnvelope {
	q := r.URL.Query()

	reqType := q.Get("type")
	if reqType == "" {
		reqType = "query"
	}

	if raw, ok := q["input"]; ok && len(raw) > 0 {
		var decoded any
		if err := json.Unmarshal([]byte(raw[len(raw)-1]), &decoded); err == nil {
			return requestEnvelope{Type: reqType, RawInput: decoded}
		}
		return requestEnvelope{Type: reqType, RawInput: raw[len(raw)-1]}
	}

	flat := make(map[string]any, len(q))
	for key, vals := range q {
		if key == "type" || len(vals) == 0 {
			continue
		}
		flat[key] = vals[len(vals)-1]
	}
	return requestEnvelope{Type: reqType, RawInput: flat}
}
