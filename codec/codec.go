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

// Package codec implements the two wire formats from spec.md §4.7: JSON
// (encoding/json, always the safe fallback) and CBOR
// (github.com/fxamacker/cbor/v2). Both are exposed through the same small
// Codec interface — the Strategy Pattern the teacher's mini-rpc codec
// package uses for its JSON/binary pair — so the HTTP adapter never needs
// a format-specific branch once it has picked a Codec via Get.
package codec

// Format identifies a wire serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ContentType returns the canonical Content-Type header value for f.
func (f Format) ContentType() string {
	if f == FormatCBOR {
		return "application/cbor"
	}
	return "application/json; charset=utf-8"
}

// Codec serializes and deserializes values for one wire format.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Format() Format
}

// Get returns the process-wide Codec for format. JSON and CBOR codecs are
// singletons (see json.go, cbor.go): the CBOR codec in particular carries
// shared, internally-synchronized shape-caching state across calls, so it
// must never be constructed per request.
func Get(format Format) Codec {
	if format == FormatCBOR {
		return cborCodec
	}
	return jsonCodec
}
