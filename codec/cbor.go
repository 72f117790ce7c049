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

package codec

import "github.com/fxamacker/cbor/v2"

// cborEncMode and cborDecMode are process-wide singletons built once at
// package init, per spec.md §4.7/§9: fxamacker/cbor caches each struct
// type's field tags and ordering internally the first time it encodes or
// decodes that type, so reusing one EncMode/DecMode across every request
// is what lets repeated envelope shapes benefit from that cache instead of
// re-deriving it per call. Core deterministic encoding options are used so
// output is stable across encodes of the same value, which keeps response
// bodies diffable in tests and logs.
var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	encMode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: failed to build CBOR encode mode: " + err.Error())
	}
	cborEncMode = encMode

	decMode, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: failed to build CBOR decode mode: " + err.Error())
	}
	cborDecMode = decMode
}

// cborCodec is the process-wide singleton for Format CBOR.
var cborCodec Codec = cborCodecT{}

// cborCodecT wraps the shared cborEncMode/cborDecMode pair. Each Encode
// call still allocates and returns a fresh []byte — only the mode's
// internal shape cache is shared, never an output buffer, so two in-flight
// responses can never corrupt each other's bytes.
type cborCodecT struct{}

func (cborCodecT) Encode(v any) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

func (cborCodecT) Decode(data []byte, v any) error {
	return cborDecMode.Unmarshal(data, v)
}

func (cborCodecT) Format() Format {
	return FormatCBOR
}
