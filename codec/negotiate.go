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

import "strings"

// formatFromContentType classifies a Content-Type header value, stripping
// parameters (e.g. "; charset=utf-8") and comparing case-insensitively, per
// spec.md §4.7.
func formatFromContentType(contentType string) Format {
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.TrimSpace(strings.ToLower(base))
	if base == "application/cbor" {
		return FormatCBOR
	}
	return FormatJSON
}

// NegotiateResponseFormat picks the response wire format per spec.md §4.6:
// an Accept header mentioning "application/cbor" wins; otherwise a CBOR
// Content-Type wins; otherwise JSON, the safe default.
func NegotiateResponseFormat(accept, contentType string) Format {
	if strings.Contains(strings.ToLower(accept), "application/cbor") {
		return FormatCBOR
	}
	if formatFromContentType(contentType) == FormatCBOR {
		return FormatCBOR
	}
	return FormatJSON
}

// DecodeRequestBody decodes data according to contentType, returning the
// decoded body and the format it was decoded as.
//
//   - CBOR: decode errors propagate to the caller (the body is likely
//     truncated or corrupt binary; there's no sensible partial result).
//   - JSON (the default for any non-CBOR content type): decode errors
//     yield a nil body and a nil error — the caller (the HTTP adapter)
//     then reports a validation failure against the missing envelope
//     fields rather than a raw decode error, matching the spec's worked
//     examples.
func DecodeRequestBody(contentType string, data []byte) (body any, format Format, err error) {
	format = formatFromContentType(contentType)

	if len(data) == 0 {
		return nil, format, nil
	}

	if format == FormatCBOR {
		if decErr := cborCodec.Decode(data, &body); decErr != nil {
			return nil, format, decErr
		}
		return body, format, nil
	}

	if decErr := jsonCodec.Decode(data, &body); decErr != nil {
		return nil, format, nil
	}
	return body, format, nil
}
