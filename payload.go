// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: Apache-2.0

package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind tells whether a payload carries decoded data or raw text
type PayloadKind int

const (
	// StructuredPayload holds a value decoded from JSON or YAML text
	StructuredPayload PayloadKind = iota

	// OpaquePayload holds text that is sent without being parsed
	OpaquePayload
)

func (k PayloadKind) String() string {
	switch k {
	case StructuredPayload:
		return "structured"
	case OpaquePayload:
		return "opaque"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Payload is the resolved event data. Its kind is fixed on construction.
type Payload struct {
	kind  PayloadKind
	value interface{}
	text  string
}

// Structured wraps a decoded value
func Structured(value interface{}) Payload {
	return Payload{kind: StructuredPayload, value: value}
}

// Opaque wraps raw text
func Opaque(text string) Payload {
	return Payload{kind: OpaquePayload, text: text}
}

func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Value returns the decoded value for structured payloads and the text for
// opaque ones.
func (p Payload) Value() interface{} {
	if p.kind == OpaquePayload {
		return p.text
	}

	return p.value
}

// Body is what goes on the wire: compact JSON for structured payloads, the
// raw text for opaque ones.
func (p Payload) Body() ([]byte, error) {
	if p.kind == OpaquePayload {
		return []byte(p.text), nil
	}

	return compactJSON(p.value)
}

// DisplayJSON renders the payload as compact JSON for the status line. Opaque
// payloads become a quoted string literal.
func (p Payload) DisplayJSON() string {
	b, err := compactJSON(p.Value())
	if err != nil {
		return fmt.Sprintf("%v", p.Value())
	}

	return string(b)
}

func compactJSON(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
