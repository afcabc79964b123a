// Package types defines the core data model shared across bowline:
// test cases, per-test results, and implementation descriptors.
package types

import "encoding/json"

// Seq identifies one test case within a run. Values are totally ordered
// and unique across the whole record stream.
type Seq int64

// Test is one (instance, expected verdict) pair inside a case.
// Valid is nil when the expected verdict is unknown.
type Test struct {
	Description string          `json:"description,omitempty"`
	Instance    json.RawMessage `json:"instance"`
	Comment     string          `json:"comment,omitempty"`
	Valid       *bool           `json:"valid,omitempty"`
}

// TestCase is a schema document with an ordered sequence of tests.
// Dialect is injected from run metadata before decoding; case payloads
// on the wire do not carry it.
type TestCase struct {
	Description string          `json:"description"`
	Comment     string          `json:"comment,omitempty"`
	Schema      json.RawMessage `json:"schema"`
	Registry    json.RawMessage `json:"registry,omitempty"`
	Dialect     string          `json:"dialect,omitempty"`
	Tests       []Test          `json:"tests"`
}

// TestResult is one per-test outcome reported by an implementation.
// Exactly one of the three states applies:
//   - validation verdict: Valid is set, Skipped and Errored are false
//   - skip: Skipped is true, Message optionally explains why
//   - error: Errored is true, Context optionally carries diagnostics
type TestResult struct {
	Valid   *bool          `json:"valid,omitempty"`
	Skipped bool           `json:"skipped,omitempty"`
	Errored bool           `json:"errored,omitempty"`
	Message string         `json:"message,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}
