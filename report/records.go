package report

import (
	"encoding/json"
	"fmt"

	"github.com/justapithecus/bowline/types"
)

// Record is one decoded line of a report stream.
type Record = map[string]any

// recordKind classifies a record into one of the five stream shapes.
type recordKind int

const (
	kindCase recordKind = iota
	kindErrored
	kindSkipped
	kindFailFast
	kindResult
)

// classify determines the record shape. Shapes may overlap on
// adversarial input, so the priority order is fixed: case records win
// over errored, errored over skipped, skipped over the terminal
// fail-fast marker, and anything else is treated as a plain result.
func classify(rec Record) recordKind {
	if _, hasSeq := rec["seq"]; hasSeq {
		if _, hasCase := rec["case"]; hasCase {
			return kindCase
		}
	}
	if _, ok := rec["caught"]; ok {
		return kindErrored
	}
	if skipped, ok := rec["skipped"].(bool); ok && skipped {
		return kindSkipped
	}
	if _, ok := rec["did_fail_fast"]; ok {
		return kindFailFast
	}
	return kindResult
}

// AnyCaseResult is one implementation's answer for a case: a full
// per-test result set, a case-level error, or a skip.
//
// The interface is sealed: only the three variants in this package
// implement it.
type AnyCaseResult interface {
	// CaseSeq returns the seq of the case this result answers.
	CaseSeq() types.Seq
	// ImplementationID returns the id of the answering implementation.
	ImplementationID() string

	beCounted(Count) Count
	testResult(i int) types.TestResult
	serializable() Record
}

// CaseResult holds ordered per-test outcomes from one implementation.
// Expected carries the verdicts the harness expected, aligned with
// Results; a nil entry means the expectation is unknown.
type CaseResult struct {
	Implementation string             `json:"implementation"`
	Seq            types.Seq          `json:"seq"`
	Results        []types.TestResult `json:"results"`
	Expected       []*bool            `json:"expected"`
}

// CaseSeq returns the seq of the case this result answers.
func (c *CaseResult) CaseSeq() types.Seq { return c.Seq }

// ImplementationID returns the id of the answering implementation.
func (c *CaseResult) ImplementationID() string { return c.Implementation }

// beCounted folds the per-test outcomes into a Count. Each outcome
// increments exactly one of failed/errored/skipped; passing outcomes
// increment nothing.
func (c *CaseResult) beCounted(count Count) Count {
	for i, res := range c.Results {
		switch {
		case res.Errored:
			count.Errored++
		case res.Skipped:
			count.Skipped++
		case c.failed(i, res):
			count.Failed++
		}
	}
	return count
}

// failed reports whether the i-th verdict contradicts its expectation.
// Unknown expectations never count as failures.
func (c *CaseResult) failed(i int, res types.TestResult) bool {
	if res.Valid == nil || i >= len(c.Expected) || c.Expected[i] == nil {
		return false
	}
	return *res.Valid != *c.Expected[i]
}

func (c *CaseResult) testResult(i int) types.TestResult {
	if i >= len(c.Results) {
		return types.TestResult{Errored: true, Message: "no result"}
	}
	return c.Results[i]
}

func (c *CaseResult) serializable() Record {
	return Record{
		"implementation": c.Implementation,
		"seq":            c.Seq,
		"results":        c.Results,
		"expected":       c.Expected,
	}
}

// CaseErrored records a case-level failure: the implementation
// produced no per-test detail at all. Caught distinguishes harness
// trapped errors from uncaught crashes.
type CaseErrored struct {
	Implementation string         `json:"implementation"`
	Seq            types.Seq      `json:"seq"`
	Context        map[string]any `json:"context"`
	Caught         bool           `json:"caught"`
}

// CaseSeq returns the seq of the case this error belongs to.
func (c *CaseErrored) CaseSeq() types.Seq { return c.Seq }

// ImplementationID returns the id of the erroring implementation.
func (c *CaseErrored) ImplementationID() string { return c.Implementation }

func (c *CaseErrored) beCounted(count Count) Count {
	count.Errored++
	return count
}

func (c *CaseErrored) testResult(int) types.TestResult {
	return types.TestResult{Errored: true, Context: c.Context}
}

func (c *CaseErrored) serializable() Record {
	return Record{
		"implementation": c.Implementation,
		"seq":            c.Seq,
		"context":        c.Context,
		"caught":         c.Caught,
	}
}

// CaseSkipped records an implementation declining a whole case.
type CaseSkipped struct {
	Implementation string    `json:"implementation"`
	Seq            types.Seq `json:"seq"`
	Message        string    `json:"message,omitempty"`
	IssueURL       string    `json:"issue_url,omitempty"`
}

// CaseSeq returns the seq of the case this skip belongs to.
func (c *CaseSkipped) CaseSeq() types.Seq { return c.Seq }

// ImplementationID returns the id of the skipping implementation.
func (c *CaseSkipped) ImplementationID() string { return c.Implementation }

func (c *CaseSkipped) beCounted(count Count) Count {
	count.Skipped++
	return count
}

func (c *CaseSkipped) testResult(int) types.TestResult {
	return types.TestResult{Skipped: true, Message: c.Message}
}

func (c *CaseSkipped) serializable() Record {
	rec := Record{
		"implementation": c.Implementation,
		"seq":            c.Seq,
		"skipped":        true,
	}
	if c.Message != "" {
		rec["message"] = c.Message
	}
	if c.IssueURL != "" {
		rec["issue_url"] = c.IssueURL
	}
	return rec
}

// decodeRecord converts a decoded record into a typed shape by JSON
// round-trip. Numeric values survive both float64 (JSON) and integer
// (msgpack snapshot) representations.
func decodeRecord(rec Record, v any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &MalformedRecordError{Reason: "unencodable record", Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &MalformedRecordError{Reason: fmt.Sprintf("cannot decode %T", v), Err: err}
	}
	return nil
}

// toRecord re-renders a known-marshalable value as a generic record,
// matching the wire shape the fold expects.
func toRecord(v any) Record {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}
	}
	return rec
}

// toSeq extracts a seq from a decoded record value. JSON decoding
// yields float64; the msgpack snapshot path yields sized integers.
func toSeq(v any) (types.Seq, bool) {
	switch n := v.(type) {
	case float64:
		return types.Seq(n), true
	case int:
		return types.Seq(n), true
	case int8:
		return types.Seq(n), true
	case int16:
		return types.Seq(n), true
	case int32:
		return types.Seq(n), true
	case int64:
		return types.Seq(n), true
	case uint8:
		return types.Seq(n), true
	case uint16:
		return types.Seq(n), true
	case uint32:
		return types.Seq(n), true
	case uint64:
		return types.Seq(n), true
	case types.Seq:
		return n, true
	default:
		return 0, false
	}
}

// toString converts a record value to string, empty for nil/non-string.
func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
