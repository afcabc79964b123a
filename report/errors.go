// Package report implements the streaming report builder: a single
// forward pass over a line-delimited record stream that reconstructs
// an immutable, queryable aggregate of one compliance run.
package report

import (
	"errors"
	"fmt"

	"github.com/justapithecus/bowline/types"
)

// Sentinel errors for report assembly failures.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrEmptyReport indicates a stream with no header record.
	ErrEmptyReport = errors.New("empty report")

	// ErrDuplicateCase indicates a case record reusing a seq.
	ErrDuplicateCase = errors.New("duplicate case")

	// ErrDuplicateResult indicates a second result for the same
	// (seq, implementation) pair.
	ErrDuplicateResult = errors.New("duplicate result")

	// ErrMalformedRecord indicates a record matching none of the
	// recognized shapes, or missing fields required for decoding.
	ErrMalformedRecord = errors.New("malformed record")
)

// DuplicateCaseError reports a seq reused by a second case record.
type DuplicateCaseError struct {
	Seq types.Seq
}

func (e *DuplicateCaseError) Error() string {
	return fmt.Sprintf("duplicate case: seq %d already registered", e.Seq)
}

// Is reports whether the error matches ErrDuplicateCase.
func (e *DuplicateCaseError) Is(target error) bool {
	return target == ErrDuplicateCase
}

// DuplicateResultError reports a (seq, implementation) pair that
// already holds a result. Insertion never silently overwrites.
type DuplicateResultError struct {
	Seq            types.Seq
	Implementation string
}

func (e *DuplicateResultError) Error() string {
	return fmt.Sprintf("duplicate result for seq %d from %q", e.Seq, e.Implementation)
}

// Is reports whether the error matches ErrDuplicateResult.
func (e *DuplicateResultError) Is(target error) bool {
	return target == ErrDuplicateResult
}

// MalformedRecordError reports an undecodable or unrecognizable record.
// Line is 1-based within the serialized stream, or 0 when the record
// did not come from a line source.
type MalformedRecordError struct {
	Line   int
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := "malformed record"
	if e.Line > 0 {
		msg = fmt.Sprintf("malformed record at line %d", e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
