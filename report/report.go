package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/justapithecus/bowline/types"
)

// Source yields decoded records in stream order. Next returns io.EOF
// when the stream is exhausted.
type Source interface {
	Next() (Record, error)
}

// Report is the immutable aggregate of one compliance run: the
// registered cases, the run metadata, every implementation's answers,
// and whether the run stopped early.
type Report struct {
	cases       map[types.Seq]types.TestCase
	metadata    RunMetadata
	summary     summary
	didFailFast bool
}

// FromInput folds a record source into a Report in a single forward
// pass, with no lookahead beyond the current record.
//
// The first record must be the header; an empty source fails with
// ErrEmptyReport. Every subsequent record is dispatched by shape in
// fixed priority order. A terminal fail-fast record stops consumption
// immediately: records after it are never read.
//
// Any assembly error is fatal; there is no partial-report recovery.
func FromInput(src Source) (*Report, error) {
	header, err := src.Next()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyReport
	}
	if err != nil {
		return nil, err
	}

	metadata, err := runMetadataFromRecord(header)
	if err != nil {
		return nil, err
	}

	cases := make(map[types.Seq]types.TestCase)
	sum := newSummary()
	didFailFast := false

loop:
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch classify(rec) {
		case kindCase:
			seq, ok := toSeq(rec["seq"])
			if !ok {
				return nil, &MalformedRecordError{Reason: "case record seq is not a number"}
			}
			// Seq reuse is fatal before the payload is even looked at.
			if _, dup := cases[seq]; dup {
				return nil, &DuplicateCaseError{Seq: seq}
			}
			testCase, err := decodeCase(rec, seq, metadata.Dialect)
			if err != nil {
				return nil, err
			}
			cases[seq] = testCase

		case kindErrored:
			var errored CaseErrored
			if err := decodeResult(rec, &errored); err != nil {
				return nil, err
			}
			if err := sum.insert(&errored); err != nil {
				return nil, err
			}

		case kindSkipped:
			var skipped CaseSkipped
			if err := decodeResult(rec, &skipped); err != nil {
				return nil, err
			}
			if err := sum.insert(&skipped); err != nil {
				return nil, err
			}

		case kindFailFast:
			flag, ok := rec["did_fail_fast"].(bool)
			if !ok {
				return nil, &MalformedRecordError{Reason: "did_fail_fast is not a boolean"}
			}
			didFailFast = flag
			// Terminal record: stop consuming. Anything after this
			// line is truncated, matching the stream contract.
			break loop

		default:
			var result CaseResult
			if err := decodeCaseResult(rec, &result); err != nil {
				return nil, err
			}
			if err := sum.insert(&result); err != nil {
				return nil, err
			}
		}
	}

	return &Report{
		cases:       cases,
		metadata:    metadata,
		summary:     sum,
		didFailFast: didFailFast,
	}, nil
}

// FromRecords assembles a Report from an in-memory record slice.
func FromRecords(records []Record) (*Report, error) {
	return FromInput(&sliceSource{records: records})
}

// FromSerialized assembles a Report from line-delimited JSON. A line
// that fails to decode is fatal, not skipped.
func FromSerialized(r io.Reader) (*Report, error) {
	return FromInput(newLineSource(r))
}

// Empty is 'the' empty report for a dialect with no applicable cases:
// a defined sentinel, not an error state.
func Empty(dialect string) *Report {
	return &Report{
		cases:    make(map[types.Seq]types.TestCase),
		metadata: RunMetadata{Dialect: dialect, Implementations: map[string]types.Implementation{}},
		summary:  newSummary(),
	}
}

// decodeCase extracts the case body from a case record, injecting the
// run dialect into the payload before decoding.
func decodeCase(rec Record, seq types.Seq, dialect string) (types.TestCase, error) {
	body, ok := rec["case"].(map[string]any)
	if !ok {
		return types.TestCase{}, &MalformedRecordError{Reason: "case record body is not an object"}
	}

	injected := make(Record, len(body)+1)
	for k, v := range body {
		injected[k] = v
	}
	injected["dialect"] = dialect

	var testCase types.TestCase
	if err := decodeRecord(injected, &testCase); err != nil {
		return types.TestCase{}, err
	}
	if testCase.Tests == nil {
		return types.TestCase{}, &MalformedRecordError{Reason: fmt.Sprintf("case %d has no tests", seq)}
	}
	return testCase, nil
}

// decodeResult decodes an errored or skipped record, enforcing the
// fields every result-bearing record must carry.
func decodeResult(rec Record, v AnyCaseResult) error {
	if err := requireResultFields(rec); err != nil {
		return err
	}
	return decodeRecord(rec, v)
}

// decodeCaseResult decodes a plain result record. Reaching here means
// the record matched no other shape, so a missing results array marks
// it unrecognizable rather than merely incomplete.
func decodeCaseResult(rec Record, result *CaseResult) error {
	if err := requireResultFields(rec); err != nil {
		return err
	}
	if _, ok := rec["results"]; !ok {
		return &MalformedRecordError{Reason: "record matches no recognized shape"}
	}
	if err := decodeRecord(rec, result); err != nil {
		return err
	}
	for i, res := range result.Results {
		if res.Valid == nil && !res.Skipped && !res.Errored {
			return &MalformedRecordError{
				Reason: fmt.Sprintf("result %d for seq %d has no verdict", i, result.Seq),
			}
		}
	}
	return nil
}

func requireResultFields(rec Record) error {
	if toString(rec["implementation"]) == "" {
		return &MalformedRecordError{Reason: "result record missing implementation"}
	}
	if _, ok := toSeq(rec["seq"]); !ok {
		return &MalformedRecordError{Reason: "result record missing seq"}
	}
	return nil
}

// Metadata returns the run metadata.
func (r *Report) Metadata() RunMetadata { return r.metadata }

// Dialect returns the dialect URI the run exercised.
func (r *Report) Dialect() string { return r.metadata.Dialect }

// DidFailFast reports whether the run stopped at the first failure.
func (r *Report) DidFailFast() bool { return r.didFailFast }

// IsEmpty reports whether no cases were registered.
func (r *Report) IsEmpty() bool { return len(r.cases) == 0 }

// TotalTests sums the number of tests across all registered cases,
// independent of how many implementations answered.
func (r *Report) TotalTests() int {
	total := 0
	for _, c := range r.cases {
		total += len(c.Tests)
	}
	return total
}

// Implementations returns the implementation image identifiers from
// the run metadata, ordered by implementation name.
func (r *Report) Implementations() []string {
	return r.metadata.Images()
}

// Counts returns the rolling count for one implementation image id.
func (r *Report) Counts(image string) (Count, bool) {
	return r.summary.counts(image)
}

// CountsByImplementation returns a copy of every implementation's
// counts, keyed by image id.
func (r *Report) CountsByImplementation() map[string]Count {
	counts := make(map[string]Count, len(r.summary.byImplementation))
	for impl, c := range r.summary.byImplementation {
		counts[impl] = c
	}
	return counts
}

// CaseView joins one registered case with its per-test result views.
type CaseView struct {
	Seq   types.Seq
	Case  types.TestCase
	Tests []TestView
}

// TestView maps implementation image ids to their outcome for one
// test. Implementations with no result for the case are omitted.
type TestView struct {
	Test             types.Test
	ByImplementation map[string]types.TestResult
}

// CasesWithResults yields each case in ascending seq order, joined
// with every answering implementation's per-test outcomes. The
// sequence is a pure recomputation over immutable state and may be
// ranged over any number of times.
func (r *Report) CasesWithResults() iter.Seq[CaseView] {
	return func(yield func(CaseView) bool) {
		images := r.Implementations()
		for _, seq := range sortedKeys(r.cases) {
			testCase := r.cases[seq]
			caseResults := r.summary.forCase(seq)

			view := CaseView{
				Seq:   seq,
				Case:  testCase,
				Tests: make([]TestView, 0, len(testCase.Tests)),
			}
			for i, test := range testCase.Tests {
				byImpl := make(map[string]types.TestResult)
				for _, image := range images {
					if result, ok := caseResults[image]; ok {
						byImpl[image] = result.testResult(i)
					}
				}
				view.Tests = append(view.Tests, TestView{Test: test, ByImplementation: byImpl})
			}
			if !yield(view) {
				return
			}
		}
	}
}

// Serializable re-renders the aggregate as a record stream that
// rebuilds an equal Report via FromRecords: header first, then each
// case in ascending seq order followed by its results, then the
// terminal fail-fast record.
func (r *Report) Serializable() []Record {
	records := []Record{r.metadata.Serializable()}
	for _, seq := range sortedKeys(r.cases) {
		testCase := r.cases[seq]
		testCase.Dialect = ""
		records = append(records, Record{"seq": seq, "case": toRecord(testCase)})
	}
	for _, seq := range sortedKeys(r.summary.results) {
		byImpl := r.summary.results[seq]
		for _, impl := range sortedKeys(byImpl) {
			records = append(records, byImpl[impl].serializable())
		}
	}
	return append(records, Record{"did_fail_fast": r.didFailFast})
}

// sliceSource yields records from memory.
type sliceSource struct {
	records []Record
	next    int
}

func (s *sliceSource) Next() (Record, error) {
	if s.next >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.next]
	s.next++
	return rec, nil
}

// maxLineSize bounds one serialized record (16 MiB); schemas can be
// large but a bigger line indicates a corrupt stream.
const maxLineSize = 16 * 1024 * 1024

// lineSource decodes line-delimited JSON into records.
type lineSource struct {
	scanner *bufio.Scanner
	line    int
}

func newLineSource(r io.Reader) *lineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &lineSource{scanner: scanner}
}

func (s *lineSource) Next() (Record, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading report stream: %w", err)
		}
		return nil, io.EOF
	}
	s.line++

	var rec Record
	if err := json.Unmarshal(s.scanner.Bytes(), &rec); err != nil {
		return nil, &MalformedRecordError{Line: s.line, Reason: "undecodable line", Err: err}
	}
	return rec, nil
}
