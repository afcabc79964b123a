package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/justapithecus/bowline/metrics"
	"github.com/justapithecus/bowline/types"
)

// The reporter's output must rebuild an equal aggregate through the
// same fold that consumes persisted streams.
func TestReporter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(NewRecordWriter(&buf), nil, nil)

	meta := FromImplementations(testDialect, []types.Implementation{
		{Name: "validator", Language: "go", Image: "ghcr.io/example/go-validator", Dialects: []string{testDialect}},
	})
	if err := reporter.Ready(meta); err != nil {
		t.Fatalf("ready: %v", err)
	}

	valid := true
	testCase := types.TestCase{
		Description: "integer type",
		Schema:      []byte(`{"type":"integer"}`),
		Tests: []types.Test{
			{Description: "an int", Instance: []byte(`12`), Valid: &valid},
			{Description: "a string", Instance: []byte(`"x"`), Valid: &valid},
		},
	}
	caseReporter, err := reporter.CaseStarted(1, testCase)
	if err != nil {
		t.Fatalf("case started: %v", err)
	}

	invalid := false
	err = caseReporter.GotResults(&CaseResult{
		Implementation: "ghcr.io/example/go-validator",
		Seq:            1,
		Results: []types.TestResult{
			{Valid: &valid},
			{Valid: &invalid},
		},
		Expected: []*bool{&valid, &valid},
	})
	if err != nil {
		t.Fatalf("got results: %v", err)
	}

	if err := reporter.Finished(1, false); err != nil {
		t.Fatalf("finished: %v", err)
	}

	rep, err := FromSerialized(&buf)
	if err != nil {
		t.Fatalf("from serialized: %v", err)
	}
	if rep.TotalTests() != 2 {
		t.Errorf("total tests = %d, want 2", rep.TotalTests())
	}
	count, ok := rep.Counts("ghcr.io/example/go-validator")
	if !ok {
		t.Fatal("missing counts")
	}
	if (count != Count{Failed: 1}) {
		t.Errorf("count = %+v, want one failure", count)
	}
	if rep.DidFailFast() {
		t.Error("did_fail_fast should be false")
	}
}

func TestReporter_SkippedAndErrored(t *testing.T) {
	var buf bytes.Buffer
	collector := metrics.NewCollector(testDialect, "run-7")
	reporter := NewReporter(NewRecordWriter(&buf), nil, collector)

	meta := FromImplementations(testDialect, []types.Implementation{
		{Name: "a", Language: "go", Dialects: []string{testDialect}},
		{Name: "b", Language: "rust", Dialects: []string{testDialect}},
	})
	if err := reporter.Ready(meta); err != nil {
		t.Fatalf("ready: %v", err)
	}

	valid := true
	caseReporter, err := reporter.CaseStarted(7, types.TestCase{
		Description: "case",
		Schema:      []byte(`true`),
		Tests:       []types.Test{{Instance: []byte(`1`), Valid: &valid}},
	})
	if err != nil {
		t.Fatalf("case started: %v", err)
	}

	if err := caseReporter.Skipped(&CaseSkipped{Implementation: "a", Seq: 7, Message: "unsupported"}); err != nil {
		t.Fatalf("skipped: %v", err)
	}
	if err := caseReporter.Errored(&CaseErrored{
		Implementation: "b",
		Seq:            7,
		Context:        map[string]any{"stderr": "panic"},
		Caught:         false,
	}); err != nil {
		t.Fatalf("errored: %v", err)
	}
	if err := reporter.Finished(1, true); err != nil {
		t.Fatalf("finished: %v", err)
	}

	rep, err := FromSerialized(&buf)
	if err != nil {
		t.Fatalf("from serialized: %v", err)
	}
	if !rep.DidFailFast() {
		t.Error("did_fail_fast should be true")
	}
	if c, _ := rep.Counts("a"); (c != Count{Skipped: 1}) {
		t.Errorf("counts for a = %+v", c)
	}
	if c, _ := rep.Counts("b"); (c != Count{Errored: 1}) {
		t.Errorf("counts for b = %+v", c)
	}

	snapshot := collector.Snapshot()
	if snapshot.CasesStarted != 1 || snapshot.CasesSkipped != 1 || snapshot.CasesErrored != 1 {
		t.Errorf("snapshot = %+v", snapshot)
	}
	if snapshot.UncaughtErrors != 1 {
		t.Errorf("uncaught errors = %d, want 1", snapshot.UncaughtErrors)
	}
}

func TestRecordWriter_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewRecordWriter(&buf)
	if err := w.Write(Record{"a": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Write(Record{"b": 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			t.Errorf("line is not a JSON object: %q", line)
		}
	}
}
