package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/cli/config"
	"github.com/justapithecus/bowline/report"
)

const testDialect = "https://json-schema.org/draft/2020-12/schema"

func builtReport(t *testing.T) *report.Report {
	t.Helper()
	rep, err := report.FromRecords([]report.Record{
		{
			"dialect": testDialect,
			"implementations": map[string]any{
				"go-validator": map[string]any{
					"name":     "go-validator",
					"language": "go",
					"image":    "ghcr.io/example/go-validator",
					"dialects": []any{testDialect},
				},
			},
		},
		{
			"seq": float64(1),
			"case": map[string]any{
				"description": "const",
				"schema":      map[string]any{"const": 1},
				"tests": []any{
					map[string]any{"description": "match", "instance": float64(1), "valid": true},
					map[string]any{"description": "mismatch", "instance": float64(2), "valid": false},
				},
			},
		},
		{
			"seq":            float64(1),
			"implementation": "ghcr.io/example/go-validator",
			"results": []any{
				map[string]any{"valid": true},
				map[string]any{"valid": true},
			},
			"expected": []any{true, false},
		},
		{"did_fail_fast": false},
	})
	if err != nil {
		t.Fatalf("building report: %v", err)
	}
	return rep
}

func TestSummarize(t *testing.T) {
	resp := Summarize(builtReport(t))

	if resp.Dialect != testDialect {
		t.Errorf("dialect = %q", resp.Dialect)
	}
	if resp.DialectName != "Draft 2020-12" {
		t.Errorf("dialect_name = %q", resp.DialectName)
	}
	if resp.TotalTests != 2 {
		t.Errorf("total_tests = %d, want 2", resp.TotalTests)
	}
	if resp.DidFailFast {
		t.Error("did_fail_fast should be false")
	}
	if len(resp.Implementations) != 1 {
		t.Fatalf("implementations = %d, want 1", len(resp.Implementations))
	}
	row := resp.Implementations[0]
	if row.Implementation != "ghcr.io/example/go-validator" {
		t.Errorf("implementation = %q", row.Implementation)
	}
	// Second test reported valid but expected invalid.
	if row.Failed != 1 || row.Unsuccessful != 1 {
		t.Errorf("counts = %+v", row)
	}
}

func TestSummarize_SerializesCleanly(t *testing.T) {
	data, err := json.Marshal(Summarize(builtReport(t)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded SummaryResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TotalTests != 2 {
		t.Errorf("total_tests = %d", decoded.TotalTests)
	}
}

func runApp(t *testing.T, command *cli.Command, args ...string) error {
	t.Helper()
	app := &cli.App{
		Commands: []*cli.Command{command},
		// Without a handler, App.Run calls os.Exit on ExitCoder errors
		// before they can be returned to the test.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app.Run(append([]string{"bowline"}, args...))
}

func writeReportFile(t *testing.T, rep *report.Report) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	w := report.NewRecordWriter(f)
	for _, rec := range rep.Serializable() {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}
	return path
}

func TestSummaryCommand_ReadsReportFile(t *testing.T) {
	path := writeReportFile(t, builtReport(t))
	if err := runApp(t, SummaryCommand(), "summary", path); err != nil {
		t.Fatalf("summary: %v", err)
	}
}

func TestSummaryCommand_MissingFile(t *testing.T) {
	err := runApp(t, SummaryCommand(), "summary", filepath.Join(t.TempDir(), "nope.jsonl"))
	var coder cli.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("expected exit-coded error, got %v", err)
	}
	if coder.ExitCode() != exitBadReport {
		t.Errorf("exit code = %d, want %d", coder.ExitCode(), exitBadReport)
	}
}

func TestSummaryCommand_TooManyArgs(t *testing.T) {
	err := runApp(t, SummaryCommand(), "summary", "a.jsonl", "b.jsonl")
	var coder cli.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("expected exit-coded error, got %v", err)
	}
	if coder.ExitCode() != exitError {
		t.Errorf("exit code = %d, want %d", coder.ExitCode(), exitError)
	}
}

func TestBadgesCommand_WritesArtifacts(t *testing.T) {
	path := writeReportFile(t, builtReport(t))
	out := t.TempDir()

	if err := runApp(t, BadgesCommand(), "badges", "--out", out, path); err != nil {
		t.Fatalf("badges: %v", err)
	}

	artifact := filepath.Join(out, "go-go-validator", "compliance", "Draft_2020-12.json")
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("compliance badge missing: %v", err)
	}
}

func TestBadgesCommand_RequiresTarget(t *testing.T) {
	path := writeReportFile(t, builtReport(t))
	if err := runApp(t, BadgesCommand(), "badges", path); err == nil {
		t.Error("badges without a target directory should fail")
	}
}

func TestCacheCommand_RoundTrip(t *testing.T) {
	path := writeReportFile(t, builtReport(t))
	out := filepath.Join(t.TempDir(), "report.cache")

	if err := runApp(t, CacheCommand(), "cache", "--out", out, path); err != nil {
		t.Fatalf("cache: %v", err)
	}

	if err := runApp(t, SummaryCommand(), "summary", "--snapshot", out); err != nil {
		t.Fatalf("summary from snapshot: %v", err)
	}
}

func TestBuildAdapter(t *testing.T) {
	if a, err := buildAdapter(config.AdapterConfig{}); a != nil || err != nil {
		t.Errorf("empty type should yield no adapter, got %v, %v", a, err)
	}

	a, err := buildAdapter(config.AdapterConfig{
		Type:    "redis",
		URL:     "redis://localhost:6379",
		Timeout: config.Duration{Duration: time.Second},
	})
	if err != nil {
		t.Fatalf("redis adapter: %v", err)
	}
	_ = a.Close()

	a, err = buildAdapter(config.AdapterConfig{
		Type: "webhook",
		URL:  "https://example.com/hook",
	})
	if err != nil {
		t.Fatalf("webhook adapter: %v", err)
	}
	_ = a.Close()

	if _, err := buildAdapter(config.AdapterConfig{Type: "smoke-signal", URL: "x"}); err == nil {
		t.Error("unknown adapter type should fail")
	}
}

func TestVersionCommand(t *testing.T) {
	if err := runApp(t, VersionCommand("abc123"), "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
}
