package report

import (
	"github.com/justapithecus/bowline/log"
	"github.com/justapithecus/bowline/metrics"
	"github.com/justapithecus/bowline/types"
)

// Reporter emits the run's record stream and its diagnostics. Records
// go to the sink; diagnostics go to the logger and never affect the
// stream or control flow.
type Reporter struct {
	write     *RecordWriter
	logger    *log.Logger
	collector *metrics.Collector
}

// NewReporter creates a Reporter over a record sink. A nil logger
// falls back to the no-op logger; a nil collector disables metering.
func NewReporter(write *RecordWriter, logger *log.Logger, collector *metrics.Collector) *Reporter {
	if logger == nil {
		logger = log.Nop()
	}
	return &Reporter{write: write, logger: logger, collector: collector}
}

// Ready writes the run header record.
func (r *Reporter) Ready(metadata RunMetadata) error {
	return r.write.Write(metadata.Serializable())
}

// Finished writes the terminal fail-fast record after logging the
// final case count and the run counters.
func (r *Reporter) Finished(count int, didFailFast bool) error {
	if count == 0 {
		r.logger.Error("No test cases ran.", nil)
	} else {
		snapshot := r.collector.Snapshot()
		r.logger.Info("Finished", map[string]any{
			"count":   count,
			"results": snapshot.ResultsReceived,
			"errored": snapshot.CasesErrored,
			"skipped": snapshot.CasesSkipped,
		})
	}
	return r.write.Write(Record{"did_fail_fast": didFailFast})
}

// UnsupportedDialect notes an implementation skipped because it does
// not speak the run's dialect.
func (r *Reporter) UnsupportedDialect(impl types.Implementation, dialect string) {
	r.logger.Warn("Unsupported dialect, skipping implementation.", map[string]any{
		"implementation": impl.Name,
		"dialect":        dialect,
	})
}

// UnacknowledgedDialect notes an implementation that did not confirm
// the implicit dialect.
func (r *Reporter) UnacknowledgedDialect(implementation, dialect string, response any) {
	r.logger.Warn(
		"Implicit dialect not acknowledged. Proceeding, but implementation may not have "+
			"configured itself to handle schemas without $schema.",
		map[string]any{
			"implementation": implementation,
			"dialect":        dialect,
			"response":       response,
		},
	)
}

// NoSuchImage notes a requested implementation that is not known.
func (r *Reporter) NoSuchImage(name string) {
	r.logger.Error("Not a known implementation.", map[string]any{"implementation": name})
}

// StartupFailed notes an implementation that failed to start.
func (r *Reporter) StartupFailed(name, stderr string) {
	r.collector.IncStartupFailure()
	fields := map[string]any{"implementation": name}
	if stderr != "" {
		fields["stderr"] = stderr
	}
	r.logger.Error("Startup failed!", fields)
}

// NoImplementations notes that nothing started successfully.
func (r *Reporter) NoImplementations() {
	r.logger.Error("No implementations started successfully!", nil)
}

// CaseStarted registers a case with the stream and returns a reporter
// scoped to it.
func (r *Reporter) CaseStarted(seq types.Seq, testCase types.TestCase) (*CaseReporter, error) {
	testCase.Dialect = ""
	if err := r.write.Write(Record{"seq": seq, "case": testCase}); err != nil {
		return nil, err
	}
	r.collector.IncCaseStarted()
	return &CaseReporter{
		write:     r.write,
		collector: r.collector,
		logger: r.logger.With(map[string]any{
			"seq":  seq,
			"case": testCase.Description,
		}),
	}, nil
}

// CaseReporter emits one case's result records.
type CaseReporter struct {
	write     *RecordWriter
	logger    *log.Logger
	collector *metrics.Collector
}

// GotResults writes an implementation's per-test results, logging any
// errored outcomes.
func (c *CaseReporter) GotResults(result *CaseResult) error {
	c.collector.IncResultsReceived()
	for _, res := range result.Results {
		if res.Errored {
			c.logger.Error("", mergeFields(res.Context, map[string]any{
				"implementation": result.Implementation,
			}))
		}
	}
	return c.write.Write(result.serializable())
}

// Errored writes a case-level error record. Uncaught errors are
// surfaced loudly.
func (c *CaseReporter) Errored(errored *CaseErrored) error {
	c.collector.IncCaseErrored()
	message := ""
	if !errored.Caught {
		c.collector.IncUncaughtError()
		message = "uncaught error"
	}
	c.logger.Error(message, mergeFields(errored.Context, map[string]any{
		"implementation": errored.Implementation,
	}))
	return c.write.Write(errored.serializable())
}

// Skipped writes a skip record.
func (c *CaseReporter) Skipped(skipped *CaseSkipped) error {
	c.collector.IncCaseSkipped()
	return c.write.Write(skipped.serializable())
}

// NoResponse notes an implementation that never answered the case.
func (c *CaseReporter) NoResponse(implementation string) {
	c.collector.IncNoResponse()
	c.logger.Error("No response", map[string]any{"implementation": implementation})
}

func mergeFields(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
