// Package metrics provides per-run counters for the report write side.
//
// The Collector accumulates counters while a run emits its record
// stream. It is a leaf package with no internal dependencies; the
// reporter increments it as records are written, and the final snapshot
// is logged when the run finishes.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the run counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Stream records
	CasesStarted    int64
	ResultsReceived int64
	CasesErrored    int64
	CasesSkipped    int64

	// Diagnostics
	NoResponses     int64
	UncaughtErrors  int64
	StartupFailures int64

	// Dimensions (informational, set at construction)
	Dialect string
	RunID   string
}

// Collector accumulates counters during a single run.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe, so an unmetered reporter can simply carry a nil collector.
type Collector struct {
	mu sync.Mutex

	casesStarted    int64
	resultsReceived int64
	casesErrored    int64
	casesSkipped    int64

	noResponses     int64
	uncaughtErrors  int64
	startupFailures int64

	dialect string
	runID   string
}

// NewCollector creates a Collector with dimension labels. runID is
// optional and may be empty.
func NewCollector(dialect, runID string) *Collector {
	return &Collector{dialect: dialect, runID: runID}
}

// IncCaseStarted records a case registered with the stream.
func (c *Collector) IncCaseStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.casesStarted++
	c.mu.Unlock()
}

// IncResultsReceived records an implementation's per-test results for
// one case.
func (c *Collector) IncResultsReceived() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.resultsReceived++
	c.mu.Unlock()
}

// IncCaseErrored records a case-level error from an implementation.
func (c *Collector) IncCaseErrored() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.casesErrored++
	c.mu.Unlock()
}

// IncCaseSkipped records a case an implementation declined to run.
func (c *Collector) IncCaseSkipped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.casesSkipped++
	c.mu.Unlock()
}

// IncNoResponse records an implementation that never answered a case.
func (c *Collector) IncNoResponse() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.noResponses++
	c.mu.Unlock()
}

// IncUncaughtError records a case-level error the implementation did
// not catch itself.
func (c *Collector) IncUncaughtError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.uncaughtErrors++
	c.mu.Unlock()
}

// IncStartupFailure records an implementation that failed to start.
func (c *Collector) IncStartupFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.startupFailures++
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all counters.
// The Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		CasesStarted:    c.casesStarted,
		ResultsReceived: c.resultsReceived,
		CasesErrored:    c.casesErrored,
		CasesSkipped:    c.casesSkipped,

		NoResponses:     c.noResponses,
		UncaughtErrors:  c.uncaughtErrors,
		StartupFailures: c.startupFailures,

		Dialect: c.dialect,
		RunID:   c.runID,
	}
}
