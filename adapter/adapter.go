// Package adapter defines the notification boundary for finished
// reports.
//
// Adapters publish report completion events to downstream systems
// (dashboards, CI gates). Publishing is optional and never affects
// report assembly.
package adapter

import (
	"context"
	"time"

	"github.com/justapithecus/bowline/report"
	"github.com/justapithecus/bowline/types"
)

// EventTypeReportCompleted is the event_type of every event this
// boundary publishes.
const EventTypeReportCompleted = "report_completed"

// ReportCompletedEvent is the payload published when a report has been
// fully assembled.
type ReportCompletedEvent struct {
	Version        string                  `json:"version"`
	EventType      string                  `json:"event_type"` // always "report_completed"
	Dialect        string                  `json:"dialect"`
	TotalTests     int                     `json:"total_tests"`
	DidFailFast    bool                    `json:"did_fail_fast"`
	Timestamp      string                  `json:"timestamp"` // ISO 8601
	Counts         map[string]report.Count `json:"counts"`
	Implementations []string               `json:"implementations"`
}

// NewReportCompletedEvent derives the event payload from a finished
// report.
func NewReportCompletedEvent(rep *report.Report) *ReportCompletedEvent {
	return &ReportCompletedEvent{
		Version:         types.Version,
		EventType:       EventTypeReportCompleted,
		Dialect:         rep.Dialect(),
		TotalTests:      rep.TotalTests(),
		DidFailFast:     rep.DidFailFast(),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Counts:          rep.CountsByImplementation(),
		Implementations: rep.Implementations(),
	}
}

// Adapter publishes report completion events to a downstream system.
type Adapter interface {
	// Publish sends a report completion event downstream.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ReportCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
