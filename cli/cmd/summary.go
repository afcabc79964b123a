package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/bowline/report"
)

// ImplementationSummary is one row of the summary output.
type ImplementationSummary struct {
	Implementation string `json:"implementation"`
	Failed         int    `json:"failed"`
	Errored        int    `json:"errored"`
	Skipped        int    `json:"skipped"`
	Unsuccessful   int    `json:"unsuccessful"`
}

// SummaryResponse is the JSON payload of the summary command.
type SummaryResponse struct {
	Dialect         string                  `json:"dialect"`
	DialectName     string                  `json:"dialect_name"`
	TotalTests      int                     `json:"total_tests"`
	DidFailFast     bool                    `json:"did_fail_fast"`
	Implementations []ImplementationSummary `json:"implementations"`
}

// SummaryCommand returns the summary command. Summary is read-only: it
// folds a report and prints per-implementation counts.
func SummaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Show per-implementation result counts for a report",
		ArgsUsage: "[report.jsonl]",
		Flags:     ReportFlags(),
		Action:    summaryAction,
	}
}

func summaryAction(c *cli.Context) error {
	path, err := reportArg(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	rep, err := loadReport(c, path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read report: %v", err), exitBadReport)
	}

	resp := Summarize(rep)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Summarize derives the summary payload from a folded report.
func Summarize(rep *report.Report) SummaryResponse {
	resp := SummaryResponse{
		Dialect:     rep.Dialect(),
		DialectName: rep.Metadata().DialectShortname(),
		TotalTests:  rep.TotalTests(),
		DidFailFast: rep.DidFailFast(),
	}
	for _, image := range rep.Implementations() {
		count, _ := rep.Counts(image)
		resp.Implementations = append(resp.Implementations, ImplementationSummary{
			Implementation: image,
			Failed:         count.Failed,
			Errored:        count.Errored,
			Skipped:        count.Skipped,
			Unsuccessful:   count.Unsuccessful(),
		})
	}
	return resp
}
