// Package badge derives compliance badges from a finished report and
// writes them as small JSON artifacts per implementation.
package badge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/justapithecus/bowline/report"
	"github.com/justapithecus/bowline/types"
)

// ErrInvalidInput indicates a report that cannot yield badge
// percentages: zero total tests for a dialect an implementation
// claims to support.
var ErrInvalidInput = errors.New("invalid badge input")

// supportedVersionsColor is the fixed color of the versions badge.
const supportedVersionsColor = "lightgreen"

// Badge is the shields.io endpoint payload.
type Badge struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// Compliance derives the per-dialect compliance badge for one
// implementation's counts. totalTests must be positive.
func Compliance(dialect string, totalTests int, count report.Count) (Badge, error) {
	if totalTests <= 0 {
		return Badge{}, fmt.Errorf("%w: no tests for dialect %s", ErrInvalidInput, dialect)
	}

	passed := totalTests - count.Unsuccessful()
	pct := float64(passed) / float64(totalTests) * 100

	// pct is bounded to [0,100] by construction; values outside that
	// range would mean the counts themselves are wrong, so no clamping.
	r, g := 100-int(pct), int(pct)
	return Badge{
		SchemaVersion: 1,
		Label:         types.DialectShortname(dialect),
		Message:       fmt.Sprintf("%d%% Passing", int(pct)),
		Color:         fmt.Sprintf("%02x%02x%02x", r, g, 0),
	}, nil
}

// SupportedVersions derives the versions badge for one implementation,
// listing its declared dialects highest-draft-first.
func SupportedVersions(impl types.Implementation) Badge {
	drafts := make([]string, 0, len(impl.Dialects))
	for i := len(impl.Dialects) - 1; i >= 0; i-- {
		drafts = append(drafts, types.DraftName(impl.Dialects[i]))
	}
	return Badge{
		SchemaVersion: 1,
		Label:         "JSON Schema Versions",
		Message:       strings.Join(drafts, ", "),
		Color:         supportedVersionsColor,
	}
}

// Generate writes badge artifacts for every implementation in the
// report that supports the report's dialect:
//
//	<language>-<name>/compliance/<dialect label>.json
//	<language>-<name>/supported_versions.json
//
// Writes for distinct implementations are independent and run
// concurrently; the two files of one implementation have no ordering.
func Generate(rep *report.Report, targetDir string) error {
	dialect := rep.Dialect()
	total := rep.TotalTests()

	var wg sync.WaitGroup
	errs := make([]error, 0, len(rep.Metadata().Implementations))
	var mu sync.Mutex

	for _, impl := range rep.Metadata().Implementations {
		if !impl.SupportsDialect(dialect) {
			continue
		}
		if total <= 0 {
			return fmt.Errorf("%w: no tests for dialect %s", ErrInvalidInput, dialect)
		}

		// An implementation with no recorded results has no pass rate;
		// a badge here would claim 100% from silence.
		count, ok := rep.Counts(impl.ImageID())
		if !ok {
			continue
		}
		compliance, err := Compliance(dialect, total, count)
		if err != nil {
			return err
		}

		wg.Add(1)
		go func(impl types.Implementation, compliance Badge) {
			defer wg.Done()
			if err := writeImplementationBadges(targetDir, impl, dialect, compliance); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(impl, compliance)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func writeImplementationBadges(targetDir string, impl types.Implementation, dialect string, compliance Badge) error {
	implDir := filepath.Join(targetDir, fmt.Sprintf("%s-%s", impl.Language, impl.Name))

	label := types.DialectShortname(dialect)
	compliancePath := filepath.Join(implDir, "compliance", strings.ReplaceAll(label, " ", "_")+".json")
	if err := writeBadge(compliancePath, compliance); err != nil {
		return err
	}

	versionsPath := filepath.Join(implDir, "supported_versions.json")
	return writeBadge(versionsPath, SupportedVersions(impl))
}

func writeBadge(path string, badge Badge) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating badge directory: %w", err)
	}
	data, err := json.Marshal(badge)
	if err != nil {
		return fmt.Errorf("encoding badge: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing badge %s: %w", path, err)
	}
	return nil
}
