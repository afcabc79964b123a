package report

import (
	"cmp"
	"slices"

	"github.com/justapithecus/bowline/types"
)

// Count holds rolling per-implementation outcome totals. Fields only
// increase during assembly; passing tests are derived, not stored.
type Count struct {
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// Unsuccessful returns every test which was not a successful result,
// including skips.
func (c Count) Unsuccessful() int {
	return c.Failed + c.Errored + c.Skipped
}

// summary accumulates per-case results and per-implementation counts.
// The two maps move together: inserting a result updates both or
// neither.
type summary struct {
	results          map[types.Seq]map[string]AnyCaseResult
	byImplementation map[string]Count
}

func newSummary() summary {
	return summary{
		results:          make(map[types.Seq]map[string]AnyCaseResult),
		byImplementation: make(map[string]Count),
	}
}

// insert records one result as an atomic transition. A repeated
// (seq, implementation) pair is fatal, never a silent overwrite.
func (s *summary) insert(result AnyCaseResult) error {
	seq := result.CaseSeq()
	impl := result.ImplementationID()

	byImpl := s.results[seq]
	if _, dup := byImpl[impl]; dup {
		return &DuplicateResultError{Seq: seq, Implementation: impl}
	}

	// Compute the updated count before touching either map so a
	// failure cannot leave them out of step.
	updated := result.beCounted(s.byImplementation[impl])

	if byImpl == nil {
		byImpl = make(map[string]AnyCaseResult)
		s.results[seq] = byImpl
	}
	byImpl[impl] = result
	s.byImplementation[impl] = updated
	return nil
}

// forCase returns the per-implementation results recorded for seq.
func (s *summary) forCase(seq types.Seq) map[string]AnyCaseResult {
	return s.results[seq]
}

// counts returns the rolling count for one implementation id.
func (s *summary) counts(impl string) (Count, bool) {
	c, ok := s.byImplementation[impl]
	return c, ok
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
