package report

import (
	"fmt"
	"net/url"
	"time"

	"github.com/justapithecus/bowline/types"
)

// RunMetadata is the immutable descriptor of one run, built once from
// the stream's header record. The dialect is fixed for the whole run.
type RunMetadata struct {
	// Dialect is the dialect URI the run exercised. Stored in its raw
	// string form: URL normalization would lose trailing "#" fragments
	// that older draft URIs carry.
	Dialect string
	// Implementations maps implementation name to its descriptor.
	Implementations map[string]types.Implementation
	// Version is the harness version that produced the stream.
	Version string
	// Metadata carries free-form run metadata.
	Metadata map[string]any
	// Started is the run start time; zero when unknown.
	Started time.Time
}

// NewRunMetadata builds metadata for a fresh run starting now.
func NewRunMetadata(dialect string, implementations map[string]types.Implementation) RunMetadata {
	return RunMetadata{
		Dialect:         dialect,
		Implementations: implementations,
		Version:         types.Version,
		Started:         time.Now().UTC(),
	}
}

// FromImplementations builds metadata from a list of implementation
// descriptors, keyed by name, each entry annotated with its own image
// identifier.
func FromImplementations(dialect string, implementations []types.Implementation) RunMetadata {
	byName := make(map[string]types.Implementation, len(implementations))
	for _, impl := range implementations {
		impl.Image = impl.ImageID()
		byName[impl.Name] = impl
	}
	return NewRunMetadata(dialect, byName)
}

// runMetadataFromRecord parses the header record.
func runMetadataFromRecord(rec Record) (RunMetadata, error) {
	dialect := toString(rec["dialect"])
	if dialect == "" {
		return RunMetadata{}, &MalformedRecordError{Reason: "header missing dialect"}
	}
	if _, err := url.Parse(dialect); err != nil {
		return RunMetadata{}, &MalformedRecordError{Reason: fmt.Sprintf("invalid dialect URI %q", dialect), Err: err}
	}

	meta := RunMetadata{
		Dialect: dialect,
		Version: toString(rec["bowtie_version"]),
	}

	switch impls := rec["implementations"].(type) {
	case map[string]any:
		if err := decodeRecord(impls, &meta.Implementations); err != nil {
			return RunMetadata{}, err
		}
	case map[string]types.Implementation:
		// In-memory replay of a Serializable() header.
		meta.Implementations = impls
	}
	if meta.Implementations == nil {
		meta.Implementations = map[string]types.Implementation{}
	}

	if md, ok := rec["metadata"].(map[string]any); ok {
		meta.Metadata = md
	}

	if started := toString(rec["started"]); started != "" {
		t, err := time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return RunMetadata{}, &MalformedRecordError{Reason: fmt.Sprintf("invalid start time %q", started), Err: err}
		}
		meta.Started = t
	}

	return meta, nil
}

// DialectShortname returns the human label for the run's dialect,
// falling back to the raw URI.
func (m RunMetadata) DialectShortname() string {
	return types.DialectShortname(m.Dialect)
}

// Images returns the implementation image identifiers, ordered by
// implementation name for determinism.
func (m RunMetadata) Images() []string {
	images := make([]string, 0, len(m.Implementations))
	for _, name := range sortedKeys(m.Implementations) {
		images = append(images, m.Implementations[name].ImageID())
	}
	return images
}

// Serializable renders the canonical header record: dialect as a
// string, start time as ISO-8601 or null.
func (m RunMetadata) Serializable() Record {
	var started any
	if !m.Started.IsZero() {
		started = m.Started.Format(time.RFC3339Nano)
	}
	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Record{
		"dialect":         m.Dialect,
		"implementations": m.Implementations,
		"bowtie_version":  m.Version,
		"metadata":        metadata,
		"started":         started,
	}
}
