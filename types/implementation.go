package types

// Implementation describes one external program under test.
// The shape matches an entry in the report header's implementations map.
type Implementation struct {
	// Name is the short implementation name (e.g. "jsonschema").
	Name string `json:"name"`
	// Language is the implementation language (e.g. "python").
	Language string `json:"language"`
	// Image is the container image identifier the harness ran.
	// Empty means the name doubles as the image identifier.
	Image string `json:"image,omitempty"`
	// Dialects lists the dialect URIs the implementation supports.
	Dialects []string `json:"dialects"`
	// Homepage and Issues are informational links.
	Homepage string `json:"homepage,omitempty"`
	Issues   string `json:"issues,omitempty"`
	// Version is the implementation's own version string, if reported.
	Version string `json:"version,omitempty"`
	// OS and OSVersion describe the runtime platform, if reported.
	OS        string `json:"os,omitempty"`
	OSVersion string `json:"os_version,omitempty"`
}

// ImageID returns the image identifier, falling back to the name when
// no explicit image was recorded.
func (i Implementation) ImageID() string {
	if i.Image != "" {
		return i.Image
	}
	return i.Name
}

// SupportsDialect reports whether the implementation declares support
// for the given dialect URI.
func (i Implementation) SupportsDialect(dialect string) bool {
	for _, d := range i.Dialects {
		if d == dialect {
			return true
		}
	}
	return false
}
