package types

import "strings"

// dialectShortnames maps known dialect URIs to human labels.
// Unknown URIs fall back to their raw string form; the mapping is
// open-ended and must never fail on unrecognized dialects.
var dialectShortnames = map[string]string{
	"https://json-schema.org/draft/2020-12/schema": "Draft 2020-12",
	"https://json-schema.org/draft/2019-09/schema": "Draft 2019-09",
	"http://json-schema.org/draft-07/schema#":      "Draft 7",
	"http://json-schema.org/draft-06/schema#":      "Draft 6",
	"http://json-schema.org/draft-04/schema#":      "Draft 4",
	"http://json-schema.org/draft-03/schema#":      "Draft 3",
}

// DialectShortname returns the human label for a dialect URI,
// or the URI itself when unrecognized.
func DialectShortname(uri string) string {
	if short, ok := dialectShortnames[uri]; ok {
		return short
	}
	return uri
}

// DraftName returns the shortname with any "Draft " prefix removed,
// e.g. "2020-12" for the 2020-12 dialect. Used for compact version
// listings such as the supported-versions badge.
func DraftName(uri string) string {
	return strings.TrimPrefix(DialectShortname(uri), "Draft ")
}
