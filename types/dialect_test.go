package types

import "testing"

func TestDialectShortname_Known(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"https://json-schema.org/draft/2020-12/schema", "Draft 2020-12"},
		{"https://json-schema.org/draft/2019-09/schema", "Draft 2019-09"},
		{"http://json-schema.org/draft-07/schema#", "Draft 7"},
		{"http://json-schema.org/draft-06/schema#", "Draft 6"},
		{"http://json-schema.org/draft-04/schema#", "Draft 4"},
		{"http://json-schema.org/draft-03/schema#", "Draft 3"},
	}
	for _, tt := range tests {
		if got := DialectShortname(tt.uri); got != tt.want {
			t.Errorf("DialectShortname(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestDialectShortname_UnknownFallsBack(t *testing.T) {
	uri := "https://example.com/future-draft/schema"
	if got := DialectShortname(uri); got != uri {
		t.Errorf("unknown dialect should fall back to raw URI, got %q", got)
	}
}

func TestDraftName(t *testing.T) {
	if got := DraftName("https://json-schema.org/draft/2020-12/schema"); got != "2020-12" {
		t.Errorf("DraftName = %q, want 2020-12", got)
	}
	if got := DraftName("http://json-schema.org/draft-07/schema#"); got != "7" {
		t.Errorf("DraftName = %q, want 7", got)
	}
}

func TestImplementation_ImageID(t *testing.T) {
	impl := Implementation{Name: "jsonschema", Language: "python"}
	if got := impl.ImageID(); got != "jsonschema" {
		t.Errorf("ImageID without image = %q, want name fallback", got)
	}
	impl.Image = "ghcr.io/example/jsonschema"
	if got := impl.ImageID(); got != "ghcr.io/example/jsonschema" {
		t.Errorf("ImageID = %q, want explicit image", got)
	}
}

func TestImplementation_SupportsDialect(t *testing.T) {
	impl := Implementation{
		Name:     "validator",
		Dialects: []string{"https://json-schema.org/draft/2020-12/schema"},
	}
	if !impl.SupportsDialect("https://json-schema.org/draft/2020-12/schema") {
		t.Error("expected declared dialect to be supported")
	}
	if impl.SupportsDialect("http://json-schema.org/draft-07/schema#") {
		t.Error("undeclared dialect should not be supported")
	}
}
