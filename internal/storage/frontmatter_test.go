package storage

import (
	"testing"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantFM  string
		body    string
		ok      bool
	}{
		{
			name:    "no frontmatter",
			content: "# Title\n",
			body:    "# Title\n",
		},
		{
			name:    "lf",
			content: "---\ntags: [a]\n---\n# Title\n",
			wantFM:  "tags: [a]\n",
			body:    "# Title\n",
			ok:      true,
		},
		{
			name:    "crlf",
			content: "---\r\ntags: [a]\r\n---\r\n# Title\r\n",
			wantFM:  "tags: [a]\r\n",
			body:    "# Title\r\n",
			ok:      true,
		},
		{
			name:    "unterminated",
			content: "---\ntags: [a]\n# Title\n",
			body:    "---\ntags: [a]\n# Title\n",
		},
		{
			name:    "closing fence at end of file",
			content: "---\na: 1\n---",
			wantFM:  "a: 1\n",
			ok:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, ok := SplitFrontmatter(tt.content)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if fm != tt.wantFM {
				t.Errorf("Expected frontmatter %q, got %q", tt.wantFM, fm)
			}
			if body != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, body)
			}
		})
	}
}

func TestStripTemplateMetadata_KeepsOtherKeys(t *testing.T) {
	content := "---\ntitle: ${FOAM_TITLE}\nfoam_template:\n  filepath: journal/${FOAM_SLUG}.md\ntags:\n  - daily\n---\n# Body\n"

	got, err := StripTemplateMetadata(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "---\ntitle: ${FOAM_TITLE}\ntags:\n  - daily\n---\n# Body\n"
	if got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestStripTemplateMetadata_DropsEmptiedBlock(t *testing.T) {
	content := "---\nfoam_template:\n  name: Daily\n---\n\n# ${FOAM_TITLE}\n"

	got, err := StripTemplateMetadata(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "# ${FOAM_TITLE}\n" {
		t.Errorf("Expected frontmatter to be removed, got %q", got)
	}
}

func TestStripTemplateMetadata_Unchanged(t *testing.T) {
	for _, content := range []string{
		"# No frontmatter\n",
		"---\ntags: [a]\n---\nbody\n",
	} {
		got, err := StripTemplateMetadata(content)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != content {
			t.Errorf("Expected content unchanged, got %q", got)
		}
	}
}

func TestStripTemplateMetadata_InvalidYAML(t *testing.T) {
	_, err := StripTemplateMetadata("---\nfoam_template: [unclosed\n---\nbody\n")
	if err == nil {
		t.Error("Expected an error for malformed frontmatter")
	}
}

func TestStripTemplateMetadata_FlowStylePlaceholders(t *testing.T) {
	content := "---\ntags: [${FOAM_DATE_YEAR}]\nfoam_template:\n  name: Daily\n\nk: {${X}}  # kept as written\n---\n# ${FOAM_TITLE}\n"

	got, err := StripTemplateMetadata(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := "---\ntags: [${FOAM_DATE_YEAR}]\n\nk: {${X}}  # kept as written\n---\n# ${FOAM_TITLE}\n"
	if got != want {
		t.Errorf("Expected:\n%q\ngot:\n%q", want, got)
	}
}

func TestStripTemplateMetadata_CRLF(t *testing.T) {
	content := "---\r\nfoam_template:\r\n  name: A\r\ntags: [x]\r\n---\r\nbody\r\n"

	got, err := StripTemplateMetadata(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := "---\r\ntags: [x]\r\n---\r\nbody\r\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTemplateBlock(t *testing.T) {
	tests := []struct {
		name  string
		fm    string
		block string
		rest  string
		found bool
	}{
		{
			name: "absent",
			fm:   "tags: [${X}]\n",
			rest: "tags: [${X}]\n",
		},
		{
			name:  "nested block between keys",
			fm:    "a: 1\nfoam_template:\n  name: T\n  placeholders:\n    - name: x\nb: [${X}]\n",
			block: "foam_template:\n  name: T\n  placeholders:\n    - name: x\n",
			rest:  "a: 1\nb: [${X}]\n",
			found: true,
		},
		{
			name:  "inline value",
			fm:    "foam_template: {name: T}\nb: 2\n",
			block: "foam_template: {name: T}\n",
			rest:  "b: 2\n",
			found: true,
		},
		{
			name: "longer key is not the metadata key",
			fm:   "foam_templates: x\n",
			rest: "foam_templates: x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, rest, found := TemplateBlock(tt.fm)
			if found != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, found)
			}
			if block != tt.block {
				t.Errorf("Expected block %q, got %q", tt.block, block)
			}
			if rest != tt.rest {
				t.Errorf("Expected rest %q, got %q", tt.rest, rest)
			}
		})
	}
}
