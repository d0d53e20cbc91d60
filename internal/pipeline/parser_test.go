package pipeline

import (
	"testing"

	"careerforge/internal/errors"
	"careerforge/internal/types"
)

func TestParseDocumentsFreeText(t *testing.T) {
	raw := "## CV\nfoo\n## Lettre de motivation\nbar\n## Suggestions\nbaz"

	parsed, err := ParseDocuments(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.CV != "foo" {
		t.Errorf("CV = %q, want %q", parsed.CV, "foo")
	}
	if parsed.CoverLetter != "bar" {
		t.Errorf("CoverLetter = %q, want %q", parsed.CoverLetter, "bar")
	}
	if parsed.Suggestions != "baz" {
		t.Errorf("Suggestions = %q, want %q", parsed.Suggestions, "baz")
	}
	if parsed.Format != types.FormatFreeText {
		t.Errorf("Format = %q, want %q", parsed.Format, types.FormatFreeText)
	}
}

func TestParseDocumentsStructured(t *testing.T) {
	raw := "## CV_JSON\n{\"basics\":{\"name\":\"Ada\"}}\n## LETTRE_JSON\n{\"body\":\"Madame, Monsieur\"}\n## Suggestions\nrelisez la section projets"

	parsed, err := ParseDocuments(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Format != types.FormatStructured {
		t.Fatalf("Format = %q, want %q", parsed.Format, types.FormatStructured)
	}
	if parsed.CV != `{"basics":{"name":"Ada"}}` {
		t.Errorf("CV = %q", parsed.CV)
	}
	if parsed.CoverLetter != `{"body":"Madame, Monsieur"}` {
		t.Errorf("CoverLetter = %q", parsed.CoverLetter)
	}
	if parsed.Suggestions != "relisez la section projets" {
		t.Errorf("Suggestions = %q", parsed.Suggestions)
	}
}

func TestParseDocumentsFenceEquivalence(t *testing.T) {
	bare := "## CV_JSON\n{\"basics\":{\"name\":\"Ada\"}}"
	fenced := "## CV_JSON\n```json\n{\"basics\":{\"name\":\"Ada\"}}\n```"

	fromBare, err := ParseDocuments(bare)
	if err != nil {
		t.Fatalf("bare: %v", err)
	}
	fromFenced, err := ParseDocuments(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if fromBare.CV != fromFenced.CV {
		t.Errorf("fenced CV %q differs from bare CV %q", fromFenced.CV, fromBare.CV)
	}
	if fromBare.Format != fromFenced.Format {
		t.Errorf("fenced Format %q differs from bare Format %q", fromFenced.Format, fromBare.Format)
	}
}

func TestParseDocumentsPartialStructured(t *testing.T) {
	// The letter section is broken JSON. The structured pass still wins
	// because the CV decodes, and the broken section stays empty.
	raw := "## CV_JSON\n{\"ok\":true}\n## LETTRE_JSON\n{broken"

	parsed, err := ParseDocuments(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Format != types.FormatStructured {
		t.Errorf("Format = %q, want structured", parsed.Format)
	}
	if parsed.CV != `{"ok":true}` {
		t.Errorf("CV = %q", parsed.CV)
	}
	if parsed.CoverLetter != "" {
		t.Errorf("CoverLetter should be empty, got %q", parsed.CoverLetter)
	}
}

func TestParseDocumentsFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no sections at all", "just some prose without any heading"},
		{"empty input", ""},
		{"headings with empty bodies", "## CV\n\n## Lettre de motivation\n"},
		{"only undecodable structured sections", "## CV_JSON\n{broken\n## LETTRE_JSON\nnot json either"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocuments(tt.raw)
			assertAppError(t, err, errors.ErrorTypeDecode, errors.ErrCodeResponseDecode)
		})
	}
}

func TestParseDocumentsFirstOccurrenceWins(t *testing.T) {
	raw := "## CV\nfirst\n## CV\nsecond\n## Suggestions\nok"

	parsed, err := ParseDocuments(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.CV != "first" {
		t.Errorf("CV = %q, want %q", parsed.CV, "first")
	}
}

func TestParseDocumentsHeadingVariants(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantCV     string
		wantLetter string
	}{
		{
			name:       "trailing colon and case variance",
			raw:        "## cv :\nfoo\n## LETTRE DE MOTIVATION:\nbar",
			wantCV:     "foo",
			wantLetter: "bar",
		},
		{
			name:       "short letter heading",
			raw:        "## CV\nfoo\n## Lettre\nbar",
			wantCV:     "foo",
			wantLetter: "bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseDocuments(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parsed.CV != tt.wantCV {
				t.Errorf("CV = %q, want %q", parsed.CV, tt.wantCV)
			}
			if parsed.CoverLetter != tt.wantLetter {
				t.Errorf("CoverLetter = %q, want %q", parsed.CoverLetter, tt.wantLetter)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"plain fences", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"language tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"fence glued to content", "```{\"a\":1}\n```", "{\"a\":1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
