package pdfext

import (
	"testing"

	"careerforge/internal/errors"
)

func TestExtractTextRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty upload", nil},
		{"not a pdf", []byte("plain text masquerading as a pdf")},
		{"truncated header", []byte("%PDF-1.4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *errors.AppError, got %T", err)
			}
			if appErr.Type != errors.ErrorTypeIO || appErr.Code != errors.ErrCodePDFExtract {
				t.Errorf("got %s/%s, want io/%s", appErr.Type, appErr.Code, errors.ErrCodePDFExtract)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank lines dropped", "a\n\n\nb", "a\nb"},
		{"lines trimmed", "  a  \n\t b ", "a\nb"},
		{"whitespace only", " \n\t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
