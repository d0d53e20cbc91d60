// Package pdfext extracts plain text from uploaded PDF resumes. Extraction
// fails closed: an unreadable document is an IO error, never a silent empty
// result.
package pdfext

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"careerforge/internal/errors"
)

// ExtractText reads every page of the PDF in data and concatenates the plain
// text. Pages that fail individually are skipped; a document yielding no text
// at all is an error.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.NewIOError(errors.ErrCodePDFExtract, "Empty PDF upload", nil)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodePDFExtract, "Failed to read PDF document", err)
	}

	var b strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	text := CleanText(b.String())
	if text == "" {
		return "", errors.NewIOError(errors.ErrCodePDFExtract, "No text content found in PDF", nil)
	}
	return text, nil
}

// CleanText trims each line and drops blank ones
func CleanText(text string) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
