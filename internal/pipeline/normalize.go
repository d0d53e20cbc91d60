package pipeline

import (
	"fmt"
	"strings"

	"careerforge/internal/errors"
)

// Minimum content lengths per use case. Inputs below these fail validation
// rather than being padded or silently truncated.
const (
	MinResumeLength = 30
	MinOfferLength  = 20
)

// NormalizeDocument merges pasted text and PDF-extracted text into one
// candidate document. Pasted text wins when both are present since PDF
// extraction is the less reliable source.
func NormalizeDocument(pastedText, extractedText string, minLength int, field string) (string, error) {
	content := strings.TrimSpace(pastedText)
	if content == "" {
		content = strings.TrimSpace(extractedText)
	}

	if content == "" {
		return "", errors.NewValidationError(errors.ErrCodeMissingInput,
			fmt.Sprintf("Missing required field: %s", field), nil)
	}
	if len(content) < minLength {
		return "", errors.NewValidationError(errors.ErrCodeInputTooShort,
			fmt.Sprintf("Field %s must be at least %d characters", field, minLength), nil)
	}

	return content, nil
}

// Truncate caps text at limit bytes before persistence. Limits <= 0 disable
// truncation.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit]
}
