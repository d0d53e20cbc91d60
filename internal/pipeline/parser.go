package pipeline

import (
	"encoding/json"
	"regexp"
	"strings"

	"careerforge/internal/errors"
	"careerforge/internal/types"
)

// ParsedDocuments is the parser output: opaque section contents plus the
// encoding they were recognized in.
type ParsedDocuments struct {
	CV          string
	CoverLetter string
	Suggestions string
	Format      types.DocumentFormat
}

// Section heading names the generation prompts have used over time. Older
// artifacts were produced with the free-text headings, newer ones with the
// JSON headings, and both must stay parseable.
const (
	headingCVJSON     = "CV_JSON"
	headingLetterJSON = "LETTRE_JSON"
	headingCV         = "CV"
	headingLetter     = "LETTRE DE MOTIVATION"
	headingLetterAlt  = "LETTRE"
	headingAdvice     = "SUGGESTIONS"
)

var sectionHeadingRe = regexp.MustCompile(`(?mi)^##\s*(CV_JSON|LETTRE_JSON|CV|Lettre de motivation|Lettre|Suggestions)\s*:?\s*$`)

// ParseDocuments decodes a model completion into named sections. The
// structured pass wins when at least one JSON section decodes; sections that
// fail to decode within a structured response are left empty rather than
// failing the whole parse. If no section is found in either encoding the
// parse is a hard failure and nothing may be persisted from it.
func ParseDocuments(raw string) (*ParsedDocuments, error) {
	sections := splitSections(raw)
	if len(sections) == 0 {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Model response contains no recognizable section", nil)
	}

	parsed := &ParsedDocuments{
		Suggestions: sections[headingAdvice],
	}

	// Structured pass first
	structured := false
	if body, ok := sections[headingCVJSON]; ok {
		if decoded, ok := decodeJSONSection(body); ok {
			parsed.CV = decoded
			structured = true
		}
	}
	if body, ok := sections[headingLetterJSON]; ok {
		if decoded, ok := decodeJSONSection(body); ok {
			parsed.CoverLetter = decoded
			structured = true
		}
	}
	if structured {
		parsed.Format = types.FormatStructured
		return parsed, nil
	}

	// Free-text fallback
	parsed.CV = sections[headingCV]
	parsed.CoverLetter = sections[headingLetter]
	if parsed.CoverLetter == "" {
		parsed.CoverLetter = sections[headingLetterAlt]
	}
	parsed.Format = types.FormatFreeText

	if parsed.CV == "" && parsed.CoverLetter == "" && parsed.Suggestions == "" {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Model response sections are empty or undecodable", nil)
	}

	return parsed, nil
}

// splitSections scans heading markers and maps each canonical heading to the
// trimmed content up to the next heading. First occurrence wins. Headings
// whose content is empty are dropped.
func splitSections(raw string) map[string]string {
	matches := sectionHeadingRe.FindAllStringSubmatchIndex(raw, -1)
	sections := make(map[string]string, len(matches))

	for i, m := range matches {
		name := strings.ToUpper(strings.TrimSpace(raw[m[2]:m[3]]))
		start := m[1]
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := strings.TrimSpace(raw[start:end])
		if content == "" {
			continue
		}
		if _, seen := sections[name]; !seen {
			sections[name] = content
		}
	}

	return sections
}

// decodeJSONSection strips code fences and validates the body as JSON,
// returning the cleaned serialized form.
func decodeJSONSection(body string) (string, bool) {
	cleaned := StripCodeFences(body)
	if !json.Valid([]byte(cleaned)) {
		return "", false
	}
	return cleaned, true
}

// StripCodeFences removes surrounding markdown code-fence markers, including
// a language tag on the opening fence.
func StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = cleaned[3:]
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		// Drop a language tag like "json" on the opening fence line
		firstLine := strings.TrimSpace(cleaned[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[\"") {
			cleaned = cleaned[idx+1:]
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
