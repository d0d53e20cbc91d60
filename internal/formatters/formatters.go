package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"careerforge/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "GenerationArtifact", &ArtifactTextFormatter{})
	registry.RegisterFormatter("markdown", "GenerationArtifact", &ArtifactMarkdownFormatter{})
	registry.RegisterFormatter("text", "FitAnalysis", &FitAnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "FitAnalysis", &FitAnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "Quiz", &QuizTextFormatter{})
	registry.RegisterFormatter("markdown", "Quiz", &QuizMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.GenerationArtifact, *types.GenerationArtifact:
		return "GenerationArtifact"
	case types.FitAnalysis, *types.FitAnalysis:
		return "FitAnalysis"
	case types.Quiz, *types.Quiz:
		return "Quiz"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asArtifact(data any) (*types.GenerationArtifact, bool) {
	switch v := data.(type) {
	case types.GenerationArtifact:
		return &v, true
	case *types.GenerationArtifact:
		return v, true
	}
	return nil, false
}

func asFitAnalysis(data any) (*types.FitAnalysis, bool) {
	switch v := data.(type) {
	case types.FitAnalysis:
		return &v, true
	case *types.FitAnalysis:
		return v, true
	}
	return nil, false
}

func asQuiz(data any) (*types.Quiz, bool) {
	switch v := data.(type) {
	case types.Quiz:
		return &v, true
	case *types.Quiz:
		return v, true
	}
	return nil, false
}

// ArtifactTextFormatter handles text formatting for generated documents
type ArtifactTextFormatter struct{}

func (atf *ArtifactTextFormatter) Format(data any) (string, error) {
	result, ok := asArtifact(data)
	if !ok {
		return "", fmt.Errorf("expected GenerationArtifact, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CV ===\n\n")
	output.WriteString(result.CV)
	output.WriteString("\n\n")

	output.WriteString("=== COVER LETTER ===\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	if result.Suggestions != "" {
		output.WriteString("\n=== SUGGESTIONS ===\n\n")
		output.WriteString(result.Suggestions)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (atf *ArtifactTextFormatter) SupportedType() string {
	return "GenerationArtifact"
}

// ArtifactMarkdownFormatter handles markdown formatting for generated documents
type ArtifactMarkdownFormatter struct{}

func (amf *ArtifactMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asArtifact(data)
	if !ok {
		return "", fmt.Errorf("expected GenerationArtifact, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# CV\n\n")
	output.WriteString(result.CV)
	output.WriteString("\n\n")

	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	if result.Suggestions != "" {
		output.WriteString("\n# Suggestions\n\n")
		output.WriteString(result.Suggestions)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (amf *ArtifactMarkdownFormatter) SupportedType() string {
	return "GenerationArtifact"
}

// FitAnalysisTextFormatter handles text formatting for fit analyses
type FitAnalysisTextFormatter struct{}

func (ftf *FitAnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := asFitAnalysis(data)
	if !ok {
		return "", fmt.Errorf("expected FitAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FIT ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n\n", result.OverallScore))

	if len(result.Categories) > 0 {
		output.WriteString("=== CATEGORIES ===\n")
		for _, category := range result.Categories {
			output.WriteString(fmt.Sprintf("%s: %d/100 (weight %d)\n", category.Name, category.Score, category.Weight))
			if category.Details != "" {
				output.WriteString("  " + category.Details + "\n")
			}
		}
		output.WriteString("\n")
	}

	if len(result.SkillsMatch) > 0 {
		output.WriteString("=== SKILLS ===\n")
		for _, skill := range result.SkillsMatch {
			output.WriteString(fmt.Sprintf("- %s [%s]", skill.Skill, skill.Status))
			if skill.Detail != "" {
				output.WriteString(": " + skill.Detail)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	output.WriteString("=== EXPERIENCE ===\n")
	output.WriteString(fmt.Sprintf("Required: %d years, candidate: %d years\n",
		result.ExperienceMatch.RequiredYears, result.ExperienceMatch.CandidateYears))
	for _, gap := range result.ExperienceMatch.Gaps {
		output.WriteString(fmt.Sprintf("Gap: %s\n", gap))
	}
	output.WriteString("\n")

	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		output.WriteString("=== " + title + " ===\n")
		for _, item := range items {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
		output.WriteString("\n")
	}
	writeList("STRENGTHS", result.Strengths)
	writeList("WEAKNESSES", result.Weaknesses)
	writeList("RECOMMENDATIONS", result.Recommendations)

	if result.GlobalFeedback != "" {
		output.WriteString("=== FEEDBACK ===\n")
		output.WriteString(result.GlobalFeedback)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (ftf *FitAnalysisTextFormatter) SupportedType() string {
	return "FitAnalysis"
}

// FitAnalysisMarkdownFormatter handles markdown formatting for fit analyses
type FitAnalysisMarkdownFormatter struct{}

func (fmf *FitAnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asFitAnalysis(data)
	if !ok {
		return "", fmt.Errorf("expected FitAnalysis, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Fit Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))

	if len(result.Categories) > 0 {
		output.WriteString("## Categories\n\n")
		for _, category := range result.Categories {
			output.WriteString(fmt.Sprintf("- **%s:** %d/100 (weight %d)", category.Name, category.Score, category.Weight))
			if category.Details != "" {
				output.WriteString(": " + category.Details)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	if len(result.SkillsMatch) > 0 {
		output.WriteString("## Skills\n\n")
		for _, skill := range result.SkillsMatch {
			output.WriteString(fmt.Sprintf("- **%s** (%s)", skill.Skill, skill.Status))
			if skill.Detail != "" {
				output.WriteString(": " + skill.Detail)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	output.WriteString("## Experience\n\n")
	output.WriteString(fmt.Sprintf("Required: %d years, candidate: %d years\n\n",
		result.ExperienceMatch.RequiredYears, result.ExperienceMatch.CandidateYears))

	writeSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		output.WriteString("## " + title + "\n\n")
		for _, item := range items {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
		output.WriteString("\n")
	}
	writeSection("Strengths", result.Strengths)
	writeSection("Weaknesses", result.Weaknesses)
	writeSection("Recommendations", result.Recommendations)

	if result.GlobalFeedback != "" {
		output.WriteString("## Feedback\n\n")
		output.WriteString(result.GlobalFeedback)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (fmf *FitAnalysisMarkdownFormatter) SupportedType() string {
	return "FitAnalysis"
}

// QuizTextFormatter handles text formatting for generated quizzes
type QuizTextFormatter struct{}

func (qtf *QuizTextFormatter) Format(data any) (string, error) {
	result, ok := asQuiz(data)
	if !ok {
		return "", fmt.Errorf("expected Quiz, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== " + strings.ToUpper(result.Title) + " ===\n\n")
	if result.Description != "" {
		output.WriteString(result.Description)
		output.WriteString("\n\n")
	}

	for i, question := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. [%s, %d pts] %s\n", i+1, question.Type, question.Points, question.Question))
		for j, option := range question.Options {
			output.WriteString(fmt.Sprintf("   %c) %s\n", 'a'+j, option))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (qtf *QuizTextFormatter) SupportedType() string {
	return "Quiz"
}

// QuizMarkdownFormatter handles markdown formatting for generated quizzes
type QuizMarkdownFormatter struct{}

func (qmf *QuizMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asQuiz(data)
	if !ok {
		return "", fmt.Errorf("expected Quiz, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# " + result.Title + "\n\n")
	if result.Description != "" {
		output.WriteString(result.Description)
		output.WriteString("\n\n")
	}

	for i, question := range result.Questions {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, question.Question))
		output.WriteString(fmt.Sprintf("*%s, %d points*\n\n", question.Type, question.Points))
		for j, option := range question.Options {
			output.WriteString(fmt.Sprintf("%c. %s\n", 'a'+j, option))
		}
		if len(question.Options) > 0 {
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}

func (qmf *QuizMarkdownFormatter) SupportedType() string {
	return "Quiz"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
