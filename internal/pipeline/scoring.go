package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/errors"
	"careerforge/internal/types"
)

// FlexScore decodes a numeric judgment the model may return as a number, a
// numeric string, null or not at all. Anything unparseable counts as zero.
type FlexScore float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexScore) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexScore(value)
	return nil
}

// Int applies the normalization law: round to the nearest integer
func (f FlexScore) Int() int {
	return int(math.Round(float64(f)))
}

// Percentage computes round(earned/max*100), guarded to 0 when max is 0
func Percentage(earned, max float64) int {
	if max == 0 {
		return 0
	}
	return int(math.Round(earned / max * 100))
}

// rawFitAnalysis is the tolerant decoding shape for rubric responses
type rawFitAnalysis struct {
	OverallScore FlexScore `json:"overallScore"`
	Categories   []struct {
		Name    string    `json:"name"`
		Score   FlexScore `json:"score"`
		Weight  FlexScore `json:"weight"`
		Details string    `json:"details"`
	} `json:"categories"`
	SkillsMatch     []types.SkillMatch `json:"skillsMatch"`
	ExperienceMatch struct {
		RequiredYears       FlexScore `json:"requiredYears"`
		CandidateYears      FlexScore `json:"candidateYears"`
		RelevantExperiences []string  `json:"relevantExperiences"`
		Gaps                []string  `json:"gaps"`
	} `json:"experienceMatch"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	GlobalFeedback  string   `json:"globalFeedback"`
}

// normalize converts the tolerant shape into the integer-only analysis
func (r *rawFitAnalysis) normalize() *types.FitAnalysis {
	analysis := &types.FitAnalysis{
		OverallScore:    clampScore(r.OverallScore.Int()),
		SkillsMatch:     r.SkillsMatch,
		Strengths:       r.Strengths,
		Weaknesses:      r.Weaknesses,
		Recommendations: r.Recommendations,
		GlobalFeedback:  r.GlobalFeedback,
	}
	for _, c := range r.Categories {
		analysis.Categories = append(analysis.Categories, types.FitCategory{
			Name:    c.Name,
			Score:   clampScore(c.Score.Int()),
			Weight:  clampScore(c.Weight.Int()),
			Details: c.Details,
		})
	}
	analysis.ExperienceMatch = types.ExperienceMatch{
		RequiredYears:       r.ExperienceMatch.RequiredYears.Int(),
		CandidateYears:      r.ExperienceMatch.CandidateYears.Int(),
		RelevantExperiences: r.ExperienceMatch.RelevantExperiences,
		Gaps:                r.ExperienceMatch.Gaps,
	}
	return analysis
}

// clampScore bounds a normalized score to [0,100]
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Scorer runs rubric completions comparing resumes to offers and candidate
// profiles to reference profiles.
type Scorer struct {
	client  ai.Client
	prompts *config.PromptStore
	logger  *errors.Logger
}

// NewScorer creates a fit scoring engine
func NewScorer(client ai.Client, prompts *config.PromptStore, logger *errors.Logger) *Scorer {
	return &Scorer{client: client, prompts: prompts, logger: logger}
}

var (
	analyzeTemperature = float32(0.4)
	compareTemperature = float32(0.3)
)

// AnalyzeFit scores a resume against a job offer. A rubric response that
// cannot be decoded is a hard failure; callers must not persist anything in
// that case.
func (s *Scorer) AnalyzeFit(ctx context.Context, resumeText, offerText string) (*types.FitAnalysis, error) {
	resume, err := NormalizeDocument(resumeText, "", MinResumeLength, "resumeText")
	if err != nil {
		return nil, err
	}
	offer, err := NormalizeDocument(offerText, "", MinOfferLength, "offerText")
	if err != nil {
		return nil, err
	}

	prompt := ai.RenderPrompt(s.prompts.Get(ai.PromptAnalysisCVVsOffer), map[string]string{
		"cv":    resume,
		"offer": offer,
	})

	return s.runRubric(ctx, prompt, &analyzeTemperature)
}

// CompareProfiles scores a candidate profile against a posting's reference
// profile using the same rubric shape.
func (s *Scorer) CompareProfiles(ctx context.Context, reference, candidate *types.StructuredProfile) (*types.FitAnalysis, error) {
	if reference == nil || candidate == nil {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Both reference and candidate profiles are required", nil)
	}

	referenceJSON, err := json.Marshal(reference)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeResponseDecode,
			"Failed to serialize reference profile", err)
	}
	candidateJSON, err := json.Marshal(candidate)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeResponseDecode,
			"Failed to serialize candidate profile", err)
	}

	prompt := ai.RenderPrompt(s.prompts.Get(ai.PromptRecruiterCompare), map[string]string{
		"reference": string(referenceJSON),
		"candidate": string(candidateJSON),
	})

	return s.runRubric(ctx, prompt, &compareTemperature)
}

// runRubric issues one fast-tier completion and normalizes the decoded result
func (s *Scorer) runRubric(ctx context.Context, prompt string, temperature *float32) (*types.FitAnalysis, error) {
	text, _, err := s.client.Complete(ctx, ai.CompletionRequest{
		System:      s.prompts.Get(ai.PromptAnalysisSystem),
		User:        prompt,
		Tier:        ai.TierFast,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}

	var raw rawFitAnalysis
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &raw); err != nil {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Rubric response is not valid JSON", err)
	}

	return raw.normalize(), nil
}
