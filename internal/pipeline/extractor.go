package pipeline

import (
	"context"
	"encoding/json"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/errors"
	"careerforge/internal/types"
)

// Extractor turns normalized resume text into a structured profile
type Extractor struct {
	client  ai.Client
	prompts *config.PromptStore
	logger  *errors.Logger
}

// NewExtractor creates a profile extractor
func NewExtractor(client ai.Client, prompts *config.PromptStore, logger *errors.Logger) *Extractor {
	return &Extractor{client: client, prompts: prompts, logger: logger}
}

var extractTemperature = float32(0.3)

// Extract issues one fast-tier completion with the fixed profile schema and
// decodes the result. Failure returns nil, never an error: the generation
// pipeline still works on unstructured text, so a broken extraction must not
// abort the caller.
func (e *Extractor) Extract(ctx context.Context, normalizedText string) *types.StructuredProfile {
	prompt := ai.RenderPrompt(e.prompts.Get(ai.PromptProfileExtract), map[string]string{
		"cv": normalizedText,
	})

	text, _, err := e.client.Complete(ctx, ai.CompletionRequest{
		System:      e.prompts.Get(ai.PromptProfileSystem),
		User:        prompt,
		Tier:        ai.TierFast,
		Temperature: &extractTemperature,
	})
	if err != nil {
		e.logger.Warn("Profile extraction call failed, continuing with raw text",
			"error", err.Error())
		return nil
	}

	var profile types.StructuredProfile
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &profile); err != nil {
		e.logger.Warn("Profile extraction response undecodable, continuing with raw text",
			"error", err.Error())
		return nil
	}

	return &profile
}
