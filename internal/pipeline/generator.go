package pipeline

import (
	"context"
	"fmt"
	"strings"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/errors"
	"careerforge/internal/store"
	"careerforge/internal/types"
)

// GenerateInput describes one generation request. Exactly one of the two
// source shapes must carry content: discrete profile fields, or resume text
// (pasted and/or PDF-extracted).
type GenerateInput struct {
	Fields           types.ProfileFields
	ResumeText       string
	ResumePDFText    string
	OfferText        string
	Format           types.DocumentFormat
	ExtractedProfile *types.StructuredProfile // pre-extracted profile when the caller already has one
}

// Generator selects a prompt template from the available inputs, runs the
// generation call and persists the parsed artifact.
type Generator struct {
	client    ai.Client
	prompts   *config.PromptStore
	extractor *Extractor
	artifacts store.ArtifactRepository
	logger    *errors.Logger
	textLimit int
}

// NewGenerator creates a generation orchestrator. textLimit caps persisted
// source text lengths.
func NewGenerator(client ai.Client, prompts *config.PromptStore, extractor *Extractor, artifacts store.ArtifactRepository, textLimit int, logger *errors.Logger) *Generator {
	return &Generator{
		client:    client,
		prompts:   prompts,
		extractor: extractor,
		artifacts: artifacts,
		logger:    logger,
		textLimit: textLimit,
	}
}

var (
	generateTemperature = float32(0.6)
	refineTemperature   = float32(0.4)
)

// selectTemplateKey is a pure function of which inputs are present
func selectTemplateKey(hasResume, hasOffer bool) string {
	switch {
	case hasResume && hasOffer:
		return ai.PromptCareerGenerateFromCVOffer
	case hasResume:
		return ai.PromptCareerGenerateFromCV
	case hasOffer:
		return ai.PromptCareerGenerateWithOffer
	default:
		return ai.PromptCareerGenerate
	}
}

// Generate runs one generation request end to end. A total parse failure
// persists nothing; partial section recovery within a successful parse is
// persisted as-is.
func (g *Generator) Generate(ctx context.Context, ownerID string, input GenerateInput) (*types.GenerationArtifact, error) {
	resumeText := ""
	hasResume := strings.TrimSpace(input.ResumeText) != "" || strings.TrimSpace(input.ResumePDFText) != ""
	if hasResume {
		var err error
		resumeText, err = NormalizeDocument(input.ResumeText, input.ResumePDFText, MinResumeLength, "resumeText")
		if err != nil {
			return nil, err
		}
	} else if !input.Fields.HasContent() {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Provide either profile fields or resume text", nil)
	}

	offerText := strings.TrimSpace(input.OfferText)
	if offerText != "" {
		var err error
		offerText, err = NormalizeDocument(offerText, "", MinOfferLength, "offerText")
		if err != nil {
			return nil, err
		}
	}

	// The profile used for generation is recorded on the artifact so the
	// audit trail shows what the documents were built from.
	profile := input.ExtractedProfile
	if profile == nil && hasResume {
		profile = g.extractor.Extract(ctx, resumeText)
	}

	key := selectTemplateKey(hasResume, offerText != "")
	vars := map[string]string{
		"offer": offerText,
	}
	if hasResume {
		vars["cv"] = resumeText
	} else {
		vars["profile"] = FormatProfileFields(input.Fields)
	}

	userPrompt := ai.RenderPrompt(g.prompts.Get(key), vars)
	if input.Format == types.FormatStructured {
		userPrompt += g.prompts.Get(ai.PromptCareerStructuredFormat)
	}

	text, _, err := g.client.Complete(ctx, ai.CompletionRequest{
		System:      g.prompts.Get(ai.PromptCareerSystem),
		User:        userPrompt,
		Tier:        ai.TierStrong,
		Temperature: &generateTemperature,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := ParseDocuments(text)
	if err != nil {
		return nil, err
	}

	// The source resume text is kept alongside the extracted profile so the
	// audit trail survives a failed extraction.
	artifact := &types.GenerationArtifact{
		OwnerID:          ownerID,
		SourceFields:     input.Fields,
		SourceProfile:    profile,
		SourceResumeText: Truncate(resumeText, g.textLimit),
		TargetOfferText:  Truncate(offerText, g.textLimit),
		CV:               parsed.CV,
		CoverLetter:      parsed.CoverLetter,
		Suggestions:      parsed.Suggestions,
		Format:           parsed.Format,
	}

	if err := g.artifacts.Insert(ctx, artifact); err != nil {
		return nil, err
	}

	g.logger.Info("Generation artifact created",
		"artifact_id", artifact.ID,
		"owner_id", ownerID,
		"format", string(artifact.Format),
		"template", key)

	return artifact, nil
}

// FormatProfileFields renders discrete form fields as a labeled text block
// for prompt interpolation.
func FormatProfileFields(fields types.ProfileFields) string {
	var b strings.Builder
	appendField := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "%s : %s\n", label, strings.TrimSpace(value))
		}
	}
	appendField("Nom", fields.Name)
	appendField("Formation", fields.Education)
	appendField("Expérience", fields.Experience)
	appendField("Compétences", fields.Skills)
	appendField("Poste visé", fields.TargetRole)
	return strings.TrimSpace(b.String())
}
