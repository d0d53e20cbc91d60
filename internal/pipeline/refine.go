package pipeline

import (
	"context"
	"strings"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/errors"
	"careerforge/internal/store"
	"careerforge/internal/types"
)

// Refiner applies natural-language edit instructions to existing artifacts
// and reference CVs. Each refine is a single state transition built on the
// current persisted content; there is no multi-turn memory. Concurrent
// refines of the same artifact are last-write-wins.
type Refiner struct {
	client    ai.Client
	prompts   *config.PromptStore
	extractor *Extractor
	artifacts store.ArtifactRepository
	postings  store.PostingRepository
	logger    *errors.Logger
}

// NewRefiner creates a refinement engine
func NewRefiner(client ai.Client, prompts *config.PromptStore, extractor *Extractor, artifacts store.ArtifactRepository, postings store.PostingRepository, logger *errors.Logger) *Refiner {
	return &Refiner{
		client:    client,
		prompts:   prompts,
		extractor: extractor,
		artifacts: artifacts,
		postings:  postings,
		logger:    logger,
	}
}

// RefineArtifact rewrites an artifact per the instruction. The prompt carries
// the current cv and letter verbatim and uses the encoding the artifact was
// created with. Sections the response omits or fails to decode keep their
// previous values.
func (r *Refiner) RefineArtifact(ctx context.Context, ownerID, artifactID, instruction string) (*types.GenerationArtifact, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Missing required field: instruction", nil)
	}

	artifact, err := r.artifacts.GetByID(ctx, artifactID, ownerID)
	if err != nil {
		return nil, err
	}

	key := ai.PromptCareerRefine
	if artifact.Format == types.FormatStructured {
		key = ai.PromptCareerRefineStructured
	}

	prompt := ai.RenderPrompt(r.prompts.Get(key), map[string]string{
		"cv":          artifact.CV,
		"coverLetter": artifact.CoverLetter,
		"instruction": instruction,
	})

	text, _, err := r.client.Complete(ctx, ai.CompletionRequest{
		System:      r.prompts.Get(ai.PromptCareerSystem),
		User:        prompt,
		Tier:        ai.TierStrong,
		Temperature: &refineTemperature,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := ParseDocuments(text)
	if err != nil {
		return nil, err
	}

	// Merge: updated sections replace, missing sections keep their value
	if parsed.CV != "" {
		artifact.CV = parsed.CV
	}
	if parsed.CoverLetter != "" {
		artifact.CoverLetter = parsed.CoverLetter
	}
	if parsed.Suggestions != "" {
		artifact.Suggestions = parsed.Suggestions
	}

	if err := r.artifacts.Update(ctx, artifact); err != nil {
		return nil, err
	}

	r.logger.Info("Artifact refined",
		"artifact_id", artifact.ID,
		"owner_id", ownerID,
		"format", string(artifact.Format))

	return artifact, nil
}

// RefineReference rewrites a posting's reference CV per the instruction and
// re-extracts the reference profile from the updated text. A failed
// re-extraction keeps the previous profile.
func (r *Refiner) RefineReference(ctx context.Context, ownerID, postingID, instruction string) (*types.JobPosting, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Missing required field: instruction", nil)
	}

	posting, err := r.postings.GetByID(ctx, postingID, ownerID)
	if err != nil {
		return nil, err
	}

	prompt := ai.RenderPrompt(r.prompts.Get(ai.PromptRecruiterRefineRef), map[string]string{
		"cv":          posting.ReferenceCV,
		"instruction": instruction,
	})

	text, _, err := r.client.Complete(ctx, ai.CompletionRequest{
		System:      r.prompts.Get(ai.PromptRecruiterSystem),
		User:        prompt,
		Tier:        ai.TierStrong,
		Temperature: &refineTemperature,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := ParseDocuments(text)
	if err != nil {
		return nil, err
	}
	if parsed.CV != "" {
		posting.ReferenceCV = parsed.CV
		if profile := r.extractor.Extract(ctx, posting.ReferenceCV); profile != nil {
			posting.ReferenceProfile = profile
		}
	}

	if err := r.postings.Update(ctx, posting); err != nil {
		return nil, err
	}

	r.logger.Info("Reference CV refined",
		"posting_id", posting.ID,
		"owner_id", ownerID)

	return posting, nil
}
