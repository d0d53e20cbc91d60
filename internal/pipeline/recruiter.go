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

// Recruiter owns the posting lifecycle: reference profile synthesis,
// publication, candidate applications and candidate scoring.
type Recruiter struct {
	client       ai.Client
	prompts      *config.PromptStore
	extractor    *Extractor
	scorer       *Scorer
	postings     store.PostingRepository
	applications store.ApplicationRepository
	logger       *errors.Logger
	textLimit    int
}

// NewRecruiter creates a recruiter pipeline stage
func NewRecruiter(client ai.Client, prompts *config.PromptStore, extractor *Extractor, scorer *Scorer, postings store.PostingRepository, applications store.ApplicationRepository, textLimit int, logger *errors.Logger) *Recruiter {
	return &Recruiter{
		client:       client,
		prompts:      prompts,
		extractor:    extractor,
		scorer:       scorer,
		postings:     postings,
		applications: applications,
		logger:       logger,
		textLimit:    textLimit,
	}
}

// CreatePosting synthesizes a reference CV for the ideal candidate, extracts
// its structured profile and stores the posting as a draft.
func (r *Recruiter) CreatePosting(ctx context.Context, ownerID, title, description, skills string) (*types.JobPosting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Missing required field: title", nil)
	}
	description, err := NormalizeDocument(description, "", MinOfferLength, "description")
	if err != nil {
		return nil, err
	}
	skills = strings.TrimSpace(skills)

	offer := description
	if skills != "" {
		offer = description + "\n\nCompétences requises :\n" + skills
	}

	prompt := ai.RenderPrompt(r.prompts.Get(ai.PromptRecruiterGenerateRef), map[string]string{
		"offer": offer,
	})

	text, _, err := r.client.Complete(ctx, ai.CompletionRequest{
		System:      r.prompts.Get(ai.PromptRecruiterSystem),
		User:        prompt,
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
	if parsed.CV == "" {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Reference response has no CV section", nil)
	}

	posting := &types.JobPosting{
		OwnerID:          ownerID,
		Title:            title,
		Description:      description,
		Skills:           skills,
		ReferenceCV:      parsed.CV,
		ReferenceProfile: r.extractor.Extract(ctx, parsed.CV),
		Status:           types.PostingDraft,
	}
	if err := r.postings.Insert(ctx, posting); err != nil {
		return nil, err
	}

	r.logger.Info("Job posting created",
		"posting_id", posting.ID,
		"owner_id", ownerID,
		"has_profile", posting.ReferenceProfile != nil)

	return posting, nil
}

// PublishPosting moves a draft posting to the published state, making it
// visible to applicants.
func (r *Recruiter) PublishPosting(ctx context.Context, ownerID, postingID string) (*types.JobPosting, error) {
	posting, err := r.postings.GetByID(ctx, postingID, ownerID)
	if err != nil {
		return nil, err
	}
	if posting.Status == types.PostingPublished {
		return posting, nil
	}
	posting.Status = types.PostingPublished
	if err := r.postings.Update(ctx, posting); err != nil {
		return nil, err
	}
	return posting, nil
}

// Apply submits a candidate resume to a published posting. A second
// application from the same applicant is rejected.
func (r *Recruiter) Apply(ctx context.Context, postingID, applicantID, resumeText, extractedText string) (*types.Application, error) {
	posting, err := r.postings.GetPublished(ctx, postingID)
	if err != nil {
		return nil, err
	}

	resume, err := NormalizeDocument(resumeText, extractedText, MinResumeLength, "resume")
	if err != nil {
		return nil, err
	}

	if existing, err := r.applications.GetByJobAndApplicant(ctx, posting.ID, applicantID); err == nil && existing != nil {
		return nil, errors.NewValidationError(errors.ErrCodeDuplicate,
			"An application for this posting already exists", nil)
	}

	application := &types.Application{
		JobID:            posting.ID,
		ApplicantID:      applicantID,
		ResumeText:       Truncate(resume, r.textLimit),
		ExtractedProfile: r.extractor.Extract(ctx, resume),
	}
	if err := r.applications.Insert(ctx, application); err != nil {
		return nil, err
	}

	r.logger.Info("Application received",
		"posting_id", posting.ID,
		"application_id", application.ID)

	return application, nil
}

// AnalyzeCandidate scores one application against the posting's reference
// profile. The analysis and score are stored on the application only after a
// successful decode.
func (r *Recruiter) AnalyzeCandidate(ctx context.Context, ownerID, postingID, applicationID string) (*types.Application, error) {
	posting, err := r.postings.GetByID(ctx, postingID, ownerID)
	if err != nil {
		return nil, err
	}
	application, err := r.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.JobID != posting.ID {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound,
			"Application does not belong to this posting", nil)
	}
	if posting.ReferenceProfile == nil {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Posting has no reference profile", nil)
	}

	candidate := application.ExtractedProfile
	if candidate == nil {
		candidate = r.extractor.Extract(ctx, application.ResumeText)
	}
	if candidate == nil {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Candidate profile could not be extracted", nil)
	}

	analysis, err := r.scorer.CompareProfiles(ctx, posting.ReferenceProfile, candidate)
	if err != nil {
		return nil, err
	}

	score := analysis.OverallScore
	application.ExtractedProfile = candidate
	application.Analysis = analysis
	application.Score = &score
	if err := r.applications.Update(ctx, application); err != nil {
		return nil, err
	}

	r.logger.Info("Candidate analyzed",
		"posting_id", posting.ID,
		"application_id", application.ID,
		"score", score)

	return application, nil
}
