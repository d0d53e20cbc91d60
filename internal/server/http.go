package server

import (
	"time"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	cfErrors "careerforge/internal/errors"
	"careerforge/internal/pipeline"
	"careerforge/internal/store"
	"careerforge/internal/types"
)

// Request bodies for the API endpoints. ResumePDF carries raw PDF bytes,
// base64-encoded on the wire.
type GenerateRequest struct {
	Fields     types.ProfileFields  `json:"fields"`
	ResumeText string               `json:"resumeText"`
	ResumePDF  []byte               `json:"resumePdf,omitempty"`
	OfferText  string               `json:"offerText"`
	Format     types.DocumentFormat `json:"format"`
}

type RefineRequest struct {
	Instruction string `json:"instruction"`
}

type PatchGenerationRequest struct {
	CV          *string `json:"cv,omitempty"`
	CoverLetter *string `json:"coverLetter,omitempty"`
	Suggestions *string `json:"suggestions,omitempty"`
	CustomTitle *string `json:"customTitle,omitempty"`
}

type AnalyzeFitRequest struct {
	ResumeText string `json:"resumeText"`
	ResumePDF  []byte `json:"resumePdf,omitempty"`
	OfferText  string `json:"offerText"`
}

// PostingSummary is the applicant-facing view of a published posting. The
// reference CV and profile stay private to the posting owner.
type PostingSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Skills      string    `json:"skills"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreatePostingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Skills      string `json:"skills"`
}

type ApplyRequest struct {
	ResumeText string `json:"resumeText"`
	ResumePDF  []byte `json:"resumePdf,omitempty"`
}

type GenerateQuizRequest struct {
	JobDescription string `json:"jobDescription"`
	Skills         string `json:"skills"`
	Count          int    `json:"count"`
}

type SubmitQuizRequest struct {
	Answers []types.QuizAnswer `json:"answers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and wired pipeline stages for the HTTP API
type Server struct {
	Host    string
	Port    string
	Version string

	Config *config.Config

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *cfErrors.Logger

	client    ai.Client
	store     *store.Store
	generator *pipeline.Generator
	refiner   *pipeline.Refiner
	scorer    *pipeline.Scorer
	extractor *pipeline.Extractor
	recruiter *pipeline.Recruiter
	quizzes   *pipeline.QuizEngine
}

// NewServer wires the pipeline stages onto an HTTP server instance
func NewServer(cfg *config.Config, version string, client ai.Client, st *store.Store, prompts *config.PromptStore, logger *cfErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.Server.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.Server.RateLimit.RequestsPerMin,
			cfg.Server.RateLimit.BurstCapacity,
			logger,
		)
	}

	textLimit := cfg.App.PersistedTextLimit
	extractor := pipeline.NewExtractor(client, prompts, logger)
	scorer := pipeline.NewScorer(client, prompts, logger)

	return &Server{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		Config:         cfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		client:         client,
		store:          st,
		generator:      pipeline.NewGenerator(client, prompts, extractor, st.Artifacts, textLimit, logger),
		refiner:        pipeline.NewRefiner(client, prompts, extractor, st.Artifacts, st.Postings, logger),
		scorer:         scorer,
		extractor:      extractor,
		recruiter:      pipeline.NewRecruiter(client, prompts, extractor, scorer, st.Postings, st.Applications, textLimit, logger),
		quizzes:        pipeline.NewQuizEngine(client, prompts, st.Quizzes, logger),
	}
}
