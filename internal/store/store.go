package store

import (
	"context"
	"fmt"

	"careerforge/internal/config"
	"careerforge/internal/types"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ArtifactRepository persists generation artifacts, scoped by owner
type ArtifactRepository interface {
	Insert(ctx context.Context, artifact *types.GenerationArtifact) error
	GetByID(ctx context.Context, id, ownerID string) (*types.GenerationArtifact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.GenerationArtifact, error)
	Update(ctx context.Context, artifact *types.GenerationArtifact) error
	Delete(ctx context.Context, id, ownerID string) error
}

// PostingRepository persists recruiter job postings
type PostingRepository interface {
	Insert(ctx context.Context, posting *types.JobPosting) error
	GetByID(ctx context.Context, id, ownerID string) (*types.JobPosting, error)
	GetPublished(ctx context.Context, id string) (*types.JobPosting, error)
	ListPublished(ctx context.Context) ([]types.JobPosting, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.JobPosting, error)
	Update(ctx context.Context, posting *types.JobPosting) error
	Delete(ctx context.Context, id, ownerID string) error
}

// ApplicationRepository persists applications. The (JobID, ApplicantID) pair
// is unique; callers check for an existing application before inserting and
// the table carries a unique index as backstop.
type ApplicationRepository interface {
	Insert(ctx context.Context, application *types.Application) error
	GetByID(ctx context.Context, id string) (*types.Application, error)
	GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*types.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]types.Application, error)
	Update(ctx context.Context, application *types.Application) error
}

// AnalysisRepository persists resume-vs-offer analysis history
type AnalysisRepository interface {
	Insert(ctx context.Context, record *types.AnalysisRecord) error
	ListByOwner(ctx context.Context, ownerID string) ([]types.AnalysisRecord, error)
}

// QuizRepository persists generated quizzes and graded submissions
type QuizRepository interface {
	Insert(ctx context.Context, quiz *types.Quiz) error
	GetByID(ctx context.Context, id, ownerID string) (*types.Quiz, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.Quiz, error)
	InsertResponse(ctx context.Context, response *types.QuizResponse) error
	ListResponses(ctx context.Context, quizID, ownerID string) ([]types.QuizResponse, error)
}

// Store bundles all repositories
type Store struct {
	Artifacts    ArtifactRepository
	Postings     PostingRepository
	Applications ApplicationRepository
	Analyses     AnalysisRepository
	Quizzes      QuizRepository
}

// Open connects to Postgres, runs migrations and returns a gorm-backed store
func Open(cfg config.DatabaseConfig, debug bool) (*Store, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // surfaces gorm.ErrDuplicatedKey on unique violations
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&artifactRow{},
		&postingRow{},
		&applicationRow{},
		&analysisRow{},
		&quizRow{},
		&quizResponseRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return New(db), nil
}

// New builds a gorm-backed store from an open connection
func New(db *gorm.DB) *Store {
	return &Store{
		Artifacts:    &artifactRepository{db: db},
		Postings:     &postingRepository{db: db},
		Applications: &applicationRepository{db: db},
		Analyses:     &analysisRepository{db: db},
		Quizzes:      &quizRepository{db: db},
	}
}
