package store

import (
	"encoding/json"
	"time"

	"careerforge/internal/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Row models keep the persisted shape independent of the domain types.
// Nested documents (profiles, analyses, questions) are stored as jsonb blobs.

type artifactRow struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	OwnerID          string    `gorm:"type:text;index;not null"`
	SourceFields     []byte    `gorm:"type:jsonb"`
	SourceProfile    []byte    `gorm:"type:jsonb"`
	SourceResumeText string    `gorm:"type:text"`
	TargetOfferText  string    `gorm:"type:text"`
	CV               string    `gorm:"type:text"`
	CoverLetter      string    `gorm:"type:text"`
	Suggestions      string    `gorm:"type:text"`
	Format           string    `gorm:"type:text;not null"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (artifactRow) TableName() string { return "generation_artifacts" }

func (r *artifactRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type postingRow struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	OwnerID          string    `gorm:"type:text;index;not null"`
	Title            string    `gorm:"type:text;not null"`
	Description      string    `gorm:"type:text"`
	Skills           string    `gorm:"type:text"`
	ReferenceCV      string    `gorm:"type:text"`
	ReferenceProfile []byte    `gorm:"type:jsonb"`
	Status           string    `gorm:"type:text;not null"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (postingRow) TableName() string { return "job_postings" }

func (r *postingRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type applicationRow struct {
	ID               string    `gorm:"type:uuid;primaryKey"`
	JobID            string    `gorm:"type:uuid;uniqueIndex:idx_applications_job_applicant;not null"`
	ApplicantID      string    `gorm:"type:text;uniqueIndex:idx_applications_job_applicant;not null"`
	ResumeText       string    `gorm:"type:text"`
	ExtractedProfile []byte    `gorm:"type:jsonb"`
	Analysis         []byte    `gorm:"type:jsonb"`
	Score            *int      `gorm:""`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (applicationRow) TableName() string { return "applications" }

func (r *applicationRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type analysisRow struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	OwnerID      string    `gorm:"type:text;index;not null"`
	ResumeText   string    `gorm:"type:text"`
	OfferText    string    `gorm:"type:text"`
	Analysis     []byte    `gorm:"type:jsonb"`
	OverallScore int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (analysisRow) TableName() string { return "cv_analyses" }

func (r *analysisRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type quizRow struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	OwnerID     string    `gorm:"type:text;index;not null"`
	Title       string    `gorm:"type:text"`
	Description string    `gorm:"type:text"`
	Questions   []byte    `gorm:"type:jsonb"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (quizRow) TableName() string { return "quizzes" }

func (r *quizRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type quizResponseRow struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	QuizID     string    `gorm:"type:uuid;index;not null"`
	OwnerID    string    `gorm:"type:text;index;not null"`
	Answers    []byte    `gorm:"type:jsonb"`
	Score      int       `gorm:"not null"`
	MaxScore   int       `gorm:"not null"`
	Evaluation []byte    `gorm:"type:jsonb"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (quizResponseRow) TableName() string { return "quiz_responses" }

func (r *quizResponseRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

func unmarshalProfile(data []byte) (*types.StructuredProfile, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var profile types.StructuredProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func unmarshalAnalysis(data []byte) (*types.FitAnalysis, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var analysis types.FitAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}
