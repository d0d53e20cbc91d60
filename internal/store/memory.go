package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"careerforge/internal/errors"
	"careerforge/internal/types"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation. It backs tests and the
// CLI's storeless commands, and counts every successful mutation so callers
// can assert all-or-nothing behavior.
type MemoryStore struct {
	mu        sync.RWMutex
	mutations atomic.Int64

	artifacts    map[string]types.GenerationArtifact
	postings     map[string]types.JobPosting
	applications map[string]types.Application
	analyses     map[string]types.AnalysisRecord
	quizzes      map[string]types.Quiz
	responses    map[string]types.QuizResponse
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts:    map[string]types.GenerationArtifact{},
		postings:     map[string]types.JobPosting{},
		applications: map[string]types.Application{},
		analyses:     map[string]types.AnalysisRecord{},
		quizzes:      map[string]types.Quiz{},
		responses:    map[string]types.QuizResponse{},
	}
}

// Store returns the repository bundle backed by this memory store
func (m *MemoryStore) Store() *Store {
	return &Store{
		Artifacts:    (*memoryArtifacts)(m),
		Postings:     (*memoryPostings)(m),
		Applications: (*memoryApplications)(m),
		Analyses:     (*memoryAnalyses)(m),
		Quizzes:      (*memoryQuizzes)(m),
	}
}

// MutationCount reports how many inserts, updates and deletes have succeeded
func (m *MemoryStore) MutationCount() int64 {
	return m.mutations.Load()
}

func (m *MemoryStore) mutated() {
	m.mutations.Add(1)
}

type memoryArtifacts MemoryStore

func (m *memoryArtifacts) Insert(_ context.Context, artifact *types.GenerationArtifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if artifact.ID == "" {
		artifact.ID = uuid.New().String()
	}
	now := time.Now()
	artifact.CreatedAt = now
	artifact.UpdatedAt = now
	m.artifacts[artifact.ID] = *artifact
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryArtifacts) GetByID(_ context.Context, id, ownerID string) (*types.GenerationArtifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	artifact, ok := m.artifacts[id]
	if !ok || artifact.OwnerID != ownerID {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Artifact not found", nil)
	}
	return &artifact, nil
}

func (m *memoryArtifacts) ListByOwner(_ context.Context, ownerID string) ([]types.GenerationArtifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var artifacts []types.GenerationArtifact
	for _, artifact := range m.artifacts {
		if artifact.OwnerID == ownerID {
			artifacts = append(artifacts, artifact)
		}
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	return artifacts, nil
}

func (m *memoryArtifacts) Update(_ context.Context, artifact *types.GenerationArtifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.artifacts[artifact.ID]
	if !ok || existing.OwnerID != artifact.OwnerID {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Artifact not found", nil)
	}
	artifact.CreatedAt = existing.CreatedAt
	artifact.UpdatedAt = time.Now()
	m.artifacts[artifact.ID] = *artifact
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryArtifacts) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	artifact, ok := m.artifacts[id]
	if !ok || artifact.OwnerID != ownerID {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Artifact not found", nil)
	}
	delete(m.artifacts, id)
	(*MemoryStore)(m).mutated()
	return nil
}

type memoryPostings MemoryStore

func (m *memoryPostings) Insert(_ context.Context, posting *types.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if posting.ID == "" {
		posting.ID = uuid.New().String()
	}
	now := time.Now()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	m.postings[posting.ID] = *posting
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryPostings) GetByID(_ context.Context, id, ownerID string) (*types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posting, ok := m.postings[id]
	if !ok || posting.OwnerID != ownerID {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", nil)
	}
	return &posting, nil
}

func (m *memoryPostings) GetPublished(_ context.Context, id string) (*types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posting, ok := m.postings[id]
	if !ok || posting.Status != types.PostingPublished {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", nil)
	}
	return &posting, nil
}

func (m *memoryPostings) ListPublished(_ context.Context) ([]types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var postings []types.JobPosting
	for _, posting := range m.postings {
		if posting.Status == types.PostingPublished {
			postings = append(postings, posting)
		}
	}
	sort.Slice(postings, func(i, j int) bool {
		return postings[i].CreatedAt.After(postings[j].CreatedAt)
	})
	return postings, nil
}

func (m *memoryPostings) ListByOwner(_ context.Context, ownerID string) ([]types.JobPosting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var postings []types.JobPosting
	for _, posting := range m.postings {
		if posting.OwnerID == ownerID {
			postings = append(postings, posting)
		}
	}
	sort.Slice(postings, func(i, j int) bool {
		return postings[i].CreatedAt.After(postings[j].CreatedAt)
	})
	return postings, nil
}

func (m *memoryPostings) Update(_ context.Context, posting *types.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.postings[posting.ID]
	if !ok || existing.OwnerID != posting.OwnerID {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", nil)
	}
	posting.CreatedAt = existing.CreatedAt
	posting.UpdatedAt = time.Now()
	m.postings[posting.ID] = *posting
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryPostings) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	posting, ok := m.postings[id]
	if !ok || posting.OwnerID != ownerID {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", nil)
	}
	delete(m.postings, id)
	(*MemoryStore)(m).mutated()
	return nil
}

type memoryApplications MemoryStore

func (m *memoryApplications) Insert(_ context.Context, application *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.applications {
		if existing.JobID == application.JobID && existing.ApplicantID == application.ApplicantID {
			return errors.NewValidationError(errors.ErrCodeDuplicate,
				"An application for this posting already exists", nil)
		}
	}

	if application.ID == "" {
		application.ID = uuid.New().String()
	}
	application.CreatedAt = time.Now()
	m.applications[application.ID] = *application
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryApplications) GetByID(_ context.Context, id string) (*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	application, ok := m.applications[id]
	if !ok {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Application not found", nil)
	}
	return &application, nil
}

func (m *memoryApplications) GetByJobAndApplicant(_ context.Context, jobID, applicantID string) (*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, application := range m.applications {
		if application.JobID == jobID && application.ApplicantID == applicantID {
			return &application, nil
		}
	}
	return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Application not found", nil)
}

func (m *memoryApplications) ListByJob(_ context.Context, jobID string) ([]types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var applications []types.Application
	for _, application := range m.applications {
		if application.JobID == jobID {
			applications = append(applications, application)
		}
	}
	sort.Slice(applications, func(i, j int) bool {
		si, sj := -1, -1
		if applications[i].Score != nil {
			si = *applications[i].Score
		}
		if applications[j].Score != nil {
			sj = *applications[j].Score
		}
		if si != sj {
			return si > sj
		}
		return applications[i].CreatedAt.Before(applications[j].CreatedAt)
	})
	return applications, nil
}

func (m *memoryApplications) Update(_ context.Context, application *types.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.applications[application.ID]
	if !ok {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Application not found", nil)
	}
	application.CreatedAt = existing.CreatedAt
	m.applications[application.ID] = *application
	(*MemoryStore)(m).mutated()
	return nil
}

type memoryAnalyses MemoryStore

func (m *memoryAnalyses) Insert(_ context.Context, record *types.AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	m.analyses[record.ID] = *record
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryAnalyses) ListByOwner(_ context.Context, ownerID string) ([]types.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []types.AnalysisRecord
	for _, record := range m.analyses {
		if record.OwnerID == ownerID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

type memoryQuizzes MemoryStore

func (m *memoryQuizzes) Insert(_ context.Context, quiz *types.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quiz.ID == "" {
		quiz.ID = uuid.New().String()
	}
	quiz.CreatedAt = time.Now()
	m.quizzes[quiz.ID] = *quiz
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryQuizzes) GetByID(_ context.Context, id, ownerID string) (*types.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quiz, ok := m.quizzes[id]
	if !ok || quiz.OwnerID != ownerID {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Quiz not found", nil)
	}
	return &quiz, nil
}

func (m *memoryQuizzes) ListByOwner(_ context.Context, ownerID string) ([]types.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var quizzes []types.Quiz
	for _, quiz := range m.quizzes {
		if quiz.OwnerID == ownerID {
			quizzes = append(quizzes, quiz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

func (m *memoryQuizzes) InsertResponse(_ context.Context, response *types.QuizResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	response.CreatedAt = time.Now()
	m.responses[response.ID] = *response
	(*MemoryStore)(m).mutated()
	return nil
}

func (m *memoryQuizzes) ListResponses(_ context.Context, quizID, ownerID string) ([]types.QuizResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var responses []types.QuizResponse
	for _, response := range m.responses {
		if response.QuizID == quizID && response.OwnerID == ownerID {
			responses = append(responses, response)
		}
	}
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].CreatedAt.After(responses[j].CreatedAt)
	})
	return responses, nil
}
