package store

import (
	"context"
	"testing"

	"careerforge/internal/errors"
	"careerforge/internal/types"
)

func TestMemoryArtifactsOwnerScoping(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	st := mem.Store()

	artifact := &types.GenerationArtifact{OwnerID: "u1", CV: "cv"}
	if err := st.Artifacts.Insert(ctx, artifact); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if artifact.ID == "" {
		t.Fatal("Insert did not assign an ID")
	}
	if artifact.CreatedAt.IsZero() || artifact.UpdatedAt.IsZero() {
		t.Error("Insert did not set timestamps")
	}

	if _, err := st.Artifacts.GetByID(ctx, artifact.ID, "u1"); err != nil {
		t.Fatalf("GetByID as owner: %v", err)
	}
	if _, err := st.Artifacts.GetByID(ctx, artifact.ID, "u2"); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("GetByID as stranger: err = %v, want not_found", err)
	}
	if err := st.Artifacts.Delete(ctx, artifact.ID, "u2"); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("Delete as stranger: err = %v, want not_found", err)
	}

	listed, err := st.Artifacts.ListByOwner(ctx, "u1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("ListByOwner = %v, %v", listed, err)
	}
	if other, _ := st.Artifacts.ListByOwner(ctx, "u2"); len(other) != 0 {
		t.Errorf("stranger sees %d artifacts", len(other))
	}

	if err := st.Artifacts.Delete(ctx, artifact.ID, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Artifacts.GetByID(ctx, artifact.ID, "u1"); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("GetByID after delete: err = %v, want not_found", err)
	}
}

func TestMemoryArtifactsUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore().Store()

	artifact := &types.GenerationArtifact{OwnerID: "u1", CV: "first"}
	if err := st.Artifacts.Insert(ctx, artifact); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	created := artifact.CreatedAt

	artifact.CV = "second"
	if err := st.Artifacts.Update(ctx, artifact); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !artifact.CreatedAt.Equal(created) {
		t.Errorf("Update changed CreatedAt: %v != %v", artifact.CreatedAt, created)
	}

	stored, err := st.Artifacts.GetByID(ctx, artifact.ID, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.CV != "second" {
		t.Errorf("CV = %q", stored.CV)
	}
}

func TestMemoryPostingsPublishedVisibility(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore().Store()

	draft := &types.JobPosting{OwnerID: "r1", Title: "Dev", Status: types.PostingDraft}
	if err := st.Postings.Insert(ctx, draft); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if _, err := st.Postings.GetPublished(ctx, draft.ID); !errors.IsType(err, errors.ErrorTypeNotFound) {
		t.Errorf("GetPublished on draft: err = %v, want not_found", err)
	}

	draft.Status = types.PostingPublished
	if err := st.Postings.Update(ctx, draft); err != nil {
		t.Fatalf("Update: %v", err)
	}
	published, err := st.Postings.GetPublished(ctx, draft.ID)
	if err != nil {
		t.Fatalf("GetPublished: %v", err)
	}
	if published.Title != "Dev" {
		t.Errorf("Title = %q", published.Title)
	}
}

func TestMemoryPostingsListPublished(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore().Store()

	older := &types.JobPosting{OwnerID: "r1", Title: "Backend", Status: types.PostingPublished}
	draft := &types.JobPosting{OwnerID: "r1", Title: "Frontend", Status: types.PostingDraft}
	newer := &types.JobPosting{OwnerID: "r2", Title: "DevOps", Status: types.PostingPublished}
	for _, posting := range []*types.JobPosting{older, draft, newer} {
		if err := st.Postings.Insert(ctx, posting); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	published, err := st.Postings.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("len = %d, want 2", len(published))
	}
	// Newest first, drafts excluded, all owners visible
	if published[0].Title != "DevOps" || published[1].Title != "Backend" {
		t.Errorf("order = %q, %q", published[0].Title, published[1].Title)
	}
}

func TestMemoryApplicationsUniquePerApplicant(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	st := mem.Store()

	first := &types.Application{JobID: "j1", ApplicantID: "a1", ResumeText: "resume"}
	if err := st.Applications.Insert(ctx, first); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	before := mem.MutationCount()

	dup := &types.Application{JobID: "j1", ApplicantID: "a1", ResumeText: "resume again"}
	err := st.Applications.Insert(ctx, dup)
	if !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Fatalf("duplicate insert: err = %v, want validation", err)
	}
	if mem.MutationCount() != before {
		t.Error("rejected insert counted as mutation")
	}

	// Same applicant on another posting is fine
	other := &types.Application{JobID: "j2", ApplicantID: "a1", ResumeText: "resume"}
	if err := st.Applications.Insert(ctx, other); err != nil {
		t.Fatalf("insert on second posting: %v", err)
	}
}

func TestMemoryApplicationsListOrderedByScore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore().Store()

	scores := []int{40, 90, 70}
	for i, score := range scores {
		s := score
		app := &types.Application{
			JobID:       "j1",
			ApplicantID: string(rune('a' + i)),
			ResumeText:  "resume",
			Score:       &s,
		}
		if err := st.Applications.Insert(ctx, app); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	unscored := &types.Application{JobID: "j1", ApplicantID: "z", ResumeText: "resume"}
	if err := st.Applications.Insert(ctx, unscored); err != nil {
		t.Fatalf("Insert unscored: %v", err)
	}

	listed, err := st.Applications.ListByJob(ctx, "j1")
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(listed) != 4 {
		t.Fatalf("listed %d applications", len(listed))
	}
	want := []int{90, 70, 40}
	for i, score := range want {
		if listed[i].Score == nil || *listed[i].Score != score {
			t.Errorf("listed[%d].Score = %v, want %d", i, listed[i].Score, score)
		}
	}
	if listed[3].Score != nil {
		t.Errorf("unscored application should sort last, got %v", listed[3].Score)
	}
}

func TestMemoryQuizResponses(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore().Store()

	quiz := &types.Quiz{OwnerID: "u1", Title: "Quiz Go"}
	if err := st.Quizzes.Insert(ctx, quiz); err != nil {
		t.Fatalf("Insert quiz: %v", err)
	}

	response := &types.QuizResponse{QuizID: quiz.ID, OwnerID: "u1", Score: 7, MaxScore: 10}
	if err := st.Quizzes.InsertResponse(ctx, response); err != nil {
		t.Fatalf("InsertResponse: %v", err)
	}

	listed, err := st.Quizzes.ListResponses(ctx, quiz.ID, "u1")
	if err != nil || len(listed) != 1 {
		t.Fatalf("ListResponses = %v, %v", listed, err)
	}
	if other, _ := st.Quizzes.ListResponses(ctx, quiz.ID, "u2"); len(other) != 0 {
		t.Errorf("stranger sees %d responses", len(other))
	}
}

func TestMemoryMutationCount(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	st := mem.Store()

	if mem.MutationCount() != 0 {
		t.Fatalf("fresh store MutationCount = %d", mem.MutationCount())
	}

	artifact := &types.GenerationArtifact{OwnerID: "u1"}
	_ = st.Artifacts.Insert(ctx, artifact)
	_ = st.Artifacts.Update(ctx, artifact)
	_ = st.Artifacts.Delete(ctx, artifact.ID, "u1")

	if got := mem.MutationCount(); got != 3 {
		t.Errorf("MutationCount = %d, want 3", got)
	}

	// Reads never count
	_, _ = st.Artifacts.ListByOwner(ctx, "u1")
	if got := mem.MutationCount(); got != 3 {
		t.Errorf("MutationCount after reads = %d, want 3", got)
	}
}
