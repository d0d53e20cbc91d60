package pipeline

import (
	"context"
	"strings"
	"testing"

	"careerforge/internal/ai"
	"careerforge/internal/errors"
	"careerforge/internal/store"
	"careerforge/internal/types"
)

func newTestQuizEngine(t *testing.T, client ai.Client) (*QuizEngine, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	return NewQuizEngine(client, newTestPrompts(t), mem.Store().Quizzes, testLogger(t)), mem
}

const quizFixture = `{
	"title": "Évaluation Go backend",
	"description": "Questions sur Go et PostgreSQL",
	"questions": [
		{"type": "qcm", "question": "Que fait make(chan int, 3) ?", "options": ["canal non bufferisé", "canal bufferisé", "slice"], "correctAnswer": 1, "points": 2},
		{"type": "open", "question": "Expliquez le modèle de concurrence de Go", "points": "5"},
		{"type": "practical", "question": "Corrigez la fuite de goroutine", "points": 3, "context": "func leak() { ch := make(chan int) ... }"}
	]
}`

func TestGenerateQuiz(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: "```json\n" + quizFixture + "\n```"}}}
	engine, mem := newTestQuizEngine(t, client)

	quiz, err := engine.GenerateQuiz(context.Background(), "recruiter-1", "Poste backend Go", "Go, PostgreSQL", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quiz.ID == "" {
		t.Error("quiz should have an id after insert")
	}
	if quiz.Title != "Évaluation Go backend" {
		t.Errorf("Title = %q", quiz.Title)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(quiz.Questions))
	}

	first := quiz.Questions[0]
	if first.ID != "q1" {
		t.Errorf("first question id = %q, want q1", first.ID)
	}
	if first.Type != types.QuestionChoice {
		t.Errorf("first question type = %q, want qcm", first.Type)
	}
	if first.CorrectAnswer == nil || *first.CorrectAnswer != 1 {
		t.Errorf("CorrectAnswer = %v, want 1", first.CorrectAnswer)
	}
	if first.Points != 2 {
		t.Errorf("Points = %d, want 2", first.Points)
	}

	second := quiz.Questions[1]
	if second.ID != "q2" || second.Type != types.QuestionOpen {
		t.Errorf("second question = %q/%q", second.ID, second.Type)
	}
	if second.Points != 5 {
		t.Errorf("string points = %d, want 5", second.Points)
	}
	if second.CorrectAnswer != nil {
		t.Error("open questions have no correct answer index")
	}

	third := quiz.Questions[2]
	if third.Type != types.QuestionPractical || third.Context == "" {
		t.Errorf("third question = %+v, want practical with context", third)
	}

	if mem.MutationCount() != 1 {
		t.Errorf("mutation count = %d, want 1", mem.MutationCount())
	}

	req := client.lastRequest(t)
	if req.Tier != ai.TierFast {
		t.Errorf("tier = %q, want fast", req.Tier)
	}
	if req.Temperature == nil || *req.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req.Temperature)
	}
	for _, embedded := range []string{"Poste backend Go", "Go, PostgreSQL", "3"} {
		if !strings.Contains(req.User, embedded) {
			t.Errorf("prompt missing %q", embedded)
		}
	}
}

func TestGenerateQuizDefaultsPoints(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: `{"title":"t","questions":[{"type":"open","question":"q","points":"beaucoup"}]}`},
	}}
	engine, _ := newTestQuizEngine(t, client)

	quiz, err := engine.GenerateQuiz(context.Background(), "r", "description du poste", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quiz.Questions[0].Points != 1 {
		t.Errorf("unparseable points = %d, want default 1", quiz.Questions[0].Points)
	}

	req := client.lastRequest(t)
	if !strings.Contains(req.User, "10") {
		t.Error("zero count should fall back to the default question count")
	}
}

func TestGenerateQuizValidation(t *testing.T) {
	engine, mem := newTestQuizEngine(t, &fakeClient{})

	_, err := engine.GenerateQuiz(context.Background(), "r", "  ", "", 5)
	assertAppError(t, err, errors.ErrorTypeValidation, errors.ErrCodeMissingInput)
	if mem.MutationCount() != 0 {
		t.Error("validation failure must not persist anything")
	}
}

func TestGenerateQuizDecodeFailurePersistsNothing(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "voici dix questions..."},
		{"empty question list", `{"title":"t","questions":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{responses: []fakeResponse{{text: tt.text}}}
			engine, mem := newTestQuizEngine(t, client)

			_, err := engine.GenerateQuiz(context.Background(), "r", "description du poste", "", 5)
			assertAppError(t, err, errors.ErrorTypeDecode, errors.ErrCodeResponseDecode)
			if mem.MutationCount() != 0 {
				t.Errorf("mutation count = %d, want 0", mem.MutationCount())
			}
		})
	}
}

func seedQuiz(t *testing.T, mem *store.MemoryStore) *types.Quiz {
	t.Helper()
	correct := 1
	quiz := &types.Quiz{
		OwnerID: "recruiter-1",
		Title:   "Quiz Go",
		Questions: []types.QuizQuestion{
			{ID: "q1", Type: types.QuestionChoice, Question: "Canal bufferisé ?", Options: []string{"non", "oui"}, CorrectAnswer: &correct, Points: 2},
			{ID: "q2", Type: types.QuestionOpen, Question: "Expliquez defer", Points: 8},
		},
	}
	if err := mem.Store().Quizzes.Insert(context.Background(), quiz); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}

func TestEvaluateQuiz(t *testing.T) {
	evaluation := `{
		"totalScore": 7.6,
		"maxScore": 10,
		"scores": [
			{"questionId": "q1", "earned": 2, "max": 2, "correct": true, "feedback": "bonne réponse"},
			{"questionId": "q2", "earned": "5.6", "max": 8, "correct": false, "feedback": "incomplet"}
		],
		"strengths": ["concurrence"],
		"improvements": ["gestion des erreurs"],
		"globalFeedback": "Bon niveau général"
	}`
	client := &fakeClient{responses: []fakeResponse{{text: evaluation}}}
	engine, mem := newTestQuizEngine(t, client)
	quiz := seedQuiz(t, mem)

	answers := []types.QuizAnswer{
		{QuestionID: "q1", Answer: "oui"},
		{QuestionID: "q2", Answer: "defer diffère l'exécution"},
	}
	response, err := engine.EvaluateQuiz(context.Background(), "recruiter-1", quiz.ID, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if response.Score != 8 {
		t.Errorf("Score = %d, want 8 (7.6 rounded)", response.Score)
	}
	if response.MaxScore != 10 {
		t.Errorf("MaxScore = %d, want 10", response.MaxScore)
	}
	if response.Evaluation.Percentage != 76 {
		t.Errorf("Percentage = %d, want 76", response.Evaluation.Percentage)
	}
	if len(response.Evaluation.Scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(response.Evaluation.Scores))
	}
	if response.Evaluation.Scores[1].Earned != 6 {
		t.Errorf("string earned = %d, want 6", response.Evaluation.Scores[1].Earned)
	}

	req := client.lastRequest(t)
	if req.Temperature == nil || *req.Temperature != 0.3 {
		t.Errorf("temperature = %v, want 0.3", req.Temperature)
	}
	for _, embedded := range []string{"Canal bufferisé ?", "oui", "defer diffère l'exécution"} {
		if !strings.Contains(req.User, embedded) {
			t.Errorf("prompt missing %q", embedded)
		}
	}

	// Quiz insert plus response insert
	if mem.MutationCount() != 2 {
		t.Errorf("mutation count = %d, want 2", mem.MutationCount())
	}
}

func TestEvaluateQuizMissingMaxScoreFallsBackToQuestionPoints(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{text: `{"totalScore": 5, "scores": []}`},
	}}
	engine, mem := newTestQuizEngine(t, client)
	quiz := seedQuiz(t, mem)

	response, err := engine.EvaluateQuiz(context.Background(), "recruiter-1", quiz.ID,
		[]types.QuizAnswer{{QuestionID: "q1", Answer: "oui"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.MaxScore != 10 {
		t.Errorf("MaxScore = %d, want sum of question points", response.MaxScore)
	}
	if response.Evaluation.Percentage != 50 {
		t.Errorf("Percentage = %d, want 50", response.Evaluation.Percentage)
	}
}

func TestEvaluateQuizDecodeFailurePersistsNothing(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{text: "note : 8/10"}}}
	engine, mem := newTestQuizEngine(t, client)
	quiz := seedQuiz(t, mem)
	before := mem.MutationCount()

	_, err := engine.EvaluateQuiz(context.Background(), "recruiter-1", quiz.ID,
		[]types.QuizAnswer{{QuestionID: "q1", Answer: "oui"}})
	assertAppError(t, err, errors.ErrorTypeDecode, errors.ErrCodeResponseDecode)

	if mem.MutationCount() != before {
		t.Error("decode failure must not persist a response")
	}
	responses, err := mem.Store().Quizzes.ListResponses(context.Background(), quiz.ID, "recruiter-1")
	if err != nil {
		t.Fatalf("list responses: %v", err)
	}
	if len(responses) != 0 {
		t.Errorf("got %d responses, want 0", len(responses))
	}
}

func TestEvaluateQuizValidation(t *testing.T) {
	engine, mem := newTestQuizEngine(t, &fakeClient{})
	quiz := seedQuiz(t, mem)

	_, err := engine.EvaluateQuiz(context.Background(), "recruiter-1", quiz.ID, nil)
	assertAppError(t, err, errors.ErrorTypeValidation, errors.ErrCodeMissingInput)

	_, err = engine.EvaluateQuiz(context.Background(), "recruiter-1", "no-such-quiz",
		[]types.QuizAnswer{{QuestionID: "q1", Answer: "x"}})
	assertAppError(t, err, errors.ErrorTypeNotFound, errors.ErrCodeNotFound)

	_, err = engine.EvaluateQuiz(context.Background(), "someone-else", quiz.ID,
		[]types.QuizAnswer{{QuestionID: "q1", Answer: "x"}})
	assertAppError(t, err, errors.ErrorTypeNotFound, errors.ErrCodeNotFound)
}
