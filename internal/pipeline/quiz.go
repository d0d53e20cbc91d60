package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"careerforge/internal/ai"
	"careerforge/internal/config"
	"careerforge/internal/errors"
	"careerforge/internal/store"
	"careerforge/internal/types"
)

// QuizEngine generates question sets and grades submissions. It shares the
// score normalization law with the fit scoring engine.
type QuizEngine struct {
	client  ai.Client
	prompts *config.PromptStore
	quizzes store.QuizRepository
	logger  *errors.Logger
}

// NewQuizEngine creates a quiz engine
func NewQuizEngine(client ai.Client, prompts *config.PromptStore, quizzes store.QuizRepository, logger *errors.Logger) *QuizEngine {
	return &QuizEngine{client: client, prompts: prompts, quizzes: quizzes, logger: logger}
}

var (
	quizGenerateTemperature = float32(0.7)
	quizEvaluateTemperature = float32(0.3)
)

const defaultQuestionCount = 10

// rawQuiz is the tolerant decoding shape for quiz generation responses
type rawQuiz struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   []struct {
		Type          string     `json:"type"`
		Question      string     `json:"question"`
		Options       []string   `json:"options"`
		CorrectAnswer *FlexScore `json:"correctAnswer"`
		Points        FlexScore  `json:"points"`
		Context       string     `json:"context"`
	} `json:"questions"`
}

// GenerateQuiz builds a quiz from a job description and/or a skills list.
// count is advisory: it is appended to the prompt, never enforced on the
// result.
func (q *QuizEngine) GenerateQuiz(ctx context.Context, ownerID, jobDescription, skills string, count int) (*types.Quiz, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	skills = strings.TrimSpace(skills)
	if jobDescription == "" && skills == "" {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Provide a job description or a skills list", nil)
	}
	if count <= 0 {
		count = defaultQuestionCount
	}

	var contextParts []string
	if jobDescription != "" {
		contextParts = append(contextParts, "Description du poste :\n"+jobDescription)
	}
	if skills != "" {
		contextParts = append(contextParts, "Compétences à évaluer :\n"+skills)
	}

	prompt := ai.RenderPrompt(q.prompts.Get(ai.PromptQuizGenerate), map[string]string{
		"context": strings.Join(contextParts, "\n\n"),
		"count":   fmt.Sprintf("%d", count),
	})

	text, _, err := q.client.Complete(ctx, ai.CompletionRequest{
		System:      q.prompts.Get(ai.PromptQuizSystem),
		User:        prompt,
		Tier:        ai.TierFast,
		Temperature: &quizGenerateTemperature,
	})
	if err != nil {
		return nil, err
	}

	var raw rawQuiz
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &raw); err != nil {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Quiz response is not valid JSON", err)
	}
	if len(raw.Questions) == 0 {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Quiz response contains no questions", nil)
	}

	quiz := &types.Quiz{
		OwnerID:     ownerID,
		Title:       raw.Title,
		Description: raw.Description,
	}
	for i, rq := range raw.Questions {
		question := types.QuizQuestion{
			ID:       fmt.Sprintf("q%d", i+1),
			Type:     types.QuestionType(rq.Type),
			Question: rq.Question,
			Options:  rq.Options,
			Points:   rq.Points.Int(),
			Context:  rq.Context,
		}
		if question.Points <= 0 {
			question.Points = 1
		}
		if question.Type == types.QuestionChoice && rq.CorrectAnswer != nil {
			idx := rq.CorrectAnswer.Int()
			question.CorrectAnswer = &idx
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := q.quizzes.Insert(ctx, quiz); err != nil {
		return nil, err
	}

	q.logger.Info("Quiz generated",
		"quiz_id", quiz.ID,
		"owner_id", ownerID,
		"questions", len(quiz.Questions))

	return quiz, nil
}

// rawQuizEvaluation is the tolerant decoding shape for grading responses
type rawQuizEvaluation struct {
	TotalScore FlexScore `json:"totalScore"`
	MaxScore   FlexScore `json:"maxScore"`
	Scores     []struct {
		QuestionID string    `json:"questionId"`
		Earned     FlexScore `json:"earned"`
		Max        FlexScore `json:"max"`
		Correct    bool      `json:"correct"`
		Feedback   string    `json:"feedback"`
	} `json:"scores"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	GlobalFeedback string   `json:"globalFeedback"`
}

// EvaluateQuiz grades a submission against a stored quiz. The rubric response
// must decode; on failure nothing is persisted.
func (q *QuizEngine) EvaluateQuiz(ctx context.Context, ownerID, quizID string, answers []types.QuizAnswer) (*types.QuizResponse, error) {
	if len(answers) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeMissingInput,
			"Missing required field: answers", nil)
	}

	quiz, err := q.quizzes.GetByID(ctx, quizID, ownerID)
	if err != nil {
		return nil, err
	}

	prompt := ai.RenderPrompt(q.prompts.Get(ai.PromptQuizEvaluate), map[string]string{
		"answers": formatAnswerSheet(quiz, answers),
	})

	text, _, err := q.client.Complete(ctx, ai.CompletionRequest{
		System:      q.prompts.Get(ai.PromptQuizSystem),
		User:        prompt,
		Tier:        ai.TierFast,
		Temperature: &quizEvaluateTemperature,
	})
	if err != nil {
		return nil, err
	}

	var raw rawQuizEvaluation
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &raw); err != nil {
		return nil, errors.NewDecodeError(errors.ErrCodeResponseDecode,
			"Quiz evaluation response is not valid JSON", err)
	}

	evaluation := &types.QuizEvaluation{
		TotalScore:     raw.TotalScore.Int(),
		MaxScore:       raw.MaxScore.Int(),
		Strengths:      raw.Strengths,
		Improvements:   raw.Improvements,
		GlobalFeedback: raw.GlobalFeedback,
	}
	for _, s := range raw.Scores {
		evaluation.Scores = append(evaluation.Scores, types.QuestionScore{
			QuestionID: s.QuestionID,
			Earned:     s.Earned.Int(),
			Max:        s.Max.Int(),
			Correct:    s.Correct,
			Feedback:   s.Feedback,
		})
	}
	if evaluation.MaxScore == 0 {
		for _, question := range quiz.Questions {
			evaluation.MaxScore += question.Points
		}
	}
	evaluation.Percentage = Percentage(float64(raw.TotalScore), float64(evaluation.MaxScore))

	response := &types.QuizResponse{
		QuizID:     quiz.ID,
		OwnerID:    ownerID,
		Answers:    answers,
		Score:      evaluation.TotalScore,
		MaxScore:   evaluation.MaxScore,
		Evaluation: evaluation,
	}

	if err := q.quizzes.InsertResponse(ctx, response); err != nil {
		return nil, err
	}

	q.logger.Info("Quiz submission graded",
		"quiz_id", quiz.ID,
		"owner_id", ownerID,
		"score", response.Score,
		"max_score", response.MaxScore)

	return response, nil
}

// formatAnswerSheet pairs each question with its submitted answer, matching
// by question id when present and by position otherwise.
func formatAnswerSheet(quiz *types.Quiz, answers []types.QuizAnswer) string {
	byID := make(map[string]string, len(answers))
	for _, answer := range answers {
		if answer.QuestionID != "" {
			byID[answer.QuestionID] = answer.Answer
		}
	}

	var b strings.Builder
	for i, question := range quiz.Questions {
		answer, ok := byID[question.ID]
		if !ok && i < len(answers) && answers[i].QuestionID == "" {
			answer = answers[i].Answer
		}

		fmt.Fprintf(&b, "Question %s (%s, %d points) : %s\n", question.ID, question.Type, question.Points, question.Question)
		if len(question.Options) > 0 {
			for j, option := range question.Options {
				fmt.Fprintf(&b, "  Option %d : %s\n", j, option)
			}
			if question.CorrectAnswer != nil {
				fmt.Fprintf(&b, "  Bonne réponse attendue : option %d\n", *question.CorrectAnswer)
			}
		}
		if answer == "" {
			b.WriteString("Réponse du candidat : (aucune réponse)\n\n")
		} else {
			fmt.Fprintf(&b, "Réponse du candidat : %s\n\n", answer)
		}
	}
	return strings.TrimSpace(b.String())
}
