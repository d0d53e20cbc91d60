package server

import (
	"context"
	"net/http"

	"careerforge/internal/observability"
	"careerforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// generateQuizHandler builds a skills quiz from a job description or skill list
func (s *Server) generateQuizHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.generate_quiz")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		var req GenerateQuizRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		metrics := om.GetMetrics()
		var quiz *types.Quiz
		err := metrics.TrackAIOperationWithTokens(ctx, "generate_quiz", func(ctx context.Context) *observability.AIOperationResult {
			var genErr error
			quiz, genErr = s.quizzes.GenerateQuiz(ctx, owner, req.JobDescription, req.Skills, req.Count)
			return &observability.AIOperationResult{Error: genErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "quiz_generated", false)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "quiz_generated", true,
			attribute.Int("question_count", len(quiz.Questions)))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("question_count", len(quiz.Questions)),
		)
		writeJSONStatus(w, quiz, http.StatusCreated)
	}
}

func (s *Server) listQuizzesHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	quizzes, err := s.store.Quizzes.ListByOwner(r.Context(), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if quizzes == nil {
		quizzes = []types.Quiz{}
	}
	writeJSON(w, quizzes)
}

func (s *Server) getQuizHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	quiz, err := s.store.Quizzes.GetByID(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, quiz)
}

// submitQuizHandler grades a completed answer sheet
func (s *Server) submitQuizHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("careerforge.api")
		ctx, span := tracer.Start(ctx, "api.submit_quiz")
		defer span.End()

		owner := s.ownerID(w, r)
		if owner == "" {
			return
		}

		var req SubmitQuizRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		metrics := om.GetMetrics()
		var response *types.QuizResponse
		err := metrics.TrackAIOperationWithTokens(ctx, "evaluate_quiz", func(ctx context.Context) *observability.AIOperationResult {
			var evalErr error
			response, evalErr = s.quizzes.EvaluateQuiz(ctx, owner, r.PathValue("id"), req.Answers)
			return &observability.AIOperationResult{Error: evalErr}
		})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "quiz_evaluated", false)
			s.writeAppError(w, r, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "quiz_evaluated", true,
			attribute.Int("score", response.Score))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("score", response.Score),
			attribute.Int("max_score", response.MaxScore),
		)
		writeJSONStatus(w, response, http.StatusCreated)
	}
}

func (s *Server) listQuizSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	if owner == "" {
		return
	}

	responses, err := s.store.Quizzes.ListResponses(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if responses == nil {
		responses = []types.QuizResponse{}
	}
	writeJSON(w, responses)
}
