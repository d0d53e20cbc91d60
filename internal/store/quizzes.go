package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"careerforge/internal/errors"
	"careerforge/internal/types"

	"gorm.io/gorm"
)

type quizRepository struct {
	db *gorm.DB
}

func (r *quizRepository) Insert(ctx context.Context, quiz *types.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode questions", err)
	}

	row := &quizRow{
		ID:          quiz.ID,
		OwnerID:     quiz.OwnerID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   questions,
		CreatedAt:   quiz.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to insert quiz", err)
	}

	quiz.ID = row.ID
	quiz.CreatedAt = row.CreatedAt
	return nil
}

func (r *quizRepository) GetByID(ctx context.Context, id, ownerID string) (*types.Quiz, error) {
	var row quizRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Quiz not found", err)
		}
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to load quiz", err)
	}
	return rowToQuiz(&row)
}

func (r *quizRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.Quiz, error) {
	var rows []quizRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list quizzes", err)
	}

	quizzes := make([]types.Quiz, 0, len(rows))
	for i := range rows {
		quiz, err := rowToQuiz(&rows[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *quiz)
	}
	return quizzes, nil
}

func (r *quizRepository) InsertResponse(ctx context.Context, response *types.QuizResponse) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode answers", err)
	}

	var evaluation []byte
	if response.Evaluation != nil {
		if evaluation, err = json.Marshal(response.Evaluation); err != nil {
			return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode evaluation", err)
		}
	}

	row := &quizResponseRow{
		ID:         response.ID,
		QuizID:     response.QuizID,
		OwnerID:    response.OwnerID,
		Answers:    answers,
		Score:      response.Score,
		MaxScore:   response.MaxScore,
		Evaluation: evaluation,
		CreatedAt:  response.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to insert quiz response", err)
	}

	response.ID = row.ID
	response.CreatedAt = row.CreatedAt
	return nil
}

func (r *quizRepository) ListResponses(ctx context.Context, quizID, ownerID string) ([]types.QuizResponse, error) {
	var rows []quizResponseRow
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND owner_id = ?", quizID, ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list quiz responses", err)
	}

	responses := make([]types.QuizResponse, 0, len(rows))
	for i := range rows {
		var answers []types.QuizAnswer
		if len(rows[i].Answers) > 0 {
			if err := json.Unmarshal(rows[i].Answers, &answers); err != nil {
				return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode answers", err)
			}
		}

		var evaluation *types.QuizEvaluation
		if len(rows[i].Evaluation) > 0 {
			evaluation = &types.QuizEvaluation{}
			if err := json.Unmarshal(rows[i].Evaluation, evaluation); err != nil {
				return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode evaluation", err)
			}
		}

		responses = append(responses, types.QuizResponse{
			ID:         rows[i].ID,
			QuizID:     rows[i].QuizID,
			OwnerID:    rows[i].OwnerID,
			Answers:    answers,
			Score:      rows[i].Score,
			MaxScore:   rows[i].MaxScore,
			Evaluation: evaluation,
			CreatedAt:  rows[i].CreatedAt,
		})
	}
	return responses, nil
}

func rowToQuiz(row *quizRow) (*types.Quiz, error) {
	var questions []types.QuizQuestion
	if len(row.Questions) > 0 {
		if err := json.Unmarshal(row.Questions, &questions); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode questions", err)
		}
	}

	return &types.Quiz{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description,
		Questions:   questions,
		CreatedAt:   row.CreatedAt,
	}, nil
}
