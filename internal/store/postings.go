package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"careerforge/internal/errors"
	"careerforge/internal/types"

	"gorm.io/gorm"
)

type postingRepository struct {
	db *gorm.DB
}

func (r *postingRepository) Insert(ctx context.Context, posting *types.JobPosting) error {
	row, err := postingToRow(posting)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode posting", err)
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to insert posting", err)
	}

	posting.ID = row.ID
	posting.CreatedAt = row.CreatedAt
	posting.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *postingRepository) GetByID(ctx context.Context, id, ownerID string) (*types.JobPosting, error) {
	var row postingRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", err)
		}
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to load posting", err)
	}
	return rowToPosting(&row)
}

func (r *postingRepository) GetPublished(ctx context.Context, id string) (*types.JobPosting, error) {
	var row postingRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(types.PostingPublished)).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", err)
		}
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to load posting", err)
	}
	return rowToPosting(&row)
}

func (r *postingRepository) ListPublished(ctx context.Context) ([]types.JobPosting, error) {
	var rows []postingRow
	err := r.db.WithContext(ctx).
		Where("status = ?", string(types.PostingPublished)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list postings", err)
	}

	postings := make([]types.JobPosting, 0, len(rows))
	for i := range rows {
		posting, err := rowToPosting(&rows[i])
		if err != nil {
			return nil, err
		}
		postings = append(postings, *posting)
	}
	return postings, nil
}

func (r *postingRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.JobPosting, error) {
	var rows []postingRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list postings", err)
	}

	postings := make([]types.JobPosting, 0, len(rows))
	for i := range rows {
		posting, err := rowToPosting(&rows[i])
		if err != nil {
			return nil, err
		}
		postings = append(postings, *posting)
	}
	return postings, nil
}

func (r *postingRepository) Update(ctx context.Context, posting *types.JobPosting) error {
	row, err := postingToRow(posting)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode posting", err)
	}
	row.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&postingRow{}).
		Where("id = ? AND owner_id = ?", posting.ID, posting.OwnerID).
		Updates(map[string]any{
			"title":             row.Title,
			"description":       row.Description,
			"skills":            row.Skills,
			"reference_cv":      row.ReferenceCV,
			"reference_profile": row.ReferenceProfile,
			"status":            row.Status,
			"updated_at":        row.UpdatedAt,
		})
	if result.Error != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to update posting", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", nil)
	}

	posting.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *postingRepository) Delete(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&postingRow{})
	if result.Error != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to delete posting", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Posting not found", nil)
	}
	return nil
}

func postingToRow(posting *types.JobPosting) (*postingRow, error) {
	var profile []byte
	if posting.ReferenceProfile != nil {
		var err error
		if profile, err = json.Marshal(posting.ReferenceProfile); err != nil {
			return nil, err
		}
	}

	return &postingRow{
		ID:               posting.ID,
		OwnerID:          posting.OwnerID,
		Title:            posting.Title,
		Description:      posting.Description,
		Skills:           posting.Skills,
		ReferenceCV:      posting.ReferenceCV,
		ReferenceProfile: profile,
		Status:           string(posting.Status),
		CreatedAt:        posting.CreatedAt,
		UpdatedAt:        posting.UpdatedAt,
	}, nil
}

func rowToPosting(row *postingRow) (*types.JobPosting, error) {
	profile, err := unmarshalProfile(row.ReferenceProfile)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode reference profile", err)
	}

	return &types.JobPosting{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		Title:            row.Title,
		Description:      row.Description,
		Skills:           row.Skills,
		ReferenceCV:      row.ReferenceCV,
		ReferenceProfile: profile,
		Status:           types.PostingStatus(row.Status),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
