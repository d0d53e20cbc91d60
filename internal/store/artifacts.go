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

type artifactRepository struct {
	db *gorm.DB
}

func (r *artifactRepository) Insert(ctx context.Context, artifact *types.GenerationArtifact) error {
	row, err := artifactToRow(artifact)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode artifact", err)
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to insert artifact", err)
	}

	artifact.ID = row.ID
	artifact.CreatedAt = row.CreatedAt
	artifact.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *artifactRepository) GetByID(ctx context.Context, id, ownerID string) (*types.GenerationArtifact, error) {
	var row artifactRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Artifact not found", err)
		}
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to load artifact", err)
	}
	return rowToArtifact(&row)
}

func (r *artifactRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.GenerationArtifact, error) {
	var rows []artifactRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list artifacts", err)
	}

	artifacts := make([]types.GenerationArtifact, 0, len(rows))
	for i := range rows {
		artifact, err := rowToArtifact(&rows[i])
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *artifact)
	}
	return artifacts, nil
}

func (r *artifactRepository) Update(ctx context.Context, artifact *types.GenerationArtifact) error {
	row, err := artifactToRow(artifact)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode artifact", err)
	}
	row.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&artifactRow{}).
		Where("id = ? AND owner_id = ?", artifact.ID, artifact.OwnerID).
		Updates(map[string]any{
			"source_fields":      row.SourceFields,
			"source_profile":     row.SourceProfile,
			"source_resume_text": row.SourceResumeText,
			"target_offer_text":  row.TargetOfferText,
			"cv":                 row.CV,
			"cover_letter":       row.CoverLetter,
			"suggestions":        row.Suggestions,
			"format":             row.Format,
			"updated_at":         row.UpdatedAt,
		})
	if result.Error != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to update artifact", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Artifact not found", nil)
	}

	artifact.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *artifactRepository) Delete(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&artifactRow{})
	if result.Error != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to delete artifact", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Artifact not found", nil)
	}
	return nil
}

func artifactToRow(artifact *types.GenerationArtifact) (*artifactRow, error) {
	fields, err := json.Marshal(artifact.SourceFields)
	if err != nil {
		return nil, err
	}

	var profile []byte
	if artifact.SourceProfile != nil {
		if profile, err = json.Marshal(artifact.SourceProfile); err != nil {
			return nil, err
		}
	}

	return &artifactRow{
		ID:               artifact.ID,
		OwnerID:          artifact.OwnerID,
		SourceFields:     fields,
		SourceProfile:    profile,
		SourceResumeText: artifact.SourceResumeText,
		TargetOfferText:  artifact.TargetOfferText,
		CV:               artifact.CV,
		CoverLetter:      artifact.CoverLetter,
		Suggestions:      artifact.Suggestions,
		Format:           string(artifact.Format),
		CreatedAt:        artifact.CreatedAt,
		UpdatedAt:        artifact.UpdatedAt,
	}, nil
}

func rowToArtifact(row *artifactRow) (*types.GenerationArtifact, error) {
	var fields types.ProfileFields
	if len(row.SourceFields) > 0 {
		if err := json.Unmarshal(row.SourceFields, &fields); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode artifact fields", err)
		}
	}

	profile, err := unmarshalProfile(row.SourceProfile)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode artifact profile", err)
	}

	return &types.GenerationArtifact{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		SourceFields:     fields,
		SourceProfile:    profile,
		SourceResumeText: row.SourceResumeText,
		TargetOfferText:  row.TargetOfferText,
		CV:               row.CV,
		CoverLetter:      row.CoverLetter,
		Suggestions:      row.Suggestions,
		Format:           types.DocumentFormat(row.Format),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
