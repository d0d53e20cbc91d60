package store

import (
	"context"
	"encoding/json"

	"careerforge/internal/errors"
	"careerforge/internal/types"

	"gorm.io/gorm"
)

type analysisRepository struct {
	db *gorm.DB
}

func (r *analysisRepository) Insert(ctx context.Context, record *types.AnalysisRecord) error {
	var analysis []byte
	var err error
	if record.Analysis != nil {
		if analysis, err = json.Marshal(record.Analysis); err != nil {
			return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode analysis", err)
		}
	}

	row := &analysisRow{
		ID:           record.ID,
		OwnerID:      record.OwnerID,
		ResumeText:   record.ResumeText,
		OfferText:    record.OfferText,
		Analysis:     analysis,
		OverallScore: record.OverallScore,
		CreatedAt:    record.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to insert analysis", err)
	}

	record.ID = row.ID
	record.CreatedAt = row.CreatedAt
	return nil
}

func (r *analysisRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.AnalysisRecord, error) {
	var rows []analysisRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list analyses", err)
	}

	records := make([]types.AnalysisRecord, 0, len(rows))
	for i := range rows {
		analysis, err := unmarshalAnalysis(rows[i].Analysis)
		if err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode analysis", err)
		}
		records = append(records, types.AnalysisRecord{
			ID:           rows[i].ID,
			OwnerID:      rows[i].OwnerID,
			ResumeText:   rows[i].ResumeText,
			OfferText:    rows[i].OfferText,
			Analysis:     analysis,
			OverallScore: rows[i].OverallScore,
			CreatedAt:    rows[i].CreatedAt,
		})
	}
	return records, nil
}
