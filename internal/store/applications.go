package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"careerforge/internal/errors"
	"careerforge/internal/types"

	"gorm.io/gorm"
)

type applicationRepository struct {
	db *gorm.DB
}

func (r *applicationRepository) Insert(ctx context.Context, application *types.Application) error {
	row, err := applicationToRow(application)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode application", err)
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.NewValidationError(errors.ErrCodeDuplicate,
				"An application for this posting already exists", err)
		}
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to insert application", err)
	}

	application.ID = row.ID
	application.CreatedAt = row.CreatedAt
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*types.Application, error) {
	var row applicationRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Application not found", err)
		}
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to load application", err)
	}
	return rowToApplication(&row)
}

func (r *applicationRepository) GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*types.Application, error) {
	var row applicationRow
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "Application not found", err)
		}
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to load application", err)
	}
	return rowToApplication(&row)
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID string) ([]types.Application, error) {
	var rows []applicationRow
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("score DESC NULLS LAST, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to list applications", err)
	}

	applications := make([]types.Application, 0, len(rows))
	for i := range rows {
		application, err := rowToApplication(&rows[i])
		if err != nil {
			return nil, err
		}
		applications = append(applications, *application)
	}
	return applications, nil
}

func (r *applicationRepository) Update(ctx context.Context, application *types.Application) error {
	row, err := applicationToRow(application)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to encode application", err)
	}

	result := r.db.WithContext(ctx).
		Model(&applicationRow{}).
		Where("id = ?", application.ID).
		Updates(map[string]any{
			"extracted_profile": row.ExtractedProfile,
			"analysis":          row.Analysis,
			"score":             row.Score,
		})
	if result.Error != nil {
		return errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to update application", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError(errors.ErrCodeNotFound, "Application not found", nil)
	}
	return nil
}

func applicationToRow(application *types.Application) (*applicationRow, error) {
	var profile, analysis []byte
	var err error
	if application.ExtractedProfile != nil {
		if profile, err = json.Marshal(application.ExtractedProfile); err != nil {
			return nil, err
		}
	}
	if application.Analysis != nil {
		if analysis, err = json.Marshal(application.Analysis); err != nil {
			return nil, err
		}
	}

	return &applicationRow{
		ID:               application.ID,
		JobID:            application.JobID,
		ApplicantID:      application.ApplicantID,
		ResumeText:       application.ResumeText,
		ExtractedProfile: profile,
		Analysis:         analysis,
		Score:            application.Score,
		CreatedAt:        application.CreatedAt,
	}, nil
}

func rowToApplication(row *applicationRow) (*types.Application, error) {
	profile, err := unmarshalProfile(row.ExtractedProfile)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode applicant profile", err)
	}
	analysis, err := unmarshalAnalysis(row.Analysis)
	if err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeStorageFailed, "Failed to decode fit analysis", err)
	}

	return &types.Application{
		ID:               row.ID,
		JobID:            row.JobID,
		ApplicantID:      row.ApplicantID,
		ResumeText:       row.ResumeText,
		ExtractedProfile: profile,
		Analysis:         analysis,
		Score:            row.Score,
		CreatedAt:        row.CreatedAt,
	}, nil
}
