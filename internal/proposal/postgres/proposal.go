package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/proposal"
)

// Repository persists proposals in the projects table.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) ListAll(ctx context.Context) ([]*proposal.Proposal, error) {
	var rows []*proposal.Proposal
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListByApplicant(ctx context.Context, applicantID string) ([]*proposal.Proposal, error) {
	var rows []*proposal.Proposal
	if err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Insert(ctx context.Context, rec *proposal.Proposal) (*proposal.Proposal, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		r.logger.Error("failed to insert proposal", "error", err, "applicant_id", rec.ApplicantID)
		return nil, err
	}
	return rec, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*proposal.Proposal, bool, error) {
	res := r.db.WithContext(ctx).
		Model(&proposal.Proposal{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	var row proposal.Proposal
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, true, err
	}
	return &row, true, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*proposal.Proposal, error) {
	var row proposal.Proposal
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}
