package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/workitem"
)

// Repository persists work plans in the work table.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) ListAll(ctx context.Context) ([]*workitem.WorkItem, error) {
	var rows []*workitem.WorkItem
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListByApplicant(ctx context.Context, applicantID string) ([]*workitem.WorkItem, error) {
	var rows []*workitem.WorkItem
	if err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Insert(ctx context.Context, rec *workitem.WorkItem) (*workitem.WorkItem, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		r.logger.Error("failed to insert work item", "error", err, "applicant_id", rec.ApplicantID)
		return nil, err
	}
	return rec, nil
}

func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*workitem.WorkItem, bool, error) {
	res := r.db.WithContext(ctx).
		Model(&workitem.WorkItem{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	var row workitem.WorkItem
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, true, err
	}
	return &row, true, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*workitem.WorkItem, error) {
	var row workitem.WorkItem
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}
