package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/principal"
)

// Repository manages employee accounts in the users table.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

func (r *Repository) ListAll(ctx context.Context) ([]*principal.Principal, error) {
	var rows []*principal.Principal
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*principal.Principal, error) {
	var row principal.Principal
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, p *principal.Principal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return internal.ErrEmailTaken
		}
		r.logger.Error("failed to create employee", "error", err, "email", p.Email)
		return internal.NewRemoteWriteError(err)
	}
	return nil
}

func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*principal.Principal, error) {
	res := r.db.WithContext(ctx).
		Model(&principal.Principal{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, internal.NewRemoteWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, internal.ErrPrincipalNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&principal.Principal{}, "id = ?", id)
	if res.Error != nil {
		return internal.NewRemoteWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrPrincipalNotFound
	}
	return nil
}
