package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/auth"
	"github.com/jansssss/jbfPL/internal/principal"
)

// Repository implements auth.RepositoryAPI over the users table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*principal.Principal, error) {
	var p principal.Principal
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*principal.Principal, error) {
	var p principal.Principal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPrincipalNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *principal.Principal) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Create(p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return internal.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*principal.Principal, error) {
	res := r.db.WithContext(ctx).Model(&principal.Principal{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, internal.ErrPrincipalNotFound
	}
	return r.GetByID(ctx, id)
}
