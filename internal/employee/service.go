package employee

import (
	"context"
	"log/slog"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/auth"
	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/internal/principal"
)

// RepositoryAPI is the persistence gateway for employee accounts.
type RepositoryAPI interface {
	ListAll(ctx context.Context) ([]*principal.Principal, error)
	GetByID(ctx context.Context, id string) (*principal.Principal, error)
	Create(ctx context.Context, p *principal.Principal) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*principal.Principal, error)
	Delete(ctx context.Context, id string) error
}

// PasswordHasher hashes the temporary password for new accounts.
// Satisfied by the auth service so both use the same cost.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles administrator-side employee management. Every
// operation here assumes the caller was already gated to
// administrators at the router.
type Service struct {
	repo         RepositoryAPI
	hasher       PasswordHasher
	notifier     notification.Notifier
	logger       *slog.Logger
	emailDomain  string
	tempPassword string
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, notifier notification.Notifier, logger *slog.Logger, emailDomain, tempPassword string) *Service {
	return &Service{
		repo:         repo,
		hasher:       hasher,
		notifier:     notifier,
		logger:       logger,
		emailDomain:  emailDomain,
		tempPassword: tempPassword,
	}
}

// List returns every account ordered by name.
func (s *Service) List(ctx context.Context) ([]*principal.Principal, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewRemoteReadError(err)
	}
	return rows, nil
}

// Create provisions an account with the organizational temporary
// password. The employee must change it on first login.
func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*principal.Principal, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	hash, err := s.hasher.HashPassword(s.tempPassword)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash temporary password", err)
	}

	level := dto.AccessLevel
	if level == 0 {
		level = principal.EmployeeLevel
	}

	p := &principal.Principal{
		Email:        auth.NormalizeIdentifier(dto.Identifier, s.emailDomain),
		Name:         dto.Name,
		PasswordHash: hash,
		AccessLevel:  level,
		Center:       dto.Center,
		Team:         dto.Team,
		FirstLogin:   true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.notifier.Notify(ctx, "직원 등록에 실패했습니다.", notification.SeverityError)
		return nil, err
	}

	s.logger.Info("employee account created", "employee_id", p.ID, "email", p.Email, "access_level", p.AccessLevel)
	s.notifier.Notify(ctx, "직원이 등록되었습니다.", notification.SeveritySuccess)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*principal.Principal, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes profile fields or the access level.
func (s *Service) Update(ctx context.Context, id string, dto UpdateEmployeeDTO) (*principal.Principal, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	fields := dto.Fields()
	if len(fields) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee account updated", "employee_id", id)
	s.notifier.Notify(ctx, "직원 정보가 수정되었습니다.", notification.SeveritySuccess)
	return updated, nil
}

// ResetPassword puts the account back on the temporary password and
// re-arms the first-login password change.
func (s *Service) ResetPassword(ctx context.Context, id string) error {
	hash, err := s.hasher.HashPassword(s.tempPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash temporary password", err)
	}

	if _, err := s.repo.UpdateFields(ctx, id, map[string]any{
		"password_hash": hash,
		"first_login":   true,
	}); err != nil {
		return err
	}

	s.logger.Info("employee password reset", "employee_id", id)
	s.notifier.Notify(ctx, "비밀번호가 초기화되었습니다.", notification.SeveritySuccess)
	return nil
}

// Delete removes the account. A principal must not delete themselves;
// otherwise the last administrator could lock everyone out.
func (s *Service) Delete(ctx context.Context, actor *principal.Principal, id string) error {
	if actor != nil && actor.ID == id {
		return internal.NewValidationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.notifier.Notify(ctx, "직원 삭제에 실패했습니다.", notification.SeverityError)
		return err
	}

	s.logger.Info("employee account deleted", "employee_id", id)
	s.notifier.Notify(ctx, "직원이 삭제되었습니다.", notification.SeverityInfo)
	return nil
}
