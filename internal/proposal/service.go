package proposal

import (
	"context"
	"log/slog"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/internal/principal"
	"github.com/jansssss/jbfPL/internal/submission"
)

type Service struct {
	store    *submission.Store[*Proposal]
	notifier notification.Notifier
	logger   *slog.Logger
}

func NewService(repo submission.Repository[*Proposal], notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		store:    submission.NewStore(repo, logger),
		notifier: notifier,
		logger:   logger,
	}
}

// Refresh reloads the proposal list for the principal: administrators
// get every proposal, everyone else only their own.
func (s *Service) Refresh(ctx context.Context, p *principal.Principal) ([]*Proposal, error) {
	if err := s.store.Refresh(ctx, p); err != nil {
		return nil, err
	}
	return s.store.Items(), nil
}

func (s *Service) Create(ctx context.Context, p *principal.Principal, dto CreateProposalDTO) (*Proposal, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	prop := &Proposal{
		Name:         dto.Name,
		Description:  dto.Description,
		Members:      dto.Members,
		Strategy:     dto.Strategy,
		Goal:         dto.Goal,
		Level:        dto.Level,
		Notes:        dto.Notes,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
		Background:   dto.Background,
		Contribution: dto.Contribution,
		Innovation:   dto.Innovation,
	}

	created, err := s.store.Create(ctx, p, prop)
	if err != nil {
		s.notifier.Notify(ctx, "프로젝트 제출에 실패했습니다.", notification.SeverityError)
		return nil, err
	}

	s.logger.Info("proposal submitted", "proposal_id", created.ID, "applicant_id", created.ApplicantID)
	s.notifier.Notify(ctx, "프로젝트가 성공적으로 제출되었습니다.", notification.SeveritySuccess)
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, p *principal.Principal, id string) (*Proposal, error) {
	prop, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdministrator() && prop.ApplicantID != p.ID {
		return nil, internal.ErrAccessDenied
	}
	return prop, nil
}

// Update applies the submitter's edits. Only the applicant may edit
// their own proposal; decision fields are out of reach here.
func (s *Service) Update(ctx context.Context, p *principal.Principal, id string, dto UpdateProposalDTO) (*Proposal, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	prop, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop.ApplicantID != p.ID && !p.IsAdministrator() {
		return nil, internal.ErrAccessDenied
	}

	fields := dto.Fields()
	if len(fields) == 0 {
		return prop, nil
	}

	updated, err := s.store.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, "프로젝트가 수정되었습니다.", notification.SeveritySuccess)
	return updated, nil
}

// Approve grades the proposal. A blank feedback falls back to the
// canned approval message; an unknown grade is rejected before any
// remote write.
func (s *Service) Approve(ctx context.Context, p *principal.Principal, id string, dto ApproveProposalDTO) (*Proposal, error) {
	if !p.CanDecide() {
		return nil, internal.ErrAccessDenied
	}

	decision, err := submission.ApprovalDecision(dto.Level, dto.Feedback)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFields(ctx, id, decision.Fields())
	if err != nil {
		s.notifier.Notify(ctx, "승인 처리 중 오류가 발생했습니다.", notification.SeverityError)
		return nil, err
	}

	s.logger.Info("proposal approved",
		"proposal_id", id,
		"level", decision.Level,
		"approver_id", p.ID)
	s.notifier.Notify(ctx, "프로젝트가 성공적으로 승인되었습니다.", notification.SeveritySuccess)
	return updated, nil
}

// Reject requires a non-empty feedback; without one nothing is written.
func (s *Service) Reject(ctx context.Context, p *principal.Principal, id string, dto RejectProposalDTO) (*Proposal, error) {
	if !p.CanDecide() {
		return nil, internal.ErrAccessDenied
	}

	decision, err := submission.RejectionDecision(dto.Feedback)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFields(ctx, id, decision.Fields())
	if err != nil {
		s.notifier.Notify(ctx, "반려 처리 중 오류가 발생했습니다.", notification.SeverityError)
		return nil, err
	}

	s.logger.Info("proposal rejected", "proposal_id", id, "approver_id", p.ID)
	s.notifier.Notify(ctx, "프로젝트가 반려되었습니다.", notification.SeverityInfo)
	return updated, nil
}

// ListMine filters the loaded list without another fetch.
func (s *Service) ListMine(p *principal.Principal) []*Proposal {
	return s.store.ListByOwner(p.ID)
}

// ListPending filters the loaded list without another fetch.
func (s *Service) ListPending() []*Proposal {
	return s.store.ListPending()
}
