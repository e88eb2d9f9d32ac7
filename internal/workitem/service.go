package workitem

import (
	"context"
	"log/slog"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/internal/principal"
	"github.com/jansssss/jbfPL/internal/submission"
)

type Service struct {
	store    *submission.Store[*WorkItem]
	notifier notification.Notifier
	logger   *slog.Logger
}

func NewService(repo submission.Repository[*WorkItem], notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{
		store:    submission.NewStore(repo, logger),
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) Refresh(ctx context.Context, p *principal.Principal) ([]*WorkItem, error) {
	if err := s.store.Refresh(ctx, p); err != nil {
		return nil, err
	}
	return s.store.Items(), nil
}

func (s *Service) Create(ctx context.Context, p *principal.Principal, dto CreateWorkItemDTO) (*WorkItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	item := &WorkItem{
		Name:        dto.Name,
		Description: dto.Description,
		Strategy:    dto.Strategy,
		Goal:        dto.Goal,
		Level:       dto.Level,
		Notes:       dto.Notes,
	}

	created, err := s.store.Create(ctx, p, item)
	if err != nil {
		s.notifier.Notify(ctx, "업무 계획 제출에 실패했습니다.", notification.SeverityError)
		return nil, err
	}

	s.logger.Info("work item submitted", "work_item_id", created.ID, "applicant_id", created.ApplicantID)
	s.notifier.Notify(ctx, "업무 계획이 성공적으로 제출되었습니다.", notification.SeveritySuccess)
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, p *principal.Principal, id string) (*WorkItem, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdministrator() && item.ApplicantID != p.ID {
		return nil, internal.ErrAccessDenied
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, p *principal.Principal, id string, dto UpdateWorkItemDTO) (*WorkItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.ApplicantID != p.ID && !p.IsAdministrator() {
		return nil, internal.ErrAccessDenied
	}

	fields := dto.Fields()
	if len(fields) == 0 {
		return item, nil
	}

	updated, err := s.store.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, "업무 계획이 수정되었습니다.", notification.SeveritySuccess)
	return updated, nil
}

func (s *Service) Approve(ctx context.Context, p *principal.Principal, id string, dto ApproveWorkItemDTO) (*WorkItem, error) {
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

	s.logger.Info("work item approved",
		"work_item_id", id,
		"level", decision.Level,
		"approver_id", p.ID)
	s.notifier.Notify(ctx, "업무 계획이 승인되었습니다.", notification.SeveritySuccess)
	return updated, nil
}

func (s *Service) Reject(ctx context.Context, p *principal.Principal, id string, dto RejectWorkItemDTO) (*WorkItem, error) {
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

	s.logger.Info("work item rejected", "work_item_id", id, "approver_id", p.ID)
	s.notifier.Notify(ctx, "업무 계획이 반려되었습니다.", notification.SeverityInfo)
	return updated, nil
}

func (s *Service) ListMine(p *principal.Principal) []*WorkItem {
	return s.store.ListByOwner(p.ID)
}

func (s *Service) ListPending() []*WorkItem {
	return s.store.ListPending()
}
