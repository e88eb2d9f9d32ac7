package submission

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/principal"
)

// Repository is the persistence gateway for one record table. List
// results come back ordered by creation time descending so the store's
// list stays newest-first.
type Repository[R Record] interface {
	ListAll(ctx context.Context) ([]R, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]R, error)
	Insert(ctx context.Context, rec R) (R, error)
	// UpdateFields writes the fields to the row and returns the resulting
	// row. The bool reports whether any row matched the id.
	UpdateFields(ctx context.Context, id string, fields map[string]any) (R, bool, error)
	GetByID(ctx context.Context, id string) (R, error)
}

// Store keeps the fetched record list for one table and reconciles it
// after every successful write. Proposal and work-plan services share
// this one implementation.
type Store[R Record] struct {
	repo   Repository[R]
	logger *slog.Logger

	mu    sync.Mutex
	items []R
	gen   uint64
}

func NewStore[R Record](repo Repository[R], logger *slog.Logger) *Store[R] {
	return &Store[R]{repo: repo, logger: logger}
}

// Refresh replaces the list wholesale with the rows visible to the
// principal: administrators see every row, everyone else only their own
// (scoped in SQL, not by trimming a full fetch). Each call takes a new
// generation; a fetch that finishes after a later one started discards
// its rows instead of overwriting newer state.
func (s *Store[R]) Refresh(ctx context.Context, p *principal.Principal) error {
	if p == nil {
		return internal.ErrNotAuthenticated
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	var (
		rows []R
		err  error
	)
	if p.IsAdministrator() {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByApplicant(ctx, p.ID)
	}
	if err != nil {
		s.logger.Error("store refresh failed", "error", err, "principal_id", p.ID)
		return internal.NewRemoteReadError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("store refresh superseded, discarding stale rows",
			"generation", gen,
			"current_generation", s.gen)
		return nil
	}
	s.items = rows
	return nil
}

// Create submits a new record for the principal. Whatever status or
// applicant the input carries is overwritten: every submission starts
// PENDING and belongs to the authenticated principal. The stored row is
// prepended so the list keeps its newest-first order.
func (s *Store[R]) Create(ctx context.Context, p *principal.Principal, rec R) (R, error) {
	var zero R
	if p == nil {
		return zero, internal.ErrNotAuthenticated
	}

	rec.SetApplicant(p.ID)
	rec.SetStatus(StatusPending)

	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		s.logger.Error("store create failed", "error", err, "applicant_id", p.ID)
		return zero, internal.NewRemoteWriteError(err)
	}

	s.mu.Lock()
	s.items = append([]R{created}, s.items...)
	s.mu.Unlock()

	return created, nil
}

// UpdateFields writes the fields to the remote row and merges the result
// into the matching local entry. When no row matched (deleted or raced)
// the local entry keeps its stale fields; that degradation is logged but
// not surfaced.
func (s *Store[R]) UpdateFields(ctx context.Context, id string, fields map[string]any) (R, error) {
	var zero R

	updated, matched, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		s.logger.Error("store update failed", "error", err, "record_id", id)
		return zero, internal.NewRemoteWriteError(err)
	}
	if !matched {
		s.logger.Warn("store update matched no rows, keeping stale local entry", "record_id", id)
		return zero, internal.ErrRecordNotFound
	}

	s.mu.Lock()
	for i, item := range s.items {
		if item.RecordID() == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()

	return updated, nil
}

// GetByID returns the in-memory match when present, otherwise falls back
// to a point lookup. The lookup result is not merged back into the list.
func (s *Store[R]) GetByID(ctx context.Context, id string) (R, error) {
	s.mu.Lock()
	for _, item := range s.items {
		if item.RecordID() == id {
			s.mu.Unlock()
			return item, nil
		}
	}
	s.mu.Unlock()

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var zero R
		if _, ok := internal.IsAppError(err); ok {
			return zero, err
		}
		return zero, internal.NewRemoteReadError(err)
	}
	return rec, nil
}

// ListByOwner filters the in-memory list; no fetch.
func (s *Store[R]) ListByOwner(ownerID string) []R {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []R
	for _, item := range s.items {
		if item.Applicant() == ownerID {
			out = append(out, item)
		}
	}
	return out
}

// ListPending filters the in-memory list; no fetch.
func (s *Store[R]) ListPending() []R {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []R
	for _, item := range s.items {
		if item.CurrentStatus() == StatusPending {
			out = append(out, item)
		}
	}
	return out
}

// Items returns a snapshot of the current list.
func (s *Store[R]) Items() []R {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]R, len(s.items))
	copy(out, s.items)
	return out
}
