package submission_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/principal"
	"github.com/jansssss/jbfPL/internal/submission"
)

func TestSubmission(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Submission Suite")
}

type testRecord struct {
	ID          string
	ApplicantID string
	Status      submission.Status
	Name        string
	Feedback    string
	CreatedAt   time.Time
}

func (r *testRecord) RecordID() string                 { return r.ID }
func (r *testRecord) Applicant() string                { return r.ApplicantID }
func (r *testRecord) CurrentStatus() submission.Status { return r.Status }
func (r *testRecord) SubmittedAt() time.Time           { return r.CreatedAt }
func (r *testRecord) SetApplicant(id string)           { r.ApplicantID = id }
func (r *testRecord) SetStatus(s submission.Status)    { r.Status = s }

type mockRepo struct {
	listFunc    func(ctx context.Context) ([]*testRecord, error)
	byApplicant map[string][]*testRecord
	rows        map[string]*testRecord
	insertErr   error
	updateErr   error
	nextID      int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byApplicant: make(map[string][]*testRecord),
		rows:        make(map[string]*testRecord),
		nextID:      1,
	}
}

func (m *mockRepo) ListAll(ctx context.Context) ([]*testRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	var all []*testRecord
	for _, rows := range m.byApplicant {
		all = append(all, rows...)
	}
	return all, nil
}

func (m *mockRepo) ListByApplicant(ctx context.Context, applicantID string) ([]*testRecord, error) {
	return m.byApplicant[applicantID], nil
}

func (m *mockRepo) Insert(ctx context.Context, rec *testRecord) (*testRecord, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	rec.ID = string(rune('a' + m.nextID))
	m.nextID++
	rec.CreatedAt = time.Now()
	m.rows[rec.ID] = rec
	m.byApplicant[rec.ApplicantID] = append(m.byApplicant[rec.ApplicantID], rec)
	return rec, nil
}

func (m *mockRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) (*testRecord, bool, error) {
	if m.updateErr != nil {
		return nil, false, m.updateErr
	}
	rec, ok := m.rows[id]
	if !ok {
		return nil, false, nil
	}
	if v, ok := fields["status"].(string); ok {
		rec.Status = submission.Status(v)
	}
	if v, ok := fields["feedback"].(string); ok {
		rec.Feedback = v
	}
	return rec, true, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*testRecord, error) {
	rec, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrRecordNotFound
	}
	return rec, nil
}

var _ = Describe("Store", func() {
	var (
		repo  *mockRepo
		store *submission.Store[*testRecord]
		owner *principal.Principal
		admin *principal.Principal
	)

	BeforeEach(func() {
		repo = newMockRepo()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		store = submission.NewStore[*testRecord](repo, logger)
		owner = &principal.Principal{ID: "user-1", AccessLevel: 1}
		admin = &principal.Principal{ID: "admin-1", AccessLevel: 3}
	})

	Describe("Create", func() {
		It("rejects when no principal is present", func() {
			_, err := store.Create(context.Background(), nil, &testRecord{Name: "x"})
			Expect(err).To(Equal(internal.ErrNotAuthenticated))
		})

		It("forces pending status and the principal's applicant id", func() {
			rec := &testRecord{
				Name:        "신규 프로젝트",
				Status:      submission.StatusApproved,
				ApplicantID: "someone-else",
			}

			created, err := store.Create(context.Background(), owner, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CurrentStatus()).To(Equal(submission.StatusPending))
			Expect(created.Applicant()).To(Equal("user-1"))
		})

		It("prepends the created record so the list stays newest-first", func() {
			first, err := store.Create(context.Background(), owner, &testRecord{Name: "first"})
			Expect(err).NotTo(HaveOccurred())
			second, err := store.Create(context.Background(), owner, &testRecord{Name: "second"})
			Expect(err).NotTo(HaveOccurred())

			items := store.Items()
			Expect(items).To(HaveLen(2))
			Expect(items[0].RecordID()).To(Equal(second.RecordID()))
			Expect(items[1].RecordID()).To(Equal(first.RecordID()))
		})

		It("surfaces insert failures as remote write errors", func() {
			repo.insertErr = errors.New("boom")
			_, err := store.Create(context.Background(), owner, &testRecord{Name: "x"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRemoteWriteFailed))
		})
	})

	Describe("Refresh", func() {
		It("scopes non-administrators to their own rows", func() {
			repo.byApplicant["user-1"] = []*testRecord{{ID: "a", ApplicantID: "user-1"}}
			repo.byApplicant["user-2"] = []*testRecord{{ID: "b", ApplicantID: "user-2"}}

			Expect(store.Refresh(context.Background(), owner)).To(Succeed())

			items := store.Items()
			Expect(items).To(HaveLen(1))
			Expect(items[0].Applicant()).To(Equal("user-1"))
		})

		It("gives administrators every row", func() {
			repo.byApplicant["user-1"] = []*testRecord{{ID: "a", ApplicantID: "user-1"}}
			repo.byApplicant["user-2"] = []*testRecord{{ID: "b", ApplicantID: "user-2"}}

			Expect(store.Refresh(context.Background(), admin)).To(Succeed())
			Expect(store.Items()).To(HaveLen(2))
		})

		It("is idempotent with no intervening writes", func() {
			repo.byApplicant["user-1"] = []*testRecord{
				{ID: "a", ApplicantID: "user-1", Name: "하나"},
				{ID: "b", ApplicantID: "user-1", Name: "둘"},
			}

			Expect(store.Refresh(context.Background(), owner)).To(Succeed())
			first := store.Items()
			Expect(store.Refresh(context.Background(), owner)).To(Succeed())
			second := store.Items()

			Expect(second).To(HaveLen(len(first)))
			for i := range first {
				Expect(second[i].RecordID()).To(Equal(first[i].RecordID()))
				Expect(second[i].Name).To(Equal(first[i].Name))
			}
		})

		It("discards a superseded fetch instead of overwriting newer state", func() {
			gate := make(chan struct{})
			stale := []*testRecord{{ID: "stale", ApplicantID: "admin-1"}}
			fresh := []*testRecord{{ID: "fresh", ApplicantID: "admin-1"}}

			calls := 0
			repo.listFunc = func(ctx context.Context) ([]*testRecord, error) {
				calls++
				if calls == 1 {
					<-gate
					return stale, nil
				}
				return fresh, nil
			}

			done := make(chan error, 1)
			go func() {
				done <- store.Refresh(context.Background(), admin)
			}()

			// wait for the first fetch to be in flight, then run a newer one
			Eventually(func() int { return calls }).Should(Equal(1))
			Expect(store.Refresh(context.Background(), admin)).To(Succeed())

			close(gate)
			Eventually(done).Should(Receive(BeNil()))

			items := store.Items()
			Expect(items).To(HaveLen(1))
			Expect(items[0].RecordID()).To(Equal("fresh"))
		})
	})

	Describe("UpdateFields", func() {
		It("merges the returned row into the matching local entry", func() {
			created, err := store.Create(context.Background(), owner, &testRecord{Name: "p"})
			Expect(err).NotTo(HaveOccurred())

			_, err = store.UpdateFields(context.Background(), created.RecordID(), map[string]any{
				"status":   string(submission.StatusApproved),
				"feedback": "좋습니다",
			})
			Expect(err).NotTo(HaveOccurred())

			got, err := store.GetByID(context.Background(), created.RecordID())
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CurrentStatus()).To(Equal(submission.StatusApproved))
			Expect(got.Feedback).To(Equal("좋습니다"))
		})

		It("keeps the stale local entry when no row matched", func() {
			created, err := store.Create(context.Background(), owner, &testRecord{Name: "p"})
			Expect(err).NotTo(HaveOccurred())
			before := created.CurrentStatus()

			_, err = store.UpdateFields(context.Background(), "missing", map[string]any{
				"status": string(submission.StatusApproved),
			})
			Expect(err).To(Equal(internal.ErrRecordNotFound))

			got, err := store.GetByID(context.Background(), created.RecordID())
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CurrentStatus()).To(Equal(before))
		})
	})

	Describe("GetByID", func() {
		It("falls back to a point lookup without caching it into the list", func() {
			repo.rows["z"] = &testRecord{ID: "z", ApplicantID: "user-9"}

			got, err := store.GetByID(context.Background(), "z")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.RecordID()).To(Equal("z"))
			Expect(store.Items()).To(BeEmpty())
		})

		It("returns not found for an unknown id", func() {
			_, err := store.GetByID(context.Background(), "nope")
			Expect(err).To(Equal(internal.ErrRecordNotFound))
		})
	})

	Describe("in-memory filters", func() {
		BeforeEach(func() {
			repo.byApplicant["user-1"] = []*testRecord{
				{ID: "a", ApplicantID: "user-1", Status: submission.StatusPending},
				{ID: "b", ApplicantID: "user-1", Status: submission.StatusPending},
				{ID: "c", ApplicantID: "user-1", Status: submission.StatusApproved},
			}
			repo.byApplicant["user-2"] = []*testRecord{
				{ID: "d", ApplicantID: "user-2", Status: submission.StatusPending},
			}
			Expect(store.Refresh(context.Background(), admin)).To(Succeed())
		})

		It("never returns another owner's records from ListByOwner", func() {
			for _, rec := range store.ListByOwner("user-1") {
				Expect(rec.Applicant()).To(Equal("user-1"))
			}
		})

		It("counts the employee dashboard scenario correctly", func() {
			mine := store.ListByOwner("user-1")
			Expect(mine).To(HaveLen(3))

			pendingMine := 0
			for _, rec := range mine {
				if rec.CurrentStatus() == submission.StatusPending {
					pendingMine++
				}
			}
			Expect(pendingMine).To(Equal(2))
		})

		It("lists only pending records", func() {
			for _, rec := range store.ListPending() {
				Expect(rec.CurrentStatus()).To(Equal(submission.StatusPending))
			}
			Expect(store.ListPending()).To(HaveLen(3))
		})
	})
})
