package postgres

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/proposal"
	"github.com/jansssss/jbfPL/internal/submission"
)

func TestProposalRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ProposalRepository Suite")
}

type SQLiteProject struct {
	ID           string     `gorm:"primaryKey"`
	SeqNo        int64      `gorm:"column:seq_no;->"`
	Name         string     `gorm:"not null"`
	Description  string     `gorm:"column:description"`
	Members      string     `gorm:"column:members"`
	Strategy     string     `gorm:"column:strategy"`
	Goal         string     `gorm:"column:goal"`
	Level        string     `gorm:"column:level"`
	Notes        string     `gorm:"column:notes"`
	Status       string     `gorm:"column:status;default:'대기중'"`
	Feedback     string     `gorm:"column:feedback"`
	ApplicantID  string     `gorm:"column:applicant_id;not null"`
	StartDate    *time.Time `gorm:"column:start_date"`
	EndDate      *time.Time `gorm:"column:end_date"`
	Background   string     `gorm:"column:background"`
	Contribution string     `gorm:"column:contribution"`
	Innovation   string     `gorm:"column:innovation"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (SQLiteProject) TableName() string {
	return "projects"
}

var _ = Describe("ProposalRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteProject{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRepository(db, slog.Default())
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	insert := func(applicantID, name string, createdAt time.Time) *proposal.Proposal {
		p := &proposal.Proposal{
			Name:        name,
			Members:     "홍길동, 김철수",
			Status:      submission.StatusPending,
			ApplicantID: applicantID,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
		created, err := repo.Insert(ctx, p)
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	Describe("Insert", func() {
		It("assigns an id when the proposal has none", func() {
			created := insert("user-1", "스마트팜 데이터 구축", time.Now())
			Expect(created.ID).NotTo(BeEmpty())
		})

		It("leaves the identity column to the database", func() {
			p := &proposal.Proposal{
				ID:          "seq-check",
				Name:        "순번 확인",
				Members:     "홍길동",
				Status:      submission.StatusPending,
				ApplicantID: "user-1",
			}

			dry := db.Session(&gorm.Session{DryRun: true}).Create(p)
			Expect(dry.Error).NotTo(HaveOccurred())
			Expect(dry.Statement.SQL.String()).NotTo(ContainSubstring("seq_no"))
		})

		It("keeps a caller-provided id", func() {
			p := &proposal.Proposal{
				ID:          "fixed-id",
				Name:        "기능성 소재 평가",
				Members:     "이영희",
				Status:      submission.StatusPending,
				ApplicantID: "user-1",
			}
			created, err := repo.Insert(ctx, p)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal("fixed-id"))
		})
	})

	Describe("ListAll", func() {
		It("returns every row newest first", func() {
			base := time.Now().Add(-time.Hour)
			insert("user-1", "첫번째", base)
			insert("user-2", "두번째", base.Add(time.Minute))
			insert("user-1", "세번째", base.Add(2*time.Minute))

			rows, err := repo.ListAll(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0].Name).To(Equal("세번째"))
			Expect(rows[2].Name).To(Equal("첫번째"))
		})
	})

	Describe("ListByApplicant", func() {
		It("returns only the applicant's rows", func() {
			base := time.Now().Add(-time.Hour)
			insert("user-1", "내 제안", base)
			insert("user-2", "남의 제안", base.Add(time.Minute))

			rows, err := repo.ListByApplicant(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Name).To(Equal("내 제안"))
		})

		It("returns an empty list for an applicant with no rows", func() {
			rows, err := repo.ListByApplicant(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("UpdateFields", func() {
		It("writes the fields and returns the fresh row", func() {
			created := insert("user-1", "업데이트 대상", time.Now())

			row, matched, err := repo.UpdateFields(ctx, created.ID, map[string]any{
				"status":   submission.StatusApproved,
				"level":    submission.LevelS,
				"feedback": submission.DefaultApprovalFeedback,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(BeTrue())
			Expect(row.Status).To(Equal(submission.StatusApproved))
			Expect(row.Level).To(Equal(submission.LevelS))
			Expect(row.Feedback).To(Equal("승인되었습니다."))
		})

		It("reports no match for an unknown id", func() {
			_, matched, err := repo.UpdateFields(ctx, "missing", map[string]any{
				"status": submission.StatusApproved,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(BeFalse())
		})
	})

	Describe("GetByID", func() {
		It("returns the row", func() {
			created := insert("user-1", "조회 대상", time.Now())

			row, err := repo.GetByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Name).To(Equal("조회 대상"))
		})

		It("returns a not-found error for an unknown id", func() {
			_, err := repo.GetByID(ctx, "missing")
			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})
	})
})
