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

	"github.com/jansssss/jbfPL/internal/submission"
	"github.com/jansssss/jbfPL/internal/workitem"
)

func TestWorkItemRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "WorkItemRepository Suite")
}

type SQLiteWork struct {
	ID          string    `gorm:"primaryKey"`
	SeqNo       int64     `gorm:"column:seq_no;->"`
	Name        string    `gorm:"not null"`
	Description string    `gorm:"column:description"`
	Strategy    string    `gorm:"column:strategy"`
	Goal        string    `gorm:"column:goal"`
	Level       string    `gorm:"column:level"`
	Notes       string    `gorm:"column:notes"`
	Status      string    `gorm:"column:status;default:'대기중'"`
	Feedback    string    `gorm:"column:feedback"`
	ApplicantID string    `gorm:"column:applicant_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteWork) TableName() string {
	return "work"
}

var _ = Describe("WorkItemRepository", func() {
	var (
		db   *gorm.DB
		repo *Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteWork{})
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

	insert := func(applicantID, name string, createdAt time.Time) *workitem.WorkItem {
		w := &workitem.WorkItem{
			Name:        name,
			Status:      submission.StatusPending,
			ApplicantID: applicantID,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
		created, err := repo.Insert(ctx, w)
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	Describe("Insert", func() {
		It("assigns an id when the work item has none", func() {
			created := insert("user-1", "시험분석 업무", time.Now())
			Expect(created.ID).NotTo(BeEmpty())
		})

		It("leaves the identity column to the database", func() {
			w := &workitem.WorkItem{
				ID:          "seq-check",
				Name:        "순번 확인",
				Status:      submission.StatusPending,
				ApplicantID: "user-1",
			}

			dry := db.Session(&gorm.Session{DryRun: true}).Create(w)
			Expect(dry.Error).NotTo(HaveOccurred())
			Expect(dry.Statement.SQL.String()).NotTo(ContainSubstring("seq_no"))
		})
	})

	Describe("ListByApplicant", func() {
		It("returns only the applicant's rows newest first", func() {
			base := time.Now().Add(-time.Hour)
			insert("user-1", "첫번째", base)
			insert("user-1", "두번째", base.Add(time.Minute))
			insert("user-2", "남의 계획", base.Add(2*time.Minute))

			rows, err := repo.ListByApplicant(ctx, "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("두번째"))
		})
	})

	Describe("UpdateFields", func() {
		It("writes the decision fields and returns the fresh row", func() {
			created := insert("user-1", "반려 대상", time.Now())

			row, matched, err := repo.UpdateFields(ctx, created.ID, map[string]any{
				"status":   submission.StatusRejected,
				"feedback": "보완 필요",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(matched).To(BeTrue())
			Expect(row.Status).To(Equal(submission.StatusRejected))
			Expect(row.Feedback).To(Equal("보완 필요"))
		})
	})
})
