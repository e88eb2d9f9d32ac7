package workitem

import (
	"time"

	"github.com/jansssss/jbfPL/internal/submission"
)

// WorkItem is an individual work plan. It shares the proposal
// lifecycle but carries no member roster or schedule.
type WorkItem struct {
	ID          string            `json:"id" gorm:"primaryKey;type:uuid"`
	// seq_no is an identity column; the database assigns it, so the
	// field is read-only and never part of an INSERT or UPDATE.
	SeqNo       int64             `json:"no" gorm:"column:seq_no;->"`
	Name        string            `json:"name" gorm:"not null"`
	Description string            `json:"description"`
	Strategy    string            `json:"strategy"`
	Goal        string            `json:"goal"`
	Level       submission.Level  `json:"level" gorm:"type:varchar(1)"`
	Notes       string            `json:"notes"`
	Status      submission.Status `json:"status" gorm:"default:대기중"`
	Feedback    string            `json:"feedback,omitempty"`
	ApplicantID string            `json:"applicant_id" gorm:"column:applicant_id;type:uuid;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (WorkItem) TableName() string {
	return "work"
}

func (w *WorkItem) RecordID() string                 { return w.ID }
func (w *WorkItem) Applicant() string                { return w.ApplicantID }
func (w *WorkItem) CurrentStatus() submission.Status { return w.Status }
func (w *WorkItem) SubmittedAt() time.Time           { return w.CreatedAt }
func (w *WorkItem) SetApplicant(id string)           { w.ApplicantID = id }
func (w *WorkItem) SetStatus(s submission.Status)    { w.Status = s }
