package proposal

import (
	"time"

	"github.com/jansssss/jbfPL/internal/submission"
)

// Proposal is a project submission. The level field holds the
// submitter's estimate until an administrator overwrites it with the
// final grade at approval; feedback holds only the latest decision
// comment.
type Proposal struct {
	ID          string            `json:"id" gorm:"primaryKey;type:uuid"`
	// seq_no is an identity column; the database assigns it, so the
	// field is read-only and never part of an INSERT or UPDATE.
	SeqNo       int64             `json:"no" gorm:"column:seq_no;->"`
	Name        string            `json:"name" gorm:"not null"`
	Description string            `json:"description"`
	Members     string            `json:"members"`
	Strategy    string            `json:"strategy"`
	Goal        string            `json:"goal"`
	Level       submission.Level  `json:"level" gorm:"type:varchar(1)"`
	Notes       string            `json:"notes"`
	Status      submission.Status `json:"status" gorm:"default:대기중"`
	Feedback    string            `json:"feedback,omitempty"`
	ApplicantID string            `json:"applicant_id" gorm:"column:applicant_id;type:uuid;not null"`

	StartDate    *time.Time `json:"start_date,omitempty" gorm:"column:start_date;type:date"`
	EndDate      *time.Time `json:"end_date,omitempty" gorm:"column:end_date;type:date"`
	Background   string     `json:"background,omitempty"`
	Contribution string     `json:"contribution,omitempty"`
	Innovation   string     `json:"innovation,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Proposal) TableName() string {
	return "projects"
}

func (p *Proposal) RecordID() string                 { return p.ID }
func (p *Proposal) Applicant() string                { return p.ApplicantID }
func (p *Proposal) CurrentStatus() submission.Status { return p.Status }
func (p *Proposal) SubmittedAt() time.Time           { return p.CreatedAt }
func (p *Proposal) SetApplicant(id string)           { p.ApplicantID = id }
func (p *Proposal) SetStatus(s submission.Status)    { p.Status = s }

// IsDecided reports whether an administrator has already ruled on this
// proposal. Decided proposals stay decidable: nothing locks the status,
// a later decision just overwrites (last write wins).
func (p *Proposal) IsDecided() bool {
	return p.Status == submission.StatusApproved || p.Status == submission.StatusRejected
}
