package submission

import "time"

// Status is the lifecycle state of a submitted record. The values are the
// localized labels the tables store and the frontend renders directly.
type Status string

const (
	StatusPending  Status = "대기중"
	StatusApproved Status = "승인됨"
	StatusRejected Status = "거절됨"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Level is the grade of a submission: the submitter's initial estimate at
// creation, overwritten with the final grade when an administrator
// approves. Both uses share the one field.
type Level string

const (
	LevelS Level = "S"
	LevelA Level = "A"
	LevelB Level = "B"
)

func (l Level) Valid() bool {
	switch l {
	case LevelS, LevelA, LevelB:
		return true
	}
	return false
}

// Canned feedback applied when an administrator approves without writing
// a review comment. Rejection has no canned fallback: feedback is
// mandatory there.
const DefaultApprovalFeedback = "승인되었습니다."

// Record is what the generic store needs from a submittable entity.
// Implemented by *proposal.Proposal and *workitem.WorkItem.
type Record interface {
	RecordID() string
	Applicant() string
	CurrentStatus() Status
	SubmittedAt() time.Time

	SetApplicant(id string)
	SetStatus(status Status)
}
