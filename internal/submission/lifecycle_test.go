package submission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jansssss/jbfPL/internal"
	"github.com/jansssss/jbfPL/internal/submission"
)

var _ = Describe("Decisions", func() {
	Describe("ApprovalDecision", func() {
		It("applies the canned message when feedback is blank", func() {
			d, err := submission.ApprovalDecision(submission.LevelS, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status).To(Equal(submission.StatusApproved))
			Expect(d.Level).To(Equal(submission.LevelS))
			Expect(d.Feedback).To(Equal("승인되었습니다."))
		})

		It("keeps administrator feedback when present", func() {
			d, err := submission.ApprovalDecision(submission.LevelA, "잘 구성된 계획입니다.")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Feedback).To(Equal("잘 구성된 계획입니다."))
		})

		It("rejects an unknown grade", func() {
			_, err := submission.ApprovalDecision("C", "")
			Expect(err).To(Equal(internal.ErrInvalidLevel))
		})

		It("writes status, level and feedback columns", func() {
			d, err := submission.ApprovalDecision(submission.LevelB, "")
			Expect(err).NotTo(HaveOccurred())

			fields := d.Fields()
			Expect(fields).To(HaveKeyWithValue("status", "승인됨"))
			Expect(fields).To(HaveKeyWithValue("level", "B"))
			Expect(fields).To(HaveKeyWithValue("feedback", "승인되었습니다."))
			Expect(fields).To(HaveKey("updated_at"))
		})
	})

	Describe("RejectionDecision", func() {
		It("fails validation on blank feedback", func() {
			_, err := submission.RejectionDecision("")
			Expect(err).To(Equal(internal.ErrFeedbackRequired))

			_, err = submission.RejectionDecision("   ")
			Expect(err).To(Equal(internal.ErrFeedbackRequired))
		})

		It("transitions to rejected with the given feedback", func() {
			d, err := submission.RejectionDecision("보완 필요")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status).To(Equal(submission.StatusRejected))
			Expect(d.Feedback).To(Equal("보완 필요"))
		})

		It("does not touch the level column", func() {
			d, err := submission.RejectionDecision("보완 필요")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Fields()).NotTo(HaveKey("level"))
		})
	})
})
