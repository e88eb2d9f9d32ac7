package principal_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jansssss/jbfPL/internal/principal"
)

func TestPrincipal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Principal Suite")
}

var _ = Describe("Role gate", func() {
	It("treats level 3 as administrator", func() {
		p := &principal.Principal{AccessLevel: 3}
		Expect(p.IsAdministrator()).To(BeTrue())
		Expect(p.CanDecide()).To(BeTrue())
	})

	It("denies administrator capability to levels 1 and 2", func() {
		for _, level := range []int{1, 2} {
			p := &principal.Principal{AccessLevel: level}
			Expect(p.IsAdministrator()).To(BeFalse(), "level %d", level)
			Expect(p.CanDecide()).To(BeFalse(), "level %d", level)
		}
	})

	It("does not grant administrator capability by default", func() {
		p := &principal.Principal{}
		Expect(p.IsAdministrator()).To(BeFalse())
	})
})
