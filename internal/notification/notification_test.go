package notification_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jansssss/jbfPL/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var _ = Describe("BusNotifier", func() {
	var (
		bus      *notification.Bus
		notifier *notification.BusNotifier
		received chan notification.Notice
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = notification.NewBus(logger)
		received = make(chan notification.Notice, 10)
		bus.Subscribe(func(ctx context.Context, n notification.Notice) error {
			received <- n
			return nil
		})
		notifier = notification.NewBusNotifier(bus, 0)
	})

	It("delivers notices to subscribers with the default dismissal delay", func() {
		notifier.Notify(context.Background(), "로그인에 성공했습니다.", notification.SeveritySuccess)

		var n notification.Notice
		Eventually(received).Should(Receive(&n))
		Expect(n.Text).To(Equal("로그인에 성공했습니다."))
		Expect(n.Severity).To(Equal(notification.SeveritySuccess))
		Expect(n.DismissAfter).To(Equal(5 * time.Second))
		Expect(n.ID).NotTo(BeEmpty())
	})

	It("stacks multiple active notices", func() {
		notifier.Notify(context.Background(), "first", notification.SeverityInfo)
		notifier.Notify(context.Background(), "second", notification.SeverityError)

		texts := map[string]bool{}
		for i := 0; i < 2; i++ {
			var n notification.Notice
			Eventually(received).Should(Receive(&n))
			texts[n.Text] = true
		}
		Expect(texts).To(HaveKey("first"))
		Expect(texts).To(HaveKey("second"))
	})

	It("fans out to every subscriber", func() {
		second := make(chan notification.Notice, 1)
		bus.Subscribe(func(ctx context.Context, n notification.Notice) error {
			second <- n
			return nil
		})

		notifier.Notify(context.Background(), "broadcast", notification.SeverityInfo)

		Eventually(received).Should(Receive())
		Eventually(second).Should(Receive())
	})
})
