package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jansssss/jbfPL/internal/notification"
	"github.com/jansssss/jbfPL/pkg/logger"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification bus commands",
	Long:  `Publish test notices to the in-process notification bus for debugging`,
}

var publishNoticeCmd = &cobra.Command{
	Use:   "publish [severity]",
	Short: "Publish a test notice",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestNotice(notification.Severity(args[0]))
	},
}

var noticeText string

func publishTestNotice(severity notification.Severity) {
	lg := logger.L()

	bus := notification.NewBus(lg)
	bus.Subscribe(func(ctx context.Context, notice notification.Notice) error {
		lg.Info("test handler received notice",
			"notice_id", notice.ID,
			"severity", notice.Severity,
			"text", notice.Text)
		return nil
	})

	notifier := notification.NewBusNotifier(bus, notification.DefaultDismissAfter)

	lg.Info("publishing test notice", "severity", severity)
	notifier.Notify(context.Background(), noticeText, severity)

	time.Sleep(100 * time.Millisecond)
	lg.Info("test notice published")
}

func init() {
	publishNoticeCmd.Flags().StringVar(&noticeText, "text", "테스트 알림입니다.", "Notice text")

	notifyCmd.AddCommand(publishNoticeCmd)

	rootCmd.AddCommand(notifyCmd)
}
