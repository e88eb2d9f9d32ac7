package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type Handler func(ctx context.Context, notice Notice) error

// Bus is an in-process fan-out for notices. Delivery endpoints (the SSE
// stream, log sinks, tests) subscribe; services publish through a
// Notifier and never see the subscriber list.
type Bus struct {
	handlers []Handler
	logger   *slog.Logger
	mu       sync.RWMutex
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, handler)
	b.logger.Info("notice handler registered", "total_handlers", len(b.handlers))
}

// Publish delivers the notice to every subscriber asynchronously. Handler
// failures are logged and do not affect the publisher.
func (b *Bus) Publish(ctx context.Context, notice Notice) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers for notice", "notice_id", notice.ID)
		return
	}

	b.logger.Info("publishing notice",
		"notice_id", notice.ID,
		"severity", notice.Severity,
		"handlers_count", len(handlers))

	for _, handler := range handlers {
		go func(h Handler) {
			if err := h(ctx, notice); err != nil {
				b.logger.Error("notice handler failed",
					"notice_id", notice.ID,
					"severity", notice.Severity,
					"error", err)
			}
		}(handler)
	}
}

// PublishSync delivers in order on the caller's goroutine and stops at the
// first handler failure. Used by the seed/debug commands and tests.
func (b *Bus) PublishSync(ctx context.Context, notice Notice) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, notice); err != nil {
			b.logger.Error("notice handler failed",
				"notice_id", notice.ID,
				"severity", notice.Severity,
				"error", err)
			return fmt.Errorf("handler failed for notice %s: %w", notice.ID, err)
		}
	}

	return nil
}
