package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DefaultDismissAfter matches the toast lifetime the browser shell uses.
const DefaultDismissAfter = 5 * time.Second

// Notice is a single user-visible message. Multiple active notices stack;
// each carries its own dismissal deadline.
type Notice struct {
	ID           string        `json:"id"`
	Text         string        `json:"text"`
	Severity     Severity      `json:"severity"`
	PublishedAt  time.Time     `json:"published_at"`
	DismissAfter time.Duration `json:"dismiss_after"`
}

// Notifier is the sink services publish user-visible messages to. It is
// injected into every service that needs it rather than installed as a
// process global.
type Notifier interface {
	Notify(ctx context.Context, text string, severity Severity)
}

// BusNotifier publishes notices onto a Bus.
type BusNotifier struct {
	bus          *Bus
	dismissAfter time.Duration
}

func NewBusNotifier(bus *Bus, dismissAfter time.Duration) *BusNotifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &BusNotifier{bus: bus, dismissAfter: dismissAfter}
}

func (n *BusNotifier) Notify(ctx context.Context, text string, severity Severity) {
	n.bus.Publish(ctx, Notice{
		ID:           uuid.NewString(),
		Text:         text,
		Severity:     severity,
		PublishedAt:  time.Now(),
		DismissAfter: n.dismissAfter,
	})
}
