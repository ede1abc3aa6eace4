package notify

import "context"

// Notifier delivers operator-facing alerts (e.g. a negative feedback
// submission). Implementations must be safe for concurrent use; delivery is
// best-effort and never blocks request handling.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}
