package notify

import (
	"context"
	"log"
)

// LogNotifier writes alerts to the process log. Used when no email
// configuration is present (local development).
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, subject, message string) error {
	log.Printf("📨 [alert] %s: %s", subject, message)
	return nil
}
