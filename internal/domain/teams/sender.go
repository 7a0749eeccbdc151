// internal/domain/teams/sender.go
package teams

import "context"

// Sender defines an interface for delivering one message to one webhook URL.
// This decouples the dispatch logic from the HTTP client so tests can
// substitute a fake.
type Sender interface {
	// Send posts the text to the webhook URL. A nil error means the
	// endpoint answered with a 2xx status.
	Send(ctx context.Context, webhookURL, text string) error
}
