// internal/domain/teams/channel.go
package teams

import "time"

// Channel is one Teams incoming-webhook target, managed by the admin UI
// and read-only to this service.
type Channel struct {
	ID         string
	Name       string
	WebhookURL string
	IsActive   bool
	CreatedAt  time.Time
}
