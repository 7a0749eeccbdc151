// internal/infra/teams/client.go
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// payload is the Teams incoming-webhook body. Any 2xx response counts as
// delivered; everything else is a send failure for that target.
type payload struct {
	Text string `json:"text"`
}

// Client posts messages to Teams incoming webhooks. It implements the
// domain teams.Sender interface.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a webhook client with a bounded per-request timeout so
// a hung endpoint cannot stall a whole dispatch run.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Send(ctx context.Context, webhookURL, text string) error {
	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return fmt.Errorf("failed to marshal teams payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build teams request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send teams message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("teams webhook returned non-2xx status code: %d", resp.StatusCode)
	}
	return nil
}
