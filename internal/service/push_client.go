package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agendahub/agenda-api/internal/models"
)

// PushClient delivers a push message to the delivery gateway.
type PushClient interface {
	Send(ctx context.Context, msg models.PushMessage) error
}

// HTTPPushClient posts push messages as JSON to a configured endpoint.
type HTTPPushClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPPushClient creates a push client for the given endpoint.
func NewHTTPPushClient(endpoint string, timeout time.Duration) *HTTPPushClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPPushClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Send posts the message. Any non-2xx response is an error so the queue
// retries delivery.
func (c *HTTPPushClient) Send(ctx context.Context, msg models.PushMessage) error {
	if c.endpoint == "" {
		return fmt.Errorf("push endpoint not configured")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return nil
}
