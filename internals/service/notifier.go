package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event is what the notifier delivers to the workflow endpoint.
type Event struct {
	Type     string `json:"type"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Notifier delivers domain events to an external workflow, best-effort.
// Delivery failures never fail the operation that produced the event.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// WebhookNotifier POSTs events as JSON to a configured endpoint.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

func NewWebhookNotifier(endpoint string) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("workflow endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier is used when no workflow endpoint is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, event Event) error { return nil }
