package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/rss-desk/app/database"
)

const (
	DefaultTimeout = 30 * time.Second
	PingEvent      = "webhook.test"

	maxResponseSize = 4 << 10
)

// Result is the outcome of a single test delivery
type Result struct {
	Success      bool   `json:"success"`
	Response     string `json:"response"`
	ResponseTime int64  `json:"responseTime"`
}

type pingPayload struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	WebhookID int       `json:"webhookId"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Pinger posts a JSON test payload to a webhook URL and records the outcome
type Pinger struct {
	httpClient *http.Client
	webhooks   database.WebhookRepository
	userAgent  string
	timeout    time.Duration
	now        func() time.Time
}

func NewPinger(httpClient *http.Client, webhooks database.WebhookRepository, userAgent string, timeout time.Duration) *Pinger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pinger{
		httpClient: httpClient,
		webhooks:   webhooks,
		userAgent:  userAgent,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Test pings the webhook with the given id. Delivery failures are reported in
// the result; the error covers lookup and bookkeeping only.
func (p *Pinger) Test(ctx context.Context, id int) (*Result, error) {
	hook, err := p.webhooks.GetByID(id)
	if err != nil {
		return nil, err
	}

	result := p.Ping(ctx, *hook)

	if _, err := p.webhooks.RecordTest(id, result.Success, p.now()); err != nil {
		return nil, fmt.Errorf("failed to record webhook test: %w", err)
	}

	slog.Info("Webhook tested",
		"webhook_id", id,
		"url", hook.URL,
		"success", result.Success,
		"response_time_ms", result.ResponseTime)

	return result, nil
}

// Ping delivers one test payload to hook.URL
func (p *Pinger) Ping(ctx context.Context, hook database.Webhook) *Result {
	start := time.Now()
	result := &Result{}

	response, err := p.post(ctx, hook)
	result.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		result.Response = err.Error()
		return result
	}

	result.Success = true
	result.Response = response
	return result
}

func (p *Pinger) post(ctx context.Context, hook database.Webhook) (string, error) {
	body, err := json.Marshal(pingPayload{
		ID:        uuid.NewString(),
		Event:     PingEvent,
		WebhookID: hook.ID,
		Name:      hook.Name,
		Timestamp: p.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", PingEvent)
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Only the status line is needed; drain a bounded prefix so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP error: %s", resp.Status)
	}

	return resp.Status, nil
}
