// Package webhook delivers notifications through a pre-shared incoming
// webhook URL. The transport is stateless: no session, no retry, one
// POST per attempt.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cargovortex/notify-relay/internal/notify"
	"github.com/cargovortex/notify-relay/internal/slack"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultUsername = "CargoVortex Bot"
)

// Config holds webhook sender configuration.
type Config struct {
	URL       string
	Username  string        // display name, default "CargoVortex Bot"
	IconEmoji string        // e.g. ":truck:" (optional)
	Timeout   time.Duration // request timeout
}

// Sender posts notifications to the configured webhook URL.
type Sender struct {
	config     Config
	httpClient *http.Client
}

// NewSender creates a webhook sender.
func NewSender(config Config) *Sender {
	if config.Username == "" {
		config.Username = defaultUsername
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Sender{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Kind returns the transport kind.
func (s *Sender) Kind() notify.TransportKind {
	return notify.TransportWebhook
}

type webhookPayload struct {
	Text      string        `json:"text"`
	Blocks    []slack.Block `json:"blocks,omitempty"`
	Username  string        `json:"username,omitempty"`
	IconEmoji string        `json:"icon_emoji,omitempty"`
}

// Deliver POSTs the message to the webhook URL. Success is a 2xx
// response; anything else, including transport errors, is a failure.
// A context deadline surfacing mid-call reports as timed out.
func (s *Sender) Deliver(ctx context.Context, msg notify.Message) notify.Outcome {
	if s.config.URL == "" {
		return notify.Failed("webhook URL is empty")
	}

	body, err := json.Marshal(webhookPayload{
		Text:      msg.Text,
		Blocks:    msg.Blocks,
		Username:  s.config.Username,
		IconEmoji: s.config.IconEmoji,
	})
	if err != nil {
		return notify.Failed(fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return notify.Failed(fmt.Sprintf("create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return notify.TimedOut(fmt.Sprintf("webhook call: %v", err))
		}
		return notify.Failed(fmt.Sprintf("send request: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Debug("webhook message sent", "webhook", maskWebhookURL(s.config.URL))
		return notify.Delivered()
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return notify.Failed(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
}

// maskWebhookURL hides part of the URL for logging.
func maskWebhookURL(url string) string {
	if len(url) > 40 {
		return url[:20] + "..." + url[len(url)-10:]
	}
	return url
}

var _ notify.Transport = (*Sender)(nil)
