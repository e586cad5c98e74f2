// Package slack provides a minimal Slack Web API client covering the
// calls the notification subsystem needs: listing conversations,
// posting messages and verifying the bot token.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the Slack Web API endpoint.
const DefaultBaseURL = "https://slack.com/api"

const defaultTimeout = 10 * time.Second

// Channel is a conversation visible to the bot.
type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsMember  bool   `json:"is_member"`
	IsPrivate bool   `json:"is_private"`
}

// Identity describes the authenticated bot, as reported by auth.test.
type Identity struct {
	Team  string `json:"team"`
	User  string `json:"user"`
	BotID string `json:"bot_id"`
}

// OutboundMessage is the body of a chat.postMessage call.
// Text is always present and doubles as the fallback rendering for
// clients that do not display blocks.
type OutboundMessage struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// APIError is a Slack-level rejection: the HTTP call succeeded but the
// response carried ok=false with an error code such as "channel_not_found".
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack api error: %s", e.Code)
}

// Config holds client configuration.
type Config struct {
	BotToken string
	BaseURL  string        // defaults to DefaultBaseURL
	Timeout  time.Duration // per-request timeout, defaults to 10s
}

// Client calls the Slack Web API over HTTP. It keeps no connection
// state between calls; each method is a single request/response.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Slack Web API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		token:   config.BotToken,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type listConversationsResponse struct {
	OK       bool      `json:"ok"`
	Error    string    `json:"error"`
	Channels []Channel `json:"channels"`
}

// ListConversations fetches one page of public and private channels
// visible to the bot, capped at limit entries.
func (c *Client) ListConversations(ctx context.Context, limit int) ([]Channel, error) {
	params := url.Values{}
	params.Set("types", "public_channel,private_channel")
	params.Set("limit", strconv.Itoa(limit))

	endpoint := fmt.Sprintf("%s/conversations.list?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	var out listConversationsResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, &APIError{Code: out.Error}
	}

	return out.Channels, nil
}

type postMessageRequest struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
	Blocks  []Block `json:"blocks,omitempty"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage posts a message to the given channel via chat.postMessage.
func (c *Client) PostMessage(ctx context.Context, channelID string, msg OutboundMessage) error {
	body, err := json.Marshal(postMessageRequest{
		Channel: channelID,
		Text:    msg.Text,
		Blocks:  msg.Blocks,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var out apiResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if !out.OK {
		return &APIError{Code: out.Error}
	}

	return nil
}

type authTestResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Identity
}

// AuthTest verifies the bot token and returns the bot's identity.
func (c *Client) AuthTest(ctx context.Context) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth.test", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	var out authTestResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, &APIError{Code: out.Error}
	}

	return &out.Identity, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
