package slack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListConversations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversations.list", r.URL.Path)
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		assert.Equal(t, "public_channel,private_channel", r.URL.Query().Get("types"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok": true,
			"channels": []map[string]interface{}{
				{"id": "C1", "name": "general", "is_member": true},
				{"id": "C2", "name": "secret-ops", "is_member": false, "is_private": true},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "xoxb-test", BaseURL: server.URL})

	channels, err := client.ListConversations(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, Channel{ID: "C1", Name: "general", IsMember: true}, channels[0])
	assert.True(t, channels[1].IsPrivate)
}

func TestListConversations_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "invalid_auth"})
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "bad", BaseURL: server.URL})

	_, err := client.ListConversations(context.Background(), 100)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid_auth", apiErr.Code)
	assert.EqualError(t, err, "slack api error: invalid_auth")
}

func TestPostMessage(t *testing.T) {
	var got postMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "xoxb-test", BaseURL: server.URL})

	err := client.PostMessage(context.Background(), "C1", OutboundMessage{
		Text:   "done",
		Blocks: []Block{HeaderBlock("Optimization Complete")},
	})
	require.NoError(t, err)
	assert.Equal(t, "C1", got.Channel)
	assert.Equal(t, "done", got.Text)
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, "header", got.Blocks[0].Type)
}

func TestPostMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "channel_not_found"})
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "xoxb-test", BaseURL: server.URL})

	err := client.PostMessage(context.Background(), "C404", OutboundMessage{Text: "done"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "channel_not_found", apiErr.Code)
}

func TestAuthTest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth.test", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok": true, "team": "OptiGenix", "user": "cargovortex", "bot_id": "B01",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "xoxb-test", BaseURL: server.URL})

	identity, err := client.AuthTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OptiGenix", identity.Team)
	assert.Equal(t, "cargovortex", identity.User)
	assert.Equal(t, "B01", identity.BotID)
}

func TestDo_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "xoxb-test", BaseURL: server.URL})

	_, err := client.ListConversations(context.Background(), 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport-level errors are not api errors")
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{BotToken: "xoxb-test"})
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
}
