package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargovortex/notify-relay/internal/notify"
	"github.com/cargovortex/notify-relay/internal/notify/directchannel"
	"github.com/cargovortex/notify-relay/internal/notify/webhook"
	"github.com/cargovortex/notify-relay/internal/slack"
)

type fakeTransport struct {
	kind    notify.TransportKind
	outcome notify.Outcome
	delay   time.Duration
	calls   int
}

func (f *fakeTransport) Kind() notify.TransportKind { return f.kind }

func (f *fakeTransport) Deliver(ctx context.Context, _ notify.Message) notify.Outcome {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return notify.TimedOut(ctx.Err().Error())
		}
	}
	return f.outcome
}

func newDispatcher(direct, hook notify.Transport, cfg notify.DispatcherConfig) *notify.Dispatcher {
	return notify.NewDispatcher(notify.NewFormatter(), direct, hook, cfg)
}

func TestDispatch_NoTransportConfigured(t *testing.T) {
	d := newDispatcher(nil, nil, notify.DispatcherConfig{})

	start := time.Now()
	result := d.Notify(context.Background(), notify.Event{})

	assert.False(t, result.Success)
	assert.Equal(t, notify.TransportNone, result.Transport)
	assert.Contains(t, result.Detail, "no notification transport configured")
	assert.NotEmpty(t, result.ID)
	assert.Less(t, time.Since(start), time.Second, "no network calls may be attempted")
}

func TestDispatch_DirectSuccessSkipsWebhook(t *testing.T) {
	direct := &fakeTransport{kind: notify.TransportDirect, outcome: notify.Delivered()}
	hook := &fakeTransport{kind: notify.TransportWebhook, outcome: notify.Delivered()}
	d := newDispatcher(direct, hook, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{})

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportDirect, result.Transport)
	assert.Equal(t, 1, direct.calls)
	assert.Equal(t, 0, hook.calls, "webhook must not be attempted after a direct delivery")
}

func TestDispatch_DirectFailureFallsBack(t *testing.T) {
	direct := &fakeTransport{kind: notify.TransportDirect, outcome: notify.Failed("channel_not_found")}
	hook := &fakeTransport{kind: notify.TransportWebhook, outcome: notify.Delivered()}
	d := newDispatcher(direct, hook, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{})

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportWebhook, result.Transport)
	assert.Contains(t, result.Detail, "channel_not_found")
	assert.Equal(t, 1, hook.calls)
}

func TestDispatch_DirectTimeoutBoundedFallback(t *testing.T) {
	direct := &fakeTransport{kind: notify.TransportDirect, delay: 5 * time.Second, outcome: notify.Delivered()}
	hook := &fakeTransport{kind: notify.TransportWebhook, outcome: notify.Delivered()}
	d := newDispatcher(direct, hook, notify.DispatcherConfig{
		DirectBudget:  50 * time.Millisecond,
		WebhookBudget: 50 * time.Millisecond,
	})

	start := time.Now()
	result := d.Notify(context.Background(), notify.Event{})
	elapsed := time.Since(start)

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportWebhook, result.Transport)
	assert.Less(t, elapsed, time.Second, "total wall time is bounded by the sum of the two budgets")
}

func TestDispatch_BothTransportsFail(t *testing.T) {
	direct := &fakeTransport{kind: notify.TransportDirect, outcome: notify.Failed("not_authed")}
	hook := &fakeTransport{kind: notify.TransportWebhook, outcome: notify.Failed("unexpected status 404")}
	d := newDispatcher(direct, hook, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{})

	assert.False(t, result.Success)
	assert.Contains(t, result.Detail, "not_authed")
	assert.Contains(t, result.Detail, "unexpected status 404")
}

func TestDispatch_WebhookOnly(t *testing.T) {
	hook := &fakeTransport{kind: notify.TransportWebhook, outcome: notify.Delivered()}
	d := newDispatcher(nil, hook, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{})

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportWebhook, result.Transport)
}

func TestDispatch_DirectOnlyFailure(t *testing.T) {
	direct := &fakeTransport{kind: notify.TransportDirect, outcome: notify.Failed("no accessible channel found")}
	d := newDispatcher(direct, nil, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{})

	assert.False(t, result.Success)
	assert.Equal(t, notify.TransportDirect, result.Transport)
	assert.Contains(t, result.Detail, "no accessible channel found")
}

func TestDispatch_RedundantDelivery(t *testing.T) {
	direct := &fakeTransport{kind: notify.TransportDirect, outcome: notify.Delivered()}
	hook := &fakeTransport{kind: notify.TransportWebhook, outcome: notify.Delivered()}
	d := newDispatcher(direct, hook, notify.DispatcherConfig{RedundantDelivery: true})

	result := d.Notify(context.Background(), notify.Event{})

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportDirect, result.Transport, "only one successful transport is reported")
	assert.Equal(t, 1, direct.calls)
	assert.Equal(t, 1, hook.calls, "redundant mode also posts to the webhook")
}

// fakeSlackAPI serves conversations.list and chat.postMessage for the
// end-to-end scenarios below.
func fakeSlackAPI(t *testing.T, channels []slack.Channel, postedText *string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations.list", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":       true,
			"channels": channels,
		})
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if postedText != nil {
			*postedText = body.Text
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	})
	return httptest.NewServer(mux)
}

func TestDispatch_NoCandidatesFallsBackToWebhook(t *testing.T) {
	apiServer := fakeSlackAPI(t, nil, nil)
	defer apiServer.Close()

	var payload struct {
		Text string `json:"text"`
	}
	hookServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer hookServer.Close()

	client := slack.NewClient(slack.Config{BotToken: "xoxb-test", BaseURL: apiServer.URL})
	direct := directchannel.NewSender(client, directchannel.Config{PrimaryChannel: "cargovortex-alerts"})
	hook := webhook.NewSender(webhook.Config{URL: hookServer.URL})

	d := newDispatcher(direct, hook, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{
		VolumeUtilization: 87.5,
		ItemsPacked:       245,
		TotalItems:        280,
		UserName:          "Alice",
	})

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportWebhook, result.Transport)
	assert.Contains(t, payload.Text, "87.5")
	assert.Contains(t, payload.Text, "245")
}

func TestDispatch_WebhookUnreachableDeliversDirect(t *testing.T) {
	var postedText string
	apiServer := fakeSlackAPI(t, []slack.Channel{
		{ID: "C42", Name: "cargovortex-alerts", IsMember: true},
	}, &postedText)
	defer apiServer.Close()

	// A server closed before use yields a connection error.
	deadServer := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := deadServer.URL
	deadServer.Close()

	client := slack.NewClient(slack.Config{BotToken: "xoxb-test", BaseURL: apiServer.URL})
	direct := directchannel.NewSender(client, directchannel.Config{PrimaryChannel: "cargovortex-alerts"})
	hook := webhook.NewSender(webhook.Config{URL: deadURL})

	d := newDispatcher(direct, hook, notify.DispatcherConfig{})

	result := d.Notify(context.Background(), notify.Event{
		VolumeUtilization: 87.5,
		ItemsPacked:       245,
		TotalItems:        280,
		UserName:          "Alice",
	})

	assert.True(t, result.Success)
	assert.Equal(t, notify.TransportDirect, result.Transport)
	assert.Contains(t, postedText, "87.5")
	assert.Contains(t, postedText, "Alice")
}
