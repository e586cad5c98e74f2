package notify

import (
	"context"
	"log/slog"

	"github.com/cargovortex/notify-relay/internal/slack"
)

// listLimit caps how many channels one discovery call considers.
const listLimit = 100

// ChannelLister lists the conversations visible to the bot.
type ChannelLister interface {
	ListConversations(ctx context.Context, limit int) ([]slack.Channel, error)
}

// MessagePoster posts a message to a channel.
type MessagePoster interface {
	PostMessage(ctx context.Context, channelID string, msg slack.OutboundMessage) error
}

// Discovery selects a destination channel for direct delivery. It
// holds no state between calls; memberships change, so every dispatch
// re-runs discovery.
type Discovery struct {
	client    ChannelLister
	primary   string
	fallbacks []string
}

// NewDiscovery creates a Discovery. primary is the preferred channel
// name; fallbacks are conventional names tried next, in order.
func NewDiscovery(client ChannelLister, primary string, fallbacks []string) *Discovery {
	return &Discovery{
		client:    client,
		primary:   primary,
		fallbacks: fallbacks,
	}
}

// Discover returns the best candidate channel, or nil when the bot can
// write nowhere. A nil channel with a nil error is a normal outcome,
// not a fault. Candidates are channels where the bot is a member or
// which are public; a private channel the bot has not joined is not a
// candidate even if listed.
//
// Preference order: the primary name, then any fallback name, then the
// first candidate in listing order.
func (d *Discovery) Discover(ctx context.Context) (*slack.Channel, error) {
	channels, err := d.client.ListConversations(ctx, listLimit)
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}

	var candidates []slack.Channel
	for _, ch := range channels {
		if ch.IsMember || !ch.IsPrivate {
			candidates = append(candidates, ch)
		}
	}

	if len(candidates) == 0 {
		slog.Debug("no accessible channels found", "listed", len(channels))
		return nil, nil
	}

	if d.primary != "" {
		for _, ch := range candidates {
			if ch.Name == d.primary {
				return &ch, nil
			}
		}
	}

	for _, name := range d.fallbacks {
		for _, ch := range candidates {
			if ch.Name == name {
				return &ch, nil
			}
		}
	}

	return &candidates[0], nil
}

// Candidates returns every accessible channel, in listing order. Used
// by diagnostics tooling; dispatch itself only needs Discover.
func (d *Discovery) Candidates(ctx context.Context) ([]slack.Channel, error) {
	channels, err := d.client.ListConversations(ctx, listLimit)
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}

	var candidates []slack.Channel
	for _, ch := range channels {
		if ch.IsMember || !ch.IsPrivate {
			candidates = append(candidates, ch)
		}
	}
	return candidates, nil
}

// VerifyWritable posts a visible probe message to the channel and
// reports whether it was accepted. The probe is a real message, so
// this must only run when explicitly requested, never as part of
// routine discovery.
func VerifyWritable(ctx context.Context, poster MessagePoster, channel slack.Channel) bool {
	err := poster.PostMessage(ctx, channel.ID, slack.OutboundMessage{
		Text: "🧪 Channel access check - verifying the bot can post here",
	})
	if err != nil {
		slog.Debug("writability probe rejected",
			"channel", channel.Name,
			"error", err,
		)
		return false
	}
	return true
}
