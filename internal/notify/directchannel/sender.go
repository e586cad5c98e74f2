// Package directchannel delivers notifications by posting to a
// messaging channel over the authenticated bot API. Each attempt runs
// channel discovery first and then a single post; the adapter keeps no
// state between attempts.
package directchannel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/cargovortex/notify-relay/internal/notify"
	"github.com/cargovortex/notify-relay/internal/slack"
)

const defaultPostRate = 1.0 // posts per second

// API is the subset of the bot transport the sender needs.
type API interface {
	notify.ChannelLister
	notify.MessagePoster
}

// Config holds direct-channel sender configuration.
type Config struct {
	PrimaryChannel   string
	FallbackChannels []string
	PostRate         float64 // chat posts per second, default 1
}

// Sender posts notifications to a live-discovered channel.
type Sender struct {
	client    API
	discovery *notify.Discovery
	limiter   *rate.Limiter
}

// NewSender creates a direct-channel sender.
func NewSender(client API, config Config) *Sender {
	if config.PostRate <= 0 {
		config.PostRate = defaultPostRate
	}

	return &Sender{
		client:    client,
		discovery: notify.NewDiscovery(client, config.PrimaryChannel, config.FallbackChannels),
		limiter:   rate.NewLimiter(rate.Limit(config.PostRate), 1),
	}
}

// Kind returns the transport kind.
func (s *Sender) Kind() notify.TransportKind {
	return notify.TransportDirect
}

// Discovery exposes the sender's channel discovery for diagnostics.
func (s *Sender) Discovery() *notify.Discovery {
	return s.discovery
}

// Deliver discovers a destination and posts the message to it. No
// accessible channel is a normal failure of this branch; discovery
// errors and API rejections are failures too, never panics or retries.
func (s *Sender) Deliver(ctx context.Context, msg notify.Message) notify.Outcome {
	if err := s.limiter.Wait(ctx); err != nil {
		return timeoutOrFailure(ctx, err, "rate limit wait")
	}

	channel, err := s.discovery.Discover(ctx)
	if err != nil {
		return timeoutOrFailure(ctx, err, "discover channel")
	}
	if channel == nil {
		return notify.Failed("no accessible channel found")
	}

	err = s.client.PostMessage(ctx, channel.ID, slack.OutboundMessage{
		Text:   msg.Text,
		Blocks: msg.Blocks,
	})
	if err != nil {
		var apiErr *slack.APIError
		if errors.As(err, &apiErr) {
			return notify.Failed(fmt.Sprintf("post to #%s: %s", channel.Name, apiErr.Code))
		}
		return timeoutOrFailure(ctx, err, fmt.Sprintf("post to #%s", channel.Name))
	}

	slog.Debug("message posted", "channel", channel.Name)
	return notify.Delivered()
}

func timeoutOrFailure(ctx context.Context, err error, op string) notify.Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return notify.TimedOut(fmt.Sprintf("%s: %v", op, err))
	}
	return notify.Failed(fmt.Sprintf("%s: %v", op, err))
}

var _ notify.Transport = (*Sender)(nil)
