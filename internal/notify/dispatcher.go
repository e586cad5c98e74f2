package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default per-transport wall-clock budgets.
const (
	DefaultDirectBudget  = 10 * time.Second
	DefaultWebhookBudget = 10 * time.Second
)

// Result is the subsystem's external contract: one aggregate outcome
// per dispatch. It is returned to the caller and never retained here.
type Result struct {
	ID        string        `json:"id"`
	Success   bool          `json:"success"`
	Transport TransportKind `json:"transport"`
	Detail    string        `json:"detail"`
}

// DispatcherConfig tunes the dispatcher. Zero budgets fall back to the
// 10-second defaults. RedundantDelivery restores the legacy dual-send
// behavior: after a direct delivery the webhook is also attempted, but
// the reported result still names a single successful transport.
type DispatcherConfig struct {
	DirectBudget      time.Duration
	WebhookBudget     time.Duration
	RedundantDelivery bool
}

// Dispatcher orchestrates one delivery: direct channel first for its
// richer formatting, webhook as fallback. A nil transport means that
// transport is not configured; with neither configured every dispatch
// resolves immediately to a failure result. Dispatch never returns an
// error and dispatch calls for independent events may run concurrently.
type Dispatcher struct {
	formatter *Formatter
	direct    Transport
	webhook   Transport
	config    DispatcherConfig
}

// NewDispatcher creates a dispatcher. direct and webhook may each be
// nil when the corresponding transport is not configured.
func NewDispatcher(formatter *Formatter, direct, webhook Transport, config DispatcherConfig) *Dispatcher {
	if config.DirectBudget <= 0 {
		config.DirectBudget = DefaultDirectBudget
	}
	if config.WebhookBudget <= 0 {
		config.WebhookBudget = DefaultWebhookBudget
	}
	return &Dispatcher{
		formatter: formatter,
		direct:    direct,
		webhook:   webhook,
		config:    config,
	}
}

// Notify formats the event and dispatches the rendered message.
func (d *Dispatcher) Notify(ctx context.Context, event Event) Result {
	return d.Dispatch(ctx, d.formatter.Format(event))
}

// Dispatch delivers one rendered message. Every path terminates in a
// Result; at most one successful delivery is ever reported.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Result {
	id := uuid.NewString()
	logger := slog.With("dispatch_id", id)

	if d.direct == nil && d.webhook == nil {
		logger.Warn("dispatch skipped", "detail", detailNoTransport)
		recordDispatch(TransportNone, false)
		return Result{ID: id, Transport: TransportNone, Detail: detailNoTransport}
	}

	var failures []string

	if d.direct != nil {
		outcome := d.attempt(ctx, d.direct, d.config.DirectBudget, msg)
		if outcome.Status == StatusDelivered {
			logger.Info("notification delivered", "transport", TransportDirect)
			if d.config.RedundantDelivery && d.webhook != nil {
				bonus := d.attempt(ctx, d.webhook, d.config.WebhookBudget, msg)
				logger.Debug("redundant webhook attempt", "status", bonus.Status, "reason", bonus.Reason)
			}
			recordDispatch(TransportDirect, true)
			return Result{
				ID:        id,
				Success:   true,
				Transport: TransportDirect,
				Detail:    "delivered via direct channel",
			}
		}

		failures = append(failures, fmt.Sprintf("direct: %s", outcome.Reason))
		logger.Warn("direct channel attempt failed",
			"status", outcome.Status,
			"reason", outcome.Reason,
		)
	}

	if d.webhook != nil {
		outcome := d.attempt(ctx, d.webhook, d.config.WebhookBudget, msg)
		if outcome.Status == StatusDelivered {
			logger.Info("notification delivered", "transport", TransportWebhook)
			recordDispatch(TransportWebhook, true)
			detail := "delivered via webhook"
			if len(failures) > 0 {
				detail = fmt.Sprintf("%s (%s)", detail, strings.Join(failures, "; "))
			}
			return Result{ID: id, Success: true, Transport: TransportWebhook, Detail: detail}
		}

		failures = append(failures, fmt.Sprintf("webhook: %s", outcome.Reason))
		logger.Warn("webhook attempt failed",
			"status", outcome.Status,
			"reason", outcome.Reason,
		)
		recordDispatch(TransportWebhook, false)
		return Result{ID: id, Transport: TransportWebhook, Detail: strings.Join(failures, "; ")}
	}

	recordDispatch(TransportDirect, false)
	return Result{ID: id, Transport: TransportDirect, Detail: strings.Join(failures, "; ")}
}

// attempt runs one transport attempt under a wall-clock budget. The
// budget is enforced here, not in the adapter, so even a transport
// that ignores its context cannot stall the dispatch past its ceiling.
func (d *Dispatcher) attempt(ctx context.Context, t Transport, budget time.Duration, msg Message) Outcome {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	ch := make(chan Outcome, 1)
	go func() {
		ch <- t.Deliver(ctx, msg)
	}()

	var outcome Outcome
	select {
	case outcome = <-ch:
	case <-ctx.Done():
		outcome = TimedOut(fmt.Sprintf("budget of %s exceeded", budget))
	}

	recordAttempt(t.Kind(), outcome.Status, time.Since(start))
	return outcome
}
