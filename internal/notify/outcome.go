package notify

import "context"

// OutcomeStatus tags the result of one adapter attempt.
type OutcomeStatus string

// Adapter attempt statuses.
const (
	StatusDelivered OutcomeStatus = "delivered"
	StatusFailed    OutcomeStatus = "failed"
	StatusTimedOut  OutcomeStatus = "timed_out"
)

// Outcome is the result of a single delivery attempt. Adapters never
// retry and never raise; every attempt resolves to an Outcome.
type Outcome struct {
	Status OutcomeStatus
	Reason string // empty on delivery
}

// Delivered reports a successful attempt.
func Delivered() Outcome {
	return Outcome{Status: StatusDelivered}
}

// Failed reports a rejected attempt.
func Failed(reason string) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason}
}

// TimedOut reports an attempt that exceeded its budget.
func TimedOut(reason string) Outcome {
	return Outcome{Status: StatusTimedOut, Reason: reason}
}

// TransportKind identifies which transport carried (or would carry)
// a delivery.
type TransportKind string

// Transports.
const (
	TransportDirect  TransportKind = "direct"
	TransportWebhook TransportKind = "webhook"
	TransportNone    TransportKind = "none"
)

// Transport is one delivery mechanism. Deliver performs exactly one
// attempt with no side effects beyond it: no implicit retry, no
// implicit re-discovery. Implementations must honor ctx cancellation
// so a timed-out attempt cannot corrupt a later, independent dispatch.
type Transport interface {
	Kind() TransportKind
	Deliver(ctx context.Context, msg Message) Outcome
}
