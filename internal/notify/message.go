package notify

import "github.com/cargovortex/notify-relay/internal/slack"

// Message is the rendered, transport-agnostic form of an event.
// Text is always non-empty and serves as the universal fallback for
// readers without rich formatting; Blocks carry the rich rendering and
// may be omitted by transports that do not support them.
type Message struct {
	Text   string
	Blocks []slack.Block
}
