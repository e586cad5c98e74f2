package notify

import "fmt"

// DiscoveryError indicates the channel listing call itself failed
// (network, auth). The dispatcher treats it as "direct-channel
// transport unavailable" and falls back; it is never retried here.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("channel discovery: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

const detailNoTransport = "no notification transport configured"
