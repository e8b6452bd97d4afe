package osc

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPacket reports a packet that cannot be decoded:
	// unterminated string, truncated field or blob, bad type tag. All codec
	// failures wrap it, so callers can classify with errors.Is.
	ErrMalformedPacket = errors.New("osc: malformed packet")

	// ErrNotABundle reports data whose first 8 bytes are not the "#bundle"
	// marker. It wraps ErrMalformedPacket.
	ErrNotABundle = fmt.Errorf("osc: not a bundle: %w", ErrMalformedPacket)

	// ErrSendIncomplete reports that the underlying send accepted fewer
	// bytes than requested. The send is not retried.
	ErrSendIncomplete = errors.New("osc: send incomplete")

	// ErrTransportClosed reports an operation on a closed transport.
	ErrTransportClosed = errors.New("osc: transport closed")
)

func errTruncated(what string) error {
	return fmt.Errorf("truncated %s: %w", what, ErrMalformedPacket)
}
