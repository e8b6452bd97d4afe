package osc

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Transport is the capability a Client or Server consumes to move datagrams.
// A Transport is exclusively owned by the Client or Server holding it;
// sharing one across goroutines needs external synchronization.
type Transport interface {
	// Send transmits the whole datagram in a single attempt. A short write
	// fails with ErrSendIncomplete and is not retried.
	Send(data []byte) error
	// Receive reads one pending datagram into buf without blocking and
	// returns its length. (0, nil) means nothing was pending.
	Receive(buf []byte) (int, error)
	// IsReady reports whether the transport can send and receive.
	IsReady() bool
	// Close releases the transport. Further operations fail with
	// ErrTransportClosed.
	Close() error
}

// pollTimeout bounds how long a Receive waits for a pending datagram. A read
// whose deadline has already expired never delivers queued data, so the
// deadline must sit slightly in the future.
const pollTimeout = time.Millisecond

// UDPTransport is the sole production Transport. In client role it owns a
// connected socket; in server role a socket bound to a local port.
type UDPTransport struct {
	conn  *net.UDPConn
	ready bool
}

var _ Transport = (*UDPTransport)(nil)

// DialUDP returns a client-role transport connected to the given remote
// "host:port" address.
func DialUDP(addr string) (*UDPTransport, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}

	return &UDPTransport{conn: conn, ready: true}, nil
}

// ListenUDP returns a server-role transport bound to the given local
// "host:port" address.
func ListenUDP(addr string) (*UDPTransport, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}

	return &UDPTransport{conn: conn, ready: true}, nil
}

// LocalAddr returns the local address the socket is bound to.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Send transmits data as one datagram.
func (t *UDPTransport) Send(data []byte) error {
	if !t.ready {
		return ErrTransportClosed
	}

	n, err := t.conn.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("Send: wrote %d of %d bytes: %w", n, len(data), ErrSendIncomplete)
	}
	return nil
}

// Receive reads one pending datagram into buf. It returns (0, nil) when
// nothing is pending.
func (t *UDPTransport) Receive(buf []byte) (int, error) {
	if !t.ready {
		return 0, ErrTransportClosed
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return 0, err
	}

	n, _, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// IsReady reports whether the transport is usable.
func (t *UDPTransport) IsReady() bool {
	return t.ready
}

// Close closes the socket. Closing twice is a no-op.
func (t *UDPTransport) Close() error {
	if !t.ready {
		return nil
	}
	t.ready = false
	return t.conn.Close()
}
