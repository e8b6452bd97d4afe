package osc

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Server receives OSC packets over a Transport it exclusively owns and
// dispatches them to registered handlers. It is poll-driven: callers invoke
// ProcessOne or ProcessAll periodically, or hand the loop to Serve.
type Server struct {
	transport Transport
	buf       []byte
	log       *slog.Logger

	msgHandler    func(*Message)
	bundleHandler func(*Bundle)
}

// NewServer returns a Server receiving from the given Transport.
func NewServer(t Transport) *Server {
	return &Server{
		transport: t,
		buf:       make([]byte, MaxPacketSize),
		log:       slog.Default(),
	}
}

// Listen returns a Server bound to the given local UDP "host:port" address.
func Listen(addr string) (*Server, error) {
	t, err := ListenUDP(addr)
	if err != nil {
		return nil, err
	}
	return NewServer(t), nil
}

// SetLogger replaces the logger used for dropped packets and handler panics.
func (s *Server) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// SetMessageHandler registers the callback invoked for every decoded
// message. Handlers are per-Server state.
func (s *Server) SetMessageHandler(h func(*Message)) {
	s.msgHandler = h
}

// SetBundleHandler registers the callback invoked for every decoded bundle.
// The handler receives the whole decoded tree and is responsible for
// recursing into nested messages and bundles itself.
func (s *Server) SetBundleHandler(h func(*Bundle)) {
	s.bundleHandler = h
}

// UseDispatcher installs the dispatcher as both the message and the bundle
// handler.
func (s *Server) UseDispatcher(d *Dispatcher) {
	s.msgHandler = d.DispatchMessage
	s.bundleHandler = d.DispatchBundle
}

// ProcessOne attempts to receive and dispatch a single packet. It returns
// false when nothing was pending or the datagram was dropped as malformed;
// decode failures are logged and never propagate.
func (s *Server) ProcessOne() bool {
	n, err := s.transport.Receive(s.buf)
	if err != nil {
		if !errors.Is(err, ErrTransportClosed) {
			s.log.Warn("osc: receive failed", "err", err)
		}
		return false
	}
	if n == 0 {
		return false
	}

	data := s.buf[:n]
	if isBundle(data) {
		b := &Bundle{}
		if err := b.UnmarshalBinary(data); err != nil {
			s.log.Warn("osc: dropping malformed bundle", "bytes", n, "err", err)
			return false
		}
		if s.bundleHandler != nil {
			s.dispatch(func() { s.bundleHandler(b) })
		}
		return true
	}

	m := &Message{}
	if err := m.UnmarshalBinary(data); err != nil {
		s.log.Warn("osc: dropping malformed message", "bytes", n, "err", err)
		return false
	}
	if s.msgHandler != nil {
		s.dispatch(func() { s.msgHandler(m) })
	}
	return true
}

// ProcessAll processes pending packets until a receive yields nothing and
// returns the number of packets dispatched.
func (s *Server) ProcessAll() int {
	count := 0
	for s.ProcessOne() {
		count++
	}
	return count
}

// Serve polls ProcessAll on the given interval until ctx is done or the
// transport is no longer ready.
func (s *Server) Serve(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.ProcessAll()
		if !s.transport.IsReady() {
			return ErrTransportClosed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close closes the underlying transport; further processing yields nothing.
func (s *Server) Close() error {
	return s.transport.Close()
}

// dispatch shields the receive loop from handler panics.
func (s *Server) dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("osc: handler panic", "panic", r)
		}
	}()
	fn()
}
