package osc

// Client enables you to send OSC Packets over a Transport it exclusively
// owns.
type Client struct {
	transport Transport
}

// NewClient returns a Client sending over the given Transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// Dial creates a new OSC Client with a UDP connection to the specified
// server address.
func Dial(addr string) (*Client, error) {
	t, err := DialUDP(addr)
	if err != nil {
		return nil, err
	}
	return &Client{transport: t}, nil
}

// Send encodes the packet and hands the bytes to the transport. The error
// mirrors the transport's send result.
func (c *Client) Send(packet Packet) error {
	data, err := packet.MarshalBinary()
	if err != nil {
		return err
	}
	return c.transport.Send(data)
}

// SendMessage sends a single OSC message.
func (c *Client) SendMessage(msg *Message) error {
	return c.Send(msg)
}

// SendBundle sends an OSC bundle.
func (c *Client) SendBundle(b *Bundle) error {
	return c.Send(b)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}
