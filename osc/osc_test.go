package osc

// Shared fixtures for the codec and transport tests.

type testCase struct {
	name string
	obj  Packet
	raw  []byte
}

// testMessage is the reference message: four arguments covering the int32,
// float32, string and blob encoders.
func testMessage() *Message {
	msg := NewMessage("/test")
	msg.AppendInt32(-1)
	msg.AppendFloat32(-0.5)
	msg.AppendString("string")
	msg.AppendBlob([]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef})
	return msg
}

var testMessageRaw = []byte{
	'/', 't', 'e', 's', 't', 0, 0, 0,
	',', 'i', 'f', 's', 'b', 0, 0, 0,
	0xff, 0xff, 0xff, 0xff,
	0xbf, 0x00, 0x00, 0x00,
	's', 't', 'r', 'i', 'n', 'g', 0, 0,
	0x00, 0x00, 0x00, 0x08,
	0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef,
}

// testStatusMessage covers the 64-bit encoders.
func testStatusMessage() *Message {
	msg := NewMessage("/status/reply")
	msg.AppendInt64(-1)
	msg.AppendFloat64(0.5)
	msg.AppendTimetag(TimetagImmediate)
	return msg
}

var testStatusRaw = []byte{
	'/', 's', 't', 'a', 't', 'u', 's', '/', 'r', 'e', 'p', 'l', 'y', 0, 0, 0,
	',', 'h', 'd', 't', 0, 0, 0, 0,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0x3f, 0xe0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
}

var emptyMessageRaw = []byte{
	'/', 'a', 0, 0,
	',', 0, 0, 0,
}

func messageTestCases() []testCase {
	return []testCase{
		{"four_args", testMessage(), testMessageRaw},
		{"wide_args", testStatusMessage(), testStatusRaw},
		{"no_args", NewMessage("/a"), emptyMessageRaw},
	}
}

// testBundle wraps testMessage in a bundle with an immediate time tag.
func testBundle() *Bundle {
	b := NewBundle()
	b.Append(testMessage())
	return b
}

var testBundleRaw = append([]byte{
	'#', 'b', 'u', 'n', 'd', 'l', 'e', 0,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	0x00, 0x00, 0x00, 0x2c,
}, testMessageRaw...)

var emptyBundleRaw = []byte{
	'#', 'b', 'u', 'n', 'd', 'l', 'e', 0,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
}

func bundleTestCases() []testCase {
	return []testCase{
		{"one_message", testBundle(), testBundleRaw},
		{"empty_immediate", NewBundle(), emptyBundleRaw},
	}
}

// fakeTransport is an in-memory Transport double: Receive pops from a queue
// of datagrams, Send records what was sent.
type fakeTransport struct {
	queue   [][]byte
	sent    [][]byte
	closed  bool
	sendErr error
}

var _ Transport = (*fakeTransport)(nil)

func (t *fakeTransport) push(data []byte) {
	t.queue = append(t.queue, data)
}

func (t *fakeTransport) Send(data []byte) error {
	if t.closed {
		return ErrTransportClosed
	}
	if t.sendErr != nil {
		return t.sendErr
	}
	b := make([]byte, len(data))
	copy(b, data)
	t.sent = append(t.sent, b)
	return nil
}

func (t *fakeTransport) Receive(buf []byte) (int, error) {
	if t.closed {
		return 0, ErrTransportClosed
	}
	if len(t.queue) == 0 {
		return 0, nil
	}
	n := copy(buf, t.queue[0])
	t.queue = t.queue[1:]
	return n, nil
}

func (t *fakeTransport) IsReady() bool { return !t.closed }

func (t *fakeTransport) Close() error {
	t.closed = true
	return nil
}
