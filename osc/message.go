package osc

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern, a comma-prefixed type tag string and zero or more
// arguments, one per tag character.
type Message struct {
	Address   string
	Tags      []byte
	Arguments []interface{}
}

// Verify that Message implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message for the given OSC address. Its tag string
// is the bare comma; arguments are added with Append or the typed AppendX
// methods, each of which pushes one tag character and one value.
func NewMessage(addr string) *Message {
	return &Message{Address: addr, Tags: []byte{','}}
}

// Clear removes all arguments and resets the tag string to the bare comma.
// The address is kept.
func (m *Message) Clear() {
	m.Tags = append(m.Tags[:0], ',')
	m.Arguments = m.Arguments[:0]
}

// Append appends the given arguments to the arguments list, deriving the tag
// character for each. If any argument has an unsupported type, nothing is
// appended.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("Append: unsupported type: %T", a)
		}
	}
	for _, a := range args {
		m.appendTagged(ToTypeTag(a), a)
	}
	return nil
}

// AppendInt32 appends an 'i' argument.
func (m *Message) AppendInt32(v int32) { m.appendTagged(TypeInt32, v) }

// AppendFloat32 appends an 'f' argument.
func (m *Message) AppendFloat32(v float32) { m.appendTagged(TypeFloat32, v) }

// AppendString appends an 's' argument.
func (m *Message) AppendString(v string) { m.appendTagged(TypeString, v) }

// AppendBlob appends a 'b' argument.
func (m *Message) AppendBlob(v []byte) { m.appendTagged(TypeBlob, v) }

// AppendInt64 appends an 'h' argument.
func (m *Message) AppendInt64(v int64) { m.appendTagged(TypeInt64, v) }

// AppendFloat64 appends a 'd' argument.
func (m *Message) AppendFloat64(v float64) { m.appendTagged(TypeFloat64, v) }

// AppendTimetag appends a 't' argument.
func (m *Message) AppendTimetag(v Timetag) { m.appendTagged(TypeTimetag, v) }

func (m *Message) appendTagged(tag TypeTag, v interface{}) {
	if len(m.Tags) == 0 {
		m.Tags = append(m.Tags, ',')
	}
	m.Tags = append(m.Tags, byte(tag))
	m.Arguments = append(m.Arguments, v)
}

// TypeTags returns the type tag string, including the leading comma.
func (m *Message) TypeTags() string {
	if len(m.Tags) == 0 {
		return ","
	}
	return string(m.Tags)
}

// CountArguments returns the number of arguments.
func (m *Message) CountArguments() int {
	return len(m.Arguments)
}

// Match returns true, if the OSC address pattern of the OSC Message matches
// the given address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.Address)
	if len(m.Arguments) == 0 {
		return b.String()
	}

	b.WriteByte(' ')
	b.WriteString(m.TypeTags())

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case int32, int64, float32, float64, string:
			fmt.Fprintf(&b, " %v", arg)

		case []byte:
			b.WriteString(" blob")

		case Timetag:
			fmt.Fprintf(&b, " %d", uint64(arg))
		}
	}

	return b.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The wire
// layout is:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments, in tag order
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.AppendTo(make([]byte, 0, 128))
}

// AppendTo appends the encoded message to b and returns the extended slice.
func (m *Message) AppendTo(b []byte) ([]byte, error) {
	tags := m.Tags
	if len(tags) == 0 {
		tags = []byte{','}
	}
	if len(tags) != len(m.Arguments)+1 {
		return nil, fmt.Errorf("AppendTo: %d type tags for %d arguments", len(tags)-1, len(m.Arguments))
	}

	b = appendPaddedString(b, m.Address)
	b = appendPaddedString(b, string(tags))

	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		default:
			return nil, fmt.Errorf("AppendTo: unsupported type: %T", t)

		case int32:
			b = binary.BigEndian.AppendUint32(b, uint32(t))
		case float32:
			b = binary.BigEndian.AppendUint32(b, math.Float32bits(t))
		case string:
			b = appendPaddedString(b, t)
		case []byte:
			b = appendBlob(b, t)
		case int64:
			b = binary.BigEndian.AppendUint64(b, uint64(t))
		case float64:
			b = binary.BigEndian.AppendUint64(b, math.Float64bits(t))
		case Timetag:
			b = binary.BigEndian.AppendUint64(b, uint64(t))
		}
	}

	return b, nil
}

// NewMessageFromData returns a new Message created from the encoded data.
func NewMessageFromData(data []byte) (*Message, error) {
	msg := &Message{}
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
// Decoding fails as a whole; on error the message holds no partial result
// the caller should use.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != '/' {
		return fmt.Errorf("UnmarshalBinary: missing address pattern: %w", ErrMalformedPacket)
	}

	addr, n, err := parsePaddedString(data)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: address: %w", err)
	}
	data = data[n:]

	m.Address = addr
	m.Tags = append(m.Tags[:0], ',')
	m.Arguments = m.Arguments[:0]

	// A message may end after its address.
	if len(data) == 0 {
		return nil
	}

	tags, n, err := parsePaddedString(data)
	if err != nil {
		return fmt.Errorf("UnmarshalBinary: type tags: %w", err)
	}
	data = data[n:]

	if len(tags) == 0 {
		return nil
	}
	if tags[0] != ',' {
		return fmt.Errorf("UnmarshalBinary: type tag string %q does not start with ',': %w", tags, ErrMalformedPacket)
	}

	return m.readArguments(tags[1:], data)
}

// readArguments decodes one argument per tag character, in strict
// correspondence. The fixed-width tags 'c', 'r' and 'm' consume four bytes
// and yield no argument; their tag characters are not kept either, so the
// tag/argument invariant holds for re-encoding.
func (m *Message) readArguments(tags string, data []byte) error {
	for i := 0; i < len(tags); i++ {
		tag := TypeTag(tags[i])
		switch tag {
		default:
			return fmt.Errorf("readArguments: unsupported type tag %q: %w", byte(tag), ErrMalformedPacket)

		case TypeInt32:
			if len(data) < bit32Size {
				return fmt.Errorf("readArguments: %w", errTruncated("int32 argument"))
			}
			m.appendTagged(tag, int32(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeFloat32:
			if len(data) < bit32Size {
				return fmt.Errorf("readArguments: %w", errTruncated("float32 argument"))
			}
			m.appendTagged(tag, math.Float32frombits(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeString, TypeSymbol:
			str, n, err := parsePaddedString(data)
			if err != nil {
				return fmt.Errorf("readArguments: %w", err)
			}
			m.appendTagged(TypeString, str)
			data = data[n:]

		case TypeBlob:
			blob, n, err := parseBlob(data)
			if err != nil {
				return fmt.Errorf("readArguments: %w", err)
			}
			m.appendTagged(tag, blob)
			data = data[n:]

		case TypeInt64:
			if len(data) < bit64Size {
				return fmt.Errorf("readArguments: %w", errTruncated("int64 argument"))
			}
			m.appendTagged(tag, int64(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeFloat64:
			if len(data) < bit64Size {
				return fmt.Errorf("readArguments: %w", errTruncated("float64 argument"))
			}
			m.appendTagged(tag, math.Float64frombits(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeTimetag:
			if len(data) < bit64Size {
				return fmt.Errorf("readArguments: %w", errTruncated("timetag argument"))
			}
			m.appendTagged(tag, Timetag(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeChar, TypeRGBA, TypeMIDI:
			if len(data) < bit32Size {
				return fmt.Errorf("readArguments: %w", errTruncated("fixed-width argument"))
			}
			data = data[bit32Size:]
		}
	}

	return nil
}
