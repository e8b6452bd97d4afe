package osc

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	bundleTagString = "#bundle"

	// bundleHeaderSize is the marker (8 bytes, NUL included) plus the
	// 8-byte time tag.
	bundleHeaderSize = 16

	// maxBundleDepth bounds decode recursion against adversarial nesting.
	maxBundleDepth = 32
)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
//
// Messages and nested bundles are kept apart because the wire layout emits
// all messages before any nested bundle, regardless of insertion order.
type Bundle struct {
	Timetag  Timetag
	Messages []*Message
	Bundles  []*Bundle
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns an empty OSC Bundle with an immediate time tag.
func NewBundle() *Bundle {
	return &Bundle{Timetag: TimetagImmediate}
}

// NewBundleWithTime returns an OSC Bundle whose time tag is derived from the
// given time.
func NewBundleWithTime(time time.Time) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time)}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return fmt.Errorf("unsupported OSC packet type: only Bundle and Message are supported")

	case *Bundle:
		b.Bundles = append(b.Bundles, t)

	case *Message:
		b.Messages = append(b.Messages, t)
	}

	return nil
}

// Clear removes all elements and resets the time tag to immediate.
func (b *Bundle) Clear() {
	b.Timetag = TimetagImmediate
	b.Messages = b.Messages[:0]
	b.Bundles = b.Bundles[:0]
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The wire
// layout is:
// 1. Bundle string: '#bundle'
// 2. OSC time tag
// 3. Length of first bundle element
// 4. First bundle element
// 5. Length of n bundle element
// 6. n bundle element
// with all messages emitted before any nested bundle.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	return b.AppendTo(make([]byte, 0, 256))
}

// AppendTo appends the encoded bundle to buf and returns the extended slice.
func (b *Bundle) AppendTo(buf []byte) ([]byte, error) {
	buf = appendPaddedString(buf, bundleTagString)
	buf = binary.BigEndian.AppendUint64(buf, uint64(b.Timetag))

	// Process all OSC Messages
	for _, m := range b.Messages {
		mb, err := m.MarshalBinary()
		if err != nil {
			return nil, err
		}

		buf = binary.BigEndian.AppendUint32(buf, uint32(len(mb)))
		buf = append(buf, mb...)
	}

	// Process all nested OSC Bundles
	for _, nb := range b.Bundles {
		bb, err := nb.MarshalBinary()
		if err != nil {
			return nil, err
		}

		buf = binary.BigEndian.AppendUint32(buf, uint32(len(bb)))
		buf = append(buf, bb...)
	}

	return buf, nil
}

// NewBundleFromData returns a new OSC bundle created from the encoded data.
func NewBundleFromData(data []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	return b.unmarshalBinary(data, 0)
}

func (b *Bundle) unmarshalBinary(data []byte, depth int) error {
	if depth > maxBundleDepth {
		return fmt.Errorf("UnmarshalBinary: bundle nested deeper than %d levels: %w", maxBundleDepth, ErrMalformedPacket)
	}

	if !isBundle(data) {
		return fmt.Errorf("UnmarshalBinary: %w", ErrNotABundle)
	}
	if len(data) < bundleHeaderSize {
		return fmt.Errorf("UnmarshalBinary: %w", errTruncated("bundle header"))
	}

	b.Timetag = Timetag(binary.BigEndian.Uint64(data[bit64Size:]))
	data = data[bundleHeaderSize:]

	// Read until the end of the buffer. No element count is carried; the
	// loop is entirely length-prefix-driven.
	for len(data) > 0 {
		if len(data) < bit32Size {
			return fmt.Errorf("UnmarshalBinary: %w", errTruncated("bundle element length"))
		}
		length := int(binary.BigEndian.Uint32(data))
		data = data[bit32Size:]

		if length > len(data) {
			return fmt.Errorf("UnmarshalBinary: bundle element of %d bytes overruns packet: %w", length, ErrMalformedPacket)
		}

		elem := data[:length]
		if isBundle(elem) {
			nb := &Bundle{}
			if err := nb.unmarshalBinary(elem, depth+1); err != nil {
				return err
			}
			b.Bundles = append(b.Bundles, nb)
		} else {
			m := &Message{}
			if err := m.UnmarshalBinary(elem); err != nil {
				return err
			}
			b.Messages = append(b.Messages, m)
		}
		data = data[length:]
	}

	return nil
}

// isBundle reports whether data starts with the 8-byte "#bundle" marker.
func isBundle(data []byte) bool {
	return len(data) >= bit64Size && string(data[:len(bundleTagString)]) == bundleTagString && data[len(bundleTagString)] == 0
}
