package osc

import (
	"encoding"
)

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// ParsePacket parses either a Message or a Bundle from data, classifying by
// the leading 8 bytes.
func ParsePacket(data []byte) (Packet, error) {
	if isBundle(data) {
		return NewBundleFromData(data)
	}
	return NewMessageFromData(data)
}
