package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

////
// De/Encoding functions
////

const (
	bit32Size = 4
	bit64Size = 8

	// MaxPacketSize is the largest datagram a Server will receive.
	MaxPacketSize = 65536
)

var zeroPad [bit32Size]byte

// padBytesNeeded determines how many bytes are needed to fill up to the next
// 4 byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

// appendPaddedString appends str to b as an OSC string: the raw bytes, one
// NUL terminator, then zero padding to a multiple of 4.
func appendPaddedString(b []byte, str string) []byte {
	b = append(b, str...)
	b = append(b, 0)
	return append(b, zeroPad[:padBytesNeeded(len(str)+1)]...)
}

// parsePaddedString reads an OSC string from the start of data and returns
// the string and the number of bytes consumed, padding included. The cursor
// advance is rounded up from the start of the field, independent of how many
// padding bytes actually follow the terminator.
func parsePaddedString(data []byte) (string, int, error) {
	pos := bytes.IndexByte(data, 0)
	if pos == -1 {
		return "", 0, fmt.Errorf("parsePaddedString: unterminated string: %w", ErrMalformedPacket)
	}

	n := pos + 1 + padBytesNeeded(pos+1)
	// The terminator may be the last byte of the packet; the cursor must not
	// pass the end.
	if n > len(data) {
		n = len(data)
	}

	return string(data[:pos]), n, nil
}

// appendBlob appends data to b as an OSC blob: a 4-byte big-endian length,
// the raw payload, then zero padding so the payload length is a multiple of
// 4. The padding is not counted in the length field.
func appendBlob(b []byte, data []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	return append(b, zeroPad[:padBytesNeeded(len(data))]...)
}

// parseBlob reads an OSC blob from the start of data and returns a copy of
// the payload and the number of bytes consumed, padding included.
func parseBlob(data []byte) ([]byte, int, error) {
	if len(data) < bit32Size {
		return nil, 0, fmt.Errorf("parseBlob: %w", errTruncated("blob length"))
	}

	blobLen := int(binary.BigEndian.Uint32(data))
	if blobLen > len(data)-bit32Size {
		return nil, 0, fmt.Errorf("parseBlob: %w", errTruncated(fmt.Sprintf("blob of %d bytes", blobLen)))
	}

	n := bit32Size + blobLen + padBytesNeeded(blobLen)
	if n > len(data) {
		n = len(data)
	}

	// Copy out of the caller's buffer; the server reuses it across packets.
	blob := make([]byte, blobLen)
	copy(blob, data[bit32Size:])

	return blob, n, nil
}
