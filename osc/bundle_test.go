package osc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle_MarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases() {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.raw, got)
			assert.Zero(t, len(got)%4, "encoded bundle must be a multiple of 4 bytes")
		})
	}
}

func TestBundle_UnmarshalBinary(t *testing.T) {
	for _, tt := range bundleTestCases() {
		t.Run(tt.name, func(t *testing.T) {
			b := new(Bundle)
			require.NoError(t, b.UnmarshalBinary(tt.raw))
			if !reflect.DeepEqual(b, tt.obj) {
				t.Errorf("UnmarshalBinary() got = %v, want %v", b, tt.obj)
			}
		})
	}
}

func TestBundle_UnmarshalExample(t *testing.T) {
	b, err := NewBundleFromData(testBundleRaw)
	require.NoError(t, err)

	assert.Equal(t, TimetagImmediate, b.Timetag)
	require.Len(t, b.Messages, 1)
	assert.Empty(t, b.Bundles)
	assert.Equal(t, "/test", b.Messages[0].Address)
	assert.Equal(t, ",ifsb", b.Messages[0].TypeTags())
}

func TestBundle_Append(t *testing.T) {
	b := NewBundle()
	require.NoError(t, b.Append(testMessage()))
	require.NoError(t, b.Append(NewBundle()))
	require.NoError(t, b.Append(testStatusMessage()))
	require.Error(t, b.Append(nil))

	assert.Len(t, b.Messages, 2)
	assert.Len(t, b.Bundles, 1)
}

func TestBundle_MessagesBeforeBundles(t *testing.T) {
	// Elements appended bundle-first must still be encoded messages-first.
	b := NewBundle()
	require.NoError(t, b.Append(testBundle()))
	require.NoError(t, b.Append(testMessage()))

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	// First element after the header must be a message, not a bundle.
	first := data[bundleHeaderSize+bit32Size:]
	assert.False(t, isBundle(first))

	got, err := NewBundleFromData(data)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Bundles, 1)
}

func TestBundle_RoundTripNested(t *testing.T) {
	leaf := NewBundleWithTime(timetagToTime(0x83aa7e8000000000))
	leaf.Append(testStatusMessage())

	b := leaf
	for depth := 0; depth < 5; depth++ {
		outer := NewBundle()
		outer.Append(testMessage())
		outer.Append(b)
		b = outer
	}

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	got, err := NewBundleFromData(data)
	require.NoError(t, err)
	if !reflect.DeepEqual(got, b) {
		t.Errorf("round trip mismatch: got = %v, want %v", got, b)
	}
}

func TestBundle_Clear(t *testing.T) {
	b := testBundle()
	b.Timetag = NewTimetagFromTime(timetagToTime(0x83aa7e8000000000))
	b.Clear()

	assert.Equal(t, TimetagImmediate, b.Timetag)
	assert.Empty(t, b.Messages)
	assert.Empty(t, b.Bundles)
}

func TestBundle_UnmarshalErrors(t *testing.T) {
	overrun := append([]byte{}, emptyBundleRaw...)
	overrun = append(overrun, 0x00, 0x00, 0x00, 0xff, '/', 'a', 0, 0)

	badElement := append([]byte{}, emptyBundleRaw...)
	badElement = append(badElement, 0x00, 0x00, 0x00, 0x04, 'a', 'b', 'c', 'd')

	tests := []struct {
		name    string
		raw     []byte
		wantErr error
	}{
		{"not_a_bundle", testMessageRaw, ErrNotABundle},
		{"empty", nil, ErrNotABundle},
		{"short_header", []byte("#bundle\x00"), ErrMalformedPacket},
		{"truncated_length", append(append([]byte{}, emptyBundleRaw...), 0x00, 0x00), ErrMalformedPacket},
		{"element_overrun", overrun, ErrMalformedPacket},
		{"bad_element", badElement, ErrMalformedPacket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(Bundle)
			err := b.UnmarshalBinary(tt.raw)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBundle_DecodeDepthLimit(t *testing.T) {
	b := NewBundle()
	for depth := 0; depth < maxBundleDepth+4; depth++ {
		outer := NewBundle()
		outer.Append(b)
		b = outer
	}

	data, err := b.MarshalBinary()
	require.NoError(t, err)

	_, err = NewBundleFromData(data)
	require.ErrorIs(t, err, ErrMalformedPacket)
}
