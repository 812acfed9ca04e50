package ebml

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVint_LengthClasses(t *testing.T) {
	for length := 1; length <= MaxVintLength; length++ {
		max := uint64(1)<<(uint(length)*7) - 2
		for _, value := range []uint64{0, 1, max} {
			t.Run(fmt.Sprintf("len%d/%d", length, value), func(t *testing.T) {
				buf := EncodeVintLen(value, length)
				require.Len(t, buf, length)

				got, n := ReadVint(buf, 0)
				assert.Equal(t, value, got)
				assert.Equal(t, length, n)
				assert.Equal(t, length, VintLength(buf[0]))
			})
		}
	}
}

func TestReadVint_KnownEncodings(t *testing.T) {
	tests := []struct {
		name  string
		buf   []byte
		value uint64
		n     int
	}{
		{"one byte", []byte{0x81}, 1, 1},
		{"one byte max", []byte{0xFE}, 126, 1},
		{"two bytes", []byte{0x40, 0x02}, 2, 2},
		{"three bytes", []byte{0x20, 0x01, 0x00}, 256, 3},
		{"four bytes", []byte{0x10, 0x00, 0x01, 0x00}, 256, 4},
		{"eight bytes", []byte{0x01, 0, 0, 0, 0, 0, 0x01, 0x00}, 256, 8},
		{"trailing bytes ignored", []byte{0x82, 0xFF, 0xFF}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, n := ReadVint(tt.buf, 0)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestReadVint_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		offset int
	}{
		{"no marker bit", []byte{0x00, 0x81}, 0},
		{"short buffer", []byte{0x40}, 0},
		{"short eight byte", []byte{0x01, 0x00, 0x00}, 0},
		{"offset past end", []byte{0x81}, 1},
		{"negative offset", []byte{0x81}, -1},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, n := ReadVint(tt.buf, tt.offset)
			assert.Equal(t, uint64(0), value)
			assert.Equal(t, 1, n)
		})
	}
}

func TestReadVint_Offset(t *testing.T) {
	buf := []byte{0xFF, 0x40, 0x7F, 0x00}
	value, n := ReadVint(buf, 1)
	assert.Equal(t, uint64(0x7F), value)
	assert.Equal(t, 2, n)
}

func TestEncodeVint_Shortest(t *testing.T) {
	assert.Equal(t, []byte{0x80}, EncodeVint(0))
	assert.Equal(t, []byte{0xFE}, EncodeVint(126))
	// 127 in one byte would be the unknown-size marker.
	assert.Equal(t, []byte{0x40, 0x7F}, EncodeVint(127))
	assert.Len(t, EncodeVint(MaxVintValue), 8)
	assert.Nil(t, EncodeVint(MaxVintValue+1))
	assert.Nil(t, EncodeVintLen(200, 1))
}

func TestReadSize_Unknown(t *testing.T) {
	for length := 1; length <= MaxVintLength; length++ {
		t.Run(fmt.Sprintf("len%d", length), func(t *testing.T) {
			size, n, unknown, ok := readSize(UnknownSizeVint(length), 0)
			require.True(t, ok)
			assert.True(t, unknown)
			assert.Equal(t, uint64(0), size)
			assert.Equal(t, length, n)
		})
	}
}

func TestReadID(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		id   ID
		n    int
		ok   bool
	}{
		{"one byte", []byte{0xAE}, IDTrackEntry, 1, true},
		{"two bytes", []byte{0x53, 0x6E}, IDName, 2, true},
		{"three bytes", []byte{0x22, 0xB5, 0x9C}, IDLanguage, 3, true},
		{"four bytes", []byte{0x18, 0x53, 0x80, 0x67}, IDSegment, 4, true},
		{"five byte id rejected", []byte{0x08, 0, 0, 0, 0}, 0, 0, false},
		{"zero byte", []byte{0x00}, 0, 0, false},
		{"short", []byte{0x1A, 0x45}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, n, ok := readID(tt.buf, 0)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.n, n)
		})
	}
}

func TestReadUint(t *testing.T) {
	v, ok := ReadUint(nil)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), v)

	v, ok = ReadUint([]byte{0x01, 0x02})
	assert.True(t, ok)
	assert.Equal(t, uint64(0x0102), v)

	_, ok = ReadUint(make([]byte, 9))
	assert.False(t, ok)
}

func TestReadString_TrimsPadding(t *testing.T) {
	assert.Equal(t, "eng", ReadString([]byte("eng\x00\x00")))
	assert.Equal(t, "", ReadString([]byte{0, 0}))
	assert.Equal(t, "Commentary", ReadString([]byte("Commentary")))
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "TrackEntry", IDTrackEntry.String())
	assert.Equal(t, "0x4DBB", ID(0x4DBB).String())
	assert.Equal(t, KindMaster, IDTracks.Kind())
	assert.Equal(t, KindUnknown, ID(0x4DBB).Kind())
	assert.False(t, ID(0x4DBB).Known())
	assert.Equal(t, []byte{0x1A, 0x45, 0xDF, 0xA3}, IDEBML.Bytes())
}
