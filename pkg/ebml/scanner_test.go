package ebml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Scanner) []Element {
	var out []Element
	for s.Next() {
		out = append(out, s.Element())
	}
	return out
}

func TestScanner_Siblings(t *testing.T) {
	buf := append(Uint(IDTrackNumber, 1), String(IDCodecID, "A_AAC")...)
	buf = append(buf, Binary(ID(0x4DBB), []byte{1, 2, 3})...)

	els := collect(NewScanner(buf))
	require.Len(t, els, 3)
	assert.Equal(t, IDTrackNumber, els[0].ID)
	assert.Equal(t, IDCodecID, els[1].ID)
	assert.Equal(t, "A_AAC", ReadString(els[1].Data(buf)))
	assert.Equal(t, ID(0x4DBB), els[2].ID)
	assert.Equal(t, KindUnknown, els[2].Kind())
	assert.Equal(t, 3, els[2].Len())
	assert.Equal(t, len(buf), els[2].DataEnd)
}

func TestScanner_DescendAndSkip(t *testing.T) {
	entry := Master(IDTrackEntry, Uint(IDTrackNumber, 2), Uint(IDTrackType, 2))
	buf := append(Master(IDTracks, entry), Uint(IDVoid, 0)...)

	top := NewScanner(buf)
	require.True(t, top.Next())
	assert.Equal(t, IDTracks, top.Element().ID)

	children := top.Descend()
	require.True(t, children.Next())
	assert.Equal(t, IDTrackEntry, children.Element().ID)
	fields := collect(children.Descend())
	require.Len(t, fields, 2)
	assert.False(t, children.Next())

	// Skipping the Tracks master lands on the Void element.
	require.True(t, top.Next())
	assert.Equal(t, IDVoid, top.Element().ID)
	assert.False(t, top.Next())
}

func TestScanner_TruncatedClamped(t *testing.T) {
	full := Master(IDTracks, Uint(IDTrackNumber, 1), Uint(IDTrackType, 2))
	buf := full[:len(full)-1]

	s := NewScanner(buf)
	require.True(t, s.Next())
	el := s.Element()
	assert.True(t, el.Truncated)
	assert.Equal(t, len(buf), el.DataEnd)
	assert.Greater(t, el.Size, uint64(el.Len()))

	children := collect(s.Descend())
	require.Len(t, children, 2)
	assert.False(t, children[0].Truncated)
	assert.True(t, children[1].Truncated)
	assert.False(t, s.Next())
}

func TestScanner_UnknownSize(t *testing.T) {
	buf := UnknownSizeMaster(IDSegment, Master(IDTracks), Master(IDCluster))

	s := NewScanner(buf)
	require.True(t, s.Next())
	el := s.Element()
	assert.True(t, el.UnknownSize)
	assert.False(t, el.Truncated)
	assert.Equal(t, len(buf), el.DataEnd)

	children := collect(s.Descend())
	require.Len(t, children, 2)
	assert.Equal(t, IDTracks, children[0].ID)
	assert.Equal(t, IDCluster, children[1].ID)
}

func TestScanner_SkipsUnreadableBytes(t *testing.T) {
	// 0x00 has no marker bit; 0x81 is a valid ID followed by an unreadable size.
	buf := append(Uint(IDTrackNumber, 1), 0x00, 0x81, 0x00)
	buf = append(buf, Uint(IDTrackType, 1)...)

	els := collect(NewScanner(buf))
	require.Len(t, els, 2)
	assert.Equal(t, IDTrackNumber, els[0].ID)
	assert.Equal(t, IDTrackType, els[1].ID)
	assert.Equal(t, len(buf), els[1].DataEnd)
}

func TestScanner_OverlongIDSkipped(t *testing.T) {
	// 0x08 announces a 5-byte ID, longer than Matroska allows.
	buf := append([]byte{0x08, 0x01, 0x02, 0x03, 0x04}, Uint(IDTrackType, 2)...)

	els := collect(NewScanner(buf))
	require.Len(t, els, 1)
	assert.Equal(t, IDTrackType, els[0].ID)
	assert.Equal(t, 5, els[0].Offset)
}

func TestScanner_ZeroFillTerminates(t *testing.T) {
	buf := make([]byte, 64)
	s := NewScanner(buf)
	assert.False(t, s.Next())
	assert.False(t, s.Next())
}

func TestScanner_Reset(t *testing.T) {
	buf := append(Uint(IDTrackNumber, 1), Uint(IDTrackType, 1)...)
	s := NewScanner(buf)
	first := collect(s)
	assert.Empty(t, collect(s))

	s.Reset()
	assert.Equal(t, first, collect(s))
}

func TestScanner_RangeClamped(t *testing.T) {
	buf := Uint(IDTrackNumber, 1)
	assert.Len(t, collect(NewRangeScanner(buf, -5, 100)), 1)
	assert.Empty(t, collect(NewRangeScanner(buf, 10, 2)))
}

func TestScanner_EveryPrefixTerminates(t *testing.T) {
	buf := Master(IDSegment,
		Master(IDInfo, Binary(ID(0x2AD7B1), []byte{0x0F, 0x42, 0x40})),
		Master(IDTracks,
			Master(IDTrackEntry, Uint(IDTrackNumber, 1), Uint(IDTrackType, 2), String(IDLanguage, "eng")),
		),
	)

	var walk func(s *Scanner, depth int)
	walk = func(s *Scanner, depth int) {
		for s.Next() {
			el := s.Element()
			assert.LessOrEqual(t, el.DataEnd, len(buf))
			if el.Kind() == KindMaster && depth < 8 {
				walk(s.Descend(), depth+1)
			}
		}
	}

	for i := 0; i <= len(buf); i++ {
		assert.NotPanics(t, func() { walk(NewScanner(buf[:i]), 0) })
	}
}

func TestDocType(t *testing.T) {
	header := Master(IDEBML, Uint(ID(0x4286), 1), String(IDDocType, "webm"))
	buf := append(header, UnknownSizeMaster(IDSegment)...)

	assert.True(t, HasSignature(buf))
	assert.Equal(t, "webm", DocType(buf))

	assert.False(t, HasSignature([]byte{0x1A, 0x45}))
	assert.False(t, HasSignature(Master(IDSegment)))
	assert.Equal(t, "", DocType(Master(IDSegment)))
}
