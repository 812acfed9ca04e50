// Package testutil provides test fixtures: synthetic Matroska headers and
// sample media items.
package testutil

import "github.com/jmylchreest/localtv/pkg/ebml"

// Matroska track type values.
const (
	TrackVideo    uint64 = 1
	TrackAudio    uint64 = 2
	TrackSubtitle uint64 = 17
)

// TrackSpec describes one TrackEntry. Zero-valued string fields are omitted
// from the encoded entry. Omit* flags drop the mandatory fields so tests can
// build incomplete entries.
type TrackSpec struct {
	Number   uint64
	Type     uint64
	CodecID  string
	Language string
	Name     string
	Default  bool

	OmitNumber bool
	OmitType   bool
}

// Entry encodes the spec as a TrackEntry element.
func (s TrackSpec) Entry() []byte {
	var fields [][]byte
	if !s.OmitNumber {
		fields = append(fields, ebml.Uint(ebml.IDTrackNumber, s.Number))
	}
	fields = append(fields, ebml.Uint(ebml.IDTrackUID, 0x1000+s.Number))
	if !s.OmitType {
		fields = append(fields, ebml.Uint(ebml.IDTrackType, s.Type))
	}
	if s.CodecID != "" {
		fields = append(fields, ebml.String(ebml.IDCodecID, s.CodecID))
	}
	if s.Language != "" {
		fields = append(fields, ebml.String(ebml.IDLanguage, s.Language))
	}
	if s.Name != "" {
		fields = append(fields, ebml.String(ebml.IDName, s.Name))
	}
	var def uint64
	if s.Default {
		def = 1
	}
	fields = append(fields, ebml.Uint(ebml.IDFlagDefault, def))
	return ebml.Master(ebml.IDTrackEntry, fields...)
}

// EBMLHeader encodes an EBML header declaring docType.
func EBMLHeader(docType string) []byte {
	return ebml.Master(ebml.IDEBML,
		ebml.Uint(0x4286, 1), // EBMLVersion
		ebml.Uint(0x42F7, 1), // EBMLReadVersion
		ebml.String(ebml.IDDocType, docType),
	)
}

// Tracks encodes a Tracks element holding the given specs in order.
func Tracks(specs ...TrackSpec) []byte {
	entries := make([][]byte, len(specs))
	for i, s := range specs {
		entries[i] = s.Entry()
	}
	return ebml.Master(ebml.IDTracks, entries...)
}

// MatroskaFile encodes an EBML header followed by a Segment of known size
// containing an Info element, the tracks and one small cluster.
func MatroskaFile(docType string, specs ...TrackSpec) []byte {
	segment := ebml.Master(ebml.IDSegment,
		ebml.Master(ebml.IDSeekHead),
		ebml.Master(ebml.IDInfo, ebml.Uint(0x2AD7B1, 1000000)), // TimestampScale
		ebml.Binary(ebml.IDVoid, make([]byte, 16)),
		Tracks(specs...),
		ebml.Master(ebml.IDCluster, ebml.Uint(0xE7, 0)), // Timestamp
	)
	return append(EBMLHeader(docType), segment...)
}

// LiveMatroskaFile is MatroskaFile with an unknown-size Segment, as written
// by live muxers.
func LiveMatroskaFile(docType string, specs ...TrackSpec) []byte {
	segment := ebml.UnknownSizeMaster(ebml.IDSegment,
		ebml.Master(ebml.IDInfo, ebml.Uint(0x2AD7B1, 1000000)),
		Tracks(specs...),
		ebml.Master(ebml.IDCluster, ebml.Uint(0xE7, 0)),
	)
	return append(EBMLHeader(docType), segment...)
}

// SampleMovieTracks is a typical multi-language movie: one video track, three
// audio tracks and two subtitle tracks, deliberately out of number order.
func SampleMovieTracks() []TrackSpec {
	return []TrackSpec{
		{Number: 1, Type: TrackVideo, CodecID: "V_MPEG4/ISO/AVC"},
		{Number: 3, Type: TrackAudio, CodecID: "A_AC3", Language: "spa"},
		{Number: 2, Type: TrackAudio, CodecID: "A_AAC", Language: "eng", Name: "Stereo", Default: true},
		{Number: 4, Type: TrackAudio, CodecID: "A_OPUS"},
		{Number: 6, Type: TrackSubtitle, CodecID: "S_TEXT/ASS", Language: "fre"},
		{Number: 5, Type: TrackSubtitle, CodecID: "S_TEXT/UTF8", Language: "eng"},
	}
}

// SampleMovie encodes SampleMovieTracks as a complete Matroska header.
func SampleMovie() []byte {
	return MatroskaFile("matroska", SampleMovieTracks()...)
}
