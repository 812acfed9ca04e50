// Package mkv discovers the audio and subtitle tracks of a Matroska or WebM
// file from its leading bytes, without demuxing any media.
package mkv

import "fmt"

// TrackType is the Matroska TrackType value.
type TrackType uint8

// Track types carried by Matroska files.
const (
	TrackTypeVideo    TrackType = 1
	TrackTypeAudio    TrackType = 2
	TrackTypeComplex  TrackType = 3
	TrackTypeLogo     TrackType = 16
	TrackTypeSubtitle TrackType = 17
	TrackTypeButtons  TrackType = 18
	TrackTypeControl  TrackType = 32
	TrackTypeMetadata TrackType = 33
)

// UndefinedLanguage is the ISO 639-2 code for an unspecified language.
const UndefinedLanguage = "und"

// String returns a lower-case name for the track type.
func (t TrackType) String() string {
	switch t {
	case TrackTypeVideo:
		return "video"
	case TrackTypeAudio:
		return "audio"
	case TrackTypeComplex:
		return "complex"
	case TrackTypeLogo:
		return "logo"
	case TrackTypeSubtitle:
		return "subtitle"
	case TrackTypeButtons:
		return "buttons"
	case TrackTypeControl:
		return "control"
	case TrackTypeMetadata:
		return "metadata"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Track is one entry of the track table.
type Track struct {
	Number  uint64    `json:"track_number"`
	Type    TrackType `json:"track_type"`
	CodecID string    `json:"codec_id,omitempty"`
	// Language is the raw ISO 639-2 code, empty when the entry had none.
	Language string `json:"language,omitempty"`
	Name     string `json:"name,omitempty"`
	Default  bool   `json:"flag_default"`
}

// LanguageCode returns the track language, defaulting to "und".
func (t Track) LanguageCode() string {
	if t.Language == "" {
		return UndefinedLanguage
	}
	return t.Language
}
