package mkv

import (
	"fmt"
	"sort"

	"github.com/jmylchreest/localtv/internal/codec"
)

// TrackView is a selectable audio or subtitle track.
type TrackView struct {
	// Index is the position within its type list, ordered by track number.
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Language    string `json:"language"`
	TrackNumber uint64 `json:"track_number"`
	Codec       string `json:"codec,omitempty"`
	Default     bool   `json:"default"`
}

// Classification groups the selectable tracks of a file.
type Classification struct {
	Audio     []TrackView `json:"audio"`
	Subtitles []TrackView `json:"subtitles"`
}

// Empty reports whether no audio or subtitle track was found.
func (c Classification) Empty() bool {
	return len(c.Audio) == 0 && len(c.Subtitles) == 0
}

// DefaultAudio returns the index of the first audio track flagged default,
// falling back to the first track.
func (c Classification) DefaultAudio() int {
	if i := firstDefault(c.Audio); i >= 0 {
		return i
	}
	return 0
}

// DefaultSubtitle returns the index of the first subtitle track flagged
// default, or -1 when subtitles should start off.
func (c Classification) DefaultSubtitle() int {
	return firstDefault(c.Subtitles)
}

func firstDefault(views []TrackView) int {
	for _, v := range views {
		if v.Default {
			return v.Index
		}
	}
	return -1
}

// Classify splits a track table into audio and subtitle views. Video and
// other track types are dropped. The result depends only on the input.
func Classify(tracks []Track) Classification {
	var audio, subs []Track
	for _, t := range tracks {
		switch t.Type {
		case TrackTypeAudio:
			audio = append(audio, t)
		case TrackTypeSubtitle:
			subs = append(subs, t)
		}
	}
	return Classification{
		Audio:     views(audio),
		Subtitles: views(subs),
	}
}

func views(tracks []Track) []TrackView {
	if len(tracks) == 0 {
		return []TrackView{}
	}
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Number < tracks[j].Number
	})
	out := make([]TrackView, len(tracks))
	for i, t := range tracks {
		out[i] = TrackView{
			Index:       i,
			Label:       Label(t),
			Language:    t.LanguageCode(),
			TrackNumber: t.Number,
			Codec:       codec.Normalize(t.CodecID),
			Default:     t.Default,
		}
	}
	return out
}

// Label returns the display label of a track: its name, else its language,
// else "Track N".
func Label(t Track) string {
	if t.Name != "" {
		return t.Name
	}
	if t.Language != "" {
		return LanguageName(t.Language)
	}
	return fmt.Sprintf("Track %d", t.Number)
}

// Parse extracts and classifies the tracks found in the leading bytes of a
// Matroska file.
func Parse(buf []byte) Classification {
	return Classify(ExtractTracks(buf))
}
