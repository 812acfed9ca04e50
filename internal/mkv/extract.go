package mkv

import "github.com/jmylchreest/localtv/pkg/ebml"

// partialTrack accumulates TrackEntry fields until the entry closes. Entries
// missing a number or a type are never promoted to a Track.
type partialTrack struct {
	track     Track
	hasNumber bool
	hasType   bool
}

func (p *partialTrack) complete() bool {
	return p.hasNumber && p.hasType
}

// trackField applies one TrackEntry leaf to the partial record.
type trackField func(p *partialTrack, payload []byte)

var trackFields = map[ebml.ID]trackField{
	ebml.IDTrackNumber: func(p *partialTrack, payload []byte) {
		if v, ok := ebml.ReadUint(payload); ok {
			p.track.Number = v
			p.hasNumber = true
		}
	},
	ebml.IDTrackType: func(p *partialTrack, payload []byte) {
		if v, ok := ebml.ReadUint(payload); ok && v <= 0xFF {
			p.track.Type = TrackType(v)
			p.hasType = true
		}
	},
	ebml.IDCodecID: func(p *partialTrack, payload []byte) {
		p.track.CodecID = ebml.ReadString(payload)
	},
	ebml.IDLanguage: func(p *partialTrack, payload []byte) {
		p.track.Language = ebml.ReadString(payload)
	},
	ebml.IDName: func(p *partialTrack, payload []byte) {
		p.track.Name = ebml.ReadString(payload)
	},
	ebml.IDFlagDefault: func(p *partialTrack, payload []byte) {
		if v, ok := ebml.ReadUint(payload); ok {
			p.track.Default = v == 1
		}
	},
}

// maxDepth bounds how far the Tracks search descends through masters.
const maxDepth = 2

// scanFrame is one level of the Tracks search.
type scanFrame struct {
	scanner *ebml.Scanner
	depth   int
}

// ExtractTracks builds the track table from the leading bytes of a Matroska
// file. It never fails: a missing or damaged Tracks element yields an empty
// table, and entries cut off by the end of buf are dropped.
func ExtractTracks(buf []byte) []Track {
	tracks, ok := findTracks(buf)
	if !ok {
		return nil
	}
	return readTrackEntries(buf, tracks)
}

// findTracks locates the first Tracks element, either at the top level or
// inside a Segment.
func findTracks(buf []byte) (ebml.Element, bool) {
	stack := []scanFrame{{scanner: ebml.NewScanner(buf), depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.scanner.Next() {
			stack = stack[:len(stack)-1]
			continue
		}
		el := top.scanner.Element()
		switch el.ID {
		case ebml.IDTracks:
			return el, true
		case ebml.IDSegment:
			if top.depth+1 < maxDepth {
				stack = append(stack, scanFrame{scanner: top.scanner.Descend(), depth: top.depth + 1})
			}
		}
	}
	return ebml.Element{}, false
}

func readTrackEntries(buf []byte, tracks ebml.Element) []Track {
	var out []Track
	entries := ebml.NewRangeScanner(buf, tracks.DataOffset, tracks.DataEnd)
	for entries.Next() {
		el := entries.Element()
		if el.ID != ebml.IDTrackEntry || el.Truncated {
			continue
		}
		p := readTrackEntry(buf, entries.Descend())
		if p.complete() {
			out = append(out, p.track)
		}
	}
	return out
}

func readTrackEntry(buf []byte, fields *ebml.Scanner) *partialTrack {
	p := &partialTrack{}
	for fields.Next() {
		el := fields.Element()
		if el.Truncated {
			continue
		}
		if apply, ok := trackFields[el.ID]; ok {
			apply(p, el.Data(buf))
		}
	}
	return p
}
