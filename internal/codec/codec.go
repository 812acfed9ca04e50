// Package codec provides a unified registry of the video, audio and subtitle
// codecs found in Matroska and WebM files. It maps Matroska CodecID strings
// and common aliases to canonical codec names and display titles.
package codec

import "strings"

// Video represents a video codec.
type Video string

// Video codec constants.
const (
	VideoH264   Video = "h264" // H.264/AVC
	VideoH265   Video = "h265" // H.265/HEVC
	VideoVP8    Video = "vp8"
	VideoVP9    Video = "vp9"
	VideoAV1    Video = "av1"
	VideoMPEG1  Video = "mpeg1"
	VideoMPEG2  Video = "mpeg2"
	VideoMPEG4  Video = "mpeg4"
	VideoVC1    Video = "vc1"
	VideoProRes Video = "prores"
	VideoTheora Video = "theora"
)

// Audio represents an audio codec.
type Audio string

// Audio codec constants.
const (
	AudioAAC    Audio = "aac"
	AudioMP3    Audio = "mp3"
	AudioMP2    Audio = "mp2"
	AudioAC3    Audio = "ac3"  // Dolby Digital (AC-3)
	AudioEAC3   Audio = "eac3" // Dolby Digital Plus (E-AC-3)
	AudioOpus   Audio = "opus"
	AudioVorbis Audio = "vorbis"
	AudioFLAC   Audio = "flac"
	AudioDTS    Audio = "dts"
	AudioTrueHD Audio = "truehd" // Dolby TrueHD
	AudioPCM    Audio = "pcm"
)

// Subtitle represents a subtitle format.
type Subtitle string

// Subtitle format constants.
const (
	SubtitleSRT    Subtitle = "srt"
	SubtitleASS    Subtitle = "ass"
	SubtitleSSA    Subtitle = "ssa"
	SubtitleWebVTT Subtitle = "webvtt"
	SubtitlePGS    Subtitle = "pgs"
	SubtitleVobSub Subtitle = "vobsub"
	SubtitleDVB    Subtitle = "dvbsub"
)

// Kind is the media kind of a codec.
type Kind string

// Codec kinds.
const (
	KindUnknown  Kind = ""
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindSubtitle Kind = "subtitle"
)

// String returns the string representation of the video codec.
func (v Video) String() string {
	return string(v)
}

// String returns the string representation of the audio codec.
func (a Audio) String() string {
	return string(a)
}

// String returns the string representation of the subtitle format.
func (s Subtitle) String() string {
	return string(s)
}

// info describes one registry entry.
type info struct {
	// Canonical name (h264, aac, srt, ...)
	Name string
	// Human-readable title
	Title string
	Kind  Kind
	// Matroska CodecIDs. An entry ending in "/" matches any suffix.
	Matroska []string
	// Other names that map to this codec (ffprobe names, encoders)
	Aliases []string
}

var registry = []info{
	{Name: string(VideoH264), Title: "H.264", Kind: KindVideo, Matroska: []string{"V_MPEG4/ISO/AVC"}, Aliases: []string{"avc", "avc1", "h.264", "libx264"}},
	{Name: string(VideoH265), Title: "HEVC", Kind: KindVideo, Matroska: []string{"V_MPEGH/ISO/HEVC"}, Aliases: []string{"hevc", "hev1", "hvc1", "h.265", "libx265"}},
	{Name: string(VideoVP8), Title: "VP8", Kind: KindVideo, Matroska: []string{"V_VP8"}, Aliases: []string{"libvpx"}},
	{Name: string(VideoVP9), Title: "VP9", Kind: KindVideo, Matroska: []string{"V_VP9"}, Aliases: []string{"vp09", "libvpx-vp9"}},
	{Name: string(VideoAV1), Title: "AV1", Kind: KindVideo, Matroska: []string{"V_AV1"}, Aliases: []string{"av01", "libaom-av1", "libsvtav1"}},
	{Name: string(VideoMPEG1), Title: "MPEG-1", Kind: KindVideo, Matroska: []string{"V_MPEG1"}, Aliases: []string{"mpeg1video"}},
	{Name: string(VideoMPEG2), Title: "MPEG-2", Kind: KindVideo, Matroska: []string{"V_MPEG2"}, Aliases: []string{"mpeg2video"}},
	{Name: string(VideoMPEG4), Title: "MPEG-4 Part 2", Kind: KindVideo, Matroska: []string{"V_MPEG4/ISO/SP", "V_MPEG4/ISO/ASP", "V_MPEG4/ISO/AP", "V_MPEG4/MS/V3"}, Aliases: []string{"xvid", "divx"}},
	{Name: string(VideoVC1), Title: "VC-1", Kind: KindVideo, Aliases: []string{"wmv3", "wvc1"}},
	{Name: string(VideoProRes), Title: "ProRes", Kind: KindVideo, Matroska: []string{"V_PRORES"}, Aliases: []string{"prores_ks"}},
	{Name: string(VideoTheora), Title: "Theora", Kind: KindVideo, Matroska: []string{"V_THEORA"}, Aliases: []string{"libtheora"}},

	{Name: string(AudioAAC), Title: "AAC", Kind: KindAudio, Matroska: []string{"A_AAC", "A_AAC/"}, Aliases: []string{"mp4a", "libfdk_aac"}},
	{Name: string(AudioMP3), Title: "MP3", Kind: KindAudio, Matroska: []string{"A_MPEG/L3"}, Aliases: []string{"libmp3lame", "mp3float"}},
	{Name: string(AudioMP2), Title: "MP2", Kind: KindAudio, Matroska: []string{"A_MPEG/L2"}},
	{Name: string(AudioAC3), Title: "Dolby Digital", Kind: KindAudio, Matroska: []string{"A_AC3", "A_AC3/"}, Aliases: []string{"ac-3", "a52"}},
	{Name: string(AudioEAC3), Title: "Dolby Digital Plus", Kind: KindAudio, Matroska: []string{"A_EAC3"}, Aliases: []string{"ec-3"}},
	{Name: string(AudioOpus), Title: "Opus", Kind: KindAudio, Matroska: []string{"A_OPUS"}, Aliases: []string{"libopus"}},
	{Name: string(AudioVorbis), Title: "Vorbis", Kind: KindAudio, Matroska: []string{"A_VORBIS"}, Aliases: []string{"libvorbis"}},
	{Name: string(AudioFLAC), Title: "FLAC", Kind: KindAudio, Matroska: []string{"A_FLAC"}},
	{Name: string(AudioDTS), Title: "DTS", Kind: KindAudio, Matroska: []string{"A_DTS", "A_DTS/"}, Aliases: []string{"dca"}},
	{Name: string(AudioTrueHD), Title: "Dolby TrueHD", Kind: KindAudio, Matroska: []string{"A_TRUEHD"}, Aliases: []string{"mlp"}},
	{Name: string(AudioPCM), Title: "PCM", Kind: KindAudio, Matroska: []string{"A_PCM/"}, Aliases: []string{"pcm_s16le", "pcm_s24le"}},

	{Name: string(SubtitleSRT), Title: "SubRip", Kind: KindSubtitle, Matroska: []string{"S_TEXT/UTF8", "S_TEXT/ASCII"}, Aliases: []string{"subrip"}},
	{Name: string(SubtitleASS), Title: "ASS", Kind: KindSubtitle, Matroska: []string{"S_TEXT/ASS", "S_ASS"}},
	{Name: string(SubtitleSSA), Title: "SSA", Kind: KindSubtitle, Matroska: []string{"S_TEXT/SSA", "S_SSA"}},
	{Name: string(SubtitleWebVTT), Title: "WebVTT", Kind: KindSubtitle, Matroska: []string{"S_TEXT/WEBVTT", "D_WEBVTT/"}, Aliases: []string{"vtt"}},
	{Name: string(SubtitlePGS), Title: "PGS", Kind: KindSubtitle, Matroska: []string{"S_HDMV/PGS"}, Aliases: []string{"hdmv_pgs_subtitle"}},
	{Name: string(SubtitleVobSub), Title: "VobSub", Kind: KindSubtitle, Matroska: []string{"S_VOBSUB"}, Aliases: []string{"dvd_subtitle"}},
	{Name: string(SubtitleDVB), Title: "DVB", Kind: KindSubtitle, Matroska: []string{"S_DVBSUB"}, Aliases: []string{"dvb_subtitle"}},
}

var (
	// aliasIndex maps canonical names and aliases (lower-case) to entries.
	aliasIndex map[string]*info
	// matroskaIndex maps exact Matroska CodecIDs to entries.
	matroskaIndex map[string]*info
	// matroskaPrefixes holds CodecID families such as "A_PCM/".
	matroskaPrefixes []prefixEntry
)

type prefixEntry struct {
	prefix string
	info   *info
}

func init() {
	aliasIndex = make(map[string]*info)
	matroskaIndex = make(map[string]*info)
	for i := range registry {
		entry := &registry[i]
		aliasIndex[entry.Name] = entry
		for _, alias := range entry.Aliases {
			aliasIndex[strings.ToLower(alias)] = entry
		}
		for _, id := range entry.Matroska {
			if strings.HasSuffix(id, "/") {
				matroskaPrefixes = append(matroskaPrefixes, prefixEntry{prefix: id, info: entry})
				continue
			}
			matroskaIndex[id] = entry
		}
	}
}

func lookupMatroska(codecID string) (*info, bool) {
	codecID = strings.ToUpper(strings.TrimSpace(codecID))
	if codecID == "" {
		return nil, false
	}
	if entry, ok := matroskaIndex[codecID]; ok {
		return entry, true
	}
	for _, p := range matroskaPrefixes {
		if strings.HasPrefix(codecID, p.prefix) {
			return p.info, true
		}
	}
	return nil, false
}

func lookup(name string) (*info, bool) {
	if entry, ok := lookupMatroska(name); ok {
		return entry, true
	}
	entry, ok := aliasIndex[strings.ToLower(strings.TrimSpace(name))]
	return entry, ok
}

// FromMatroska maps a Matroska CodecID ("A_AAC", "V_MPEG4/ISO/AVC") to its
// canonical codec name and kind.
func FromMatroska(codecID string) (string, Kind, bool) {
	entry, ok := lookupMatroska(codecID)
	if !ok {
		return "", KindUnknown, false
	}
	return entry.Name, entry.Kind, true
}

// ParseVideo parses a CodecID, codec name or alias to a Video codec.
func ParseVideo(s string) (Video, bool) {
	entry, ok := lookup(s)
	if !ok || entry.Kind != KindVideo {
		return "", false
	}
	return Video(entry.Name), true
}

// ParseAudio parses a CodecID, codec name or alias to an Audio codec.
func ParseAudio(s string) (Audio, bool) {
	entry, ok := lookup(s)
	if !ok || entry.Kind != KindAudio {
		return "", false
	}
	return Audio(entry.Name), true
}

// ParseSubtitle parses a CodecID, format name or alias to a Subtitle format.
func ParseSubtitle(s string) (Subtitle, bool) {
	entry, ok := lookup(s)
	if !ok || entry.Kind != KindSubtitle {
		return "", false
	}
	return Subtitle(entry.Name), true
}

// Normalize converts any codec string (CodecID, alias) to its canonical form.
// Returns the input unchanged if not recognized.
func Normalize(name string) string {
	if entry, ok := lookup(name); ok {
		return entry.Name
	}
	return name
}

// Title returns the display title for a codec string, e.g. "Dolby Digital"
// for "A_AC3". Unrecognized input is returned unchanged.
func Title(name string) string {
	if entry, ok := lookup(name); ok {
		return entry.Title
	}
	return name
}

// Match returns true if two codec strings represent the same codec.
func Match(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(Normalize(a), Normalize(b))
}
