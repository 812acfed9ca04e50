package handlers

import (
	"time"

	"github.com/jmylchreest/localtv/internal/mkv"
	"github.com/jmylchreest/localtv/internal/models"
	"github.com/jmylchreest/localtv/internal/rotation"
	"github.com/jmylchreest/localtv/internal/service"
)

// Health types

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string            `json:"status"`
	Timestamp     string            `json:"timestamp"`
	Version       string            `json:"version"`
	Uptime        string            `json:"uptime"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	CPUInfo       CPUInfo           `json:"cpu_info"`
	Memory        MemoryInfo        `json:"memory"`
	Channel       *ChannelHealth    `json:"channel,omitempty"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// CPUInfo holds load averages.
type CPUInfo struct {
	Cores              int     `json:"cores"`
	Load1Min           float64 `json:"load_1min"`
	Load5Min           float64 `json:"load_5min"`
	Load15Min          float64 `json:"load_15min"`
	LoadPercentage1Min float64 `json:"load_percentage_1min"`
}

// MemoryInfo holds system and process memory usage.
type MemoryInfo struct {
	TotalMemoryMB      float64 `json:"total_memory_mb"`
	UsedMemoryMB       float64 `json:"used_memory_mb"`
	AvailableMemoryMB  float64 `json:"available_memory_mb"`
	ProcessMB          float64 `json:"process_mb"`
	PercentageOfSystem float64 `json:"percentage_of_system"`
}

// ChannelHealth summarises the channel in health responses.
type ChannelHealth struct {
	Items       int `json:"items"`
	Ads         int `json:"ads"`
	NormalPlays int `json:"normal_plays"`
}

// ProbeStatus is the body of the liveness and readiness probes.
type ProbeStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// Track types

// ProbeResponse is the track table of a probed file.
type ProbeResponse struct {
	DocType         string          `json:"doc_type,omitempty" doc:"EBML DocType, matroska or webm"`
	HeaderBytes     int             `json:"header_bytes" doc:"Number of leading bytes examined"`
	Tracks          []mkv.Track     `json:"tracks"`
	Audio           []mkv.TrackView `json:"audio"`
	Subtitles       []mkv.TrackView `json:"subtitles"`
	DefaultAudio    int             `json:"default_audio" doc:"Index of the default audio track"`
	DefaultSubtitle int             `json:"default_subtitle" doc:"Index of the default subtitle track, -1 for off"`
}

// ProbeResponseFromResult converts a probe result to a response.
func ProbeResponseFromResult(r *mkv.ProbeResult) ProbeResponse {
	return ProbeResponse{
		DocType:         r.DocType,
		HeaderBytes:     r.HeaderBytes,
		Tracks:          r.Tracks,
		Audio:           r.Audio,
		Subtitles:       r.Subtitles,
		DefaultAudio:    r.DefaultAudio(),
		DefaultSubtitle: r.DefaultSubtitle(),
	}
}

// Channel types

// MediaItemResponse represents a media item in API responses.
type MediaItemResponse struct {
	ID       models.ULID `json:"id"`
	Title    string      `json:"title"`
	URI      string      `json:"uri"`
	Duration int         `json:"duration" doc:"Length in seconds, -1 when unknown"`
	Group    string      `json:"group,omitempty"`
	Ad       bool        `json:"ad"`
	Local    bool        `json:"local" doc:"True when the URI is on the local file system"`
}

// MediaItemFromModel converts a model to a response.
func MediaItemFromModel(m *models.MediaItem) MediaItemResponse {
	return MediaItemResponse{
		ID:       m.ID,
		Title:    m.Title,
		URI:      m.URI,
		Duration: m.Duration,
		Group:    m.Group,
		Ad:       m.Ad,
		Local:    m.IsLocal(),
	}
}

// AdConfigBody is the ad break configuration in requests and responses.
type AdConfigBody struct {
	Enabled     bool `json:"enabled"`
	Frequency   int  `json:"frequency" doc:"Normal items between ad breaks" minimum:"0"`
	MinPerBreak int  `json:"min_per_break" doc:"Fewest ads per break" minimum:"0"`
	MaxPerBreak int  `json:"max_per_break" doc:"Most ads per break" minimum:"0"`
}

// AdConfigFromRotation converts a rotation config to a response body.
func AdConfigFromRotation(c rotation.AdConfig) AdConfigBody {
	return AdConfigBody{
		Enabled:     c.Enabled,
		Frequency:   c.Frequency,
		MinPerBreak: c.MinPerBreak,
		MaxPerBreak: c.MaxPerBreak,
	}
}

// ToRotation converts the body to a rotation config.
func (b AdConfigBody) ToRotation() rotation.AdConfig {
	return rotation.AdConfig{
		Enabled:     b.Enabled,
		Frequency:   b.Frequency,
		MinPerBreak: b.MinPerBreak,
		MaxPerBreak: b.MaxPerBreak,
	}
}

// ChannelStatusResponse represents the channel state.
type ChannelStatusResponse struct {
	Items        int                `json:"items"`
	PlayedCount  int                `json:"played_count" doc:"Items played in the current round"`
	NormalPlays  int                `json:"normal_plays" doc:"Programmes played since load"`
	Ads          int                `json:"ads"`
	PendingAds   int                `json:"pending_ads" doc:"Ads left in the current break"`
	AdConfig     AdConfigBody       `json:"ad_config"`
	Playlists    []string           `json:"playlists"`
	AdsPlaylists []string           `json:"ads_playlists"`
	LoadedAt     *time.Time         `json:"loaded_at,omitempty"`
	Current      *MediaItemResponse `json:"current,omitempty"`
}

// ChannelStatusFromService converts a service status to a response.
func ChannelStatusFromService(st service.ChannelStatus) ChannelStatusResponse {
	resp := ChannelStatusResponse{
		Items:        st.Items,
		PlayedCount:  st.PlayedCount,
		NormalPlays:  st.NormalPlays,
		Ads:          st.Ads,
		PendingAds:   st.PendingAds,
		AdConfig:     AdConfigFromRotation(st.AdConfig),
		Playlists:    st.Playlists,
		AdsPlaylists: st.AdsPlaylists,
		LoadedAt:     st.LoadedAt,
	}
	if st.Current != nil {
		cur := MediaItemFromModel(st.Current)
		resp.Current = &cur
	}
	return resp
}
