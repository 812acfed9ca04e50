package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMediaItem(t *testing.T) {
	item := NewMediaItem("", "/media/movies/The%20Long%20Night.mkv")
	assert.False(t, item.ID.IsZero())
	assert.Equal(t, "The Long Night", item.Title)
	assert.Equal(t, UnknownDuration, item.Duration)
	assert.False(t, item.Ad)

	named := NewMediaItem("Opening Titles", "/media/intro.mp4")
	assert.Equal(t, "Opening Titles", named.Title)
	assert.NotEqual(t, item.ID, named.ID)
}

func TestMediaItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    MediaItem
		wantErr error
	}{
		{"valid", MediaItem{Title: "a", URI: "/a.mkv", Duration: -1}, nil},
		{"valid with duration", MediaItem{Title: "a", URI: "/a.mkv", Duration: 5400}, nil},
		{"missing uri", MediaItem{Title: "a", URI: "  "}, ErrURIRequired},
		{"missing title", MediaItem{URI: "/a.mkv"}, ErrTitleRequired},
		{"bad duration", MediaItem{Title: "a", URI: "/a.mkv", Duration: -5}, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMediaItem_Extension(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"/media/show.MKV", ".mkv"},
		{"relative/clip.webm", ".webm"},
		{"http://nas.local/media/film.mp4?token=abc", ".mp4"},
		{"file:///media/film.avi", ".avi"},
		{"/media/README", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			item := MediaItem{URI: tt.uri}
			assert.Equal(t, tt.expected, item.Extension())
		})
	}
}

func TestMediaItem_IsLocal(t *testing.T) {
	assert.True(t, (&MediaItem{URI: "/media/a.mkv"}).IsLocal())
	assert.True(t, (&MediaItem{URI: "file:///media/a.mkv"}).IsLocal())
	assert.False(t, (&MediaItem{URI: "https://cdn.example.com/a.mkv"}).IsLocal())
}

func TestTitleFromURI(t *testing.T) {
	tests := []struct {
		uri      string
		expected string
	}{
		{"/media/movies/film.mkv", "film"},
		{"http://example.com/path/clip.mp4?x=1", "clip"},
		{"episode.01.mkv", "episode.01"},
		{"/media/.hidden", ".hidden"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleFromURI(tt.uri))
		})
	}
}

func TestMediaItem_JSON(t *testing.T) {
	item := NewMediaItem("Ad Spot", "/ads/spot.mp4")
	item.Ad = true

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded MediaItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, item, decoded)
}
