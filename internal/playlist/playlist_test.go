package playlist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/localtv/internal/models"
)

const samplePlaylist = `#EXTM3U
#EXTINF:5400 group-title="Movies" tvg-logo="poster.png",The Long Night
movies/long-night.mkv
#EXTINF:-1,Notes
docs/readme.txt
#EXTINF:30 localtv-ad="true",Soda Spot
/ads/soda.mp4
#EXTINF:15 group-title="Ads",Car Spot
https://cdn.example.com/ads/car.webm
/media/shows/pilot.MP4
`

func TestLoad(t *testing.T) {
	l := NewLoader(nil)
	items, err := l.Load(context.Background(), strings.NewReader(samplePlaylist), "/srv")
	require.NoError(t, err)
	require.Len(t, items, 4)

	movie := items[0]
	assert.Equal(t, "The Long Night", movie.Title)
	assert.Equal(t, filepath.Join("/srv", "movies", "long-night.mkv"), movie.URI)
	assert.Equal(t, 5400, movie.Duration)
	assert.Equal(t, "Movies", movie.Group)
	assert.Equal(t, "poster.png", movie.Attributes["tvg-logo"])
	assert.False(t, movie.Ad)
	assert.False(t, movie.ID.IsZero())

	assert.True(t, items[1].Ad, "localtv-ad attribute marks ads")
	assert.Equal(t, "/ads/soda.mp4", items[1].URI)
	assert.Nil(t, items[1].Attributes)

	assert.True(t, items[2].Ad, "ads group marks ads")
	assert.Equal(t, "https://cdn.example.com/ads/car.webm", items[2].URI)

	pilot := items[3]
	assert.Equal(t, "pilot", pilot.Title)
	assert.Equal(t, models.UnknownDuration, pilot.Duration)
}

func TestLoad_EmptyBaseDirKeepsRelative(t *testing.T) {
	items, err := NewLoader(nil).Load(context.Background(), strings.NewReader("clip.mkv\n"), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "clip.mkv", items[0].URI)
}

func TestLoad_Empty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"blank", ""},
		{"header only", "#EXTM3U\n"},
		{"no video", "#EXTM3U\n/docs/a.txt\n/music/b.mp3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Load(context.Background(), strings.NewReader(tt.content), "")
			assert.ErrorIs(t, err, ErrEmptyPlaylist)
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	first := models.NewMediaItem("Feature", "/media/feature.mkv")
	first.Duration = 6000
	first.Group = "Movies"
	first.Attributes = map[string]string{"tvg-logo": "f.png"}
	ad := models.NewMediaItem("Spot", "/ads/spot.mp4")
	ad.Ad = true
	ad.Duration = 20

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []models.MediaItem{first, ad}))
	assert.True(t, strings.HasPrefix(buf.String(), "#EXTM3U\n"))

	items, err := NewLoader(nil).Load(context.Background(), &buf, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first, items[0])
	assert.Equal(t, ad, items[1])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "channel.m3u")
	require.NoError(t, os.WriteFile(path, []byte("#EXTM3U\n#EXTINF:60,Intro\nintro.mkv\n"), 0o644))

	items, err := NewLoader(nil).LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, filepath.Join(dir, "intro.mkv"), items[0].URI)

	_, err = NewLoader(nil).LoadFile(context.Background(), filepath.Join(dir, "missing.m3u"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewLoader(nil).LoadFile(context.Background(), "https://example.com/channel.m3u")
	assert.ErrorIs(t, err, ErrRemotePlaylist)
}

func TestLoadFile_FileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "channel.m3u")
	require.NoError(t, os.WriteFile(path, []byte("#EXTM3U\nfile:///media/a.mkv\nb.mkv\n"), 0o644))

	items, err := NewLoader(nil).LoadFile(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, filepath.FromSlash("/media/a.mkv"), items[0].URI)
	assert.Equal(t, filepath.Join(dir, "b.mkv"), items[1].URI)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.m3u")
	b := filepath.Join(dir, "b.m3u")
	require.NoError(t, os.WriteFile(a, []byte("/media/a1.mkv\n/media/a2.mkv\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("/media/b1.mp4\n"), 0o644))

	items, err := NewLoader(nil).LoadFiles(context.Background(), []string{a, filepath.Join(dir, "gone.m3u"), b})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a1", items[0].Title)
	assert.Equal(t, "b1", items[2].Title)

	_, err = NewLoader(nil).LoadFiles(context.Background(), []string{filepath.Join(dir, "gone.m3u")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewLoader(nil).LoadFiles(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyPlaylist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLoader(nil).LoadFiles(ctx, []string{a})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("/a/b.MKV"))
	assert.True(t, IsVideoFile("http://host/x.3gp?sig=1"))
	assert.False(t, IsVideoFile("/a/b.srt"))
	assert.False(t, IsVideoFile("/a/noext"))
}

func TestSplit(t *testing.T) {
	items := []models.MediaItem{
		{Title: "p1"}, {Title: "a1", Ad: true}, {Title: "p2"},
	}
	programmes, ads := Split(items)
	require.Len(t, programmes, 2)
	require.Len(t, ads, 1)
	assert.Equal(t, "a1", ads[0].Title)
}
