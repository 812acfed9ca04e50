package service

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/localtv/internal/models"
	"github.com/jmylchreest/localtv/internal/playlist"
	"github.com/jmylchreest/localtv/internal/rotation"
	"github.com/jmylchreest/localtv/internal/testutil"
)

func writePlaylist(t *testing.T, dir, name string, items []models.MediaItem) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, playlist.Write(f, items))
	return path
}

func newTestChannel() *ChannelService {
	return NewChannelService(nil, rotation.NewSeededRand(42))
}

func TestChannelService_EmptyChannel(t *testing.T) {
	ctx := context.Background()
	s := newTestChannel()

	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, ErrChannelEmpty)
	_, err = s.Previous(ctx)
	assert.ErrorIs(t, err, ErrNoPrevious)
	_, ok := s.Current()
	assert.False(t, ok)
	_, err = s.Reload(ctx)
	assert.ErrorIs(t, err, ErrNoSources)

	st := s.Status()
	assert.Equal(t, 0, st.Items)
	assert.Nil(t, st.LoadedAt)
	assert.NotNil(t, st.Playlists)
}

func TestChannelService_LoadSplitsAds(t *testing.T) {
	gen := testutil.NewSampleDataGeneratorWithSeed(1)
	items := append(gen.Programmes(4), gen.Ads(2)...)

	s := newTestChannel()
	s.Load(items)

	st := s.Status()
	assert.Equal(t, 4, st.Items)
	assert.Equal(t, 2, st.Ads)
	assert.NotNil(t, st.LoadedAt)
	for _, item := range s.Items() {
		assert.False(t, item.Ad)
	}
}

func TestChannelService_PlaylistsAndAds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gen := testutil.NewSampleDataGeneratorWithSeed(2)

	main := writePlaylist(t, dir, "main.m3u", gen.Programmes(6))
	adSpots := gen.Ads(3)
	for i := range adSpots {
		adSpots[i].Ad = false // ad playlists need no tagging
	}
	ads := writePlaylist(t, dir, "ads.m3u", adSpots)

	s := newTestChannel()
	n, err := s.LoadPlaylists(ctx, []string{main})
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	pool, err := s.LoadAds(ctx, []string{ads})
	require.NoError(t, err)
	assert.Equal(t, 3, pool)

	cfg := s.ConfigureAds(rotation.AdConfig{Enabled: true, Frequency: 2, MinPerBreak: 1, MaxPerBreak: 1})
	assert.Equal(t, 2, cfg.Frequency)

	var marks []bool
	for i := 0; i < 6; i++ {
		slot, err := s.Next(ctx)
		require.NoError(t, err)
		marks = append(marks, slot.Ad)
	}
	assert.Equal(t, []bool{false, false, true, false, false, true}, marks)

	st := s.Status()
	assert.Equal(t, []string{main}, st.Playlists)
	assert.Equal(t, []string{ads}, st.AdsPlaylists)
	assert.Equal(t, 4, st.NormalPlays)
	require.NotNil(t, st.Current)
}

func TestChannelService_Reload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gen := testutil.NewSampleDataGeneratorWithSeed(3)
	path := writePlaylist(t, dir, "main.m3u", gen.Programmes(2))

	s := newTestChannel()
	_, err := s.LoadPlaylists(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Status().Items)

	writePlaylist(t, dir, "main.m3u", gen.Programmes(5))
	st, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Items)

	require.NoError(t, os.Remove(path))
	_, err = s.Reload(ctx)
	require.Error(t, err)
	assert.Equal(t, 5, s.Status().Items, "failed reload keeps the previous items")
}

func TestChannelService_SetSources(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gen := testutil.NewSampleDataGeneratorWithSeed(4)
	path := writePlaylist(t, dir, "main.m3u", gen.Programmes(3))
	ads := writePlaylist(t, dir, "ads.m3u", gen.Programmes(2))

	s := newTestChannel()
	s.SetSources([]string{path}, []string{ads})
	assert.Equal(t, 0, s.Status().Items, "sources are not loaded until reload")

	st, err := s.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Items)
	assert.Equal(t, 2, st.Ads)
	assert.Equal(t, []string{ads}, st.AdsPlaylists)
}

func TestChannelService_ReloadLogsOperation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gen := testutil.NewSampleDataGeneratorWithSeed(5)
	path := writePlaylist(t, dir, "main.m3u", gen.Programmes(2))

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := newTestChannel().WithLogger(logger)
	s.SetSources([]string{path}, []string{filepath.Join(dir, "missing-ads.m3u")})

	_, err := s.Reload(ctx)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"reloading channel"`)
	assert.Contains(t, out, `"operation":"reload"`)
	assert.Contains(t, out, "keeping previous ads after failed reload")
	assert.Contains(t, out, "missing-ads.m3u")
}

func TestChannelService_LoadPlaylistsError(t *testing.T) {
	s := newTestChannel()
	_, err := s.LoadPlaylists(context.Background(), []string{"/does/not/exist.m3u"})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = s.LoadAds(context.Background(), nil)
	assert.ErrorIs(t, err, playlist.ErrEmptyPlaylist)
}

func TestChannelService_Previous(t *testing.T) {
	ctx := context.Background()
	s := newTestChannel()
	s.Load(testutil.Numbered("item", 4))

	first, err := s.Next(ctx)
	require.NoError(t, err)
	_, err = s.Next(ctx)
	require.NoError(t, err)

	prev, err := s.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Item, prev)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, first.Item, cur)
}

func TestChannelService_ClearAndClearAds(t *testing.T) {
	gen := testutil.NewSampleDataGeneratorWithSeed(4)
	s := newTestChannel()
	s.Load(append(gen.Programmes(3), gen.Ads(2)...))

	s.ClearAds()
	assert.Equal(t, 0, s.Status().Ads)
	assert.Equal(t, 3, s.Status().Items)

	s.Clear()
	st := s.Status()
	assert.Equal(t, 0, st.Items)
	assert.Nil(t, st.LoadedAt)
	assert.Empty(t, st.Playlists)
}

func TestChannelService_ConcurrentNext(t *testing.T) {
	s := newTestChannel()
	s.Load(testutil.Numbered("item", 10))
	s.ConfigureAds(rotation.AdConfig{Enabled: true, Frequency: 1, MinPerBreak: 1, MaxPerBreak: 1})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = s.Next(context.Background())
				_ = s.Status()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, s.Status().NormalPlays)
}
