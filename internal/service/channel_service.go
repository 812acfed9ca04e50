package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/localtv/internal/models"
	"github.com/jmylchreest/localtv/internal/observability"
	"github.com/jmylchreest/localtv/internal/playlist"
	"github.com/jmylchreest/localtv/internal/rotation"
)

// ErrChannelEmpty is returned when the channel has nothing to play.
var ErrChannelEmpty = errors.New("channel has no items")

// ErrNoPrevious is returned when there is no earlier item to step back to.
var ErrNoPrevious = errors.New("no previous item")

// ErrNoSources is returned by Reload when no playlists are configured.
var ErrNoSources = errors.New("no playlists configured")

// ChannelStatus describes the channel's current state.
type ChannelStatus struct {
	rotation.Status
	Playlists    []string          `json:"playlists"`
	AdsPlaylists []string          `json:"ads_playlists"`
	LoadedAt     *time.Time        `json:"loaded_at,omitempty"`
	Current      *models.MediaItem `json:"current,omitempty"`
}

// ChannelService owns the channel's rotation. All access to the scheduler
// goes through its mutex.
type ChannelService struct {
	mu     sync.Mutex
	sched  *rotation.Scheduler[models.MediaItem]
	loader *playlist.Loader
	logger *slog.Logger

	playlists    []string
	adsPlaylists []string
	// playlistAds are ad-tagged items found in the programme playlists.
	playlistAds []models.MediaItem
	adsLoaded   []models.MediaItem
	loadedAt    time.Time
}

// NewChannelService creates an empty channel. A nil rng uses
// rotation.NewRand.
func NewChannelService(loader *playlist.Loader, rng rotation.Rand) *ChannelService {
	if loader == nil {
		loader = playlist.NewLoader(nil)
	}
	return &ChannelService{
		sched:  rotation.NewScheduler[models.MediaItem](rng),
		loader: loader,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *ChannelService) WithLogger(logger *slog.Logger) *ChannelService {
	s.logger = logger
	return s
}

// Load replaces the channel's items. Items flagged as ads join the ad pool
// alongside ads loaded from ad playlists.
func (s *ChannelService) Load(items []models.MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(items)
}

func (s *ChannelService) loadLocked(items []models.MediaItem) {
	programmes, ads := playlist.Split(items)
	s.sched.Load(programmes)
	s.playlistAds = ads
	s.refreshAdsLocked()
	s.loadedAt = time.Now()
}

func (s *ChannelService) refreshAdsLocked() {
	pool := make([]models.MediaItem, 0, len(s.playlistAds)+len(s.adsLoaded))
	pool = append(pool, s.playlistAds...)
	pool = append(pool, s.adsLoaded...)
	if len(pool) == 0 {
		s.sched.ClearAds()
		return
	}
	s.sched.LoadAds(pool)
}

// LoadPlaylists loads programme playlists and makes them the channel's
// sources for Reload. It returns the number of programmes loaded.
func (s *ChannelService) LoadPlaylists(ctx context.Context, paths []string) (int, error) {
	items, err := s.loader.LoadFiles(ctx, paths)
	if err != nil {
		return 0, fmt.Errorf("loading playlists: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = append([]string(nil), paths...)
	s.loadLocked(items)

	n := s.sched.Queue().Len()
	s.logger.InfoContext(ctx, "loaded channel playlists",
		slog.Int("playlists", len(paths)),
		slog.Int("programmes", n),
		slog.Int("playlist_ads", len(s.playlistAds)),
	)
	return n, nil
}

// LoadAds loads ad playlists into the ad pool. Every item is treated as an
// ad. It returns the size of the resulting pool.
func (s *ChannelService) LoadAds(ctx context.Context, paths []string) (int, error) {
	items, err := s.loader.LoadFiles(ctx, paths)
	if err != nil {
		return 0, fmt.Errorf("loading ad playlists: %w", err)
	}
	for i := range items {
		items[i].Ad = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adsPlaylists = append([]string(nil), paths...)
	s.adsLoaded = items
	s.refreshAdsLocked()

	n := s.sched.Status().Ads
	s.logger.InfoContext(ctx, "loaded ad playlists",
		slog.Int("playlists", len(paths)),
		slog.Int("ads", n),
	)
	return n, nil
}

// SetSources records the playlists Reload reads without loading them.
func (s *ChannelService) SetSources(playlists, adsPlaylists []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = append([]string(nil), playlists...)
	s.adsPlaylists = append([]string(nil), adsPlaylists...)
}

// Reload re-reads the configured playlists.
func (s *ChannelService) Reload(ctx context.Context) (ChannelStatus, error) {
	s.mu.Lock()
	playlists := append([]string(nil), s.playlists...)
	adsPlaylists := append([]string(nil), s.adsPlaylists...)
	s.mu.Unlock()

	if len(playlists) == 0 {
		return ChannelStatus{}, ErrNoSources
	}
	logger := observability.WithOperation(s.logger, "reload")
	logger.DebugContext(ctx, "reloading channel",
		slog.Int("playlists", len(playlists)),
		slog.Int("ads_playlists", len(adsPlaylists)),
	)
	if _, err := s.LoadPlaylists(ctx, playlists); err != nil {
		return ChannelStatus{}, err
	}
	if len(adsPlaylists) > 0 {
		if _, err := s.LoadAds(ctx, adsPlaylists); err != nil {
			observability.WithError(logger, err).WarnContext(ctx, "keeping previous ads after failed reload")
		}
	}
	return s.Status(), nil
}

// Next advances the channel.
func (s *ChannelService) Next(ctx context.Context) (rotation.Slot[models.MediaItem], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.sched.Next()
	if !ok {
		return slot, ErrChannelEmpty
	}
	s.logger.DebugContext(ctx, "dispensed item",
		slog.String("title", slot.Item.Title),
		slog.String("uri", slot.Item.URI),
		slog.Bool("ad", slot.Ad),
	)
	return slot, nil
}

// Previous steps back to the programme played before the current one.
func (s *ChannelService) Previous(ctx context.Context) (models.MediaItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.sched.Previous()
	if !ok {
		return item, ErrNoPrevious
	}
	s.logger.DebugContext(ctx, "stepped back", slog.String("title", item.Title))
	return item, nil
}

// Current returns the most recent programme.
func (s *ChannelService) Current() (models.MediaItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Current()
}

// Items returns the loaded programmes in their current rotation order.
func (s *ChannelService) Items() []models.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Queue().Items()
}

// Status returns a snapshot of the channel.
func (s *ChannelService) Status() ChannelStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := ChannelStatus{
		Status:       s.sched.Status(),
		Playlists:    append([]string{}, s.playlists...),
		AdsPlaylists: append([]string{}, s.adsPlaylists...),
	}
	if !s.loadedAt.IsZero() {
		t := s.loadedAt
		st.LoadedAt = &t
	}
	if cur, ok := s.sched.Current(); ok {
		st.Current = &cur
	}
	return st
}

// ConfigureAds replaces the ad cadence. Values are clamped.
func (s *ChannelService) ConfigureAds(cfg rotation.AdConfig) rotation.AdConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.SetAdConfig(cfg)
	return s.sched.AdConfig()
}

// ClearAds empties the ad pool and forgets the ad playlists.
func (s *ChannelService) ClearAds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adsPlaylists = nil
	s.adsLoaded = nil
	s.playlistAds = nil
	s.sched.ClearAds()
}

// Clear empties the channel and forgets its playlists. The ad pool and
// ad configuration are kept.
func (s *ChannelService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists = nil
	s.loadedAt = time.Time{}
	s.sched.Clear()
}
