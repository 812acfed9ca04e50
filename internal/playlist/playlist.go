// Package playlist turns M3U playlists into channel media items and writes
// rotation output back as M3U.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/localtv/internal/models"
	"github.com/jmylchreest/localtv/internal/urlutil"
	"github.com/jmylchreest/localtv/pkg/m3u"
)

// ErrEmptyPlaylist is returned when a playlist yields no playable items.
var ErrEmptyPlaylist = errors.New("playlist contains no playable items")

// ErrRemotePlaylist is returned for playlist locations that are not on the
// local file system.
var ErrRemotePlaylist = errors.New("playlist is not a local file")

// Attributes understood on EXTINF lines.
const (
	AttrAd       = "localtv-ad"
	AttrID       = "localtv-id"
	adGroupTitle = "ads"
)

// VideoExtensions are the file types accepted from playlists.
var VideoExtensions = []string{
	".mp4", ".mkv", ".webm", ".avi", ".mov", ".m4v", ".wmv", ".flv", ".ogv", ".3gp",
}

// IsVideoFile reports whether name has one of the accepted video extensions.
func IsVideoFile(name string) bool {
	item := models.MediaItem{URI: name}
	ext := item.Extension()
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// Loader reads playlists from disk.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a playlist loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "playlist"))}
}

// LoadFile parses the playlist at path, which may be a file:// URL.
// Relative entries resolve against the playlist's directory.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]models.MediaItem, error) {
	local, ok := urlutil.LocalPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRemotePlaylist, path)
	}
	path = local

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening playlist %s: %w", path, err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	items, err := l.Load(ctx, f, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("loading playlist %s: %w", path, err)
	}
	return items, nil
}

// LoadFiles loads every playlist in order and concatenates the items.
// Playlists that fail to load are logged and skipped; an error is returned
// only when nothing could be loaded.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]models.MediaItem, error) {
	var (
		all     []models.MediaItem
		lastErr error
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := l.LoadFile(ctx, p)
		if err != nil {
			l.logger.WarnContext(ctx, "skipping playlist",
				slog.String("path", p),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}
		all = append(all, items...)
	}
	if len(all) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrEmptyPlaylist
	}
	return all, nil
}

// Load parses a (possibly compressed) M3U stream. baseDir resolves relative
// entries; an empty baseDir leaves them untouched. Entries whose extension is
// not a video type are skipped.
func (l *Loader) Load(ctx context.Context, r io.Reader, baseDir string) ([]models.MediaItem, error) {
	var items []models.MediaItem
	skipped := 0

	p := &m3u.Parser{
		OnEntry: func(e *m3u.Entry) error {
			item := itemFromEntry(e, baseDir)
			if !IsVideoFile(item.URI) {
				skipped++
				return nil
			}
			if err := item.Validate(); err != nil {
				skipped++
				return nil
			}
			items = append(items, item)
			return nil
		},
		OnError: func(lineNum int, err error) {
			l.logger.DebugContext(ctx, "ignoring playlist line",
				slog.Int("line", lineNum),
				slog.String("error", err.Error()),
			)
		},
	}
	if err := p.ParseCompressed(r); err != nil {
		return nil, err
	}

	l.logger.DebugContext(ctx, "parsed playlist",
		slog.Int("items", len(items)),
		slog.Int("skipped", skipped),
	)
	if len(items) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return items, nil
}

func itemFromEntry(e *m3u.Entry, baseDir string) models.MediaItem {
	item := models.NewMediaItem(e.Title, resolve(e.URL, baseDir))
	item.Duration = e.Duration
	item.Group = e.GroupTitle

	if id := e.Attr(AttrID); id != "" {
		if parsed, err := models.ParseULID(id); err == nil {
			item.ID = parsed
		}
	}

	ad, _ := strconv.ParseBool(e.Attr(AttrAd))
	item.Ad = ad || strings.EqualFold(e.GroupTitle, adGroupTitle)

	for k, v := range e.Attrs {
		if k == AttrAd || k == AttrID {
			continue
		}
		if item.Attributes == nil {
			item.Attributes = make(map[string]string)
		}
		item.Attributes[k] = v
	}
	return item
}

// resolve makes a relative local path absolute against baseDir and turns
// file:// URLs into paths. Remote URLs are returned unchanged.
func resolve(location, baseDir string) string {
	p, ok := urlutil.LocalPath(location)
	if !ok {
		return location
	}
	if baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, filepath.FromSlash(p))
}

// Write writes items as an extended M3U playlist. Item IDs and the ad flag
// are written as attributes so the output loads back unchanged.
func Write(w io.Writer, items []models.MediaItem) error {
	mw := m3u.NewWriter(w)
	if err := mw.WriteHeader(); err != nil {
		return err
	}
	for i := range items {
		item := &items[i]
		attrs := make(map[string]string, len(item.Attributes)+2)
		for k, v := range item.Attributes {
			attrs[k] = v
		}
		if !item.ID.IsZero() {
			attrs[AttrID] = item.ID.String()
		}
		if item.Ad {
			attrs[AttrAd] = "true"
		}
		entry := &m3u.Entry{
			Duration:   item.Duration,
			Title:      item.Title,
			GroupTitle: item.Group,
			URL:        item.URI,
			Attrs:      attrs,
		}
		if err := mw.WriteEntry(entry); err != nil {
			return fmt.Errorf("writing item %d: %w", i, err)
		}
	}
	return nil
}

// Split separates items into programmes and ads.
func Split(items []models.MediaItem) (programmes, ads []models.MediaItem) {
	for _, item := range items {
		if item.Ad {
			ads = append(ads, item)
			continue
		}
		programmes = append(programmes, item)
	}
	return programmes, ads
}
