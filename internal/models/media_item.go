package models

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/localtv/internal/urlutil"
)

// UnknownDuration marks an item whose length is not known.
const UnknownDuration = -1

// MediaItem is one playable entry of the channel: a programme or an ad.
type MediaItem struct {
	ID    ULID   `json:"id"`
	Title string `json:"title"`
	// URI is an absolute file path or a URL.
	URI string `json:"uri"`
	// Duration is the length in seconds, or UnknownDuration.
	Duration int    `json:"duration"`
	Group    string `json:"group,omitempty"`
	// Ad marks items that belong to the advertisement pool.
	Ad bool `json:"ad"`
	// Attributes holds playlist attributes not mapped to a field.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NewMediaItem creates an item with a fresh ID. An empty title is derived
// from the URI.
func NewMediaItem(title, uri string) MediaItem {
	item := MediaItem{
		ID:       NewULID(),
		Title:    title,
		URI:      uri,
		Duration: UnknownDuration,
	}
	if item.Title == "" {
		item.Title = TitleFromURI(uri)
	}
	return item
}

// Validate checks the item for required fields.
func (m *MediaItem) Validate() error {
	if strings.TrimSpace(m.URI) == "" {
		return ErrURIRequired
	}
	if strings.TrimSpace(m.Title) == "" {
		return ErrTitleRequired
	}
	if m.Duration < UnknownDuration {
		return ErrInvalidDuration
	}
	return nil
}

// Extension returns the lower-case file extension of the item's URI,
// including the leading dot.
func (m *MediaItem) Extension() string {
	p := m.URI
	if u, err := url.Parse(m.URI); err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		p = u.Path
	}
	return strings.ToLower(path.Ext(filepath.ToSlash(p)))
}

// IsLocal reports whether the URI refers to the local file system.
func (m *MediaItem) IsLocal() bool {
	return !urlutil.IsRemoteURL(m.URI)
}

// TitleFromURI derives a display title from a file name: the base name
// without extension and query string.
func TitleFromURI(uri string) string {
	name := filepath.ToSlash(uri)
	if i := strings.IndexAny(name, "?#"); i > 0 {
		name = name[:i]
	}
	name = path.Base(name)
	if ext := path.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" || name == "." || name == "/" {
		return "Unknown"
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}
