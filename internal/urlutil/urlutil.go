// Package urlutil classifies media locations found in playlists and config.
package urlutil

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// URL scheme constants.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeFile  = "file"
)

// IsRemoteURL reports whether u is fetched over the network: http://,
// https:// or protocol-relative (//host/...). Any other scheme with two or
// more letters (rtsp://, udp://) also counts as remote.
func IsRemoteURL(u string) bool {
	if strings.HasPrefix(u, "//") {
		return true
	}
	scheme := GetScheme(u)
	return scheme != "" && scheme != SchemeFile
}

// IsFileURL checks if a URL uses the file:// scheme.
func IsFileURL(u string) bool {
	return strings.HasPrefix(strings.ToLower(u), "file://")
}

// GetScheme returns the lower-case scheme of u, or "" for plain paths.
// Single-letter schemes are Windows drive letters and report "".
func GetScheme(u string) string {
	i := strings.Index(u, "://")
	if i < 2 {
		return ""
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Scheme)
}

// FilePathFromURL extracts the file path from a file:// URL.
// Both file:///path and file://localhost/path are accepted.
func FilePathFromURL(u string) (string, error) {
	if !IsFileURL(u) {
		return "", fmt.Errorf("not a file:// URL: %s", u)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Host != "" && parsed.Host != "localhost" {
		return "", fmt.Errorf("file URL with remote host %q: %s", parsed.Host, u)
	}
	if parsed.Path == "" {
		return "", fmt.Errorf("empty path in file URL: %s", u)
	}

	return filepath.FromSlash(parsed.Path), nil
}

// LocalPath returns the file system path for location. Plain paths are
// returned unchanged and file:// URLs are converted; ok is false for remote
// URLs and malformed file URLs.
func LocalPath(location string) (path string, ok bool) {
	if IsFileURL(location) {
		p, err := FilePathFromURL(location)
		if err != nil {
			return "", false
		}
		return p, true
	}
	if IsRemoteURL(location) {
		return "", false
	}
	return location, true
}
