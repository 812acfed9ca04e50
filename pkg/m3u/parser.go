// Package m3u provides streaming M3U playlist parsing and writing.
// It supports plain M3U lists of paths and extended M3U (M3U8) with EXTINF
// metadata, optionally compressed with gzip, bzip2 or xz.
package m3u

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
)

// Entry represents a single item in an M3U playlist.
type Entry struct {
	// Duration is the item duration in seconds (-1 when unknown).
	Duration int

	// Title is the display title from the EXTINF line.
	Title string

	// GroupTitle is the category from the group-title attribute or a
	// preceding #EXTGRP directive.
	GroupTitle string

	// URL is the item location exactly as written in the playlist.
	URL string

	// Attrs holds the remaining EXTINF attributes, keys lower-cased.
	Attrs map[string]string
}

// Attr returns the named attribute (case-insensitive) or "".
func (e *Entry) Attr(key string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[strings.ToLower(key)]
}

// Parser provides streaming M3U parsing with callback-based processing.
type Parser struct {
	// OnEntry is called for each parsed entry.
	OnEntry func(entry *Entry) error

	// OnError is called for recoverable parsing errors.
	// If nil, errors are silently ignored.
	OnError func(lineNum int, err error)
}

// Regular expressions for parsing EXTINF attributes.
var (
	// Matches duration and attributes portion: #EXTINF:-1 group-title="...",Title
	extinfRegex = regexp.MustCompile(`^#EXTINF:\s*(-?\d+(?:\.\d+)?)\s*(.*)$`)

	// Matches key="value" or key=value patterns
	attrRegex = regexp.MustCompile(`([a-zA-Z0-9_-]+)=(?:"([^"]*)"|([^\s,]+))`)
)

// maxLineSize bounds a single playlist line.
const maxLineSize = 1024 * 1024

// Parse parses an M3U playlist from a reader, calling OnEntry for each item.
func (p *Parser) Parse(r io.Reader) error {
	if p.OnEntry == nil {
		return fmt.Errorf("OnEntry callback is required")
	}

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	var currentEntry *Entry
	group := ""
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#EXTM3U") {
			continue
		}

		if strings.HasPrefix(line, "#EXTINF:") {
			entry, err := p.parseExtinf(line)
			if err != nil {
				p.handleError(lineNum, err)
				currentEntry = nil
				continue
			}
			currentEntry = entry
			continue
		}

		if strings.HasPrefix(line, "#EXTGRP:") {
			group = strings.TrimSpace(strings.TrimPrefix(line, "#EXTGRP:"))
			continue
		}

		// Skip other comment lines
		if strings.HasPrefix(line, "#") {
			continue
		}

		entry := currentEntry
		if entry == nil {
			entry = &Entry{
				Duration: -1,
				Title:    extractTitleFromURL(line),
				Attrs:    map[string]string{},
			}
		}
		entry.URL = line
		if entry.GroupTitle == "" {
			entry.GroupTitle = group
		}
		if entry.Title == "" {
			entry.Title = extractTitleFromURL(line)
		}
		if err := p.OnEntry(entry); err != nil {
			return fmt.Errorf("callback error at line %d: %w", lineNum, err)
		}
		currentEntry = nil
		group = ""
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning M3U: %w", err)
	}

	return nil
}

// ParseCompressed parses a potentially compressed M3U playlist.
// It auto-detects compression based on magic bytes.
func (p *Parser) ParseCompressed(r io.Reader) error {
	reader, closer, err := Decompress(r)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	return p.Parse(reader)
}

// Decompress wraps r in a decompressor chosen by its magic bytes. Plain
// input is returned buffered and unchanged. The closer, when non-nil, must be
// closed by the caller.
func Decompress(r io.Reader) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("peeking header: %w", err)
	}

	switch {
	case len(header) >= 2 && header[0] == 0x1f && header[1] == 0x8b:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gzr, gzr, nil

	case len(header) >= 3 && header[0] == 'B' && header[1] == 'Z' && header[2] == 'h':
		return bzip2.NewReader(br), nil, nil

	case len(header) >= 6 && header[0] == 0xfd && header[1] == '7' && header[2] == 'z' && header[3] == 'X' && header[4] == 'Z' && header[5] == 0x00:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return xzr, nil, nil
	}

	return br, nil, nil
}

// ParseString parses an in-memory playlist.
func ParseString(content string, onEntry func(entry *Entry) error) error {
	p := &Parser{OnEntry: onEntry}
	return p.Parse(strings.NewReader(content))
}

// ParseAll parses a (possibly compressed) playlist and returns every entry.
func ParseAll(r io.Reader) ([]*Entry, error) {
	var entries []*Entry
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			entries = append(entries, entry)
			return nil
		},
	}
	if err := p.ParseCompressed(r); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseExtinf parses an EXTINF line and extracts metadata.
func (p *Parser) parseExtinf(line string) (*Entry, error) {
	matches := extinfRegex.FindStringSubmatch(line)
	if matches == nil {
		return nil, fmt.Errorf("invalid EXTINF format")
	}

	// Fractional durations are truncated to whole seconds.
	seconds, _ := strconv.ParseFloat(matches[1], 64)
	remainder := matches[2]

	entry := &Entry{
		Duration: int(seconds),
		Attrs:    make(map[string]string),
	}
	if entry.Duration < -1 {
		entry.Duration = -1
	}

	// The title follows the first comma outside quotes.
	titleIdx := findTitleStart(remainder)
	if titleIdx >= 0 {
		entry.Title = strings.TrimSpace(remainder[titleIdx+1:])
		remainder = remainder[:titleIdx]
	}

	for _, match := range attrRegex.FindAllStringSubmatch(remainder, -1) {
		key := strings.ToLower(match[1])
		value := match[2]
		if value == "" {
			value = match[3]
		}

		if key == "group-title" {
			entry.GroupTitle = value
			continue
		}
		entry.Attrs[key] = value
	}

	return entry, nil
}

// findTitleStart finds the index of the comma that separates attributes from title.
// It handles commas inside quoted values.
func findTitleStart(s string) int {
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				return i
			}
		}
	}
	return -1
}

// extractTitleFromURL extracts a title from a location when no EXTINF title
// is present.
func extractTitleFromURL(url string) string {
	url = strings.ReplaceAll(url, `\`, "/")
	parts := strings.Split(url, "/")
	filename := parts[len(parts)-1]
	if idx := strings.IndexAny(filename, "?#"); idx > 0 {
		filename = filename[:idx]
	}
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		filename = filename[:idx]
	}
	if filename != "" {
		return filename
	}
	return "Unknown"
}

// handleError calls the OnError callback if set.
func (p *Parser) handleError(lineNum int, err error) {
	if p.OnError != nil {
		p.OnError(lineNum, err)
	}
}
