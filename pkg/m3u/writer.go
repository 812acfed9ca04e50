package m3u

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Writer provides streaming M3U playlist writing.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

// NewWriter creates a new M3U writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the M3U header.
// This is automatically called by WriteEntry if not already written.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return nil
	}
	_, err := fmt.Fprintln(w.w, "#EXTM3U")
	if err != nil {
		return fmt.Errorf("writing M3U header: %w", err)
	}
	w.headerWritten = true
	return nil
}

// WriteEntry writes a single entry. Attributes are written in key order so
// output is stable.
func (w *Writer) WriteEntry(entry *Entry) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}

	var attrs []string
	if entry.GroupTitle != "" {
		attrs = append(attrs, fmt.Sprintf(`group-title="%s"`, escapeQuotes(entry.GroupTitle)))
	}
	keys := make([]string, 0, len(entry.Attrs))
	for k := range entry.Attrs {
		if k == "group-title" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, k, escapeQuotes(entry.Attrs[k])))
	}

	duration := entry.Duration
	if duration < -1 {
		duration = -1
	}

	var extinf string
	if len(attrs) > 0 {
		extinf = fmt.Sprintf("#EXTINF:%d %s,%s", duration, strings.Join(attrs, " "), entry.Title)
	} else {
		extinf = fmt.Sprintf("#EXTINF:%d,%s", duration, entry.Title)
	}

	if _, err := fmt.Fprintln(w.w, extinf); err != nil {
		return fmt.Errorf("writing EXTINF: %w", err)
	}

	if _, err := fmt.Fprintln(w.w, entry.URL); err != nil {
		return fmt.Errorf("writing URL: %w", err)
	}

	return nil
}

// escapeQuotes replaces double quotes, which cannot be escaped inside M3U
// attribute values, with single quotes.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `'`)
}
