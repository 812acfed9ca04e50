package mkv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jmylchreest/localtv/internal/observability"
	"github.com/jmylchreest/localtv/pkg/ebml"
)

// DefaultHeaderSize is how many leading bytes are read when no size is
// configured. Track lists sit well inside the first couple of megabytes.
const DefaultHeaderSize = 2 * 1024 * 1024

// ErrNotMatroska is returned when the input does not start with an EBML header.
var ErrNotMatroska = errors.New("not a matroska file")

// ProbeResult is the outcome of probing one file.
type ProbeResult struct {
	// DocType is "matroska" or "webm", empty when the header omits it.
	DocType string `json:"doc_type,omitempty"`
	// HeaderBytes is how many bytes were examined.
	HeaderBytes int     `json:"header_bytes"`
	Tracks      []Track `json:"tracks"`
	Classification
}

// Prober reads the leading bytes of media files and reports their tracks.
type Prober struct {
	headerSize int64
	logger     *slog.Logger
}

// NewProber creates a prober reading at most headerSize bytes per file.
func NewProber(headerSize int64, logger *slog.Logger) *Prober {
	if headerSize <= 0 {
		headerSize = DefaultHeaderSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		headerSize: headerSize,
		logger:     observability.WithComponent(logger, "prober"),
	}
}

// HeaderSize returns the number of leading bytes read per file.
func (p *Prober) HeaderSize() int64 {
	return p.headerSize
}

// ProbeFile opens path and probes it.
func (p *Prober) ProbeFile(ctx context.Context, path string) (*ProbeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	result, err := p.Probe(ctx, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}
	return result, nil
}

// Probe reads min(header size, size) leading bytes from r and probes them.
func (p *Prober) Probe(ctx context.Context, r io.ReaderAt, size int64) (*ProbeResult, error) {
	n := min(p.headerSize, size)
	if n < 0 {
		n = 0
	}
	buf := make([]byte, n)
	read, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	return p.ProbeBytes(ctx, buf[:read])
}

// ProbeBytes probes an in-memory file prefix. Anything beyond the prober's
// header size is ignored.
func (p *Prober) ProbeBytes(ctx context.Context, buf []byte) (*ProbeResult, error) {
	if int64(len(buf)) > p.headerSize {
		buf = buf[:p.headerSize]
	}
	if !ebml.HasSignature(buf) {
		return nil, ErrNotMatroska
	}

	tracks := ExtractTracks(buf)
	if tracks == nil {
		tracks = []Track{}
	}
	result := &ProbeResult{
		DocType:        ebml.DocType(buf),
		HeaderBytes:    len(buf),
		Tracks:         tracks,
		Classification: Classify(tracks),
	}

	observability.WithOperation(p.logger, "probe").DebugContext(ctx, "probed matroska header",
		slog.String("doc_type", result.DocType),
		slog.Int("header_bytes", result.HeaderBytes),
		slog.Int("tracks", len(result.Tracks)),
		slog.Int("audio", len(result.Audio)),
		slog.Int("subtitles", len(result.Subtitles)),
	)
	return result, nil
}
