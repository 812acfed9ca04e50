package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/localtv/internal/mkv"
	"github.com/jmylchreest/localtv/internal/observability"
)

// TracksHandler probes uploaded file headers for their tracks.
type TracksHandler struct {
	prober  *mkv.Prober
	maxBody int64
}

// NewTracksHandler creates a tracks handler. maxBody caps the request body;
// zero leaves huma's default in place.
func NewTracksHandler(prober *mkv.Prober, maxBody int64) *TracksHandler {
	return &TracksHandler{
		prober:  prober,
		maxBody: maxBody,
	}
}

// Register registers the track routes with the API.
func (h *TracksHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:  "probeTracks",
		Method:       "POST",
		Path:         "/api/v1/tracks/probe",
		Summary:      "Probe tracks",
		Description:  "Reads the leading bytes of a Matroska or WebM file and returns its audio and subtitle tracks",
		Tags:         []string{"Tracks"},
		MaxBodyBytes: h.maxBody,
	}, h.Probe)
}

// ProbeInput carries the leading bytes of a file.
type ProbeInput struct {
	RawBody []byte `contentType:"application/octet-stream"`
}

// ProbeOutput is the output of a track probe.
type ProbeOutput struct {
	Body ProbeResponse
}

// Probe classifies the tracks found in the request body.
func (h *TracksHandler) Probe(ctx context.Context, input *ProbeInput) (*ProbeOutput, error) {
	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("request body must hold the leading bytes of a file")
	}

	result, err := h.prober.ProbeBytes(ctx, input.RawBody)
	if err != nil {
		logger := observability.WithError(observability.LoggerFromContext(ctx), err)
		if errors.Is(err, mkv.ErrNotMatroska) {
			logger.DebugContext(ctx, "rejected probe body", slog.Int("bytes", len(input.RawBody)))
			return nil, huma.Error422UnprocessableEntity("body is not a Matroska or WebM file", err)
		}
		logger.ErrorContext(ctx, "track probe failed")
		return nil, huma.Error500InternalServerError("failed to probe tracks", err)
	}

	return &ProbeOutput{Body: ProbeResponseFromResult(result)}, nil
}
