package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/localtv/internal/observability"
	"github.com/jmylchreest/localtv/internal/playlist"
	"github.com/jmylchreest/localtv/internal/service"
)

// ChannelHandler exposes the channel rotation. It logs through the
// request-scoped logger the logging middleware puts in the context.
type ChannelHandler struct {
	channel *service.ChannelService
}

// NewChannelHandler creates a new channel handler.
func NewChannelHandler(channel *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channel: channel}
}

// Register registers the channel routes with the API.
func (h *ChannelHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getChannel",
		Method:      "GET",
		Path:        "/api/v1/channel",
		Summary:     "Get channel status",
		Tags:        []string{"Channel"},
	}, h.GetStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getChannelItems",
		Method:      "GET",
		Path:        "/api/v1/channel/items",
		Summary:     "List channel items",
		Description: "Returns the loaded programmes in their current rotation order",
		Tags:        []string{"Channel"},
	}, h.ListItems)

	huma.Register(api, huma.Operation{
		OperationID: "getChannelPlaylist",
		Method:      "GET",
		Path:        "/api/v1/channel/playlist.m3u",
		Summary:     "Export channel playlist",
		Description: "Returns the loaded programmes as an M3U playlist",
		Tags:        []string{"Channel"},
	}, h.GetPlaylist)

	huma.Register(api, huma.Operation{
		OperationID: "nextChannelItem",
		Method:      "POST",
		Path:        "/api/v1/channel/next",
		Summary:     "Advance the channel",
		Description: "Returns the next item to play, which may be an ad",
		Tags:        []string{"Channel"},
	}, h.Next)

	huma.Register(api, huma.Operation{
		OperationID: "previousChannelItem",
		Method:      "POST",
		Path:        "/api/v1/channel/previous",
		Summary:     "Step back",
		Description: "Returns the programme played before the current one",
		Tags:        []string{"Channel"},
	}, h.Previous)

	huma.Register(api, huma.Operation{
		OperationID: "getChannelAds",
		Method:      "GET",
		Path:        "/api/v1/channel/ads",
		Summary:     "Get ad configuration",
		Tags:        []string{"Channel"},
	}, h.GetAds)

	huma.Register(api, huma.Operation{
		OperationID: "updateChannelAds",
		Method:      "PUT",
		Path:        "/api/v1/channel/ads",
		Summary:     "Update ad configuration",
		Description: "Out-of-range values are clamped; an ad break in progress keeps its ads",
		Tags:        []string{"Channel"},
	}, h.UpdateAds)

	huma.Register(api, huma.Operation{
		OperationID: "clearChannelAds",
		Method:      "DELETE",
		Path:        "/api/v1/channel/ads",
		Summary:     "Remove all ads",
		Tags:        []string{"Channel"},
	}, h.ClearAds)

	huma.Register(api, huma.Operation{
		OperationID: "reloadChannel",
		Method:      "POST",
		Path:        "/api/v1/channel/reload",
		Summary:     "Reload playlists",
		Description: "Re-reads the configured playlists",
		Tags:        []string{"Channel"},
	}, h.Reload)
}

// GetChannelInput is the input for getting the channel status.
type GetChannelInput struct{}

// GetChannelOutput is the output for getting the channel status.
type GetChannelOutput struct {
	Body ChannelStatusResponse
}

// GetStatus returns the channel status.
func (h *ChannelHandler) GetStatus(ctx context.Context, input *GetChannelInput) (*GetChannelOutput, error) {
	return &GetChannelOutput{Body: ChannelStatusFromService(h.channel.Status())}, nil
}

// ListItemsInput is the input for listing items.
type ListItemsInput struct{}

// ListItemsOutput is the output for listing items.
type ListItemsOutput struct {
	Body struct {
		Items []MediaItemResponse `json:"items"`
	}
}

// ListItems returns the programmes in rotation order.
func (h *ChannelHandler) ListItems(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	items := h.channel.Items()
	resp := &ListItemsOutput{}
	resp.Body.Items = make([]MediaItemResponse, len(items))
	for i := range items {
		resp.Body.Items[i] = MediaItemFromModel(&items[i])
	}
	return resp, nil
}

// GetPlaylistInput is the input for exporting the playlist.
type GetPlaylistInput struct{}

// GetPlaylistOutput is the output for exporting the playlist.
type GetPlaylistOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// GetPlaylist returns the programmes as M3U.
func (h *ChannelHandler) GetPlaylist(ctx context.Context, input *GetPlaylistInput) (*GetPlaylistOutput, error) {
	var buf bytes.Buffer
	if err := playlist.Write(&buf, h.channel.Items()); err != nil {
		return nil, huma.Error500InternalServerError("failed to write playlist", err)
	}
	return &GetPlaylistOutput{
		ContentType: "audio/x-mpegurl",
		Body:        buf.Bytes(),
	}, nil
}

// NextInput is the input for advancing the channel.
type NextInput struct{}

// NextOutput is the output for advancing the channel.
type NextOutput struct {
	Body MediaItemResponse
}

// Next advances the channel.
func (h *ChannelHandler) Next(ctx context.Context, input *NextInput) (*NextOutput, error) {
	slot, err := h.channel.Next(ctx)
	if err != nil {
		if errors.Is(err, service.ErrChannelEmpty) {
			return nil, huma.Error404NotFound("channel has no items; load a playlist first")
		}
		return nil, huma.Error500InternalServerError("failed to advance channel", err)
	}
	item := MediaItemFromModel(&slot.Item)
	item.Ad = slot.Ad
	return &NextOutput{Body: item}, nil
}

// PreviousInput is the input for stepping back.
type PreviousInput struct{}

// PreviousOutput is the output for stepping back.
type PreviousOutput struct {
	Body MediaItemResponse
}

// Previous steps back through the channel history.
func (h *ChannelHandler) Previous(ctx context.Context, input *PreviousInput) (*PreviousOutput, error) {
	item, err := h.channel.Previous(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoPrevious) {
			return nil, huma.Error404NotFound("no previous item")
		}
		return nil, huma.Error500InternalServerError("failed to step back", err)
	}
	return &PreviousOutput{Body: MediaItemFromModel(&item)}, nil
}

// GetAdsInput is the input for getting the ad configuration.
type GetAdsInput struct{}

// AdsOutput is the output of the ad configuration endpoints.
type AdsOutput struct {
	Body AdConfigBody
}

// GetAds returns the ad configuration.
func (h *ChannelHandler) GetAds(ctx context.Context, input *GetAdsInput) (*AdsOutput, error) {
	return &AdsOutput{Body: AdConfigFromRotation(h.channel.Status().AdConfig)}, nil
}

// UpdateAdsInput is the input for updating the ad configuration.
type UpdateAdsInput struct {
	Body AdConfigBody
}

// UpdateAds replaces the ad configuration.
func (h *ChannelHandler) UpdateAds(ctx context.Context, input *UpdateAdsInput) (*AdsOutput, error) {
	cfg := h.channel.ConfigureAds(input.Body.ToRotation())
	observability.LoggerFromContext(ctx).InfoContext(ctx, "updated ad configuration",
		slog.Bool("enabled", cfg.Enabled),
		slog.Int("frequency", cfg.Frequency),
		slog.Int("min_per_break", cfg.MinPerBreak),
		slog.Int("max_per_break", cfg.MaxPerBreak),
	)
	return &AdsOutput{Body: AdConfigFromRotation(cfg)}, nil
}

// ClearAdsInput is the input for removing all ads.
type ClearAdsInput struct{}

// ClearAdsOutput is the output for removing all ads.
type ClearAdsOutput struct{}

// ClearAds empties the ad pool.
func (h *ChannelHandler) ClearAds(ctx context.Context, input *ClearAdsInput) (*ClearAdsOutput, error) {
	h.channel.ClearAds()
	observability.LoggerFromContext(ctx).InfoContext(ctx, "cleared ad pool")
	return &ClearAdsOutput{}, nil
}

// ReloadInput is the input for reloading playlists.
type ReloadInput struct{}

// ReloadOutput is the output for reloading playlists.
type ReloadOutput struct {
	Body ChannelStatusResponse
}

// Reload re-reads the configured playlists.
func (h *ChannelHandler) Reload(ctx context.Context, input *ReloadInput) (*ReloadOutput, error) {
	st, err := h.channel.Reload(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoSources) {
			return nil, huma.Error409Conflict("no playlists configured", err)
		}
		observability.WithError(observability.LoggerFromContext(ctx), err).
			ErrorContext(ctx, "channel reload failed")
		return nil, huma.Error500InternalServerError("failed to reload playlists", err)
	}
	return &ReloadOutput{Body: ChannelStatusFromService(st)}, nil
}
