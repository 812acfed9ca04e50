package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	internalhttp "github.com/jmylchreest/localtv/internal/http"
	"github.com/jmylchreest/localtv/internal/http/handlers"
	"github.com/jmylchreest/localtv/internal/mkv"
	"github.com/jmylchreest/localtv/internal/observability"
	"github.com/jmylchreest/localtv/internal/playlist"
	"github.com/jmylchreest/localtv/internal/rotation"
	"github.com/jmylchreest/localtv/internal/scheduler"
	"github.com/jmylchreest/localtv/internal/service"
	"github.com/jmylchreest/localtv/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the localtv server",
	Long: `Start the localtv HTTP server and API.

The server provides:
- Channel control: next, previous, ad configuration, reload
- Track probing for Matroska/WebM file headers
- Health, liveness and readiness endpoints
- OpenAPI documentation at /docs`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "host to bind to (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().StringSlice("playlist", nil, "programme playlist (repeatable; overrides rotation.playlists)")
	serveCmd.Flags().StringSlice("ads", nil, "ads playlist (repeatable; overrides rotation.ads_playlists)")
	serveCmd.Flags().String("reload-cron", "", "cron expression for reloading playlists (overrides rotation.reload_cron)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	flags := cmd.Flags()
	overrideString(flags, "host", &cfg.Server.Host)
	overrideInt(flags, "port", &cfg.Server.Port)
	overrideStrings(flags, "playlist", &cfg.Rotation.Playlists)
	overrideStrings(flags, "ads", &cfg.Rotation.AdsPlaylists)
	overrideString(flags, "reload-cron", &cfg.Rotation.ReloadCron)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	channel := service.NewChannelService(playlist.NewLoader(logger), rotation.NewRand()).WithLogger(logger)
	channel.ConfigureAds(rotation.AdConfig{
		Enabled:     cfg.Ads.Enabled,
		Frequency:   cfg.Ads.Frequency,
		MinPerBreak: cfg.Ads.MinPerBreak,
		MaxPerBreak: cfg.Ads.MaxPerBreak,
	})
	channel.SetSources(cfg.Rotation.Playlists, cfg.Rotation.AdsPlaylists)
	if len(cfg.Rotation.Playlists) > 0 {
		if _, err := channel.Reload(ctx); err != nil {
			// The server still starts; a later reload can fill the channel.
			observability.WithError(logger, err).WarnContext(ctx, "initial playlist load failed")
		}
	}

	if cfg.Rotation.ReloadCron != "" {
		reloader, err := newReloader(cfg.Rotation.ReloadCron, channel, logger)
		if err != nil {
			return err
		}
		if err := reloader.Start(ctx); err != nil {
			return fmt.Errorf("starting reload scheduler: %w", err)
		}
		defer reloader.Stop()
	}

	prober := mkv.NewProber(cfg.Probe.HeaderSize.Bytes(), logger)

	server := internalhttp.NewServer(internalhttp.ServerConfigFrom(cfg.Server), logger, version.Version)
	api := server.API()
	handlers.NewHealthHandler(version.Version).WithChannel(channel.Status).Register(api)
	handlers.NewChannelHandler(channel).Register(api)
	handlers.NewTracksHandler(prober, cfg.Probe.MaxHeaderSize.Bytes()).Register(api)

	logger.InfoContext(ctx, "localtv ready",
		slog.String("version", version.Version),
		slog.String("address", cfg.Server.Address()),
		slog.Int("playlists", len(cfg.Rotation.Playlists)),
		slog.Int("ads_playlists", len(cfg.Rotation.AdsPlaylists)),
		slog.Bool("ads_enabled", cfg.Ads.Enabled),
	)

	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// newReloader schedules periodic playlist reloads into the channel.
func newReloader(expr string, channel *service.ChannelService, logger *slog.Logger) (*scheduler.Scheduler, error) {
	reloadLogger := observability.WithComponent(logger, "reloader")
	job := func(ctx context.Context) (err error) {
		done := observability.TimedOperationWithError(ctx, reloadLogger, "reload_playlists", &err)
		defer done()
		st, err := channel.Reload(ctx)
		if err != nil {
			return err
		}
		reloadLogger.InfoContext(ctx, "channel reloaded",
			slog.Int("items", st.Items),
			slog.Int("ads", st.Ads),
		)
		return nil
	}

	s, err := scheduler.New(expr, job)
	if err != nil {
		return nil, fmt.Errorf("reload schedule: %w", err)
	}
	return s.WithLogger(reloadLogger), nil
}
