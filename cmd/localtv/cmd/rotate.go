package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/localtv/internal/models"
	"github.com/jmylchreest/localtv/internal/playlist"
	"github.com/jmylchreest/localtv/internal/rotation"
	"github.com/jmylchreest/localtv/internal/service"
)

var (
	rotateCount int
	rotateSeed  uint64
	rotateOut   string
)

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Print the next items the channel would play",
	Long: `Load the configured playlists, dispense items the way the channel does
and print them, or write them as an M3U playlist with --out.

Ads are interleaved when an ads playlist is given and ads are enabled
(ads.enabled in the config, or implied by --ads).`,
	Args: cobra.NoArgs,
	RunE: runRotate,
}

func init() {
	rotateCmd.Flags().IntVarP(&rotateCount, "count", "n", 10, "number of items to dispense")
	rotateCmd.Flags().Uint64Var(&rotateSeed, "seed", 0, "shuffle seed for reproducible output (0 picks a random seed)")
	rotateCmd.Flags().StringVarP(&rotateOut, "out", "o", "", "write the items to this M3U file instead of printing them")
	rotateCmd.Flags().StringSlice("playlist", nil, "programme playlist (repeatable; overrides rotation.playlists)")
	rotateCmd.Flags().StringSlice("ads", nil, "ads playlist (repeatable; overrides rotation.ads_playlists)")
	rotateCmd.Flags().Int("ad-frequency", 0, "programmes between ad breaks (overrides ads.frequency)")
	rootCmd.AddCommand(rotateCmd)
}

func runRotate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()
	flags := cmd.Flags()

	rot := appConfig.Rotation
	ads := appConfig.Ads
	overrideStrings(flags, "playlist", &rot.Playlists)
	overrideStrings(flags, "ads", &rot.AdsPlaylists)
	overrideInt(flags, "ad-frequency", &ads.Frequency)
	if flags.Changed("ads") {
		ads.Enabled = true
	}
	if len(rot.Playlists) == 0 {
		return fmt.Errorf("no playlists: pass --playlist or set rotation.playlists")
	}
	if rotateCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	rng := rotation.NewRand()
	if rotateSeed != 0 {
		rng = rotation.NewSeededRand(rotateSeed)
	}
	channel := service.NewChannelService(playlist.NewLoader(logger), rng).WithLogger(logger)
	channel.ConfigureAds(rotation.AdConfig{
		Enabled:     ads.Enabled,
		Frequency:   ads.Frequency,
		MinPerBreak: ads.MinPerBreak,
		MaxPerBreak: ads.MaxPerBreak,
	})

	if _, err := channel.LoadPlaylists(ctx, rot.Playlists); err != nil {
		return err
	}
	if len(rot.AdsPlaylists) > 0 {
		if _, err := channel.LoadAds(ctx, rot.AdsPlaylists); err != nil {
			return err
		}
	}

	items := make([]models.MediaItem, 0, rotateCount)
	for range rotateCount {
		slot, err := channel.Next(ctx)
		if err != nil {
			return err
		}
		item := slot.Item
		item.Ad = slot.Ad
		items = append(items, item)
	}

	if rotateOut != "" {
		return writeRotation(rotateOut, items)
	}
	printRotation(cmd.OutOrStdout(), items)
	return nil
}

func writeRotation(path string, items []models.MediaItem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := playlist.Write(f, items); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func printRotation(out io.Writer, items []models.MediaItem) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tTITLE\tURI")
	for i, item := range items {
		kind := "programme"
		if item.Ad {
			kind = "ad"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, kind, item.Title, item.URI)
	}
	_ = tw.Flush()
}
