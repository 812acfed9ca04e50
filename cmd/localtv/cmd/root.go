// Package cmd implements the CLI commands for localtv.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/localtv/internal/config"
	"github.com/jmylchreest/localtv/internal/observability"
	"github.com/jmylchreest/localtv/internal/version"
)

var (
	// cfgFile holds the config file path from CLI flag.
	cfgFile string
	// appConfig is loaded before any subcommand runs.
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "localtv",
	Short:   "Local TV channel from your media playlists",
	Version: version.Short(),
	Long: `localtv turns M3U playlists of local media into a continuous channel.

Programmes rotate in shuffled rounds without repeats, ad breaks are
interleaved at a configurable cadence, and Matroska/WebM files can be
probed for their audio and subtitle tracks.`,
	SilenceUsage: true,
	// PersistentPreRunE is set in init() to avoid initialization cycle
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	// initLogging reads rootCmd.PersistentFlags, so the hook is set here.
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogging()
	}

	// Log flags are not bound to viper; they override config and env only
	// when explicitly set.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./config.yaml, ./configs, /etc/localtv, $HOME/.localtv)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// initConfig loads the configuration file and LOCALTV_ environment variables.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg
	return nil
}

// initLogging configures the default slog logger.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format) when explicitly provided
//  2. Environment variables (LOCALTV_LOGGING_LEVEL, LOCALTV_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, json)
func initLogging() error {
	logCfg := appConfig.Logging
	flags := rootCmd.PersistentFlags()
	overrideString(flags, "log-level", &logCfg.Level)
	overrideString(flags, "log-format", &logCfg.Format)

	logCfg.Level = strings.ToLower(logCfg.Level)
	logCfg.Format = strings.ToLower(logCfg.Format)
	if logCfg.Level == "warning" {
		logCfg.Level = "warn"
	}

	logger := observability.NewLoggerWithWriter(logCfg, os.Stderr)
	observability.SetDefault(logger)
	appConfig.Logging = logCfg
	return nil
}

// overrideString copies a flag's value into dst when the user set it.
func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if !flags.Changed(name) {
		return
	}
	if v, err := flags.GetString(name); err == nil {
		*dst = v
	}
}

// overrideStrings copies a string slice flag into dst when the user set it.
func overrideStrings(flags *pflag.FlagSet, name string, dst *[]string) {
	if !flags.Changed(name) {
		return
	}
	if v, err := flags.GetStringSlice(name); err == nil {
		*dst = v
	}
}

// overrideInt copies an int flag into dst when the user set it.
func overrideInt(flags *pflag.FlagSet, name string, dst *int) {
	if !flags.Changed(name) {
		return
	}
	if v, err := flags.GetInt(name); err == nil {
		*dst = v
	}
}
