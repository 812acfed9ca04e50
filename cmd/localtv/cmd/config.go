package cmd

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/localtv/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing localtv configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration in YAML format.

Without a config file this shows every option with its default value.
Redirect the output to create a configuration template:

  localtv config dump > config.yaml

Configuration can be set via:
  - Config file (config.yaml in ., ./configs, /etc/localtv, $HOME/.localtv)
  - Environment variables (LOCALTV_SERVER_PORT, LOCALTV_ADS_ENABLED, etc.)
  - Command-line flags (for some options)

Environment variables use the LOCALTV_ prefix and underscores for nesting.
Example: server.port -> LOCALTV_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

// toMap converts a config struct to a map keyed by mapstructure tags,
// formatting durations and byte sizes the way they are written in files.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		key := fieldType.Tag.Get("mapstructure")
		if key == "" {
			key = fieldType.Name
		}

		switch fv := field.Interface().(type) {
		case time.Duration:
			result[key] = fv.String()
		case config.ByteSize:
			result[key] = fv.String()
		default:
			if field.Kind() == reflect.Struct {
				result[key] = toMap(fv)
			} else {
				result[key] = fv
			}
		}
	}
	return result
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	yamlData, err := yaml.Marshal(toMap(appConfig))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# localtv configuration")
	fmt.Fprintln(out, "#")
	fmt.Fprintln(out, "# Duration format: 30s, 5m, 1h")
	fmt.Fprintln(out, "# Size format: 512KiB, 2MiB")
	fmt.Fprintln(out, "# reload_cron: 5-field cron or a descriptor such as @hourly")
	fmt.Fprintln(out, "#")
	fmt.Fprintln(out)
	fmt.Fprint(out, string(yamlData))

	return nil
}
