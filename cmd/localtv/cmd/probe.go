package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/localtv/internal/mkv"
)

var probeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "List the audio and subtitle tracks of Matroska files",
	Long: `Read the leading bytes of each Matroska or WebM file and list its
selectable audio and subtitle tracks.

Only probe.header_size bytes are read per file. Files whose track list
sits beyond that point report no tracks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(probeCmd)
}

// probeReport is one file's entry in JSON output.
type probeReport struct {
	File   string           `json:"file"`
	Result *mkv.ProbeResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prober := mkv.NewProber(appConfig.Probe.HeaderSize.Bytes(), slog.Default())

	reports := make([]probeReport, 0, len(args))
	failed := 0
	for _, path := range args {
		report := probeReport{File: path}
		result, err := prober.ProbeFile(ctx, path)
		if err != nil {
			report.Error = err.Error()
			failed++
		} else {
			report.Result = result
		}
		reports = append(reports, report)
	}

	out := cmd.OutOrStdout()
	if probeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
	} else {
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(out)
			}
			writeProbeTable(out, r)
		}
	}

	if failed == len(args) {
		return fmt.Errorf("no file could be probed")
	}
	return nil
}

func writeProbeTable(out io.Writer, r probeReport) {
	if r.Error != "" {
		fmt.Fprintf(out, "%s: %s\n", r.File, r.Error)
		return
	}
	res := r.Result
	fmt.Fprintf(out, "%s (%s, %s examined)\n", r.File, docTypeOrUnknown(res.DocType), humanize.IBytes(uint64(res.HeaderBytes)))
	if res.Empty() {
		fmt.Fprintln(out, "  no audio or subtitle tracks found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  KIND\tINDEX\tTRACK\tLANG\tCODEC\tLABEL\tDEFAULT")
	rows := func(kind string, views []mkv.TrackView, def int) {
		for _, v := range views {
			mark := ""
			if v.Index == def {
				mark = "*"
			}
			fmt.Fprintf(tw, "  %s\t%d\t%d\t%s\t%s\t%s\t%s\n", kind, v.Index, v.TrackNumber, v.Language, v.Codec, v.Label, mark)
		}
	}
	rows("audio", res.Audio, res.DefaultAudio())
	rows("subtitle", res.Subtitles, res.DefaultSubtitle())
	_ = tw.Flush()
}

func docTypeOrUnknown(docType string) string {
	if docType == "" {
		return "unknown doctype"
	}
	return docType
}
