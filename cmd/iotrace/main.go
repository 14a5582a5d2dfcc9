// iotrace — performance-metrics engine for HPC I/O traces.
//
// Post-processes a per-process trace of POSIX and MPI-IO calls and
// produces a per-file and global report of bytes transferred, elapsed
// time, and effective bandwidth under pure-data and end-to-end
// accounting.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baikal/iotrace/internal/analyzer"
	diffpkg "github.com/baikal/iotrace/internal/diff"
	"github.com/baikal/iotrace/internal/output"
)

var (
	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "iotrace",
		Short: "Performance-metrics engine for HPC I/O traces",
		Long: `iotrace — single Go binary for HPC I/O trace analysis.

Reduces a per-rank trace of POSIX and MPI-IO calls to per-file and
global metrics: bytes transferred, pure operation time, metadata-
inclusive end-to-end time, and effective bandwidth in MiB/s at both
interface layers.`,
		Version: version,
	}

	// --- analyze command ---
	var (
		analyzeInput   string
		analyzeOutput  string
		analyzeFormat  string
		analyzeWorkers int
		analyzeTopN    int
		analyzeQuiet   bool
		analyzeVerbose bool
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a trace and produce a metrics report",
		Long:  "Run the full interval-analysis pipeline over a trace file and write the per-file and global metrics report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := analyzer.DefaultConfig()
			cfg.Quiet = analyzeQuiet
			cfg.Verbose = analyzeVerbose
			if analyzeWorkers > 0 {
				cfg.Workers = analyzeWorkers
			}
			if analyzeTopN > 0 {
				cfg.TopFunctions = analyzeTopN
			}

			report, err := analyzer.BuildReport(analyzeInput, cfg)
			if err != nil {
				return err
			}

			switch analyzeFormat {
			case "json":
				return output.WriteJSON(report, analyzeOutput)
			case "text":
				return output.WriteText(report, analyzeOutput)
			default:
				return fmt.Errorf("unknown format %q (want json or text)", analyzeFormat)
			}
		},
	}

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Path to the trace file to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "-", "Output report path (- for stdout)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Report format: json, text")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Parallel per-file reductions (default: all CPUs)")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-functions", 10, "Functions in the elapsed-time ranking")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "Suppress progress output")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Enable debug logging")
	_ = analyzeCmd.MarkFlagRequired("input")

	// --- diff command ---
	var diffOutput string

	diffCmd := &cobra.Command{
		Use:   "diff <baseline.json> <current.json>",
		Short: "Compare two iotrace reports",
		Long:  "Produce a diff report showing bandwidth and time deltas between two analysis runs.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], diffOutput)
		},
	}
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "-", "Output diff file path")

	rootCmd.AddCommand(analyzeCmd, diffCmd, mcpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runDiff handles the `diff` command.
func runDiff(baselinePath, currentPath, outputPath string) error {
	baseline, err := diffpkg.LoadReport(baselinePath)
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	current, err := diffpkg.LoadReport(currentPath)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	result := diffpkg.Compare(baseline, current)

	if outputPath == "-" {
		// Print human-readable diff
		fmt.Print(diffpkg.FormatDiff(result))
	} else {
		// Write JSON diff
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(outputPath, data, 0644)
	}
	return nil
}
