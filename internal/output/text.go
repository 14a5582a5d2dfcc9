package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/baikal/iotrace/internal/model"
)

// WriteText renders the report as aligned text tables.
// If path is "-" or empty, writes to stdout.
func WriteText(report *model.Report, path string) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, RenderText(report)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderText returns the report as human-readable text: metadata,
// per-file metrics for active files, global aggregates, and the
// function summary.
func RenderText(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString("=== I/O Performance Report ===\n")
	sb.WriteString(fmt.Sprintf("Trace:    %s\n", report.Metadata.TracePath))
	sb.WriteString(fmt.Sprintf("Ranks:    %d\n", report.Metadata.TotalRanks))
	sb.WriteString(fmt.Sprintf("Analyzed: %s (%s)\n\n", report.Metadata.Timestamp, report.Metadata.Duration))

	active := report.ActiveFiles()
	if len(active) == 0 {
		sb.WriteString("No file activity recorded.\n")
	} else {
		sb.WriteString("--- Per-file metrics ---\n")
		tw := tabwriter.NewWriter(&sb, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "file\top\tbytes\tlayer\top time (s)\te2e time (s)\tpure bw (MiB/s)\te2e bw (MiB/s)")
		for _, name := range active {
			fm := report.Files[name]
			writeFileRows(tw, name, "write", fm.Write)
			writeFileRows(tw, name, "read", fm.Read)
		}
		tw.Flush()
		sb.WriteString("\n")
	}

	sb.WriteString("--- Global metrics ---\n")
	tw := tabwriter.NewWriter(&sb, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "op\tlayer\ttotal bytes\tmax op time (s)\tmax e2e time (s)\tagg pure bw\tagg e2e bw\tavg pure bw\tavg e2e bw")
	writeGlobalRows(tw, "write", report.Global.Write)
	writeGlobalRows(tw, "read", report.Global.Read)
	tw.Flush()
	sb.WriteString("\n")

	layers := report.Summary.FunctionLayers
	sb.WriteString(fmt.Sprintf("Calls by layer: posix=%d mpi=%d hdf5=%d\n", layers.POSIX, layers.MPI, layers.HDF5))
	if len(report.Summary.TopFunctions) > 0 {
		sb.WriteString("Top functions by elapsed time:\n")
		for _, ft := range report.Summary.TopFunctions {
			sb.WriteString(fmt.Sprintf("  %-28s %.6fs\n", ft.Name, ft.Seconds))
		}
	}

	return sb.String()
}

func writeFileRows(tw *tabwriter.Writer, name, op string, m model.OpMetrics) {
	if !m.Active() {
		return
	}
	fmt.Fprintf(tw, "%s\t%s\t%d\tposix\t%.6f\t%.6f\t%.3f\t%.3f\n",
		name, op, m.Bytes, m.POSIX.OpTime, m.POSIX.MetaTime, m.POSIX.PureBW, m.POSIX.E2EBW)
	fmt.Fprintf(tw, "%s\t%s\t%d\tmpiio\t%.6f\t%.6f\t%.3f\t%.3f\n",
		name, op, m.Bytes, m.MPIIO.OpTime, m.MPIIO.MetaTime, m.MPIIO.PureBW, m.MPIIO.E2EBW)
}

func writeGlobalRows(tw *tabwriter.Writer, op string, g model.GlobalOpMetrics) {
	fmt.Fprintf(tw, "%s\tposix\t%d\t%.6f\t%.6f\t%.3f\t%.3f\t%.3f\t%.3f\n",
		op, g.TotalBytes, g.POSIX.MaxOpTime, g.POSIX.MaxMetaTime,
		g.POSIX.AggPureBW, g.POSIX.AggE2EBW, g.POSIX.AvgPureBW, g.POSIX.AvgE2EBW)
	fmt.Fprintf(tw, "%s\tmpiio\t%d\t%.6f\t%.6f\t%.3f\t%.3f\t%.3f\t%.3f\n",
		op, g.TotalBytes, g.MPIIO.MaxOpTime, g.MPIIO.MaxMetaTime,
		g.MPIIO.AggPureBW, g.MPIIO.AggE2EBW, g.MPIIO.AvgPureBW, g.MPIIO.AvgE2EBW)
}
