// Package analyzer runs the full reduction over a trace: interval
// building at both layers, per-file byte accounting, pure-time and
// end-to-end bandwidth, and the global aggregation.
package analyzer

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baikal/iotrace/internal/interval"
	"github.com/baikal/iotrace/internal/model"
	"github.com/baikal/iotrace/internal/mpitypes"
	"github.com/baikal/iotrace/internal/output"
	"github.com/baikal/iotrace/internal/trace"
)

const (
	toolName      = "iotrace"
	toolVersion   = "0.1.0"
	schemaVersion = "1.0.0"
)

// Config controls one analysis run.
type Config struct {
	// TracePath is recorded in the report metadata.
	TracePath string

	// Workers bounds the per-file reductions running concurrently.
	// Files are independent, so the reduction shards by filename.
	Workers int

	// TopFunctions is the length of the function-time ranking in the
	// summary.
	TopFunctions int

	// Quiet suppresses progress output.
	Quiet bool

	// Verbose enables debug logging.
	Verbose bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.NumCPU(),
		TopFunctions: 10,
	}
}

// Analyzer drives the pipeline over one trace and produces a Report.
type Analyzer struct {
	reader   trace.Reader
	cfg      Config
	progress *output.Progress
}

// New creates an Analyzer for the given trace and config.
func New(reader trace.Reader, cfg Config) *Analyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Analyzer{
		reader:   reader,
		cfg:      cfg,
		progress: output.NewVerboseProgress(!cfg.Quiet, cfg.Verbose),
	}
}

// Run executes the pipeline to completion. An empty trace produces an
// all-zero report; an invariant breach in the interval data aborts with
// an error naming the offending interval.
func (a *Analyzer) Run() (*model.Report, error) {
	start := time.Now()
	totalRanks := a.reader.TotalRanks()
	a.progress.Log("Starting analysis: ranks=%d, workers=%d", totalRanks, a.cfg.Workers)

	builder := interval.NewBuilder(a.reader, mpitypes.SizeOf, a.progress)

	posix, posixStats := builder.Build(interval.LayerPOSIX)
	a.progress.Log("  [posix] %d intervals across %d files (%d records dropped)",
		posixStats.Kept, len(posix), posixStats.Dropped())

	mpiio, mpiioStats := builder.Build(interval.LayerMPIIO)
	a.progress.Log("  [mpiio] %d intervals across %d files (%d records dropped)",
		mpiioStats.Kept, len(mpiio), mpiioStats.Dropped())

	// Union of filenames seen at either layer, in stable order.
	names := make(map[string]struct{}, len(posix)+len(mpiio))
	for name := range posix {
		names[name] = struct{}{}
	}
	for name := range mpiio {
		names[name] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	// Per-file reduction, sharded by filename. Interval lists are
	// read-only here; only the result map is shared.
	var (
		mu    sync.Mutex
		files = make(map[string]*model.FileMetrics, len(sorted))
		g     errgroup.Group
	)
	g.SetLimit(a.cfg.Workers)
	for _, name := range sorted {
		posixIvs, mpiioIvs := posix[name], mpiio[name]
		g.Go(func() error {
			fm, err := fileMetrics(posixIvs, mpiioIvs, totalRanks)
			if err != nil {
				return fmt.Errorf("file %s: %w", name, err)
			}
			mu.Lock()
			files[name] = fm
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.Report{
		Files:   files,
		Global:  computeGlobals(files),
		Summary: computeSummary(a.reader, a.cfg.TopFunctions),
		Metadata: model.Metadata{
			Tool:          toolName,
			Version:       toolVersion,
			SchemaVersion: schemaVersion,
			TracePath:     a.cfg.TracePath,
			TotalRanks:    totalRanks,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Duration:      time.Since(start).Round(time.Microsecond).String(),
			POSIXRecords:  posixStats,
			MPIIORecords:  mpiioStats,
		},
	}

	a.progress.Log("Analysis complete: %d files, %d active, %s",
		len(files), len(report.ActiveFiles()), report.Metadata.Duration)
	return report, nil
}

// BuildReport loads a trace file and runs the full analysis.
// This is the high-level entry point used by the CLI and the MCP server.
func BuildReport(path string, cfg Config) (*model.Report, error) {
	reader, err := trace.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load trace: %w", err)
	}
	cfg.TracePath = path
	return New(reader, cfg).Run()
}
