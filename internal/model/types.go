// Package model defines all data types for the iotrace report output.
// These types are serialized to JSON and consumed by the renderers,
// the diff tool, and MCP clients.
// Schema version: 1.0.0
package model

import "github.com/baikal/iotrace/internal/interval"

// MiB is the bandwidth divisor: all bandwidths are MiB/s.
const MiB = 1024 * 1024

// --- Report: top-level output ---

// Report is the complete iotrace output document.
type Report struct {
	Metadata Metadata                `json:"metadata"`
	Files    map[string]*FileMetrics `json:"files"`
	Global   GlobalMetrics           `json:"global"`
	Summary  Summary                 `json:"summary"`
}

// Metadata identifies the analysis run.
type Metadata struct {
	Tool          string         `json:"tool"`
	Version       string         `json:"version"`
	SchemaVersion string         `json:"schema_version"`
	TracePath     string         `json:"trace_path,omitempty"`
	TotalRanks    int            `json:"total_ranks"`
	Timestamp     string         `json:"timestamp"`
	Duration      string         `json:"duration"`
	POSIXRecords  interval.Stats `json:"posix_records"`
	MPIIORecords  interval.Stats `json:"mpiio_records"`
}

// --- Per-file metrics ---

// LayerMetrics holds one layer's times and bandwidths for one operation
// on one file. MetaTime is the end-to-end time: pure op time plus the
// attributed metadata time.
type LayerMetrics struct {
	OpTime   float64 `json:"op_time"`
	MetaTime float64 `json:"meta_time"`
	PureBW   float64 `json:"pure_bw"`
	E2EBW    float64 `json:"e2e_bw"`
}

func (m LayerMetrics) zero() bool {
	return m.OpTime == 0 && m.MetaTime == 0 && m.PureBW == 0 && m.E2EBW == 0
}

// OpMetrics holds one operation's byte total and per-layer metrics for
// one file. Bytes is the larger of the two layer counts: both layers see
// the same user data through different APIs.
type OpMetrics struct {
	Bytes uint64       `json:"bytes"`
	POSIX LayerMetrics `json:"posix"`
	MPIIO LayerMetrics `json:"mpiio"`
}

func (m OpMetrics) zero() bool {
	return m.Bytes == 0 && m.POSIX.zero() && m.MPIIO.zero()
}

// Active reports whether the operation saw any measurable I/O on this file.
func (m OpMetrics) Active() bool { return !m.zero() }

// FileMetrics is the full per-file result.
type FileMetrics struct {
	Write OpMetrics `json:"write"`
	Read  OpMetrics `json:"read"`
}

// Active reports whether the file saw any measurable I/O. Zero-activity
// files are excluded from per-file reporting and global averages.
func (m *FileMetrics) Active() bool {
	return !m.Write.zero() || !m.Read.zero()
}

// --- Global metrics ---

// GlobalLayerMetrics aggregates one layer over all files for one
// operation. Agg bandwidths divide global bytes by the slowest file's
// time; Avg/Min/Max reduce the per-file bandwidths of active files.
type GlobalLayerMetrics struct {
	MaxOpTime   float64 `json:"max_op_time"`
	MaxMetaTime float64 `json:"max_meta_time"`
	AggPureBW   float64 `json:"agg_pure_bw"`
	AggE2EBW    float64 `json:"agg_e2e_bw"`
	AvgPureBW   float64 `json:"avg_pure_bw"`
	AvgE2EBW    float64 `json:"avg_e2e_bw"`
	MinPureBW   float64 `json:"min_pure_bw"`
	MaxPureBW   float64 `json:"max_pure_bw"`
	MinE2EBW    float64 `json:"min_e2e_bw"`
	MaxE2EBW    float64 `json:"max_e2e_bw"`
}

// GlobalOpMetrics aggregates one operation over all files.
type GlobalOpMetrics struct {
	TotalBytes uint64             `json:"total_bytes"`
	POSIX      GlobalLayerMetrics `json:"posix"`
	MPIIO      GlobalLayerMetrics `json:"mpiio"`
}

// GlobalMetrics is the trace-wide aggregate.
type GlobalMetrics struct {
	Write GlobalOpMetrics `json:"write"`
	Read  GlobalOpMetrics `json:"read"`
}

// --- Summary: trace-level context ---

// LayerCounts counts calls per instrumentation layer.
type LayerCounts struct {
	POSIX int `json:"posix"`
	MPI   int `json:"mpi"`
	HDF5  int `json:"hdf5"`
}

// FunctionTime is one function's total elapsed time across all ranks.
type FunctionTime struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`
}

// Summary carries trace-level context alongside the metrics.
type Summary struct {
	FunctionLayers LayerCounts    `json:"function_layers"`
	TopFunctions   []FunctionTime `json:"top_functions,omitempty"`
}
