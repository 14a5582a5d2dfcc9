package interval

import (
	"sort"
	"strconv"
	"strings"

	"github.com/baikal/iotrace/internal/trace"
)

// Warner receives non-fatal diagnostics during a build pass.
type Warner interface {
	Warn(format string, args ...interface{})
}

// posixIgnoreFuncs excludes records from the POSIX pass: MPI and HDF5
// library calls are counted at their own layer, writev has its byte count
// in a different argument slot.
var posixIgnoreFuncs = []string{"MPI", "H5", "writev"}

// posixIgnoreData excludes buffered/vectored variants from the data
// branches; their byte counts live at other argument positions.
var posixIgnoreData = []string{"fwrite", "fread", "writev", "readv", "fprintf"}

var ignorePrefixes = []string{"/sys/", "/proc", "/etc/"}
var ignoreExact = []string{"stdout", "stderr", "stdin"}
var ignoreParts = []string{".locktest", "_cid-", "pipe:"}

// ignoreFile reports whether a filename is outside the report's scope
// (pseudo files, standard streams, lock/communicator artifacts).
func ignoreFile(filename string) bool {
	if filename == "" {
		return true
	}
	for _, prefix := range ignorePrefixes {
		if strings.HasPrefix(filename, prefix) {
			return true
		}
	}
	for _, exact := range ignoreExact {
		if filename == exact {
			return true
		}
	}
	for _, part := range ignoreParts {
		if strings.Contains(filename, part) {
			return true
		}
	}
	return false
}

// Builder turns one layer's records into per-file typed intervals.
type Builder struct {
	reader   trace.Reader
	sizeOf   func(name string) uint64
	progress Warner
}

// NewBuilder creates a Builder. sizeOf maps an MPI datatype name (without
// the MPI_ prefix) to its element size in bytes, returning 0 for unknown
// types.
func NewBuilder(reader trace.Reader, sizeOf func(string) uint64, progress Warner) *Builder {
	return &Builder{reader: reader, sizeOf: sizeOf, progress: progress}
}

// Build runs one pass over the trace for the given layer and returns the
// per-file interval lists, globally ordered by Tstart. Records that cannot
// be processed are dropped and counted; the pass never fails.
func (b *Builder) Build(layer Layer) (FileIntervals, Stats) {
	funcs := b.reader.Funcs()
	var stats Stats

	// Flatten all ranks into one list, stamping each record with its rank,
	// then order globally by start time (ties by rank).
	var records []trace.Record
	for rank := 0; rank < b.reader.TotalRanks(); rank++ {
		for _, rec := range b.reader.Records(rank) {
			rec.Rank = uint32(rank)

			// user-instrumented functions have no table entry
			if int(rec.FuncID) >= len(funcs) {
				continue
			}
			if includeFunc(funcs[rec.FuncID], layer) {
				records = append(records, rec)
			}
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Tstart != records[j].Tstart {
			return records[i].Tstart < records[j].Tstart
		}
		return records[i].Rank < records[j].Rank
	})

	// MPI-IO refers to files through shortened handles returned by
	// MPI_File_open. The table lives for this one pass only.
	handles := make(map[string]string)

	intervals := make(FileIntervals)
	for _, rec := range records {
		name := funcs[rec.FuncID]

		if rec.Tstart > rec.Tend {
			stats.BadTimestamps++
			b.progress.Warn("dropping %s on rank %d: tstart %.9f after tend %.9f", name, rec.Rank, rec.Tstart, rec.Tend)
			continue
		}

		filename, ok := b.resolveFilename(layer, name, rec.Args, handles, &stats)
		if !ok {
			continue
		}
		if ignoreFile(filename) {
			stats.IgnoredFiles++
			continue
		}

		var iv Interval
		switch layer {
		case LayerPOSIX:
			iv, ok = b.classifyPOSIX(name, rec.Args, &stats)
		case LayerMPIIO:
			iv, ok = b.classifyMPIIO(name, rec.Args, &stats)
		}
		if !ok {
			continue
		}

		iv.Rank = rec.Rank
		iv.Tstart = rec.Tstart
		iv.Tend = rec.Tend
		intervals[filename] = append(intervals[filename], iv)
		stats.Kept++
	}
	return intervals, stats
}

// includeFunc applies the layer filter to a function name.
func includeFunc(name string, layer Layer) bool {
	switch layer {
	case LayerPOSIX:
		for _, part := range posixIgnoreFuncs {
			if strings.Contains(name, part) {
				return false
			}
		}
		return true
	case LayerMPIIO:
		return strings.Contains(name, "MPI")
	}
	return false
}

// resolveFilename determines which file a record refers to. POSIX records
// name the file directly; MPI-IO records go through the handle table,
// which MPI_File_open populates.
func (b *Builder) resolveFilename(layer Layer, name string, args []string, handles map[string]string, stats *Stats) (string, bool) {
	if layer == LayerPOSIX {
		if len(args) < 1 {
			stats.MalformedArgs++
			b.progress.Warn("dropping %s: no filename argument", name)
			return "", false
		}
		return args[0], true
	}

	if name == "MPI_File_open" {
		if len(args) < 5 {
			stats.MalformedArgs++
			b.progress.Warn("dropping %s: %d args, need 5", name, len(args))
			return "", false
		}
		handles[args[4]] = args[1]
		return args[1], true
	}
	if len(args) < 1 {
		stats.MalformedArgs++
		b.progress.Warn("dropping %s: no handle argument", name)
		return "", false
	}
	filename, ok := handles[args[0]]
	if !ok {
		stats.UnknownHandles++
		b.progress.Warn("dropping %s: unknown file handle %q", name, args[0])
		return "", false
	}
	return filename, true
}

// classifyPOSIX maps a POSIX function name to an op and byte count by
// substring convention. The data branches read the requested size from
// the third argument.
func (b *Builder) classifyPOSIX(name string, args []string, stats *Stats) (Interval, bool) {
	isData := func() bool {
		for _, part := range posixIgnoreData {
			if strings.Contains(name, part) {
				return false
			}
		}
		return true
	}

	switch {
	case (strings.Contains(name, "write") || strings.Contains(name, "pwrite")) && isData():
		bytes, ok := b.parseBytes(name, args, 2, stats)
		return Interval{Op: OpWrite, Bytes: bytes}, ok
	case (strings.Contains(name, "read") || strings.Contains(name, "pread")) && isData():
		bytes, ok := b.parseBytes(name, args, 2, stats)
		return Interval{Op: OpRead, Bytes: bytes}, ok
	case strings.Contains(name, "open"):
		return Interval{Op: OpOpen}, true
	case strings.Contains(name, "close"):
		return Interval{Op: OpClose}, true
	case strings.Contains(name, "seek"):
		return Interval{Op: OpSeek}, true
	case strings.Contains(name, "sync"):
		return Interval{Op: OpSync}, true
	case strings.Contains(name, "ftruncate"):
		return Interval{Op: OpFtruncate}, true
	case strings.Contains(name, "fcntl"):
		return Interval{Op: OpFcntl}, true
	}
	stats.Unclassified++
	return Interval{}, false
}

// classifyMPIIO maps an MPI-IO function name to an op and byte count.
// Data calls carry (count, datatype); the _at variants shift both one
// argument to the right to make room for the offset.
func (b *Builder) classifyMPIIO(name string, args []string, stats *Stats) (Interval, bool) {
	dataBytes := func() (uint64, bool) {
		countIdx, typeIdx := 2, 3
		if strings.Contains(name, "at") {
			countIdx, typeIdx = 3, 4
		}
		if len(args) <= typeIdx {
			stats.MalformedArgs++
			b.progress.Warn("dropping %s: %d args, need %d", name, len(args), typeIdx+1)
			return 0, false
		}
		count, err := strconv.ParseUint(args[countIdx], 10, 64)
		if err != nil {
			stats.MalformedArgs++
			b.progress.Warn("dropping %s: element count %q: %v", name, args[countIdx], err)
			return 0, false
		}
		return count * b.sizeOf(strings.TrimPrefix(args[typeIdx], "MPI_")), true
	}

	switch {
	case strings.Contains(name, "write"):
		bytes, ok := dataBytes()
		return Interval{Op: OpWrite, Bytes: bytes}, ok
	case strings.Contains(name, "read"):
		bytes, ok := dataBytes()
		return Interval{Op: OpRead, Bytes: bytes}, ok
	case strings.Contains(name, "open"):
		return Interval{Op: OpOpen}, true
	case strings.Contains(name, "close"):
		return Interval{Op: OpClose}, true
	case strings.Contains(name, "set_size"):
		return Interval{Op: OpSetSize}, true
	}
	stats.Unclassified++
	return Interval{}, false
}

// parseBytes reads a byte count from args[idx].
func (b *Builder) parseBytes(name string, args []string, idx int, stats *Stats) (uint64, bool) {
	if len(args) <= idx {
		stats.MalformedArgs++
		b.progress.Warn("dropping %s: %d args, need %d", name, len(args), idx+1)
		return 0, false
	}
	bytes, err := strconv.ParseUint(args[idx], 10, 64)
	if err != nil {
		stats.MalformedArgs++
		b.progress.Warn("dropping %s: byte count %q: %v", name, args[idx], err)
		return 0, false
	}
	return bytes, true
}
