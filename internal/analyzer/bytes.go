package analyzer

import "github.com/baikal/iotrace/internal/interval"

// sumBytes totals the write and read byte counts of one layer's
// intervals for one file.
func sumBytes(ivs []interval.Interval) (write, read uint64) {
	for _, iv := range ivs {
		switch iv.Op {
		case interval.OpWrite:
			write += iv.Bytes
		case interval.OpRead:
			read += iv.Bytes
		}
	}
	return write, read
}

// reconcileBytes picks the per-file byte total from the two layer counts.
// Both layers see the same user data through different APIs; the larger
// count wins.
func reconcileBytes(posix, mpiio uint64) uint64 {
	if posix > mpiio {
		return posix
	}
	return mpiio
}
