package analyzer

import (
	"fmt"

	"github.com/baikal/iotrace/internal/interval"
)

// perRankTimes sums data-interval durations per rank for one layer's
// intervals on one file. Summing within a rank avoids double-counting
// ranks that issue many small calls; the caller takes the max over ranks
// as the file's wall-clock op time.
//
// A rank outside [0, totalRanks) or a negative duration is an invariant
// breach: the builder can no longer have produced it, so it is a bug and
// aborts the analysis.
func perRankTimes(ivs []interval.Interval, totalRanks int) (writeTimes, readTimes []float64, err error) {
	writeTimes = make([]float64, totalRanks)
	readTimes = make([]float64, totalRanks)

	for _, iv := range ivs {
		if int(iv.Rank) >= totalRanks {
			return nil, nil, fmt.Errorf("interval %s [%.9f, %.9f]: rank %d out of range (total ranks %d)",
				iv.Op, iv.Tstart, iv.Tend, iv.Rank, totalRanks)
		}
		d := iv.Duration()
		if d < 0 {
			return nil, nil, fmt.Errorf("interval %s [%.9f, %.9f] on rank %d: negative duration",
				iv.Op, iv.Tstart, iv.Tend, iv.Rank)
		}
		switch iv.Op {
		case interval.OpWrite:
			writeTimes[iv.Rank] += d
		case interval.OpRead:
			readTimes[iv.Rank] += d
		}
	}
	return writeTimes, readTimes, nil
}

// maxOf returns the largest element, or 0 for an empty slice.
func maxOf(xs []float64) float64 {
	var max float64
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	return max
}
