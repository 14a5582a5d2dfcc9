package analyzer

import (
	"sort"

	"github.com/baikal/iotrace/internal/interval"
)

// metaSet is one rank's metadata intervals of a single op on a single
// file, ordered by Tstart, with a parallel start-time vector for
// binary search.
type metaSet struct {
	intervals []interval.Interval
	starts    []float64
}

func (s *metaSet) add(iv interval.Interval) {
	s.intervals = append(s.intervals, iv)
	s.starts = append(s.starts, iv.Tstart)
}

// lastBefore picks the latest interval ending before t. The bisection
// finds the largest Tstart <= t; the walk left enforces non-overlap via
// the strict Tend < t check. With startOnly, only the start time is
// tested (Tstart < t), which admits calls that enclose the data
// interval: fcntl can legitimately do that.
func (s *metaSet) lastBefore(t float64, startOnly bool) (interval.Interval, bool) {
	i := sort.Search(len(s.starts), func(j int) bool { return s.starts[j] > t }) - 1
	if startOnly {
		for i >= 0 && s.starts[i] >= t {
			i--
		}
	} else {
		for i >= 0 && s.intervals[i].Tend >= t {
			i--
		}
	}
	if i < 0 {
		return interval.Interval{}, false
	}
	return s.intervals[i], true
}

// firstAfter picks the earliest interval starting after bound.
func (s *metaSet) firstAfter(bound float64) (interval.Interval, bool) {
	i := sort.Search(len(s.starts), func(j int) bool { return s.starts[j] > bound })
	if i == len(s.starts) {
		return interval.Interval{}, false
	}
	return s.intervals[i], true
}

// rankIntervals partitions one rank's share of a file's intervals:
// data intervals by op, metadata intervals into searchable sets.
type rankIntervals struct {
	writes, reads []interval.Interval

	opens, closes, seeks, syncs, setSizes, ftruncates, fcntls metaSet
}

// partitionRanks splits a file's interval list (globally Tstart-ordered)
// per rank and per op. Order is preserved, so every metaSet stays sorted.
func partitionRanks(ivs []interval.Interval, totalRanks int) []rankIntervals {
	ranks := make([]rankIntervals, totalRanks)
	for _, iv := range ivs {
		r := &ranks[iv.Rank]
		switch iv.Op {
		case interval.OpWrite:
			r.writes = append(r.writes, iv)
		case interval.OpRead:
			r.reads = append(r.reads, iv)
		case interval.OpOpen:
			r.opens.add(iv)
		case interval.OpClose:
			r.closes.add(iv)
		case interval.OpSeek:
			r.seeks.add(iv)
		case interval.OpSync:
			r.syncs.add(iv)
		case interval.OpSetSize:
			r.setSizes.add(iv)
		case interval.OpFtruncate:
			r.ftruncates.add(iv)
		case interval.OpFcntl:
			r.fcntls.add(iv)
		}
	}
	return ranks
}

// buckets collects the metadata intervals attributed to one (rank, op)
// pass. Each interval appears at most once per bucket; a single interval
// may still land in the buckets of both the write and the read pass,
// which is legitimate.
type buckets struct {
	opens, closes, others []interval.Interval
}

func appendOnce(list []interval.Interval, iv interval.Interval) []interval.Interval {
	for _, have := range list {
		if have == iv {
			return list
		}
	}
	return append(list, iv)
}

func (b *buckets) addOpen(iv interval.Interval)  { b.opens = appendOnce(b.opens, iv) }
func (b *buckets) addClose(iv interval.Interval) { b.closes = appendOnce(b.closes, iv) }
func (b *buckets) addOther(iv interval.Interval) { b.others = appendOnce(b.others, iv) }

// total sums the durations of every attributed interval: open time plus
// close time plus the rest.
func (b *buckets) total() float64 {
	var sum float64
	for _, iv := range b.opens {
		sum += iv.Duration()
	}
	for _, iv := range b.closes {
		sum += iv.Duration()
	}
	for _, iv := range b.others {
		sum += iv.Duration()
	}
	return sum
}

// assignMeta attributes metadata intervals to one rank's data intervals
// of one op by temporal adjacency:
//
//   - the open, seek, and fcntl that last ended before the data call
//     (fcntl by start time only, since it can enclose the call);
//   - the close that first starts after the data call ends, and the
//     fcntl that first starts after the data call starts;
//   - for writes, the sync that first starts after it, and any
//     size-change (set_size, ftruncate) adjacent on either side. A
//     size-change forms its own micro-phase, so its bracketing open and
//     close are pulled in with it.
func assignMeta(data []interval.Interval, r *rankIntervals, isWrite bool) buckets {
	var b buckets
	for _, d := range data {
		if m, ok := r.opens.lastBefore(d.Tstart, false); ok {
			b.addOpen(m)
		}
		if m, ok := r.seeks.lastBefore(d.Tstart, false); ok {
			b.addOther(m)
		}
		if m, ok := r.fcntls.lastBefore(d.Tstart, true); ok {
			b.addOther(m)
		}
		if m, ok := r.closes.firstAfter(d.Tend); ok {
			b.addClose(m)
		}
		if m, ok := r.fcntls.firstAfter(d.Tstart); ok {
			b.addOther(m)
		}
		if !isWrite {
			continue
		}
		if m, ok := r.syncs.firstAfter(d.Tend); ok {
			b.addOther(m)
		}
		for _, sizes := range []*metaSet{&r.setSizes, &r.ftruncates} {
			if m, ok := sizes.lastBefore(d.Tstart, false); ok {
				assignSizeChange(&b, r, m)
			}
			if m, ok := sizes.firstAfter(d.Tend); ok {
				assignSizeChange(&b, r, m)
			}
		}
	}
	return b
}

// assignSizeChange attributes a size-change interval together with the
// open and close that bracket its micro-phase.
func assignSizeChange(b *buckets, r *rankIntervals, m interval.Interval) {
	b.addOther(m)
	if o, ok := r.opens.lastBefore(m.Tstart, false); ok {
		b.addOpen(o)
	}
	if c, ok := r.closes.firstAfter(m.Tend); ok {
		b.addClose(c)
	}
}

// metaTimes computes, per rank, the attributed metadata time for one op
// over a file's partitioned intervals.
func metaTimes(ranks []rankIntervals, isWrite bool) []float64 {
	times := make([]float64, len(ranks))
	for i := range ranks {
		data := ranks[i].reads
		if isWrite {
			data = ranks[i].writes
		}
		if len(data) == 0 {
			continue
		}
		b := assignMeta(data, &ranks[i], isWrite)
		times[i] = b.total()
	}
	return times
}
