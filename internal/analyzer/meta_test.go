package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baikal/iotrace/internal/interval"
)

func set(ivs ...interval.Interval) metaSet {
	var s metaSet
	for _, iv := range ivs {
		s.add(iv)
	}
	return s
}

func meta(op interval.Op, tstart, tend float64) interval.Interval {
	return interval.Interval{Op: op, Tstart: tstart, Tend: tend}
}

func TestLastBefore(t *testing.T) {
	opens := set(
		meta(interval.OpOpen, 0.0, 0.1),
		meta(interval.OpOpen, 0.3, 0.4),
		meta(interval.OpOpen, 0.8, 0.9),
	)

	m, ok := opens.lastBefore(0.5, false)
	require.True(t, ok)
	require.Equal(t, 0.3, m.Tstart)

	// Nothing ends before the earliest start.
	_, ok = opens.lastBefore(0.0, false)
	require.False(t, ok)

	// An open still in flight at the data start is rejected; the walk
	// falls back to the previous one.
	overlapping := set(
		meta(interval.OpOpen, 0.0, 0.1),
		meta(interval.OpOpen, 0.3, 0.6),
	)
	m, ok = overlapping.lastBefore(0.5, false)
	require.True(t, ok)
	require.Equal(t, 0.0, m.Tstart)
}

func TestLastBeforeCoincidentTimestamps(t *testing.T) {
	// An open ending exactly at the data start fails the strict
	// Tend < Tstart check.
	opens := set(meta(interval.OpOpen, 0.0, 0.2))
	_, ok := opens.lastBefore(0.2, false)
	require.False(t, ok)

	// A touch earlier and it is admitted.
	_, ok = opens.lastBefore(0.2000001, false)
	require.True(t, ok)
}

func TestLastBeforeStartOnly(t *testing.T) {
	// fcntl can enclose the data call: only the start time is tested.
	fcntls := set(meta(interval.OpFcntl, 0.0, 0.5))

	m, ok := fcntls.lastBefore(0.1, true)
	require.True(t, ok)
	require.Equal(t, 0.5, m.Tend)

	// The plain relation would reject it.
	_, ok = fcntls.lastBefore(0.1, false)
	require.False(t, ok)

	// Coincident starts are not "before".
	_, ok = fcntls.lastBefore(0.0, true)
	require.False(t, ok)
}

func TestFirstAfter(t *testing.T) {
	closes := set(
		meta(interval.OpClose, 0.2, 0.3),
		meta(interval.OpClose, 0.7, 0.8),
	)

	m, ok := closes.firstAfter(0.4)
	require.True(t, ok)
	require.Equal(t, 0.7, m.Tstart)

	// Strictly after: a close starting exactly at the bound is skipped.
	m, ok = closes.firstAfter(0.2)
	require.True(t, ok)
	require.Equal(t, 0.7, m.Tstart)

	_, ok = closes.firstAfter(0.8)
	require.False(t, ok)

	var empty metaSet
	_, ok = empty.firstAfter(0.0)
	require.False(t, ok)
}

func TestAssignMetaBrackets(t *testing.T) {
	ivs := []interval.Interval{
		meta(interval.OpOpen, 0.0, 0.1),
		{Op: interval.OpWrite, Tstart: 0.2, Tend: 0.4, Bytes: 100},
		meta(interval.OpClose, 0.5, 0.6),
	}
	ranks := partitionRanks(ivs, 1)
	b := assignMeta(ranks[0].writes, &ranks[0], true)

	require.Len(t, b.opens, 1)
	require.Len(t, b.closes, 1)
	require.Empty(t, b.others)
	require.InDelta(t, 0.2, b.total(), 1e-12)
}

func TestAssignMetaDeduplicates(t *testing.T) {
	// Two writes sharing one open/close: each bucket keeps the interval
	// once.
	ivs := []interval.Interval{
		meta(interval.OpOpen, 0.0, 0.1),
		{Op: interval.OpWrite, Tstart: 0.2, Tend: 0.3, Bytes: 10},
		{Op: interval.OpWrite, Tstart: 0.4, Tend: 0.5, Bytes: 10},
		meta(interval.OpClose, 0.6, 0.7),
	}
	ranks := partitionRanks(ivs, 1)
	b := assignMeta(ranks[0].writes, &ranks[0], true)

	require.Len(t, b.opens, 1)
	require.Len(t, b.closes, 1)
}

func TestAssignMetaSharedAcrossOps(t *testing.T) {
	// One open may legitimately count toward both the write pass and
	// the read pass of the same rank.
	ivs := []interval.Interval{
		meta(interval.OpOpen, 0.0, 0.1),
		{Op: interval.OpWrite, Tstart: 0.2, Tend: 0.3, Bytes: 10},
		{Op: interval.OpRead, Tstart: 0.4, Tend: 0.5, Bytes: 10},
	}
	ranks := partitionRanks(ivs, 1)

	w := assignMeta(ranks[0].writes, &ranks[0], true)
	r := assignMeta(ranks[0].reads, &ranks[0], false)
	require.Len(t, w.opens, 1)
	require.Len(t, r.opens, 1)
}

func TestAssignMetaWriteOnlyRelations(t *testing.T) {
	// sync and size-changes attach to writes, never to reads.
	ivs := []interval.Interval{
		{Op: interval.OpWrite, Tstart: 0.2, Tend: 0.3, Bytes: 10},
		{Op: interval.OpRead, Tstart: 0.2, Tend: 0.3, Bytes: 10},
		meta(interval.OpSync, 0.4, 0.5),
		meta(interval.OpFtruncate, 0.6, 0.7),
	}
	ranks := partitionRanks(ivs, 1)

	w := assignMeta(ranks[0].writes, &ranks[0], true)
	require.Len(t, w.others, 2)

	r := assignMeta(ranks[0].reads, &ranks[0], false)
	require.Empty(t, r.others)
}

func TestAssignMetaSizeChangeMicroPhase(t *testing.T) {
	// The size-change pulls in its own bracketing open and close, even
	// though they are not adjacent to the write itself.
	ivs := []interval.Interval{
		meta(interval.OpOpen, 0.0, 0.1),
		{Op: interval.OpWrite, Tstart: 0.2, Tend: 0.3, Bytes: 10},
		meta(interval.OpClose, 0.4, 0.5),
		meta(interval.OpOpen, 0.6, 0.7),
		meta(interval.OpSetSize, 0.8, 0.9),
		meta(interval.OpClose, 1.0, 1.1),
	}
	ranks := partitionRanks(ivs, 1)
	b := assignMeta(ranks[0].writes, &ranks[0], true)

	require.Len(t, b.opens, 2)
	require.Len(t, b.closes, 2)
	require.Len(t, b.others, 1)
	require.InDelta(t, 0.5, b.total(), 1e-12)
}

func TestMetaTimesEmptyMetadata(t *testing.T) {
	ivs := []interval.Interval{
		{Op: interval.OpWrite, Tstart: 0.0, Tend: 1.0, Bytes: 10},
	}
	ranks := partitionRanks(ivs, 2)
	times := metaTimes(ranks, true)
	require.Equal(t, []float64{0, 0}, times)
}
