package analyzer

import (
	"fmt"

	"github.com/baikal/iotrace/internal/interval"
	"github.com/baikal/iotrace/internal/model"
)

// fileMetrics reduces one file's intervals of both layers to its full
// metric record: reconciled byte totals, per-layer pure op times and
// bandwidths, and per-layer end-to-end times and bandwidths.
func fileMetrics(posixIvs, mpiioIvs []interval.Interval, totalRanks int) (*model.FileMetrics, error) {
	posixW, posixR := sumBytes(posixIvs)
	mpiioW, mpiioR := sumBytes(mpiioIvs)

	fm := &model.FileMetrics{}
	fm.Write.Bytes = reconcileBytes(posixW, mpiioW)
	fm.Read.Bytes = reconcileBytes(posixR, mpiioR)

	var err error
	fm.Write.POSIX, fm.Read.POSIX, err = layerMetrics(posixIvs, totalRanks, fm.Write.Bytes, fm.Read.Bytes)
	if err != nil {
		return nil, fmt.Errorf("posix layer: %w", err)
	}
	fm.Write.MPIIO, fm.Read.MPIIO, err = layerMetrics(mpiioIvs, totalRanks, fm.Write.Bytes, fm.Read.Bytes)
	if err != nil {
		return nil, fmt.Errorf("mpiio layer: %w", err)
	}
	return fm, nil
}

// layerMetrics computes one layer's write and read metrics for one file.
//
// Pure op time is the per-rank duration sum maxed over ranks: the
// slowest rank bounds the wall-clock of a collective I/O phase. The
// end-to-end time adds each rank's attributed metadata time before
// taking the max.
func layerMetrics(ivs []interval.Interval, totalRanks int, bytesW, bytesR uint64) (write, read model.LayerMetrics, err error) {
	writeTimes, readTimes, err := perRankTimes(ivs, totalRanks)
	if err != nil {
		return write, read, err
	}

	ranks := partitionRanks(ivs, totalRanks)
	metaW := metaTimes(ranks, true)
	metaR := metaTimes(ranks, false)

	e2eW := make([]float64, totalRanks)
	e2eR := make([]float64, totalRanks)
	for r := 0; r < totalRanks; r++ {
		e2eW[r] = writeTimes[r] + metaW[r]
		e2eR[r] = readTimes[r] + metaR[r]
	}

	write.OpTime = maxOf(writeTimes)
	write.MetaTime = maxOf(e2eW)
	write.PureBW = model.Bandwidth(bytesW, write.OpTime)
	write.E2EBW = model.Bandwidth(bytesW, write.MetaTime)

	read.OpTime = maxOf(readTimes)
	read.MetaTime = maxOf(e2eR)
	read.PureBW = model.Bandwidth(bytesR, read.OpTime)
	read.E2EBW = model.Bandwidth(bytesR, read.MetaTime)
	return write, read, nil
}
