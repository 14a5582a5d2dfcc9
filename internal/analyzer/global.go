package analyzer

import "github.com/baikal/iotrace/internal/model"

// computeGlobals reduces the per-file metrics to the trace-wide
// aggregate. Aggregate bandwidths divide global bytes by the slowest
// file's time; average/min/max reduce the per-file bandwidths of files
// with nonzero activity.
func computeGlobals(files map[string]*model.FileMetrics) model.GlobalMetrics {
	return model.GlobalMetrics{
		Write: globalOp(files, func(fm *model.FileMetrics) model.OpMetrics { return fm.Write }),
		Read:  globalOp(files, func(fm *model.FileMetrics) model.OpMetrics { return fm.Read }),
	}
}

func globalOp(files map[string]*model.FileMetrics, pick func(*model.FileMetrics) model.OpMetrics) model.GlobalOpMetrics {
	var out model.GlobalOpMetrics
	for _, fm := range files {
		out.TotalBytes += pick(fm).Bytes
	}
	out.POSIX = globalLayer(files, out.TotalBytes, func(fm *model.FileMetrics) model.LayerMetrics { return pick(fm).POSIX })
	out.MPIIO = globalLayer(files, out.TotalBytes, func(fm *model.FileMetrics) model.LayerMetrics { return pick(fm).MPIIO })
	return out
}

func globalLayer(files map[string]*model.FileMetrics, totalBytes uint64, pick func(*model.FileMetrics) model.LayerMetrics) model.GlobalLayerMetrics {
	var out model.GlobalLayerMetrics
	var pure, e2e []float64
	for _, fm := range files {
		lm := pick(fm)
		if lm.OpTime > out.MaxOpTime {
			out.MaxOpTime = lm.OpTime
		}
		if lm.MetaTime > out.MaxMetaTime {
			out.MaxMetaTime = lm.MetaTime
		}
		if fm.Active() {
			pure = append(pure, lm.PureBW)
			e2e = append(e2e, lm.E2EBW)
		}
	}
	out.AggPureBW = model.Bandwidth(totalBytes, out.MaxOpTime)
	out.AggE2EBW = model.Bandwidth(totalBytes, out.MaxMetaTime)
	out.AvgPureBW = mean(pure)
	out.AvgE2EBW = mean(e2e)
	out.MinPureBW, out.MaxPureBW = minMax(pure)
	out.MinE2EBW, out.MaxE2EBW = minMax(e2e)
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minMax(xs []float64) (min, max float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	min, max = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}
