package analyzer

import (
	"sort"
	"strings"

	"github.com/baikal/iotrace/internal/model"
	"github.com/baikal/iotrace/internal/trace"
)

// computeSummary counts calls per instrumentation layer and ranks
// functions by total elapsed time across all ranks. Records whose
// func_id falls outside the function table are user-instrumented and
// skipped.
func computeSummary(reader trace.Reader, topN int) model.Summary {
	funcs := reader.Funcs()

	var summary model.Summary
	times := make(map[string]float64)

	for rank := 0; rank < reader.TotalRanks(); rank++ {
		for _, rec := range reader.Records(rank) {
			if int(rec.FuncID) >= len(funcs) {
				continue
			}
			name := funcs[rec.FuncID]
			switch {
			case strings.Contains(name, "H5"):
				summary.FunctionLayers.HDF5++
			case strings.Contains(name, "MPI"):
				summary.FunctionLayers.MPI++
			default:
				summary.FunctionLayers.POSIX++
			}
			times[name] += rec.Tend - rec.Tstart
		}
	}

	ranked := make([]model.FunctionTime, 0, len(times))
	for name, seconds := range times {
		if seconds > 0 {
			ranked = append(ranked, model.FunctionTime{Name: name, Seconds: seconds})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Seconds != ranked[j].Seconds {
			return ranked[i].Seconds > ranked[j].Seconds
		}
		return ranked[i].Name < ranked[j].Name
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	summary.TopFunctions = ranked
	return summary
}
