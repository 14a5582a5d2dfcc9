// Package diff compares two iotrace reports and highlights
// regressions/improvements in bandwidth and time; changes in bytes
// moved are listed without being classified.
package diff

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/baikal/iotrace/internal/model"
)

// DiffReport contains the comparison between two reports.
type DiffReport struct {
	Baseline     string         `json:"baseline"`
	Current      string         `json:"current"`
	Changes      []MetricChange `json:"changes"`
	NewFiles     []string       `json:"new_files,omitempty"`
	RemovedFiles []string       `json:"removed_files,omitempty"`
	Regressions  int            `json:"regressions"`
	Improvements int            `json:"improvements"`
}

// MetricChange represents a single metric difference between reports.
type MetricChange struct {
	Scope        string  `json:"scope"` // "global" or a filename
	Metric       string  `json:"metric"`
	OldValue     float64 `json:"old_value"`
	NewValue     float64 `json:"new_value"`
	Delta        float64 `json:"delta"`
	DeltaPct     float64 `json:"delta_pct"`
	Direction    string  `json:"direction"`    // "regression", "improvement", "unchanged"
	Significance string  `json:"significance"` // "high", "medium", "low"
}

// LoadReport reads and parses a JSON report file.
func LoadReport(path string) (*model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &report, nil
}

// Compare computes differences between two reports. Bandwidth drops are
// regressions; time growth is a regression; byte-count changes are
// reported but not classified, since moving more data is not by itself
// worse.
func Compare(baseline, current *model.Report) *DiffReport {
	diff := &DiffReport{
		Baseline: baseline.Metadata.Timestamp,
		Current:  current.Metadata.Timestamp,
	}

	compareGlobalOp(diff, "write", baseline.Global.Write, current.Global.Write)
	compareGlobalOp(diff, "read", baseline.Global.Read, current.Global.Read)

	// Per-file bandwidth changes for files present in both reports.
	var names []string
	for name := range current.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cur := current.Files[name]
		base, ok := baseline.Files[name]
		if !ok {
			if cur.Active() {
				diff.NewFiles = append(diff.NewFiles, name)
			}
			continue
		}
		compareFileOp(diff, name, "write", base.Write, cur.Write)
		compareFileOp(diff, name, "read", base.Read, cur.Read)
	}
	for name := range baseline.Files {
		if _, ok := current.Files[name]; !ok && baseline.Files[name].Active() {
			diff.RemovedFiles = append(diff.RemovedFiles, name)
		}
	}
	sort.Strings(diff.RemovedFiles)

	for _, c := range diff.Changes {
		switch c.Direction {
		case "regression":
			diff.Regressions++
		case "improvement":
			diff.Improvements++
		}
	}
	return diff
}

func compareGlobalOp(diff *DiffReport, op string, base, cur model.GlobalOpMetrics) {
	addChange(diff, "global", op+"_total_bytes", float64(base.TotalBytes), float64(cur.TotalBytes), directionNone)
	compareGlobalLayer(diff, op+"_posix", base.POSIX, cur.POSIX)
	compareGlobalLayer(diff, op+"_mpiio", base.MPIIO, cur.MPIIO)
}

func compareGlobalLayer(diff *DiffReport, prefix string, base, cur model.GlobalLayerMetrics) {
	addChange(diff, "global", prefix+"_max_op_time", base.MaxOpTime, cur.MaxOpTime, directionHigherWorse)
	addChange(diff, "global", prefix+"_max_e2e_time", base.MaxMetaTime, cur.MaxMetaTime, directionHigherWorse)
	addChange(diff, "global", prefix+"_agg_pure_bw", base.AggPureBW, cur.AggPureBW, directionHigherBetter)
	addChange(diff, "global", prefix+"_agg_e2e_bw", base.AggE2EBW, cur.AggE2EBW, directionHigherBetter)
	addChange(diff, "global", prefix+"_avg_pure_bw", base.AvgPureBW, cur.AvgPureBW, directionHigherBetter)
	addChange(diff, "global", prefix+"_avg_e2e_bw", base.AvgE2EBW, cur.AvgE2EBW, directionHigherBetter)
}

func compareFileOp(diff *DiffReport, name, op string, base, cur model.OpMetrics) {
	addChange(diff, name, op+"_bytes", float64(base.Bytes), float64(cur.Bytes), directionNone)
	addChange(diff, name, op+"_posix_pure_bw", base.POSIX.PureBW, cur.POSIX.PureBW, directionHigherBetter)
	addChange(diff, name, op+"_posix_e2e_bw", base.POSIX.E2EBW, cur.POSIX.E2EBW, directionHigherBetter)
	addChange(diff, name, op+"_mpiio_pure_bw", base.MPIIO.PureBW, cur.MPIIO.PureBW, directionHigherBetter)
	addChange(diff, name, op+"_mpiio_e2e_bw", base.MPIIO.E2EBW, cur.MPIIO.E2EBW, directionHigherBetter)
}

type direction int

const (
	directionNone direction = iota
	directionHigherWorse
	directionHigherBetter
)

func addChange(diff *DiffReport, scope, metric string, oldVal, newVal float64, dir direction) {
	delta := newVal - oldVal
	deltaPct := 0.0
	if oldVal != 0 {
		deltaPct = (delta / math.Abs(oldVal)) * 100
	}

	// Skip negligible changes
	if math.Abs(deltaPct) < 1.0 && math.Abs(delta) < 0.001 {
		return
	}

	classified := "unchanged"
	switch dir {
	case directionHigherWorse:
		if deltaPct > 5 {
			classified = "regression"
		} else if deltaPct < -5 {
			classified = "improvement"
		}
	case directionHigherBetter:
		if deltaPct < -5 {
			classified = "regression"
		} else if deltaPct > 5 {
			classified = "improvement"
		}
	}

	significance := "low"
	absPct := math.Abs(deltaPct)
	if absPct >= 50 {
		significance = "high"
	} else if absPct >= 20 {
		significance = "medium"
	}

	diff.Changes = append(diff.Changes, MetricChange{
		Scope:        scope,
		Metric:       metric,
		OldValue:     oldVal,
		NewValue:     newVal,
		Delta:        delta,
		DeltaPct:     deltaPct,
		Direction:    classified,
		Significance: significance,
	})
}

// FormatDiff returns a human-readable diff summary.
func FormatDiff(d *DiffReport) string {
	var sb strings.Builder

	sb.WriteString("=== Report Diff ===\n")
	sb.WriteString(fmt.Sprintf("Baseline: %s\n", d.Baseline))
	sb.WriteString(fmt.Sprintf("Current:  %s\n\n", d.Current))
	sb.WriteString(fmt.Sprintf("Regressions: %d, Improvements: %d\n\n", d.Regressions, d.Improvements))

	if len(d.NewFiles) > 0 {
		sb.WriteString(fmt.Sprintf("New files: %s\n", strings.Join(d.NewFiles, ", ")))
	}
	if len(d.RemovedFiles) > 0 {
		sb.WriteString(fmt.Sprintf("Removed files: %s\n", strings.Join(d.RemovedFiles, ", ")))
	}

	if d.Regressions > 0 {
		sb.WriteString("Regressions:\n")
		for _, c := range d.Changes {
			if c.Direction == "regression" {
				sb.WriteString(fmt.Sprintf("  [%s] %s/%s: %.3f -> %.3f (%+.1f%%)\n",
					strings.ToUpper(c.Significance), c.Scope, c.Metric,
					c.OldValue, c.NewValue, c.DeltaPct))
			}
		}
		sb.WriteString("\n")
	}

	if d.Improvements > 0 {
		sb.WriteString("Improvements:\n")
		for _, c := range d.Changes {
			if c.Direction == "improvement" {
				sb.WriteString(fmt.Sprintf("  [%s] %s/%s: %.3f -> %.3f (%+.1f%%)\n",
					strings.ToUpper(c.Significance), c.Scope, c.Metric,
					c.OldValue, c.NewValue, c.DeltaPct))
			}
		}
	}

	return sb.String()
}
