package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/baikal/iotrace/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Metadata: model.Metadata{
			Tool:          "iotrace",
			Version:       "0.1.0",
			SchemaVersion: "1.0.0",
			TracePath:     "/traces/run.json",
			TotalRanks:    2,
		},
		Files: map[string]*model.FileMetrics{
			"/data/a": {
				Write: model.OpMetrics{
					Bytes: 2 * model.MiB,
					POSIX: model.LayerMetrics{OpTime: 0.2, MetaTime: 0.4, PureBW: 10, E2EBW: 5},
				},
			},
			"/data/empty": {},
		},
		Global: model.GlobalMetrics{
			Write: model.GlobalOpMetrics{
				TotalBytes: 2 * model.MiB,
				POSIX:      model.GlobalLayerMetrics{MaxOpTime: 0.2, MaxMetaTime: 0.4, AggPureBW: 10, AggE2EBW: 5, AvgPureBW: 10, AvgE2EBW: 5, MinPureBW: 10, MaxPureBW: 10, MinE2EBW: 5, MaxE2EBW: 5},
			},
		},
		Summary: model.Summary{
			FunctionLayers: model.LayerCounts{POSIX: 3},
			TopFunctions:   []model.FunctionTime{{Name: "write", Seconds: 0.2}},
		},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteJSON(sampleReport(), path); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got model.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if got.Metadata.Tool != "iotrace" {
		t.Errorf("tool = %q, want iotrace", got.Metadata.Tool)
	}
	fm := got.Files["/data/a"]
	if fm == nil || fm.Write.Bytes != 2*model.MiB {
		t.Errorf("per-file write bytes did not survive the round trip: %+v", fm)
	}
	if got.Global.Write.POSIX.AggE2EBW != 5 {
		t.Errorf("global agg e2e bw = %v, want 5", got.Global.Write.POSIX.AggE2EBW)
	}
}

func TestWriteJSONBadPath(t *testing.T) {
	err := WriteJSON(sampleReport(), filepath.Join(t.TempDir(), "missing", "report.json"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}
