package trace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempTrace(t, `{
		"total_ranks": 2,
		"funcs": ["write", "open64"],
		"records": [
			[{"rank": 0, "func_id": 0, "tstart": 0.1, "tend": 0.2, "args": ["/data/a", "buf", "4096"]}],
			[]
		]
	}`)

	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tr.TotalRanks() != 2 {
		t.Errorf("TotalRanks() = %d, want 2", tr.TotalRanks())
	}
	if len(tr.Funcs()) != 2 || tr.Funcs()[0] != "write" {
		t.Errorf("Funcs() = %v", tr.Funcs())
	}
	recs := tr.Records(0)
	if len(recs) != 1 {
		t.Fatalf("Records(0) = %v, want 1 record", recs)
	}
	if recs[0].FuncID != 0 || recs[0].Tstart != 0.1 || len(recs[0].Args) != 3 {
		t.Errorf("unexpected record: %+v", recs[0])
	}
	if len(tr.Records(1)) != 0 {
		t.Errorf("Records(1) should be empty")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeTempTrace(t, `{"total_ranks": `)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadRankCountMismatch(t *testing.T) {
	path := writeTempTrace(t, `{"total_ranks": 3, "funcs": [], "records": [[]]}`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for rank/record-sequence mismatch")
	}
}

func TestLoadEmptyTrace(t *testing.T) {
	path := writeTempTrace(t, `{"total_ranks": 0, "funcs": [], "records": []}`)
	tr, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tr.TotalRanks() != 0 {
		t.Errorf("TotalRanks() = %d, want 0", tr.TotalRanks())
	}
}
