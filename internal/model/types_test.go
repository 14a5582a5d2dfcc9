package model

import "testing"

func TestBandwidth(t *testing.T) {
	tests := []struct {
		name    string
		bytes   uint64
		seconds float64
		want    float64
	}{
		{"one MiB per second", MiB, 1.0, 1.0},
		{"two MiB per half second", 2 * MiB, 0.5, 4.0},
		{"zero bytes", 0, 1.0, 0},
		{"zero time", MiB, 0, 0},
		{"negative time", MiB, -1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bandwidth(tt.bytes, tt.seconds); got != tt.want {
				t.Errorf("Bandwidth(%d, %v) = %v, want %v", tt.bytes, tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFileMetricsActive(t *testing.T) {
	var zero FileMetrics
	if zero.Active() {
		t.Error("zero-value metrics should be inactive")
	}

	withBytes := FileMetrics{Write: OpMetrics{Bytes: 1}}
	if !withBytes.Active() {
		t.Error("nonzero write bytes should be active")
	}

	withTime := FileMetrics{Read: OpMetrics{MPIIO: LayerMetrics{OpTime: 0.1}}}
	if !withTime.Active() {
		t.Error("nonzero read op time should be active")
	}
}

func TestActiveFiles(t *testing.T) {
	report := &Report{
		Files: map[string]*FileMetrics{
			"/data/b":     {Write: OpMetrics{Bytes: 10}},
			"/data/a":     {Read: OpMetrics{Bytes: 20}},
			"/data/empty": {},
		},
	}

	got := report.ActiveFiles()
	if len(got) != 2 {
		t.Fatalf("ActiveFiles() = %v, want 2 entries", got)
	}
	if got[0] != "/data/a" || got[1] != "/data/b" {
		t.Errorf("ActiveFiles() = %v, want sorted [/data/a /data/b]", got)
	}
}
