package output

import (
	"strings"
	"testing"

	"github.com/baikal/iotrace/internal/model"
)

func TestRenderText(t *testing.T) {
	got := RenderText(sampleReport())

	for _, want := range []string{
		"I/O Performance Report",
		"/traces/run.json",
		"/data/a",
		"Calls by layer: posix=3",
		"write",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered report missing %q:\n%s", want, got)
		}
	}

	// Zero-activity files are filtered at reporting time.
	if strings.Contains(got, "/data/empty") {
		t.Errorf("zero-activity file should not be rendered:\n%s", got)
	}
}

func TestRenderTextEmptyReport(t *testing.T) {
	report := &model.Report{Files: map[string]*model.FileMetrics{}}
	got := RenderText(report)
	if !strings.Contains(got, "No file activity recorded.") {
		t.Errorf("empty report should say so:\n%s", got)
	}
}
