package trace

import (
	"encoding/json"
	"fmt"
	"os"
)

// traceDocument is the on-disk JSON trace layout: the function table,
// the rank count, and one record array per rank.
type traceDocument struct {
	TotalRanks int        `json:"total_ranks"`
	Funcs      []string   `json:"funcs"`
	Records    [][]Record `json:"records"`
}

// Load reads and parses a JSON trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc traceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.TotalRanks < 0 {
		return nil, fmt.Errorf("%s: total_ranks = %d, must be >= 0", path, doc.TotalRanks)
	}
	if len(doc.Records) != doc.TotalRanks {
		return nil, fmt.Errorf("%s: %d record sequences for %d ranks", path, len(doc.Records), doc.TotalRanks)
	}
	return &Trace{
		FuncTable:   doc.Funcs,
		Ranks:       doc.TotalRanks,
		RankRecords: doc.Records,
	}, nil
}
