package model

import "sort"

// Bandwidth computes MiB/s from a byte count and an elapsed time.
// Zero bytes or a non-positive time yield zero, never NaN or Inf.
func Bandwidth(bytes uint64, seconds float64) float64 {
	if bytes == 0 || seconds <= 0 {
		return 0
	}
	return float64(bytes) / seconds / MiB
}

// ActiveFiles returns the filenames with nonzero activity, sorted.
// The Files map keeps every enumerated file; the zero-activity filter
// is applied at reporting time.
func (r *Report) ActiveFiles() []string {
	var names []string
	for name, fm := range r.Files {
		if fm.Active() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
