// Package mpitypes maps MPI named datatypes to their element size in bytes.
package mpitypes

// sizes covers the standard named datatypes. Keys carry no MPI_ prefix.
var sizes = map[string]uint64{
	"CHAR":               1,
	"SIGNED_CHAR":        1,
	"UNSIGNED_CHAR":      1,
	"BYTE":               1,
	"PACKED":             1,
	"C_BOOL":             1,
	"WCHAR":              4,
	"SHORT":              2,
	"UNSIGNED_SHORT":     2,
	"INT":                4,
	"UNSIGNED":           4,
	"UNSIGNED_INT":       4,
	"LONG":               8,
	"UNSIGNED_LONG":      8,
	"LONG_LONG":          8,
	"LONG_LONG_INT":      8,
	"UNSIGNED_LONG_LONG": 8,
	"FLOAT":              4,
	"DOUBLE":             8,
	"LONG_DOUBLE":        16,
	"INT8_T":             1,
	"INT16_T":            2,
	"INT32_T":            4,
	"INT64_T":            8,
	"UINT8_T":            1,
	"UINT16_T":           2,
	"UINT32_T":           4,
	"UINT64_T":           8,
	"AINT":               8,
	"OFFSET":             8,
	"COUNT":              8,
	"C_COMPLEX":          8,
	"C_FLOAT_COMPLEX":    8,
	"C_DOUBLE_COMPLEX":   16,
	"FLOAT_INT":          8,
	"DOUBLE_INT":         12,
	"LONG_INT":           12,
	"2INT":               8,
	"SHORT_INT":          6,
	"LONG_DOUBLE_INT":    20,
}

// SizeOf returns the element size in bytes of a named MPI datatype.
// The name carries no MPI_ prefix. Unknown types return 0.
func SizeOf(name string) uint64 {
	return sizes[name]
}
