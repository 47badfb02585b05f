// Package models defines data structures for filling a tracker sheet.
package models

// CellRow represents a single data row of the tracker.
type CellRow struct {
	// R is the sheet row index (1-based, header is row 1).
	R int `json:"r" yaml:"r"`
	// C maps column header to cell value (int64, float64 or string).
	C map[string]interface{} `json:"c" yaml:"c"`
}

// String returns the value of column as text, or "" when absent.
func (r CellRow) String(column string) string {
	v, ok := r.C[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatScalar(v)
}
