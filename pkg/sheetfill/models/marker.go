package models

import "strconv"

// Marker is the confidence annotation attached to a target cell.
type Marker int

const (
	// MarkerNone means the cell was not annotated by the pass.
	MarkerNone Marker = iota
	// MarkerResolved means the value came from a literal regex rule.
	MarkerResolved
	// MarkerContextual means the value came from a keyword/line-context match.
	MarkerContextual
	// MarkerUnresolved means no value was found and the cell needs review.
	MarkerUnresolved
)

// String returns the marker name used in reports.
func (m Marker) String() string {
	switch m {
	case MarkerResolved:
		return "resolved"
	case MarkerContextual:
		return "contextual"
	case MarkerUnresolved:
		return "unresolved"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func formatScalar(v interface{}) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	default:
		return ""
	}
}
