package sheet

import (
	"strconv"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Row returns data row i keyed by header name.
// Empty cells are omitted from the map.
func (d *Dataset) Row(i int) (models.CellRow, error) {
	row := models.CellRow{
		R: i + 2,
		C: make(map[string]interface{}),
	}
	for _, h := range d.headers {
		if !d.HasColumn(h) {
			continue
		}
		v, err := d.Value(i, h)
		if err != nil {
			return models.CellRow{}, err
		}
		if v == "" {
			continue
		}
		row.C[h] = parseValue(v)
	}
	return row, nil
}

// parseValue types a cell's text as int64 or float64 when the number
// formats back to the same text, so identifiers like "007" or "1.50" keep
// their spelling. Anything else stays a string.
func parseValue(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(n, 10) == s {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	return s
}
