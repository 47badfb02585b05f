package sheet

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Mark sets the solid background fill of a cell to color (6-hex RGB).
// An empty color clears the fill. Other style attributes of the cell are
// kept. Marking a cell that already has the requested fill is a no-op.
func (d *Dataset) Mark(i int, column, color string) error {
	cell, err := d.cellName(i, column)
	if err != nil {
		return err
	}
	base, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return err
	}
	id, err := d.fillStyle(base, normalizeColor(color))
	if err != nil {
		return err
	}
	if id == base {
		return nil
	}
	if err := d.f.SetCellStyle(d.sheet, cell, cell, id); err != nil {
		return err
	}
	d.dirty = true
	return nil
}

// FillColor returns the solid fill color of a cell, or "" when unfilled.
func (d *Dataset) FillColor(i int, column string) (string, error) {
	cell, err := d.cellName(i, column)
	if err != nil {
		return "", err
	}
	id, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return "", err
	}
	style, err := d.f.GetStyle(id)
	if err != nil {
		return "", err
	}
	return fillColor(style.Fill), nil
}

// StyleID returns the raw style index of a cell.
func (d *Dataset) StyleID(i int, column string) (int, error) {
	cell, err := d.cellName(i, column)
	if err != nil {
		return 0, err
	}
	return d.f.GetCellStyle(d.sheet, cell)
}

// fillStyle derives (and caches) a style equal to base with its fill
// replaced by color.
func (d *Dataset) fillStyle(base int, color string) (int, error) {
	key := styleKey{base: base, color: color}
	if id, ok := d.styles[key]; ok {
		return id, nil
	}

	style, err := d.f.GetStyle(base)
	if err != nil {
		return 0, err
	}
	if fillColor(style.Fill) == color {
		d.styles[key] = base
		return base, nil
	}

	if color == "" {
		style.Fill = excelize.Fill{}
	} else {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	id, err := d.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	d.styles[key] = id
	return id, nil
}

// fillColor returns the foreground color of a solid pattern fill.
func fillColor(fill excelize.Fill) string {
	if fill.Type != "pattern" || fill.Pattern == 0 || len(fill.Color) == 0 {
		return ""
	}
	return normalizeColor(fill.Color[0])
}

// normalizeColor upper-cases a hex color and drops '#' and an alpha prefix.
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
