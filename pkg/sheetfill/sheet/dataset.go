// Package sheet exposes the active worksheet of an xlsx tracker as the dataset
// being filled: a header row followed by data rows, addressed by column name.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet indicates the workbook has no worksheet with a header row.
var ErrNoSheet = errors.New("workbook has no header row")

// ErrUnknownColumn indicates a column name not present in the header.
var ErrUnknownColumn = errors.New("unknown column")

type styleKey struct {
	base  int
	color string
}

// Dataset is a header-addressed view over one worksheet.
// Data rows are addressed with 0-based indexes; index 0 is sheet row 2.
type Dataset struct {
	f       *excelize.File
	path    string
	sheet   string
	headers []string
	columns map[string]int
	rows    int
	styles  map[styleKey]int
	dirty   bool
}

// Open loads the active worksheet of the workbook at path.
func Open(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	d, err := New(f, "")
	if err != nil {
		f.Close()
		return nil, err
	}
	d.path = path
	return d, nil
}

// New wraps an already open workbook. An empty sheetName selects the
// active worksheet.
func New(f *excelize.File, sheetName string) (*Dataset, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if sheetName == "" {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoSheet
	}

	d := &Dataset{
		f:       f,
		sheet:   sheetName,
		columns: make(map[string]int),
		styles:  make(map[styleKey]int),
	}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		d.headers = append(d.headers, h)
		if _, dup := d.columns[h]; !dup && h != "" {
			d.columns[h] = i + 1
		}
	}
	if len(d.columns) == 0 {
		return nil, ErrNoSheet
	}
	d.rows = countDataRows(rows)
	return d, nil
}

// Close releases the underlying workbook.
func (d *Dataset) Close() error {
	return d.f.Close()
}

// BookName returns the workbook file name (no path), if loaded from disk.
func (d *Dataset) BookName() string {
	if d.path == "" {
		return ""
	}
	return filepath.Base(d.path)
}

// SheetName returns the worksheet being filled.
func (d *Dataset) SheetName() string { return d.sheet }

// Headers returns the trimmed header names in column order.
func (d *Dataset) Headers() []string {
	out := make([]string, len(d.headers))
	copy(out, d.headers)
	return out
}

// HasColumn reports whether the header contains column.
func (d *Dataset) HasColumn(column string) bool {
	_, ok := d.columns[column]
	return ok
}

// Len returns the number of data rows.
func (d *Dataset) Len() int { return d.rows }

// Dirty reports whether any cell value or style was changed.
func (d *Dataset) Dirty() bool { return d.dirty }

func (d *Dataset) cellName(i int, column string) (string, error) {
	col, ok := d.columns[column]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if i < 0 || i >= d.rows {
		return "", fmt.Errorf("row index %d out of range [0,%d)", i, d.rows)
	}
	return excelize.CoordinatesToCellName(col, i+2)
}

// Value returns the displayed value of a cell.
func (d *Dataset) Value(i int, column string) (string, error) {
	cell, err := d.cellName(i, column)
	if err != nil {
		return "", err
	}
	return d.f.GetCellValue(d.sheet, cell)
}

// SetValue writes a string value into a cell.
func (d *Dataset) SetValue(i int, column, value string) error {
	cell, err := d.cellName(i, column)
	if err != nil {
		return err
	}
	if err := d.f.SetCellValue(d.sheet, cell, value); err != nil {
		return err
	}
	d.dirty = true
	return nil
}

// Save writes the workbook to path. When nothing changed since Open the
// source bytes are copied verbatim, so an unchanged pass is byte-identical.
func (d *Dataset) Save(path string) error {
	if !d.dirty && d.path != "" {
		data, err := os.ReadFile(d.path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	}
	return d.f.SaveAs(path)
}
