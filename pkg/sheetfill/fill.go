package sheetfill

import (
	"context"
	"path/filepath"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/document"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/locator"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/matcher"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/sheet"
	"go.uber.org/zap"
)

// Dataset is the cell store a pass reads and writes. *sheet.Dataset
// implements it.
type Dataset interface {
	Headers() []string
	HasColumn(column string) bool
	Len() int
	Row(i int) (models.CellRow, error)
	SetValue(i int, column, value string) error
	Mark(i int, column, color string) error
}

var _ Dataset = (*sheet.Dataset)(nil)

// Fill runs one top-to-bottom pass over ds, populating empty target cells
// from the documents in rc.Files.
//
// Cells that hold a value before the pass are never modified. Rows without a
// usable identifier are left untouched. When a row has no matching document,
// or its document yields no text, its empty target cells are marked
// unresolved.
func Fill(ctx context.Context, rc *RunContext, ds Dataset, opts Options) (*models.Report, error) {
	log := rc.logger()
	palette := opts.EffectivePalette()
	variant := opts.EffectiveVariant()

	if opts.IdentifierColumn == "" {
		opts.IdentifierColumn = DefaultIdentifierColumn
	}
	if !ds.HasColumn(opts.IdentifierColumn) {
		return nil, NewConfigError("identifier_column", opts.IdentifierColumn, ErrMissingIdentifierColumn)
	}

	targets := opts.ResolveTargets(ds.Headers())
	rules, err := locator.Build(variant, targets, opts.Table, opts.Keywords)
	if err != nil {
		return nil, NewConfigError("variant", string(variant), err)
	}
	if len(targets) == 0 {
		log.Warn("no target columns present in sheet", zap.Strings("headers", ds.Headers()))
	}

	report := &models.Report{
		Variant: string(variant),
		Targets: targets,
	}
	if rc != nil {
		report.RunID = rc.RunID
	}
	var files []string
	if rc != nil {
		files = rc.Files
	}
	reader := rc.reader()

	total := ds.Len()
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := ds.Row(i)
		if err != nil {
			return nil, err
		}
		id := matcher.Normalize(cells.String(opts.IdentifierColumn))
		rc.report(Progress{Row: i + 1, Total: total, Identifier: id})

		row := models.RowReport{R: cells.R, Identifier: id}
		if !matcher.Usable(id) {
			row.Identifier = ""
			row.Status = models.RowSkipped
			report.Add(row)
			continue
		}

		rowLog := log.With(zap.Int("row", row.R), zap.String("id", id))

		text, err := resolveText(rowLog, reader, id, files, &row)
		if err != nil {
			return nil, err
		}

		for _, field := range targets {
			fr, err := fillCell(ds, i, cells, field, text, rules, palette)
			if err != nil {
				return nil, err
			}
			row.Fields = append(row.Fields, fr)
		}
		rowLog.Debug("row processed", zap.String("status", string(row.Status)), zap.Int("fields", len(row.Fields)))
		report.Add(row)
	}

	log.Info("fill pass complete",
		zap.Int("rows", report.Summary.Rows),
		zap.Int("skipped", report.Summary.Skipped),
		zap.Int("matched", report.Summary.Matched),
		zap.Int("filled", report.Summary.Filled),
		zap.Int("contextual", report.Summary.Contextual),
		zap.Int("unresolved", report.Summary.Unresolved),
		zap.Int("preserved", report.Summary.Preserved),
	)
	return report, nil
}

// resolveText finds the row's document and reads it. An empty string means
// the row has no usable text; the reason is recorded on row.
func resolveText(log *zap.Logger, reader document.Reader, id string, files []string, row *models.RowReport) (string, error) {
	path, ok := matcher.Match(id, files)
	if !ok {
		row.Status = models.RowNoDocument
		log.Debug("no document matched")
		return "", nil
	}
	row.Document = filepath.Base(path)

	res := reader.Read(path)
	if !res.OK() {
		row.Status = models.RowNoText
		if res.Err != nil {
			row.Reason = res.Err.Error()
		}
		log.Warn("document yielded no text",
			zap.String("path", path),
			zap.String("format", string(res.Format)),
			zap.Error(res.Err),
		)
		return "", nil
	}
	row.Status = models.RowProcessed
	return res.Text, nil
}

// fillCell populates one target cell of row i, read earlier into cells.
// Text is "" when the row has no usable document, in which case empty cells
// are marked unresolved.
func fillCell(ds Dataset, i int, cells models.CellRow, field, text string, rules *locator.Ruleset, palette Palette) (models.FieldReport, error) {
	fr := models.FieldReport{Field: field}

	if cells.String(field) != "" {
		fr.Status = models.FieldPreserved
		return fr, nil
	}

	if text != "" {
		if m, ok := rules.Locate(field, text); ok {
			fr.Status = models.FieldFilled
			fr.Value = m.Value
			fr.Marker = models.MarkerResolved
			if !m.Kind.Literal() {
				fr.Marker = models.MarkerContextual
			}
			if err := ds.SetValue(i, field, m.Value); err != nil {
				return fr, err
			}
			return fr, ds.Mark(i, field, palette.Color(fr.Marker))
		}
	}

	fr.Status = models.FieldUnresolved
	fr.Marker = models.MarkerUnresolved
	return fr, ds.Mark(i, field, palette.Color(fr.Marker))
}
