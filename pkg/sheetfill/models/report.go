package models

// RowStatus classifies how a row was handled.
type RowStatus string

const (
	// RowSkipped means the identifier was empty or "nan".
	RowSkipped RowStatus = "skipped"
	// RowNoDocument means no file name contained the identifier.
	RowNoDocument RowStatus = "no_document"
	// RowNoText means a file matched but no text could be extracted.
	RowNoText RowStatus = "no_text"
	// RowProcessed means the document text was searched for each target.
	RowProcessed RowStatus = "processed"
)

// FieldStatus classifies the outcome for one target cell.
type FieldStatus string

const (
	FieldFilled     FieldStatus = "filled"
	FieldUnresolved FieldStatus = "unresolved"
	FieldPreserved  FieldStatus = "preserved"
)

// FieldReport is the outcome for a single (row, field) cell.
type FieldReport struct {
	// Field is the column header.
	Field string `json:"field" yaml:"field"`
	// Status is the cell outcome.
	Status FieldStatus `json:"status" yaml:"status"`
	// Marker is the confidence marker applied, if any.
	Marker Marker `json:"marker" yaml:"marker"`
	// Value is the value written (filled cells only).
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// RowReport is the outcome for a single data row.
type RowReport struct {
	// R is the sheet row index (1-based).
	R int `json:"r" yaml:"r"`
	// Identifier is the normalized identifier used for matching.
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	// Status is the row outcome.
	Status RowStatus `json:"status" yaml:"status"`
	// Document is the base name of the matched file.
	Document string `json:"document,omitempty" yaml:"document,omitempty"`
	// Reason explains why a matched document yielded no text.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Fields contains per-target outcomes.
	Fields []FieldReport `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Summary aggregates the row and field outcomes of a run.
type Summary struct {
	Rows       int `json:"rows" yaml:"rows"`
	Skipped    int `json:"skipped" yaml:"skipped"`
	Matched    int `json:"matched" yaml:"matched"`
	Filled     int `json:"filled" yaml:"filled"`
	Contextual int `json:"contextual" yaml:"contextual"`
	Unresolved int `json:"unresolved" yaml:"unresolved"`
	Preserved  int `json:"preserved" yaml:"preserved"`
}

// Report is the result of one fill pass.
type Report struct {
	// RunID identifies the run and its workspace.
	RunID string `json:"run_id" yaml:"run_id"`
	// BookName is the tracker file name (no path).
	BookName string `json:"book_name" yaml:"book_name"`
	// SheetName is the worksheet that was filled.
	SheetName string `json:"sheet_name" yaml:"sheet_name"`
	// Variant is the extraction variant in effect.
	Variant string `json:"variant" yaml:"variant"`
	// Targets lists the target columns present in the sheet.
	Targets []string `json:"targets" yaml:"targets"`
	// Rows contains per-row outcomes in sheet order.
	Rows []RowReport `json:"rows" yaml:"rows"`
	// Summary aggregates the outcomes.
	Summary Summary `json:"summary" yaml:"summary"`
}

// Add appends a row report and updates the summary.
func (r *Report) Add(row RowReport) {
	r.Rows = append(r.Rows, row)
	r.Summary.Rows++
	switch row.Status {
	case RowSkipped:
		r.Summary.Skipped++
	case RowProcessed, RowNoText:
		r.Summary.Matched++
	}
	for _, f := range row.Fields {
		switch f.Status {
		case FieldFilled:
			if f.Marker == MarkerContextual {
				r.Summary.Contextual++
			} else {
				r.Summary.Filled++
			}
		case FieldUnresolved:
			r.Summary.Unresolved++
		case FieldPreserved:
			r.Summary.Preserved++
		}
	}
}
