package sheetfill

import (
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/document"
	"go.uber.org/zap"
)

// Progress reports the position of a fill pass.
type Progress struct {
	// Row is the 1-based data row being processed.
	Row int
	// Total is the number of data rows.
	Total int
	// Identifier is the normalized identifier of the row ("" when skipped).
	Identifier string
}

// ProgressFunc receives progress updates; it is called once per data row.
type ProgressFunc func(Progress)

// RunContext carries the per-run collaborators of a fill pass.
type RunContext struct {
	// RunID identifies the run in logs and reports.
	RunID string
	// Files are the candidate documents in traversal order.
	Files []string
	// Reader extracts document text. If nil, a default registry is used.
	Reader document.Reader
	// Progress is called before each row. May be nil.
	Progress ProgressFunc
	// Logger receives diagnostics. If nil, logging is disabled.
	Logger *zap.Logger
}

func (rc *RunContext) logger() *zap.Logger {
	if rc == nil || rc.Logger == nil {
		return zap.NewNop()
	}
	return rc.Logger
}

func (rc *RunContext) reader() document.Reader {
	if rc == nil || rc.Reader == nil {
		return document.NewRegistry(0)
	}
	return rc.Reader
}

func (rc *RunContext) report(p Progress) {
	if rc != nil && rc.Progress != nil {
		rc.Progress(p)
	}
}
