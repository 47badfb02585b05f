// Package document extracts plain text from the source documents that back
// a tracker: PDF, Word (.docx) and mail messages (.eml, .msg).
//
// Extraction never fails loudly. Every error, including panics raised by the
// underlying parsers, is captured in the returned Result so that a single
// unreadable file cannot abort a batch.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default limits.
const (
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

var (
	// ErrUnsupportedFormat indicates a file suffix with no registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrFileTooLarge indicates the file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrNoText indicates extraction succeeded but produced no text.
	ErrNoText = errors.New("no text extracted")
)

// Format identifies a document type by its file suffix.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatEML  Format = "eml"
	FormatMSG  Format = "msg"
)

// ReadError describes why a document yielded no text.
type ReadError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ReadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("read %s: %v", filepath.Base(e.Path), e.Err)
	}
	return fmt.Sprintf("read %s (%s): %v", filepath.Base(e.Path), e.Format, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Result is the outcome of reading one document: text on success, the
// failure reason otherwise.
type Result struct {
	Path   string
	Format Format
	Text   string
	Err    error
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Err == nil && strings.TrimSpace(r.Text) != ""
}

// Reader resolves a file path to its text.
type Reader interface {
	Read(path string) Result
}

// Extractor pulls text out of a single file of a known format.
type Extractor interface {
	Extract(path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(path string) (string, error)

// Extract calls f(path).
func (f ExtractorFunc) Extract(path string) (string, error) { return f(path) }

// Registry dispatches by file suffix among format extractors.
type Registry struct {
	extractors  map[Format]Extractor
	maxFileSize int64
}

// NewRegistry creates a registry with the built-in extractors.
// A non-positive maxFileSize selects DefaultMaxFileSize.
func NewRegistry(maxFileSize int64) *Registry {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	r := &Registry{
		extractors:  make(map[Format]Extractor),
		maxFileSize: maxFileSize,
	}
	r.Register(FormatPDF, ExtractorFunc(extractPDF))
	r.Register(FormatDOCX, ExtractorFunc(extractDOCX))
	r.Register(FormatEML, ExtractorFunc(extractEML))
	r.Register(FormatMSG, ExtractorFunc(extractMSG))
	return r
}

// Register installs or replaces the extractor for a format.
func (r *Registry) Register(format Format, e Extractor) {
	r.extractors[format] = e
}

// FormatOf returns the format implied by the (case-insensitive) file suffix.
func FormatOf(path string) Format {
	return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// Read extracts the text of the file at path.
func (r *Registry) Read(path string) (res Result) {
	format := FormatOf(path)
	res = Result{Path: path, Format: format}

	fail := func(err error) Result {
		res.Text = ""
		res.Err = &ReadError{Path: path, Format: format, Err: err}
		return res
	}

	e, ok := r.extractors[format]
	if !ok {
		return fail(ErrUnsupportedFormat)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(err)
	}
	if info.IsDir() {
		return fail(fmt.Errorf("%s is a directory", path))
	}
	if info.Size() > r.maxFileSize {
		return fail(fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, info.Size(), r.maxFileSize))
	}

	defer func() {
		if p := recover(); p != nil {
			res = fail(fmt.Errorf("extractor panic: %v", p))
		}
	}()

	text, err := e.Extract(path)
	if err != nil {
		return fail(err)
	}
	if strings.TrimSpace(text) == "" {
		return fail(ErrNoText)
	}
	res.Text = text
	return res
}
