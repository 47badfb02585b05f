package locator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultTablePatterns are the built-in change-request extraction rules.
// Each pattern has exactly one capture group holding the value.
var DefaultTablePatterns = map[string]string{
	"Change ID":          `(?:Change\s*ID|CR\s*No|Ticket)\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
	"Application":        `Application\s*[:\-]?\s*(.*)`,
	"Change description": `Description\s*[:\-]?\s*(.*)`,
	"Change Type":        `Type\s*[:\-]?\s*(Normal|Emergency|Standard)`,
	"Requested by":       `Requested\s*by\s*[:\-]?\s*([A-Za-z\s]+)`,
	"Date of Approval":   `Approval\s*Date\s*[:\-]?\s*(\d{2}[-/\.]\d{2}[-/\.]\d{4})`,
	"Release ID":         `Release\s*ID\s*[:\-]?\s*(.*)`,
	"Developer":          `Developer\s*[:\-]?\s*([A-Za-z\s]+)`,
}

// Table locates fields through a fixed field -> regex table.
type Table struct {
	patterns map[string]*regexp.Regexp
}

// NewTable compiles patterns case-insensitively. Every pattern must have at
// least one capture group.
func NewTable(patterns map[string]string) (*Table, error) {
	t := &Table{patterns: make(map[string]*regexp.Regexp, len(patterns))}
	for field, p := range patterns {
		re, err := compileTablePattern(p)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", field, err)
		}
		t.patterns[field] = re
	}
	return t, nil
}

// DefaultTable returns the built-in rule table.
func DefaultTable() *Table {
	t, err := NewTable(DefaultTablePatterns)
	if err != nil {
		panic(err)
	}
	return t
}

func compileTablePattern(p string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(p, "(?i)") {
		p = "(?i)" + p
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, err
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("pattern %q has no capture group", p)
	}
	return re, nil
}

// Fields returns the table's field names, sorted.
func (t *Table) Fields() []string {
	out := make([]string, 0, len(t.patterns))
	for f := range t.patterns {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Rule returns the table rule for field.
func (t *Table) Rule(field string) (Rule, bool) {
	re, ok := t.patterns[field]
	if !ok {
		return Rule{}, false
	}
	return Rule{Field: field, Kind: KindTable, Pattern: re}, true
}

// Locate implements Locator.
func (t *Table) Locate(field, text string) (Match, bool) {
	r, ok := t.Rule(field)
	if !ok {
		return Match{}, false
	}
	return r.Apply(text)
}

// matchGroup runs re once over text and returns its first capture, trimmed.
func matchGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}
