package locator

import (
	"regexp"
	"strings"
)

// fieldSeparator matches the characters a field name's words may be joined
// by in document text.
const fieldSeparator = `[\s_\-]+`

// valueSeparator is the key/value delimiter followed by the captured value.
const valueSeparator = `\s*[:\-=]\s*(.+)`

// GeneratedPattern synthesizes the case-insensitive pattern for a field name.
// "PO Number" becomes (?i)PO[\s_\-]+Number\s*[:\-=]\s*(.+).
func GeneratedPattern(field string) string {
	words := strings.Fields(field)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return "(?i)" + strings.Join(words, fieldSeparator) + valueSeparator
}

// Generated locates any field through a pattern derived from its name.
type Generated struct{}

// NewGenerated returns the generated-regex strategy.
func NewGenerated() *Generated { return &Generated{} }

// Rule compiles the generated rule for field. Blank field names have no rule.
func (g *Generated) Rule(field string) (Rule, bool) {
	if blank(field) {
		return Rule{}, false
	}
	re, err := regexp.Compile(GeneratedPattern(field))
	if err != nil {
		return Rule{}, false
	}
	return Rule{Field: field, Kind: KindGenerated, Pattern: re}, true
}

// Locate implements Locator.
func (g *Generated) Locate(field, text string) (Match, bool) {
	if blank(text) {
		return Match{}, false
	}
	r, ok := g.Rule(field)
	if !ok {
		return Match{}, false
	}
	return r.Apply(text)
}
