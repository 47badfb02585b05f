// Package locator finds the value of a named field in free document text.
//
// Three strategies are provided:
//
//   - Table: a fixed map of field names to hand-written regular expressions.
//   - Generated: a pattern synthesized from the field name itself, so that a
//     column "Invoice Date" matches "Invoice_Date: 2024-01-01".
//   - Contextual: curated keyword phrases tested line by line; the text after
//     a colon, or else the whole line, is returned.
//
// A Ruleset binds exactly one Rule to each target field and is built once
// per run.
package locator

import (
	"strings"
)

// Kind identifies the strategy a rule uses.
type Kind int

const (
	KindTable Kind = iota + 1
	KindGenerated
	KindContextual
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindGenerated:
		return "generated"
	case KindContextual:
		return "contextual"
	default:
		return "unknown"
	}
}

// Literal reports whether the kind matches on a literal pattern rather
// than on keyword context.
func (k Kind) Literal() bool {
	return k == KindTable || k == KindGenerated
}

// Match is a located field value.
type Match struct {
	Value string
	Kind  Kind
}

// Locator finds the value of field in text.
type Locator interface {
	Locate(field, text string) (Match, bool)
}

// blank reports whether text is empty for matching purposes.
func blank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// firstLine returns s up to its first line break, trimmed.
func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
