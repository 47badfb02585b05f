// Package sheetfill fills the empty cells of a tracker sheet with values
// located in the source documents each row refers to.
package sheetfill

import (
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/locator"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Default values.
const (
	DefaultIdentifierColumn = "Change ID"
	DefaultVariant          = locator.VariantTable

	ColorYellow = "FFFF00"
	ColorGreen  = "C6EFCE"
	ColorAmber  = "FFE699"
)

// Palette maps confidence markers to background fill colors (6-hex RGB).
// An empty color clears the fill.
type Palette struct {
	Resolved   string
	Contextual string
	Unresolved string
}

// DefaultPalette highlights only the cells needing review.
func DefaultPalette() Palette {
	return Palette{Unresolved: ColorYellow}
}

// ConfidencePalette additionally distinguishes literal regex matches from
// contextual matches.
func ConfidencePalette() Palette {
	return Palette{
		Resolved:   ColorGreen,
		Contextual: ColorAmber,
		Unresolved: ColorYellow,
	}
}

// Color returns the fill color for a marker.
func (p Palette) Color(m models.Marker) string {
	switch m {
	case models.MarkerResolved:
		return p.Resolved
	case models.MarkerContextual:
		return p.Contextual
	case models.MarkerUnresolved:
		return p.Unresolved
	default:
		return ""
	}
}

// Options configures a fill pass.
type Options struct {
	// IdentifierColumn is the header whose value is searched for in file names.
	IdentifierColumn string
	// Variant selects the extraction strategy assignment.
	Variant locator.Variant
	// Targets lists the columns to populate. If empty, the table variant uses
	// the rule table's fields and every other variant uses all columns except
	// the identifier.
	Targets []string
	// Table is the fixed rule table. If nil, locator.DefaultTable() is used.
	Table *locator.Table
	// Keywords is the contextual keyword strategy. If nil, the curated
	// defaults are used.
	Keywords *locator.Contextual
	// Palette maps markers to fill colors.
	// If nil, DefaultPalette() is used.
	Palette *Palette
}

// DefaultOptions returns default fill options.
func DefaultOptions() Options {
	return Options{
		IdentifierColumn: DefaultIdentifierColumn,
		Variant:          DefaultVariant,
	}
}

// EffectivePalette returns the configured palette or the default one.
func (o Options) EffectivePalette() Palette {
	if o.Palette != nil {
		return *o.Palette
	}
	return DefaultPalette()
}

// EffectiveVariant returns the configured variant or the default one.
func (o Options) EffectiveVariant() locator.Variant {
	if o.Variant == "" {
		return DefaultVariant
	}
	return o.Variant
}

// ResolveTargets returns the target columns present in headers, in the
// configured order (or header order when derived).
func (o Options) ResolveTargets(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h != "" {
			present[h] = true
		}
	}

	var candidates []string
	switch {
	case len(o.Targets) > 0:
		candidates = o.Targets
	case o.EffectiveVariant() == locator.VariantTable:
		table := o.Table
		if table == nil {
			table = locator.DefaultTable()
		}
		// Keep header order so reports read left to right.
		inTable := make(map[string]bool)
		for _, f := range table.Fields() {
			inTable[f] = true
		}
		for _, h := range headers {
			if inTable[h] {
				candidates = append(candidates, h)
			}
		}
	default:
		candidates = headers
	}

	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		if !present[c] || seen[c] || c == o.IdentifierColumn {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
