package locator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidVariant indicates an unknown extraction variant name.
var ErrInvalidVariant = errors.New("invalid extraction variant")

// Variant selects how rules are assigned to target fields.
type Variant string

const (
	// VariantTable uses only the fixed rule table.
	VariantTable Variant = "table"
	// VariantGenerated derives a regex from every target field name.
	VariantGenerated Variant = "generated"
	// VariantContextual uses keyword/line context for every target field.
	VariantContextual Variant = "contextual"
	// VariantHybrid tries the literal rule (table, else generated) and falls
	// back to keyword context.
	VariantHybrid Variant = "hybrid"
)

// Variants lists the supported variants.
var Variants = []Variant{VariantTable, VariantGenerated, VariantContextual, VariantHybrid}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Variants {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of table, generated, contextual, hybrid)", ErrInvalidVariant, s)
}

// Rule is the resolved extraction rule of one field. Pattern is set for
// table and generated rules, Keywords for contextual ones.
type Rule struct {
	Field    string
	Kind     Kind
	Pattern  *regexp.Regexp
	Keywords []string
	// Fallback is tried when the rule itself does not match.
	Fallback *Rule
}

// Apply runs the rule (and its fallback chain) against text.
func (r Rule) Apply(text string) (Match, bool) {
	if blank(text) {
		return Match{}, false
	}

	var (
		value string
		ok    bool
	)
	switch r.Kind {
	case KindTable:
		value, ok = matchGroup(r.Pattern, text)
	case KindGenerated:
		if value, ok = matchGroup(r.Pattern, text); ok {
			value = firstLine(value)
			ok = value != ""
		}
	case KindContextual:
		value, ok = scanLines(r.Keywords, text)
	}
	if ok {
		return Match{Value: value, Kind: r.Kind}, true
	}
	if r.Fallback != nil {
		return r.Fallback.Apply(text)
	}
	return Match{}, false
}

// Describe renders the rule for display.
func (r Rule) Describe() string {
	var b strings.Builder
	switch r.Kind {
	case KindContextual:
		fmt.Fprintf(&b, "%s %q", r.Kind, r.Keywords)
	default:
		fmt.Fprintf(&b, "%s %s", r.Kind, r.Pattern)
	}
	if r.Fallback != nil {
		b.WriteString(" -> ")
		b.WriteString(r.Fallback.Describe())
	}
	return b.String()
}

// Ruleset maps each target field to exactly one rule.
type Ruleset struct {
	Variant Variant
	rules   map[string]Rule
}

// Build resolves one rule per target for the given variant.
//
// With VariantTable and no targets, the table's own fields are the targets.
// Fields with no applicable rule (a table variant target missing from the
// table) are left out of the set.
func Build(variant Variant, targets []string, table *Table, ctx *Contextual) (*Ruleset, error) {
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	if table == nil {
		table = DefaultTable()
	}
	if ctx == nil {
		ctx = NewContextual(nil)
	}
	gen := NewGenerated()

	if variant == VariantTable && len(targets) == 0 {
		targets = table.Fields()
	}

	rs := &Ruleset{Variant: variant, rules: make(map[string]Rule, len(targets))}
	for _, field := range targets {
		var (
			rule Rule
			ok   bool
		)
		switch variant {
		case VariantTable:
			rule, ok = table.Rule(field)
		case VariantGenerated:
			rule, ok = gen.Rule(field)
		case VariantContextual:
			rule, ok = ctx.Rule(field)
		case VariantHybrid:
			if rule, ok = table.Rule(field); !ok {
				rule, ok = gen.Rule(field)
			}
			if fb, fbOK := ctx.Rule(field); ok && fbOK {
				rule.Fallback = &fb
			} else if !ok {
				rule, ok = fb, fbOK
			}
		}
		if ok {
			rs.rules[field] = rule
		}
	}
	return rs, nil
}

// Rule returns the rule bound to field.
func (rs *Ruleset) Rule(field string) (Rule, bool) {
	r, ok := rs.rules[field]
	return r, ok
}

// Fields returns the fields that have a rule, sorted.
func (rs *Ruleset) Fields() []string {
	out := make([]string, 0, len(rs.rules))
	for f := range rs.rules {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of bound fields.
func (rs *Ruleset) Len() int { return len(rs.rules) }

// Locate implements Locator using the bound rule of field.
func (rs *Ruleset) Locate(field, text string) (Match, bool) {
	r, ok := rs.rules[field]
	if !ok {
		return Match{}, false
	}
	return r.Apply(text)
}
