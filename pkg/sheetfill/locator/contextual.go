package locator

import (
	"strings"
)

// DefaultKeywords are curated synonym phrases for common tracker columns.
// Keys are matched case-insensitively against the field name.
var DefaultKeywords = map[string][]string{
	"uat signoff by": {
		"uat signoff by", "uat sign-off by", "uat sign off by",
		"signed off by", "approved by", "approval from", "sign-off", "proceed",
	},
	"business approver": {
		"business approver", "business approval", "approved by", "approver",
	},
	"cab approval": {
		"cab approval", "cab approved", "change advisory board",
	},
	"deployment date": {
		"deployment date", "deploy date", "go-live", "go live", "deployed on", "implementation date",
	},
	"implemented by": {
		"implemented by", "deployed by", "implementer",
	},
	"requested by": {
		"requested by", "requester", "raised by",
	},
	"tested by": {
		"tested by", "tester", "qa by", "verified by",
	},
	"rollback plan": {
		"rollback plan", "backout plan", "back-out plan", "rollback",
	},
	"change description": {
		"change description", "description", "summary",
	},
}

// Contextual locates fields by keyword containment on individual lines.
type Contextual struct {
	keywords map[string][]string
}

// NewContextual builds the strategy from a field -> keywords map. Field
// names are folded to lower case; a nil map selects DefaultKeywords.
func NewContextual(keywords map[string][]string) *Contextual {
	if keywords == nil {
		keywords = DefaultKeywords
	}
	c := &Contextual{keywords: make(map[string][]string, len(keywords))}
	for field, kws := range keywords {
		key := strings.ToLower(strings.TrimSpace(field))
		for _, kw := range kws {
			if kw = strings.TrimSpace(kw); kw != "" {
				c.keywords[key] = append(c.keywords[key], kw)
			}
		}
	}
	return c
}

// Keywords returns the phrases used for field: the curated list, or the
// literal field name when none is configured.
func (c *Contextual) Keywords(field string) []string {
	if kws, ok := c.keywords[strings.ToLower(strings.TrimSpace(field))]; ok && len(kws) > 0 {
		return kws
	}
	if f := strings.TrimSpace(field); f != "" {
		return []string{f}
	}
	return nil
}

// Rule returns the contextual rule for field.
func (c *Contextual) Rule(field string) (Rule, bool) {
	kws := c.Keywords(field)
	if len(kws) == 0 {
		return Rule{}, false
	}
	return Rule{Field: field, Kind: KindContextual, Keywords: kws}, true
}

// Locate implements Locator.
func (c *Contextual) Locate(field, text string) (Match, bool) {
	r, ok := c.Rule(field)
	if !ok {
		return Match{}, false
	}
	return r.Apply(text)
}

// scanLines returns the value from the first line containing any keyword.
// When the keyword starts before the line's first colon, only the text after the
// colon is returned; otherwise the whole line is.
func scanLines(keywords []string, text string) (string, bool) {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range lowered {
			at := strings.Index(lower, kw)
			if at < 0 {
				continue
			}
			// Case folding can change byte lengths, so the colon is located
			// in lower for the comparison and in line for the slice.
			value := strings.TrimSpace(line)
			if colon := strings.Index(lower, ":"); colon >= 0 && at < colon {
				value = strings.TrimSpace(line[strings.Index(line, ":")+1:])
			}
			if value != "" {
				return value, true
			}
		}
	}
	return "", false
}
