package matcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	files := []string{
		filepath.Join("bundle", "cr-009", "notes.pdf"),
		filepath.Join("bundle", "mail", "CR-001_email.msg"),
		filepath.Join("bundle", "CR-002.docx"),
	}

	tests := []struct {
		name   string
		id     string
		want   string
		wantOK bool
	}{
		{"case insensitive base name", "cr-001", files[1], true},
		{"raw identifier normalized", "  CR-002 ", files[2], true},
		{"directory names do not match", "cr-009", "", false},
		{"absent", "cr-404", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.id, files)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_MultipleCandidates(t *testing.T) {
	files := []string{"CR-001_email.msg", "CR-001_followup.eml"}

	got, ok := Match("cr-001", files)
	assert.True(t, ok)
	assert.Contains(t, files, got)
}

func TestMatch_SubstringOfLongerID(t *testing.T) {
	// "cr-1" is a substring of "cr-10"; the first listed file wins.
	got, ok := Match("cr-1", []string{"CR-10.pdf", "CR-1.pdf"})
	assert.True(t, ok)
	assert.Equal(t, "CR-10.pdf", got)
}

func TestUsable(t *testing.T) {
	assert.True(t, Usable("cr-001"))
	assert.False(t, Usable(""))
	assert.False(t, Usable(Normalize(" NaN ")))
}
