package document

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	blockTagRegex   = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/tr|/li|/h[1-6])\b[^>]*>`)
	blankLinesRegex = regexp.MustCompile(`\n[ \t]*\n+`)
)

// extractEML returns the subject and the plain-text body of a MIME message,
// newline separated. HTML-only messages are reduced to text.
func extractEML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	env, err := enmime.ReadEnvelope(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse EML: %w", err)
	}

	body := env.Text
	if strings.TrimSpace(body) == "" && env.HTML != "" {
		body = stripHTML(env.HTML)
	}
	return joinSubjectBody(env.GetHeader("Subject"), body), nil
}

func joinSubjectBody(subject, body string) string {
	return subject + "\n" + normalizeNewlines(body)
}

// stripHTML converts an HTML body into line-oriented plain text.
func stripHTML(s string) string {
	s = blockTagRegex.ReplaceAllString(s, "\n")
	s = tagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = blankLinesRegex.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
