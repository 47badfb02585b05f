package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// MAPI property ids stored as top-level streams of an Outlook .msg file.
const (
	propSubject = "0037"
	propBody    = "1000"

	typeUnicode = "001F"
	typeString8 = "001E"

	substgPrefix = "__substg1.0_"
)

var errNoMessageStreams = errors.New("no subject or body streams in message")

// extractMSG reads subject and plain body from an Outlook compound file.
func extractMSG(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := mscfb.New(f)
	if err != nil {
		return "", fmt.Errorf("failed to open MSG: %w", err)
	}

	props := make(map[string]string)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		// Attachments and recipients live in sub-storages with their own
		// subject/body streams; only the message's own properties count.
		if len(entry.Path) != 0 {
			continue
		}
		id, typ, ok := parseSubstgName(entry.Name)
		if !ok || (id != propSubject && id != propBody) {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", entry.Name, err)
		}
		value, err := decodeProperty(typ, data)
		if err != nil {
			return "", fmt.Errorf("failed to decode %s: %w", entry.Name, err)
		}
		// Prefer the unicode variant when both are present.
		if _, seen := props[id]; !seen || typ == typeUnicode {
			props[id] = value
		}
	}

	subject, hasSubject := props[propSubject]
	body, hasBody := props[propBody]
	if !hasSubject && !hasBody {
		return "", errNoMessageStreams
	}
	return joinSubjectBody(subject, body), nil
}

// parseSubstgName splits "__substg1.0_0037001F" into ("0037", "001F").
func parseSubstgName(name string) (id, typ string, ok bool) {
	if !strings.HasPrefix(name, substgPrefix) {
		return "", "", false
	}
	tag := strings.ToUpper(strings.TrimPrefix(name, substgPrefix))
	if len(tag) != 8 {
		return "", "", false
	}
	id, typ = tag[:4], tag[4:]
	if typ != typeUnicode && typ != typeString8 {
		return "", "", false
	}
	return id, typ, true
}

// decodeProperty decodes a PT_UNICODE (UTF-16LE) or PT_STRING8 (assumed
// Windows-1252) property value, dropping trailing NULs.
func decodeProperty(typ string, data []byte) (string, error) {
	var (
		out []byte
		err error
	)
	switch typ {
	case typeUnicode:
		out, err = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	case typeString8:
		out, err = charmap.Windows1252.NewDecoder().Bytes(data)
	default:
		return "", fmt.Errorf("unsupported property type %s", typ)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\x00"), nil
}
