package document

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// WordprocessingML namespace used in word/document.xml
const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const docxBodyPart = "word/document.xml"

// extractDOCX returns the paragraph texts of the main document part joined
// by newlines.
func extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	data, err := readZipFile(&r.Reader, docxBodyPart)
	if err != nil {
		return "", err
	}
	paragraphs, err := parseParagraphs(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// readZipFile reads a file from a zip archive.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// parseParagraphs walks a WordprocessingML body and returns one string per
// w:p element. Runs are concatenated; w:tab and w:br become \t and \n.
func parseParagraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(data)))

	var (
		paragraphs []string
		current    strings.Builder
		inPara     int
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != nsW {
				continue
			}
			switch t.Name.Local {
			case "p":
				if inPara == 0 {
					current.Reset()
				}
				inPara++
			case "t":
				inText = true
			case "tab":
				if inPara > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != nsW {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara--
				if inPara == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && inPara > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
