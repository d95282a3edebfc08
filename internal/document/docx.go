package document

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// WordprocessingML namespace used by w:p, w:t and friends.
const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

func readDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", docxBody, err)
		}
		defer rc.Close()

		return docxParagraphs(rc)
	}

	return "", fmt.Errorf("%s not found in docx", docxBody)
}

// paragraph collects the text of one w:p. Runs counts open w:r elements so
// tab stop definitions in paragraph properties are not taken for content.
type paragraph struct {
	text strings.Builder
	runs int
}

// docxParagraphs walks the document body and returns paragraph texts joined by
// newlines. Runs inside a paragraph are concatenated; tabs and breaks are kept.
// Paragraphs nested in text boxes are emitted on their own, before the
// paragraph that anchors them.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		open       []*paragraph
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxBody, err)
		}

		var current *paragraph
		if len(open) > 0 {
			current = open[len(open)-1]
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "p":
				open = append(open, &paragraph{})
			case "r":
				if current != nil {
					current.runs++
				}
			case "t":
				inText = true
			case "tab":
				if current != nil && current.runs > 0 {
					current.text.WriteString("\t")
				}
			case "br", "cr":
				if current != nil && current.runs > 0 {
					current.text.WriteString("\n")
				}
			}
		case xml.EndElement:
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = false
			case "r":
				if current != nil && current.runs > 0 {
					current.runs--
				}
			case "p":
				if current != nil {
					paragraphs = append(paragraphs, current.text.String())
					open = open[:len(open)-1]
				}
			}
		case xml.CharData:
			if inText && current != nil {
				current.text.Write(el)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
