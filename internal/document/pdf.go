package document

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A broken page should not hide the rest of the résumé.
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", ErrNoText
	}

	return text, nil
}
