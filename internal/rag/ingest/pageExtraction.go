package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/dslipak/pdf"
)

const pageExtractTimeout = 10 * time.Second

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var (
	hyphenBreak  = regexp.MustCompile(`(\w+)-\n(\w+)`)
	paragraphGap = regexp.MustCompile(`\n\s*\n`)
)

func extractPDF(content []byte, logger *logger_i.Logger) ([]rawPage, error) {
	f, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		logger.Error("failed opening of pdf file", "error", err)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "page value is null", i)
			continue
		}

		text, err := protectExtract(page)
		if err != nil {
			// one bad page should not lose the rest of the document
			logger.Warn("Error parsing page content", "page", i, "error", err)
			continue
		}

		text = cleanPageText(text)
		if text == "" {
			continue
		}
		pages = append(pages, rawPage{
			Number:  i,
			Content: text,
		})
	}
	return pages, nil
}

// cleanPageText joins hyphenated line breaks and single newlines, keeping paragraph gaps.
func cleanPageText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = paragraphGap.ReplaceAllString(strings.TrimSpace(text), "\n\n")
	paragraphs := strings.Split(text, "\n\n")
	for i, p := range paragraphs {
		paragraphs[i] = strings.ReplaceAll(p, "\n", " ")
	}
	return strings.Join(paragraphs, "\n\n")
}

func protectExtract(page pdf.Page) (text string, err error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panicked: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("timeout")
	}
}
