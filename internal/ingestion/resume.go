package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrEmptyResume is returned when a resume has no readable text.
var ErrEmptyResume = errors.New("resume text is empty")

// ResumeText turns a pasted or uploaded resume into clean plain text.
// HTML is detected from contentType or, failing that, from the content itself.
func ResumeText(raw, contentType string) (string, error) {
	text := raw
	if isHTML(raw, contentType) {
		var err error
		text, err = HTMLToText(raw)
		if err != nil {
			return "", err
		}
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrEmptyResume
	}
	return text, nil
}

// HTMLToText strips markup, keeping one line per block element and "- " for list items.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Find("body").Text(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n"), nil
}

func isHTML(raw, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(trimmed, "<!doctype html") ||
		strings.HasPrefix(trimmed, "<html") ||
		strings.HasPrefix(trimmed, "<body")
}
