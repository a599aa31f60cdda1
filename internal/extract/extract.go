// Package extract pulls lyric text out of HTML pages.
// It supports targeted extraction via a CSS selector and falls back to
// readability-based main-content extraction when no selector is given.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// blankRuns collapses runs of three or more newlines left behind by HTML
// block elements.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// LyricsFromHTML extracts lyric text from an HTML document.
//
// Parameters:
//   - content: io.Reader containing HTML content
//   - selector: optional CSS selector targeting the lyrics container
//     (empty string for readability-based main content extraction)
//   - baseURL: optional URL for context during readability extraction
//     (can be nil)
//
// Returns cleaned plain text or an error if nothing could be extracted.
func LyricsFromHTML(content io.Reader, selector string, baseURL *url.URL) (string, error) {
	if selector != "" {
		return extractWithSelector(content, selector)
	}
	return extractMainContent(content, baseURL)
}

// extractMainContent uses go-readability to extract the main article text
func extractMainContent(content io.Reader, baseURL *url.URL) (string, error) {
	// use empty URL if none provided
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	text := cleanText(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no text extracted")
	}
	return text, nil
}

// extractWithSelector uses a CSS selector to extract specific content
func extractWithSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	// join the text of all selected elements, one block per element
	var parts []string
	selection.Each(func(i int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return "", fmt.Errorf("no text extracted from selection")
	}

	return strings.Join(parts, "\n\n"), nil
}

// cleanText trims each line and collapses excessive blank lines while
// preserving the lyric's line structure.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	joined := strings.Join(lines, "\n")
	joined = blankRuns.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
