// internal/crawler/parser.go
package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParsedPage holds what the verifier reads from a crawled page.
type ParsedPage struct {
	Title     string
	Canonical string
	NoIndex   bool
}

// ParseHTMLPage extracts the title, canonical link and robots directives of a page.
func ParseHTMLPage(body []byte) (*ParsedPage, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	parsed := &ParsedPage{
		Title: strings.Join(strings.Fields(doc.Find("title").First().Text()), " "),
	}

	if href, exists := doc.Find("link[rel='canonical']").First().Attr("href"); exists {
		parsed.Canonical = strings.TrimSpace(href)
	}

	doc.Find("meta[name='robots']").Each(func(i int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			for _, directive := range strings.Split(content, ",") {
				if strings.EqualFold(strings.TrimSpace(directive), "noindex") {
					parsed.NoIndex = true
				}
			}
		}
	})

	return parsed, nil
}
