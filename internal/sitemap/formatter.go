package sitemap

import (
	"encoding/xml"
	"fmt"

	"github.com/romangod6/seo-site/internal/models"
)

// PageSize is the number of URLs rendered into one sitemap page.
const PageSize = 1000

// PageCount returns the number of pages n entries occupy.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		panic(fmt.Sprintf("sitemap: invalid page size %d", pageSize))
	}
	return (n + pageSize - 1) / pageSize
}

// PaginateURLs splits urls into consecutive chunks of at most pageSize
// entries. An empty input yields no chunks. It panics if pageSize is not
// positive.
func PaginateURLs(urls []string, pageSize int) [][]string {
	pages := make([][]string, 0, PageCount(len(urls), pageSize))
	for start := 0; start < len(urls); start += pageSize {
		end := min(start+pageSize, len(urls))
		pages = append(pages, urls[start:end:end])
	}
	return pages
}

// GenerateSitemapXML renders a urlset document with one <url> per entry.
func GenerateSitemapXML(urls []string) ([]byte, error) {
	set := models.URLSet{
		XMLNs: models.SitemapNamespace,
		URLs:  make([]models.URL, 0, len(urls)),
	}
	for i, u := range urls {
		if u == "" {
			return nil, fmt.Errorf("sitemap entry %d is empty", i)
		}
		set.URLs = append(set.URLs, models.URL{Loc: u})
	}
	return marshalDocument(set)
}

// GenerateSitemapIndexXML renders a sitemapindex document listing entries in
// the order given.
func GenerateSitemapIndexXML(entries []models.SitemapRef) ([]byte, error) {
	for i, e := range entries {
		if e.Loc == "" {
			return nil, fmt.Errorf("sitemap index entry %d has no location", i)
		}
	}
	return marshalDocument(models.SitemapIndex{
		XMLNs:    models.SitemapNamespace,
		Sitemaps: entries,
	})
}

func marshalDocument(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}
	doc := make([]byte, 0, len(xml.Header)+len(body)+1)
	doc = append(doc, xml.Header...)
	doc = append(doc, body...)
	doc = append(doc, '\n')
	return doc, nil
}
