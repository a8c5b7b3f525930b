// Package export pre-generates the sitemap documents as static files.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/romangod6/seo-site/internal/sitemap"
)

// IndexFile and PagesDir mirror the routes served by the site server.
const (
	IndexFile = "sitemap.xml"
	PagesDir  = "sitemaps"
)

// Write renders the index and every bucket page below outDir and returns the
// written paths in render order. Each file is replaced atomically, so a
// concurrent reader never sees a partial document.
func Write(svc *sitemap.Service, outDir string) ([]string, error) {
	pagesDir := filepath.Join(outDir, PagesDir)
	if err := os.MkdirAll(pagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	index, err := svc.RenderIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap index: %w", err)
	}
	indexPath := filepath.Join(outDir, IndexFile)
	if err := atomic.WriteFile(indexPath, bytes.NewReader(index)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", indexPath, err)
	}
	written := []string{indexPath}

	for _, slug := range svc.StaticSlugs() {
		bucket, page, err := sitemap.ParseSlug(slug)
		if err != nil {
			return written, err
		}
		doc, err := svc.RenderPage(bucket, page)
		if err != nil {
			return written, fmt.Errorf("failed to render %s: %w", slug, err)
		}

		path := filepath.Join(pagesDir, slug)
		if err := atomic.WriteFile(path, bytes.NewReader(doc)); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}
