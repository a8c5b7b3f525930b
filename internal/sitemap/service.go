package sitemap

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/romangod6/seo-site/internal/models"
)

var (
	ErrInvalidSlug   = errors.New("invalid sitemap slug")
	ErrInvalidPage   = errors.New("invalid page number")
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrPageNotFound  = errors.New("page not found")
)

// RequestError carries a caller facing message for one of the sentinel errors.
type RequestError struct {
	Err     error
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

var slugPattern = regexp.MustCompile(`^([A-Za-z]+)-(0|[1-9]\d*)\.xml$`)

// BucketStats summarises one bucket for the index.
type BucketStats struct {
	Bucket Bucket `json:"bucket"`
	URLs   int    `json:"urls"`
	Pages  int    `json:"pages"`
}

// Service renders the sitemap index and its pages. The index and the page
// routes go through the same pagination so their page counts always agree.
type Service struct {
	collector *Collector
	baseURL   string
	now       func() time.Time
}

// NewService returns a Service. now defaults to time.Now.
func NewService(collector *Collector, baseURL string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		collector: collector,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       now,
	}
}

// Slug returns the file name of a bucket page.
func Slug(b Bucket, page int) string {
	return fmt.Sprintf("%s-%d.xml", b, page)
}

// ParseSlug splits a "{bucket}-{page}.xml" slug. Page numbers with leading
// zeros are rejected so each page has a single URL. Bucket and page range
// validation happen in RenderPage, except that an unknown bucket wins over an
// unparseable page number.
func ParseSlug(slug string) (string, int, error) {
	m := slugPattern.FindStringSubmatch(slug)
	if m == nil {
		return "", 0, &RequestError{
			Err:     ErrInvalidSlug,
			Message: fmt.Sprintf("Invalid sitemap %q. Expected format: {bucket}-{page}.xml", slug),
		}
	}
	page, err := strconv.Atoi(m[2])
	if err != nil {
		if !IsValidBucket(m[1]) {
			return "", 0, unknownBucketError(m[1])
		}
		return "", 0, &RequestError{
			Err:     ErrInvalidPage,
			Message: fmt.Sprintf("Invalid page number %q", m[2]),
		}
	}
	return m[1], page, nil
}

// Stats reports URL and page counts for every bucket in index order.
func (s *Service) Stats() []BucketStats {
	all := s.collector.CollectAllURLs()
	stats := make([]BucketStats, 0, len(AllBuckets))
	for _, b := range AllBuckets {
		urls := all[b]
		stats = append(stats, BucketStats{
			Bucket: b,
			URLs:   len(urls),
			Pages:  len(PaginateURLs(urls, PageSize)),
		})
	}
	return stats
}

// IndexEntries returns one entry per page of every non-empty bucket.
func (s *Service) IndexEntries() []models.SitemapRef {
	return s.indexEntries(s.Stats())
}

func (s *Service) indexEntries(stats []BucketStats) []models.SitemapRef {
	lastMod := s.now().UTC().Format("2006-01-02")
	var entries []models.SitemapRef
	for _, st := range stats {
		for page := 1; page <= st.Pages; page++ {
			entries = append(entries, models.SitemapRef{
				Loc:     s.baseURL + "/sitemaps/" + Slug(st.Bucket, page),
				LastMod: lastMod,
			})
		}
	}
	return entries
}

// RenderIndex renders the sitemap index document.
func (s *Service) RenderIndex() ([]byte, error) {
	doc, _, err := s.RenderIndexWithStats()
	return doc, err
}

// RenderIndexWithStats renders the index and returns the bucket stats it was
// built from, collecting the site's URLs once.
func (s *Service) RenderIndexWithStats() ([]byte, []BucketStats, error) {
	stats := s.Stats()
	doc, err := GenerateSitemapIndexXML(s.indexEntries(stats))
	if err != nil {
		return nil, nil, err
	}
	return doc, stats, nil
}

// RenderPage renders a single page of a bucket. Pages are numbered from 1.
func (s *Service) RenderPage(bucket string, page int) ([]byte, error) {
	if !IsValidBucket(bucket) {
		return nil, unknownBucketError(bucket)
	}
	if page < 1 {
		return nil, &RequestError{
			Err:     ErrInvalidPage,
			Message: fmt.Sprintf("Invalid page number %d. Page numbers start at 1", page),
		}
	}

	pages := PaginateURLs(s.collector.URLsForBucket(Bucket(bucket)), PageSize)
	if page > len(pages) {
		return nil, &RequestError{
			Err:     ErrPageNotFound,
			Message: fmt.Sprintf("Page %d does not exist for bucket %s. Total pages: %d", page, bucket, len(pages)),
		}
	}
	return GenerateSitemapXML(pages[page-1])
}

// StaticSlugs lists every valid "{bucket}-{page}.xml" combination.
func (s *Service) StaticSlugs() []string {
	var slugs []string
	for _, st := range s.Stats() {
		for page := 1; page <= st.Pages; page++ {
			slugs = append(slugs, Slug(st.Bucket, page))
		}
	}
	return slugs
}

func unknownBucketError(bucket string) error {
	return &RequestError{
		Err:     ErrUnknownBucket,
		Message: fmt.Sprintf("Unknown bucket %q. Valid buckets: %s", bucket, BucketNames()),
	}
}
