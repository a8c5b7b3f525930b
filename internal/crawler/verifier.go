package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// VerifierConfig controls how a published sitemap is checked.
type VerifierConfig struct {
	UserAgent      string
	Parallelism    int
	RequestTimeout time.Duration
	AllowedDomains []string
	Logger         *slog.Logger
}

// PageResult is the outcome of fetching one URL listed in a sitemap.
type PageResult struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	Title  string `json:"title,omitempty"`
	Error  string `json:"error,omitempty"`
	// NoIndex is set when the page asks not to be indexed although the
	// sitemap lists it.
	NoIndex bool `json:"noindex,omitempty"`
	// Canonical is set when the page declares a canonical URL other than
	// the one the sitemap lists.
	Canonical string `json:"canonical,omitempty"`
}

// Report summarises a verification run.
type Report struct {
	Sitemaps []string     `json:"sitemaps"`
	Pages    []PageResult `json:"pages"`
	Broken   []PageResult `json:"broken"`
}

// OK reports whether every sitemap and page could be fetched.
func (r *Report) OK() bool {
	return len(r.Broken) == 0
}

// Verifier walks a sitemap index, its sitemaps and every listed page.
type Verifier struct {
	config VerifierConfig
	logger *slog.Logger
}

func NewVerifier(config VerifierConfig) *Verifier {
	if config.UserAgent == "" {
		config.UserAgent = "SEO Site Sitemap Verifier v1.0"
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 4
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 15 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{config: config, logger: logger}
}

func (v *Verifier) newCollector(ctx context.Context, domains []string, async bool) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(v.config.UserAgent),
		colly.AllowedDomains(domains...),
		colly.Async(async),
	)
	c.SetRequestTimeout(v.config.RequestTimeout)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	return c
}

// Verify fetches indexURL and everything it references. An error is returned
// only when the index itself cannot be read or ctx is cancelled; individual
// failures are listed in Report.Broken.
func (v *Verifier) Verify(ctx context.Context, indexURL string) (*Report, error) {
	u, err := url.Parse(indexURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid sitemap index URL %q", indexURL)
	}
	domains := v.config.AllowedDomains
	if len(domains) == 0 {
		domains = []string{u.Hostname()}
	}

	report := &Report{}
	var (
		mu       sync.Mutex
		pageURLs []string
		seen     = make(map[string]bool)
		failed   = make(map[string]bool)
	)

	// Sitemap documents are walked synchronously to gather the page list.
	sitemaps := v.newCollector(ctx, domains, false)

	sitemaps.OnXML("//sitemapindex/sitemap/loc", func(e *colly.XMLElement) {
		loc := strings.TrimSpace(e.Text)
		err := e.Request.Visit(loc)
		if err != nil && err != colly.ErrAlreadyVisited && !failed[loc] {
			report.Broken = append(report.Broken, PageResult{URL: loc, Error: err.Error()})
		}
	})

	sitemaps.OnXML("//urlset/url/loc", func(e *colly.XMLElement) {
		loc := strings.TrimSpace(e.Text)
		if !seen[loc] {
			seen[loc] = true
			pageURLs = append(pageURLs, loc)
		}
	})

	sitemaps.OnResponse(func(r *colly.Response) {
		report.Sitemaps = append(report.Sitemaps, r.Request.URL.String())
		v.logger.Debug("Fetched sitemap", "url", r.Request.URL.String(), "status", r.StatusCode)
	})

	sitemaps.OnError(func(r *colly.Response, err error) {
		failed[r.Request.URL.String()] = true
		report.Broken = append(report.Broken, PageResult{
			URL:    r.Request.URL.String(),
			Status: r.StatusCode,
			Error:  err.Error(),
		})
	})

	v.logger.Info("Verifying sitemap", "index", indexURL)
	if err := sitemaps.Visit(indexURL); err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap index: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := v.newCollector(ctx, domains, true)
	if err := pages.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: v.config.Parallelism,
	}); err != nil {
		return nil, fmt.Errorf("failed to configure crawler: %w", err)
	}

	record := func(res PageResult) {
		mu.Lock()
		defer mu.Unlock()
		report.Pages = append(report.Pages, res)
		if res.Error != "" {
			report.Broken = append(report.Broken, res)
		}
	}

	pages.OnResponse(func(r *colly.Response) {
		res := PageResult{URL: r.Request.URL.String(), Status: r.StatusCode}
		if strings.Contains(strings.ToLower(r.Headers.Get("Content-Type")), "html") {
			parsed, err := ParseHTMLPage(r.Body)
			if err != nil {
				v.logger.Warn("Unparseable page", "url", res.URL, "error", err)
			} else {
				res.Title = parsed.Title
				res.NoIndex = parsed.NoIndex
				if parsed.Canonical != "" {
					if canonical := r.Request.AbsoluteURL(parsed.Canonical); canonical != res.URL {
						res.Canonical = canonical
					}
				}
			}
		}
		record(res)
	})

	pages.OnError(func(r *colly.Response, err error) {
		v.logger.Warn("Broken sitemap URL", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)
		record(PageResult{
			URL:    r.Request.URL.String(),
			Status: r.StatusCode,
			Error:  err.Error(),
		})
	})

	for _, loc := range pageURLs {
		if err := pages.Visit(loc); err != nil {
			record(PageResult{URL: loc, Error: err.Error()})
		}
	}
	pages.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(report.Pages, func(i, j int) bool { return report.Pages[i].URL < report.Pages[j].URL })
	sort.Slice(report.Broken, func(i, j int) bool { return report.Broken[i].URL < report.Broken[j].URL })

	v.logger.Info("Sitemap verification finished",
		"sitemaps", len(report.Sitemaps),
		"pages", len(report.Pages),
		"broken", len(report.Broken),
	)
	return report, nil
}
