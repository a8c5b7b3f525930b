package sitemap

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/romangod6/seo-site/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContent() *models.Content {
	return &models.Content{
		Pages:     []models.Page{{Path: "/"}, {Path: "/about"}, {Path: "/contact"}},
		Blogs:     []models.BlogPost{{Slug: "core-web-vitals"}},
		Services:  []models.Service{{Slug: "technical-seo"}, {Slug: "local-seo"}},
		Platforms: []models.Platform{{Slug: "shopify"}},
		Industries: []models.Industry{
			{Slug: "legal"},
		},
		Countries: []models.Country{
			{Slug: "canada", Cities: []models.City{{Slug: "toronto"}, {Slug: "vancouver"}}},
			{Slug: "australia", Cities: []models.City{{Slug: "sydney"}}},
		},
	}
}

func manyServices(n int) *models.Content {
	c := &models.Content{}
	for i := 0; i < n; i++ {
		c.Services = append(c.Services, models.Service{Slug: fmt.Sprintf("service-%d", i)})
	}
	return c
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 17, 23, 30, 0, 0, time.UTC)
}

func TestIsValidBucket(t *testing.T) {
	for _, name := range []string{"pages", "blogs", "services", "platforms", "industries", "countries", "cities"} {
		assert.True(t, IsValidBucket(name), name)
	}
	for _, name := range []string{"", "foo", "Pages", "page", "services ", "cities-1"} {
		assert.False(t, IsValidBucket(name), name)
	}
}

func TestCollectAllURLs(t *testing.T) {
	c := NewCollector("https://example.com/", testContent())
	all := c.CollectAllURLs()

	require.Len(t, all, len(AllBuckets))
	assert.Equal(t, []string{"https://example.com/", "https://example.com/about", "https://example.com/contact"}, all[BucketPages])
	assert.Equal(t, []string{"https://example.com/blog/core-web-vitals"}, all[BucketBlogs])
	assert.Equal(t, []string{"https://example.com/services/technical-seo", "https://example.com/services/local-seo"}, all[BucketServices])
	assert.Equal(t, []string{"https://example.com/platforms/shopify"}, all[BucketPlatforms])
	assert.Equal(t, []string{"https://example.com/industries/legal"}, all[BucketIndustries])
	assert.Equal(t, []string{"https://example.com/locations/canada", "https://example.com/locations/australia"}, all[BucketCountries])
	assert.Equal(t, []string{
		"https://example.com/locations/canada/toronto",
		"https://example.com/locations/canada/vancouver",
		"https://example.com/locations/australia/sydney",
	}, all[BucketCities])
}

func TestCollectAllURLsEmptySite(t *testing.T) {
	all := NewCollector("", nil).CollectAllURLs()
	require.Len(t, all, len(AllBuckets))
	for _, b := range AllBuckets {
		assert.NotNil(t, all[b], b)
		assert.Empty(t, all[b], b)
	}
}

func TestCollectorRootRelative(t *testing.T) {
	c := NewCollector("", testContent())
	assert.Equal(t, "/about", c.URLsForBucket(BucketPages)[1])
	assert.Nil(t, c.URLsForBucket(Bucket("foo")))
}

func TestCollectorEscapesPathSegments(t *testing.T) {
	content := &models.Content{
		Pages: []models.Page{{Path: "/"}, {Path: "/case studies/q1"}},
		Countries: []models.Country{{
			Slug:   "switzerland",
			Cities: []models.City{{Slug: "zürich"}, {Slug: "100%-growth"}},
		}},
	}
	c := NewCollector("https://example.com", content)

	assert.Equal(t, []string{
		"https://example.com/locations/switzerland/z%C3%BCrich",
		"https://example.com/locations/switzerland/100%25-growth",
	}, c.URLsForBucket(BucketCities))
	assert.Equal(t, "https://example.com/", c.URLsForBucket(BucketPages)[0])
	assert.Equal(t, "https://example.com/case%20studies/q1", c.URLsForBucket(BucketPages)[1])

	for _, urls := range c.CollectAllURLs() {
		doc, err := GenerateSitemapXML(urls)
		require.NoError(t, err)

		var set models.URLSet
		require.NoError(t, xml.Unmarshal(doc, &set))
		for _, u := range set.URLs {
			parsed, err := url.Parse(u.Loc)
			require.NoError(t, err, u.Loc)
			assert.Equal(t, "example.com", parsed.Host)
			for _, r := range u.Loc {
				assert.Less(t, r, rune(0x80), u.Loc)
			}
		}
	}
}

func TestCollectorDeterministic(t *testing.T) {
	c := NewCollector("https://example.com", testContent())
	assert.Equal(t, c.CollectAllURLs(), c.CollectAllURLs())
}

func TestURLsForBucketMatchesCollectAll(t *testing.T) {
	c := NewCollector("https://example.com", testContent())
	all := c.CollectAllURLs()
	for _, b := range AllBuckets {
		assert.Equal(t, all[b], c.URLsForBucket(b), b)
	}
}

func TestPaginateURLs(t *testing.T) {
	for _, size := range []int{1, 2, 3, 7, 1000} {
		for _, n := range []int{0, 1, 2, 3, 6, 7, 8, 20, 1001} {
			urls := make([]string, n)
			for i := range urls {
				urls[i] = fmt.Sprintf("/u/%d", i)
			}

			pages := PaginateURLs(urls, size)
			require.Len(t, pages, (n+size-1)/size, "n=%d size=%d", n, size)

			var joined []string
			for _, p := range pages {
				assert.LessOrEqual(t, len(p), size)
				assert.NotEmpty(t, p)
				joined = append(joined, p...)
			}
			if n == 0 {
				assert.Empty(t, joined)
			} else {
				assert.Equal(t, urls, joined)
			}
		}
	}
}

func TestPaginateURLsEmpty(t *testing.T) {
	assert.Empty(t, PaginateURLs(nil, 1000))
	assert.Empty(t, PaginateURLs([]string{}, 1))
}

func TestPaginateURLsFifteenHundred(t *testing.T) {
	urls := NewCollector("", manyServices(1500)).URLsForBucket(BucketServices)
	pages := PaginateURLs(urls, PageSize)
	require.Len(t, pages, 2)
	assert.Len(t, pages[0], 1000)
	assert.Len(t, pages[1], 500)
}

func TestPaginateURLsInvalidSize(t *testing.T) {
	assert.Panics(t, func() { PaginateURLs([]string{"/"}, 0) })
	assert.Panics(t, func() { PaginateURLs([]string{"/"}, -1) })
}

func TestPaginateURLsChunksDoNotAlias(t *testing.T) {
	urls := []string{"/a", "/b", "/c"}
	pages := PaginateURLs(urls, 2)
	pages[0] = append(pages[0], "/x")
	assert.Equal(t, "/c", urls[2])
}

func TestGenerateSitemapXML(t *testing.T) {
	doc, err := GenerateSitemapXML([]string{"https://example.com/", "https://example.com/search?a=1&b=2"})
	require.NoError(t, err)

	s := string(doc)
	assert.True(t, strings.HasPrefix(s, xml.Header))
	assert.Contains(t, s, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, s, "<loc>https://example.com/search?a=1&amp;b=2</loc>")

	var set models.URLSet
	require.NoError(t, xml.Unmarshal(doc, &set))
	require.Len(t, set.URLs, 2)
	assert.Equal(t, "https://example.com/", set.URLs[0].Loc)
	assert.Equal(t, "https://example.com/search?a=1&b=2", set.URLs[1].Loc)
}

func TestGenerateSitemapXMLEmpty(t *testing.T) {
	doc, err := GenerateSitemapXML(nil)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "<url>")

	var set models.URLSet
	require.NoError(t, xml.Unmarshal(doc, &set))
	assert.Empty(t, set.URLs)
}

func TestGenerateSitemapXMLRejectsEmptyEntry(t *testing.T) {
	_, err := GenerateSitemapXML([]string{"/", ""})
	require.Error(t, err)
}

func TestGenerateSitemapIndexXML(t *testing.T) {
	entries := []models.SitemapRef{
		{Loc: "https://example.com/sitemaps/pages-1.xml", LastMod: "2024-05-17"},
		{Loc: "https://example.com/sitemaps/blogs-1.xml", LastMod: "2024-05-17"},
	}
	doc, err := GenerateSitemapIndexXML(entries)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)

	var idx models.SitemapIndex
	require.NoError(t, xml.Unmarshal(doc, &idx))
	assert.Equal(t, entries, idx.Sitemaps)
}

func TestParseSlug(t *testing.T) {
	tests := []struct {
		slug    string
		bucket  string
		page    int
		wantErr error
	}{
		{slug: "pages-1.xml", bucket: "pages", page: 1},
		{slug: "services-12.xml", bucket: "services", page: 12},
		{slug: "foo-3.xml", bucket: "foo", page: 3},
		{slug: "services-0.xml", bucket: "services", page: 0},
		{slug: "services.xml", wantErr: ErrInvalidSlug},
		{slug: "services-1", wantErr: ErrInvalidSlug},
		{slug: "services--1.xml", wantErr: ErrInvalidSlug},
		{slug: "services-1a.xml", wantErr: ErrInvalidSlug},
		{slug: "ser_vices-1.xml", wantErr: ErrInvalidSlug},
		{slug: "services-99999999999999999999999.xml", wantErr: ErrInvalidPage},
		{slug: "foo-99999999999999999999999.xml", wantErr: ErrUnknownBucket},
		{slug: "services-01.xml", wantErr: ErrInvalidSlug},
		{slug: "services-00.xml", wantErr: ErrInvalidSlug},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			bucket, page, err := ParseSlug(tt.slug)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.page, page)
		})
	}
}

func TestServiceIndexSkipsEmptyBuckets(t *testing.T) {
	content := &models.Content{Pages: []models.Page{{Path: "/"}, {Path: "/a"}, {Path: "/b"}}}
	svc := NewService(NewCollector("https://example.com", content), "https://example.com", fixedClock)

	entries := svc.IndexEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com/sitemaps/pages-1.xml", entries[0].Loc)
	assert.Equal(t, "2024-05-17", entries[0].LastMod)
}

func TestServiceRenderPage(t *testing.T) {
	svc := NewService(NewCollector("", manyServices(1500)), "", fixedClock)

	doc, err := svc.RenderPage("services", 2)
	require.NoError(t, err)
	var set models.URLSet
	require.NoError(t, xml.Unmarshal(doc, &set))
	require.Len(t, set.URLs, 500)
	assert.Equal(t, "/services/service-1000", set.URLs[0].Loc)

	_, err = svc.RenderPage("services", 3)
	require.ErrorIs(t, err, ErrPageNotFound)
	assert.Contains(t, err.Error(), "Page 3 does not exist")
	assert.Contains(t, err.Error(), "Total pages: 2")

	_, err = svc.RenderPage("services", 0)
	require.ErrorIs(t, err, ErrInvalidPage)

	_, err = svc.RenderPage("foo", 1)
	require.ErrorIs(t, err, ErrUnknownBucket)
	assert.Contains(t, err.Error(), BucketNames())

	_, err = svc.RenderPage("blogs", 1)
	require.ErrorIs(t, err, ErrPageNotFound)
	assert.Contains(t, err.Error(), "Total pages: 0")
}

func TestServiceIndexAndPagesAgree(t *testing.T) {
	content := manyServices(2500)
	content.Pages = []models.Page{{Path: "/"}}
	svc := NewService(NewCollector("", content), "", fixedClock)

	perBucket := map[Bucket]int{}
	for _, e := range svc.IndexEntries() {
		bucket, page, err := ParseSlug(strings.TrimPrefix(e.Loc, "/sitemaps/"))
		require.NoError(t, err)
		_, err = svc.RenderPage(bucket, page)
		require.NoError(t, err, e.Loc)
		perBucket[Bucket(bucket)]++
	}
	assert.Equal(t, map[Bucket]int{BucketPages: 1, BucketServices: 3}, perBucket)

	for b, n := range perBucket {
		_, err := svc.RenderPage(string(b), n+1)
		require.ErrorIs(t, err, ErrPageNotFound)
	}
}

func TestServiceStaticSlugs(t *testing.T) {
	content := manyServices(1001)
	content.Blogs = []models.BlogPost{{Slug: "a"}}
	svc := NewService(NewCollector("", content), "", fixedClock)

	assert.Equal(t, []string{"blogs-1.xml", "services-1.xml", "services-2.xml"}, svc.StaticSlugs())
}

func TestServiceRenderIndexWithStats(t *testing.T) {
	svc := NewService(NewCollector("", testContent()), "", fixedClock)

	doc, stats, err := svc.RenderIndexWithStats()
	require.NoError(t, err)
	assert.Equal(t, svc.Stats(), stats)

	expected, err := svc.RenderIndex()
	require.NoError(t, err)
	assert.Equal(t, expected, doc)
}

func TestServiceStats(t *testing.T) {
	svc := NewService(NewCollector("", testContent()), "", fixedClock)
	stats := svc.Stats()
	require.Len(t, stats, len(AllBuckets))
	assert.Equal(t, BucketStats{Bucket: BucketCities, URLs: 3, Pages: 1}, stats[6])
}
