package sitemap

import (
	"net/url"
	"strings"

	"github.com/romangod6/seo-site/internal/models"
)

// Collector enumerates the routable URLs of the site from its static content.
// It holds no mutable state and is safe for concurrent use.
type Collector struct {
	baseURL string
	content *models.Content
}

// NewCollector returns a Collector over content. When baseURL is empty the
// collected entries are root-relative paths.
func NewCollector(baseURL string, content *models.Content) *Collector {
	if content == nil {
		content = &models.Content{}
	}
	return &Collector{
		baseURL: strings.TrimRight(baseURL, "/"),
		content: content,
	}
}

// CollectAllURLs returns every bucket mapped to its URLs in declaration order.
// Empty buckets map to empty slices.
func (c *Collector) CollectAllURLs() map[Bucket][]string {
	all := make(map[Bucket][]string, len(AllBuckets))
	for _, b := range AllBuckets {
		all[b] = c.URLsForBucket(b)
	}
	return all
}

// URLsForBucket returns the URLs of a single bucket. Unknown buckets yield nil.
func (c *Collector) URLsForBucket(b Bucket) []string {
	switch b {
	case BucketPages:
		urls := make([]string, 0, len(c.content.Pages))
		for _, p := range c.content.Pages {
			urls = append(urls, c.absolute(p.Path))
		}
		return urls
	case BucketBlogs:
		urls := make([]string, 0, len(c.content.Blogs))
		for _, p := range c.content.Blogs {
			urls = append(urls, c.absolute("/blog/"+p.Slug))
		}
		return urls
	case BucketServices:
		urls := make([]string, 0, len(c.content.Services))
		for _, s := range c.content.Services {
			urls = append(urls, c.absolute("/services/"+s.Slug))
		}
		return urls
	case BucketPlatforms:
		urls := make([]string, 0, len(c.content.Platforms))
		for _, p := range c.content.Platforms {
			urls = append(urls, c.absolute("/platforms/"+p.Slug))
		}
		return urls
	case BucketIndustries:
		urls := make([]string, 0, len(c.content.Industries))
		for _, i := range c.content.Industries {
			urls = append(urls, c.absolute("/industries/"+i.Slug))
		}
		return urls
	case BucketCountries:
		urls := make([]string, 0, len(c.content.Countries))
		for _, country := range c.content.Countries {
			urls = append(urls, c.absolute("/locations/"+country.Slug))
		}
		return urls
	case BucketCities:
		urls := make([]string, 0)
		for _, country := range c.content.Countries {
			for _, city := range country.Cities {
				urls = append(urls, c.absolute("/locations/"+country.Slug+"/"+city.Slug))
			}
		}
		return urls
	}
	return nil
}

// absolute escapes each path segment and prefixes the base URL.
func (c *Collector) absolute(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return c.baseURL + strings.Join(segments, "/")
}
