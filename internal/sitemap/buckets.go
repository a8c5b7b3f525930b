// Package sitemap collects the site's routable URLs into buckets and renders
// them as paginated sitemap documents.
package sitemap

import "strings"

// Bucket is a named category of site content with its own sitemap lineage.
type Bucket string

const (
	BucketPages      Bucket = "pages"
	BucketBlogs      Bucket = "blogs"
	BucketServices   Bucket = "services"
	BucketPlatforms  Bucket = "platforms"
	BucketIndustries Bucket = "industries"
	BucketCountries  Bucket = "countries"
	BucketCities     Bucket = "cities"
)

// AllBuckets lists every bucket in index order.
var AllBuckets = []Bucket{
	BucketPages,
	BucketBlogs,
	BucketServices,
	BucketPlatforms,
	BucketIndustries,
	BucketCountries,
	BucketCities,
}

// IsValidBucket reports whether name is one of the known bucket names.
func IsValidBucket(name string) bool {
	for _, b := range AllBuckets {
		if string(b) == name {
			return true
		}
	}
	return false
}

// BucketNames returns the valid bucket names joined for display.
func BucketNames() string {
	names := make([]string, len(AllBuckets))
	for i, b := range AllBuckets {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}
