// Package content loads the site's static route data.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/romangod6/seo-site/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultContent []byte

// Default returns the content shipped with the binary.
func Default() (*models.Content, error) {
	c, err := Parse(defaultContent)
	if err != nil {
		return nil, fmt.Errorf("embedded content: %w", err)
	}
	return c, nil
}

// Load reads and validates a YAML content file. An empty path selects the
// embedded default.
func Load(path string) (*models.Content, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML content and validates it.
func Parse(data []byte) (*models.Content, error) {
	var c models.Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every route is addressable and unique within its
// collection. All problems are reported together.
func Validate(c *models.Content) error {
	var errs []error

	seen := make(map[string]bool)
	for i, p := range c.Pages {
		switch {
		case p.Path == "":
			errs = append(errs, fmt.Errorf("pages[%d]: empty path", i))
		case !strings.HasPrefix(p.Path, "/"):
			errs = append(errs, fmt.Errorf("pages[%d]: path %q must start with /", i, p.Path))
		case seen[p.Path]:
			errs = append(errs, fmt.Errorf("pages[%d]: duplicate path %q", i, p.Path))
		}
		seen[p.Path] = true
	}

	errs = append(errs, checkSlugs("blogs", len(c.Blogs), func(i int) string { return c.Blogs[i].Slug })...)
	errs = append(errs, checkSlugs("services", len(c.Services), func(i int) string { return c.Services[i].Slug })...)
	errs = append(errs, checkSlugs("platforms", len(c.Platforms), func(i int) string { return c.Platforms[i].Slug })...)
	errs = append(errs, checkSlugs("industries", len(c.Industries), func(i int) string { return c.Industries[i].Slug })...)
	errs = append(errs, checkSlugs("countries", len(c.Countries), func(i int) string { return c.Countries[i].Slug })...)
	for _, country := range c.Countries {
		cities := country.Cities
		errs = append(errs, checkSlugs("countries."+country.Slug+".cities", len(cities), func(i int) string { return cities[i].Slug })...)
	}

	return errors.Join(errs...)
}

func checkSlugs(collection string, n int, slug func(int) string) []error {
	var errs []error
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		s := slug(i)
		switch {
		case s == "":
			errs = append(errs, fmt.Errorf("%s[%d]: empty slug", collection, i))
		case strings.ContainsAny(s, "/ ?#"):
			errs = append(errs, fmt.Errorf("%s[%d]: slug %q contains reserved characters", collection, i, s))
		case seen[s]:
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate slug %q", collection, i, s))
		}
		seen[s] = true
	}
	return errs
}
