package models

// Content is the site's static route data. It is loaded once per process and
// never mutated afterwards.
type Content struct {
	Pages      []Page     `yaml:"pages" json:"pages"`
	Blogs      []BlogPost `yaml:"blogs" json:"blogs"`
	Services   []Service  `yaml:"services" json:"services"`
	Platforms  []Platform `yaml:"platforms" json:"platforms"`
	Industries []Industry `yaml:"industries" json:"industries"`
	Countries  []Country  `yaml:"countries" json:"countries"`
}

// Page is a top level static page addressed by its root-relative path.
type Page struct {
	Path  string `yaml:"path" json:"path"`
	Title string `yaml:"title" json:"title"`
}

type BlogPost struct {
	Slug      string `yaml:"slug" json:"slug"`
	Title     string `yaml:"title" json:"title"`
	Published string `yaml:"published,omitempty" json:"published,omitempty"`
}

type Service struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}

type Platform struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}

type Industry struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}

// Country groups the city landing pages served under it.
type Country struct {
	Slug   string `yaml:"slug" json:"slug"`
	Title  string `yaml:"title" json:"title"`
	Cities []City `yaml:"cities,omitempty" json:"cities,omitempty"`
}

type City struct {
	Slug  string `yaml:"slug" json:"slug"`
	Title string `yaml:"title" json:"title"`
}
