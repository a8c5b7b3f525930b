// internal/models/sitemap.go
package models

import "encoding/xml"

// SitemapNamespace is the XML namespace of the sitemap protocol.
const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet represents the structure of an XML sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNs   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc string `xml:"loc"`
}

// SitemapIndex represents a sitemap index document.
type SitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	XMLNs    string       `xml:"xmlns,attr"`
	Sitemaps []SitemapRef `xml:"sitemap"`
}

// SitemapRef points at one rendered sitemap page.
type SitemapRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}
