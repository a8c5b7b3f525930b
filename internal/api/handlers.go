package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/romangod6/seo-site/internal/metrics"
	"github.com/romangod6/seo-site/internal/sitemap"
)

const (
	xmlContentType = "application/xml; charset=utf-8"

	// 12h in local caches, 24h at the CDN, then a week of stale-while-revalidate.
	sitemapCacheControl = "public, max-age=43200, s-maxage=86400, stale-while-revalidate=604800"
)

type Handler struct {
	sitemaps *sitemap.Service
	baseURL  string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewHandler(sitemaps *sitemap.Service, baseURL string, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		sitemaps: sitemaps,
		baseURL:  baseURL,
		metrics:  m,
		logger:   logger,
	}
}

// SitemapIndex serves /sitemap.xml.
func (h *Handler) SitemapIndex(c *gin.Context) {
	body, stats, err := h.sitemaps.RenderIndexWithStats()
	if err != nil {
		h.internalError(c, "index", err)
		return
	}

	for _, st := range stats {
		h.metrics.SitemapURLs.WithLabelValues(string(st.Bucket)).Set(float64(st.URLs))
	}
	writeXML(c, body)
}

// SitemapPage serves /sitemaps/{bucket}-{page}.xml.
func (h *Handler) SitemapPage(c *gin.Context) {
	bucket, page, err := sitemap.ParseSlug(c.Param("slug"))
	if err != nil {
		h.sitemapError(c, err)
		return
	}

	body, err := h.sitemaps.RenderPage(bucket, page)
	if err != nil {
		h.sitemapError(c, err)
		return
	}
	writeXML(c, body)
}

// SitemapStats reports URL and page counts per bucket.
func (h *Handler) SitemapStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page_size": sitemap.PageSize,
		"buckets":   h.sitemaps.Stats(),
	})
}

func (h *Handler) Robots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", h.baseURL)
}

func writeXML(c *gin.Context, body []byte) {
	c.Header("Cache-Control", sitemapCacheControl)
	c.Data(http.StatusOK, xmlContentType, body)
}

// sitemapError maps client mistakes to 4xx without logging them as errors.
func (h *Handler) sitemapError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, sitemap.ErrInvalidSlug), errors.Is(err, sitemap.ErrInvalidPage):
		status = http.StatusBadRequest
	case errors.Is(err, sitemap.ErrUnknownBucket), errors.Is(err, sitemap.ErrPageNotFound):
		status = http.StatusNotFound
	default:
		h.internalError(c, "page", err)
		return
	}

	h.logger.Debug("Rejected sitemap request",
		"path", c.Request.URL.Path,
		"status", status,
		"reason", err.Error(),
		"request_id", GetRequestID(c),
	)
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) internalError(c *gin.Context, document string, err error) {
	h.metrics.SitemapRenderErrors.WithLabelValues(document).Inc()
	h.logger.Error("Failed to render sitemap",
		"document", document,
		"path", c.Request.URL.Path,
		"request_id", GetRequestID(c),
		"error", err.Error(),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
