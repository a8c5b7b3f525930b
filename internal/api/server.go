package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/seo-site/internal/metrics"
	"github.com/romangod6/seo-site/internal/sitemap"
)

// ServerConfig holds the HTTP facing settings of the site server.
type ServerConfig struct {
	Port           int
	BaseURL        string
	AllowedOrigins []string
}

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
	logger *slog.Logger
}

func NewServer(cfg ServerConfig, sitemaps *sitemap.Service, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		RequestID(),
		AccessLog(logger),
		Metrics(m),
		Recovery(logger),
	)

	// Setup CORS
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	// Create handler
	handler := NewHandler(sitemaps, cfg.BaseURL, m, logger)

	// Setup routes
	router.GET("/sitemap.xml", handler.SitemapIndex)
	router.HEAD("/sitemap.xml", handler.SitemapIndex)
	router.GET("/sitemaps/:slug", handler.SitemapPage)
	router.HEAD("/sitemaps/:slug", handler.SitemapPage)
	router.GET("/robots.txt", handler.Robots)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		api.GET("/sitemaps", handler.SitemapStats)
	}

	return &Server{
		router: router,
		port:   cfg.Port,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting site server", "port", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
