package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/seo-site/config"
	"github.com/romangod6/seo-site/internal/api"
	"github.com/romangod6/seo-site/internal/content"
	"github.com/romangod6/seo-site/internal/crawler"
	"github.com/romangod6/seo-site/internal/export"
	"github.com/romangod6/seo-site/internal/metrics"
	"github.com/romangod6/seo-site/internal/sitemap"
	"github.com/romangod6/seo-site/internal/utils"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (defaults to config.yaml in . or ./config)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Serve struct{} `cmd:"" default:"1" help:"Serve the sitemap routes"`

	Export struct {
		Out string `short:"o" help:"Output directory for the static sitemap files" default:"./public"`
	} `cmd:"" help:"Pre-generate sitemap.xml and every sitemaps/{bucket}-{page}.xml"`

	Slugs struct{} `cmd:"" help:"List every valid {bucket}-{page}.xml combination"`

	Verify struct {
		URL         string        `arg:"" name:"url" help:"Sitemap index URL, e.g. https://www.example.com/sitemap.xml"`
		Parallelism int           `short:"p" help:"Concurrent page fetches" default:"4"`
		Timeout     time.Duration `help:"Per request timeout" default:"15s"`
		JSON        bool          `help:"Print the full report as JSON"`
	} `cmd:"" help:"Crawl a published sitemap and report broken URLs"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("site"),
		kong.Description("Sitemap server for the SEO consultant marketing site."),
	)

	// Load configuration
	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := utils.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	switch ctx.Command() {
	case "serve":
		err = runServe(cfg, logger)
	case "export":
		err = runExport(cfg, logger, CLI.Export.Out)
	case "slugs":
		err = runSlugs(cfg, os.Stdout)
	case "verify <url>":
		err = runVerify(logger, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}

	if err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		logger.Close()
		os.Exit(1)
	}
}

func newSitemapService(cfg *config.Config) (*sitemap.Service, error) {
	c, err := content.Load(cfg.Site.ContentFile)
	if err != nil {
		return nil, err
	}
	collector := sitemap.NewCollector(cfg.BaseURL(), c)
	return sitemap.NewService(collector, cfg.BaseURL(), time.Now), nil
}

func runServe(cfg *config.Config, logger *utils.Logger) error {
	svc, err := newSitemapService(cfg)
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.GinMode)
	server := api.NewServer(api.ServerConfig{
		Port:           cfg.Server.Port,
		BaseURL:        cfg.BaseURL(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, svc, metrics.New(), logger.Logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(server, logger, errCh)
}

func waitForShutdown(server *api.Server, logger *utils.Logger, errCh <-chan error) error {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-sigChan:
	}
	logger.Info("Shutting down...")

	// Graceful server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("Server shut down gracefully")
	return nil
}

func runExport(cfg *config.Config, logger *utils.Logger, out string) error {
	svc, err := newSitemapService(cfg)
	if err != nil {
		return err
	}
	written, err := export.Write(svc, out)
	if err != nil {
		return err
	}
	logger.Info("Exported sitemaps", "dir", out, "files", len(written))
	return nil
}

func runSlugs(cfg *config.Config, w io.Writer) error {
	svc, err := newSitemapService(cfg)
	if err != nil {
		return err
	}
	for _, slug := range svc.StaticSlugs() {
		fmt.Fprintln(w, slug)
	}
	return nil
}

func runVerify(logger *utils.Logger, w io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := crawler.NewVerifier(crawler.VerifierConfig{
		Parallelism:    CLI.Verify.Parallelism,
		RequestTimeout: CLI.Verify.Timeout,
		Logger:         logger.Logger,
	})
	report, err := v.Verify(ctx, CLI.Verify.URL)
	if err != nil {
		return err
	}

	if CLI.Verify.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Sitemaps: %d\nPages: %d\nBroken: %d\n", len(report.Sitemaps), len(report.Pages), len(report.Broken))
		for _, b := range report.Broken {
			fmt.Fprintf(w, "  %d %s %s\n", b.Status, b.URL, b.Error)
		}
	}

	if !report.OK() {
		return fmt.Errorf("%d broken URLs", len(report.Broken))
	}
	return nil
}
