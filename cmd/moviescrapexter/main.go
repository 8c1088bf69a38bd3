// cmd/moviescrapexter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/MovieScrapexter/internal/config"
	"github.com/valpere/MovieScrapexter/internal/crawler"
	"github.com/valpere/MovieScrapexter/internal/fetcher"
	"github.com/valpere/MovieScrapexter/internal/monitoring"
	"github.com/valpere/MovieScrapexter/internal/output"
	"github.com/valpere/MovieScrapexter/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// main handles CLI arguments and routes to the appropriate command.
func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: moviescrapexter run <config.yaml>\n")
			os.Exit(1)
		}
		runCrawl(os.Args[2])

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: moviescrapexter validate <config.yaml>\n")
			os.Exit(1)
		}
		validateConfig(os.Args[2])

	case "template":
		template, err := generateTemplate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(template)

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runCrawl loads the configuration and drives a full crawl run.
func runCrawl(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg)
	logger.WithField("config", cfg.Name).Info("starting crawl")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pageFetcher, err := buildFetcher(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer pageFetcher.Close()

	writer, err := output.NewWriter(cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Errorf("closing output: %v", err)
		}
	}()

	metrics := monitoring.NewMetrics()
	if cfg.Monitoring.Enabled {
		server := monitoring.NewServer(cfg.Monitoring.Address, metrics, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Errorf("monitoring server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	c, err := crawler.New(cfg, pageFetcher, writer, metrics, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats, err := c.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: crawl aborted: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Crawl complete: %d pages fetched (%d catalogue, %d detail, %d unknown)\n",
		stats.PagesFetched, stats.CataloguePages, stats.DetailPages, stats.UnknownPages)
	fmt.Printf("Records written: %d (%d invalid dropped, %d fetch failures)\n",
		stats.RecordsWritten, stats.InvalidRecords, stats.FetchFailures)
}

// validateConfig checks a configuration file and reports problems.
func validateConfig(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e.Error())
		}
		os.Exit(1)
	}

	fmt.Printf("Configuration file '%s' is valid\n", configFile)
}

// generateTemplate renders the shipped template as YAML.
func generateTemplate() (string, error) {
	template := config.GenerateTemplate()

	data, err := yaml.Marshal(template)
	if err != nil {
		return "", fmt.Errorf("failed to marshal template to YAML: %w", err)
	}
	return string(data), nil
}

// buildLogger creates the run logger at the configured level.
func buildLogger(cfg *config.CrawlerConfig) utils.Logger {
	level := utils.ParseLogLevel(cfg.LogLevel)
	if hasFlag("-v") || hasFlag("--verbose") {
		level = utils.DebugLevel
	}
	return utils.NewLoggerWithLevel(level)
}

// buildFetcher selects the HTTP or browser fetcher per configuration.
func buildFetcher(cfg *config.CrawlerConfig, logger utils.Logger) (fetcher.Fetcher, error) {
	fetcherConfig := fetcher.Config{
		Timeout:      cfg.Request.Timeout,
		UserAgents:   cfg.Request.UserAgents,
		Headers:      cfg.Request.Headers,
		RateLimit:    cfg.Request.RateLimit,
		RateBurst:    cfg.Request.Burst,
		WaitSelector: cfg.Request.WaitSelector,
	}
	if cfg.Request.UseBrowser {
		return fetcher.NewBrowserFetcher(fetcherConfig, logger)
	}
	return fetcher.NewHTTPFetcher(fetcherConfig, logger), nil
}

// hasFlag checks if a flag is present in command line arguments.
func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

// printUsage displays help information.
func printUsage() {
	fmt.Println("MovieScrapexter - Movie Catalogue Crawler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  moviescrapexter run <config.yaml>       Crawl per configuration file")
	fmt.Println("  moviescrapexter validate <config.yaml>  Validate configuration file")
	fmt.Println("  moviescrapexter template                Generate configuration template")
	fmt.Println("  moviescrapexter version                 Show version information")
	fmt.Println("  moviescrapexter help                    Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose                           Enable verbose output")
}

// printVersion displays version information.
func printVersion() {
	fmt.Printf("MovieScrapexter %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
