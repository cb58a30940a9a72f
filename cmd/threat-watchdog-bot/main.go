package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dwisiswant0/threat-watchdog-bot/internal/app"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/imaging"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// .env is loaded before flag defaults are read so env fallbacks see it.
	_ = app.LoadEnvFiles(".env")

	var (
		configPath  string
		feedURL     string
		inputPath   string
		webhookURL  string
		webhookName string
		sentLogPath string
		imageBudget string
		fetchImages bool
		userAgent   string
		timeout     time.Duration
		attempts    int
		cacheDir    string
		cacheMaxAge time.Duration
		dryRun      bool
		verbose     bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("WATCHDOG_CONFIG"), "Path to optional YAML config file")
	flag.StringVar(&feedURL, "feed.url", os.Getenv("FEED_URL"), "Threat feed page URL")
	flag.StringVar(&inputPath, "input", "", "Path to a local feed HTML file (overrides -feed.url)")
	flag.StringVar(&webhookURL, "webhook.url", os.Getenv("WEBHOOK_URL"), "Webhook URL for delivery")
	flag.StringVar(&webhookName, "webhook.username", os.Getenv("WEBHOOK_USERNAME"), "Override the webhook's display name")
	flag.StringVar(&sentLogPath, "sentlog", defaultEnv("SENT_LOG", "sent.db"), "Path to the sent-id log database")
	flag.StringVar(&imageBudget, "image.budget", os.Getenv("IMAGE_BUDGET"), "Byte budget for image attachments (default 1048576)")
	flag.BoolVar(&fetchImages, "image.fetch", false, "Fetch URL images and re-encode them to the budget instead of hotlinking")
	flag.StringVar(&userAgent, "http.ua", "threat-watchdog-bot/1.0 (+https://github.com/dwisiswant0/threat-watchdog-bot)", "User-Agent for outbound requests")
	flag.DurationVar(&timeout, "http.timeout", 30*time.Second, "Per-request timeout")
	flag.IntVar(&attempts, "http.attempts", 3, "Max attempts per request, including the first")
	flag.StringVar(&cacheDir, "cache.dir", ".watchdog-cache", "Feed cache directory; empty disables caching")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 7*24*time.Hour, "Max age for cache entries before purge; 0 disables")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and log records without delivering or touching the sent log")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		FeedURL:         feedURL,
		InputPath:       inputPath,
		WebhookURL:      webhookURL,
		WebhookUsername: webhookName,
		SentLogPath:     sentLogPath,
		ImageBudget:     parseBudget(imageBudget),
		FetchImages:     fetchImages,
		UserAgent:       userAgent,
		RequestTimeout:  timeout,
		MaxAttempts:     attempts,
		CacheDir:        cacheDir,
		CacheMaxAge:     cacheMaxAge,
		DryRun:          dryRun,
		Verbose:         verbose,
	}

	if fc, err := app.LoadFileConfig(configPath); err != nil {
		log.Error().Err(err).Msg("config file unusable")
		os.Exit(2)
	} else {
		cfg = fc.Merge(cfg)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 for an empty or unreachable feed so a
		// scheduler can alert; delivery problems already logged per
		// record exit 0 and retry next run.
		os.Exit(2)
	}
}

// parseBudget tolerates junk: a non-numeric or non-positive budget silently
// falls back to the default rather than refusing to start.
func parseBudget(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return imaging.DefaultBudget
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		log.Warn().Str("value", s).Int64("default", imaging.DefaultBudget).Msg("invalid image budget; using default")
		return imaging.DefaultBudget
	}
	return n
}

func defaultEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
