package app

import "time"

// Config holds runtime configuration for the watchdog.
type Config struct {
	// Intake: exactly one of FeedURL or InputPath should be set. InputPath
	// wins when both are present (local fixtures beat network).
	FeedURL   string
	InputPath string

	// Delivery
	WebhookURL      string
	WebhookUsername string

	// Dedup
	SentLogPath string

	// Image handling
	ImageBudget int64
	// FetchImages downloads URL-referenced images and re-encodes them to
	// the budget instead of hotlinking them from the embed.
	FetchImages bool

	// HTTP behavior
	UserAgent      string
	RequestTimeout time.Duration
	MaxAttempts    int

	// Cache
	CacheDir    string
	CacheMaxAge time.Duration

	// Behavior
	DryRun  bool
	Verbose bool
}
