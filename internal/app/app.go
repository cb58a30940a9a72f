package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dwisiswant0/threat-watchdog-bot/internal/cache"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/country"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/fetch"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/imaging"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/notify"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/report"
	"github.com/dwisiswant0/threat-watchdog-bot/internal/sentlog"
)

// ErrNoReports is returned when the feed document yields zero report blocks.
// The CLI maps it to a non-zero exit so schedulers notice a dead feed.
var ErrNoReports = errors.New("no report blocks found")

// maxImageURLLen rejects absurdly long image URLs as untrusted input; such a
// record is treated as having no image.
const maxImageURLLen = 2048

const embedColor = 0xB10000

type App struct {
	cfg     Config
	client  *fetch.Client
	sent    *sentlog.Log
	webhook *notify.Webhook
}

func New(cfg Config) (*App, error) {
	if cfg.ImageBudget <= 0 {
		cfg.ImageBudget = imaging.DefaultBudget
	}
	if cfg.FeedURL == "" && cfg.InputPath == "" {
		return nil, fmt.Errorf("either a feed URL or an input path is required")
	}
	if cfg.WebhookURL == "" && !cfg.DryRun {
		return nil, fmt.Errorf("a webhook URL is required outside dry-run")
	}

	a := &App{cfg: cfg}

	a.client = &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.RequestTimeout,
	}
	if cfg.CacheDir != "" {
		c := &cache.HTTPCache{Dir: cfg.CacheDir}
		if cfg.CacheMaxAge > 0 {
			if n, err := c.PurgeByAge(cfg.CacheMaxAge); err == nil && n > 0 {
				log.Debug().Int("purged", n).Msg("cache entries expired")
			}
		}
		a.client.Cache = c
	}

	if cfg.SentLogPath != "" {
		l, err := sentlog.Open(cfg.SentLogPath)
		if err != nil {
			return nil, fmt.Errorf("open sent log: %w", err)
		}
		a.sent = l
	}

	if cfg.WebhookURL != "" {
		a.webhook = &notify.Webhook{
			URL:         cfg.WebhookURL,
			Username:    cfg.WebhookUsername,
			MaxAttempts: 3,
		}
	}
	return a, nil
}

func (a *App) Close() {
	if a.sent != nil {
		_ = a.sent.Close()
	}
}

// Run executes one watchdog pass: load the feed, parse it into records, and
// deliver every record not yet in the sent log, newest first.
func (a *App) Run(ctx context.Context) error {
	doc, err := a.loadDocument(ctx)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	records := report.Parse(doc)
	if len(records) == 0 {
		return ErrNoReports
	}
	log.Info().Int("records", len(records)).Msg("feed parsed")

	delivered, skipped := 0, 0
	for _, rec := range records {
		if a.sent != nil {
			seen, err := a.sent.Contains(ctx, rec.ID)
			if err != nil {
				return fmt.Errorf("sent log lookup: %w", err)
			}
			if seen {
				skipped++
				continue
			}
		}

		if a.cfg.DryRun {
			log.Info().
				Str("id", rec.ID).
				Str("actor", rec.ThreatActor).
				Str("origin", rec.Origin).
				Str("sector", rec.Sector).
				Str("source", rec.SourceURL).
				Msg("dry-run: would deliver")
			continue
		}

		embed, att := a.buildEmbed(ctx, rec)
		if err := a.webhook.Send(ctx, embed, att); err != nil {
			// Leave the id out of the sent log so the next run retries.
			log.Warn().Err(err).Str("id", rec.ID).Msg("delivery failed; will retry next run")
			continue
		}
		if a.sent != nil {
			if err := a.sent.Append(ctx, rec.ID); err != nil {
				return fmt.Errorf("sent log append: %w", err)
			}
		}
		delivered++
	}

	log.Info().Int("delivered", delivered).Int("already_sent", skipped).Msg("pass complete")
	return nil
}

func (a *App) loadDocument(ctx context.Context) (string, error) {
	if a.cfg.InputPath != "" {
		b, err := os.ReadFile(a.cfg.InputPath)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, _, err := a.client.GetDocument(ctx, a.cfg.FeedURL)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// buildEmbed renders a record for delivery. Empty fields become "N/A" and a
// resolvable origin gains a flag emoji; both are presentation concerns that
// never touch the record itself.
func (a *App) buildEmbed(ctx context.Context, rec report.ThreatRecord) (notify.Embed, *notify.Attachment) {
	embed := notify.Embed{
		Title: orPlaceholder(rec.Title),
		URL:   rec.SourceURL,
		Color: embedColor,
		Fields: []notify.EmbedField{
			{Name: "Threat Actor", Value: orPlaceholder(rec.ThreatActor), Inline: true},
			{Name: "Date", Value: orPlaceholder(rec.Timestamp), Inline: true},
			{Name: "Origin", Value: decorateOrigin(rec.Origin), Inline: true},
			{Name: "Sector", Value: orPlaceholder(rec.Sector), Inline: true},
		},
		Footer: &notify.EmbedFooter{Text: "Report ID " + rec.ID},
	}

	att := a.prepareImage(ctx, rec)
	if att != nil {
		embed.Image = &notify.EmbedImage{URL: "attachment://" + att.Filename}
	} else if isUsableImageURL(rec.Image) {
		embed.Image = &notify.EmbedImage{URL: rec.Image}
	}
	return embed, att
}

// prepareImage turns a data-URI image into a budget-sized attachment. URL
// images are only fetched and re-encoded when FetchImages is on; otherwise
// they ride along as plain embed URLs.
func (a *App) prepareImage(ctx context.Context, rec report.ThreatRecord) *notify.Attachment {
	if rec.Image == "" {
		return nil
	}
	if mimeType, data, ok := imaging.ParseDataURI(rec.Image); ok {
		res := imaging.Shrink(data, mimeType, a.cfg.ImageBudget)
		return &notify.Attachment{Filename: attachmentName(rec.ID, res.Ext), Data: res.Data}
	}
	if !a.cfg.FetchImages || !isUsableImageURL(rec.Image) {
		return nil
	}
	data, ct, err := a.client.GetImage(ctx, rec.Image, 0)
	if err != nil {
		log.Warn().Err(err).Str("id", rec.ID).Msg("image fetch failed; embedding URL instead")
		return nil
	}
	res := imaging.Shrink(data, ct, a.cfg.ImageBudget)
	return &notify.Attachment{Filename: attachmentName(rec.ID, res.Ext), Data: res.Data}
}

func attachmentName(id, ext string) string {
	return "report_" + id + "." + ext
}

func isUsableImageURL(s string) bool {
	if s == "" || len(s) > maxImageURLLen {
		return false
	}
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func orPlaceholder(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func decorateOrigin(origin string) string {
	if origin == "" {
		return "N/A"
	}
	if code, ok := country.Resolve(origin); ok {
		if flag := country.FlagEmoji(code); flag != "" {
			return flag + " " + origin
		}
	}
	return origin
}
