// Package notify delivers report embeds to a Discord-compatible webhook.
// This is the presentation layer: empty record fields become "N/A" here, and
// origin decoration (flag emoji) is derived here, never stored on records.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Embed mirrors the webhook embed object, limited to the fields the watchdog
// uses.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type payload struct {
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds"`
}

// Attachment is an uploaded file referenced from the embed via
// "attachment://<Filename>".
type Attachment struct {
	Filename string
	Data     []byte
}

// Webhook posts embeds to a single webhook URL with bounded retry on 429 and
// 5xx responses.
type Webhook struct {
	URL        string
	Username   string
	HTTPClient *http.Client
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
}

func (w *Webhook) client() *http.Client {
	if w.HTTPClient != nil {
		return w.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Send delivers one embed, with an optional file attachment. A nil attachment
// sends plain JSON; otherwise the payload goes as multipart form data with
// the file under files[0].
func (w *Webhook) Send(ctx context.Context, embed Embed, att *Attachment) error {
	if w.URL == "" {
		return fmt.Errorf("missing webhook url")
	}
	attempts := w.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		retryAfter, err := w.post(ctx, embed, att)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		delay := time.Duration(i+1) * 500 * time.Millisecond
		if retryAfter > 0 {
			delay = retryAfter
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (w *Webhook) post(ctx context.Context, embed Embed, att *Attachment) (time.Duration, error) {
	body, contentType, err := encodeBody(payload{Username: w.Username, Embeds: []Embed{embed}}, att)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, body)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return 0, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		var after time.Duration
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, err := strconv.ParseFloat(s, 64); err == nil {
				after = time.Duration(secs * float64(time.Second))
			}
		}
		return after, fmt.Errorf("webhook rate limited: %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return 0, fmt.Errorf("webhook server error: %d", resp.StatusCode)
	default:
		return 0, fmt.Errorf("webhook status: %d", resp.StatusCode)
	}
}

func encodeBody(p payload, att *Attachment) (io.Reader, string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, "", fmt.Errorf("marshal payload: %w", err)
	}
	if att == nil {
		return bytes.NewReader(raw), "application/json", nil
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("payload_json", string(raw)); err != nil {
		return nil, "", fmt.Errorf("write payload field: %w", err)
	}
	fw, err := mw.CreateFormFile("files[0]", att.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := fw.Write(att.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
