// Package imghost re-hosts Telegram photo files on the configured image host
// so catalog documents never reference expiring Telegram file URLs.
package imghost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/catalogbot/core/config"
	"github.com/m3rciful/catalogbot/core/logger"
	"github.com/m3rciful/catalogbot/core/netutil"

	"log/slog"
)

const (
	maxImageBytes  = 20 << 20
	requestTimeout = 30 * time.Second
	maxAttempts    = 3
	retryBackoff   = 500 * time.Millisecond
)

// Client uploads images to the hosting endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// uploadResponse is the hosting service reply.
type uploadResponse struct {
	URL string `json:"url"`
}

// New builds a client from config.
func New(cfg config.ImageHostConfig) *Client {
	return &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Upload fetches the image at sourceURL and re-uploads it to the hosting
// endpoint, returning the stable hosted URL.
func (c *Client) Upload(ctx context.Context, sourceURL string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("imghost: endpoint not configured")
	}

	start := time.Now()
	data, err := c.fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + extensionOf(sourceURL)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		hosted, err := c.post(ctx, name, data)
		if err == nil {
			logger.Info(ctx, "imghost", "upload",
				slog.String("name", name),
				slog.Int("bytes", len(data)),
				slog.Int("attempt", attempt),
				slog.Duration("duration", logger.RoundMS(time.Since(start))),
			)
			return hosted, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) || attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return "", fmt.Errorf("imghost: upload failed: %w", lastErr)
}

func (c *Client) fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("imghost: build fetch request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imghost: fetch source: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imghost: fetch source status: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imghost: read source: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("imghost: source image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, name string, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", name)
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload status %s: %s", resp.Status, logger.SanitizeLimit(string(raw), 200))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(parsed.URL) == "" {
		return "", fmt.Errorf("response missing url")
	}
	return parsed.URL, nil
}

func extensionOf(sourceURL string) string {
	ext := strings.ToLower(path.Ext(sourceURL))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return ext
	default:
		return ".jpg"
	}
}
