package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-creative-studio/internal/studio"
)

// msgDownloadKey is reported when the media endpoint rejects the key.
const msgDownloadKey = "API key not valid. Please select a new key."

// DownloadMedia fetches a finished video with the API key attached as the
// "key" query parameter. A 404 means the key cannot see the file and is
// reported as a credential error.
func (c *Client) DownloadMedia(ctx context.Context, uri string) (*studio.Media, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid media URI: %w", err)
	}
	q := u.Query()
	q.Set("key", c.key())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media download failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("DownloadMedia: HTTP call completed")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, studio.CredentialError(msgDownloadKey, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("Failed to download video: %s", statusText(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "video/mp4"
	}
	return &studio.Media{Data: data, MIMEType: mimeType}, nil
}

// statusText returns the reason phrase, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
