// Package imagecdn is the client for the image CDN that stores product
// photos. Upload returns the public URL; deletion is bulk and best-effort.
package imagecdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httpclient"
)

// Delete outcome per URL.
const (
	DeleteStatusOK       = "ok"
	DeleteStatusNotFound = "not_found"
	DeleteStatusError    = "error"
)

// DeleteResult is the outcome of deleting a single URL.
type DeleteResult struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

// Client talks to the image CDN.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient creates a CDN client rooted at baseURL.
func NewClient(baseURL string, client *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    client,
		logger:  logger,
	}
}

// Upload streams one image to the CDN and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload form: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/upload", w.FormDataContentType(), &buf)
	if err != nil {
		return "", fmt.Errorf("cdn upload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", httpclient.ParseResponseError(resp, "cdn")
	}

	var out struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("cdn returned empty url")
	}

	return out.Data.URL, nil
}

// BulkDelete removes a batch of images by URL. It reports per-URL outcomes
// and never returns an error: a CDN outage or partial failure is logged and
// surfaced in the results so the calling operation can proceed. An empty
// input returns nil results.
func (c *Client) BulkDelete(ctx context.Context, urls []string) []DeleteResult {
	if len(urls) == 0 {
		return nil
	}

	body, err := json.Marshal(struct {
		URLs []string `json:"urls"`
	}{URLs: urls})
	if err != nil {
		c.logger.ErrorContext(ctx, "marshal cdn delete request", slog.String("error", err.Error()))
		return allFailed(urls)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/delete", "application/json", bytes.NewReader(body))
	if err != nil {
		c.logger.WarnContext(ctx, "cdn bulk delete failed",
			slog.Int("url_count", len(urls)),
			slog.String("error", err.Error()),
		)
		return allFailed(urls)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "cdn bulk delete rejected",
			slog.Int("url_count", len(urls)),
			slog.Int("status", resp.StatusCode),
		)
		return allFailed(urls)
	}

	var out struct {
		Data []DeleteResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.WarnContext(ctx, "decode cdn delete response", slog.String("error", err.Error()))
		return allFailed(urls)
	}

	for _, res := range out.Data {
		if res.Status != DeleteStatusOK {
			c.logger.WarnContext(ctx, "cdn image not deleted",
				slog.String("url", res.URL),
				slog.String("status", res.Status),
			)
		}
	}

	return out.Data
}

func allFailed(urls []string) []DeleteResult {
	results := make([]DeleteResult, len(urls))
	for i, u := range urls {
		results[i] = DeleteResult{URL: u, Status: DeleteStatusError}
	}
	return results
}
