// Package assets talks to the external image host over its HTTP API. The
// catalog stores only the URL the host returns; everything else about the
// asset lives on the host's side.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerasmt/productsbackend/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Config carries the asset host settings.
type Config struct {
	// BaseURL is the host's API root, e.g. https://api.cloudinary.example/v1.
	BaseURL string
	// UploadPreset is sent with every upload to select the host-side policy.
	UploadPreset string
	Timeout      time.Duration
}

// Client implements ports.AssetStore against a Cloudinary-style HTTP API.
type Client struct {
	baseURL      string
	uploadPreset string
	http         *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		uploadPreset: cfg.UploadPreset,
		http:         &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Upload sends the image under a freshly generated public id and returns the
// hosted URL.
func (c *Client) Upload(ctx context.Context, img ports.ImageUpload) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="image"`)
	header.Set("Content-Type", img.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("asset upload: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", fmt.Errorf("asset upload: %w", err)
	}

	_ = w.WriteField("public_id", uuid.NewString())
	if c.uploadPreset != "" {
		_ = w.WriteField("upload_preset", c.uploadPreset)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("asset upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/image/upload", &body)
	if err != nil {
		return "", fmt.Errorf("asset upload: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("asset upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("asset upload: host returned %d", resp.StatusCode)
	}

	var decoded uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("asset upload: decode response: %w", err)
	}
	if decoded.URL == "" {
		return "", fmt.Errorf("asset upload: host returned no url")
	}
	return decoded.URL, nil
}

// Delete removes the asset referenced by url. The host reports anything other
// than "ok" as a failure so callers can stay fail-closed.
func (c *Client) Delete(ctx context.Context, url string) error {
	publicID := publicIDFromURL(url)
	if publicID == "" {
		return fmt.Errorf("asset delete: cannot derive public id from %q", url)
	}

	form := strings.NewReader("public_id=" + publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/image/destroy", form)
	if err != nil {
		return fmt.Errorf("asset delete: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("asset delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("asset delete: host returned %d", resp.StatusCode)
	}

	var decoded destroyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return fmt.Errorf("asset delete: decode response: %w", err)
	}
	if decoded.Result != "ok" {
		return fmt.Errorf("asset delete: host result %q", decoded.Result)
	}
	return nil
}

// publicIDFromURL extracts the host-side asset id: the last path segment with
// its file extension stripped.
func publicIDFromURL(url string) string {
	segments := strings.Split(url, "/")
	last := segments[len(segments)-1]
	if last == "" {
		return ""
	}
	return strings.SplitN(last, ".", 2)[0]
}
