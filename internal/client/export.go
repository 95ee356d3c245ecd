package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketgen/internal/domain"
	"marketgen/internal/storage"
	"marketgen/pkg/zip"
)

const (
	DefaultCopyFilename  = "marketing-copy.txt"
	DefaultImageFilename = "marketing-image"
	maxDownloadBytes     = 25 << 20
)

var ErrNothingToExport = errors.New("nothing to export")

// Exporter writes generation output into a FileStore.
type Exporter struct {
	store      *storage.FileStore
	httpClient *http.Client
	now        func() time.Time
}

func NewExporter(store *storage.FileStore, httpClient *http.Client) *Exporter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Minute}
	}
	return &Exporter{store: store, httpClient: httpClient, now: time.Now}
}

// ExportText saves the copy as plain text and returns the stored key.
func (e *Exporter) ExportText(ctx context.Context, content, filename string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrNothingToExport
	}
	if filename == "" {
		filename = DefaultCopyFilename
	}
	return e.store.Write(ctx, filename, []byte(content))
}

// ExportImage saves a generated image. imageRef may be a data URL or an
// http(s) URL. An empty filename gets an extension matching the image type.
func (e *Exporter) ExportImage(ctx context.Context, imageRef, filename string) (string, error) {
	data, mimeType, err := e.loadImage(ctx, imageRef)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = DefaultImageFilename + extensionFor(mimeType)
	}
	return e.store.Write(ctx, filename, data)
}

// ExportBundle writes the copy and, when present, the image into one zip.
func (e *Exporter) ExportBundle(ctx context.Context, result *domain.GenerationResult, filename string) (string, error) {
	if result == nil || strings.TrimSpace(result.MarketingCopy) == "" {
		return "", ErrNothingToExport
	}
	modified := e.now()
	entries := []zip.Entry{{Name: DefaultCopyFilename, Data: []byte(result.MarketingCopy), Modified: modified}}
	if result.HasImage() {
		data, mimeType, err := e.loadImage(ctx, result.GeneratedImage)
		if err != nil {
			return "", err
		}
		entries = append(entries, zip.Entry{Name: DefaultImageFilename + extensionFor(mimeType), Data: data, Modified: modified})
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = "marketing-" + uuid.NewString()[:8] + ".zip"
	}
	return e.store.Write(ctx, filename, archive)
}

func (e *Exporter) loadImage(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, "", ErrNothingToExport
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return e.download(ctx, ref)
	default:
		return nil, "", fmt.Errorf("export: unsupported image reference")
	}
}

func (e *Exporter) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("export: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("export: download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("export: read image: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("export: image exceeds %d bytes", maxDownloadBytes)
	}
	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func decodeDataURL(ref string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", errors.New("export: malformed data URL")
	}
	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, "", errors.New("export: data URL is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("export: decode data URL: %w", err)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func extensionFor(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	switch strings.TrimSpace(mimeType) {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
