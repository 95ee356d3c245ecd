package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultLeonardoBaseURL = "https://cloud.leonardo.ai/api/rest/v1"

	leonardoStatusComplete = "COMPLETE"
	leonardoStatusFailed   = "FAILED"
)

type LeonardoOptions struct {
	APIKey       string
	ModelID      string
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration
	Logger       *zerolog.Logger
}

// LeonardoGenerator creates a generation job and polls it until an image URL
// is available or the context ends.
type LeonardoGenerator struct {
	apiKey       string
	modelID      string
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	logger       zerolog.Logger
}

type leonardoCreateRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	ModelID        string `json:"modelId,omitempty"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	NumImages      int    `json:"num_images"`
}

type leonardoCreateResponse struct {
	SDGenerationJob struct {
		GenerationID string `json:"generationId"`
	} `json:"sdGenerationJob"`
}

type leonardoStatusResponse struct {
	Generation *struct {
		Status          string `json:"status"`
		GeneratedImages []struct {
			URL string `json:"url"`
		} `json:"generated_images"`
	} `json:"generations_by_pk"`
}

func NewLeonardoGenerator(opts LeonardoOptions) (*LeonardoGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("leonardo api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultLeonardoBaseURL
	}
	// An empty model id lets Leonardo pick its account default.
	modelID := strings.TrimSpace(opts.ModelID)
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &LeonardoGenerator{
		apiKey:       strings.TrimSpace(opts.APIKey),
		modelID:      modelID,
		baseURL:      baseURL,
		client:       client,
		pollInterval: interval,
		logger:       logger,
	}, nil
}

func (l *LeonardoGenerator) Name() string { return "leonardo" }

func (l *LeonardoGenerator) GenerateBanner(ctx context.Context, req Request) (*Banner, error) {
	id, err := l.create(ctx, req)
	if err != nil {
		return nil, err
	}
	l.logger.Debug().Str("generation_id", id).Msg("leonardo generation created")

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("leonardo generation %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
		status, urls, err := l.status(ctx, id)
		if err != nil {
			return nil, err
		}
		switch status {
		case leonardoStatusComplete:
			if len(urls) == 0 {
				return nil, fmt.Errorf("leonardo generation %s completed without images", id)
			}
			return &Banner{URL: urls[0]}, nil
		case leonardoStatusFailed:
			return nil, fmt.Errorf("leonardo generation %s failed", id)
		}
	}
}

func (l *LeonardoGenerator) create(ctx context.Context, req Request) (string, error) {
	width, height := leonardoDimensions(AspectRatioForPlatform(req.Platform))
	payload := leonardoCreateRequest{
		Prompt:         BuildBannerPrompt(req),
		NegativePrompt: DefaultNegativePrompt,
		ModelID:        l.modelID,
		Width:          width,
		Height:         height,
		NumImages:      1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	var out leonardoCreateResponse
	if err := l.do(ctx, http.MethodPost, "/generations", bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	if out.SDGenerationJob.GenerationID == "" {
		return "", errors.New("leonardo: response missing generation id")
	}
	return out.SDGenerationJob.GenerationID, nil
}

func (l *LeonardoGenerator) status(ctx context.Context, id string) (string, []string, error) {
	var out leonardoStatusResponse
	if err := l.do(ctx, http.MethodGet, "/generations/"+url.PathEscape(id), nil, &out); err != nil {
		return "", nil, err
	}
	if out.Generation == nil {
		return "", nil, fmt.Errorf("leonardo generation %s not found", id)
	}
	var urls []string
	for _, img := range out.Generation.GeneratedImages {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return out.Generation.Status, urls, nil
}

func (l *LeonardoGenerator) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, l.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+l.apiKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	resp, err := l.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("leonardo request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("leonardo status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode leonardo response: %w", err)
	}
	return nil
}

var _ Generator = (*LeonardoGenerator)(nil)
