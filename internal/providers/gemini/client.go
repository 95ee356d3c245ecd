// Package gemini wraps the Gemini SDK client shared by the text and image
// providers.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ContentGenerator is the slice of the SDK the providers call. *genai.Models
// satisfies it; tests substitute fakes.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options controls how the SDK client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// ErrMissingAPIKey is returned when no key is configured.
var ErrMissingAPIKey = errors.New("gemini api key is required")

// NewClient builds an SDK client against the Gemini Developer API.
func NewClient(ctx context.Context, opts Options) (*genai.Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(base, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return client, nil
}

// UserContent wraps parts in a single user turn, skipping nil parts.
func UserContent(parts ...*genai.Part) []*genai.Content {
	kept := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return []*genai.Content{genai.NewContentFromParts(kept, genai.RoleUser)}
}

// InlineImage converts raw image bytes into an inline part. It returns nil
// for empty data.
func InlineImage(data []byte, mimeType string) *genai.Part {
	if len(data) == 0 {
		return nil
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return genai.NewPartFromBytes(data, mimeType)
}

// Text returns the concatenated text of the first candidate or an error
// naming why none was produced.
func Text(resp *genai.GenerateContentResponse) (string, error) {
	if err := checkResponse(resp); err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini: empty text response")
	}
	return text, nil
}

// Image returns the first inline image of the first candidate.
func Image(resp *genai.GenerateContentResponse) ([]byte, string, error) {
	if err := checkResponse(resp); err != nil {
		return nil, "", err
	}
	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = http.DetectContentType(part.InlineData.Data)
				}
				return part.InlineData.Data, mime, nil
			}
		}
	}
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, "", fmt.Errorf("gemini: image generation stopped (%s)", candidate.FinishReason)
	}
	return nil, "", errors.New("gemini: no image in response")
}

func checkResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("gemini: nil response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("gemini: prompt blocked (%s)", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return errors.New("gemini: no candidates")
	}
	return nil
}
