package text

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"marketgen/internal/providers/gemini"
)

const defaultGeminiTextModel = "gemini-2.5-flash"

// GeminiOptions configures GeminiGenerator.
type GeminiOptions struct {
	Client      gemini.ContentGenerator
	Model       string
	Temperature float32
}

// GeminiGenerator writes copy with the Gemini API. The product photo, when
// present, is sent inline next to the prompt.
type GeminiGenerator struct {
	client      gemini.ContentGenerator
	model       string
	temperature float32
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.Client == nil {
		return nil, errors.New("gemini content generator is required")
	}
	temp := opts.Temperature
	if temp <= 0 {
		temp = 0.8
	}
	return &GeminiGenerator{
		client:      opts.Client,
		model:       coalesce(opts.Model, defaultGeminiTextModel),
		temperature: temp,
	}, nil
}

func (g *GeminiGenerator) Name() string { return geminiProviderName }

func (g *GeminiGenerator) GenerateCopy(ctx context.Context, req Request) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(BuildCopyPrompt(req))}
	if req.Image != nil {
		parts = append(parts, gemini.InlineImage(req.Image.Data, req.Image.MIMEType))
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	}
	resp, err := g.client.GenerateContent(ctx, g.model, gemini.UserContent(parts...), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	out, err := gemini.Text(resp)
	if err != nil {
		return "", err
	}
	out = cleanCopy(out)
	if strings.TrimSpace(out) == "" {
		return "", errors.New("gemini: empty copy")
	}
	return out, nil
}

var _ Generator = (*GeminiGenerator)(nil)
