package image

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"marketgen/internal/providers/gemini"
)

const defaultGeminiImageModel = "gemini-2.5-flash-image"

// GeminiOptions configures GeminiGenerator.
type GeminiOptions struct {
	Client gemini.ContentGenerator
	Model  string
}

// GeminiGenerator renders banners with a Gemini image model. The uploaded
// product photo is passed as an inline reference.
type GeminiGenerator struct {
	client gemini.ContentGenerator
	model  string
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.Client == nil {
		return nil, errors.New("gemini content generator is required")
	}
	model := opts.Model
	if model == "" {
		model = defaultGeminiImageModel
	}
	return &GeminiGenerator{client: opts.Client, model: model}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) GenerateBanner(ctx context.Context, req Request) (*Banner, error) {
	parts := []*genai.Part{genai.NewPartFromText(BuildBannerPrompt(req))}
	if req.Reference != nil {
		parts = append(parts, gemini.InlineImage(req.Reference.Data, req.Reference.MIMEType))
	}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: AspectRatioForPlatform(req.Platform)},
	}
	resp, err := g.client.GenerateContent(ctx, g.model, gemini.UserContent(parts...), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}
	data, mime, err := gemini.Image(resp)
	if err != nil {
		return nil, err
	}
	return &Banner{Data: data, MIMEType: mime}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
