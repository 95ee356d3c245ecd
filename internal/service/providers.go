package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"marketgen/internal/infra"
	"marketgen/internal/providers/gemini"
	"marketgen/internal/providers/image"
	"marketgen/internal/providers/text"
)

// BuildProviders constructs the generators selected by cfg. A text provider
// without credentials is left nil so requests answer 503; an image provider
// without credentials disables banners.
func BuildProviders(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (text.Generator, image.Generator, error) {
	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}

	var geminiModels gemini.ContentGenerator
	needGemini := cfg.TextProvider == infra.ProviderGemini || cfg.ImageProvider == infra.ProviderGemini
	if needGemini && cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, nil, err
		}
		geminiModels = client.Models
	}

	textGen, err := buildText(cfg, geminiModels, httpClient, logger)
	if err != nil {
		return nil, nil, err
	}
	imageGen, err := buildImage(cfg, geminiModels, httpClient, logger)
	if err != nil {
		return nil, nil, err
	}
	return textGen, imageGen, nil
}

func buildText(cfg *infra.Config, models gemini.ContentGenerator, hc *http.Client, logger zerolog.Logger) (text.Generator, error) {
	switch cfg.TextProvider {
	case infra.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn().Msg("OPENAI_API_KEY not set; copy generation disabled")
			return nil, nil
		}
		return text.NewOpenAIGenerator(text.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   hc,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model adjusted")
			},
		})
	default:
		if models == nil {
			logger.Warn().Msg("GEMINI_API_KEY not set; copy generation disabled")
			return nil, nil
		}
		return text.NewGeminiGenerator(text.GeminiOptions{Client: models, Model: cfg.GeminiTextModel})
	}
}

func buildImage(cfg *infra.Config, models gemini.ContentGenerator, hc *http.Client, logger zerolog.Logger) (image.Generator, error) {
	switch cfg.ImageProvider {
	case infra.ProviderNone:
		return nil, nil
	case infra.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn().Msg("OPENAI_API_KEY not set; banner generation disabled")
			return nil, nil
		}
		return image.NewOpenAIGenerator(image.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIImageModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   hc,
		})
	case infra.ProviderLeonardo:
		if cfg.LeonardoAPIKey == "" {
			logger.Warn().Msg("LEONARDO_API_KEY not set; banner generation disabled")
			return nil, nil
		}
		l := logger.With().Str("provider", "leonardo").Logger()
		return image.NewLeonardoGenerator(image.LeonardoOptions{
			APIKey:     cfg.LeonardoAPIKey,
			ModelID:    cfg.LeonardoModelID,
			BaseURL:    cfg.LeonardoBaseURL,
			HTTPClient: hc,
			Logger:     &l,
		})
	default:
		if models == nil {
			logger.Warn().Msg("GEMINI_API_KEY not set; banner generation disabled")
			return nil, nil
		}
		return image.NewGeminiGenerator(image.GeminiOptions{Client: models, Model: cfg.GeminiImageModel})
	}
}
