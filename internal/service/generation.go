// Package service orchestrates one marketing generation: copy from the text
// provider and, best-effort, a banner from the image provider.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"marketgen/internal/domain"
	"marketgen/internal/imgutil"
	"marketgen/internal/providers/image"
	"marketgen/internal/providers/text"
)

// Options wires the providers. Image may be nil when banners are disabled.
type Options struct {
	Text           text.Generator
	Image          image.Generator
	Logger         zerolog.Logger
	Timeout        time.Duration
	ReferenceBytes int
}

// Generator runs generations. It holds no per-request state and is safe for
// concurrent use.
type Generator struct {
	text           text.Generator
	image          image.Generator
	logger         zerolog.Logger
	timeout        time.Duration
	referenceBytes int
}

func New(opts Options) *Generator {
	return &Generator{
		text:           opts.Text,
		image:          opts.Image,
		logger:         opts.Logger,
		timeout:        opts.Timeout,
		referenceBytes: opts.ReferenceBytes,
	}
}

// Providers returns the configured provider names, "" for none.
func (g *Generator) Providers() (textName, imageName string) {
	if g.text != nil {
		textName = g.text.Name()
	}
	if g.image != nil {
		imageName = g.image.Name()
	}
	return textName, imageName
}

// Generate normalizes and validates req, then runs the text and image steps
// concurrently. A text failure fails the call and cancels the image step. An
// image failure is logged and leaves GeneratedImage empty.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g.text == nil {
		return nil, fmt.Errorf("%w: no text provider configured", domain.ErrProviderUnavailable)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req.ProductImage = imgutil.PrepareReference(req.ProductImage, g.referenceBytes)

	logger := g.logger.With().
		Str("product", req.ProductName).
		Str("platform", req.Platform).
		Bool("has_image", !req.ProductImage.IsZero()).
		Logger()

	var (
		copyText string
		imageRef string
	)
	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		start := time.Now()
		out, err := g.text.GenerateCopy(gctx, text.RequestFrom(req))
		if err != nil {
			logger.Error().Err(err).Str("provider", g.text.Name()).Dur("duration", time.Since(start)).Msg("copy generation failed")
			return fmt.Errorf("%w: %s: %w", domain.ErrProviderFailure, g.text.Name(), err)
		}
		logger.Debug().Str("provider", g.text.Name()).Dur("duration", time.Since(start)).Msg("copy generated")
		copyText = out
		return nil
	})

	if g.image != nil {
		grp.Go(func() error {
			start := time.Now()
			banner, err := g.image.GenerateBanner(gctx, image.RequestFrom(req))
			if err != nil {
				logger.Warn().Err(err).Str("provider", g.image.Name()).Dur("duration", time.Since(start)).Msg("banner generation failed; continuing without image")
				return nil
			}
			imageRef = banner.Ref()
			if imageRef == "" {
				logger.Warn().Str("provider", g.image.Name()).Msg("banner provider returned no image")
				return nil
			}
			logger.Debug().Str("provider", g.image.Name()).Dur("duration", time.Since(start)).Msg("banner generated")
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return &domain.GenerationResult{
		MarketingCopy:  copyText,
		GeneratedImage: imageRef,
	}, nil
}
