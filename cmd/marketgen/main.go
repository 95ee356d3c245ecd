package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"marketgen/internal/client"
	"marketgen/internal/domain"
	"marketgen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		server      = flag.String("server", envOr("MARKETGEN_SERVER", "http://localhost:5000"), "Generator API base URL")
		name        = flag.String("name", "", "Product name (required)")
		description = flag.String("description", "", "Product description (required)")
		category    = flag.String("category", "", "Category: "+strings.Join(domain.Categories, ", "))
		audience    = flag.String("audience", "", "Target audience")
		platform    = flag.String("platform", domain.DefaultPlatform, "Platform: "+strings.Join(domain.Platforms, ", "))
		tone        = flag.String("tone", domain.DefaultTone, "Tone: "+strings.Join(domain.Tones, ", "))
		imagePath   = flag.String("image", "", "Optional product photo")
		locale      = flag.String("locale", "", "Copy language, e.g. en or id")
		outDir      = flag.String("out", "", "Directory to export results into")
		bundle      = flag.Bool("bundle", false, "Export copy and image as one zip (requires -out)")
		health      = flag.Bool("health", false, "Only check the server health")
		timeout     = flag.Duration("timeout", 3*time.Minute, "Request timeout")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	api := client.NewAPI(client.APIOptions{BaseURL: *server, Locale: *locale})

	if *health {
		h, err := api.Health(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("health check failed")
		}
		fmt.Printf("%s: %s (%s)\n", h.Status, h.Message, h.Timestamp)
		return
	}

	form := client.NewForm(api)
	fields := map[string]string{
		domain.FieldProductName:    *name,
		domain.FieldDescription:    *description,
		domain.FieldCategory:       *category,
		domain.FieldTargetAudience: *audience,
		domain.FieldPlatform:       *platform,
		domain.FieldTone:           *tone,
	}
	for field, value := range fields {
		if err := form.UpdateField(field, value); err != nil {
			logger.Fatal().Err(err).Msg("invalid field")
		}
	}
	if *imagePath != "" {
		if err := form.AttachImageFile(*imagePath); err != nil {
			logger.Fatal().Err(err).Str("path", *imagePath).Msg("cannot attach image")
		}
	}

	res, err := form.Submit(ctx)
	if err != nil {
		if errors.Is(err, client.ErrMissingRequired) {
			fmt.Fprintln(os.Stderr, form.Message())
			flag.Usage()
			os.Exit(2)
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			logger.Debug().Int("status", apiErr.StatusCode).Str("code", apiErr.Code).Msg(apiErr.Message)
		}
		fmt.Fprintln(os.Stderr, form.Message())
		os.Exit(1)
	}

	fmt.Println(res.MarketingCopy)
	if res.HasImage() && *outDir == "" {
		ref := res.GeneratedImage
		if strings.HasPrefix(ref, "data:") {
			ref = "(inline image, use -out to save it)"
		}
		fmt.Fprintf(os.Stderr, "\nimage: %s\n", ref)
	}
	if !res.HasImage() {
		logger.Warn().Msg("no banner was generated")
	}

	if *outDir == "" {
		return
	}
	store, err := storage.NewFileStore(*outDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot prepare output directory")
	}
	exp := client.NewExporter(store, nil)

	if *bundle {
		key, err := exp.ExportBundle(ctx, res, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("export failed")
		}
		logger.Info().Str("file", key).Msg("bundle saved")
		return
	}
	key, err := exp.ExportText(ctx, res.MarketingCopy, "")
	if err != nil {
		logger.Fatal().Err(err).Msg("export copy failed")
	}
	logger.Info().Str("file", key).Msg("copy saved")
	if res.HasImage() {
		key, err := exp.ExportImage(ctx, res.GeneratedImage, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("export image failed")
		}
		logger.Info().Str("file", key).Msg("image saved")
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
