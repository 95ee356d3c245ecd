package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/joho/godotenv"

	"marketgen/internal/http/handlers"
	"marketgen/internal/http/httpapi"
	"marketgen/internal/imgutil"
	"marketgen/internal/infra"
	"marketgen/internal/infra/credentials"
	"marketgen/internal/infra/geoip"
	"marketgen/internal/middleware"
	"marketgen/internal/service"
	"marketgen/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// run serves until ctx ends. Startup failures are logged, reported to Sentry
// and returned so deferred cleanup still runs.
func run(ctx context.Context) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("")
		bootLogger.Error().Err(err).Msg("invalid configuration")
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv)

	sentryOn, err := infra.InitSentry(cfg, "marketgen@"+handlers.Version)
	if err != nil {
		logger.Warn().Err(err).Msg("sentry disabled")
	}
	defer infra.FlushSentry(2 * time.Second)

	fail := func(err error, msg string) error {
		logger.Error().Err(err).Msg(msg)
		infra.ReportError(ctx, err, map[string]string{"stage": "startup"})
		return fmt.Errorf("%s: %w", msg, err)
	}

	// Stored provider keys fill whatever the environment left empty.
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return fail(err, "failed to connect database")
	}
	if pool != nil {
		store := credentials.NewStore(infra.NewSQLRunner(pool, logger))
		if err := store.Resolve(ctx, cfg); err != nil {
			logger.Warn().Err(err).Msg("could not load stored provider keys")
		}
		pool.Close()
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	textGen, imageGen, err := service.BuildProviders(ctx, cfg, logger)
	if err != nil {
		return fail(err, "failed to configure providers")
	}
	gen := service.New(service.Options{
		Text:           textGen,
		Image:          imageGen,
		Logger:         logger,
		Timeout:        cfg.ProviderTimeout,
		ReferenceBytes: imgutil.DefaultReferenceBytes,
	})
	textName, imageName := gen.Providers()
	logger.Info().Str("text_provider", textName).Str("image_provider", imageName).Msg("providers ready")

	var uploads http.FileSystem
	if cfg.UploadsDir != "" {
		fs, err := storage.NewFileStore(cfg.UploadsDir)
		if err != nil {
			return fail(err, "failed to prepare uploads directory")
		}
		uploads = fs.FileSystem()
	}

	app := handlers.NewApp(gen, logger, cfg.MaxUploadBytes)
	var handler http.Handler = httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
		Uploads:        uploads,
	})
	if sentryOn {
		handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)
	}

	server := infra.NewHTTPServer(cfg, handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fail(err, "http server failed")
		}
		return nil
	}

	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
	return nil
}
