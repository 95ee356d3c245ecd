package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifiers accepted by TEXT_PROVIDER and IMAGE_PROVIDER.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderLeonardo = "leonardo"
	ProviderNone     = "none"
)

const defaultMaxUploadBytes = 10 << 20

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	AllowedOrigins     []string
	DefaultLocale      string
	GeoIPDBPath        string
	SentryDSN          string
	DatabaseURL        string
	UploadsDir         string
	MaxUploadBytes     int64
	TextProvider       string
	ImageProvider      string
	GeminiAPIKey       string
	GeminiTextModel    string
	GeminiImageModel   string
	GeminiBaseURL      string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIImageModel   string
	OpenAIBaseURL      string
	OpenAIOrg          string
	LeonardoAPIKey     string
	LeonardoModelID    string
	LeonardoBaseURL    string
	ProviderTimeout    time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	HTTPShutdownWindow time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "5000"),
		AllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		UploadsDir:         os.Getenv("UPLOADS_DIR"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		TextProvider:       strings.ToLower(getEnv("TEXT_PROVIDER", ProviderGemini)),
		ImageProvider:      strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderGemini)),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiTextModel:    getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:   getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:      os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIImageModel:   getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		LeonardoAPIKey:     strings.TrimSpace(os.Getenv("LEONARDO_API_KEY")),
		LeonardoModelID:    os.Getenv("LEONARDO_MODEL_ID"),
		LeonardoBaseURL:    getEnv("LEONARDO_BASE_URL", "https://cloud.leonardo.ai/api/rest/v1"),
		ProviderTimeout:    time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 90)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		HTTPShutdownWindow: time.Second * time.Duration(getEnvInt("HTTP_SHUTDOWN_SECONDS", 10)),
	}

	switch cfg.TextProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("TEXT_PROVIDER must be gemini or openai, got %q", cfg.TextProvider)
	}

	switch cfg.ImageProvider {
	case ProviderGemini, ProviderOpenAI, ProviderLeonardo, ProviderNone:
	default:
		return nil, fmt.Errorf("IMAGE_PROVIDER must be gemini, openai, leonardo or none, got %q", cfg.ImageProvider)
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
