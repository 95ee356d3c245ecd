package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"marketgen/internal/domain"
	"marketgen/internal/middleware"
)

// MarketingGenerator produces copy and an optional banner for one request.
type MarketingGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// Version is reported by the root endpoint.
const Version = "1.0.0"

type App struct {
	Generator      MarketingGenerator
	Logger         zerolog.Logger
	MaxUploadBytes int64
	Now            func() time.Time
}

func NewApp(gen MarketingGenerator, logger zerolog.Logger, maxUploadBytes int64) *App {
	return &App{
		Generator:      gen,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
		Now:            time.Now,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errCode, Message: message})
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) requestLogger(r *http.Request) zerolog.Logger {
	return a.Logger.With().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Logger()
}

// NotFound answers unknown routes.
func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusNotFound, "not_found", "Route "+r.Method+" "+r.URL.Path+" not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (a *App) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.error(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method "+r.Method+" is not allowed on "+r.URL.Path)
}
