package handlers

import (
	"net/http"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "Marketing Generator API is running",
		Timestamp: a.now().UTC().Format(isoMillis),
	})
}

type rootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root describes the API and lists its endpoints.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, rootResponse{
		Message: "AI Marketing Generator API",
		Version: Version,
		Endpoints: map[string]string{
			"health":   "/api/health",
			"generate": "POST /api/marketing/generate",
			"docs":     "/api/docs",
		},
	})
}
