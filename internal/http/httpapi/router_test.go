package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketgen/internal/http/handlers"
	"marketgen/internal/middleware"
)

func newTestRouter(t *testing.T, uploads http.FileSystem) http.Handler {
	t.Helper()
	app := handlers.NewApp(nil, zerolog.Nop(), 1<<20)
	return NewRouter(app, Options{
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:3000"},
		DefaultLocale:  "en",
		Uploads:        uploads,
	})
}

func TestRouterHealth(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "fr", rr.Header().Get("Content-Language"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestRouterRoot(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "AI Marketing Generator API")
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
	assert.NotEmpty(t, body["message"])

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/marketing/generate", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "method_not_allowed", body["error"])
}

func TestRouterCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/marketing/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "banner.txt"), []byte("hello"), 0o644))

	rr := httptest.NewRecorder()
	newTestRouter(t, http.Dir(dir)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/banner.txt", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())

	rr = httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/banner.txt", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
