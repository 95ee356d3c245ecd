package client

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketgen/internal/domain"
	"marketgen/internal/storage"
)

func newExporter(t *testing.T) (*Exporter, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewExporter(store, nil), store
}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestExportText(t *testing.T) {
	exp, store := newExporter(t)

	key, err := exp.ExportText(context.Background(), "Sip sustainably.", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCopyFilename, key)
	data, err := os.ReadFile(filepath.Join(store.BasePath(), key))
	require.NoError(t, err)
	assert.Equal(t, "Sip sustainably.", string(data))

	_, err = exp.ExportText(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportImageFromDataURL(t *testing.T) {
	exp, store := newExporter(t)

	key, err := exp.ExportImage(context.Background(), pngDataURL(), "")
	require.NoError(t, err)
	assert.Equal(t, "marketing-image.png", key)
	data, err := store.Read(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestExportImageFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("\xff\xd8\xff\xe0jpeg"))
	}))
	defer srv.Close()
	exp, _ := newExporter(t)

	key, err := exp.ExportImage(context.Background(), srv.URL+"/banner", "")
	require.NoError(t, err)
	assert.Equal(t, "marketing-image.jpg", key)
}

func TestExportImageErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	exp, _ := newExporter(t)

	for _, ref := range []string{"", "ftp://example.com/a.png", "data:image/png,notbase64", "data:image/png;base64,%%%", srv.URL + "/missing"} {
		_, err := exp.ExportImage(context.Background(), ref, "out.png")
		assert.Error(t, err, ref)
	}
}

func TestExportBundle(t *testing.T) {
	exp, store := newExporter(t)

	key, err := exp.ExportBundle(context.Background(), &domain.GenerationResult{MarketingCopy: "copy", GeneratedImage: pngDataURL()}, "")
	require.NoError(t, err)
	assert.Regexp(t, `^marketing-[0-9a-f]{8}\.zip$`, key)

	data, err := store.Read(context.Background(), key)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{DefaultCopyFilename, "marketing-image.png"}, names)

	key, err = exp.ExportBundle(context.Background(), &domain.GenerationResult{MarketingCopy: "copy only"}, "only.zip")
	require.NoError(t, err)
	assert.Equal(t, "only.zip", key)

	_, err = exp.ExportBundle(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNothingToExport)
}
