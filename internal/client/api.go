package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"marketgen/internal/domain"
)

const defaultBaseURL = "http://localhost:5000"

// APIOptions configures API.
type APIOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	// Locale is sent as X-Locale when set.
	Locale string
}

// API talks to the generation server.
type API struct {
	baseURL    string
	httpClient *http.Client
	locale     string
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// Health is the body of GET /api/health.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func NewAPI(opts APIOptions) *API {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 3 * time.Minute}
	}
	return &API{baseURL: base, httpClient: hc, locale: strings.TrimSpace(opts.Locale)}
}

// Generate posts req as one multipart request.
func (a *API) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	body, contentType, err := encodeMultipart(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/marketing/generate", body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if a.locale != "" {
		httpReq.Header.Set("X-Locale", a.locale)
	}

	var out domain.GenerationResult
	if err := a.do(httpReq, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.MarketingCopy) == "" {
		return nil, fmt.Errorf("api: empty marketingCopy in response")
	}
	return &out, nil
}

// Health calls GET /api/health.
func (a *API) Health(ctx context.Context) (*Health, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	var out Health
	if err := a.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Code = body.Error
			apiErr.Message = body.Message
		}
		return apiErr
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func encodeMultipart(req domain.GenerationRequest) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fields := []struct{ name, value string }{
		{domain.FieldProductName, req.ProductName},
		{domain.FieldDescription, req.Description},
		{domain.FieldCategory, req.Category},
		{domain.FieldTargetAudience, req.TargetAudience},
		{domain.FieldPlatform, req.Platform},
		{domain.FieldTone, req.Tone},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if img := req.ProductImage; !img.IsZero() {
		filename := img.Filename
		if filename == "" {
			filename = "product"
		}
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, domain.FieldProductImage, escapeQuotes(filename)))
		mimeType := img.MIMEType
		if mimeType == "" {
			mimeType = http.DetectContentType(img.Data)
		}
		hdr.Set("Content-Type", mimeType)
		w, err := mw.CreatePart(hdr)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(img.Data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
