package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"marketgen/internal/domain"
	"marketgen/internal/infra"
	"marketgen/internal/middleware"
)

// formOverhead is the allowance for text fields and multipart framing on top
// of the image limit.
const formOverhead = 1 << 20

var errUnsupportedMedia = errors.New("unsupported content type")

type marketingJSON struct {
	ProductName    string `json:"productName"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	TargetAudience string `json:"targetAudience"`
	Platform       string `json:"platform"`
	Tone           string `json:"tone"`
}

// GenerateMarketing handles POST /api/marketing/generate.
func (a *App) GenerateMarketing(w http.ResponseWriter, r *http.Request) {
	logger := a.requestLogger(r)

	req, err := a.decodeGenerationRequest(w, r)
	if err != nil {
		a.writeDecodeError(w, err)
		return
	}
	req.Locale = middleware.LocaleFromContext(r.Context())

	res, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			a.error(w, http.StatusBadRequest, "validation_failed", verr.Message)
		case errors.Is(err, domain.ErrInvalidRequest):
			a.error(w, http.StatusBadRequest, "validation_failed", "Invalid request")
		case errors.Is(err, domain.ErrProviderUnavailable):
			logger.Error().Err(err).Msg("no text provider configured")
			a.error(w, http.StatusServiceUnavailable, "provider_unavailable", "Marketing copy generation is not configured")
		case errors.Is(err, domain.ErrProviderFailure):
			infra.ReportError(r.Context(), err, map[string]string{"stage": "copy"})
			a.error(w, http.StatusBadGateway, "generation_failed", "Failed to generate marketing copy")
		default:
			logger.Error().Err(err).Msg("generation failed")
			infra.ReportError(r.Context(), err, nil)
			a.error(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
		}
		return
	}

	logger.Info().
		Str("product", req.ProductName).
		Bool("has_image", res.HasImage()).
		Msg("marketing content generated")
	a.json(w, http.StatusOK, res)
}

func (a *App) decodeGenerationRequest(w http.ResponseWriter, r *http.Request) (domain.GenerationRequest, error) {
	req := domain.GenerationRequest{}
	limit := a.MaxUploadBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return req, errUnsupportedMedia
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(limit + formOverhead); err != nil {
			return req, err
		}
		fillFromForm(&req, r.FormValue)
		img, err := readProductImage(r, limit)
		if err != nil {
			return req, err
		}
		req.ProductImage = img
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		fillFromForm(&req, r.PostFormValue)
	case "application/json":
		var body marketingJSON
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return req, err
		}
		req.ProductName = body.ProductName
		req.Description = body.Description
		req.Category = body.Category
		req.TargetAudience = body.TargetAudience
		req.Platform = body.Platform
		req.Tone = body.Tone
	default:
		return req, errUnsupportedMedia
	}
	return req, nil
}

func fillFromForm(req *domain.GenerationRequest, get func(string) string) {
	req.ProductName = get(domain.FieldProductName)
	req.Description = get(domain.FieldDescription)
	req.Category = get(domain.FieldCategory)
	req.TargetAudience = get(domain.FieldTargetAudience)
	req.Platform = get(domain.FieldPlatform)
	req.Tone = get(domain.FieldTone)
}

type uploadTooLargeError struct {
	limit int64
}

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("productImage exceeds %d bytes", e.limit)
}

func readProductImage(r *http.Request, limit int64) (*domain.ProductImage, error) {
	file, header, err := r.FormFile(domain.FieldProductImage)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size > limit {
		return nil, &uploadTooLargeError{limit: limit}
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &uploadTooLargeError{limit: limit}
	}
	if len(data) == 0 {
		return nil, nil
	}

	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrImageRejected, header.Filename, sniffed)
	}
	return &domain.ProductImage{
		Filename: header.Filename,
		MIMEType: sniffed,
		Data:     data,
	}, nil
}

func (a *App) writeDecodeError(w http.ResponseWriter, err error) {
	var (
		tooLarge *uploadTooLargeError
		maxBytes *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("productImage must be at most %d bytes", tooLarge.limit))
	case errors.As(err, &maxBytes):
		a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large")
	case errors.Is(err, domain.ErrImageRejected):
		a.error(w, http.StatusBadRequest, "invalid_image", "productImage must be an image file")
	case errors.Is(err, errUnsupportedMedia):
		a.error(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Send multipart/form-data, urlencoded or JSON")
	case errors.Is(err, multipart.ErrMessageTooLarge):
		a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large")
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "Malformed request body")
	}
}
