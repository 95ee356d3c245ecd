// Package client is the caller side of the generator: a stateful form, the
// HTTP API binding and local export of results.
package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"marketgen/internal/domain"
)

var (
	ErrMissingRequired    = errors.New("product name and description are required")
	ErrSubmissionInFlight = errors.New("a generation is already in progress")
	ErrGenerationFailed   = errors.New("failed to generate marketing content, please try again")
	ErrNotImage           = errors.New("attachment is not an image")
	ErrUnknownField       = errors.New("unknown form field")
)

// State is the form's display state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StatePopulated:
		return "populated"
	default:
		return "idle"
	}
}

// Submitter sends one generation request.
type Submitter interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// submitError keeps the cause for logging while printing only generic text.
type submitError struct {
	cause error
}

func (e *submitError) Error() string   { return ErrGenerationFailed.Error() }
func (e *submitError) Unwrap() []error { return []error{ErrGenerationFailed, e.cause} }

// Form holds the request being edited, the attached image and the last
// result. It is safe for concurrent use; a second Submit while one is in
// flight is refused.
type Form struct {
	mu      sync.Mutex
	api     Submitter
	req     domain.GenerationRequest
	preview string
	state   State
	result  *domain.GenerationResult
	message string
	epoch   uint64
	// inFlight is owned by Submit; Reset leaves it alone.
	inFlight bool
}

func NewForm(api Submitter) *Form {
	return &Form{api: api, req: domain.NewGenerationRequest()}
}

// UpdateField sets one field by its wire name.
func (f *Form) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case domain.FieldProductName:
		f.req.ProductName = value
	case domain.FieldDescription:
		f.req.Description = value
	case domain.FieldCategory:
		f.req.Category = value
	case domain.FieldTargetAudience:
		f.req.TargetAudience = value
	case domain.FieldPlatform:
		f.req.Platform = value
	case domain.FieldTone:
		f.req.Tone = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// AttachImage stores the image bytes and a data URL preview.
func (f *Form) AttachImage(filename string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty file", ErrNotImage)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: %s", ErrNotImage, mimeType)
	}
	img := &domain.ProductImage{
		Filename: filepath.Base(filename),
		MIMEType: mimeType,
		Data:     append([]byte(nil), data...),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.req.ProductImage = img
	f.preview = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	return nil
}

// AttachImageFile reads path and attaches it.
func (f *Form) AttachImageFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return f.AttachImage(filepath.Base(path), data)
}

// RemoveImage clears the attachment and its preview.
func (f *Form) RemoveImage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.req.ProductImage = nil
	f.preview = ""
}

// Request returns a copy of the request being edited.
func (f *Form) Request() domain.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.req
}

// Preview returns the data URL of the attached image, "" when none.
func (f *Form) Preview() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the last successful result, nil unless populated.
func (f *Form) Result() *domain.GenerationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Message is the user-visible notice from the last Submit, "" after success.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Submit sends the current request. Missing required fields are reported
// without a network call. Any transport or server failure clears the result,
// returns the form to idle and yields an error wrapping ErrGenerationFailed.
func (f *Form) Submit(ctx context.Context) (*domain.GenerationResult, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if !f.req.HasRequiredFields() {
		f.message = "Please fill in the product name and description."
		f.mu.Unlock()
		return nil, ErrMissingRequired
	}
	req := f.req
	f.inFlight = true
	f.state = StateSubmitting
	f.result = nil
	f.message = ""
	epoch := f.epoch
	f.mu.Unlock()

	res, err := f.api.Generate(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if epoch != f.epoch {
		// Reset ran while the request was in flight.
		f.state = StateIdle
		if err != nil {
			return nil, &submitError{cause: err}
		}
		return res, nil
	}
	if err != nil {
		f.state = StateIdle
		f.result = nil
		f.message = ErrGenerationFailed.Error()
		return nil, &submitError{cause: err}
	}
	f.state = StatePopulated
	f.result = res
	return res, nil
}

// Reset restores the defaults and discards any result. A submission still in
// flight keeps the form in StateSubmitting until it settles, and its result
// is dropped.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.req = domain.NewGenerationRequest()
	f.preview = ""
	if !f.inFlight {
		f.state = StateIdle
	}
	f.result = nil
	f.message = ""
	f.epoch++
}
