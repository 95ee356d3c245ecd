package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Enumerated values accepted by the generation form.
var (
	Categories = []string{"Electronics", "Fashion", "Food & Beverage", "Beauty", "Home & Garden", "Sports", "Technology", "Health"}
	Platforms  = []string{"Instagram", "LinkedIn", "Twitter", "Facebook", "TikTok"}
	Tones      = []string{"Professional", "Casual", "Humorous", "Inspirational", "Urgent", "Friendly"}
)

const (
	// DefaultPlatform is applied when the request omits the platform.
	DefaultPlatform = "Instagram"
	// DefaultTone is applied when the request omits the tone.
	DefaultTone = "Professional"
	// DefaultLocale is the language used for copy when none was negotiated.
	DefaultLocale = "en"
)

// Wire names of the generation form fields.
const (
	FieldProductName    = "productName"
	FieldDescription    = "description"
	FieldCategory       = "category"
	FieldTargetAudience = "targetAudience"
	FieldPlatform       = "platform"
	FieldTone           = "tone"
	FieldProductImage   = "productImage"
)

var (
	categoryByFold = foldIndex(Categories)
	platformByFold = foldIndex(Platforms)
	toneByFold     = foldIndex(Tones)
)

// ProductImage is an uploaded product photo kept in memory for one request.
type ProductImage struct {
	Filename string
	MIMEType string
	Data     []byte
}

// IsZero reports whether no image bytes were supplied.
func (p *ProductImage) IsZero() bool {
	return p == nil || len(p.Data) == 0
}

// GenerationRequest is the product metadata submitted for one generation.
type GenerationRequest struct {
	ProductName    string
	Description    string
	Category       string
	TargetAudience string
	Platform       string
	Tone           string
	Locale         string
	ProductImage   *ProductImage
}

// GenerationResult is returned to the caller after a generation completes.
// GeneratedImage is a URL or a data URL and is empty when image generation
// did not succeed.
type GenerationResult struct {
	MarketingCopy  string `json:"marketingCopy"`
	GeneratedImage string `json:"generatedImage,omitempty"`
}

// HasImage reports whether the image step produced a reference.
func (r *GenerationResult) HasImage() bool {
	return r != nil && r.GeneratedImage != ""
}

// NewGenerationRequest returns a request populated with the form defaults.
func NewGenerationRequest() GenerationRequest {
	return GenerationRequest{
		Platform: DefaultPlatform,
		Tone:     DefaultTone,
		Locale:   DefaultLocale,
	}
}

// Normalize trims free text, applies defaults and rewrites enumerated values
// to their canonical spelling. Unknown enumerated values are left as-is so
// Validate can report them.
func (r *GenerationRequest) Normalize() {
	if r == nil {
		return
	}
	r.ProductName = strings.TrimSpace(r.ProductName)
	r.Description = strings.TrimSpace(r.Description)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	r.Category = canonical(categoryByFold, r.Category)
	r.Platform = canonical(platformByFold, r.Platform)
	r.Tone = canonical(toneByFold, r.Tone)
	if r.Platform == "" {
		r.Platform = DefaultPlatform
	}
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	r.Locale = strings.TrimSpace(r.Locale)
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
}

// Validate checks the request contract. Call Normalize first.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.ProductName) == "" {
		return invalidField(FieldProductName, "productName is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return invalidField(FieldDescription, "description is required")
	}
	if r.Category != "" {
		if _, ok := categoryByFold[fold(r.Category)]; !ok {
			return invalidField(FieldCategory, fmt.Sprintf("category must be one of %s", strings.Join(Categories, ", ")))
		}
	}
	if _, ok := platformByFold[fold(r.Platform)]; !ok {
		return invalidField(FieldPlatform, fmt.Sprintf("platform must be one of %s", strings.Join(Platforms, ", ")))
	}
	if _, ok := toneByFold[fold(r.Tone)]; !ok {
		return invalidField(FieldTone, fmt.Sprintf("tone must be one of %s", strings.Join(Tones, ", ")))
	}
	return nil
}

// HasRequiredFields reports whether productName and description are present.
func (r GenerationRequest) HasRequiredFields() bool {
	return strings.TrimSpace(r.ProductName) != "" && strings.TrimSpace(r.Description) != ""
}

// fold returns the case-folded form of s. Casers are stateful, so a fresh one
// is used per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldIndex(values []string) map[string]string {
	idx := make(map[string]string, len(values))
	for _, v := range values {
		idx[fold(v)] = v
	}
	return idx
}

func canonical(idx map[string]string, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if c, ok := idx[fold(value)]; ok {
		return c
	}
	return value
}
