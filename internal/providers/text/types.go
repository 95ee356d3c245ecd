package text

import (
	"context"

	"marketgen/internal/domain"
)

// Request carries everything a provider needs to write one piece of copy.
type Request struct {
	ProductName    string
	Description    string
	Category       string
	TargetAudience string
	Platform       string
	Tone           string
	Locale         string
	Image          *domain.ProductImage
}

// Generator is the contract implemented by every text provider.
type Generator interface {
	Name() string
	GenerateCopy(ctx context.Context, req Request) (string, error)
}

// RequestFrom maps a validated generation request onto a provider request.
func RequestFrom(req domain.GenerationRequest) Request {
	out := Request{
		ProductName:    req.ProductName,
		Description:    req.Description,
		Category:       req.Category,
		TargetAudience: req.TargetAudience,
		Platform:       req.Platform,
		Tone:           req.Tone,
		Locale:         req.Locale,
	}
	if !req.ProductImage.IsZero() {
		out.Image = req.ProductImage
	}
	return out
}
