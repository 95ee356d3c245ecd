package image

import (
	"context"
	"encoding/base64"
	"strings"

	"marketgen/internal/domain"
)

// Request describes one banner generation.
type Request struct {
	ProductName string
	Description string
	Category    string
	Platform    string
	// Reference is the uploaded product photo. Providers that cannot take an
	// image input ignore it.
	Reference *domain.ProductImage
}

// Banner is a generated image. Providers return either a hosted URL or the
// raw bytes.
type Banner struct {
	URL      string
	MIMEType string
	Data     []byte
}

// Ref returns the reference handed to clients: the hosted URL when there is
// one, otherwise a data URL of the bytes.
func (b *Banner) Ref() string {
	if b == nil {
		return ""
	}
	if u := strings.TrimSpace(b.URL); u != "" {
		return u
	}
	if len(b.Data) == 0 {
		return ""
	}
	mime := b.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Name() string
	GenerateBanner(ctx context.Context, req Request) (*Banner, error)
}

// RequestFrom maps a validated generation request onto a banner request.
func RequestFrom(req domain.GenerationRequest) Request {
	out := Request{
		ProductName: req.ProductName,
		Description: req.Description,
		Category:    req.Category,
		Platform:    req.Platform,
	}
	if !req.ProductImage.IsZero() {
		out.Reference = req.ProductImage
	}
	return out
}
