// Package imgutil re-encodes uploaded product photos before they are sent to
// providers as references.
package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"marketgen/internal/domain"
)

// DefaultReferenceBytes is the size above which references are re-encoded.
const DefaultReferenceBytes = 4 << 20

// CompressToJPEG decodes PNG, GIF or JPEG data and re-encodes it as JPEG.
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PrepareReference returns img unchanged when it is at most maxBytes,
// otherwise a JPEG copy. Formats the decoder does not know are passed through
// and left for the provider to judge.
func PrepareReference(img *domain.ProductImage, maxBytes int) *domain.ProductImage {
	if img.IsZero() {
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = DefaultReferenceBytes
	}
	if len(img.Data) <= maxBytes {
		return img
	}
	for _, quality := range []int{85, 70, 50} {
		out, err := CompressToJPEG(img.Data, quality)
		if err != nil {
			return img
		}
		if len(out) <= maxBytes || quality == 50 {
			return &domain.ProductImage{
				Filename: img.Filename,
				MIMEType: "image/jpeg",
				Data:     out,
			}
		}
	}
	return img
}
