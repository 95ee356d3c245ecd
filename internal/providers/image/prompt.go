package image

import (
	"fmt"
	"strings"
)

// DefaultNegativePrompt lists artefacts the banner should avoid.
const DefaultNegativePrompt = "low quality, blurry, distorted, washed out, extra limbs, garbled text, watermark"

// BuildBannerPrompt converts product metadata into an instruction for
// text-to-image models.
func BuildBannerPrompt(req Request) string {
	var lines []string

	if name := strings.TrimSpace(req.ProductName); name != "" {
		lines = append(lines, fmt.Sprintf("Create a professional social media marketing banner for %q.", name))
	} else {
		lines = append(lines, "Create a professional social media marketing banner for the featured product.")
	}

	if desc := strings.TrimSpace(req.Description); desc != "" {
		lines = append(lines, fmt.Sprintf("Product: %s.", strings.TrimSuffix(desc, ".")))
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		lines = append(lines, fmt.Sprintf("Category: %s. Use a setting and colour palette that suit this category.", category))
	}

	if req.Reference != nil && len(req.Reference.Data) > 0 {
		lines = append(lines, "Use the attached product photo as the main subject. Preserve its shape, colours and logo without warping.")
	}

	if platform := strings.TrimSpace(req.Platform); platform != "" {
		lines = append(lines, fmt.Sprintf("Compose for %s with a %s frame and leave clean space for a headline.", platform, AspectRatioForPlatform(platform)))
	}

	lines = append(lines, "Modern, eye-catching design with studio lighting, sharp focus and clean post-processing.")
	lines = append(lines, "Do not render any text, prices or watermarks in the image.")

	return strings.Join(lines, "\n")
}

// AspectRatioForPlatform picks the frame each platform displays best.
func AspectRatioForPlatform(platform string) string {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "tiktok":
		return "9:16"
	case "linkedin", "twitter", "facebook":
		return "16:9"
	default:
		return "1:1"
	}
}

// openAISize maps an aspect ratio to a size token accepted by the OpenAI
// images endpoint.
func openAISize(aspect string) string {
	switch aspect {
	case "16:9":
		return "1792x1024"
	case "9:16":
		return "1024x1792"
	default:
		return "1024x1024"
	}
}

// leonardoDimensions maps an aspect ratio to width and height in multiples
// of 8 as Leonardo requires.
func leonardoDimensions(aspect string) (int, int) {
	switch aspect {
	case "16:9":
		return 1344, 768
	case "9:16":
		return 768, 1344
	default:
		return 1024, 1024
	}
}
