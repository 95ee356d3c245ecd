package text

import (
	"encoding/base64"
	"strings"

	"marketgen/internal/domain"
)

const (
	geminiProviderName = "gemini"
	openAIProviderName = "openai"
)

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

// cleanCopy strips wrappers models like to add around a finished post.
func cleanCopy(raw string) string {
	text := trimCodeFence(strings.TrimSpace(raw))
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' && strings.Count(text, `"`) == 2 {
		text = text[1 : len(text)-1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 && !strings.ContainsAny(trimmed[:nl], " \t") {
		trimmed = trimmed[nl+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func dataURL(img *domain.ProductImage) string {
	if img.IsZero() {
		return ""
	}
	mime := coalesce(img.MIMEType, "image/jpeg")
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
