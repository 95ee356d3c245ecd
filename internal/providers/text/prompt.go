package text

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// SystemInstruction frames every copy request.
const SystemInstruction = "You are a senior social media copywriter. Reply with the finished post only: no preamble, no markdown headings, no surrounding quotes."

type platformGuide struct {
	limit    int
	hashtags string
	format   string
}

var platformGuides = map[string]platformGuide{
	"Instagram": {limit: 2200, hashtags: "5 to 10 relevant hashtags on the last line", format: "Open with a scroll-stopping first line, use short paragraphs and a few fitting emojis."},
	"LinkedIn":  {limit: 1300, hashtags: "at most 3 professional hashtags", format: "Lead with an insight or benefit, keep paragraphs short and end with a question or call to action."},
	"Twitter":   {limit: 280, hashtags: "1 or 2 hashtags", format: "Write a single punchy post that fits in one tweet including hashtags."},
	"Facebook":  {limit: 1000, hashtags: "1 to 3 hashtags", format: "Be conversational, use two or three short paragraphs and finish with a clear call to action."},
	"TikTok":    {limit: 150, hashtags: "3 to 5 trending-style hashtags", format: "Write a short caption with a hook that invites viewers to watch and engage."},
}

var toneGuides = map[string]string{
	"Professional":  "confident, credible and polished",
	"Casual":        "relaxed, friendly and everyday",
	"Humorous":      "playful and witty without being silly about the product",
	"Inspirational": "uplifting and aspirational",
	"Urgent":        "energetic with a clear reason to act now",
	"Friendly":      "warm, approachable and personal",
}

// BuildCopyPrompt turns the product metadata into the instruction sent to
// the text provider.
func BuildCopyPrompt(req Request) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("Write %s marketing copy for the product %q.", platformLabel(req.Platform), strings.TrimSpace(req.ProductName)))
	lines = append(lines, fmt.Sprintf("Product description: %s", strings.TrimSpace(req.Description)))

	if category := strings.TrimSpace(req.Category); category != "" {
		lines = append(lines, fmt.Sprintf("Category: %s.", category))
	}
	if audience := strings.TrimSpace(req.TargetAudience); audience != "" {
		lines = append(lines, fmt.Sprintf("Target audience: %s.", audience))
	}

	tone := coalesce(req.Tone, "Professional")
	if guide, ok := toneGuides[tone]; ok {
		lines = append(lines, fmt.Sprintf("Tone: %s (%s).", tone, guide))
	} else {
		lines = append(lines, fmt.Sprintf("Tone: %s.", tone))
	}

	if guide, ok := platformGuides[req.Platform]; ok {
		lines = append(lines, guide.format)
		lines = append(lines, fmt.Sprintf("Keep it under %d characters and include %s.", guide.limit, guide.hashtags))
	}

	if req.Image != nil && len(req.Image.Data) > 0 {
		lines = append(lines, "A photo of the product is attached; reference what it shows where it helps the copy.")
	}

	lines = append(lines, fmt.Sprintf("Write in %s.", LanguageName(req.Locale)))

	return strings.Join(lines, "\n")
}

// LanguageName returns the English name of a BCP-47 locale, "English" when
// the locale cannot be parsed.
func LanguageName(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		return "English"
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return "English"
	}
	return name
}

func platformLabel(platform string) string {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return "a social media post"
	}
	return "a " + platform + " post"
}
