package text

import (
	"strings"
	"testing"

	"marketgen/internal/domain"
)

func TestBuildCopyPrompt(t *testing.T) {
	prompt := BuildCopyPrompt(Request{
		ProductName:    "EcoBottle Pro",
		Description:    "Reusable bottle",
		Category:       "Health",
		TargetAudience: "commuters",
		Platform:       "Twitter",
		Tone:           "Urgent",
		Locale:         "id",
	})

	for _, want := range []string{
		`"EcoBottle Pro"`,
		"Reusable bottle",
		"Category: Health.",
		"Target audience: commuters.",
		"Tone: Urgent",
		"under 280 characters",
		"Write in Indonesian.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "photo of the product") {
		t.Fatal("prompt mentions a photo that was not attached")
	}
}

func TestBuildCopyPromptOmitsEmptyOptionalFields(t *testing.T) {
	prompt := BuildCopyPrompt(Request{ProductName: "Lamp", Description: "Desk lamp", Image: &domain.ProductImage{Data: []byte("x")}})
	if strings.Contains(prompt, "Category:") || strings.Contains(prompt, "Target audience:") {
		t.Fatalf("unexpected optional fields:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Tone: Professional") {
		t.Fatalf("expected default tone:\n%s", prompt)
	}
	if !strings.Contains(prompt, "photo of the product") {
		t.Fatalf("expected photo hint:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Write in English.") {
		t.Fatalf("expected default language:\n%s", prompt)
	}
}

func TestLanguageName(t *testing.T) {
	tests := map[string]string{
		"":      "English",
		"en":    "English",
		"id":    "Indonesian",
		"fr":    "French",
		"!!bad": "English",
	}
	for in, want := range tests {
		if got := LanguageName(in); got != want {
			t.Fatalf("LanguageName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanCopy(t *testing.T) {
	tests := map[string]string{
		"  plain copy ":                 "plain copy",
		"```markdown\nfenced copy\n```": "fenced copy",
		"\"quoted copy\"":               "quoted copy",
		"He said \"hi\" and \"bye\"":    "He said \"hi\" and \"bye\"",
	}
	for in, want := range tests {
		if got := cleanCopy(in); got != want {
			t.Fatalf("cleanCopy(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestFrom(t *testing.T) {
	req := domain.GenerationRequest{ProductName: "a", Description: "b", Platform: "TikTok", Tone: "Casual", Locale: "de", ProductImage: &domain.ProductImage{}}
	got := RequestFrom(req)
	if got.Image != nil {
		t.Fatal("empty image should not be forwarded")
	}
	if got.Platform != "TikTok" || got.Tone != "Casual" || got.Locale != "de" {
		t.Fatalf("RequestFrom = %#v", got)
	}
}
