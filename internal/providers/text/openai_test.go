package text

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"marketgen/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestOpenAIGeneratorGenerateCopy(t *testing.T) {
	var captured openAIChatRequest
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:       "sk-test",
		Organization: "org-1",
		BaseURL:      "https://api.test/v1/",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.String() != "https://api.test/v1/chat/completions" {
				t.Fatalf("unexpected url %s", r.URL)
			}
			if r.Header.Get("Authorization") != "Bearer sk-test" {
				t.Fatalf("authorization = %q", r.Header.Get("Authorization"))
			}
			if r.Header.Get("OpenAI-Organization") != "org-1" {
				t.Fatalf("organization = %q", r.Header.Get("OpenAI-Organization"))
			}
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"Meet EcoBottle Pro. #Sustainable"}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}

	out, err := gen.GenerateCopy(context.Background(), Request{
		ProductName: "EcoBottle Pro",
		Description: "Reusable bottle",
		Platform:    "Instagram",
		Tone:        "Professional",
	})
	if err != nil {
		t.Fatalf("GenerateCopy returned error: %v", err)
	}
	if out != "Meet EcoBottle Pro. #Sustainable" {
		t.Fatalf("copy = %q", out)
	}
	if captured.Model != defaultOpenAIModel {
		t.Fatalf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(captured.Messages))
	}
	user, ok := captured.Messages[1].Content.(string)
	if !ok {
		t.Fatalf("user content = %T, want string without image", captured.Messages[1].Content)
	}
	if !strings.Contains(user, "EcoBottle Pro") {
		t.Fatalf("prompt missing product name: %q", user)
	}
}

func TestOpenAIGeneratorSendsImagePart(t *testing.T) {
	var raw map[string]any
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey: "sk-test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"copy"}}]}`), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGenerator returned error: %v", err)
	}

	_, err = gen.GenerateCopy(context.Background(), Request{
		ProductName: "EcoBottle Pro",
		Description: "Reusable bottle",
		Image:       &domain.ProductImage{MIMEType: "image/png", Data: []byte("png")},
	})
	if err != nil {
		t.Fatalf("GenerateCopy returned error: %v", err)
	}
	messages := raw["messages"].([]any)
	parts, ok := messages[1].(map[string]any)["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("user content = %#v, want two parts", messages[1])
	}
	image := parts[1].(map[string]any)["image_url"].(map[string]any)
	if url, _ := image["url"].(string); !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("image url = %q", url)
	}
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	tests := []struct {
		name string
		rt   roundTripFunc
		want string
	}{
		{
			name: "transport",
			rt: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("boom")
			},
			want: "boom",
		},
		{
			name: "status with message",
			rt: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached","type":"requests"}}`), nil
			},
			want: "Rate limit reached",
		},
		{
			name: "no choices",
			rt: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[]}`), nil
			},
			want: "no choices",
		},
		{
			name: "blank content",
			rt: func(r *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`), nil
			},
			want: "empty response",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "sk-test", HTTPClient: &http.Client{Transport: tc.rt}})
			if err != nil {
				t.Fatalf("NewOpenAIGenerator returned error: %v", err)
			}
			_, err = gen.GenerateCopy(context.Background(), Request{ProductName: "a", Description: "b"})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestNewOpenAIGeneratorRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGenerator(OpenAIOptions{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		input  string
		model  string
		reason string
	}{
		{name: "exact_default", input: "gpt-4o-mini", model: "gpt-4o-mini", reason: ""},
		{name: "exact_large", input: "GPT-4o", model: "gpt-4o", reason: ""},
		{name: "alias_short", input: "gpt4o-mini", model: "gpt-4o-mini", reason: "alias"},
		{name: "alias_spaces", input: "gpt 41 mini", model: "gpt-4.1-mini", reason: "alias"},
		{name: "unsupported", input: "davinci", model: "gpt-4o-mini", reason: "defaulted"},
		{name: "empty", input: "", model: "gpt-4o-mini", reason: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotModel, gotReason := normalizeOpenAIModel(tc.input)
			if gotModel != tc.model {
				t.Fatalf("model = %q, want %q", gotModel, tc.model)
			}
			if gotReason != tc.reason {
				t.Fatalf("reason = %q, want %q", gotReason, tc.reason)
			}
		})
	}
}

func TestNewOpenAIGeneratorWarnsOnUnsupportedModel(t *testing.T) {
	t.Parallel()
	var capturedReason, capturedDetail string
	gen, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey: "dummy",
		Model:  "text-davinci-003",
		OnWarning: func(reason, detail string) {
			capturedReason = reason
			capturedDetail = detail
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Model() != defaultOpenAIModel {
		t.Fatalf("model = %q", gen.Model())
	}
	if capturedReason != "model_defaulted" {
		t.Fatalf("warning reason = %q, want %q", capturedReason, "model_defaulted")
	}
	if capturedDetail == "" {
		t.Fatal("expected warning detail to be set")
	}
}
