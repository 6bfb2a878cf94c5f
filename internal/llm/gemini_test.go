package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"answer":   map[string]any{"type": "boolean"},
			"kind":     map[string]any{"type": "string", "enum": []any{"mcq", "tf"}},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": float64(4),
			},
		},
		"required": []any{"question", "options"},
	}

	schema := geminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["answer"].Type != genai.TypeBoolean {
		t.Fatalf("expected BOOLEAN for answer, got %s", schema.Properties["answer"].Type)
	}
	if len(schema.Properties["kind"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(schema.Properties["kind"].Enum))
	}
	opts := schema.Properties["options"]
	if opts.Type != genai.TypeArray || opts.Items.Type != genai.TypeString {
		t.Fatalf("unexpected options schema: %+v", opts)
	}
	if opts.MinItems == nil || *opts.MinItems != 4 {
		t.Fatalf("expected minItems 4, got %v", opts.MinItems)
	}
	if opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Fatalf("expected maxItems 4, got %v", opts.MaxItems)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
	if got := schema.PropertyOrdering; len(got) != 2 || got[0] != "question" || got[1] != "options" {
		t.Fatalf("property ordering = %v, want required order", got)
	}
}

func TestGeminiContents_DocumentFirst(t *testing.T) {
	contents := geminiContents([]Message{{
		Role:    RoleUser,
		Content: "Generate a quiz from the attached document.",
		Attachments: []Attachment{
			{Name: "notes.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.7")},
		},
	}})

	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	c := contents[0]
	if c.Role != genai.RoleUser {
		t.Errorf("role = %q, want user", c.Role)
	}
	if len(c.Parts) != 2 {
		t.Fatalf("expected blob + text parts, got %d", len(c.Parts))
	}
	if c.Parts[1].Text == "" {
		t.Error("last part should be the text prompt")
	}
	blob := c.Parts[0].InlineData
	if blob == nil || blob.MIMEType != "application/pdf" || string(blob.Data) != "%PDF-1.7" {
		t.Errorf("unexpected inline data: %+v", blob)
	}
}

func TestGeminiError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"rate limit", genai.APIError{Code: 429, Message: "quota"}, func(err error) bool {
			var target *ErrRateLimit
			return errors.As(err, &target)
		}},
		{"unauthorized", genai.APIError{Code: 401}, func(err error) bool {
			var target *ErrAuth
			return errors.As(err, &target)
		}},
		{"invalid key", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key."}, func(err error) bool {
			var target *ErrAuth
			return errors.As(err, &target)
		}},
		{"server error", genai.APIError{Code: 503}, func(err error) bool {
			var target *ErrProviderUnavailable
			return errors.As(err, &target)
		}},
		{"wrapped api error", fmt.Errorf("call: %w", genai.APIError{Code: 429}), func(err error) bool {
			var target *ErrRateLimit
			return errors.As(err, &target)
		}},
		{"deadline", context.DeadlineExceeded, func(err error) bool {
			return errors.Is(err, context.DeadlineExceeded)
		}},
		{"network", errors.New("connection refused"), func(err error) bool {
			var target *ErrProviderUnavailable
			return errors.As(err, &target)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geminiError(tt.err)
			if !tt.check(got) {
				t.Errorf("geminiError(%v) = %T (%v)", tt.err, got, got)
			}
		})
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test-key", Model: "gemini-flash", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func geminiReply(body map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}
}

func TestGeminiProvider_HappyPath(t *testing.T) {
	var path string
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		geminiReply(map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": `{"multiple_choice":[],"true_false":[]}`}}},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{"promptTokenCount": 12, "candidatesTokenCount": 30, "totalTokenCount": 42},
		})(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "Generate a quiz about glaciers."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, "/models/gemini-2.5-flash:generateContent") {
		t.Errorf("path = %q", path)
	}
	if resp.Text() != `{"multiple_choice":[],"true_false":[]}` || resp.StopReason != "end" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Usage.TotalTokens != 42 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestGeminiProvider_Blocked(t *testing.T) {
	tests := map[string]map[string]any{
		"prompt": {"promptFeedback": map[string]any{"blockReason": "SAFETY"}},
		"candidate": {"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": "{"}}},
			"finishReason": "SAFETY",
		}}},
		"empty": {},
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := newTestGeminiProvider(t, geminiReply(body))
			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
		})
	}
}

func TestGeminiRetryDelay(t *testing.T) {
	got := geminiRetryDelay([]map[string]any{
		{"@type": "type.googleapis.com/google.rpc.QuotaFailure"},
		{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "37s"},
	})
	if got != 37*time.Second {
		t.Errorf("geminiRetryDelay = %s, want 37s", got)
	}
	if got := geminiRetryDelay(nil); got != 0 {
		t.Errorf("geminiRetryDelay(nil) = %s", got)
	}
}
