package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "google/gemini-2.5-flash",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "google/gemini-2.5-flash" {
			t.Errorf("model = %q, want %q", p.ModelID(), "google/gemini-2.5-flash")
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
		if err == nil {
			t.Fatal("expected error for empty API key")
		}
	})

	t.Run("friendly names are not mapped", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gpt-4o"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "gpt-4o" {
			t.Errorf("model = %q, want pass-through", p.ModelID())
		}
	})
}

func TestOpenRouterProvider_AttachmentErrorNamesProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "x/y"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Attachments: []Attachment{{MIMEType: "application/msword"}}}},
	})
	var unsupported *ErrUnsupportedAttachment
	if !errors.As(err, &unsupported) || unsupported.Provider != "openrouter" {
		t.Fatalf("unexpected error: %T (%v)", err, err)
	}
}

func TestOpenRouterProvider_SendsAttribution(t *testing.T) {
	var referer, title, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer, title, path = r.Header.Get("HTTP-Referer"), r.Header.Get("X-Title"), r.URL.Path
		chatReply(`{"multiple_choice":[],"true_false":[]}`, "", "stop")(w, r)
	}))
	defer srv.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash", BaseURL: srv.URL + "/api/v1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if referer != openRouterReferer || title != openRouterTitle {
		t.Errorf("attribution headers = %q, %q", referer, title)
	}
	if path != "/api/v1/chat/completions" {
		t.Errorf("path = %q", path)
	}
}
