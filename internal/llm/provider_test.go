package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)
	mock.Enqueue(MockResponse{Content: json.RawMessage(`{"b":2}`), StopReason: "max_tokens"})

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text() != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text() != `{"b":2}` || resp2.StopReason != "max_tokens" {
		t.Fatalf("unexpected second response: %+v", resp2)
	}
	if last, _ := mock.LastRequest(); last.Messages[0].Content != "second" {
		t.Fatalf("last request = %+v", last)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestResponseText_Nil(t *testing.T) {
	var r *Response
	if r.Text() != "" {
		t.Fatal("nil response should have empty text")
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if id := SessionIDFrom(ctx); id != "" {
		t.Fatalf("expected empty session ID, got %q", id)
	}

	ctx = WithSessionID(WithPurpose(ctx, "quiz-topic"), "sess-42")
	if p := PurposeFrom(ctx); p != "quiz-topic" {
		t.Fatalf("expected 'quiz-topic', got %q", p)
	}
	if id := SessionIDFrom(ctx); id != "sess-42" {
		t.Fatalf("expected 'sess-42', got %q", id)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		cfg           Config
		wantErr       bool
		notConfigured bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}}, false, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true, true},
		{"mock needs no key", Config{Provider: "mock"}, false, false},
		{"unknown provider", Config{Provider: "unknown"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := errors.Is(err, ErrNotConfigured); got != tt.notConfigured {
				t.Fatalf("errors.Is(ErrNotConfigured) = %v, want %v", got, tt.notConfigured)
			}
		})
	}
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"QUIZGEN_LLM_PROVIDER", "QUIZGEN_GEMINI_API_KEY", "QUIZGEN_GEMINI_MODEL",
		"QUIZGEN_LLM_MAX_ATTEMPTS", "QUIZGEN_LLM_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestApplyEnv(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("QUIZGEN_LLM_PROVIDER", "anthropic")
	t.Setenv("QUIZGEN_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("QUIZGEN_LLM_MAX_ATTEMPTS", "3")
	t.Setenv("QUIZGEN_LLM_TIMEOUT", "15s")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)

	if cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("unexpected provider config: %+v", cfg)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("max attempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Timeout.Seconds() != 15 {
		t.Errorf("timeout = %s, want 15s", cfg.Timeout)
	}
}

func TestApplyEnv_ZeroTimeoutDisablesLimit(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("QUIZGEN_LLM_TIMEOUT", "0")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)

	if cfg.Timeout != 0 {
		t.Errorf("timeout = %s, want 0", cfg.Timeout)
	}
}

func TestDiscover(t *testing.T) {
	t.Run("fills selected provider", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		cfg := DefaultConfig()
		if !Discover(&cfg) {
			t.Fatal("expected a key to be discovered")
		}
		if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("legacy API_KEY", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("API_KEY", "legacy")
		cfg := DefaultConfig()
		Discover(&cfg)
		if cfg.Gemini.APIKey != "legacy" {
			t.Fatalf("gemini key = %q, want legacy", cfg.Gemini.APIKey)
		}
	})

	t.Run("switches provider", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		cfg := DefaultConfig()
		Discover(&cfg)
		if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-openai" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("keeps explicit key", func(t *testing.T) {
		clearKeyEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		cfg := DefaultConfig()
		cfg.Gemini.APIKey = "explicit"
		if Discover(&cfg) {
			t.Fatal("nothing should be discovered when a key is set")
		}
		if cfg.Provider != "gemini" {
			t.Fatalf("provider = %q, want gemini", cfg.Provider)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		clearKeyEnv(t)
		cfg := DefaultConfig()
		if Discover(&cfg) {
			t.Fatal("expected no key")
		}
	})
}

func TestNewProvider_NotConfigured(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewProvider(context.Background(), cfg, nil, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("error should name the env var: %v", err)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*LoggingProvider); !ok {
		t.Fatalf("expected logging decorator with one attempt, got %T", p)
	}

	cfg.Retry.MaxAttempts = 2
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry decorator, got %T", p)
	}
}

type recordingRepo struct {
	store.NopEventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.events = append(r.events, d)
	return r.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	repo := &recordingRepo{}
	p := WithLogging(mock, "mock", repo, logging.Nop())

	ctx := WithSessionID(WithPurpose(context.Background(), "quiz-document"), "s1")
	req := Request{
		System: "sys",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "Quiz me.",
			Attachments: []Attachment{{Name: "n.pdf", MIMEType: "application/pdf", Data: make([]byte, 2048)}},
		}},
	}

	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error from second call")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok := repo.events[0]
	if !ok.Success || ok.SessionID != "s1" || ok.Purpose != "quiz-document" || ok.InputTokens != 7 {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, `<attachment "n.pdf" application/pdf, 2048 bytes>`) {
		t.Errorf("request body should summarize the attachment: %q", ok.RequestBody)
	}
	if ok.ResponseBody != `{"ok":true}` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}
	failed := repo.events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("unexpected failure event: %+v", failed)
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", &recordingRepo{err: errors.New("disk full")}, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
