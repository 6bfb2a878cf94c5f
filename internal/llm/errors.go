package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrNotConfigured means the selected provider has no API key. The UI
// still starts and reports it when a quiz is requested.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrRateLimit covers 429s and exhausted quotas or credits. RetryAfter is
// zero when the provider did not say.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string { return fmt.Sprintf("API key rejected: %v", e.Err) }

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrInvalidResponse carries the model output that could not be used as a
// quiz: malformed JSON, a schema violation or a refusal.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return fmt.Sprintf("unusable quiz response: %v", e.Err) }

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrUnsupportedAttachment is returned before any network call when the
// adapter cannot carry the document's media type.
type ErrUnsupportedAttachment struct {
	Provider string
	MIMEType string
}

func (e *ErrUnsupportedAttachment) Error() string {
	return fmt.Sprintf("%s cannot read %s documents", e.Provider, e.MIMEType)
}

// ErrMaxTokensExceeded holds the partial output of a truncated response.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "quiz response truncated at the token limit"
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
