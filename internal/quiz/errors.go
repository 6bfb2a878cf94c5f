package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizgen/internal/llm"
)

// ErrorKind classifies generation failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConfiguration
	KindInput
	KindUpstream
	KindFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInput:
		return "input"
	case KindUpstream:
		return "upstream"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

var (
	// ErrNotConfigured is the cause of every KindConfiguration error.
	ErrNotConfigured = llm.ErrNotConfigured

	// ErrNoSource is the cause of KindInput errors.
	ErrNoSource = errors.New("no quiz source")

	// ErrUnsupportedType is wrapped by the KindInput error for documents
	// that are not PDF, DOC or DOCX.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrMalformedResponse is the cause of KindFormat errors.
	ErrMalformedResponse = errors.New("malformed quiz response")
)

// Error is returned by Client.Generate. Message is safe to show to the
// user; Err is the underlying cause and is only logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// User-facing messages.
const (
	msgNotConfigured = "No model API key is configured. Set GEMINI_API_KEY (or OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY) and try again."
	msgInvalidKey    = "The API key was rejected by the model provider. Check that it is valid and has access to the configured model."
	msgRateLimit     = "The model provider's quota or rate limit was exceeded. Wait a moment and try again."
	msgUpstream      = "Could not reach the model provider. Check your network connection and try again."
	msgTimeout       = "The model took too long to respond. Please try again."
	msgFormat        = "Failed to generate quiz. The model may have returned an invalid format. Please try a different topic or file."
	msgUnknown       = "Failed to generate quiz. Please try again."
)

func inputError(msg string, err error) *Error {
	return &Error{Kind: KindInput, Message: msg, Err: err}
}

func formatError(err error) *Error {
	return &Error{Kind: KindFormat, Message: msgFormat, Err: errors.Join(ErrMalformedResponse, err)}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) ErrorKind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnknown
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var qe *Error
	if errors.As(err, &qe) && qe.Message != "" {
		return qe.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "An unknown error occurred."
}

// classify maps a provider error to the error taxonomy.
func classify(err error) *Error {
	var qe *Error
	if errors.As(err, &qe) {
		return qe
	}

	var (
		auth        *llm.ErrAuth
		rateLimit   *llm.ErrRateLimit
		unavailable *llm.ErrProviderUnavailable
		unsupported *llm.ErrUnsupportedAttachment
		maxTokens   *llm.ErrMaxTokensExceeded
		invalid     *llm.ErrInvalidResponse
	)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return &Error{Kind: KindConfiguration, Message: msgNotConfigured, Err: err}
	case errors.As(err, &auth):
		return &Error{Kind: KindUpstream, Message: msgInvalidKey, Err: err}
	case errors.As(err, &rateLimit):
		return &Error{Kind: KindUpstream, Message: msgRateLimit, Err: err}
	case errors.As(err, &unsupported):
		return &Error{
			Kind:    KindUpstream,
			Message: fmt.Sprintf("The %s provider cannot read %s files. Switch to Gemini, or to Anthropic for PDFs.", unsupported.Provider, unsupported.MIMEType),
			Err:     err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindUpstream, Message: msgTimeout, Err: err}
	case errors.Is(err, context.Canceled), errors.As(err, &unavailable):
		return &Error{Kind: KindUpstream, Message: msgUpstream, Err: err}
	case errors.As(err, &maxTokens), errors.As(err, &invalid):
		return formatError(err)
	default:
		return &Error{Kind: KindUnknown, Message: msgUnknown, Err: err}
	}
}
