package quiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logging"
)

// Generator produces quizzes from a Source.
type Generator interface {
	Generate(ctx context.Context, src Source) (*QuizData, error)
}

// Client implements Generator over an llm.Provider.
type Client struct {
	provider llm.Provider
	config   Config
	logger   *logging.Logger
}

// New creates a Client. A nil provider means no credential is configured:
// the Client is still usable, and every Generate call fails with a
// KindConfiguration error.
func New(provider llm.Provider, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{provider: provider, config: cfg, logger: logger}
}

// Configured reports whether a provider is available.
func (c *Client) Configured() bool {
	return c.provider != nil
}

// Generate builds the request for src, sends it, and parses and validates
// the response. All errors are *Error.
func (c *Client) Generate(ctx context.Context, src Source) (*QuizData, error) {
	q, err := c.generate(ctx, src)
	if err != nil {
		qe := classify(err)
		c.logger.Error("quiz generation failed",
			"session_id", llm.SessionIDFrom(ctx),
			"kind", qe.Kind.String(),
			"provider", c.ModelID(),
			"error", qe.Err,
		)
		return nil, qe
	}
	return q, nil
}

func (c *Client) generate(ctx context.Context, src Source) (*QuizData, error) {
	if c.provider == nil {
		return nil, &Error{Kind: KindConfiguration, Message: msgNotConfigured, Err: ErrNotConfigured}
	}
	if err := src.validate(); err != nil {
		return nil, err
	}

	msg := llm.Message{Role: llm.RoleUser, Content: buildPrompt(src)}
	purpose := "quiz-topic"
	if src.Document != nil {
		purpose = "quiz-document"
		msg.Attachments = []llm.Attachment{{
			Name:     src.Document.Name,
			MIMEType: src.Document.MIMEType,
			Data:     src.Document.Data,
		}}
	}
	ctx = llm.WithPurpose(ctx, purpose)

	resp, err := c.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{msg},
		Schema:      Schema,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	cleaned := json.RawMessage(cleanResponse(resp.Text()))
	if resp.StopReason == "max_tokens" && !json.Valid(cleaned) {
		return nil, &llm.ErrMaxTokensExceeded{Content: cleaned}
	}

	return c.parse(cleaned)
}

// parse validates raw against Schema, decodes it and runs the validator chain.
func (c *Client) parse(raw json.RawMessage) (*QuizData, error) {
	if err := llm.ValidateJSON(Schema, raw); err != nil {
		return nil, formatError(err)
	}

	var q QuizData
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, formatError(fmt.Errorf("decode quiz: %w", err))
	}

	validators := c.config.Validators
	if len(validators) == 0 {
		validators = []Validator{&StructuralValidator{}}
	}
	for _, v := range validators {
		if verr := v.Validate(&q); verr != nil {
			return nil, formatError(verr)
		}
	}
	return &q, nil
}

// ModelID returns the provider model, or "" when unconfigured.
func (c *Client) ModelID() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.ModelID()
}
