package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/store"
)

// LoggingProvider writes one log line and one history row per call.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   *logging.Logger
}

// WithLogging wraps p. A nil repo or logger turns that sink off.
func WithLogging(p Provider, providerName string, events store.EventRepo, logger *logging.Logger) Provider {
	if events == nil {
		events = store.NopEventRepo{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &LoggingProvider{inner: p, provider: providerName, events: events, logger: logger}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		SessionID:   SessionIDFrom(ctx),
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		ev.ResponseBody = resp.Text()
	}

	log := l.logger.With(
		"session_id", ev.SessionID,
		"provider", ev.Provider,
		"model", ev.Model,
		"purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs,
	)
	if err != nil {
		ev.ErrorMessage = err.Error()
		log.Warn("llm request failed", "error", err)
	} else {
		fields := []any{"input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens, "stop_reason", resp.StopReason}
		if c := LookupCost(ev.Model); c != nil {
			fields = append(fields, "cost_usd", c.Cost(ev.InputTokens, ev.OutputTokens))
		}
		log.Info("llm request", fields...)
	}

	// History is best effort.
	if rerr := l.events.AppendLLMRequest(ctx, ev); rerr != nil {
		log.Warn("record llm request", "error", rerr)
	}
	return resp, err
}

// transcript renders req for the history table. Document bytes are
// summarized, never stored.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		var body strings.Builder
		for _, a := range m.Attachments {
			fmt.Fprintf(&body, "<attachment %q %s, %d bytes>\n", a.Name, a.MIMEType, len(a.Data))
		}
		body.WriteString(m.Content)
		section(string(m.Role), body.String())
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
