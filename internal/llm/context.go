package llm

import "context"

// Labels carried on the context so the logging decorator can tag each
// call without widening Request.
type (
	purposeKey   struct{}
	sessionIDKey struct{}
)

// WithPurpose labels the call, e.g. "quiz-topic" or "quiz-document".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithSessionID ties the call to a quiz session or HTTP request ID.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

func SessionIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey{}).(string)
	return v
}
