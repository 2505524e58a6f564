package llm

import "context"

// Purpose labels recorded with each request.
const (
	PurposeTranslate = "translate"
	PurposeUnknown   = "unknown"
)

type purposeKey struct{}

// WithPurpose tags ctx with what the request is for, for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return PurposeUnknown
}
