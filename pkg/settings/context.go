package settings

import "context"

type contextKey string

const settingsContextKey contextKey = "tabler.settings"

// IntoContext returns a copy of ctx carrying the run settings.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, settingsContextKey, s)
}

// FromContext returns the run settings stored by IntoContext.
func FromContext(ctx context.Context) (*Run, bool) {
	s, ok := ctx.Value(settingsContextKey).(*Run)
	return s, ok
}
