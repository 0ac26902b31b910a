package http

import (
	"context"
	"log/slog"

	"github.com/example/overlap-planner/internal/application"
	"github.com/example/overlap-planner/internal/logging"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	rosterIDContextKey  contextKey = "roster_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithRosterID injects the roster identifier resolved from the request path.
func ContextWithRosterID(ctx context.Context, rosterID string) context.Context {
	return context.WithValue(ctx, rosterIDContextKey, rosterID)
}

// RosterIDFromContext extracts a roster identifier previously associated with the context.
func RosterIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(rosterIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts a request scoped logger when present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
