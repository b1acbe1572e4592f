package middleware

import (
	"context"
	"errors"
)

type contextKey string

const adminContextKey = contextKey("admin_id")

var ErrNoAdminInContext = errors.New("admin id not found in context")

func WithAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, adminContextKey, adminID)
}

// GetAdminIDFromContext returns the admin id set by RequireAdmin.
func GetAdminIDFromContext(ctx context.Context) (string, error) {
	adminID, ok := ctx.Value(adminContextKey).(string)
	if !ok {
		return "", ErrNoAdminInContext
	}
	return adminID, nil
}
