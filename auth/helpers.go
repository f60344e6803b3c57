package auth

import (
	"context"
	"errors"
	"net/http"
)

// --- Context Keys ---

type contextKey string

const (
	userIDKey          contextKey = "userID"
	registerRequestKey contextKey = "registerRequest"
)

// WithUserID stores the authenticated user's ID in ctx. Exposed so handler
// tests can build authenticated requests without minting tokens.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetUserIDFromContext(r *http.Request) (string, error) {
	userID, ok := r.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", errors.New("unauthorized")
	}
	return userID, nil
}

// RegisterRequestFromContext retrieves the request stored by the validation
// middleware.
func RegisterRequestFromContext(r *http.Request) (RegisterRequest, bool) {
	req, ok := r.Context().Value(registerRequestKey).(RegisterRequest)
	return req, ok
}
