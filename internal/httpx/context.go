package httpx

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
)

// IdentityHeader carries the numeric id of the calling user.
const IdentityHeader = "X-User-ID"

// UserIDFrom retrieves the authorized user id from the request context.
func UserIDFrom(r *http.Request) (int64, bool) {
	v, ok := r.Context().Value(userIDKey).(int64)
	return v, ok
}

// RoleFrom retrieves the authorized user's role name from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithUser returns a new context with the user id and role name.
func ContextWithUser(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// userLogValue renders the user id for log lines, empty when anonymous.
func userLogValue(r *http.Request) string {
	if id, ok := UserIDFrom(r); ok {
		return strconv.FormatInt(id, 10)
	}
	return r.Header.Get(IdentityHeader)
}
