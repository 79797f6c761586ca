package transport

import (
	"context"
	"net/http"
)

// SessionHeader names the viewer session on REST requests. Requests
// without it share one session per tenant.
const SessionHeader = "X-Session-Id"

const defaultSession = "default"

type sessionKey struct{}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok
}

func sessionOrDefault(ctx context.Context) string {
	if sessionID, _ := SessionIDFromContext(ctx); sessionID != "" {
		return sessionID
	}
	return defaultSession
}

func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID := r.Header.Get(SessionHeader); sessionID != "" {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, sessionID))
		}
		next.ServeHTTP(w, r)
	})
}
