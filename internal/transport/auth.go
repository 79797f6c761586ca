package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized is what a TenantResolver returns for an unknown token.
var ErrUnauthorized = errors.New("unauthorized")

// DefaultTenant owns every request when auth is disabled.
const DefaultTenant = "default"

type tenantKey struct{}

// TenantResolver maps a bearer token to the tenant that owns it.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// TenantFromContext returns the tenant stored by AuthMiddleware.
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(string)
	return tenantID, ok
}

func tenantOrDefault(ctx context.Context) string {
	tenantID, _ := TenantFromContext(ctx)
	if tenantID == "" {
		return DefaultTenant
	}
	return tenantID
}

// bearerToken extracts the credential from an Authorization header value.
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthMiddleware rejects requests without a known bearer token and
// scopes the rest to the token's tenant.
func AuthMiddleware(resolver TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}
			tenantID, err := resolver.ResolveTenant(r.Context(), token)
			if err != nil || tenantID == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantKey{}, tenantID)))
		})
	}
}
