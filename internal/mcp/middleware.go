package mcp

import (
	"context"
	"errors"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultTenant owns every call when auth is off.
const DefaultTenant = "default"

// defaultSession is the viewer session used when the client names none.
const defaultSession = "default"

var (
	errMissingToken = errors.New("unauthorized: missing bearer token")
	errInvalidToken = errors.New("unauthorized: invalid bearer token")
)

// TenantResolver maps a bearer token to the tenant that owns it.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// callScope is what the receiving middleware learned about a request.
type callScope struct {
	tenant  string
	session string
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) callScope {
	sc, _ := ctx.Value(scopeKey{}).(callScope)
	return sc
}

func withScope(ctx context.Context, update func(*callScope)) context.Context {
	sc := scopeFrom(ctx)
	update(&sc)
	return context.WithValue(ctx, scopeKey{}, sc)
}

func getTenantID(ctx context.Context) string {
	return scopeFrom(ctx).tenant
}

// resolveSessionID picks the viewer session for a tool call. An explicit
// argument wins, then a session named by header or _meta, then the
// transport session, then the shared default.
func resolveSessionID(ctx context.Context, req *sdkmcp.CallToolRequest, explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	if id := scopeFrom(ctx).session; id != "" {
		return id
	}
	if req != nil {
		if id := safeSessionID(req); id != "" {
			return id
		}
	}
	return defaultSession
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// unauthenticated lists methods that carry no tenant data.
func unauthenticated(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

// tenantMiddleware scopes each call to a tenant. With a nil resolver every
// call belongs to DefaultTenant; otherwise a known bearer token is required.
func tenantMiddleware(resolver TenantResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if resolver == nil {
				return next(withScope(ctx, func(sc *callScope) { sc.tenant = DefaultTenant }), method, req)
			}
			if unauthenticated(method) {
				return next(ctx, method, req)
			}

			var token string
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				token = BearerToken(extra.Header.Get("Authorization"))
			}
			if token == "" {
				return nil, errMissingToken
			}
			tenantID, err := resolver.ResolveTenant(ctx, token)
			if err != nil {
				return nil, errors.Join(errInvalidToken, err)
			}
			if tenantID == "" {
				return nil, errInvalidToken
			}
			return next(withScope(ctx, func(sc *callScope) { sc.tenant = tenantID }), method, req)
		}
	}
}

// sessionMiddleware records a viewer session named by the Mcp-Session-Id
// header (HTTP) or by _meta.session_id (stdio).
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			id := headerSessionID(req)
			if id == "" {
				id = metaSessionID(req)
			}
			if id != "" {
				ctx = withScope(ctx, func(sc *callScope) { sc.session = id })
			}
			return next(ctx, method, req)
		}
	}
}

func headerSessionID(req sdkmcp.Request) string {
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		return extra.Header.Get("Mcp-Session-Id")
	}
	return ""
}

// metaSessionID reads _meta.session_id. Some notifications carry typed-nil
// params whose GetMeta panics.
func metaSessionID(req sdkmcp.Request) (id string) {
	params := safeParams(req)
	if params == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if meta := params.GetMeta(); meta != nil {
		id, _ = meta["session_id"].(string)
	}
	return id
}
