// Package testserver runs the full HTTP stack (REST, MCP and auth) over
// an in-memory database for end-to-end tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/ganot/atelier/internal/app"
	"github.com/ganot/atelier/internal/catalog"
	"github.com/ganot/atelier/internal/config"
	"github.com/ganot/atelier/internal/mcp"
	"github.com/ganot/atelier/internal/sqlite"
	"github.com/ganot/atelier/internal/transport"
)

type TestServer struct {
	Server   *httptest.Server
	App      *app.App
	Token    string
	TenantID string
}

// New starts a server with auth enabled and registers token for tenantID.
func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)

	projects, err := catalog.Default()
	require.NoError(t, err)

	a, err := app.New(ctx, db, projects, app.Options{})
	require.NoError(t, err)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			Sessions: a.Sessions,
			Activity: a.Activity,
		},
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: config.TransportHTTP,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(transport.Config{
		Projects: a.Projects,
		Sessions: a.Sessions,
		Activity: a.Activity,
		Auth:     transport.AuthMiddleware(a.APIKeys),
		MCP:      mcpHandler,
	}))

	ts := &TestServer{
		Server:   server,
		App:      a,
		Token:    token,
		TenantID: tenantID,
	}
	require.NoError(t, ts.AddAPIKey(token, tenantID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another bearer token.
func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return ts.App.APIKeys.Register(context.Background(), token, tenantID, "test")
}

// Connect opens an MCP client session against /mcp that sends token as
// its bearer credential. An empty token sends no Authorization header.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	clientTransport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
		MaxRetries: -1,
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.token == "" {
		return b.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(clone)
}
