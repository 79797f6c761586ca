package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
	"github.com/ganot/atelier/internal/domain/session"
)

// ProjectService is the read-only catalog view exposed as tools and resources.
type ProjectService interface {
	List(ctx context.Context) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Tags(ctx context.Context) ([]string, error)
}

// SessionService drives per-tenant viewer sessions: filter state and the
// image carousel.
type SessionService interface {
	View(ctx context.Context, tenantID, sessionID string) (*session.View, error)
	SetFilter(ctx context.Context, tenantID, sessionID, tag, query string) (*session.View, error)
	Open(ctx context.Context, tenantID, sessionID, projectID string) (*session.SelectionView, string, error)
	Close(ctx context.Context, tenantID, sessionID string) (string, error)
	Navigate(ctx context.Context, tenantID, sessionID string, direction selection.Direction) (*session.SelectionView, string, error)
	JumpTo(ctx context.Context, tenantID, sessionID string, index int) (*session.SelectionView, string, error)
	PressKey(ctx context.Context, tenantID, sessionID, key string) (*session.KeyResult, error)
	CloseSession(ctx context.Context, tenantID, sessionID string) error
	ListActiveSessions(ctx context.Context, tenantID string) ([]session.SessionInfo, error)
}

type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

type Services struct {
	Projects ProjectService
	Sessions SessionService
	Activity ActivityService
}

// Config wires the services and auth mode into NewServer.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
	Version       string
}

// NewServer builds the atelier MCP server: documentation and catalog
// resources, the viewer tools, and tenant, session and traffic middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "atelier",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)
	registerCatalogResource(server, cfg.Services.Projects)

	// A stdio server is spawned by its only client, so it never checks tokens.
	var resolver TenantResolver
	if cfg.AuthEnabled && cfg.TransportMode != "stdio" {
		resolver = cfg.Resolver
	}
	server.AddReceivingMiddleware(tenantMiddleware(resolver))
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
