// Package app assembles the repositories and domain services on top of a
// SQLite database.
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/session"
	"github.com/ganot/atelier/internal/sqlite"
)

// App holds the wired services.
type App struct {
	DB       *sqlite.DB
	Projects *project.Service
	Sessions *session.Service
	Activity *activity.Service
	APIKeys  *APIKeyResolver
}

// Options configures New.
type Options struct {
	MaxTags int
	Logger  *slog.Logger
}

// New migrates db, seeds it with catalog and wires the services.
func New(ctx context.Context, db *sqlite.DB, catalog []project.Project, opts Options) (*App, error) {
	if err := db.RunMigrations(); err != nil {
		return nil, err
	}

	projectRepo := sqlite.NewProjectRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	a := &App{
		DB:       db,
		Projects: project.NewService(projectRepo, opts.Logger, opts.MaxTags),
		Sessions: session.NewService(sessionRepo, projectRepo, activityRepo, opts.Logger, opts.MaxTags),
		Activity: activity.NewService(activityRepo, opts.Logger),
		APIKeys:  &APIKeyResolver{repo: sqlite.NewAPIKeyRepository(db)},
	}

	if _, err := a.Projects.Seed(ctx, catalog); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	return a, nil
}

// APIKeyResolver maps bearer tokens to tenants via their SHA-256 hash.
type APIKeyResolver struct {
	repo *sqlite.APIKeyRepository
}

// ResolveTenant implements the MCP and HTTP tenant resolvers.
func (r *APIKeyResolver) ResolveTenant(ctx context.Context, token string) (string, error) {
	return r.repo.ResolveTenant(ctx, HashToken(token))
}

// Register stores token for tenantID.
func (r *APIKeyResolver) Register(ctx context.Context, token, tenantID, description string) error {
	return r.repo.Create(ctx, HashToken(token), tenantID, description)
}

// HashToken returns the hex SHA-256 of token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
