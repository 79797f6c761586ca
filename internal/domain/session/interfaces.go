package session

import (
	"context"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
)

// SessionRepository provides persistence for sessions.
type SessionRepository interface {
	Create(ctx context.Context, tenantID string, sess *Session) error
	Get(ctx context.Context, tenantID, id string) (*Session, error)
	Update(ctx context.Context, tenantID string, sess *Session) error
	Close(ctx context.Context, tenantID, id string) error
	ListActive(ctx context.Context, tenantID string) ([]SessionInfo, error)
}

// ProjectRepository provides catalog access.
type ProjectRepository interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
}

// ActivityRepository records what happened in a session.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
