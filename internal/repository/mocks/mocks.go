// Package mocks holds testify mocks for the repository interfaces used by
// the domain services.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/session"
)

// returned unpacks a (value, error) pair recorded with On(...).Return.
// A nil or mistyped first value yields the zero T.
func returned[T any](args mock.Arguments) (T, error) {
	value, _ := args.Get(0).(T)
	return value, args.Error(1)
}

type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	return returned[*project.Project](m.Called(ctx, id))
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	return returned[[]project.Project](m.Called(ctx))
}

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, tenantID string, sess *session.Session) error {
	return m.Called(ctx, tenantID, sess).Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, tenantID, id string) (*session.Session, error) {
	return returned[*session.Session](m.Called(ctx, tenantID, id))
}

func (m *SessionRepository) Update(ctx context.Context, tenantID string, sess *session.Session) error {
	return m.Called(ctx, tenantID, sess).Error(0)
}

func (m *SessionRepository) Close(ctx context.Context, tenantID, id string) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *SessionRepository) ListActive(ctx context.Context, tenantID string) ([]session.SessionInfo, error) {
	return returned[[]session.SessionInfo](m.Called(ctx, tenantID))
}

type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	return m.Called(ctx, tenantID, entry).Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return returned[[]activity.ActivityEntry](m.Called(ctx, tenantID, opts))
}
