package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ganot/atelier/internal/catalog"
	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
	"github.com/ganot/atelier/internal/domain/session"
	"github.com/ganot/atelier/internal/repository"
	"github.com/ganot/atelier/internal/repository/mocks"
)

const tenant = "tenant-1"

type fixture struct {
	sessions   *mocks.SessionRepository
	projects   *mocks.ProjectRepository
	activities *mocks.ActivityRepository
	svc        *session.Service
	catalog    []project.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	projects, err := catalog.Default()
	require.NoError(t, err)

	f := &fixture{
		sessions:   &mocks.SessionRepository{},
		projects:   &mocks.ProjectRepository{},
		activities: &mocks.ActivityRepository{},
		catalog:    projects,
	}
	f.activities.On("Log", mock.Anything, tenant, mock.AnythingOfType("*activity.ActivityEntry")).Return(nil).Maybe()
	f.svc = session.NewService(f.sessions, f.projects, f.activities, nil, 0)
	return f
}

func (f *fixture) existing(id string, selected *string, index int) *session.Session {
	now := time.Now()
	sess := &session.Session{
		ID:              id,
		TenantID:        tenant,
		Status:          session.StatusActive,
		ActiveTag:       project.AllTag,
		SelectedProject: selected,
		CarouselIndex:   index,
		CreatedAt:       now,
		LastActivity:    now,
	}
	f.sessions.On("Get", mock.Anything, tenant, id).Return(sess, nil)
	return sess
}

func strPtr(s string) *string { return &s }

func TestSessionService_StartCreatesWhenMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.sessions.On("Get", ctx, tenant, "s1").Return((*session.Session)(nil), repository.ErrNotFound)
	f.sessions.On("Create", ctx, tenant, mock.AnythingOfType("*session.Session")).Return(nil)

	sess, err := f.svc.Start(ctx, tenant, "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", sess.ID)
	require.Equal(t, project.AllTag, sess.ActiveTag)
	require.Nil(t, sess.SelectedProject)
	f.sessions.AssertExpectations(t)
}

func TestSessionService_StartGeneratesID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sessions.On("Get", ctx, tenant, mock.AnythingOfType("string")).Return((*session.Session)(nil), repository.ErrNotFound)
	f.sessions.On("Create", ctx, tenant, mock.AnythingOfType("*session.Session")).Return(nil)

	sess, err := f.svc.Start(ctx, tenant, "")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
}

func TestSessionService_StartRereadsAfterCreateConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stored := &session.Session{ID: "s1", TenantID: tenant, Status: session.StatusActive, ActiveTag: "공공"}

	f.sessions.On("Get", ctx, tenant, "s1").Return((*session.Session)(nil), repository.ErrNotFound).Once()
	f.sessions.On("Create", ctx, tenant, mock.AnythingOfType("*session.Session")).Return(repository.ErrConflict).Once()
	f.sessions.On("Get", ctx, tenant, "s1").Return(stored, nil).Once()

	sess, err := f.svc.Start(ctx, tenant, "s1")
	require.NoError(t, err)
	require.Equal(t, "공공", sess.ActiveTag)
	f.sessions.AssertExpectations(t)
}

func TestSessionService_ClosedSessionRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sess := f.existing("s1", nil, 0)
	sess.Status = session.StatusClosed

	_, err := f.svc.View(ctx, tenant, "s1")
	require.ErrorIs(t, err, session.ErrSessionClosed)
}

func TestSessionService_SetFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", nil, 0)
	f.sessions.On("Update", ctx, tenant, mock.MatchedBy(func(s *session.Session) bool {
		return s.ActiveTag == "공공" && s.Query == ""
	})).Return(nil)
	f.projects.On("List", ctx).Return(f.catalog, nil)

	view, err := f.svc.SetFilter(ctx, tenant, "s1", "공공", "")
	require.NoError(t, err)
	require.Len(t, view.Projects, 1)
	require.Equal(t, "river-pavilion", view.Projects[0].ID)
	require.Equal(t, project.AllTag, view.Tags[0])
	require.Nil(t, view.Selection)
	f.sessions.AssertExpectations(t)
}

func TestSessionService_SetFilterEmptyTagMeansAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", nil, 0)
	f.sessions.On("Update", ctx, tenant, mock.AnythingOfType("*session.Session")).Return(nil)
	f.projects.On("List", ctx).Return(f.catalog, nil)

	view, err := f.svc.SetFilter(ctx, tenant, "s1", "", "콘크리트")
	require.NoError(t, err)
	require.Equal(t, project.AllTag, view.Tag)
	require.Len(t, view.Projects, 1)
	require.Equal(t, "river-pavilion", view.Projects[0].ID)
}

func TestSessionService_OpenResetsIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", strPtr("market-commons"), 3)
	f.projects.On("Get", ctx, "market-commons").Return(&f.catalog[2], nil)
	f.projects.On("Get", ctx, "seongbuk-house").Return(&f.catalog[0], nil)
	f.sessions.On("Update", ctx, tenant, mock.MatchedBy(func(s *session.Session) bool {
		return s.SelectedProject != nil && *s.SelectedProject == "seongbuk-house" && s.CarouselIndex == 0
	})).Return(nil)

	view, id, err := f.svc.Open(ctx, tenant, "s1", "seongbuk-house")
	require.NoError(t, err)
	require.Equal(t, "s1", id)
	require.Equal(t, 0, view.Index)
	require.Equal(t, 3, view.Count)
	require.True(t, view.ReportAvailable)
	f.sessions.AssertExpectations(t)
}

func TestSessionService_OpenUnknownProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", nil, 0)
	f.projects.On("Get", ctx, "nope").Return((*project.Project)(nil), repository.ErrNotFound)

	_, _, err := f.svc.Open(ctx, tenant, "s1", "nope")
	require.ErrorIs(t, err, session.ErrProjectNotFound)
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_OpenRequiresID(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.Open(context.Background(), tenant, "s1", "")
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSessionService_NavigateWraps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", strPtr("seongbuk-house"), 0)
	f.projects.On("Get", ctx, "seongbuk-house").Return(&f.catalog[0], nil)
	f.sessions.On("Update", ctx, tenant, mock.MatchedBy(func(s *session.Session) bool {
		return s.CarouselIndex == 2
	})).Return(nil)

	view, _, err := f.svc.Navigate(ctx, tenant, "s1", selection.Backward)
	require.NoError(t, err)
	require.Equal(t, 2, view.Index)
	require.Equal(t, f.catalog[0].Images[2], view.Image)
}

func TestSessionService_NavigateWithoutSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", nil, 0)

	view, id, err := f.svc.Navigate(ctx, tenant, "s1", selection.Forward)
	require.NoError(t, err)
	require.Equal(t, "s1", id)
	require.Nil(t, view)
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_JumpToOutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", strPtr("river-pavilion"), 1)
	f.projects.On("Get", ctx, "river-pavilion").Return(&f.catalog[1], nil)

	_, _, err := f.svc.JumpTo(ctx, tenant, "s1", 5)
	require.ErrorIs(t, err, selection.ErrIndexOutOfRange)
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_PressKeyEscapeCloses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", strPtr("river-pavilion"), 1)
	f.projects.On("Get", ctx, "river-pavilion").Return(&f.catalog[1], nil)
	f.sessions.On("Update", ctx, tenant, mock.MatchedBy(func(s *session.Session) bool {
		return s.SelectedProject == nil && s.CarouselIndex == 0
	})).Return(nil)

	res, err := f.svc.PressKey(ctx, tenant, "s1", "Escape")
	require.NoError(t, err)
	require.True(t, res.Handled)
	require.Nil(t, res.Selection)
	f.sessions.AssertExpectations(t)
}

func TestSessionService_PressKeyArrowRight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", strPtr("river-pavilion"), 1)
	f.projects.On("Get", ctx, "river-pavilion").Return(&f.catalog[1], nil)
	f.sessions.On("Update", ctx, tenant, mock.AnythingOfType("*session.Session")).Return(nil)

	res, err := f.svc.PressKey(ctx, tenant, "s1", "ArrowRight")
	require.NoError(t, err)
	require.True(t, res.Handled)
	require.Equal(t, 0, res.Selection.Index)
}

func TestSessionService_PressKeyIgnoredWithoutSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", nil, 0)

	res, err := f.svc.PressKey(ctx, tenant, "s1", "ArrowRight")
	require.NoError(t, err)
	require.False(t, res.Handled)
	f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	f.activities.AssertCalled(t, "Log", ctx, tenant, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeKeyIgnored
	}))
}

func TestSessionService_RestoreDropsMissingProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.existing("s1", strPtr("gone"), 1)
	f.projects.On("Get", ctx, "gone").Return((*project.Project)(nil), repository.ErrNotFound)
	f.projects.On("List", ctx).Return(f.catalog, nil)

	view, err := f.svc.View(ctx, tenant, "s1")
	require.NoError(t, err)
	require.Nil(t, view.Selection)
	require.Len(t, view.Projects, 3)
}

func TestSessionService_CloseSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sessions.On("Close", ctx, tenant, "s1").Return(nil)
	f.sessions.On("Close", ctx, tenant, "missing").Return(repository.ErrNotFound)

	require.NoError(t, f.svc.CloseSession(ctx, tenant, "s1"))
	require.ErrorIs(t, f.svc.CloseSession(ctx, tenant, "missing"), session.ErrSessionNotFound)
	require.ErrorIs(t, f.svc.CloseSession(ctx, tenant, ""), session.ErrInvalidInput)
}
