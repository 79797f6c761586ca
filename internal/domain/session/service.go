package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
	"github.com/ganot/atelier/internal/repository"
)

// Service drives persisted browsing sessions. Each operation restores a
// selection.Controller from the stored state, applies the operation and
// stores the result.
type Service struct {
	sessions   SessionRepository
	projects   ProjectRepository
	activities ActivityRepository
	logger     *slog.Logger
	maxTags    int
	// locks serializes load-modify-save cycles on one session, which
	// concurrent MCP and REST requests would otherwise interleave.
	locks keyedLocks
}

// NewService creates a new session service.
func NewService(
	sessions SessionRepository,
	projects ProjectRepository,
	activities ActivityRepository,
	logger *slog.Logger,
	maxTags int,
) *Service {
	if maxTags == 0 {
		maxTags = project.DefaultMaxTags
	}
	return &Service{
		sessions:   sessions,
		projects:   projects,
		activities: activities,
		logger:     logger,
		maxTags:    maxTags,
	}
}

// workspace is a loaded session with its live controller. The session
// stays locked until release.
type workspace struct {
	sess   *Session
	keys   *selection.KeyBus
	ctrl   *selection.Controller
	unlock func()
}

func (ws *workspace) release() {
	ws.ctrl.Teardown()
	ws.unlock()
}

// Start returns the session with the given ID, creating it when it does
// not exist. An empty ID creates a new session.
func (s *Service) Start(ctx context.Context, tenantID, sessionID string) (*Session, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	ws.release()
	return ws.sess, nil
}

// View returns what the session currently shows.
func (s *Service) View(ctx context.Context, tenantID, sessionID string) (*View, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ws.release()
	return s.view(ctx, ws)
}

// SetFilter changes the active tag and query.
func (s *Service) SetFilter(ctx context.Context, tenantID, sessionID, tag, query string) (*View, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ws.release()

	if tag == "" {
		tag = project.AllTag
	}
	ws.sess.ActiveTag = tag
	ws.sess.Query = query
	if err := s.save(ctx, tenantID, ws); err != nil {
		return nil, err
	}
	s.logActivity(ctx, tenantID, ws.sess.ID, nil, activity.TypeFilterChanged,
		fmt.Sprintf("filter set to tag=%q query=%q", tag, query),
		map[string]any{"tag": tag, "query": query})

	return s.view(ctx, ws)
}

// Open selects a project and resets its carousel.
func (s *Service) Open(ctx context.Context, tenantID, sessionID, projectID string) (*SelectionView, string, error) {
	if projectID == "" {
		return nil, "", ErrInvalidInput
	}
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, "", err
	}
	defer ws.release()

	proj, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ws.sess.ID, ErrProjectNotFound
		}
		return nil, ws.sess.ID, fmt.Errorf("loading project: %w", err)
	}
	if err := ws.ctrl.Open(proj); err != nil {
		return nil, ws.sess.ID, err
	}
	if err := s.save(ctx, tenantID, ws); err != nil {
		return nil, ws.sess.ID, err
	}
	s.logActivity(ctx, tenantID, ws.sess.ID, &proj.ID, activity.TypeProjectOpened,
		fmt.Sprintf("opened %s", proj.Title), nil)

	return selectionView(ws.ctrl.State()), ws.sess.ID, nil
}

// Close clears the selection. Closing with nothing open is a no-op.
func (s *Service) Close(ctx context.Context, tenantID, sessionID string) (string, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return "", err
	}
	defer ws.release()

	if !ws.ctrl.Selected() {
		return ws.sess.ID, nil
	}
	closedID := ws.ctrl.State().Project.ID
	ws.ctrl.Close()
	if err := s.save(ctx, tenantID, ws); err != nil {
		return ws.sess.ID, err
	}
	s.logActivity(ctx, tenantID, ws.sess.ID, &closedID, activity.TypeProjectClosed, "closed detail view", nil)
	return ws.sess.ID, nil
}

// Navigate moves the carousel one step. Without a selection it returns a
// nil view and changes nothing.
func (s *Service) Navigate(ctx context.Context, tenantID, sessionID string, direction selection.Direction) (*SelectionView, string, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, "", err
	}
	defer ws.release()

	if !ws.ctrl.Selected() {
		return nil, ws.sess.ID, nil
	}
	ws.ctrl.Navigate(direction)
	return s.commitCarousel(ctx, tenantID, ws, "navigate")
}

// JumpTo shows a specific carousel image. Without a selection it returns a
// nil view and changes nothing.
func (s *Service) JumpTo(ctx context.Context, tenantID, sessionID string, index int) (*SelectionView, string, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, "", err
	}
	defer ws.release()

	if !ws.ctrl.Selected() {
		return nil, ws.sess.ID, nil
	}
	if err := ws.ctrl.JumpTo(index); err != nil {
		return nil, ws.sess.ID, err
	}
	return s.commitCarousel(ctx, tenantID, ws, "jump")
}

// PressKey delivers a key to the session's detail view. Keys only act while
// a project is open; otherwise no listener is installed and the key is
// reported as unhandled.
func (s *Service) PressKey(ctx context.Context, tenantID, sessionID, name string) (*KeyResult, error) {
	ws, err := s.load(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer ws.release()

	key := selection.ParseKey(name)
	var openID *string
	if ws.ctrl.Selected() {
		id := ws.ctrl.State().Project.ID
		openID = &id
	}

	handled := ws.keys.Dispatch(key)
	result := &KeyResult{
		SessionID: ws.sess.ID,
		Key:       string(key),
		Handled:   handled,
		Selection: selectionView(ws.ctrl.State()),
	}
	if !handled {
		s.logActivity(ctx, tenantID, ws.sess.ID, openID, activity.TypeKeyIgnored,
			fmt.Sprintf("ignored key %s", key), nil)
		return result, nil
	}

	if err := s.save(ctx, tenantID, ws); err != nil {
		return nil, err
	}
	if key == selection.KeyEscape {
		s.logActivity(ctx, tenantID, ws.sess.ID, openID, activity.TypeProjectClosed, "closed detail view", nil)
	} else {
		s.logActivity(ctx, tenantID, ws.sess.ID, openID, activity.TypeCarouselMoved,
			fmt.Sprintf("carousel at %d", ws.ctrl.State().Index),
			map[string]any{"key": string(key), "index": ws.ctrl.State().Index})
	}
	return result, nil
}

// CloseSession closes a session.
func (s *Service) CloseSession(ctx context.Context, tenantID, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidInput
	}
	unlock := s.locks.lock(tenantID, sessionID)
	defer unlock()
	if err := s.sessions.Close(ctx, tenantID, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("closing session: %w", err)
	}
	s.logActivity(ctx, tenantID, sessionID, nil, activity.TypeSessionClosed, "session closed", nil)
	return nil
}

// ListActiveSessions returns the tenant's open sessions.
func (s *Service) ListActiveSessions(ctx context.Context, tenantID string) ([]SessionInfo, error) {
	return s.sessions.ListActive(ctx, tenantID)
}

func (s *Service) commitCarousel(ctx context.Context, tenantID string, ws *workspace, how string) (*SelectionView, string, error) {
	if err := s.save(ctx, tenantID, ws); err != nil {
		return nil, ws.sess.ID, err
	}
	state := ws.ctrl.State()
	s.logActivity(ctx, tenantID, ws.sess.ID, &state.Project.ID, activity.TypeCarouselMoved,
		fmt.Sprintf("carousel at %d", state.Index),
		map[string]any{"via": how, "index": state.Index})
	return selectionView(state), ws.sess.ID, nil
}

// load locks the session and restores its controller. Callers must
// release the returned workspace.
func (s *Service) load(ctx context.Context, tenantID, sessionID string) (ws *workspace, err error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	unlock := s.locks.lock(tenantID, sessionID)
	defer func() {
		if err != nil {
			unlock()
		}
	}()

	sess, err := s.ensureSession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	keys := selection.NewKeyBus()
	ctrl := selection.NewController(selection.Options{Keys: keys, Logger: s.logger})
	ws = &workspace{sess: sess, keys: keys, ctrl: ctrl, unlock: unlock}

	if sess.SelectedProject == nil {
		return ws, nil
	}
	proj, err := s.projects.Get(ctx, *sess.SelectedProject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The catalog no longer has this project; treat as closed.
			sess.SelectedProject = nil
			sess.CarouselIndex = 0
			return ws, nil
		}
		return nil, fmt.Errorf("loading selected project: %w", err)
	}
	if err := ctrl.Restore(proj, sess.CarouselIndex); err != nil {
		return nil, fmt.Errorf("restoring selection: %w", err)
	}
	return ws, nil
}

func (s *Service) ensureSession(ctx context.Context, tenantID, sessionID string) (*Session, error) {
	sess, err := s.getSession(ctx, tenantID, sessionID)
	if !errors.Is(err, repository.ErrNotFound) {
		return sess, err
	}

	now := time.Now()
	sess = &Session{
		ID:           sessionID,
		TenantID:     tenantID,
		Status:       StatusActive,
		ActiveTag:    project.AllTag,
		CreatedAt:    now,
		LastActivity: now,
	}
	err = s.sessions.Create(ctx, tenantID, sess)
	if errors.Is(err, repository.ErrConflict) {
		// Another process sharing the database created it first.
		return s.getSession(ctx, tenantID, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	s.logActivity(ctx, tenantID, sess.ID, nil, activity.TypeSessionStarted, "session started", nil)
	return sess, nil
}

// getSession reads a stored session, passing repository.ErrNotFound through
// unwrapped.
func (s *Service) getSession(ctx context.Context, tenantID, sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, tenantID, sessionID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, repository.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("loading session: %w", err)
	case sess.Status == StatusClosed:
		return nil, ErrSessionClosed
	}
	return sess, nil
}

func (s *Service) save(ctx context.Context, tenantID string, ws *workspace) error {
	state := ws.ctrl.State()
	if state.Selected() {
		id := state.Project.ID
		ws.sess.SelectedProject = &id
		ws.sess.CarouselIndex = state.Index
	} else {
		ws.sess.SelectedProject = nil
		ws.sess.CarouselIndex = 0
	}
	ws.sess.LastActivity = time.Now()
	if err := s.sessions.Update(ctx, tenantID, ws.sess); err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	return nil
}

func (s *Service) view(ctx context.Context, ws *workspace) (*View, error) {
	catalog, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	visible := project.Filter(catalog, ws.sess.ActiveTag, ws.sess.Query)
	summaries := make([]project.ProjectSummary, 0, len(visible))
	for _, p := range visible {
		summaries = append(summaries, project.Summarize(p))
	}
	return &View{
		SessionID: ws.sess.ID,
		Tag:       ws.sess.ActiveTag,
		Query:     ws.sess.Query,
		Tags:      project.Tags(catalog, s.maxTags),
		Projects:  summaries,
		Selection: selectionView(ws.ctrl.State()),
	}, nil
}

func (s *Service) logActivity(ctx context.Context, tenantID, sessionID string, projectID *string, typ activity.ActivityType, summary string, details map[string]any) {
	if s.activities == nil {
		return
	}
	entry, err := activity.NewEntry(sessionID, projectID, typ, summary, details)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("activity entry dropped", "session_id", sessionID, "type", typ, "error", err)
		}
		return
	}
	if err := s.activities.Log(ctx, tenantID, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log failed", "session_id", sessionID, "type", typ, "error", err)
	}
}

func selectionView(state selection.State) *SelectionView {
	if !state.Selected() {
		return nil
	}
	return &SelectionView{
		Project:         *state.Project,
		Index:           state.Index,
		Count:           len(state.Project.Images),
		Image:           state.Image(),
		ReportAvailable: state.Project.HasReport(),
	}
}
