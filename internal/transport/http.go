package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
	"github.com/ganot/atelier/internal/domain/session"
)

// ProjectService defines catalog operations served over REST.
type ProjectService interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	Filter(ctx context.Context, req project.FilterRequest) (*project.FilterResult, error)
	Tags(ctx context.Context) ([]string, error)
}

// SessionService defines viewer session operations served over REST.
type SessionService interface {
	View(ctx context.Context, tenantID, sessionID string) (*session.View, error)
	SetFilter(ctx context.Context, tenantID, sessionID, tag, query string) (*session.View, error)
	Open(ctx context.Context, tenantID, sessionID, projectID string) (*session.SelectionView, string, error)
	Close(ctx context.Context, tenantID, sessionID string) (string, error)
	Navigate(ctx context.Context, tenantID, sessionID string, direction selection.Direction) (*session.SelectionView, string, error)
	JumpTo(ctx context.Context, tenantID, sessionID string, index int) (*session.SelectionView, string, error)
	PressKey(ctx context.Context, tenantID, sessionID, key string) (*session.KeyResult, error)
}

// ActivityService defines activity queries served over REST.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Config wires the REST server.
type Config struct {
	Projects ProjectService
	Sessions SessionService
	Activity ActivityService
	// Auth guards /api when set.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set; it does its own auth.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server holds the REST handlers.
type Server struct {
	projects ProjectService
	sessions SessionService
	activity ActivityService
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(requestLogger(cfg.Logger))
	}

	srv := &Server{projects: cfg.Projects, sessions: cfg.Sessions, activity: cfg.Activity}

	r.Get("/health", srv.handleHealth)
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		r.Use(SessionMiddleware)

		r.Get("/projects", srv.handleListProjects)
		r.Get("/projects/{id}", srv.handleGetProject)
		r.Get("/tags", srv.handleTags)
		r.Get("/activity", srv.handleActivity)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", srv.handleView)
			r.Put("/filter", srv.handleSetFilter)
			r.Post("/open", srv.handleOpen)
			r.Post("/close", srv.handleClose)
			r.Post("/navigate", srv.handleNavigate)
			r.Post("/jump", srv.handleJump)
			r.Post("/keys", srv.handleKey)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ProjectListResponse is the body of GET /api/projects.
type ProjectListResponse struct {
	Tag      string                   `json:"tag"`
	Query    string                   `json:"query"`
	Total    int                      `json:"total"`
	Projects []project.ProjectSummary `json:"projects"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := s.projects.Filter(r.Context(), project.FilterRequest{Tag: q.Get("tag"), Query: q.Get("q")})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	summaries := make([]project.ProjectSummary, 0, len(result.Projects))
	for _, p := range result.Projects {
		summaries = append(summaries, project.Summarize(p))
	}
	writeJSON(w, http.StatusOK, ProjectListResponse{
		Tag:      result.Tag,
		Query:    result.Query,
		Total:    result.Total,
		Projects: summaries,
	})
}

// ProjectResponse is the body of GET /api/projects/{id}.
type ProjectResponse struct {
	Project         project.Project `json:"project"`
	ReportAvailable bool            `json:"report_available"`
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectResponse{Project: *p, ReportAvailable: p.HasReport()})
}

// TagsResponse is the body of GET /api/tags.
type TagsResponse struct {
	AllTag string   `json:"all_tag"`
	Tags   []string `json:"tags"`
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.projects.Tags(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{AllTag: project.AllTag, Tags: tags})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, ok := queryInt(w, query.Get("limit"), "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, query.Get("offset"), "offset")
	if !ok {
		return
	}
	opts := activity.ListActivityOptions{Limit: limit, Offset: offset}
	if sessionID, ok := SessionIDFromContext(r.Context()); ok {
		opts.SessionID = &sessionID
	}
	entries, err := s.activity.GetRecentActivity(r.Context(), tenantOrDefault(r.Context()), opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.View(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// FilterRequest is the body of PUT /api/session/filter.
type FilterRequest struct {
	Tag   string `json:"tag"`
	Query string `json:"query"`
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	view, err := s.sessions.SetFilter(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()), req.Tag, req.Query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SelectionResponse reports the detail view after a carousel operation.
type SelectionResponse struct {
	SessionID string                 `json:"session_id"`
	Open      bool                   `json:"open"`
	Selection *session.SelectionView `json:"selection,omitempty"`
}

// OpenRequest is the body of POST /api/session/open.
type OpenRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	sel, sessionID, err := s.sessions.Open(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()), req.ID)
	s.writeSelection(w, sel, sessionID, err)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.sessions.Close(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()))
	s.writeSelection(w, nil, sessionID, err)
}

// NavigateRequest is the body of POST /api/session/navigate.
type NavigateRequest struct {
	Direction int `json:"direction"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if req.Direction == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "direction must be 1 or -1")
		return
	}
	sel, sessionID, err := s.sessions.Navigate(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()), selection.Direction(req.Direction))
	s.writeSelection(w, sel, sessionID, err)
}

// JumpRequest is the body of POST /api/session/jump.
type JumpRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req JumpRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	sel, sessionID, err := s.sessions.JumpTo(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()), req.Index)
	s.writeSelection(w, sel, sessionID, err)
}

// KeyRequest is the body of POST /api/session/keys.
type KeyRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "key is required")
		return
	}
	res, err := s.sessions.PressKey(r.Context(), tenantOrDefault(r.Context()), sessionOrDefault(r.Context()), req.Key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeSelection(w http.ResponseWriter, sel *session.SelectionView, sessionID string, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{SessionID: sessionID, Open: sel != nil, Selection: sel})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}


// queryInt parses an optional non-negative integer query parameter. On a
// bad value it writes a 400 and returns false.
func queryInt(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
