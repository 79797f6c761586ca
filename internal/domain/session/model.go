package session

import (
	"time"

	"github.com/ganot/atelier/internal/domain/project"
)

// SessionStatus represents the lifecycle status of a session
type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusClosed SessionStatus = "closed"
)

// Session is one viewer's browsing state: the active filter and the open
// project with its carousel position.
type Session struct {
	ID              string        `json:"id"`
	TenantID        string        `json:"tenant_id"`
	Status          SessionStatus `json:"status"`
	ActiveTag       string        `json:"active_tag"`
	Query           string        `json:"query"`
	SelectedProject *string       `json:"selected_project,omitempty"`
	CarouselIndex   int           `json:"carousel_index"`
	CreatedAt       time.Time     `json:"created_at"`
	LastActivity    time.Time     `json:"last_activity"`
	ClosedAt        *time.Time    `json:"closed_at,omitempty"`
}

// SessionInfo provides information about an active session
type SessionInfo struct {
	SessionID       string    `json:"session_id"`
	ActiveTag       string    `json:"active_tag"`
	Query           string    `json:"query"`
	SelectedProject *string   `json:"selected_project,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastActivity    time.Time `json:"last_activity"`
}

// SelectionView describes the open project as the detail view shows it.
type SelectionView struct {
	Project         project.Project `json:"project"`
	Index           int             `json:"index"`
	Count           int             `json:"count"`
	Image           string          `json:"image"`
	ReportAvailable bool            `json:"report_available"`
}

// View is the full visible state of a session.
type View struct {
	SessionID string                   `json:"session_id"`
	Tag       string                   `json:"tag"`
	Query     string                   `json:"query"`
	Tags      []string                 `json:"tags"`
	Projects  []project.ProjectSummary `json:"projects"`
	Selection *SelectionView           `json:"selection,omitempty"`
}

// KeyResult reports the outcome of a key press.
type KeyResult struct {
	SessionID string         `json:"session_id"`
	Key       string         `json:"key"`
	Handled   bool           `json:"handled"`
	Selection *SelectionView `json:"selection,omitempty"`
}
