package mcp

import (
	"time"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/session"
)

type ListProjectsParams struct{}

type ListProjectsResult struct {
	Projects []project.ProjectSummary `json:"projects"`
}

type ListTagsParams struct{}

type ListTagsResult struct {
	AllTag string   `json:"all_tag" jsonschema:"the tag value meaning no tag filter"`
	Tags   []string `json:"tags" jsonschema:"tag chips in display order, all_tag first"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type GetProjectResult struct {
	Project         project.Project `json:"project"`
	ReportAvailable bool            `json:"report_available"`
}

type FilterProjectsParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"viewer session (defaults to the transport session)"`
	Tag       string `json:"tag,omitempty" jsonschema:"exact tag to filter by; empty or 전체 means all"`
	Query     string `json:"query,omitempty" jsonschema:"case-insensitive text to search title, description, type and tags"`
}

type OpenProjectParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"viewer session (defaults to the transport session)"`
	ID        string `json:"id" jsonschema:"project identifier"`
}

type SessionParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"viewer session (defaults to the transport session)"`
}

type NavigateParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"viewer session (defaults to the transport session)"`
	Direction int    `json:"direction" jsonschema:"1 for next image, -1 for previous; wraps around"`
}

type JumpToParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"viewer session (defaults to the transport session)"`
	Index     int    `json:"index" jsonschema:"zero-based image index"`
}

type PressKeyParams struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"viewer session (defaults to the transport session)"`
	Key       string `json:"key" jsonschema:"key name: Escape, ArrowRight or ArrowLeft"`
}

type SelectionResult struct {
	SessionID string                 `json:"session_id"`
	Open      bool                   `json:"open" jsonschema:"whether a project is open"`
	Selection *session.SelectionView `json:"selection,omitempty"`
}

type CloseProjectResult struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

type GetRecentActivityParams struct {
	SessionID    string `json:"session_id,omitempty" jsonschema:"only entries for this session"`
	ProjectID    string `json:"project_id,omitempty" jsonschema:"only entries for this project"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"only entries of this type"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of entries (default 50)"`
	Offset       int    `json:"offset,omitempty"`
}

type ActivityEntryResponse struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"session_id"`
	ProjectID    *string   `json:"project_id,omitempty"`
	ActivityType string    `json:"activity_type"`
	Summary      string    `json:"summary"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type GetRecentActivityResult struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

type CloseSessionResult struct {
	SessionID string `json:"session_id"`
	Closed    bool   `json:"closed"`
}

type ListSessionsParams struct{}

type ListSessionsResult struct {
	Sessions []session.SessionInfo `json:"sessions"`
}

// CatalogPayload is the catalog resource body.
type CatalogPayload struct {
	Projects []project.Project `json:"projects"`
}

func toActivityResponse(entries []activity.ActivityEntry) []ActivityEntryResponse {
	out := make([]ActivityEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityEntryResponse{
			ID:           e.ID,
			SessionID:    e.SessionID,
			ProjectID:    e.ProjectID,
			ActivityType: string(e.ActivityType),
			Summary:      e.Summary,
			Details:      e.Details,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}
