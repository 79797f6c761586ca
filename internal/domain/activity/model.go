package activity

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType names what happened in a viewer session.
type ActivityType string

const (
	TypeSessionStarted ActivityType = "session_started"
	TypeSessionClosed  ActivityType = "session_closed"
	TypeFilterChanged  ActivityType = "filter_changed"
	TypeProjectOpened  ActivityType = "project_opened"
	TypeProjectClosed  ActivityType = "project_closed"
	TypeCarouselMoved  ActivityType = "carousel_moved"
	TypeKeyIgnored     ActivityType = "key_ignored"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeSessionStarted, TypeSessionClosed, TypeFilterChanged,
		TypeProjectOpened, TypeProjectClosed, TypeCarouselMoved, TypeKeyIgnored:
		return true
	}
	return false
}

// ActivityEntry is one line of a session's activity log.
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	SessionID    string       `json:"session_id"`
	ProjectID    *string      `json:"project_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON object
	CreatedAt    time.Time    `json:"created_at"`
}

// NewEntry builds an entry stamped with the current time. details, when
// non-nil, is stored as a JSON object.
func NewEntry(sessionID string, projectID *string, typ ActivityType, summary string, details map[string]any) (*ActivityEntry, error) {
	entry := &ActivityEntry{
		SessionID:    sessionID,
		ProjectID:    projectID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    time.Now(),
	}
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("encode activity details: %w", err)
		}
		entry.Details = string(data)
	}
	return entry, nil
}
