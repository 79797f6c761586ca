package activity

import "context"

// Repository stores the append-only activity log. Entries are scoped to a
// tenant and come back newest first.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}

// ListActivityOptions narrows a listing. Nil filters match everything.
type ListActivityOptions struct {
	SessionID    *string
	ProjectID    *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
