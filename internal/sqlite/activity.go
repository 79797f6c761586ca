package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ganot/atelier/internal/domain/activity"
)

// ActivityRepository stores the activity log.
type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends entry and fills in its ID and tenant.
func (r *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO activity_log (tenant_id, session_id, project_id, activity_type, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		tenantID, entry.SessionID, entry.ProjectID, entry.ActivityType, entry.Summary, entry.Details, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	entry.TenantID = tenantID
	return nil
}

// conditions accumulates AND-ed WHERE terms with their arguments.
type conditions struct {
	terms []string
	args  []any
}

func (c *conditions) add(term string, arg any) {
	c.terms = append(c.terms, term)
	c.args = append(c.args, arg)
}

func (c *conditions) where() string {
	return " WHERE " + strings.Join(c.terms, " AND ")
}

// List returns the tenant's entries matching opts, newest first. Entries
// written in the same instant keep insertion order reversed.
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	var cond conditions
	cond.add("tenant_id = ?", tenantID)
	if opts.SessionID != nil {
		cond.add("session_id = ?", *opts.SessionID)
	}
	if opts.ProjectID != nil {
		cond.add("project_id = ?", *opts.ProjectID)
	}
	if opts.ActivityType != nil {
		cond.add("activity_type = ?", *opts.ActivityType)
	}

	query := `SELECT id, tenant_id, session_id, project_id, activity_type, summary, details, created_at
		FROM activity_log` + cond.where() + ` ORDER BY created_at DESC, id DESC`
	args := cond.args

	// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
	switch {
	case opts.Limit > 0:
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, max(opts.Offset, 0))
	case opts.Offset > 0:
		query += " LIMIT -1 OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.ActivityEntry{}
	for rows.Next() {
		var (
			entry     activity.ActivityEntry
			projectID sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.SessionID, &projectID,
			&entry.ActivityType, &entry.Summary, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if projectID.Valid {
			entry.ProjectID = &projectID.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
