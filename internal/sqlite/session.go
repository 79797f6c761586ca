package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/atelier/internal/domain/session"
	"github.com/ganot/atelier/internal/repository"
)

const sessionColumns = `id, tenant_id, status, active_tag, query, selected_project,
	carousel_index, created_at, last_activity, closed_at`

// SessionRepository stores viewer sessions, keyed by tenant and id.
type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts sess for tenantID. An id already used by the tenant
// yields repository.ErrConflict.
func (r *SessionRepository) Create(ctx context.Context, tenantID string, sess *session.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, tenantID, sess.Status, sess.ActiveTag, sess.Query, sess.SelectedProject,
		sess.CarouselIndex, sess.CreatedAt, sess.LastActivity, sess.ClosedAt,
	)
	switch {
	case err == nil:
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	case isUniqueViolation(err):
		return repository.ErrConflict
	default:
		return fmt.Errorf("insert session: %w", err)
	}
	sess.TenantID = tenantID
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, tenantID, id string) (*session.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE tenant_id = ? AND id = ?`, tenantID, id)

	var (
		sess     session.Session
		selected sql.NullString
		closedAt sql.NullTime
	)
	err := row.Scan(&sess.ID, &sess.TenantID, &sess.Status, &sess.ActiveTag, &sess.Query, &selected,
		&sess.CarouselIndex, &sess.CreatedAt, &sess.LastActivity, &closedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if selected.Valid {
		sess.SelectedProject = &selected.String
	}
	if closedAt.Valid {
		sess.ClosedAt = &closedAt.Time
	}
	return &sess, nil
}

// Update stores the session's status, filter and selection.
func (r *SessionRepository) Update(ctx context.Context, tenantID string, sess *session.Session) error {
	err := r.execOne(ctx, `
		UPDATE sessions
		SET status = ?, active_tag = ?, query = ?, selected_project = ?,
		    carousel_index = ?, last_activity = ?, closed_at = ?
		WHERE tenant_id = ? AND id = ?`,
		sess.Status, sess.ActiveTag, sess.Query, sess.SelectedProject,
		sess.CarouselIndex, sess.LastActivity, sess.ClosedAt,
		tenantID, sess.ID,
	)
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	return err
}

// Close marks the session closed and drops its selection.
func (r *SessionRepository) Close(ctx context.Context, tenantID, id string) error {
	now := time.Now()
	return r.execOne(ctx, `
		UPDATE sessions
		SET status = ?, selected_project = NULL, carousel_index = 0, closed_at = ?, last_activity = ?
		WHERE tenant_id = ? AND id = ?`,
		session.StatusClosed, now, now, tenantID, id,
	)
}

// execOne runs a statement that must touch exactly one session row.
func (r *SessionRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return err
		}
		return fmt.Errorf("update session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListActive returns the tenant's active sessions, most recently used first.
func (r *SessionRepository) ListActive(ctx context.Context, tenantID string) ([]session.SessionInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, active_tag, query, selected_project, created_at, last_activity
		FROM sessions
		WHERE tenant_id = ? AND status = ?
		ORDER BY last_activity DESC`,
		tenantID, session.StatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []session.SessionInfo{}
	for rows.Next() {
		var (
			info     session.SessionInfo
			selected sql.NullString
		)
		if err := rows.Scan(&info.SessionID, &info.ActiveTag, &info.Query, &selected, &info.CreatedAt, &info.LastActivity); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if selected.Valid {
			info.SelectedProject = &selected.String
		}
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}
