package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create appends a project to the end of the catalog
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (
			id, position, title, year, type, cover,
			description, area, role, report
		) VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM projects), ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		proj.ID,
		proj.Title,
		proj.Year,
		proj.Type,
		proj.Cover,
		proj.Description,
		proj.Area,
		proj.Role,
		proj.Report,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	for i, image := range proj.Images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_images (project_id, position, path) VALUES (?, ?, ?)`,
			proj.ID, i, image); err != nil {
			return fmt.Errorf("failed to add image: %w", err)
		}
	}
	for i, tag := range proj.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_tags (project_id, position, tag) VALUES (?, ?, ?)`,
			proj.ID, i, tag); err != nil {
			return fmt.Errorf("failed to add tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `
		SELECT id, title, year, type, cover, description, area, role, report
		FROM projects
		WHERE id = ?
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	images, err := r.strings(ctx, `SELECT path FROM project_images WHERE project_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	tags, err := r.strings(ctx, `SELECT tag FROM project_tags WHERE project_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	proj.Images = images
	proj.Tags = tags

	return proj, nil
}

// List returns the whole catalog in catalog order
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `
		SELECT id, title, year, type, cover, description, area, role, report
		FROM projects
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	index := map[string]int{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		index[proj.ID] = len(projects)
		projects = append(projects, *proj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	err = r.eachChild(ctx, `SELECT project_id, path FROM project_images ORDER BY project_id, position`,
		func(projectID, value string) {
			if i, ok := index[projectID]; ok {
				projects[i].Images = append(projects[i].Images, value)
			}
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	err = r.eachChild(ctx, `SELECT project_id, tag FROM project_tags ORDER BY project_id, position`,
		func(projectID, value string) {
			if i, ok := index[projectID]; ok {
				projects[i].Tags = append(projects[i].Tags, value)
			}
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}

	return projects, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var report sql.NullString
	err := row.Scan(
		&proj.ID,
		&proj.Title,
		&proj.Year,
		&proj.Type,
		&proj.Cover,
		&proj.Description,
		&proj.Area,
		&proj.Role,
		&report,
	)
	if err != nil {
		return nil, err
	}
	if report.Valid {
		proj.Report = &report.String
	}
	proj.Images = []string{}
	proj.Tags = []string{}
	return &proj, nil
}

func (r *ProjectRepository) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *ProjectRepository) eachChild(ctx context.Context, query string, fn func(projectID, value string)) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, value string
		if err := rows.Scan(&projectID, &value); err != nil {
			return err
		}
		fn(projectID, value)
	}
	return rows.Err()
}
