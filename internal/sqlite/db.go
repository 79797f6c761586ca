package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB is the atelier database handle.
type DB struct {
	*sql.DB
}

// connPragmas run on every pooled connection, so foreign keys hold no
// matter which connection serves a statement.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// withPragmas appends connPragmas to a modernc DSN.
func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + connPragmas
	}
	return dsn + "?" + connPragmas
}

// New opens dataSourceName, a file path or a modernc DSN, with foreign
// keys enforced. Call RunMigrations before use.
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", withPragmas(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	if dataSourceName == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &DB{db}, nil
}

// RunMigrations creates the schema. It is safe to run against an existing
// database.
func (db *DB) RunMigrations() error {
	migration := `
-- Catalog projects; position keeps catalog order
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    year INTEGER NOT NULL,
    type TEXT NOT NULL,
    cover TEXT NOT NULL,
    description TEXT NOT NULL,
    area TEXT NOT NULL,
    role TEXT NOT NULL,
    report TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_project_position ON projects(position);

CREATE TABLE IF NOT EXISTS project_images (
    project_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    path TEXT NOT NULL,
    PRIMARY KEY (project_id, position),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Tags may repeat within a project, so position is part of the key
CREATE TABLE IF NOT EXISTS project_tags (
    project_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (project_id, position),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_tag ON project_tags(tag);

-- Browsing sessions
-- Session ids are chosen by clients, so they are only unique per tenant
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT NOT NULL,
    tenant_id TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('active', 'closed')),
    active_tag TEXT NOT NULL,
    query TEXT NOT NULL DEFAULT '',
    selected_project TEXT,
    carousel_index INTEGER NOT NULL DEFAULT 0 CHECK(carousel_index >= 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_activity TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    closed_at TIMESTAMP,
    PRIMARY KEY (tenant_id, id),
    FOREIGN KEY (selected_project) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_status ON sessions(status);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tenant_id TEXT NOT NULL,
    session_id TEXT NOT NULL,
    project_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_tenant_activity ON activity_log(tenant_id);
CREATE INDEX IF NOT EXISTS idx_session_activity ON activity_log(session_id);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_tenant_keys ON api_keys(tenant_id);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
