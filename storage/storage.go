package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/logger"
	"github.com/sheenazien8/lazydb/model"
	_ "modernc.org/sqlite"
)

// Store persists projects, connections and query history in a local
// SQLite file. Passwords go to Secrets, never to the database.
type Store struct {
	db      *sql.DB
	secrets *Secrets
}

// Open opens (creating if needed) the database at path. secrets may be nil,
// in which case passwords are not persisted at all.
func Open(path string, secrets *Secrets) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, secrets: secrets}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
    CREATE TABLE IF NOT EXISTS projects (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        position INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS connections (
        id TEXT PRIMARY KEY,
        project_id TEXT NOT NULL,
        name TEXT NOT NULL,
        driver TEXT NOT NULL,
        host TEXT NOT NULL DEFAULT '',
        port INTEGER NOT NULL DEFAULT 0,
        database_name TEXT NOT NULL DEFAULT '',
        username TEXT NOT NULL DEFAULT '',
        password_env TEXT NOT NULL DEFAULT '',
        path TEXT NOT NULL DEFAULT '',
        position INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS query_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        query TEXT NOT NULL,
        connection_name TEXT NOT NULL DEFAULT '',
        database_name TEXT NOT NULL DEFAULT '',
        executed_at DATETIME NOT NULL,
        duration INTEGER DEFAULT 0,
        row_count INTEGER DEFAULT 0,
        success INTEGER NOT NULL DEFAULT 0,
        error TEXT
    );

    CREATE INDEX IF NOT EXISTS idx_connections_project ON connections(project_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addColumn("connections", "password_env", "TEXT NOT NULL DEFAULT ''")
}

// addColumn adds a column to a table created by an older version.
func (s *Store) addColumn(table, column, def string) error {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&n)
	if err != nil || n > 0 {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, def))
	return err
}

// =============================================================================
// Projects and connections
// =============================================================================

// SaveProjects replaces every stored project and connection with projects,
// keeping their order.
func (s *Store) SaveProjects(projects []model.Project) error {
	previous, err := s.connectionIDs()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM connections"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM projects"); err != nil {
		return err
	}

	for i, p := range projects {
		if _, err := tx.Exec(
			"INSERT INTO projects (id, name, description, position) VALUES (?, ?, ?, ?)",
			p.ID, p.Name, p.Description, i,
		); err != nil {
			return fmt.Errorf("failed to save project %s: %w", p.Name, err)
		}
		for j, c := range p.Connections {
			if _, err := tx.Exec(
				`INSERT INTO connections (id, project_id, name, driver, host, port, database_name, username, password_env, path, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ID, p.ID, c.Name, c.Driver, c.Host, c.Port, c.Database, c.Username, c.PasswordEnv, c.Path, j,
			); err != nil {
				return fmt.Errorf("failed to save connection %s: %w", c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.syncSecrets(projects, previous)
	return nil
}

func (s *Store) syncSecrets(projects []model.Project, previous map[string]bool) {
	if s.secrets == nil {
		return
	}
	for _, p := range projects {
		for _, c := range p.Connections {
			delete(previous, c.ID)
			if err := s.secrets.Set(c.ID, c.Password); err != nil {
				logger.Warn("Password not saved", map[string]any{"connection": c.Name, "error": err.Error()})
			}
		}
	}
	for id := range previous {
		if err := s.secrets.Delete(id); err != nil {
			logger.Warn("Stale password not removed", map[string]any{"connection_id": id, "error": err.Error()})
		}
	}
}

func (s *Store) connectionIDs() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT id FROM connections")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// LoadProjects returns all projects with their connections, passwords
// filled in from the keyring when available. A connection's password_env
// is kept as a name only and resolved when the connection is opened.
func (s *Store) LoadProjects() ([]model.Project, error) {
	rows, err := s.db.Query("SELECT id, name, description FROM projects ORDER BY position, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []model.Project
	index := make(map[string]int)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	connRows, err := s.db.Query(
		`SELECT id, project_id, name, driver, host, port, database_name, username, password_env, path
		 FROM connections ORDER BY project_id, position`,
	)
	if err != nil {
		return nil, err
	}
	defer connRows.Close()

	for connRows.Next() {
		var c model.Connection
		var projectID string
		if err := connRows.Scan(&c.ID, &projectID, &c.Name, &c.Driver, &c.Host, &c.Port, &c.Database, &c.Username, &c.PasswordEnv, &c.Path); err != nil {
			return nil, err
		}
		i, ok := index[projectID]
		if !ok {
			continue
		}
		if s.secrets != nil {
			pw, err := s.secrets.Get(c.ID)
			if err != nil {
				logger.Warn("Password not loaded", map[string]any{"connection": c.Name, "error": err.Error()})
			}
			c.Password = pw
		}
		projects[i].Connections = append(projects[i].Connections, c)
	}
	return projects, connRows.Err()
}

// =============================================================================
// Query history
// =============================================================================

// SaveHistory replaces the stored history with entries, newest first.
func (s *Store) SaveHistory(entries []history.Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM query_history"); err != nil {
		return err
	}
	for _, e := range entries {
		var errStr sql.NullString
		if e.ErrorMessage != "" {
			errStr = sql.NullString{String: e.ErrorMessage, Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO query_history (query, connection_name, database_name, executed_at, duration, row_count, success, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Query, e.ConnectionName, e.DatabaseName, e.ExecutedAt.UTC(), e.Duration.Milliseconds(), e.RowCount, e.Success, errStr,
		); err != nil {
			return fmt.Errorf("failed to save history entry: %w", err)
		}
	}
	return tx.Commit()
}

// LoadHistory returns at most limit entries, newest first. limit <= 0
// returns everything.
func (s *Store) LoadHistory(limit int) ([]history.Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT query, connection_name, database_name, executed_at, duration, row_count, success, error
		 FROM query_history ORDER BY id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		var duration int64
		var errStr sql.NullString
		if err := rows.Scan(&e.Query, &e.ConnectionName, &e.DatabaseName, &e.ExecutedAt, &duration, &e.RowCount, &e.Success, &errStr); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(duration) * time.Millisecond
		if errStr.Valid {
			e.ErrorMessage = errStr.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearHistory clears all query history
func (s *Store) ClearHistory() error {
	_, err := s.db.Exec("DELETE FROM query_history")
	return err
}
