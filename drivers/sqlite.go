package drivers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sheenazien8/lazydb/logger"
	_ "modernc.org/sqlite"
)

type SQLite struct {
	Connection *sql.DB
	FilePath   string // Path to SQLite database file
}

func openSQLite(ctx context.Context, p Params) (Provider, error) {
	filePath := p.Path
	if filePath == "" {
		filePath = p.Database
	}
	filePath = strings.TrimPrefix(filePath, "sqlite://")
	filePath = strings.TrimPrefix(filePath, "file:")
	if filePath == "" {
		return nil, &Error{Kind: KindConfig, Err: errors.New("SQLite database file path is required")}
	}

	conn, err := sql.Open("sqlite", "file:"+filePath)
	if err != nil {
		return nil, wrapErr(KindConnection, err)
	}
	// PRAGMAs are per connection
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, wrapErr(KindConnection, err)
	}

	logger.Debug("Connected to SQLite database", map[string]any{
		"filePath": filePath,
	})

	return &SQLite{Connection: conn, FilePath: filePath}, nil
}

func (db *SQLite) DatabaseType() string {
	return DriverSQLite
}

func (db *SQLite) TestConnection(ctx context.Context) error {
	return wrapErr(KindConnection, db.Connection.PingContext(ctx))
}

func (db *SQLite) Version(ctx context.Context) (string, error) {
	var version string
	err := db.Connection.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version)
	return "SQLite " + version, wrapErr(KindQuery, err)
}

func (db *SQLite) Close() error {
	return db.Connection.Close()
}

// GetSchemas lists attached databases; usually just main.
func (db *SQLite) GetSchemas(ctx context.Context) ([]string, error) {
	rows, err := db.Connection.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		schemas = append(schemas, name)
	}
	return schemas, wrapErr(KindQuery, rows.Err())
}

// GetTables ignores schema: a SQLite file has a single namespace
func (db *SQLite) GetTables(ctx context.Context, schema string) ([]Table, error) {
	query := `
		SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	rows, err := db.Connection.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		tables = append(tables, NewTable(name, "", ParseTableType(typ)))
	}
	return tables, wrapErr(KindQuery, rows.Err())
}

func (db *SQLite) GetTableDetails(ctx context.Context, name, schema string) (Table, error) {
	var typ string
	var definition sql.NullString
	err := db.Connection.QueryRowContext(ctx,
		"SELECT type, sql FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?", name).
		Scan(&typ, &definition)
	if errors.Is(err, sql.ErrNoRows) {
		return Table{}, notFound("table %s", name)
	}
	if err != nil {
		return Table{}, wrapErr(KindQuery, err)
	}

	t := NewTable(name, "", ParseTableType(typ))
	if t.IsView() {
		t.ViewDefinition = definition.String
	}

	if t.Columns, err = db.getColumns(ctx, name); err != nil {
		return Table{}, err
	}
	if t.Indexes, err = db.getIndexes(ctx, name); err != nil {
		return Table{}, err
	}
	if t.ForeignKeys, err = db.getForeignKeys(ctx, name); err != nil {
		return Table{}, err
	}
	if t.Triggers, err = db.getTriggers(ctx, name); err != nil {
		return Table{}, err
	}
	t.Constraints = sqliteConstraints(t)

	if !t.IsView() {
		var count int64
		if err := db.Connection.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdentifier(name)).Scan(&count); err == nil {
			t.RowCount = count
		}
	}

	markKeyColumns(&t)
	t.DetailsLoaded = true
	return t, nil
}

func (db *SQLite) getColumns(ctx context.Context, table string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(table))

	rows, err := db.Connection.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var cid int
		var name string
		var dataType string
		var notnull int
		var defaultValue sql.NullString
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notnull, &defaultValue, &pk); err != nil {
			return nil, wrapErr(KindQuery, err)
		}

		columns = append(columns, Column{
			Name:         name,
			DataType:     dataType,
			Nullable:     notnull == 0 && pk == 0,
			Default:      defaultValue.String,
			IsPrimaryKey: pk > 0,
			// a lone INTEGER PRIMARY KEY aliases the rowid
			IsAutoIncrement: pk == 1 && strings.EqualFold(dataType, "INTEGER"),
			Position:        cid + 1,
		})
	}
	return columns, wrapErr(KindQuery, rows.Err())
}

func (db *SQLite) getIndexes(ctx context.Context, table string) ([]Index, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteIdentifier(table))

	rows, err := db.Connection.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}

	type listed struct {
		name   string
		unique bool
		origin string
	}
	var list []listed
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, wrapErr(KindQuery, err)
		}
		list = append(list, listed{name: name, unique: unique == 1, origin: origin})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindQuery, err)
	}

	// a single connection is shared, so the outer cursor must be closed first
	var indexes []Index
	for _, l := range list {
		cols, err := db.indexColumns(ctx, l.name)
		if err != nil {
			return nil, err
		}
		idx := Index{Name: l.name, Method: IndexMethodBTree, Columns: cols}
		switch {
		case l.origin == "pk":
			idx.Type = IndexTypePrimary
		case l.unique:
			idx.Type = IndexTypeUnique
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

func (db *SQLite) indexColumns(ctx context.Context, index string) ([]IndexColumn, error) {
	rows, err := db.Connection.QueryContext(ctx, fmt.Sprintf("PRAGMA index_xinfo(%s)", quoteIdentifier(index)))
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var cols []IndexColumn
	for rows.Next() {
		var seqno, cid, desc, key int
		var name, coll sql.NullString
		if err := rows.Scan(&seqno, &cid, &name, &desc, &coll, &key); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		if key == 0 {
			continue
		}
		col := IndexColumn{Name: name.String}
		if desc == 1 {
			col.Order = Desc
		}
		cols = append(cols, col)
	}
	return cols, wrapErr(KindQuery, rows.Err())
}

func (db *SQLite) getForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(table))

	rows, err := db.Connection.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var fks []ForeignKey
	lastID := -1
	for rows.Next() {
		var id, seq int
		var refTable, from string
		var to sql.NullString
		var onUpdate, onDelete, match string

		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, wrapErr(KindQuery, err)
		}

		if id == lastID && len(fks) > 0 {
			fk := &fks[len(fks)-1]
			fk.Columns = append(fk.Columns, from)
			fk.ReferencedColumns = append(fk.ReferencedColumns, to.String)
			continue
		}
		lastID = id
		fks = append(fks, ForeignKey{
			Name:              fmt.Sprintf("fk_%s_%s", table, from),
			Columns:           []string{from},
			ReferencedTable:   refTable,
			ReferencedColumns: []string{to.String},
			OnUpdate:          ParseFKAction(onUpdate),
			OnDelete:          ParseFKAction(onDelete),
		})
	}
	return fks, wrapErr(KindQuery, rows.Err())
}

func (db *SQLite) getTriggers(ctx context.Context, table string) ([]Trigger, error) {
	query := `
		SELECT name, sql FROM sqlite_master
		WHERE type = 'trigger' AND tbl_name = ?
		ORDER BY name
	`
	rows, err := db.Connection.QueryContext(ctx, query, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var triggers []Trigger
	for rows.Next() {
		var name string
		var stmt sql.NullString
		if err := rows.Scan(&name, &stmt); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		timing, event := parseTriggerHeader(stmt.String)
		triggers = append(triggers, Trigger{Name: name, Timing: timing, Event: event, Statement: stmt.String})
	}
	return triggers, wrapErr(KindQuery, rows.Err())
}

// parseTriggerHeader reads timing and event from the tokens of a CREATE
// TRIGGER statement that precede ON <table>.
func parseTriggerHeader(stmt string) (timing, event string) {
	timing, event = "BEFORE", "UNKNOWN"
	for _, tok := range strings.Fields(strings.ToUpper(stmt)) {
		switch tok {
		case "ON":
			return timing, event
		case "AFTER":
			timing = "AFTER"
		case "INSTEAD":
			timing = "INSTEAD OF"
		case "INSERT", "UPDATE", "DELETE":
			if event == "UNKNOWN" {
				event = tok
			}
		}
	}
	return timing, event
}

// sqliteConstraints derives key constraints from PRAGMA output.
func sqliteConstraints(t Table) []Constraint {
	var constraints []Constraint
	var pk []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	if len(pk) > 0 {
		constraints = append(constraints, Constraint{
			Name:       "pk_" + t.Name,
			Type:       ConstraintPrimaryKey,
			Columns:    pk,
			Definition: "PRIMARY KEY (" + strings.Join(pk, ", ") + ")",
		})
	}
	for _, idx := range t.Indexes {
		if idx.Type != IndexTypeUnique {
			continue
		}
		cols := make([]string, 0, len(idx.Columns))
		for _, c := range idx.Columns {
			cols = append(cols, c.Name)
		}
		constraints = append(constraints, Constraint{
			Name:       idx.Name,
			Type:       ConstraintUnique,
			Columns:    cols,
			Definition: "UNIQUE (" + strings.Join(cols, ", ") + ")",
		})
	}
	for _, fk := range t.ForeignKeys {
		constraints = append(constraints, Constraint{
			Name:    fk.Name,
			Type:    ConstraintForeignKey,
			Columns: fk.Columns,
			Definition: fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
				strings.Join(fk.Columns, ", "), fk.ReferencedTable, strings.Join(fk.ReferencedColumns, ", ")),
		})
	}
	return constraints
}

// GetRoutines returns nothing: SQLite has no stored routines
func (db *SQLite) GetRoutines(ctx context.Context, schema string) ([]Routine, error) {
	return nil, nil
}

func (db *SQLite) ExecuteQuery(ctx context.Context, query string) (QueryResult, error) {
	return runQuery(ctx, db.Connection, query)
}
