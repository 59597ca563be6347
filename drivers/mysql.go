package drivers

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sheenazien8/lazydb/logger"
)

// MySQL treats the connection's database as its only schema.
type MySQL struct {
	Connection *sql.DB
	Database   string
}

func openMySQL(ctx context.Context, p Params) (Provider, error) {
	conn, err := openSQL(ctx, p.URL())
	if err != nil {
		return nil, err
	}

	logger.Debug("Connected to MySQL", map[string]any{
		"host":     p.Host,
		"database": p.Database,
	})

	return &MySQL{Connection: conn, Database: p.Database}, nil
}

func (db *MySQL) DatabaseType() string {
	return DriverMySQL
}

func (db *MySQL) TestConnection(ctx context.Context) error {
	return wrapErr(KindConnection, db.Connection.PingContext(ctx))
}

func (db *MySQL) Version(ctx context.Context) (string, error) {
	var version string
	err := db.Connection.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version)
	return version, wrapErr(KindQuery, err)
}

func (db *MySQL) Close() error {
	return db.Connection.Close()
}

// schema maps the generic default schema onto the connected database.
func (db *MySQL) schema(schema string) string {
	if schema == "" || schema == "public" {
		return db.Database
	}
	return schema
}

func (db *MySQL) GetSchemas(ctx context.Context) ([]string, error) {
	query := `SELECT SCHEMA_NAME FROM information_schema.SCHEMATA
		WHERE SCHEMA_NAME NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY SCHEMA_NAME`
	return queryStrings(ctx, db.Connection, query)
}

const mysqlTableQuery = `
	SELECT TABLE_NAME, TABLE_TYPE, COALESCE(TABLE_ROWS, -1),
		COALESCE(DATA_LENGTH + INDEX_LENGTH, -1), COALESCE(TABLE_COMMENT, '')
	FROM information_schema.TABLES
	WHERE TABLE_SCHEMA = ?`

func scanMySQLTable(row rowScanner, schema string) (Table, error) {
	var name, typ, comment string
	var rowCount, size int64
	if err := row.Scan(&name, &typ, &rowCount, &size, &comment); err != nil {
		return Table{}, err
	}
	t := NewTable(name, schema, ParseTableType(typ))
	t.RowCount = rowCount
	t.SizeBytes = size
	t.Comment = comment
	return t, nil
}

func (db *MySQL) GetTables(ctx context.Context, schema string) ([]Table, error) {
	schema = db.schema(schema)
	rows, err := db.Connection.QueryContext(ctx, mysqlTableQuery+" ORDER BY TABLE_NAME", schema)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		t, err := scanMySQLTable(rows, schema)
		if err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		tables = append(tables, t)
	}
	return tables, wrapErr(KindQuery, rows.Err())
}

func (db *MySQL) GetTableDetails(ctx context.Context, name, schema string) (Table, error) {
	schema = db.schema(schema)
	row := db.Connection.QueryRowContext(ctx, mysqlTableQuery+" AND TABLE_NAME = ?", schema, name)
	t, err := scanMySQLTable(row, schema)
	if errors.Is(err, sql.ErrNoRows) {
		return Table{}, notFound("table %s.%s", schema, name)
	}
	if err != nil {
		return Table{}, wrapErr(KindQuery, err)
	}

	if t.Columns, err = db.getColumns(ctx, name, schema); err != nil {
		return Table{}, err
	}
	if t.Indexes, err = db.getIndexes(ctx, name, schema); err != nil {
		return Table{}, err
	}
	if t.ForeignKeys, err = db.getForeignKeys(ctx, name, schema); err != nil {
		return Table{}, err
	}
	if t.Constraints, err = db.getConstraints(ctx, name, schema); err != nil {
		return Table{}, err
	}
	if t.Triggers, err = db.getTriggers(ctx, name, schema); err != nil {
		return Table{}, err
	}
	if t.IsView() {
		err = db.Connection.QueryRowContext(ctx,
			"SELECT VIEW_DEFINITION FROM information_schema.VIEWS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?",
			schema, name).Scan(&t.ViewDefinition)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return Table{}, wrapErr(KindQuery, err)
		}
	}

	markKeyColumns(&t)
	t.DetailsLoaded = true
	return t, nil
}

func (db *MySQL) getColumns(ctx context.Context, table, schema string) ([]Column, error) {
	query := `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY, EXTRA,
			COALESCE(COLUMN_COMMENT, ''), ORDINAL_POSITION
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable, key, extra string
		var def sql.NullString
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &def, &key, &extra, &col.Comment, &col.Position); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		col.Nullable = nullable == "YES"
		col.Default = def.String
		col.IsPrimaryKey = key == "PRI"
		col.IsUnique = key == "UNI"
		col.IsAutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		columns = append(columns, col)
	}
	return columns, wrapErr(KindQuery, rows.Err())
}

// getIndexes groups information_schema.STATISTICS rows by index name.
func (db *MySQL) getIndexes(ctx context.Context, table, schema string) ([]Index, error) {
	query := `
		SELECT INDEX_NAME, NON_UNIQUE, COLUMN_NAME, COALESCE(COLLATION, 'A'), INDEX_TYPE
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY INDEX_NAME, SEQ_IN_INDEX
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var name, collation, indexType string
		var column sql.NullString
		var nonUnique int
		if err := rows.Scan(&name, &nonUnique, &column, &collation, &indexType); err != nil {
			return nil, wrapErr(KindQuery, err)
		}

		col := IndexColumn{Name: column.String}
		if collation == "D" {
			col.Order = Desc
		}
		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, col)
			continue
		}

		idx := Index{Name: name, Method: ParseIndexMethod(indexType), Columns: []IndexColumn{col}}
		switch {
		case name == "PRIMARY":
			idx.Type = IndexTypePrimary
		case indexType == "FULLTEXT":
			idx.Type = IndexTypeFulltext
		case indexType == "SPATIAL":
			idx.Type = IndexTypeSpatial
		case nonUnique == 0:
			idx.Type = IndexTypeUnique
		}
		indexes = append(indexes, idx)
	}
	return indexes, wrapErr(KindQuery, rows.Err())
}

func (db *MySQL) getForeignKeys(ctx context.Context, table, schema string) ([]ForeignKey, error) {
	query := `
		SELECT k.CONSTRAINT_NAME, k.COLUMN_NAME, k.REFERENCED_TABLE_NAME, k.REFERENCED_COLUMN_NAME,
			r.UPDATE_RULE, r.DELETE_RULE
		FROM information_schema.KEY_COLUMN_USAGE k
		JOIN information_schema.REFERENTIAL_CONSTRAINTS r
			ON r.CONSTRAINT_SCHEMA = k.CONSTRAINT_SCHEMA AND r.CONSTRAINT_NAME = k.CONSTRAINT_NAME
		WHERE k.TABLE_SCHEMA = ? AND k.TABLE_NAME = ? AND k.REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY k.CONSTRAINT_NAME, k.ORDINAL_POSITION
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var name, column, refTable, refColumn, onUpdate, onDelete string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &onUpdate, &onDelete); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		if n := len(fks); n > 0 && fks[n-1].Name == name {
			fks[n-1].Columns = append(fks[n-1].Columns, column)
			fks[n-1].ReferencedColumns = append(fks[n-1].ReferencedColumns, refColumn)
			continue
		}
		fks = append(fks, ForeignKey{
			Name:              name,
			Columns:           []string{column},
			ReferencedTable:   refTable,
			ReferencedColumns: []string{refColumn},
			OnUpdate:          ParseFKAction(onUpdate),
			OnDelete:          ParseFKAction(onDelete),
		})
	}
	return fks, wrapErr(KindQuery, rows.Err())
}

func (db *MySQL) getConstraints(ctx context.Context, table, schema string) ([]Constraint, error) {
	query := `
		SELECT tc.CONSTRAINT_NAME, tc.CONSTRAINT_TYPE,
			COALESCE(GROUP_CONCAT(k.COLUMN_NAME ORDER BY k.ORDINAL_POSITION), ''),
			COALESCE(MAX(cc.CHECK_CLAUSE), '')
		FROM information_schema.TABLE_CONSTRAINTS tc
		LEFT JOIN information_schema.KEY_COLUMN_USAGE k
			ON k.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND k.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
			AND k.TABLE_NAME = tc.TABLE_NAME
		LEFT JOIN information_schema.CHECK_CONSTRAINTS cc
			ON cc.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND cc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
		WHERE tc.TABLE_SCHEMA = ? AND tc.TABLE_NAME = ?
		GROUP BY tc.CONSTRAINT_NAME, tc.CONSTRAINT_TYPE
		ORDER BY tc.CONSTRAINT_NAME
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var constraints []Constraint
	for rows.Next() {
		var c Constraint
		var typ, cols string
		if err := rows.Scan(&c.Name, &typ, &cols, &c.Definition); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		c.Type = ParseConstraintType(typ)
		c.Columns = splitList(cols)
		constraints = append(constraints, c)
	}
	return constraints, wrapErr(KindQuery, rows.Err())
}

func (db *MySQL) getTriggers(ctx context.Context, table, schema string) ([]Trigger, error) {
	query := `
		SELECT TRIGGER_NAME, ACTION_TIMING, EVENT_MANIPULATION, ACTION_STATEMENT
		FROM information_schema.TRIGGERS
		WHERE TRIGGER_SCHEMA = ? AND EVENT_OBJECT_TABLE = ?
		ORDER BY TRIGGER_NAME
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var triggers []Trigger
	for rows.Next() {
		var trig Trigger
		if err := rows.Scan(&trig.Name, &trig.Timing, &trig.Event, &trig.Statement); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		triggers = append(triggers, trig)
	}
	return triggers, wrapErr(KindQuery, rows.Err())
}

func (db *MySQL) GetRoutines(ctx context.Context, schema string) ([]Routine, error) {
	schema = db.schema(schema)
	query := `
		SELECT SPECIFIC_NAME, ROUTINE_NAME, ROUTINE_TYPE, COALESCE(DTD_IDENTIFIER, ''),
			COALESCE(EXTERNAL_LANGUAGE, 'SQL'), IS_DETERMINISTIC, SECURITY_TYPE,
			COALESCE(ROUTINE_DEFINITION, ''), COALESCE(ROUTINE_COMMENT, '')
		FROM information_schema.ROUTINES
		WHERE ROUTINE_SCHEMA = ?
		ORDER BY ROUTINE_NAME
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var routines []Routine
	var specific []string
	for rows.Next() {
		r := Routine{Schema: schema}
		var specificName, typ, deterministic, security string
		if err := rows.Scan(&specificName, &r.Name, &typ, &r.ReturnType, &r.Language, &deterministic, &security, &r.Definition, &r.Comment); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		if typ == "PROCEDURE" {
			r.Type = RoutineProcedure
		}
		if deterministic == "YES" {
			r.Volatility = Immutable
		}
		r.SecurityDefiner = security == "DEFINER"
		routines = append(routines, r)
		specific = append(specific, specificName)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	rows.Close()

	params, err := db.getParameters(ctx, schema)
	if err != nil {
		return nil, err
	}
	for i := range routines {
		routines[i].Parameters = params[specific[i]]
	}
	return routines, nil
}

func (db *MySQL) getParameters(ctx context.Context, schema string) (map[string][]Parameter, error) {
	query := `
		SELECT SPECIFIC_NAME, COALESCE(PARAMETER_NAME, ''), DTD_IDENTIFIER,
			COALESCE(PARAMETER_MODE, 'IN'), ORDINAL_POSITION
		FROM information_schema.PARAMETERS
		WHERE SPECIFIC_SCHEMA = ? AND ORDINAL_POSITION > 0
		ORDER BY SPECIFIC_NAME, ORDINAL_POSITION
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	params := make(map[string][]Parameter)
	for rows.Next() {
		var specific, mode string
		var p Parameter
		if err := rows.Scan(&specific, &p.Name, &p.DataType, &mode, &p.Position); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		switch mode {
		case "OUT":
			p.Mode = ParamOut
		case "INOUT":
			p.Mode = ParamInOut
		}
		params[specific] = append(params[specific], p)
	}
	return params, wrapErr(KindQuery, rows.Err())
}

func (db *MySQL) ExecuteQuery(ctx context.Context, query string) (QueryResult, error) {
	return runQuery(ctx, db.Connection, query)
}
