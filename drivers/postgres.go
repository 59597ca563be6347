package drivers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/sheenazien8/lazydb/logger"
)

type PostgreSQL struct {
	Connection *sql.DB
	Database   string
}

func openPostgres(ctx context.Context, p Params) (Provider, error) {
	conn, err := openSQL(ctx, p.URL())
	if err != nil {
		return nil, err
	}

	logger.Debug("Connected to PostgreSQL", map[string]any{
		"host":     p.Host,
		"database": p.Database,
		"driver":   p.PostgresDriver,
	})

	return &PostgreSQL{Connection: conn, Database: p.Database}, nil
}

func (db *PostgreSQL) DatabaseType() string {
	return DriverPostgreSQL
}

func (db *PostgreSQL) TestConnection(ctx context.Context) error {
	return wrapErr(KindConnection, db.Connection.PingContext(ctx))
}

func (db *PostgreSQL) Version(ctx context.Context) (string, error) {
	var version string
	err := db.Connection.QueryRowContext(ctx, "SELECT version()").Scan(&version)
	return version, wrapErr(KindQuery, err)
}

func (db *PostgreSQL) Close() error {
	return db.Connection.Close()
}

// GetSchemas lists user schemas, skipping the system ones.
func (db *PostgreSQL) GetSchemas(ctx context.Context) ([]string, error) {
	query := `SELECT schema_name FROM information_schema.schemata
		WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		AND schema_name NOT LIKE 'pg_temp_%' AND schema_name NOT LIKE 'pg_toast_temp_%'
		ORDER BY schema_name`
	return queryStrings(ctx, db.Connection, query)
}

const pgRelationQuery = `
	SELECT
		c.relname,
		c.relkind::text,
		c.relpersistence::text,
		c.reltuples::bigint,
		pg_total_relation_size(c.oid),
		COALESCE(obj_description(c.oid, 'pg_class'), '')
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE n.nspname = $1 AND c.relkind IN ('r', 'p', 'v', 'm', 'f')`

// GetTables returns every table-like relation in schema
func (db *PostgreSQL) GetTables(ctx context.Context, schema string) ([]Table, error) {
	rows, err := db.Connection.QueryContext(ctx, pgRelationQuery+" ORDER BY c.relname", schema)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		t, err := scanPgRelation(rows, schema)
		if err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		tables = append(tables, t)
	}
	return tables, wrapErr(KindQuery, rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPgRelation(row rowScanner, schema string) (Table, error) {
	var name, kind, persistence, comment string
	var rowCount, size int64
	if err := row.Scan(&name, &kind, &persistence, &rowCount, &size, &comment); err != nil {
		return Table{}, err
	}

	t := NewTable(name, schema, pgTableType(kind, persistence))
	if rowCount >= 0 {
		t.RowCount = rowCount
	}
	t.SizeBytes = size
	t.Comment = comment
	return t, nil
}

func pgTableType(kind, persistence string) TableType {
	if persistence == "t" {
		return TableTypeTemporary
	}
	switch kind {
	case "v":
		return TableTypeView
	case "m":
		return TableTypeMaterializedView
	case "f":
		return TableTypeForeign
	default:
		return TableTypeBase
	}
}

// GetTableDetails returns complete table structure including columns, indexes, keys, constraints and triggers
func (db *PostgreSQL) GetTableDetails(ctx context.Context, name, schema string) (Table, error) {
	row := db.Connection.QueryRowContext(ctx, pgRelationQuery+" AND c.relname = $2", schema, name)
	t, err := scanPgRelation(row, schema)
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
		err = db.Connection.QueryRowContext(ctx, `
			SELECT pg_get_viewdef(c.oid, true)
			FROM pg_class c JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE n.nspname = $1 AND c.relname = $2`, schema, name).Scan(&t.ViewDefinition)
		if err != nil {
			return Table{}, wrapErr(KindQuery, err)
		}
	}

	markKeyColumns(&t)
	t.DetailsLoaded = true
	return t, nil
}

func (db *PostgreSQL) getColumns(ctx context.Context, table, schema string) ([]Column, error) {
	query := `
		SELECT
			a.attname,
			format_type(a.atttypid, a.atttypmod),
			NOT a.attnotnull,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
			a.attidentity::text <> '' OR COALESCE(pg_get_expr(d.adbin, d.adrelid), '') LIKE 'nextval(%',
			COALESCE(col_description(a.attrelid, a.attnum), ''),
			a.attnum
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = $1 AND c.relname = $2 AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.DataType, &col.Nullable, &col.Default, &col.IsAutoIncrement, &col.Comment, &col.Position); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		columns = append(columns, col)
	}
	return columns, wrapErr(KindQuery, rows.Err())
}

func (db *PostgreSQL) getIndexes(ctx context.Context, table, schema string) ([]Index, error) {
	query := `
		SELECT i.relname, ix.indisprimary, ix.indisunique, am.amname, pg_get_indexdef(ix.indexrelid)
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		WHERE n.nspname = $1 AND t.relname = $2
		ORDER BY i.relname
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var indexes []Index
	for rows.Next() {
		var idx Index
		var isPrimary, isUnique bool
		var method, def string
		if err := rows.Scan(&idx.Name, &isPrimary, &isUnique, &method, &def); err != nil {
			return nil, wrapErr(KindQuery, err)
		}

		switch {
		case isPrimary:
			idx.Type = IndexTypePrimary
		case isUnique:
			idx.Type = IndexTypeUnique
		}
		idx.Method = ParseIndexMethod(method)
		idx.Columns = parseIndexColumns(def)
		indexes = append(indexes, idx)
	}
	return indexes, wrapErr(KindQuery, rows.Err())
}

// parseIndexColumns pulls the key list out of a CREATE INDEX statement.
func parseIndexColumns(def string) []IndexColumn {
	upper := strings.ToUpper(def)
	from := strings.Index(upper, " USING ")
	if from < 0 {
		from = 0
	}
	open := strings.Index(def[from:], "(")
	if open < 0 {
		return nil
	}
	open += from

	depth := 0
	end := -1
	for i := open; i < len(def); i++ {
		if def[i] == '(' {
			depth++
		} else if def[i] == ')' {
			depth--
			if depth == 0 {
				end = i
				break
			}
		}
	}
	if end < 0 {
		return nil
	}

	var cols []IndexColumn
	for _, part := range splitColumns(def[open+1 : end]) {
		col := IndexColumn{Name: part}
		up := strings.ToUpper(part)
		if i := strings.Index(up, " NULLS "); i >= 0 {
			col.Name = strings.TrimSpace(part[:i])
			up = up[:i]
		}
		if strings.HasSuffix(up, " DESC") {
			col.Name = strings.TrimSpace(col.Name[:len(col.Name)-len(" DESC")])
			col.Order = Desc
		} else if strings.HasSuffix(up, " ASC") {
			col.Name = strings.TrimSpace(col.Name[:len(col.Name)-len(" ASC")])
		}
		cols = append(cols, col)
	}
	return cols
}

const pgKeyColumns = `(SELECT string_agg(a.attname, ',' ORDER BY k.ord)
	FROM unnest(%s) WITH ORDINALITY k(attnum, ord)
	JOIN pg_attribute a ON a.attrelid = %s AND a.attnum = k.attnum)`

func (db *PostgreSQL) getForeignKeys(ctx context.Context, table, schema string) ([]ForeignKey, error) {
	query := `
		SELECT
			con.conname,
			COALESCE(` + pgKeyList("con.conkey", "con.conrelid") + `, ''),
			fn.nspname || '.' || ft.relname,
			COALESCE(` + pgKeyList("con.confkey", "con.confrelid") + `, ''),
			con.confupdtype::text,
			con.confdeltype::text
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_class ft ON ft.oid = con.confrelid
		JOIN pg_namespace fn ON fn.oid = ft.relnamespace
		WHERE con.contype = 'f' AND n.nspname = $1 AND t.relname = $2
		ORDER BY con.conname
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		var cols, refCols, onUpdate, onDelete string
		if err := rows.Scan(&fk.Name, &cols, &fk.ReferencedTable, &refCols, &onUpdate, &onDelete); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		fk.Columns = splitList(cols)
		fk.ReferencedColumns = splitList(refCols)
		fk.OnUpdate = pgFKAction(onUpdate)
		fk.OnDelete = pgFKAction(onDelete)
		fks = append(fks, fk)
	}
	return fks, wrapErr(KindQuery, rows.Err())
}

// pgKeyList aggregates the attribute names of a constraint key array.
func pgKeyList(keyCol, relCol string) string {
	return fmt.Sprintf(pgKeyColumns, keyCol, relCol)
}

func pgFKAction(code string) FKAction {
	switch code {
	case "r":
		return FKRestrict
	case "c":
		return FKCascade
	case "n":
		return FKSetNull
	case "d":
		return FKSetDefault
	default:
		return FKNoAction
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (db *PostgreSQL) getConstraints(ctx context.Context, table, schema string) ([]Constraint, error) {
	query := `
		SELECT
			con.conname,
			con.contype::text,
			COALESCE(` + pgKeyList("con.conkey", "con.conrelid") + `, ''),
			pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class t ON t.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE n.nspname = $1 AND t.relname = $2
		ORDER BY con.conname
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

// getTriggers folds the per-event rows of information_schema.triggers into one entry per trigger
func (db *PostgreSQL) getTriggers(ctx context.Context, table, schema string) ([]Trigger, error) {
	query := `
		SELECT trigger_name, event_manipulation, action_timing, action_statement
		FROM information_schema.triggers
		WHERE trigger_schema = $1 AND event_object_table = $2
		ORDER BY trigger_name, event_manipulation
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var triggers []Trigger
	for rows.Next() {
		var trig Trigger
		if err := rows.Scan(&trig.Name, &trig.Event, &trig.Timing, &trig.Statement); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		if n := len(triggers); n > 0 && triggers[n-1].Name == trig.Name {
			triggers[n-1].Event += " OR " + trig.Event
			continue
		}
		triggers = append(triggers, trig)
	}
	return triggers, wrapErr(KindQuery, rows.Err())
}

func (db *PostgreSQL) GetRoutines(ctx context.Context, schema string) ([]Routine, error) {
	query := `
		SELECT
			p.proname,
			CASE WHEN p.prokind = 'p' THEN 'PROCEDURE' ELSE 'FUNCTION' END,
			pg_get_function_arguments(p.oid),
			COALESCE(pg_get_function_result(p.oid), ''),
			l.lanname,
			p.provolatile::text,
			p.prosecdef,
			COALESCE(p.prosrc, ''),
			COALESCE(obj_description(p.oid, 'pg_proc'), '')
		FROM pg_proc p
		JOIN pg_namespace n ON n.oid = p.pronamespace
		JOIN pg_language l ON l.oid = p.prolang
		WHERE n.nspname = $1 AND p.prokind IN ('f', 'p')
		ORDER BY p.proname
	`
	rows, err := db.Connection.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var routines []Routine
	for rows.Next() {
		r := Routine{Schema: schema}
		var kind, args, volatility string
		if err := rows.Scan(&r.Name, &kind, &args, &r.ReturnType, &r.Language, &volatility, &r.SecurityDefiner, &r.Definition, &r.Comment); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		if kind == "PROCEDURE" {
			r.Type = RoutineProcedure
		}
		switch volatility {
		case "s":
			r.Volatility = Stable
		case "i":
			r.Volatility = Immutable
		}
		r.Parameters = parseArguments(args)
		routines = append(routines, r)
	}
	return routines, wrapErr(KindQuery, rows.Err())
}

// parseArguments parses the output of pg_get_function_arguments.
func parseArguments(args string) []Parameter {
	var params []Parameter
	for i, part := range splitColumns(args) {
		p := Parameter{Position: i + 1}

		upper := strings.ToUpper(part)
		for _, m := range []struct {
			prefix string
			mode   ParameterMode
		}{
			{"INOUT ", ParamInOut},
			{"OUT ", ParamOut},
			{"IN ", ParamIn},
			{"VARIADIC ", ParamVariadic},
		} {
			if strings.HasPrefix(upper, m.prefix) {
				p.Mode = m.mode
				part = part[len(m.prefix):]
				upper = upper[len(m.prefix):]
				break
			}
		}

		if i := strings.Index(upper, " DEFAULT "); i >= 0 {
			p.Default = strings.TrimSpace(part[i+len(" DEFAULT "):])
			part = part[:i]
		}

		fields := strings.Fields(part)
		switch len(fields) {
		case 0:
			continue
		case 1:
			p.DataType = fields[0]
		default:
			p.Name = fields[0]
			p.DataType = strings.Join(fields[1:], " ")
		}
		params = append(params, p)
	}
	return params
}

func (db *PostgreSQL) ExecuteQuery(ctx context.Context, query string) (QueryResult, error) {
	return runQuery(ctx, db.Connection, query)
}

// markKeyColumns copies primary key and unique flags from constraints onto columns.
func markKeyColumns(t *Table) {
	for _, c := range t.Constraints {
		if c.Type != ConstraintPrimaryKey && c.Type != ConstraintUnique {
			continue
		}
		for _, name := range c.Columns {
			for i := range t.Columns {
				if t.Columns[i].Name != name {
					continue
				}
				if c.Type == ConstraintPrimaryKey {
					t.Columns[i].IsPrimaryKey = true
				} else if len(c.Columns) == 1 {
					t.Columns[i].IsUnique = true
				}
			}
		}
	}
}
