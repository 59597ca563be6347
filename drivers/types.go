package drivers

import (
	"strings"
)

// TableType distinguishes plain tables from views and friends
type TableType int

const (
	TableTypeBase TableType = iota
	TableTypeView
	TableTypeMaterializedView
	TableTypeForeign
	TableTypeTemporary
)

func (t TableType) String() string {
	switch t {
	case TableTypeView:
		return "VIEW"
	case TableTypeMaterializedView:
		return "MATERIALIZED VIEW"
	case TableTypeForeign:
		return "FOREIGN TABLE"
	case TableTypeTemporary:
		return "TEMPORARY"
	default:
		return "TABLE"
	}
}

// ParseTableType maps information_schema / sqlite_master type names.
func ParseTableType(s string) TableType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VIEW", "SYSTEM VIEW":
		return TableTypeView
	case "MATERIALIZED VIEW":
		return TableTypeMaterializedView
	case "FOREIGN", "FOREIGN TABLE":
		return TableTypeForeign
	case "LOCAL TEMPORARY", "TEMPORARY":
		return TableTypeTemporary
	default:
		return TableTypeBase
	}
}

// Column represents detailed column information
type Column struct {
	Name            string
	DataType        string
	Nullable        bool
	Default         string
	IsPrimaryKey    bool
	IsUnique        bool
	IsAutoIncrement bool
	Comment         string
	Position        int
}

type IndexType int

const (
	IndexTypeIndex IndexType = iota
	IndexTypePrimary
	IndexTypeUnique
	IndexTypeFulltext
	IndexTypeSpatial
)

func (t IndexType) String() string {
	switch t {
	case IndexTypePrimary:
		return "PRIMARY"
	case IndexTypeUnique:
		return "UNIQUE"
	case IndexTypeFulltext:
		return "FULLTEXT"
	case IndexTypeSpatial:
		return "SPATIAL"
	default:
		return "INDEX"
	}
}

// IndexMethod is the access method, e.g. btree or gin.
type IndexMethod string

const (
	IndexMethodBTree IndexMethod = "btree"
	IndexMethodHash  IndexMethod = "hash"
	IndexMethodGist  IndexMethod = "gist"
	IndexMethodGin   IndexMethod = "gin"
	IndexMethodBrin  IndexMethod = "brin"
)

// ParseIndexMethod returns the known method or the lowercased input.
func ParseIndexMethod(s string) IndexMethod {
	m := IndexMethod(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return IndexMethodBTree
	}
	return m
}

type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

type IndexColumn struct {
	Name  string
	Order SortOrder
}

// Index represents index information
type Index struct {
	Name    string
	Type    IndexType
	Method  IndexMethod
	Columns []IndexColumn
}

// ColumnNames joins the indexed columns, marking descending ones.
func (i Index) ColumnNames() string {
	parts := make([]string, 0, len(i.Columns))
	for _, c := range i.Columns {
		if c.Order == Desc {
			parts = append(parts, c.Name+" DESC")
		} else {
			parts = append(parts, c.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// FKAction is the referential action of a foreign key.
type FKAction int

const (
	FKNoAction FKAction = iota
	FKRestrict
	FKCascade
	FKSetNull
	FKSetDefault
)

func (a FKAction) String() string {
	switch a {
	case FKRestrict:
		return "RESTRICT"
	case FKCascade:
		return "CASCADE"
	case FKSetNull:
		return "SET NULL"
	case FKSetDefault:
		return "SET DEFAULT"
	default:
		return "NO ACTION"
	}
}

func ParseFKAction(s string) FKAction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RESTRICT":
		return FKRestrict
	case "CASCADE":
		return FKCascade
	case "SET NULL":
		return FKSetNull
	case "SET DEFAULT":
		return FKSetDefault
	default:
		return FKNoAction
	}
}

// ForeignKey represents a foreign key relationship
type ForeignKey struct {
	Name              string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnUpdate          FKAction
	OnDelete          FKAction
}

type ConstraintType int

const (
	ConstraintPrimaryKey ConstraintType = iota
	ConstraintUnique
	ConstraintForeignKey
	ConstraintCheck
	ConstraintNotNull
	ConstraintDefault
	ConstraintExclusion
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintPrimaryKey:
		return "PRIMARY KEY"
	case ConstraintUnique:
		return "UNIQUE"
	case ConstraintForeignKey:
		return "FOREIGN KEY"
	case ConstraintCheck:
		return "CHECK"
	case ConstraintNotNull:
		return "NOT NULL"
	case ConstraintDefault:
		return "DEFAULT"
	default:
		return "EXCLUDE"
	}
}

func ParseConstraintType(s string) ConstraintType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRIMARY KEY", "P":
		return ConstraintPrimaryKey
	case "UNIQUE", "U":
		return ConstraintUnique
	case "FOREIGN KEY", "F":
		return ConstraintForeignKey
	case "NOT NULL":
		return ConstraintNotNull
	case "DEFAULT":
		return ConstraintDefault
	case "EXCLUDE", "X":
		return ConstraintExclusion
	default:
		return ConstraintCheck
	}
}

type Constraint struct {
	Name       string
	Type       ConstraintType
	Columns    []string
	Definition string
}

// Trigger represents trigger information
type Trigger struct {
	Name      string
	Timing    string // BEFORE, AFTER, INSTEAD OF
	Event     string // INSERT, UPDATE, DELETE
	Statement string
}

// Table is a listed table; the detail slices are empty until DetailsLoaded.
type Table struct {
	Name           string
	Schema         string
	Type           TableType
	Columns        []Column
	Indexes        []Index
	ForeignKeys    []ForeignKey
	Constraints    []Constraint
	Triggers       []Trigger
	RowCount       int64 // -1 when unknown
	SizeBytes      int64 // -1 when unknown
	Comment        string
	DetailsLoaded  bool
	ViewDefinition string
}

// NewTable returns a listed table with unknown statistics.
func NewTable(name, schema string, typ TableType) Table {
	return Table{Name: name, Schema: schema, Type: typ, RowCount: -1, SizeBytes: -1}
}

func (t Table) FullName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

func (t Table) IsView() bool {
	return t.Type == TableTypeView || t.Type == TableTypeMaterializedView
}

// IncomingReference is a foreign key on another table pointing at this one.
type IncomingReference struct {
	Table      string
	ForeignKey ForeignKey
}

// IncomingReferences scans all tables for foreign keys targeting t.
func (t Table) IncomingReferences(all []Table) []IncomingReference {
	var refs []IncomingReference
	for _, other := range all {
		for _, fk := range other.ForeignKeys {
			if t.matchesReference(fk.ReferencedTable) {
				refs = append(refs, IncomingReference{Table: other.FullName(), ForeignKey: fk})
			}
		}
	}
	return refs
}

func (t Table) matchesReference(ref string) bool {
	if ref == t.FullName() || ref == t.Name {
		return true
	}
	if t.Schema == "" {
		if i := strings.LastIndex(ref, "."); i >= 0 {
			return ref[i+1:] == t.Name
		}
	}
	return false
}

type RoutineType int

const (
	RoutineFunction RoutineType = iota
	RoutineProcedure
)

func (t RoutineType) String() string {
	if t == RoutineProcedure {
		return "PROCEDURE"
	}
	return "FUNCTION"
}

type ParameterMode int

const (
	ParamIn ParameterMode = iota
	ParamOut
	ParamInOut
	ParamVariadic
)

func (m ParameterMode) String() string {
	switch m {
	case ParamOut:
		return "OUT"
	case ParamInOut:
		return "INOUT"
	case ParamVariadic:
		return "VARIADIC"
	default:
		return "IN"
	}
}

type Parameter struct {
	Name     string
	DataType string
	Mode     ParameterMode
	Default  string
	Position int
}

type Volatility int

const (
	Volatile Volatility = iota
	Stable
	Immutable
)

func (v Volatility) String() string {
	switch v {
	case Stable:
		return "STABLE"
	case Immutable:
		return "IMMUTABLE"
	default:
		return "VOLATILE"
	}
}

// Routine is a stored function or procedure.
type Routine struct {
	Name            string
	Schema          string
	Type            RoutineType
	Parameters      []Parameter
	ReturnType      string
	Language        string
	Volatility      Volatility
	SecurityDefiner bool
	Definition      string
	Comment         string
}

func (r Routine) QualifiedName() string {
	if r.Schema == "" {
		return r.Name
	}
	return r.Schema + "." + r.Name
}

// ParametersSignature renders the input parameters, e.g. "(id integer, text)".
func (r Routine) ParametersSignature() string {
	parts := make([]string, 0, len(r.Parameters))
	for _, p := range r.Parameters {
		if p.Mode == ParamOut {
			continue
		}
		if p.Name == "" {
			parts = append(parts, p.DataType)
		} else {
			parts = append(parts, p.Name+" "+p.DataType)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// QueryResult holds a fully materialized result set rendered as strings.
type QueryResult struct {
	Columns         []string
	Rows            [][]string
	ExecutionTimeMs int64
	TotalRows       int
}
