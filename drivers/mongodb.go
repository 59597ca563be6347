package drivers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sheenazien8/lazydb/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoQueryLimit caps documents returned by ExecuteQuery.
const mongoQueryLimit = 1000

// MongoDB exposes collections as tables. Queries take the form
// `collection {filter}` or `db.collection.find({filter})`.
type MongoDB struct {
	Client   *mongo.Client
	Database string
}

func openMongoDB(ctx context.Context, p Params) (Provider, error) {
	if p.Database == "" {
		return nil, &Error{Kind: KindConfig, Err: errors.New("no database specified")}
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(p.URL()).
		SetConnectTimeout(10*time.Second).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, wrapErr(KindConnection, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, wrapErr(KindConnection, err)
	}

	logger.Debug("Connected to MongoDB", map[string]any{
		"host":     p.Host,
		"database": p.Database,
	})

	return &MongoDB{Client: client, Database: p.Database}, nil
}

func (db *MongoDB) DatabaseType() string {
	return DriverMongoDB
}

func (db *MongoDB) TestConnection(ctx context.Context) error {
	return wrapErr(KindConnection, db.Client.Ping(ctx, nil))
}

func (db *MongoDB) Version(ctx context.Context) (string, error) {
	var info bson.M
	err := db.Client.Database("admin").RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info)
	if err != nil {
		return "", wrapErr(KindQuery, err)
	}
	return fmt.Sprintf("MongoDB %v", info["version"]), nil
}

func (db *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

// GetSchemas lists databases on the server.
func (db *MongoDB) GetSchemas(ctx context.Context) ([]string, error) {
	names, err := db.Client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	sort.Strings(names)
	return names, nil
}

func (db *MongoDB) GetTables(ctx context.Context, schema string) ([]Table, error) {
	cursor, err := db.Client.Database(db.Database).ListCollections(ctx, bson.M{})
	if err != nil {
		return nil, wrapErr(KindQuery, fmt.Errorf("failed to list collections: %w", err))
	}
	defer cursor.Close(ctx)

	var specs []struct {
		Name string `bson:"name"`
		Type string `bson:"type"`
	}
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, wrapErr(KindQuery, err)
	}

	tables := make([]Table, 0, len(specs))
	for _, s := range specs {
		typ := TableTypeBase
		if s.Type == "view" {
			typ = TableTypeView
		}
		tables = append(tables, NewTable(s.Name, "", typ))
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

func (db *MongoDB) GetTableDetails(ctx context.Context, name, schema string) (Table, error) {
	tables, err := db.GetTables(ctx, schema)
	if err != nil {
		return Table{}, err
	}
	var t Table
	found := false
	for _, candidate := range tables {
		if candidate.Name == name {
			t, found = candidate, true
			break
		}
	}
	if !found {
		return Table{}, notFound("collection %s", name)
	}

	collection := db.Client.Database(db.Database).Collection(name)
	if t.Columns, err = db.inferColumns(ctx, collection); err != nil {
		return Table{}, err
	}
	if !t.IsView() {
		if t.Indexes, err = db.getIndexes(ctx, collection); err != nil {
			return Table{}, err
		}
	}
	if count, err := collection.EstimatedDocumentCount(ctx); err == nil {
		t.RowCount = count
	}

	t.DetailsLoaded = true
	return t, nil
}

// inferColumns samples documents to determine field types
func (db *MongoDB) inferColumns(ctx context.Context, collection *mongo.Collection) ([]Column, error) {
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetLimit(100))
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer cursor.Close(ctx)

	var documents []bson.D
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, wrapErr(KindQuery, err)
	}

	var columns []Column
	seen := make(map[string]bool)
	for _, doc := range documents {
		for _, field := range doc {
			if seen[field.Key] {
				continue
			}
			seen[field.Key] = true
			columns = append(columns, Column{
				Name:         field.Key,
				DataType:     getMongoType(field.Value),
				Nullable:     field.Key != "_id",
				IsPrimaryKey: field.Key == "_id",
				IsUnique:     field.Key == "_id",
			})
		}
	}
	sortIDFirst(columns)
	for i := range columns {
		columns[i].Position = i + 1
	}
	return columns, nil
}

func sortIDFirst(columns []Column) {
	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].Name == "_id" && columns[j].Name != "_id"
	})
}

func (db *MongoDB) getIndexes(ctx context.Context, collection *mongo.Collection) ([]Index, error) {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer cursor.Close(ctx)

	var indexDocs []struct {
		Name   string `bson:"name"`
		Key    bson.D `bson:"key"`
		Unique bool   `bson:"unique"`
	}
	if err = cursor.All(ctx, &indexDocs); err != nil {
		return nil, wrapErr(KindQuery, err)
	}

	var indexes []Index
	for _, doc := range indexDocs {
		idx := Index{Name: doc.Name, Method: IndexMethodBTree}
		for _, k := range doc.Key {
			col := IndexColumn{Name: k.Key}
			switch v := k.Value.(type) {
			case int32:
				if v < 0 {
					col.Order = Desc
				}
			case int64:
				if v < 0 {
					col.Order = Desc
				}
			case float64:
				if v < 0 {
					col.Order = Desc
				}
			case string:
				if v == "text" {
					idx.Type = IndexTypeFulltext
				} else if strings.HasPrefix(v, "2d") {
					idx.Type = IndexTypeSpatial
				} else if v == "hashed" {
					idx.Method = IndexMethodHash
				}
			}
			idx.Columns = append(idx.Columns, col)
		}
		switch {
		case doc.Name == "_id_":
			idx.Type = IndexTypePrimary
		case doc.Unique:
			idx.Type = IndexTypeUnique
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// GetRoutines returns nothing: MongoDB has no stored routines
func (db *MongoDB) GetRoutines(ctx context.Context, schema string) ([]Routine, error) {
	return nil, nil
}

func (db *MongoDB) ExecuteQuery(ctx context.Context, query string) (QueryResult, error) {
	logger.Debug("Executing MongoDB query", map[string]any{
		"query": query,
	})

	collectionName, filter, err := parseMongoQuery(query)
	if err != nil {
		return QueryResult{}, &Error{Kind: KindQuery, Err: err}
	}

	start := time.Now()
	collection := db.Client.Database(db.Database).Collection(collectionName)
	cursor, err := collection.Find(ctx, filter, options.Find().SetLimit(mongoQueryLimit))
	if err != nil {
		return QueryResult{}, wrapErr(KindQuery, err)
	}
	defer cursor.Close(ctx)

	var documents []bson.D
	if err := cursor.All(ctx, &documents); err != nil {
		return QueryResult{}, wrapErr(KindQuery, err)
	}

	columns, rows := documentsToRows(documents)
	return QueryResult{
		Columns:         columns,
		Rows:            rows,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		TotalRows:       len(rows),
	}, nil
}

// documentsToRows flattens documents into a grid keyed by the union of field names.
func documentsToRows(documents []bson.D) ([]string, [][]string) {
	var columns []string
	pos := make(map[string]int)
	for _, doc := range documents {
		for _, field := range doc {
			if _, ok := pos[field.Key]; !ok {
				pos[field.Key] = len(columns)
				columns = append(columns, field.Key)
			}
		}
	}
	if i, ok := pos["_id"]; ok && i != 0 {
		columns = append([]string{"_id"}, append(columns[:i:i], columns[i+1:]...)...)
		for j, c := range columns {
			pos[c] = j
		}
	}

	rows := make([][]string, 0, len(documents))
	for _, doc := range documents {
		row := make([]string, len(columns))
		for i := range row {
			row[i] = "NULL"
		}
		for _, field := range doc {
			row[pos[field.Key]] = formatMongoValue(field.Value)
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// parseMongoQuery accepts `collection`, `collection {json}` or
// `db.collection.find({json})`.
func parseMongoQuery(query string) (string, bson.D, error) {
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	if query == "" {
		return "", nil, errors.New("empty query")
	}

	var collection, filterText string
	if strings.HasPrefix(query, "db.") {
		rest := query[len("db."):]
		i := strings.Index(rest, ".find(")
		if i < 0 || !strings.HasSuffix(rest, ")") {
			return "", nil, fmt.Errorf("unsupported query %q: expected db.<collection>.find({...})", query)
		}
		collection = rest[:i]
		filterText = strings.TrimSpace(rest[i+len(".find(") : len(rest)-1])
	} else {
		collection, filterText, _ = strings.Cut(query, " ")
		filterText = strings.TrimSpace(filterText)
	}

	if collection == "" {
		return "", nil, errors.New("collection name is required")
	}
	if filterText == "" {
		return collection, bson.D{}, nil
	}

	var filter bson.D
	if err := bson.UnmarshalExtJSON([]byte(filterText), false, &filter); err != nil {
		return "", nil, fmt.Errorf("invalid filter: %w", err)
	}
	return collection, filter, nil
}

func formatMongoValue(val any) string {
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case bson.D:
		return marshalMongoJSON(v.Map())
	case bson.A, bson.M, []any, map[string]any:
		return marshalMongoJSON(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func marshalMongoJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func getMongoType(val any) string {
	switch val.(type) {
	case string:
		return "string"
	case int32, int64:
		return "int"
	case float64:
		return "double"
	case bool:
		return "bool"
	case primitive.ObjectID:
		return "objectId"
	case primitive.DateTime:
		return "date"
	case bson.A, []any:
		return "array"
	case bson.D, bson.M, map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
