package telemetry

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaBuilder issues dialect-aware DDL and upserts against db. It mirrors
// the query-builder shape used elsewhere in this codebase for SQL
// generation, narrowed to the handful of statements telemetry needs.
type SchemaBuilder struct {
	db      *sql.DB
	dialect Dialect
}

// NewSchemaBuilder returns a SchemaBuilder bound to db and dialect.
func NewSchemaBuilder(db *sql.DB, dialect Dialect) *SchemaBuilder {
	return &SchemaBuilder{db: db, dialect: dialect}
}

// RunInitStatements executes the dialect's one-time setup statements
// (pragmas, session settings). Safe to call on every open.
func (s *SchemaBuilder) RunInitStatements(ctx context.Context) error {
	for _, stmt := range s.dialect.InitStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("telemetry: init statement %q: %w", stmt, err)
		}
	}
	return nil
}

// CreateTable issues CREATE TABLE IF NOT EXISTS for table with columns.
func (s *SchemaBuilder) CreateTable(ctx context.Context, table string, columns []ColumnDef) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTableSQL(table, columns)); err != nil {
		return fmt.Errorf("telemetry: create table %s: %w", table, err)
	}
	return nil
}

// CreateIndex issues CREATE INDEX IF NOT EXISTS on table over columns.
func (s *SchemaBuilder) CreateIndex(ctx context.Context, table, indexName string, columns []string, unique bool) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateIndexSQL(table, indexName, columns, unique)); err != nil {
		return fmt.Errorf("telemetry: create index %s: %w", indexName, err)
	}
	return nil
}

// Upsert inserts values into table's columns, updating updateColumns (or
// every non-conflict column, if updateColumns is empty) on a conflict over
// conflictColumns.
func (s *SchemaBuilder) Upsert(ctx context.Context, table string, columns, conflictColumns, updateColumns []string, values ...any) (sql.Result, error) {
	query := s.dialect.UpsertSQL(table, columns, conflictColumns, updateColumns)
	res, err := s.db.ExecContext(ctx, query, values...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: upsert into %s: %w", table, err)
	}
	return res, nil
}

// QueryBuilder issues parameterized SELECTs against a single table, using
// the dialect's placeholder style.
type QueryBuilder struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// NewQueryBuilder returns a QueryBuilder reading from table.
func NewQueryBuilder(db *sql.DB, dialect Dialect, table string) *QueryBuilder {
	return &QueryBuilder{db: db, dialect: dialect, table: table}
}

// SelectWhere runs "SELECT <columns> FROM <table> WHERE <whereCol> = ?"
// (placeholder style per dialect) and returns the resulting rows. Callers
// must close the returned *sql.Rows.
func (q *QueryBuilder) SelectWhere(ctx context.Context, columns []string, whereCol string, arg any) (*sql.Rows, error) {
	cols := joinColumns(columns)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", cols, q.table, whereCol, q.dialect.Placeholder(1))
	rows, err := q.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: select from %s: %w", q.table, err)
	}
	return rows, nil
}

func joinColumns(columns []string) string {
	out := ""
	for i, c := range columns {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
