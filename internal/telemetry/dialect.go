// Package telemetry is an ambient, optional collaborator: it records
// highlighter session statistics (bytes parsed, spans emitted, cache hit
// rate) keyed by a content hash of the buffer being highlighted, so the
// same file content reuses its history across sessions. It is not part of
// the text-storage/highlighting core's contract; nothing in internal/
// buffer, piecetree, chunktree, or highlight depends on it.
package telemetry

import (
	"fmt"
	"strings"
)

// ColumnDef describes one column for dialect-aware CREATE TABLE
// generation.
type ColumnDef struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Dialect abstracts the handful of SQL differences between sqlite and
// postgres this package touches: column types, upsert syntax, and
// placeholder style.
type Dialect interface {
	Name() string
	CreateTableSQL(table string, columns []ColumnDef) string
	CreateIndexSQL(table, indexName string, columns []string, unique bool) string
	UpsertSQL(table string, columns, conflictColumns, updateColumns []string) string
	Placeholder(idx int) string
	InitStatements() []string
}

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite" }

func (SQLiteDialect) CreateTableSQL(table string, columns []ColumnDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (", table)
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", c.Name, sqliteColumnType(c.Type))
		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString(")")
	return b.String()
}

func sqliteColumnType(t string) string {
	switch t {
	case "bool":
		return "INTEGER"
	case "timestamp":
		return "DATETIME"
	default:
		return t
	}
}

func (SQLiteDialect) CreateIndexSQL(table, indexName string, columns []string, unique bool) string {
	kw := "INDEX"
	if unique {
		kw = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kw, indexName, table, strings.Join(columns, ", "))
}

func (SQLiteDialect) UpsertSQL(table string, columns, conflictColumns, updateColumns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	if len(updateColumns) == 0 {
		updateColumns = nonConflictColumns(columns, conflictColumns)
	}
	sets := make([]string, len(updateColumns))
	for i, c := range updateColumns {
		sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		strings.Join(conflictColumns, ", "), strings.Join(sets, ", "),
	)
}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}
}

// PostgresDialect targets github.com/lib/pq.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) CreateTableSQL(table string, columns []ColumnDef) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (", table)
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", c.Name, postgresColumnType(c.Type))
		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if c.NotNull {
			b.WriteString(" NOT NULL")
		}
	}
	b.WriteString(")")
	return b.String()
}

func postgresColumnType(t string) string {
	switch t {
	case "bool":
		return "BOOLEAN"
	case "timestamp":
		return "TIMESTAMPTZ"
	case "INTEGER":
		return "BIGINT"
	default:
		return t
	}
}

func (PostgresDialect) CreateIndexSQL(table, indexName string, columns []string, unique bool) string {
	kw := "INDEX"
	if unique {
		kw = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kw, indexName, table, strings.Join(columns, ", "))
}

func (PostgresDialect) UpsertSQL(table string, columns, conflictColumns, updateColumns []string) string {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	if len(updateColumns) == 0 {
		updateColumns = nonConflictColumns(columns, conflictColumns)
	}
	sets := make([]string, len(updateColumns))
	for i, c := range updateColumns {
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		strings.Join(conflictColumns, ", "), strings.Join(sets, ", "),
	)
}

func (PostgresDialect) Placeholder(idx int) string { return fmt.Sprintf("$%d", idx) }

func (PostgresDialect) InitStatements() []string { return nil }

func nonConflictColumns(columns, conflictColumns []string) []string {
	conflict := make(map[string]bool, len(conflictColumns))
	for _, c := range conflictColumns {
		conflict[c] = true
	}
	var out []string
	for _, c := range columns {
		if !conflict[c] {
			out = append(out, c)
		}
	}
	return out
}
