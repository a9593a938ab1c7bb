package telemetry

import "testing"

func TestSQLiteCreateTableSQL(t *testing.T) {
	d := SQLiteDialect{}
	got := d.CreateTableSQL("events", []ColumnDef{
		{Name: "id", Type: "TEXT", PrimaryKey: true},
		{Name: "hit", Type: "bool", NotNull: true},
	})
	want := "CREATE TABLE IF NOT EXISTS events (id TEXT PRIMARY KEY, hit INTEGER NOT NULL)"
	if got != want {
		t.Fatalf("CreateTableSQL = %q, want %q", got, want)
	}
}

func TestPostgresCreateTableSQL(t *testing.T) {
	d := PostgresDialect{}
	got := d.CreateTableSQL("events", []ColumnDef{
		{Name: "id", Type: "TEXT", PrimaryKey: true},
		{Name: "hit", Type: "bool", NotNull: true},
	})
	want := "CREATE TABLE IF NOT EXISTS events (id TEXT PRIMARY KEY, hit BOOLEAN NOT NULL)"
	if got != want {
		t.Fatalf("CreateTableSQL = %q, want %q", got, want)
	}
}

func TestSQLiteUpsertSQLUsesQuestionMarks(t *testing.T) {
	d := SQLiteDialect{}
	got := d.UpsertSQL("events", []string{"id", "count"}, []string{"id"}, nil)
	want := "INSERT INTO events (id, count) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET count = excluded.count"
	if got != want {
		t.Fatalf("UpsertSQL = %q, want %q", got, want)
	}
}

func TestPostgresUpsertSQLUsesNumberedPlaceholders(t *testing.T) {
	d := PostgresDialect{}
	got := d.UpsertSQL("events", []string{"id", "count"}, []string{"id"}, nil)
	want := "INSERT INTO events (id, count) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET count = EXCLUDED.count"
	if got != want {
		t.Fatalf("UpsertSQL = %q, want %q", got, want)
	}
}

func TestCreateIndexSQLUnique(t *testing.T) {
	d := SQLiteDialect{}
	got := d.CreateIndexSQL("events", "idx_events_hash", []string{"content_hash"}, true)
	want := "CREATE UNIQUE INDEX IF NOT EXISTS idx_events_hash ON events (content_hash)"
	if got != want {
		t.Fatalf("CreateIndexSQL = %q, want %q", got, want)
	}
}

func TestPlaceholder(t *testing.T) {
	if got := (SQLiteDialect{}).Placeholder(3); got != "?" {
		t.Fatalf("SQLiteDialect.Placeholder(3) = %q, want %q", got, "?")
	}
	if got := (PostgresDialect{}).Placeholder(3); got != "$3" {
		t.Fatalf("PostgresDialect.Placeholder(3) = %q, want %q", got, "$3")
	}
}

func TestNonConflictColumns(t *testing.T) {
	got := nonConflictColumns([]string{"id", "a", "b"}, []string{"id"})
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("nonConflictColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("nonConflictColumns = %v, want %v", got, want)
		}
	}
}
