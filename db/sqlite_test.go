package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSQLite creates a database file with a small users table.
func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	handle, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer handle.Close()

	_, err = handle.Exec(`
		CREATE TABLE users (
			id   INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			age  INTEGER
		);
		INSERT INTO users (name, age) VALUES ('alice', 30), ('bob', NULL);
	`)
	require.NoError(t, err)
	return path
}

func TestIsSQLite(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"/data/app.db", true},
		{"test.sqlite", true},
		{"test.sqlite3", true},
		{"sqlite:///data/app.db", true},
		{"file:app.db", true},
		{"postgres://localhost/mydb", false},
		{"host=localhost dbname=mydb", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, isSQLite(tt.dsn))
		})
	}
}

func TestSQLite_InspectSchema(t *testing.T) {
	path := seedSQLite(t)
	ctx := context.Background()

	conn, err := Connect(ctx, path)
	require.NoError(t, err)
	defer conn.Close()

	schema, err := conn.InspectSchema(ctx)
	require.NoError(t, err)
	require.Len(t, schema, 1)

	table := schema[0]
	assert.Equal(t, "users", table.Name)
	assert.Equal(t, int64(2), table.RowCount)
	require.Len(t, table.Columns, 3)
	assert.Equal(t, ColumnInfo{Name: "name", DataType: "TEXT", Nullable: false}, table.Columns[1])
	assert.True(t, table.Columns[2].Nullable)

	assert.Equal(t, []string{"id", "name", "age"}, table.SampleCols)
	require.Len(t, table.SampleRows, 2)

	assert.Equal(t, int64(2), schema.TotalRows())
}

func TestSQLite_Query(t *testing.T) {
	path := seedSQLite(t)
	ctx := context.Background()

	conn, err := Connect(ctx, "sqlite://"+path)
	require.NoError(t, err)
	defer conn.Close()

	res, err := conn.Query(ctx, "SELECT name, age FROM users ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, res.Columns)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, []string{"alice", "30"}, res.Rows[0])
	// NULL cells render as the literal "null".
	assert.Equal(t, []string{"bob", "null"}, res.Rows[1])
	assert.Equal(t, "(2 rows)", res.Status)
}

func TestSQLite_QueryError(t *testing.T) {
	path := seedSQLite(t)
	ctx := context.Background()

	conn, err := Connect(ctx, path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Query(ctx, "SELECT * FROM missing_table")
	assert.Error(t, err)
}

func TestFormatSchema(t *testing.T) {
	schema := Schema{
		{
			Name:     "users",
			RowCount: 42,
			Columns: []ColumnInfo{
				{Name: "id", DataType: "INTEGER", Nullable: false},
				{Name: "email", DataType: "TEXT", Nullable: true},
			},
			SampleCols: []string{"id", "email"},
			SampleRows: [][]string{{"1", "a@example.com"}},
		},
	}

	out := FormatSchema(schema)
	assert.Contains(t, out, "Table: users (42 rows)")
	assert.Contains(t, out, "- id: INTEGER")
	assert.Contains(t, out, "- email: TEXT (nullable)")
	assert.Contains(t, out, "a@example.com")
}
