// Package db implements the database collaborator: connect by
// connection string, inspect the schema for AI context, and run
// read queries.
//
// Two dialects are supported. PostgreSQL connects through a pgxpool;
// SQLite files go through database/sql with the modernc driver (pure
// Go, no cgo). The dialect is sniffed from the connection string so
// the caller never has to care.
package db

import (
	"context"
	"fmt"
	"strings"
)

// ColumnInfo describes a single column in a table.
type ColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
}

// TableSchema holds schema information for one table, including a
// small sample for AI context.
type TableSchema struct {
	Name       string
	Columns    []ColumnInfo
	RowCount   int64
	SampleCols []string
	SampleRows [][]string // first 3 rows
}

// Schema is the ordered set of tables in a database.
type Schema []TableSchema

// TotalRows sums the row counts of all tables.
func (s Schema) TotalRows() int64 {
	var total int64
	for _, t := range s {
		total += t.RowCount
	}
	return total
}

// QueryResult holds the output of an arbitrary SQL query.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Status   string
}

// Conn is an open database connection of either dialect.
type Conn interface {
	// InspectSchema returns tables, columns, row counts, and sample rows.
	InspectSchema(ctx context.Context) (Schema, error)

	// Query runs an arbitrary read query and collects the results.
	Query(ctx context.Context, sql string) (*QueryResult, error)

	// Close releases the underlying handle.
	Close()
}

// Connect opens a connection, picking the dialect from the string.
func Connect(ctx context.Context, dsn string) (Conn, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty connection string")
	}
	if isSQLite(dsn) {
		return connectSQLite(ctx, dsn)
	}
	return connectPostgres(ctx, dsn)
}

func isSQLite(dsn string) bool {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "sqlite:") || strings.HasPrefix(lower, "file:") {
		return true
	}
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FormatSchema renders the schema as readable text for the AI context.
func FormatSchema(schema Schema) string {
	var sb strings.Builder
	for _, t := range schema {
		fmt.Fprintf(&sb, "Table: %s (%d rows)\n", t.Name, t.RowCount)
		for _, col := range t.Columns {
			nullable := ""
			if col.Nullable {
				nullable = " (nullable)"
			}
			fmt.Fprintf(&sb, "  - %s: %s%s\n", col.Name, col.DataType, nullable)
		}
		for i, row := range t.SampleRows {
			parts := make([]string, 0, len(row))
			for j, cell := range row {
				name := ""
				if j < len(t.SampleCols) {
					name = t.SampleCols[j] + "="
				}
				parts = append(parts, name+cell)
			}
			fmt.Fprintf(&sb, "  Sample %d: %s\n", i+1, strings.Join(parts, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
