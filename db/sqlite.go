package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteConn wraps a database/sql handle on the modernc driver.
type sqliteConn struct {
	db *sql.DB
}

var _ Conn = (*sqliteConn)(nil)

func connectSQLite(ctx context.Context, dsn string) (Conn, error) {
	path := dsn
	for _, prefix := range []string{"sqlite://", "sqlite:"} {
		if strings.HasPrefix(strings.ToLower(path), prefix) {
			path = path[len(prefix):]
			break
		}
	}

	handle, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return &sqliteConn{db: handle}, nil
}

func (c *sqliteConn) Close() {
	c.db.Close()
}

func (c *sqliteConn) InspectSchema(ctx context.Context) (Schema, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schema := make(Schema, 0, len(names))
	for _, name := range names {
		ts, err := c.inspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", name, err)
		}
		schema = append(schema, ts)
	}
	return schema, nil
}

func (c *sqliteConn) inspectTable(ctx context.Context, table string) (TableSchema, error) {
	ts := TableSchema{Name: table}
	ident := quoteIdent(table)

	rows, err := c.db.QueryContext(ctx, "PRAGMA table_info("+ident+")")
	if err != nil {
		return ts, err
	}
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return ts, err
		}
		ts.Columns = append(ts.Columns, ColumnInfo{
			Name:     name,
			DataType: ctype,
			Nullable: notNull == 0,
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ts, err
	}

	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+ident).Scan(&ts.RowCount); err != nil {
		return ts, err
	}

	sample, err := c.Query(ctx, "SELECT * FROM "+ident+" LIMIT 3")
	if err != nil {
		return ts, err
	}
	ts.SampleCols = sample.Columns
	ts.SampleRows = sample.Rows
	return ts, nil
}

func (c *sqliteConn) Query(ctx context.Context, query string) (*QueryResult, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Columns: cols}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, cell := range cells {
			if cell.Valid {
				row[i] = cell.String
			} else {
				row[i] = "null"
			}
		}
		result.Rows = append(result.Rows, row)
		result.RowCount++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.Status = fmt.Sprintf("(%d row%s)", result.RowCount, plural(result.RowCount))
	return result, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
