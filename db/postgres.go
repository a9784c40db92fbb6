package db

import (
	"context"
	"fmt"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresConn wraps a pgx connection pool.
type postgresConn struct {
	pool *pgxpool.Pool
}

var _ Conn = (*postgresConn)(nil)

func connectPostgres(ctx context.Context, dsn string) (Conn, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	return &postgresConn{pool: pool}, nil
}

func (c *postgresConn) Close() {
	c.pool.Close()
}

func (c *postgresConn) InspectSchema(ctx context.Context) (Schema, error) {
	const listSQL = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := c.pool.Query(ctx, listSQL)
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

func (c *postgresConn) inspectTable(ctx context.Context, table string) (TableSchema, error) {
	ts := TableSchema{Name: table}

	const colSQL = `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position`
	rows, err := c.pool.Query(ctx, colSQL, table)
	if err != nil {
		return ts, err
	}
	for rows.Next() {
		var col ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable); err != nil {
			rows.Close()
			return ts, err
		}
		col.Nullable = nullable == "YES"
		ts.Columns = append(ts.Columns, col)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ts, err
	}

	ident := pgx.Identifier{table}.Sanitize()
	if err := c.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+ident).Scan(&ts.RowCount); err != nil {
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

func (c *postgresConn) Query(ctx context.Context, sql string) (*QueryResult, error) {
	rows, err := c.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &QueryResult{}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				row[i] = "null"
				continue
			}
			row[i] = fmt.Sprintf("%v", v)
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
