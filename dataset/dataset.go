// Package dataset implements the in-memory tabular dataset: file
// loading by extension, column-level profiling, and the target-column
// suggestion heuristic.
package dataset

import (
	"strconv"
	"strings"
)

// Type classifies a column's contents.
type Type int

const (
	TypeText Type = iota
	TypeNumber
)

func (t Type) String() string {
	if t == TypeNumber {
		return "number"
	}
	return "text"
}

// Value is one cell. Null cells keep Raw empty.
type Value struct {
	Raw  string
	Null bool
}

// Column is a named, typed column stored as a value vector.
type Column struct {
	Name   string
	Type   Type
	Values []Value
}

// Dataset holds an entire loaded table in columnar form.
type Dataset struct {
	Source  string
	Columns []Column
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// NumCols returns the column count.
func (d *Dataset) NumCols() int {
	return len(d.Columns)
}

// fromRows builds a dataset from a header and string rows, treating
// empty cells as null and inferring column types.
func fromRows(source string, header []string, rows [][]string) *Dataset {
	ds := &Dataset{Source: source}
	for i, name := range header {
		col := Column{Name: name, Values: make([]Value, 0, len(rows))}
		for _, row := range rows {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if cell == "" {
				col.Values = append(col.Values, Value{Null: true})
			} else {
				col.Values = append(col.Values, Value{Raw: cell})
			}
		}
		col.Type = inferType(col.Values)
		ds.Columns = append(ds.Columns, col)
	}
	return ds
}

// inferType returns TypeNumber when every non-null value parses as a
// float. An all-null column stays text.
func inferType(values []Value) Type {
	seen := false
	for _, v := range values {
		if v.Null {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64); err != nil {
			return TypeText
		}
	}
	if !seen {
		return TypeText
	}
	return TypeNumber
}

// numbers returns the parsed non-null values of a numeric column.
func (c *Column) numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.Null {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// distinct returns the number of distinct non-null values.
func (c *Column) distinct() int {
	seen := make(map[string]struct{}, len(c.Values))
	for _, v := range c.Values {
		if v.Null {
			continue
		}
		seen[v.Raw] = struct{}{}
	}
	return len(seen)
}

// nullCount returns the number of null cells.
func (c *Column) nullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Null {
			n++
		}
	}
	return n
}
