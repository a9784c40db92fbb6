package dataset

import "strings"

// targetHints are name substrings that commonly mark a prediction
// target. Matched case-insensitively against column names.
var targetHints = []string{
	"target", "label", "class", "churn", "outcome", "result",
	"price", "sales", "revenue", "predict", "y", "status",
}

// SuggestTargets returns likely prediction target columns.
//
// First pass: columns whose lowercased name contains a hint substring.
// Only when that yields nothing, fall back to low-cardinality columns
// (distinct/rows < 0.05 and at most 20 distinct values), which usually
// indicates a categorical label. The passes are never combined.
func SuggestTargets(ds *Dataset) []string {
	var candidates []string
	for _, col := range ds.Columns {
		lower := strings.ToLower(col.Name)
		for _, hint := range targetHints {
			if strings.Contains(lower, hint) {
				candidates = append(candidates, col.Name)
				break
			}
		}
	}
	if len(candidates) > 0 {
		return candidates
	}

	rows := ds.NumRows()
	if rows == 0 {
		return nil
	}
	for i := range ds.Columns {
		col := &ds.Columns[i]
		distinct := col.distinct()
		ratio := float64(distinct) / float64(rows)
		if ratio < 0.05 && distinct <= 20 {
			candidates = append(candidates, col.Name)
		}
	}
	return candidates
}
