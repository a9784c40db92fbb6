package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValueCount pairs a cell value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// ColumnProfile holds per-column statistics.
type ColumnProfile struct {
	Name     string
	Type     Type
	Nulls    int
	NullPct  float64 // one decimal place
	Distinct int

	// Numeric columns only; HasStats is false when every cell is null.
	HasStats bool
	Min      float64
	Max      float64
	Mean     float64
	Median   float64
	Std      float64

	// Text columns only: five most frequent values.
	TopValues []ValueCount
}

// ProfileColumns computes statistics for every column. Zero-row
// datasets are fine — every ratio against the row count special-cases
// the zero denominator.
func ProfileColumns(ds *Dataset) []ColumnProfile {
	rows := ds.NumRows()
	profiles := make([]ColumnProfile, 0, ds.NumCols())

	for i := range ds.Columns {
		col := &ds.Columns[i]
		p := ColumnProfile{
			Name:     col.Name,
			Type:     col.Type,
			Nulls:    col.nullCount(),
			Distinct: col.distinct(),
		}
		if rows > 0 {
			p.NullPct = math.Round(float64(p.Nulls)/float64(rows)*1000) / 10
		}

		if col.Type == TypeNumber {
			fillNumericStats(&p, col.numbers())
		} else {
			p.TopValues = topValues(col, 5)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func fillNumericStats(p *ColumnProfile, nums []float64) {
	if len(nums) == 0 {
		return // all null: stats absent, not a crash
	}
	p.HasStats = true

	p.Min = nums[0]
	p.Max = nums[0]
	sum := 0.0
	for _, f := range nums {
		if f < p.Min {
			p.Min = f
		}
		if f > p.Max {
			p.Max = f
		}
		sum += f
	}
	p.Mean = sum / float64(len(nums))

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		p.Median = sorted[mid]
	} else {
		p.Median = (sorted[mid-1] + sorted[mid]) / 2
	}

	if len(nums) > 1 {
		var ss float64
		for _, f := range nums {
			d := f - p.Mean
			ss += d * d
		}
		p.Std = math.Sqrt(ss / float64(len(nums)-1))
	}
}

func topValues(col *Column, n int) []ValueCount {
	counts := make(map[string]int)
	for _, v := range col.Values {
		if v.Null {
			continue
		}
		counts[v.Raw]++
	}

	out := make([]ValueCount, 0, len(counts))
	for val, c := range counts {
		out = append(out, ValueCount{Value: val, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Profile renders a readable dataset description for the AI context:
// shape, per-column stats, and the first three rows.
func Profile(ds *Dataset) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Shape: %d rows × %d columns\n", ds.NumRows(), ds.NumCols())

	for _, p := range ProfileColumns(ds) {
		missing := ""
		if p.Nulls > 0 {
			missing = fmt.Sprintf(" (%.1f%% missing)", p.NullPct)
		}
		fmt.Fprintf(&sb, "\n  %s [%s] — %d unique values%s\n", p.Name, p.Type, p.Distinct, missing)

		if p.HasStats {
			fmt.Fprintf(&sb, "    min=%.2f  mean=%.2f  median=%.2f  max=%.2f  std=%.2f\n",
				p.Min, p.Mean, p.Median, p.Max, p.Std)
		} else if len(p.TopValues) > 0 {
			parts := make([]string, 0, len(p.TopValues))
			for _, tv := range p.TopValues {
				parts = append(parts, fmt.Sprintf("%s (%d)", tv.Value, tv.Count))
			}
			fmt.Fprintf(&sb, "    top: %s\n", strings.Join(parts, ", "))
		}
	}

	if n := ds.NumRows(); n > 0 {
		sb.WriteString("\nSample (first 3 rows):\n")
		limit := 3
		if n < limit {
			limit = n
		}
		for r := 0; r < limit; r++ {
			parts := make([]string, 0, ds.NumCols())
			for _, col := range ds.Columns {
				cell := col.Values[r].Raw
				if col.Values[r].Null {
					cell = "null"
				}
				parts = append(parts, fmt.Sprintf("%s=%s", col.Name, cell))
			}
			fmt.Fprintf(&sb, "  %s\n", strings.Join(parts, ", "))
		}
	}
	return sb.String()
}
