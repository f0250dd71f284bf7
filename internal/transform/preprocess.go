package transform

import (
	"fmt"
	"sort"

	"github.com/gyeh/admitstats/internal/table"
)

const (
	// rareCategoryShare is the frequency below which a category collapses
	// into "other", applied only above the cardinality threshold.
	rareCategoryShare = 0.01

	// cardinalityThreshold is the distinct-value count above which rare
	// categories are collapsed.
	cardinalityThreshold = 20
)

// PreprocessForModel prepares a feature table for model consumption:
// the target column (if named and present) is split out, numeric nulls are
// imputed with the column median, categorical nulls become "unknown",
// rare categories in high-cardinality columns collapse into "other", and
// every categorical column expands into indicator columns with one
// reference category dropped. Errors when a generated indicator name
// collides with an existing column.
func (tr *Transformer) PreprocessForModel(t *table.Table, targetColumn string) (*table.Table, []any, error) {
	out := t.Clone()
	if out.Empty() {
		return out, nil, nil
	}

	var target []any
	if targetColumn != "" && out.HasColumn(targetColumn) {
		target = make([]any, out.NumRows())
		for i := 0; i < out.NumRows(); i++ {
			target[i] = out.Value(i, targetColumn)
		}
		out = out.Drop(targetColumn)
	}

	var categorical []string
	for _, col := range out.Columns() {
		switch classifyColumn(out, col) {
		case colNumeric:
			imputeMedian(out, col)
		case colCategorical:
			fillNulls(out, col, "unknown")
			collapseRare(out, col)
			categorical = append(categorical, col)
		}
	}

	for _, col := range categorical {
		var err error
		out, err = encodeIndicators(out, col)
		if err != nil {
			return nil, nil, err
		}
	}
	return out, target, nil
}

type columnKind int

const (
	colOther columnKind = iota
	colNumeric
	colCategorical
)

// classifyColumn inspects cells: a column with any string cell is
// categorical; one whose non-null cells are all numeric is numeric;
// dates, booleans, and all-null columns pass through untouched.
func classifyColumn(t *table.Table, col string) columnKind {
	hasNumeric := false
	for i := 0; i < t.NumRows(); i++ {
		switch t.Value(i, col).(type) {
		case string:
			return colCategorical
		case int64, float64:
			hasNumeric = true
		}
	}
	if hasNumeric {
		return colNumeric
	}
	return colOther
}

// imputeMedian replaces null cells with the median of the column's non-null
// values. Integer columns stay integer.
func imputeMedian(t *table.Table, col string) {
	var vals []float64
	isInt := true
	for i := 0; i < t.NumRows(); i++ {
		v := t.Value(i, col)
		if v == nil {
			continue
		}
		if _, ok := v.(float64); ok {
			isInt = false
		}
		if f, ok := table.Float(v); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return
	}

	sort.Float64s(vals)
	var median float64
	if n := len(vals); n%2 == 1 {
		median = vals[n/2]
	} else {
		median = (vals[n/2-1] + vals[n/2]) / 2
	}

	var fill any = median
	if isInt {
		fill = int64(median)
	}
	fillNulls(t, col, fill)
}

// collapseRare folds categories with frequency below rareCategoryShare into
// "other", but only for columns with more than cardinalityThreshold
// distinct values.
func collapseRare(t *table.Table, col string) {
	freq := make(map[string]int)
	for i := 0; i < t.NumRows(); i++ {
		s, _ := table.String(t.Value(i, col))
		freq[s]++
	}
	if len(freq) <= cardinalityThreshold {
		return
	}

	cutoff := rareCategoryShare * float64(t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		s, _ := table.String(t.Value(i, col))
		if float64(freq[s]) < cutoff {
			t.Set(i, col, "other")
		}
	}
}

// encodeIndicators expands a categorical column into int64 indicator
// columns, one per category in sorted order with the first dropped as the
// reference, then removes the original column. A name collision between a
// generated indicator and an existing column is an error, not a silent
// skip.
func encodeIndicators(t *table.Table, col string) (*table.Table, error) {
	seen := make(map[string]bool)
	for i := 0; i < t.NumRows(); i++ {
		s, _ := table.String(t.Value(i, col))
		seen[s] = true
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	if len(cats) < 2 {
		return t.Drop(col), nil
	}

	for _, c := range cats[1:] {
		name := fmt.Sprintf("%s_%s", col, c)
		if err := t.AddColumn(name, int64(0)); err != nil {
			return nil, fmt.Errorf("encode column %s: %w", col, err)
		}
		for i := 0; i < t.NumRows(); i++ {
			if s, _ := table.String(t.Value(i, col)); s == c {
				if err := t.Set(i, name, int64(1)); err != nil {
					return nil, fmt.Errorf("encode column %s: %w", col, err)
				}
			}
		}
	}
	return t.Drop(col), nil
}
