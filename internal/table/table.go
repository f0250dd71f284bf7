// Package table provides the in-memory tabular form that flows between the
// extract, transform, and load stages. A Table is an ordered set of named
// columns over rows of nullable values. Supported cell types are string,
// int64, float64, bool, and time.Time; a nil cell is a null.
package table

import (
	"fmt"
	"sort"
	"time"
)

// Table holds rows in column order. Stages never mutate a received Table in
// place; each stage returns a fresh one.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]any
}

// New creates an empty table with the given column names.
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the subset of names not present in the table.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// AppendRow adds a row. The value count must match the column count.
func (t *Table) AppendRow(vals ...any) error {
	if len(vals) != len(t.cols) {
		return fmt.Errorf("append row: got %d values, table has %d columns", len(vals), len(t.cols))
	}
	t.rows = append(t.rows, append([]any(nil), vals...))
	return nil
}

// MustAppendRow is AppendRow for callers that construct rows from the table's
// own column list and cannot mismatch.
func (t *Table) MustAppendRow(vals ...any) {
	if err := t.AppendRow(vals...); err != nil {
		panic(err)
	}
}

// Row returns the i-th row. The slice is owned by the table.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns the cell at row i, named column. Returns nil for an unknown
// column, which keeps lookups on optional columns null-safe.
func (t *Table) Value(i int, col string) any {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	return t.rows[i][j]
}

// Set overwrites the cell at row i, named column.
func (t *Table) Set(i int, col string, v any) error {
	j, ok := t.index[col]
	if !ok {
		return fmt.Errorf("set: unknown column %q", col)
	}
	t.rows[i][j] = v
	return nil
}

// AddColumn appends a new column filled with the given value for every
// existing row. Adding an existing column is an error.
func (t *Table) AddColumn(name string, fill any) error {
	if t.HasColumn(name) {
		return fmt.Errorf("add column: %q already exists", name)
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]any, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]any(nil), r...)
	}
	return out
}

// Select returns a new table holding only the named columns, in the given
// order. Unknown names are an error.
func (t *Table) Select(names ...string) (*Table, error) {
	if missing := t.MissingColumns(names...); len(missing) > 0 {
		return nil, fmt.Errorf("select: unknown columns %v", missing)
	}
	out := New(names...)
	for _, r := range t.rows {
		vals := make([]any, len(names))
		for i, n := range names {
			vals[i] = r[t.index[n]]
		}
		out.rows = append(out.rows, vals)
	}
	return out, nil
}

// Drop returns a new table without the named columns. Names not present are
// ignored, so callers can drop optional columns unconditionally.
func (t *Table) Drop(names ...string) *Table {
	dropping := make(map[string]bool, len(names))
	for _, n := range names {
		dropping[n] = true
	}
	var keep []string
	for _, c := range t.cols {
		if !dropping[c] {
			keep = append(keep, c)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Rename changes a column's name in place. Renaming a missing column or
// onto an existing name is an error.
func (t *Table) Rename(from, to string) error {
	j, ok := t.index[from]
	if !ok {
		return fmt.Errorf("rename: unknown column %q", from)
	}
	if t.HasColumn(to) {
		return fmt.Errorf("rename: column %q already exists", to)
	}
	delete(t.index, from)
	t.index[to] = j
	t.cols[j] = to
	return nil
}

// SortBy returns a new table with rows stably sorted ascending by the given
// columns. Nulls order before non-nulls.
func (t *Table) SortBy(cols ...string) (*Table, error) {
	if missing := t.MissingColumns(cols...); len(missing) > 0 {
		return nil, fmt.Errorf("sort: unknown columns %v", missing)
	}
	out := t.Clone()
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = out.index[c]
	}
	sort.SliceStable(out.rows, func(a, b int) bool {
		for _, j := range idx {
			if c := Compare(out.rows[a][j], out.rows[b][j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

// LeftJoin returns a new table with every row of t, augmented with the
// columns of right (minus the key) from the first right row whose key cell
// equals the left key cell. Unmatched left rows get nulls. Right columns
// whose names already exist on the left are skipped.
func (t *Table) LeftJoin(right *Table, on string) (*Table, error) {
	if !t.HasColumn(on) {
		return nil, fmt.Errorf("left join: left table missing key column %q", on)
	}
	if !right.HasColumn(on) {
		return nil, fmt.Errorf("left join: right table missing key column %q", on)
	}

	var rightCols []string
	for _, c := range right.cols {
		if c != on && !t.HasColumn(c) {
			rightCols = append(rightCols, c)
		}
	}

	lookup := make(map[string]int, right.NumRows())
	rightKey := right.index[on]
	for i := len(right.rows) - 1; i >= 0; i-- {
		k := keyString(right.rows[i][rightKey])
		if k != "" {
			lookup[k] = i
		}
	}

	out := New(append(t.Columns(), rightCols...)...)
	leftKey := t.index[on]
	for _, r := range t.rows {
		vals := append([]any(nil), r...)
		ri, matched := lookup[keyString(r[leftKey])]
		for _, c := range rightCols {
			if matched {
				vals = append(vals, right.rows[ri][right.index[c]])
			} else {
				vals = append(vals, nil)
			}
		}
		out.rows = append(out.rows, vals)
	}
	return out, nil
}

// CountBy returns a two-column table (by, as) with the number of rows per
// distinct non-null value of the by column, in first-seen order.
func (t *Table) CountBy(by, as string) (*Table, error) {
	if !t.HasColumn(by) {
		return nil, fmt.Errorf("count by: unknown column %q", by)
	}
	j := t.index[by]
	counts := make(map[string]int64)
	var order []string
	keyVals := make(map[string]any)
	for _, r := range t.rows {
		v := r[j]
		if v == nil {
			continue
		}
		k := keyString(v)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			keyVals[k] = v
		}
		counts[k]++
	}
	out := New(by, as)
	for _, k := range order {
		out.rows = append(out.rows, []any{keyVals[k], counts[k]})
	}
	return out, nil
}

// keyString renders a cell value as a join/group key. Nulls map to "".
func keyString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return fmt.Sprintf("i:%d", x)
	case float64:
		return fmt.Sprintf("f:%g", x)
	case bool:
		return fmt.Sprintf("b:%t", x)
	case time.Time:
		return "t:" + x.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", x)
	}
}
