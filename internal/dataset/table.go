package dataset

import "sort"

// Row maps column names to values. Missing columns read as null.
type Row map[string]Value

// Get returns the value for a column, or null when absent.
func (r Row) Get(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Null()
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered-column collection of rows. Column order is the
// order of first appearance, mirroring how the generators emit rows.
type Table struct {
	cols    []string
	colSeen map[string]struct{}
	rows    []Row
}

// NewTable creates a table with an optional predeclared column order.
func NewTable(cols ...string) *Table {
	t := &Table{colSeen: make(map[string]struct{}, len(cols))}
	for _, c := range cols {
		t.AddColumn(c)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// HasColumn reports whether a column exists. Rollups use this for
// schema-presence-dependent branching instead of probing rows.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.colSeen[col]
	return ok
}

// AddColumn registers a column at the end of the order if unseen.
func (t *Table) AddColumn(col string) {
	if _, ok := t.colSeen[col]; ok {
		return
	}
	t.colSeen[col] = struct{}{}
	t.cols = append(t.cols, col)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the backing row slice. Callers must not reorder it.
func (t *Table) Rows() []Row { return t.rows }

// Row returns the i-th row.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Append adds a row. The caller lists its column names in emission
// order; unseen ones are registered in that order. Map iteration is
// never used for column discovery, keeping the schema deterministic.
func (t *Table) Append(r Row, order ...string) {
	for _, c := range order {
		t.AddColumn(c)
	}
	t.rows = append(t.rows, r)
}

// SortStable sorts rows in place with a stable sort. Stability is part
// of the reproducibility contract for tie-breaking.
func (t *Table) SortStable(less func(a, b Row) bool) {
	sort.SliceStable(t.rows, func(i, j int) bool { return less(t.rows[i], t.rows[j]) })
}

// SortStableByColumns sorts rows ascending by the given columns.
func (t *Table) SortStableByColumns(cols ...string) {
	t.SortStable(func(a, b Row) bool {
		for _, c := range cols {
			if cmp := Compare(a.Get(c), b.Get(c)); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}

// Filter returns a new table sharing rows that satisfy pred, keeping
// the column order.
func (t *Table) Filter(pred func(Row) bool) *Table {
	out := NewTable(t.cols...)
	for _, r := range t.rows {
		if pred(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Select returns a table restricted to exactly the given columns in
// the given order. Rows are shared; absent columns read as null.
func (t *Table) Select(cols []string) *Table {
	out := NewTable(cols...)
	out.rows = t.rows
	return out
}

// DistinctValues returns the ordered distinct non-null values of a
// column, sorted ascending for deterministic wide-column layouts.
func (t *Table) DistinctValues(col string) []Value {
	seen := make(map[string]struct{})
	var out []Value
	for _, r := range t.rows {
		v := r.Get(col)
		if v.IsNull() {
			continue
		}
		key := v.Render()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}
