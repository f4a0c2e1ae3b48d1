package dataset

import (
	"math"
	"strings"
)

// Reducer computes one output value from the rows of a group.
type Reducer func(rows []Row) Value

// Agg names one aggregated output column.
type Agg struct {
	Name string
	Fn   Reducer
}

// GroupBy groups rows by the given key columns and applies each
// aggregation per group. Groups appear in first-seen row order; rows
// with a null in any key column are dropped, matching the grouped
// aggregation semantics the rollups rely on.
func GroupBy(t *Table, keys []string, aggs []Agg) *Table {
	cols := make([]string, 0, len(keys)+len(aggs))
	cols = append(cols, keys...)
	for _, a := range aggs {
		cols = append(cols, a.Name)
	}
	out := NewTable(cols...)

	index := make(map[string]int)
	var groups [][]Row
	var groupKeys []Row

rowLoop:
	for _, r := range t.rows {
		var sb strings.Builder
		keyRow := make(Row, len(keys))
		for _, k := range keys {
			v := r.Get(k)
			if v.IsNull() {
				continue rowLoop
			}
			keyRow[k] = v
			sb.WriteByte(byte(v.Kind()))
			sb.WriteString(v.Render())
			sb.WriteByte(0x1f)
		}
		key := sb.String()
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, nil)
			groupKeys = append(groupKeys, keyRow)
		}
		groups[gi] = append(groups[gi], r)
	}

	for gi, rows := range groups {
		res := groupKeys[gi].Clone()
		for _, a := range aggs {
			res[a.Name] = a.Fn(rows)
		}
		out.rows = append(out.rows, res)
	}
	return out
}

// Common reducers.

// CountRows counts the rows in the group.
func CountRows() Reducer {
	return func(rows []Row) Value { return Int(int64(len(rows))) }
}

// Sum adds the numeric values of a column; nulls are skipped. The
// result is integral when every contributing value was integral.
func Sum(col string) Reducer {
	return func(rows []Row) Value {
		var sum float64
		integral := true
		for _, r := range rows {
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			f, ok := v.AsFloat()
			if !ok {
				continue
			}
			if v.Kind() != KindInt && v.Kind() != KindBool {
				integral = false
			}
			sum += f
		}
		if integral && sum == math.Trunc(sum) {
			return Int(int64(sum))
		}
		return Float(sum)
	}
}

// CountEq counts rows whose column equals the given string.
func CountEq(col, want string) Reducer {
	return func(rows []Row) Value {
		var n int64
		for _, r := range rows {
			if r.Get(col).EqualString(want) {
				n++
			}
		}
		return Int(n)
	}
}

// Nunique counts distinct non-null values of a column.
func Nunique(col string) Reducer {
	return func(rows []Row) Value {
		seen := make(map[string]struct{})
		for _, r := range rows {
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			seen[v.Render()] = struct{}{}
		}
		return Int(int64(len(seen)))
	}
}

// First returns the first non-null value of a column.
func First(col string) Reducer {
	return func(rows []Row) Value {
		for _, r := range rows {
			if v := r.Get(col); !v.IsNull() {
				return v
			}
		}
		return Null()
	}
}

// Last returns the last non-null value of a column.
func Last(col string) Reducer {
	return func(rows []Row) Value {
		for i := len(rows) - 1; i >= 0; i-- {
			if v := rows[i].Get(col); !v.IsNull() {
				return v
			}
		}
		return Null()
	}
}

// Min returns the smallest non-null value of a column.
func Min(col string) Reducer {
	return func(rows []Row) Value {
		best := Null()
		for _, r := range rows {
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			if best.IsNull() || Compare(v, best) < 0 {
				best = v
			}
		}
		return best
	}
}

// Max returns the largest non-null value of a column.
func Max(col string) Reducer {
	return func(rows []Row) Value {
		best := Null()
		for _, r := range rows {
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			if best.IsNull() || Compare(v, best) > 0 {
				best = v
			}
		}
		return best
	}
}

// Mean averages the non-null numeric values of a column, optionally
// rounding to the given number of decimals (digits < 0 disables
// rounding). Groups without numeric values yield null.
func Mean(col string, digits int) Reducer {
	return func(rows []Row) Value {
		var sum float64
		var n int
		for _, r := range rows {
			if f, ok := r.Get(col).AsFloat(); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return Null()
		}
		return Float(Round(sum/float64(n), digits))
	}
}

// Collect renders the non-null values of a column as a bracketed list.
func Collect(col string) Reducer {
	return func(rows []Row) Value {
		var parts []string
		for _, r := range rows {
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			parts = append(parts, v.Render())
		}
		return String("[" + strings.Join(parts, ", ") + "]")
	}
}

// Round rounds half away from zero to the given decimals; digits < 0
// returns the input unchanged.
func Round(f float64, digits int) float64 {
	if digits < 0 {
		return f
	}
	pow := math.Pow(10, float64(digits))
	return math.Round(f*pow) / pow
}
