// Package rollup derives the aggregate tables from the flat event
// table. Every rollup is a pure, read-only transformation built on the
// dataset group-by primitive; the flat table is never mutated.
package rollup

import (
	"strings"

	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// ratioDigits is the rounding applied to derived ratios.
const ratioDigits = 3

// SafeRatio divides numerator by denominator with the dataset-wide
// zero policy: a zero denominator yields exactly 0, never NaN or an
// error value. Non-zero results are rounded to 3 decimals.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return dataset.Round(num/den, ratioDigits)
}

// safeRatioValue applies SafeRatio to two row values, treating nulls
// and non-numerics as zero.
func safeRatioValue(num, den dataset.Value) dataset.Value {
	n, _ := num.AsFloat()
	d, _ := den.AsFloat()
	return dataset.Float(SafeRatio(n, d))
}

// rowPred selects rows inside a group for conditional reducers.
type rowPred func(dataset.Row) bool

func eventIs(name string) rowPred {
	return func(r dataset.Row) bool { return r.Get(gen.ColEventName).EqualString(name) }
}

// countWhere counts group rows matching pred.
func countWhere(pred rowPred) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		var n int64
		for _, r := range rows {
			if pred(r) {
				n++
			}
		}
		return dataset.Int(n)
	}
}

// sumWhere sums a column over group rows matching pred. Missing and
// non-numeric values contribute zero.
func sumWhere(pred rowPred, col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		var sum float64
		for _, r := range rows {
			if !pred(r) {
				continue
			}
			if f, ok := r.Get(col).AsFloat(); ok {
				sum += f
			}
		}
		return dataset.Float(sum)
	}
}

// meanWhere averages a column over group rows matching pred; groups
// with no matching numeric values yield zero (count-like default).
func meanWhere(pred rowPred, col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		var sum float64
		var n int
		for _, r := range rows {
			if !pred(r) {
				continue
			}
			if f, ok := r.Get(col).AsFloat(); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return dataset.Float(0)
		}
		return dataset.Float(sum / float64(n))
	}
}

// nuniqueWhere counts distinct non-null column values over rows
// matching pred.
func nuniqueWhere(pred rowPred, col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		seen := make(map[string]struct{})
		for _, r := range rows {
			if !pred(r) {
				continue
			}
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			seen[v.Render()] = struct{}{}
		}
		return dataset.Int(int64(len(seen)))
	}
}

// minWhere returns the smallest non-null column value over rows
// matching pred, or null when none match.
func minWhere(pred rowPred, col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		best := dataset.Null()
		for _, r := range rows {
			if !pred(r) {
				continue
			}
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			if best.IsNull() || dataset.Compare(v, best) < 0 {
				best = v
			}
		}
		return best
	}
}

// collectWhere renders the non-null column values of rows matching
// pred as a bracketed list, in row order.
func collectWhere(pred rowPred, col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		var parts []string
		for _, r := range rows {
			if !pred(r) {
				continue
			}
			v := r.Get(col)
			if v.IsNull() {
				continue
			}
			parts = append(parts, v.Render())
		}
		return dataset.String("[" + strings.Join(parts, ", ") + "]")
	}
}

// zero returns a constant-zero reducer, used when an optional input
// column is absent and the output must default instead of failing.
func zero() dataset.Reducer {
	return func([]dataset.Row) dataset.Value { return dataset.Int(0) }
}
