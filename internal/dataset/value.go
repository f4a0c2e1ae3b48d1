// Package dataset provides a small in-memory table with nullable typed
// values and a grouped-aggregation primitive. All derived tables are
// built on it so the rollups stay uniform and testable in isolation.
package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies which slot of a Value is populated.
type Kind uint8

// Value kinds. Exactly one non-null slot is populated per value.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
	KindDate
)

// Timestamp render layouts.
const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05Z07:00"
)

// Value is a tagged variant holding one of: null, bool, int, float,
// string, timestamp, or calendar date.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Constructors.

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating-point number.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Time wraps a timestamp.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Date wraps a calendar date; the time part is truncated to midnight UTC.
func Date(t time.Time) Value {
	u := t.UTC()
	return Value{kind: KindDate, t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// FromAny classifies an arbitrary runtime value into a Value.
// Inspection order is bool -> integer -> float -> fallback-to-string;
// booleans must be checked before integers.
func FromAny(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case time.Time:
		return Time(x)
	case string:
		return String(x)
	default:
		return String(stringify(v))
	}
}

func stringify(v interface{}) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// Kind returns the populated slot of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean slot.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt returns the value as an integer when it is integral.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == float64(int64(v.f)) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// AsFloat returns the value as a float, coercing integers and booleans.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsString returns the string slot.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsTime returns the timestamp or date slot.
func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindTime && v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// Equal reports value equality across coercible numeric kinds.
func (v Value) Equal(o Value) bool {
	return Compare(v, o) == 0 && (v.kind == KindNull) == (o.kind == KindNull)
}

// EqualString reports whether the value is the given string.
func (v Value) EqualString(s string) bool {
	got, ok := v.AsString()
	return ok && got == s
}

// Render formats the value for CSV output. Null renders as empty.
func (v Value) Render() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(timeLayout)
	case KindDate:
		return v.t.Format(dateLayout)
	}
	return ""
}

// kindRank orders kinds for cross-kind comparison: null < bool < numeric
// < string < time/date.
func kindRank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindTime, KindDate:
		return 4
	}
	return 5
}

// Compare imposes a total order on values: nulls sort first, numerics
// compare across int/float, times chronologically, strings bytewise.
func Compare(a, b Value) int {
	ra, rb := kindRank(a.kind), kindRank(b.kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 0:
		return 0
	case 1:
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	case 2:
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case 3:
		return strings.Compare(a.s, b.s)
	default:
		switch {
		case a.t.Before(b.t):
			return -1
		case a.t.After(b.t):
			return 1
		default:
			return 0
		}
	}
}
