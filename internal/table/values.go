package table

import "time"

// Compare orders two cell values ascending. Nulls sort before everything.
// Numeric cells (int64, float64) compare across types; otherwise values are
// compared within their own type.
func Compare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if fa, aok := numeric(a); aok {
		if fb, bok := numeric(b); bok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			switch {
			case x.Before(y):
				return -1
			case x.After(y):
				return 1
			}
			return 0
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case !x && y:
				return -1
			case x && !y:
				return 1
			}
			return 0
		}
	}
	return 0
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// String extracts a string cell. Returns "" and false for nulls and other types.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Time extracts a time cell.
func Time(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// Int extracts an integer cell, accepting float64 cells with integral values.
func Int(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		return int64(x), true
	}
	return 0, false
}

// Float extracts a numeric cell as float64.
func Float(v any) (float64, bool) {
	return numeric(v)
}

// Bool extracts a boolean cell.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
